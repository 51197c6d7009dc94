package services

import (
	"inkwell/app/models"
	"inkwell/app/repositories"
)

// TagService exposes the tag listing used by the tag cloud.
type TagService struct {
	tags repositories.TagRepository
}

// NewTagService creates a new TagService
func NewTagService(tags repositories.TagRepository) *TagService {
	return &TagService{tags: tags}
}

// List returns every tag that has at least one linked post, with counts.
func (s *TagService) List() ([]models.TagCount, error) {
	counts, err := s.tags.ListWithCounts()
	if err != nil {
		return nil, err
	}
	if counts == nil {
		counts = []models.TagCount{}
	}
	return counts, nil
}
