package services

import (
	"fmt"

	"inkwell/app/models"
	"inkwell/app/repositories"
)

// PostService handles business logic for blog posts
type PostService struct {
	posts repositories.PostRepository
}

// NewPostService creates a new PostService
func NewPostService(posts repositories.PostRepository) *PostService {
	return &PostService{posts: posts}
}

// Create validates the payload, resolves the slug, and persists the post
// with its tag set in one transaction.
func (s *PostService) Create(in *models.PostIn) (*models.PostOut, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("invalid post: %w", err)
	}

	post := &models.Post{
		Title:     in.Title,
		Slug:      resolveSlug(in),
		Content:   in.Content,
		Excerpt:   in.Excerpt,
		Published: in.IsPublished(),
	}
	if err := s.posts.Create(post, in.Tags); err != nil {
		return nil, err
	}
	return post.Out(), nil
}

// Update overwrites an existing post. The slug is recomputed with the
// same rules as create and the tag set is fully replaced.
func (s *PostService) Update(id int, in *models.PostIn) (*models.PostOut, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("invalid post: %w", err)
	}

	post := &models.Post{
		ID:        id,
		Title:     in.Title,
		Slug:      resolveSlug(in),
		Content:   in.Content,
		Excerpt:   in.Excerpt,
		Published: in.IsPublished(),
	}
	if err := s.posts.Update(post, in.Tags); err != nil {
		return nil, err
	}
	return post.Out(), nil
}

// Delete removes a post by id. A second delete of the same id reports
// ErrNotFound like the first call would for a missing post.
func (s *PostService) Delete(id int) error {
	return s.posts.Delete(id)
}

// List returns the filtered, sorted page of posts along with the total
// match count before pagination.
func (s *PostService) List(filter models.ListFilter) (*models.PostList, error) {
	total, posts, err := s.posts.List(filter)
	if err != nil {
		return nil, err
	}

	items := make([]*models.PostOut, 0, len(posts))
	for _, p := range posts {
		items = append(items, p.Out())
	}
	return &models.PostList{Total: total, Items: items}, nil
}

// GetBySlug returns the post with the given slug. Unpublished posts are
// readable by slug as well.
func (s *PostService) GetBySlug(slug string) (*models.PostOut, error) {
	post, err := s.posts.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	return post.Out(), nil
}

func resolveSlug(in *models.PostIn) string {
	if in.Slug != "" {
		return in.Slug
	}
	return Slugify(in.Title)
}
