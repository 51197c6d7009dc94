package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// PostIn is the payload accepted by the create and update endpoints.
// Slug is optional; when empty the service derives one from the title.
// Published defaults to true when the field is absent.
type PostIn struct {
	Title     string   `json:"title" validate:"required,max=200"`
	Slug      string   `json:"slug" validate:"max=220"`
	Content   string   `json:"content_md" validate:"required"`
	Excerpt   string   `json:"excerpt" validate:"max=300"`
	Published *bool    `json:"is_published"`
	Tags      []string `json:"tags" validate:"dive,required,max=50"`
}

// Validate checks the payload against its field constraints.
func (in *PostIn) Validate() error {
	return validate.Struct(in)
}

// IsPublished resolves the optional publish flag.
func (in *PostIn) IsPublished() bool {
	if in.Published == nil {
		return true
	}
	return *in.Published
}

// PostOut is the wire representation of a post with its resolved tag names.
type PostOut struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Content   string    `json:"content_md"`
	Excerpt   string    `json:"excerpt"`
	Published bool      `json:"is_published"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostList is a page of posts plus the total match count before pagination.
type PostList struct {
	Total int        `json:"total"`
	Items []*PostOut `json:"items"`
}

// ListFilter narrows and pages a post listing. Query matches the title
// case-insensitively as a substring; Tag is an exact tag name. Sort is
// "oldest" for ascending creation time, anything else means newest first.
type ListFilter struct {
	Query  string
	Tag    string
	Sort   string
	Offset int
	Limit  int
}

// Out converts a stored post to its wire representation.
func (p *Post) Out() *PostOut {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return &PostOut{
		ID:        p.ID,
		Title:     p.Title,
		Slug:      p.Slug,
		Content:   p.Content,
		Excerpt:   p.Excerpt,
		Published: p.Published,
		Tags:      tags,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// BeforeCreate sets up timestamps before the post is first persisted.
func (p *Post) BeforeCreate() {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	p.UpdatedAt = p.CreatedAt
}

// BeforeUpdate refreshes the update timestamp.
func (p *Post) BeforeUpdate() {
	p.UpdatedAt = time.Now()
}
