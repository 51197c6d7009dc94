package repositories

import "inkwell/app/models"

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id int) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
}

// PostRepository defines the interface for post data access. Mutations
// are atomic: the post row, its slug index, tag upserts, and tag links
// all commit or roll back together.
type PostRepository interface {
	Create(post *models.Post, tags []string) error
	GetByID(id int) (*models.Post, error)
	GetBySlug(slug string) (*models.Post, error)
	List(filter models.ListFilter) (int, []*models.Post, error)
	Update(post *models.Post, tags []string) error
	Delete(id int) error
}

// TagRepository defines the interface for tag data access
type TagRepository interface {
	ListWithCounts() ([]models.TagCount, error)
}
