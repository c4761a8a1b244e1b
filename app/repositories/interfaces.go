package repositories

import "postsapi/app/models"

// PostRepository defines the interface for post data access.
// Implementations keep posts in creation order and hand out copies.
type PostRepository interface {
	Create(post *models.Post) error
	GetByID(id string) (*models.Post, error)
	List() ([]*models.Post, error)
	Update(post *models.Post) error
	Delete(id string) error
	Close() error
}
