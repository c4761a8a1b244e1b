package repositories

import (
	"sync"

	"postsapi/app/models"
)

// MemoryPostRepository keeps posts in a slice ordered by creation.
// Lookups are linear scans.
type MemoryPostRepository struct {
	posts []*models.Post
	mutex sync.RWMutex
}

// NewMemoryPostRepository creates an empty MemoryPostRepository
func NewMemoryPostRepository() *MemoryPostRepository {
	return &MemoryPostRepository{posts: []*models.Post{}}
}

// Create appends a post
func (r *MemoryPostRepository) Create(post *models.Post) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.indexOf(post.ID) != -1 {
		return ErrDuplicateID
	}
	r.posts = append(r.posts, post.Clone())
	return nil
}

// GetByID retrieves a post by ID
func (r *MemoryPostRepository) GetByID(id string) (*models.Post, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	i := r.indexOf(id)
	if i == -1 {
		return nil, ErrNotFound
	}
	return r.posts[i].Clone(), nil
}

// List returns every post in creation order
func (r *MemoryPostRepository) List() ([]*models.Post, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	posts := make([]*models.Post, 0, len(r.posts))
	for _, p := range r.posts {
		posts = append(posts, p.Clone())
	}
	return posts, nil
}

// Update replaces the title and content of an existing post
func (r *MemoryPostRepository) Update(post *models.Post) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	i := r.indexOf(post.ID)
	if i == -1 {
		return ErrNotFound
	}
	r.posts[i].Title = post.Title
	r.posts[i].Content = post.Content
	return nil
}

// Delete removes a post, keeping the order of the others
func (r *MemoryPostRepository) Delete(id string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	i := r.indexOf(id)
	if i == -1 {
		return ErrNotFound
	}
	copy(r.posts[i:], r.posts[i+1:])
	r.posts[len(r.posts)-1] = nil
	r.posts = r.posts[:len(r.posts)-1]
	return nil
}

// Close is a no-op; the posts live only as long as the process.
func (r *MemoryPostRepository) Close() error {
	return nil
}

// indexOf must be called with the mutex held.
func (r *MemoryPostRepository) indexOf(id string) int {
	for i, p := range r.posts {
		if p.ID == id {
			return i
		}
	}
	return -1
}
