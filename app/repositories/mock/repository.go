package mock

import (
	"sync"

	"postsapi/app/models"
	"postsapi/app/repositories"
)

// PostRepository is an in-memory PostRepository for tests. Setting Err makes
// every call fail with it; Calls records the operations invoked.
type PostRepository struct {
	posts []*models.Post
	Err   error
	Calls []string
	mutex sync.RWMutex
}

func NewPostRepository() *PostRepository {
	return &PostRepository{posts: []*models.Post{}}
}

func (m *PostRepository) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.posts = []*models.Post{}
	m.Calls = nil
	m.Err = nil
}

func (m *PostRepository) record(call string) error {
	m.Calls = append(m.Calls, call)
	return m.Err
}

func (m *PostRepository) Create(post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if err := m.record("Create"); err != nil {
		return err
	}
	for _, p := range m.posts {
		if p.ID == post.ID {
			return repositories.ErrDuplicateID
		}
	}
	m.posts = append(m.posts, post.Clone())
	return nil
}

func (m *PostRepository) GetByID(id string) (*models.Post, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if err := m.record("GetByID"); err != nil {
		return nil, err
	}
	for _, p := range m.posts {
		if p.ID == id {
			return p.Clone(), nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *PostRepository) List() ([]*models.Post, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if err := m.record("List"); err != nil {
		return nil, err
	}
	posts := make([]*models.Post, 0, len(m.posts))
	for _, p := range m.posts {
		posts = append(posts, p.Clone())
	}
	return posts, nil
}

func (m *PostRepository) Update(post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if err := m.record("Update"); err != nil {
		return err
	}
	for _, p := range m.posts {
		if p.ID == post.ID {
			p.Title = post.Title
			p.Content = post.Content
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (m *PostRepository) Delete(id string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if err := m.record("Delete"); err != nil {
		return err
	}
	for i, p := range m.posts {
		if p.ID == id {
			m.posts = append(m.posts[:i], m.posts[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (m *PostRepository) Close() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.record("Close")
}
