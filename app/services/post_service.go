package services

import (
	"postsapi/app/models"
	"postsapi/app/repositories"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// maxIDAttempts bounds retries when a generated id is already taken.
const maxIDAttempts = 3

// PostService handles business logic for blog posts
type PostService struct {
	postRepo repositories.PostRepository
	ids      IDGenerator
	logger   logrus.FieldLogger
}

// NewPostService creates a new PostService
func NewPostService(postRepo repositories.PostRepository, ids IDGenerator, logger logrus.FieldLogger) *PostService {
	if ids == nil {
		ids = NewUUIDGenerator()
	}
	if logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		logger = l
	}
	return &PostService{
		postRepo: postRepo,
		ids:      ids,
		logger:   logger,
	}
}

// ListPosts returns every post in creation order
func (s *PostService) ListPosts() ([]*models.Post, error) {
	posts, err := s.postRepo.List()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list posts")
	}
	return posts, nil
}

// GetPost retrieves a post by ID
func (s *PostService) GetPost(id string) (*models.Post, error) {
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		return nil, wrapRepoErr(err, "failed to get post %s", id)
	}
	return post, nil
}

// CreatePost assigns a fresh id and stores the post after all existing ones
func (s *PostService) CreatePost(req *models.CreatePostRequest) (*models.Post, error) {
	post := &models.Post{
		Title:   req.Title,
		Content: req.Content,
	}

	var err error
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		post.ID = s.ids.NewID()
		err = s.postRepo.Create(post)
		if !errors.Is(err, repositories.ErrDuplicateID) {
			break
		}
		s.logger.WithField("post_id", post.ID).Warn("Generated post id already in use, retrying")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create post")
	}

	s.logger.WithField("post_id", post.ID).Debug("Post created")
	return post, nil
}

// UpdatePost replaces title and content of an existing post
func (s *PostService) UpdatePost(req *models.UpdatePostRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	post := &models.Post{ID: req.ID}
	post.Apply(req)
	if err := s.postRepo.Update(post); err != nil {
		return wrapRepoErr(err, "failed to update post %s", req.ID)
	}

	s.logger.WithField("post_id", req.ID).Debug("Post updated")
	return nil
}

// DeletePost removes a post
func (s *PostService) DeletePost(req *models.DeletePostRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	if err := s.postRepo.Delete(req.ID); err != nil {
		return wrapRepoErr(err, "failed to delete post %s", req.ID)
	}

	s.logger.WithField("post_id", req.ID).Debug("Post deleted")
	return nil
}

// wrapRepoErr passes ErrNotFound through untouched and adds context to anything else.
func wrapRepoErr(err error, format string, args ...interface{}) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return repositories.ErrNotFound
	}
	return errors.Wrapf(err, format, args...)
}
