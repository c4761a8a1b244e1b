package controllers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"postsapi/app/models"
	"postsapi/app/render"
	"postsapi/app/repositories"
	"postsapi/app/services"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// MaxBodyBytes caps the size of a request body.
const MaxBodyBytes = 1 << 20

// Response messages
const (
	MsgPostsFetched   = "Posts fetched successfully"
	MsgPostCreated    = "Post created successfully"
	MsgPostUpdated    = "Post updated successfully"
	MsgPostDeleted    = "Post deleted successfully"
	MsgPostNotFound   = "Post not found"
	MsgRouteNotFound  = "Not found"
	MsgInternalError  = render.MsgInternalError
	msgInvalidBody    = "Invalid request body: "
	msgInvalidRequest = "Invalid request: "
)

// PostController handles HTTP requests for blog posts
type PostController struct {
	postService *services.PostService
	logger      logrus.FieldLogger
}

// NewPostController creates a new PostController
func NewPostController(postService *services.PostService, logger logrus.FieldLogger) *PostController {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &PostController{
		postService: postService,
		logger:      logger,
	}
}

// Index handles listing all posts
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.postService.ListPosts()
	if err != nil {
		pc.handleError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, models.Envelope{
		Data:    posts,
		Message: MsgPostsFetched,
		Success: true,
	})
}

// Show handles fetching a single post by its id query parameter
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := mux.Vars(r)["id"]
	if !ok {
		id = r.URL.Query().Get("id")
	}

	post, err := pc.postService.GetPost(id)
	if err != nil {
		pc.handleError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, models.Envelope{
		Data:    post,
		Success: true,
	})
}

// Create handles creating a new post
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePostRequest
	if err := decodeBody(w, r, &req); err != nil {
		render.Error(w, http.StatusBadRequest, msgInvalidBody+err.Error())
		return
	}

	post, err := pc.postService.CreatePost(&req)
	if err != nil {
		pc.handleError(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, models.Envelope{
		Data:    post,
		Message: MsgPostCreated,
		Success: true,
	})
}

// Update handles replacing the title and content of a post.
// The body is read once and carries id, title and content together.
func (pc *PostController) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdatePostRequest
	if err := decodeBody(w, r, &req); err != nil {
		render.Error(w, http.StatusBadRequest, msgInvalidBody+err.Error())
		return
	}

	if err := pc.postService.UpdatePost(&req); err != nil {
		pc.handleError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, models.Envelope{
		Message: MsgPostUpdated,
		Success: true,
	})
}

// Delete handles deleting a post
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	var req models.DeletePostRequest
	if err := decodeBody(w, r, &req); err != nil {
		render.Error(w, http.StatusBadRequest, msgInvalidBody+err.Error())
		return
	}

	if err := pc.postService.DeletePost(&req); err != nil {
		pc.handleError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, models.Envelope{
		Message: MsgPostDeleted,
		Success: true,
	})
}

// NotFound is the fallback for every unmatched method and path.
func NotFound(w http.ResponseWriter, r *http.Request) {
	render.Error(w, http.StatusNotFound, MsgRouteNotFound)
}

func (pc *PostController) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		render.Error(w, http.StatusBadRequest, msgInvalidRequest+verr.Error())
	case errors.Is(err, repositories.ErrNotFound):
		render.Error(w, http.StatusNotFound, MsgPostNotFound)
	default:
		pc.logger.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
			"err":    err,
		}).Error("Request failed")
		render.Error(w, http.StatusInternalServerError, MsgInternalError)
	}
}

// decodeBody reads exactly one JSON object from the request body into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(dst); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		var sizeErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return errors.New("body is empty")
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains truncated JSON")
		case errors.As(err, &syntaxErr):
			return fmt.Errorf("malformed JSON at offset %d", syntaxErr.Offset)
		case errors.As(err, &typeErr):
			if typeErr.Field != "" {
				return fmt.Errorf("field %q must be a %s", typeErr.Field, typeErr.Type)
			}
			return fmt.Errorf("body must be a JSON object, got %s", typeErr.Value)
		case errors.As(err, &sizeErr):
			return fmt.Errorf("body exceeds %d bytes", sizeErr.Limit)
		default:
			return err
		}
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("body must contain a single JSON object")
	}
	return nil
}
