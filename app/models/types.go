package models

// Post represents a blog post.
type Post struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// CreatePostRequest is the body accepted when creating a post.
// Missing fields are stored as empty strings.
type CreatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// UpdatePostRequest is the body accepted when updating a post.
type UpdatePostRequest struct {
	ID      string `json:"id" validate:"required"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// DeletePostRequest is the body accepted when deleting a post.
type DeletePostRequest struct {
	ID string `json:"id" validate:"required"`
}

// Envelope is the JSON wrapper shared by every API response.
type Envelope struct {
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Success bool        `json:"success"`
}
