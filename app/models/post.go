package models

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidationError reports a request that decoded fine but has the wrong shape.
type ValidationError struct {
	Fields []string
	msg    string
}

func (e *ValidationError) Error() string {
	return e.msg
}

// Validate checks the update request carries an id.
func (r *UpdatePostRequest) Validate() error {
	return validateStruct(r)
}

// Validate checks the delete request carries an id.
func (r *DeletePostRequest) Validate() error {
	return validateStruct(r)
}

// Clone returns a copy of the post that does not alias the receiver.
func (p *Post) Clone() *Post {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// Apply replaces title and content from the request, leaving the id untouched.
func (p *Post) Apply(req *UpdatePostRequest) {
	p.Title = req.Title
	p.Content = req.Content
}

func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]string, 0, len(verrs))
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		name := strings.ToLower(fe.Field())
		fields = append(fields, name)
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", name))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %q check", name, fe.Tag()))
		}
	}
	return &ValidationError{Fields: fields, msg: strings.Join(msgs, ", ")}
}
