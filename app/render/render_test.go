package render

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"postsapi/app/models"

	"github.com/stretchr/testify/assert"
)

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusCreated, models.Envelope{Data: []string{}, Message: "ok", Success: true})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"data":[],"message":"ok","success":true}`, w.Body.String())
}

func TestError(t *testing.T) {
	w := httptest.NewRecorder()
	Error(w, http.StatusInternalServerError, MsgInternalError)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"Internal server error","success":false}`, w.Body.String())
}
