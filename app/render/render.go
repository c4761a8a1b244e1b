// Package render writes JSON envelopes for both handlers and middleware.
package render

import (
	"encoding/json"
	"net/http"

	"postsapi/app/models"
)

// MsgInternalError is the only message a client sees for a server failure.
const MsgInternalError = "Internal server error"

// JSON writes an envelope with the given status
func JSON(w http.ResponseWriter, status int, env models.Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(env)
}

// Error writes a failure envelope
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, models.Envelope{Message: message, Success: false})
}
