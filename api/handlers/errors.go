package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aria-lang/cdrflow-go/pkg/cdrflow"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// statusFor maps an engine error to an HTTP status. Consistency failures
// are server defects; everything else is caused by the request.
func statusFor(err error) int {
	var consistency *cdrflow.AlignmentConsistencyError
	switch {
	case errors.As(err, &consistency):
		return http.StatusInternalServerError
	case errors.Is(err, cdrflow.ErrEmptyCandidateSet):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
