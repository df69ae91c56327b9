package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/aizen-ai/chat-platform/internal/personality"
	"github.com/aizen-ai/chat-platform/internal/service"
	"github.com/aizen-ai/chat-platform/internal/store"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}

// writeServiceError maps service failures onto HTTP statuses. Model-call
// failures deliberately collapse into a generic 503 so provider internals
// never reach the client.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		writeError(w, http.StatusForbidden, "unauthorized or conversation not found")
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrEmptyMessage),
		errors.Is(err, service.ErrEmptyQuery),
		errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, store.ErrMissingOpenID),
		errors.Is(err, personality.ErrUnknownPersonality):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrModelUnavailable):
		writeError(w, http.StatusServiceUnavailable, "service unavailable")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// parseIDParam parses a numeric URL parameter.
func parseIDParam(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}
