package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aizen-ai/chat-platform/internal/middleware"
	"github.com/aizen-ai/chat-platform/internal/model"
	"github.com/aizen-ai/chat-platform/internal/service"
	"github.com/aizen-ai/chat-platform/pkg/logger"
)

// RatingHandler handles message rating endpoints.
type RatingHandler struct {
	ratings *service.RatingService
	logger  *logger.Logger
}

// NewRatingHandler creates a rating handler.
func NewRatingHandler(ratings *service.RatingService, log *logger.Logger) *RatingHandler {
	return &RatingHandler{ratings: ratings, logger: log}
}

// Rate handles PUT /api/v1/messages/{id}/rating
func (h *RatingHandler) Rate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	messageID, err := parseIDParam(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req model.RateMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rating, err := h.ratings.Rate(ctx, middleware.GetUserID(ctx), messageID, req.Rating)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rating)
}

// UserRating handles GET /api/v1/messages/{id}/rating
func (h *RatingHandler) UserRating(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	messageID, err := parseIDParam(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rating, err := h.ratings.UserRating(ctx, middleware.GetUserID(ctx), messageID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// Null body when the user has not rated the message.
	writeJSON(w, http.StatusOK, rating)
}

// Stats handles GET /api/v1/messages/{id}/rating/stats
func (h *RatingHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	messageID, err := parseIDParam(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	stats, err := h.ratings.Stats(ctx, messageID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// Remove handles DELETE /api/v1/messages/{id}/rating
func (h *RatingHandler) Remove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	messageID, err := parseIDParam(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.ratings.Remove(ctx, middleware.GetUserID(ctx), messageID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
