package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aizen-ai/chat-platform/internal/middleware"
	"github.com/aizen-ai/chat-platform/internal/model"
	"github.com/aizen-ai/chat-platform/internal/personality"
	"github.com/aizen-ai/chat-platform/internal/service"
	"github.com/aizen-ai/chat-platform/pkg/logger"
)

// ChatHandler handles conversation and message endpoints.
type ChatHandler struct {
	chat   *service.ChatService
	logger *logger.Logger
}

// NewChatHandler creates a chat handler.
func NewChatHandler(chat *service.ChatService, log *logger.Logger) *ChatHandler {
	return &ChatHandler{chat: chat, logger: log}
}

// CreateConversation handles POST /api/v1/conversations
func (h *ChatHandler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req model.CreateConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	conv, err := h.chat.CreateConversation(ctx, userID, req.Personality)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, conv)
}

// ListConversations handles GET /api/v1/conversations
func (h *ChatHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	convs, err := h.chat.GetConversations(ctx, middleware.GetUserID(ctx))
	if err != nil {
		h.logger.Error("failed to list conversations")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, convs)
}

// ListMessages handles GET /api/v1/conversations/{id}/messages
func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	conversationID, err := parseIDParam(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	msgs, err := h.chat.GetMessages(ctx, middleware.GetUserID(ctx), conversationID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, msgs)
}

// SendMessage handles POST /api/v1/conversations/{id}/messages
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	conversationID, err := parseIDParam(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req model.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := middleware.ValidateMessageContent(req.Message); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.chat.SendMessage(ctx, middleware.GetUserID(ctx), conversationID, req.Message)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// DeleteConversation handles DELETE /api/v1/conversations/{id}
func (h *ChatHandler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	conversationID, err := parseIDParam(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.chat.DeleteConversation(ctx, middleware.GetUserID(ctx), conversationID); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SearchMessages handles GET /api/v1/messages/search?q=
func (h *ChatHandler) SearchMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query := r.URL.Query().Get("q")
	if err := middleware.ValidateSearchQuery(query); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	msgs, err := h.chat.SearchMessages(ctx, middleware.GetUserID(ctx), query)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, msgs)
}

// ListPersonalities handles GET /api/v1/personalities
func (h *ChatHandler) ListPersonalities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, personality.All())
}
