// Package handler provides HTTP handlers for the API.
package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/aizen-ai/chat-platform/internal/middleware"
	"github.com/aizen-ai/chat-platform/internal/model"
	"github.com/aizen-ai/chat-platform/internal/service"
	"github.com/aizen-ai/chat-platform/pkg/logger"
)

// AuthHandler handles session endpoints.
type AuthHandler struct {
	identity *service.IdentityService
	logger   *logger.Logger

	sessionSecret     string
	sessionCookieName string
	sessionTTL        time.Duration
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(
	identity *service.IdentityService,
	log *logger.Logger,
	sessionSecret, sessionCookieName string,
	sessionTTL time.Duration,
) *AuthHandler {
	return &AuthHandler{
		identity:          identity,
		logger:            log,
		sessionSecret:     sessionSecret,
		sessionCookieName: sessionCookieName,
		sessionTTL:        sessionTTL,
	}
}

// loginRequest carries the identity assertion issued by the OAuth gateway
// after a successful external login.
type loginRequest struct {
	Token string `json:"token"`
}

// Login handles POST /auth/login. It verifies the gateway assertion, upserts
// the user record (bumping lastSignedIn) and sets the session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims, err := middleware.ParseSessionToken(h.sessionSecret, req.Token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid login token")
		return
	}

	params := model.UpsertUserParams{OpenID: claims.Subject}
	if claims.Name != "" {
		params.Name = &claims.Name
	}
	if claims.Email != "" {
		params.Email = &claims.Email
	}
	if claims.LoginMethod != "" {
		params.LoginMethod = &claims.LoginMethod
	}

	if err := h.identity.Upsert(ctx, params); err != nil {
		h.logger.Error("failed to upsert user")
		writeServiceError(w, err)
		return
	}

	session, err := middleware.NewSessionToken(h.sessionSecret, claims.Subject, h.sessionTTL)
	if err != nil {
		h.logger.Error("failed to mint session token")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.sessionCookieName,
		Value:    session,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	user, err := h.identity.Lookup(ctx, claims.Subject)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Me handles GET /auth/me. Returns the current user, or null when the
// request carries no valid session.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, middleware.GetUser(r.Context()))
}

// Logout handles POST /auth/logout. Clears the session cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
