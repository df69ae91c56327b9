package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/aizen-ai/chat-platform/internal/llm"
	"github.com/aizen-ai/chat-platform/internal/middleware"
	"github.com/aizen-ai/chat-platform/internal/model"
	"github.com/aizen-ai/chat-platform/internal/service"
	"github.com/aizen-ai/chat-platform/internal/store"
	"github.com/aizen-ai/chat-platform/pkg/logger"
)

const testSecret = "test-secret"
const testCookie = "aizen_session"

type fakeLLM struct {
	reply string
}

func (f *fakeLLM) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	return &llm.CompletionResponse{Content: f.reply, Model: "fake"}, nil
}

func (f *fakeLLM) Name() string { return "fake" }

type testServer struct {
	router   *chi.Mux
	identity *service.IdentityService
}

var dbSeq int

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	dbSeq++
	dsn := fmt.Sprintf("file:handlertest%d?mode=memory&cache=shared", dbSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, store.Migrate(db))

	log := logger.NewNop()
	identitySvc := service.NewIdentityService(store.NewUserStore(db, ""))
	chatSvc := service.NewChatService(
		store.NewConversationStore(db),
		store.NewMessageStore(db),
		&fakeLLM{reply: "model reply"},
		nil,
		log,
		"",
		time.Second,
	)
	ratingSvc := service.NewRatingService(store.NewRatingStore(db), nil)

	chatHandler := NewChatHandler(chatSvc, log)
	ratingHandler := NewRatingHandler(ratingSvc, log)
	authHandler := NewAuthHandler(identitySvc, log, testSecret, testCookie, time.Hour)

	r := chi.NewRouter()
	r.Use(middleware.Session(testSecret, testCookie, identitySvc))

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.Get("/me", authHandler.Me)
		r.Post("/logout", authHandler.Logout)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RequireUser)

		r.Route("/conversations", func(r chi.Router) {
			r.Post("/", chatHandler.CreateConversation)
			r.Get("/", chatHandler.ListConversations)
			r.Route("/{id}", func(r chi.Router) {
				r.Delete("/", chatHandler.DeleteConversation)
				r.Get("/messages", chatHandler.ListMessages)
				r.Post("/messages", chatHandler.SendMessage)
			})
		})

		r.Route("/messages", func(r chi.Router) {
			r.Get("/search", chatHandler.SearchMessages)
			r.Route("/{id}/rating", func(r chi.Router) {
				r.Put("/", ratingHandler.Rate)
				r.Get("/", ratingHandler.UserRating)
				r.Delete("/", ratingHandler.Remove)
				r.Get("/stats", ratingHandler.Stats)
			})
		})

		r.Get("/personalities", chatHandler.ListPersonalities)
	})

	return &testServer{router: r, identity: identitySvc}
}

// login provisions a user and returns their session cookie.
func (s *testServer) login(t *testing.T, openID string) *http.Cookie {
	t.Helper()
	require.NoError(t, s.identity.Upsert(context.Background(), model.UpsertUserParams{OpenID: openID}))

	token, err := middleware.NewSessionToken(testSecret, openID, time.Hour)
	require.NoError(t, err)
	return &http.Cookie{Name: testCookie, Value: token}
}

func (s *testServer) do(t *testing.T, method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestRequireUserRejectsAnonymous(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/api/v1/conversations", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestConversationLifecycle(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t, "u1")

	rec := s.do(t, http.MethodPost, "/api/v1/conversations", `{"personality":"programmer"}`, cookie)
	require.Equal(t, http.StatusCreated, rec.Code)

	var conv model.Conversation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conv))
	assert.Equal(t, "محادثة البرمجة", conv.Title)

	rec = s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/conversations/%d/messages", conv.ID), `{"message":"hello"}`, cookie)
	require.Equal(t, http.StatusCreated, rec.Code)

	var turn model.SendMessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &turn))
	assert.Equal(t, "hello", turn.UserMessage.Content)
	assert.Equal(t, "model reply", turn.AIMessage.Content)

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/conversations/%d/messages", conv.ID), "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	var history []model.Message
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history, 2)

	rec = s.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/conversations/%d", conv.ID), "", cookie)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestForeignConversationIsForbidden(t *testing.T) {
	s := newTestServer(t)
	owner := s.login(t, "owner")
	intruder := s.login(t, "intruder")

	rec := s.do(t, http.MethodPost, "/api/v1/conversations", `{}`, owner)
	require.Equal(t, http.StatusCreated, rec.Code)
	var conv model.Conversation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conv))

	for _, probe := range []struct {
		method, path, body string
	}{
		{http.MethodGet, fmt.Sprintf("/api/v1/conversations/%d/messages", conv.ID), ""},
		{http.MethodPost, fmt.Sprintf("/api/v1/conversations/%d/messages", conv.ID), `{"message":"hi"}`},
		{http.MethodDelete, fmt.Sprintf("/api/v1/conversations/%d", conv.ID), ""},
	} {
		rec := s.do(t, probe.method, probe.path, probe.body, intruder)
		assert.Equal(t, http.StatusForbidden, rec.Code, "%s %s", probe.method, probe.path)
	}
}

func TestUnknownPersonalityRejected(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t, "u1")
	rec := s.do(t, http.MethodPost, "/api/v1/conversations", `{"personality":"poet"}`, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRatingEndpoints(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t, "u1")

	rec := s.do(t, http.MethodPost, "/api/v1/conversations", `{}`, cookie)
	require.Equal(t, http.StatusCreated, rec.Code)
	var conv model.Conversation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conv))

	rec = s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/conversations/%d/messages", conv.ID), `{"message":"hello"}`, cookie)
	require.Equal(t, http.StatusCreated, rec.Code)
	var turn model.SendMessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &turn))
	msgID := turn.AIMessage.ID

	rec = s.do(t, http.MethodPut, fmt.Sprintf("/api/v1/messages/%d/rating", msgID), `{"rating":"like"}`, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPut, fmt.Sprintf("/api/v1/messages/%d/rating", msgID), `{"rating":"dislike"}`, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/messages/%d/rating/stats", msgID), "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats model.RatingStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, int64(0), stats.Likes)
	assert.Equal(t, int64(1), stats.Dislikes)
	assert.Equal(t, int64(1), stats.Total)

	rec = s.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/messages/%d/rating", msgID), "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/messages/%d/rating", msgID), "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null\n", rec.Body.String())

	rec = s.do(t, http.MethodPut, fmt.Sprintf("/api/v1/messages/%d/rating", msgID), `{"rating":"love"}`, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchEndpoint(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t, "u1")

	rec := s.do(t, http.MethodPost, "/api/v1/conversations", `{}`, cookie)
	require.Equal(t, http.StatusCreated, rec.Code)
	var conv model.Conversation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conv))

	rec = s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/conversations/%d/messages", conv.ID), `{"message":"find the needle"}`, cookie)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/messages/search?q=needle", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	var results []model.Message
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "find the needle", results[0].Content)

	rec = s.do(t, http.MethodGet, "/api/v1/messages/search", "", cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthMeAndLogout(t *testing.T) {
	s := newTestServer(t)

	// Anonymous: me returns null.
	rec := s.do(t, http.MethodGet, "/auth/me", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null\n", rec.Body.String())

	cookie := s.login(t, "u1")
	rec = s.do(t, http.MethodGet, "/auth/me", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	var user model.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "u1", user.OpenID)

	rec = s.do(t, http.MethodPost, "/auth/logout", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookie && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared, "logout should clear the session cookie")
}

func TestLoginUpsertsUser(t *testing.T) {
	s := newTestServer(t)

	token, err := middleware.NewSessionToken(testSecret, "new-user", time.Hour)
	require.NoError(t, err)

	rec := s.do(t, http.MethodPost, "/auth/login", fmt.Sprintf(`{"token":%q}`, token), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var user model.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "new-user", user.OpenID)
	assert.Equal(t, model.RoleUserDefault, user.Role)

	var sessionSet bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookie && c.Value != "" {
			sessionSet = true
		}
	}
	assert.True(t, sessionSet, "login should set the session cookie")
}
