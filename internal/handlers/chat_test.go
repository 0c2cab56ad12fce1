package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aibuddy-backend/internal/logger"
	"aibuddy-backend/internal/middleware"
	"aibuddy-backend/internal/models"
	"aibuddy-backend/internal/services"
	"aibuddy-backend/internal/session"
)

func newChatRouter(t *testing.T, handler http.HandlerFunc) http.Handler {
	t.Helper()
	endpoint, client := newWebhook(t, handler)
	auth := middleware.NewSessionAuth("test-secret", time.Hour)
	svc := services.NewChatService(session.NewMemoryStore(time.Hour), client, endpoint, "STUDEMO1", nil, logger.Nop())
	h := NewChatHandler(svc, auth, logger.Nop())

	r := chi.NewRouter()
	r.Post("/sessions", h.CreateSession)
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware)
		r.Get("/sessions/{id}", h.GetSession)
		r.Post("/sessions/{id}/messages", h.SendMessage)
	})
	return r
}

func createSession(t *testing.T, r http.Handler) models.CreateSessionResponse {
	t.Helper()
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/sessions", nil))
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp models.CreateSessionResponse
	decode(t, rr, &resp)
	return resp
}

func authed(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestChatHandler_CreateSession(t *testing.T) {
	r := newChatRouter(t, func(w http.ResponseWriter, r *http.Request) {})

	sess := createSession(t, r)
	assert.NotEmpty(t, sess.ID)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, models.StateIdle, sess.State)
	require.Len(t, sess.Messages, 1)
	assert.Equal(t, services.GreetingMessage, sess.Messages[0].Content)
}

func TestChatHandler_SendMessage(t *testing.T) {
	var gotQuery, gotUniqueID string
	r := newChatRouter(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		gotUniqueID = r.URL.Query().Get("uniqueId")
		w.Write([]byte("Photosynthesis turns **light** into sugar."))
	})
	sess := createSession(t, r)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, authed(jsonRequest(t, http.MethodPost, "/sessions/"+sess.ID+"/messages", models.ChatRequest{Query: "What is photosynthesis?"}), sess.Token))

	require.Equal(t, http.StatusOK, rr.Code)
	var turn models.ChatTurnResponse
	decode(t, rr, &turn)
	assert.Nil(t, turn.Error)
	assert.Equal(t, "What is photosynthesis?", turn.User.Content)
	assert.Equal(t, "Photosynthesis turns <strong>light</strong> into sugar.", turn.Bot.HTML)
	assert.Equal(t, "What is photosynthesis?", gotQuery)
	assert.Equal(t, "STUDEMO1", gotUniqueID)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, authed(httptest.NewRequest(http.MethodGet, "/sessions/"+sess.ID, nil), sess.Token))
	require.Equal(t, http.StatusOK, rr.Code)

	var snapshot models.ChatSession
	decode(t, rr, &snapshot)
	require.Len(t, snapshot.Messages, 3)
	assert.Equal(t, models.RoleUser, snapshot.Messages[1].Role)
	assert.Equal(t, models.RoleBot, snapshot.Messages[2].Role)
}

func TestChatHandler_SendMessage_WebhookFailure(t *testing.T) {
	r := newChatRouter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	sess := createSession(t, r)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, authed(jsonRequest(t, http.MethodPost, "/sessions/"+sess.ID+"/messages", models.ChatRequest{Query: "hello"}), sess.Token))

	require.Equal(t, http.StatusBadGateway, rr.Code)
	var turn models.ChatTurnResponse
	decode(t, rr, &turn)
	require.NotNil(t, turn.Error)
	assert.Equal(t, "UPSTREAM_ERROR", turn.Error.Code)
	assert.Equal(t, "hello", turn.User.Content)
	assert.Equal(t, services.FallbackMessage, turn.Bot.Content)
}

func TestChatHandler_SendMessage_EmptyQuery(t *testing.T) {
	r := newChatRouter(t, func(w http.ResponseWriter, r *http.Request) {})
	sess := createSession(t, r)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, authed(jsonRequest(t, http.MethodPost, "/sessions/"+sess.ID+"/messages", models.ChatRequest{Query: "   "}), sess.Token))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	var resp models.ErrorResponse
	decode(t, rr, &resp)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Fields, "query")
}

func TestChatHandler_RequiresSessionToken(t *testing.T) {
	r := newChatRouter(t, func(w http.ResponseWriter, r *http.Request) {})
	sess := createSession(t, r)
	other := createSession(t, r)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/sessions/"+sess.ID, nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, authed(httptest.NewRequest(http.MethodGet, "/sessions/"+sess.ID, nil), other.Token))
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestChatHandler_TurnInProgress(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	r := newChatRouter(t, func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		w.Write([]byte("done"))
	})
	sess := createSession(t, r)

	done := make(chan int)
	go func() {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, authed(jsonRequest(t, http.MethodPost, "/sessions/"+sess.ID+"/messages", models.ChatRequest{Query: "first"}), sess.Token))
		done <- rr.Code
	}()
	<-entered

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, authed(jsonRequest(t, http.MethodPost, "/sessions/"+sess.ID+"/messages", models.ChatRequest{Query: "second"}), sess.Token))
	assert.Equal(t, http.StatusConflict, rr.Code)

	close(release)
	assert.Equal(t, http.StatusOK, <-done)
}
