package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"aibuddy-backend/internal/logger"
	"aibuddy-backend/internal/middleware"
	"aibuddy-backend/internal/models"
	"aibuddy-backend/internal/services"
)

type ChatHandler struct {
	chatService *services.ChatService
	auth        *middleware.SessionAuth
	log         *logger.Logger
}

func NewChatHandler(chatService *services.ChatService, auth *middleware.SessionAuth, log *logger.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		auth:        auth,
		log:         log,
	}
}

// CreateSession opens a chat session and returns it with its bearer token.
func (h *ChatHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.chatService.CreateSession(r.Context())
	if err != nil {
		h.log.WithContext(r.Context()).Error("failed to create chat session", zap.Error(err))
		handleServiceError(w, r, err)
		return
	}

	token, err := h.auth.GenerateToken(sess.ID)
	if err != nil {
		h.log.WithContext(r.Context()).Error("failed to sign session token", zap.Error(err))
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, models.CreateSessionResponse{ChatSession: *sess, Token: token})
}

func (h *ChatHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.chatService.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// SendMessage runs one chat turn. A turn whose webhook call failed still
// carries both messages, returned with 502 and the error.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	turn, err := h.chatService.Submit(r.Context(), chi.URLParam(r, "id"), req.Query)
	if turn == nil {
		handleServiceError(w, r, err)
		return
	}
	if err != nil {
		status, apiErr := serviceError(r, err)
		writeJSON(w, status, models.ChatTurnResponse{ChatTurn: *turn, Error: &apiErr})
		return
	}

	writeJSON(w, http.StatusOK, models.ChatTurnResponse{ChatTurn: *turn})
}
