package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"aibuddy-backend/internal/logger"
	"aibuddy-backend/internal/models"
	"aibuddy-backend/internal/session"
	"aibuddy-backend/internal/webhook"
)

const (
	GreetingMessage = "Hello! I'm your AI Buddy. How can I help you today?"
	FallbackMessage = "Sorry, I'm having trouble responding right now. Please try again."
)

// EventPublisher receives every change of a session as it happens.
type EventPublisher interface {
	Publish(ctx context.Context, sessionID string, event models.SessionEvent)
}

type ChatService struct {
	store    session.Store
	client   *webhook.Client
	endpoint string
	uniqueID string
	events   EventPublisher
	log      *logger.Logger
	now      func() time.Time
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, string, models.SessionEvent) {}

func NewChatService(store session.Store, client *webhook.Client, endpoint, uniqueID string, events EventPublisher, log *logger.Logger) *ChatService {
	if events == nil {
		events = nopPublisher{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ChatService{
		store:    store,
		client:   client,
		endpoint: endpoint,
		uniqueID: uniqueID,
		events:   events,
		log:      log,
		now:      time.Now,
	}
}

// CreateSession starts a transcript holding only the greeting.
func (s *ChatService) CreateSession(ctx context.Context) (*models.ChatSession, error) {
	now := s.now()
	sess := &models.ChatSession{
		ID:        uuid.NewString(),
		State:     models.StateIdle,
		CreatedAt: now,
		Messages:  []models.Message{s.botMessage(GreetingMessage, now)},
	}
	if err := s.store.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to create chat session: %w", err)
	}
	return sess, nil
}

func (s *ChatService) GetSession(ctx context.Context, id string) (*models.ChatSession, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	return sess, nil
}

// Submit runs one turn: the user message is appended before the webhook is
// called, then the reply (or the fallback text on failure) is appended.
// A webhook failure is returned alongside a complete turn so callers can
// show both messages and the error. Only one turn per session may be in
// flight; others get ErrTurnInProgress.
func (s *ChatService) Submit(ctx context.Context, sessionID, query string) (*models.ChatTurn, error) {
	if strings.TrimSpace(query) == "" {
		return nil, &ValidationError{Fields: map[string]string{"query": "Message is required"}}
	}

	turn, ok, err := s.store.BeginTurn(ctx, sessionID)
	if err != nil {
		return nil, storeError(err)
	}
	if !ok {
		return nil, ErrTurnInProgress
	}

	// The turn finishes even if the caller goes away; subscribers still get the reply.
	turnCtx := context.WithoutCancel(ctx)
	defer func() {
		if err := s.store.EndTurn(turnCtx, sessionID, turn); err != nil {
			s.log.WithContext(ctx).Error("failed to release chat turn", zap.String("session_id", sessionID), zap.Error(err))
		}
		s.events.Publish(turnCtx, sessionID, models.SessionEvent{Type: "state", State: models.StateIdle})
	}()

	user := models.Message{
		ID:        uuid.NewString(),
		Role:      models.RoleUser,
		Content:   query,
		Timestamp: s.now(),
	}
	if err := s.store.Append(turnCtx, sessionID, user); err != nil {
		return nil, storeError(err)
	}
	s.events.Publish(turnCtx, sessionID, models.SessionEvent{Type: "message", Message: &user})
	s.events.Publish(turnCtx, sessionID, models.SessionEvent{Type: "state", State: models.StateAwaitingResponse})

	reply, callErr := s.client.GetText(turnCtx, s.endpoint, url.Values{
		"query":    {query},
		"uniqueId": {s.uniqueID},
	})
	if callErr != nil {
		s.log.WithContext(ctx).Warn("chat webhook failed", zap.String("session_id", sessionID), zap.Error(callErr))
		reply = FallbackMessage
	}

	bot := s.botMessage(reply, s.now())
	if err := s.store.Append(turnCtx, sessionID, bot); err != nil {
		return nil, storeError(err)
	}
	s.events.Publish(turnCtx, sessionID, models.SessionEvent{Type: "message", Message: &bot})

	return &models.ChatTurn{User: user, Bot: bot}, callErr
}

func (s *ChatService) botMessage(content string, at time.Time) models.Message {
	return models.Message{
		ID:        uuid.NewString(),
		Role:      models.RoleBot,
		Content:   content,
		HTML:      RenderMarkup(content),
		Timestamp: at,
	}
}

func storeError(err error) error {
	if errors.Is(err, session.ErrNotFound) {
		return &NotFoundError{Message: "Chat session not found"}
	}
	return err
}
