package session

import (
	"context"
	"errors"

	"aibuddy-backend/internal/models"
)

var ErrNotFound = errors.New("chat session not found")

// Store keeps chat transcripts for the lifetime of a session. Messages are
// append-only and returned in insertion order. BeginTurn/EndTurn implement
// the one-turn-at-a-time guard; the session reports awaiting_response while
// a turn is held. EndTurn only releases the turn identified by token.
type Store interface {
	Create(ctx context.Context, sess *models.ChatSession) error
	Get(ctx context.Context, id string) (*models.ChatSession, error)
	Append(ctx context.Context, id string, msg models.Message) error
	BeginTurn(ctx context.Context, id string) (token string, ok bool, err error)
	EndTurn(ctx context.Context, id, token string) error
}
