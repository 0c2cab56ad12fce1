package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"aibuddy-backend/internal/models"
)

func NewRedisClient(redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}
	return client, nil
}

// RedisStore keeps sessions in Redis so several gateway instances can serve
// the same session. Keys expire ttl after the last write; nothing is kept
// beyond that.
type RedisStore struct {
	redis   *redis.Client
	ttl     time.Duration
	turnTTL time.Duration
}

type sessionMeta struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// turnTTL bounds how long a crashed instance can keep a session busy; it
// should exceed the webhook timeout.
func NewRedisStore(client *redis.Client, ttl, turnTTL time.Duration) *RedisStore {
	return &RedisStore{redis: client, ttl: ttl, turnTTL: turnTTL}
}

func metaKey(id string) string     { return "chat_session:" + id }
func messagesKey(id string) string { return "chat_session:" + id + ":messages" }
func turnKey(id string) string     { return "chat_session:" + id + ":turn" }

func (s *RedisStore) Create(ctx context.Context, sess *models.ChatSession) error {
	meta, err := json.Marshal(sessionMeta{ID: sess.ID, CreatedAt: sess.CreatedAt})
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	encoded := make([]interface{}, 0, len(sess.Messages))
	for _, m := range sess.Messages {
		b, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("failed to encode message: %w", err)
		}
		encoded = append(encoded, b)
	}

	_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, metaKey(sess.ID), meta, s.ttl)
		pipe.Del(ctx, messagesKey(sess.ID))
		if len(encoded) > 0 {
			pipe.RPush(ctx, messagesKey(sess.ID), encoded...)
			pipe.Expire(ctx, messagesKey(sess.ID), s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*models.ChatSession, error) {
	raw, err := s.redis.Get(ctx, metaKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var meta sessionMeta
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	items, err := s.redis.LRange(ctx, messagesKey(id), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}

	messages := make([]models.Message, 0, len(items))
	for _, item := range items {
		var m models.Message
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			return nil, fmt.Errorf("failed to decode message: %w", err)
		}
		messages = append(messages, m)
	}

	busy, err := s.redis.Exists(ctx, turnKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load session state: %w", err)
	}

	state := models.StateIdle
	if busy > 0 {
		state = models.StateAwaitingResponse
	}

	return &models.ChatSession{
		ID:        meta.ID,
		State:     state,
		CreatedAt: meta.CreatedAt,
		Messages:  messages,
	}, nil
}

func (s *RedisStore) Append(ctx context.Context, id string, msg models.Message) error {
	if err := s.ensureExists(ctx, id); err != nil {
		return err
	}

	b, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, messagesKey(id), b)
		pipe.Expire(ctx, messagesKey(id), s.ttl)
		pipe.Expire(ctx, metaKey(id), s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}
	return nil
}

func (s *RedisStore) BeginTurn(ctx context.Context, id string) (string, bool, error) {
	if err := s.ensureExists(ctx, id); err != nil {
		return "", false, err
	}
	token := uuid.NewString()
	locked, err := s.redis.SetNX(ctx, turnKey(id), token, s.turnTTL).Result()
	if err != nil {
		return "", false, fmt.Errorf("failed to acquire turn: %w", err)
	}
	if !locked {
		return "", false, nil
	}
	return token, true, nil
}

// releaseTurn deletes the turn lock only while it still holds our token, so
// a turn that outlived its TTL cannot drop a lock another instance now owns.
var releaseTurn = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func (s *RedisStore) EndTurn(ctx context.Context, id, token string) error {
	if err := releaseTurn.Run(ctx, s.redis, []string{turnKey(id)}, token).Err(); err != nil {
		return fmt.Errorf("failed to release turn: %w", err)
	}
	return nil
}

func (s *RedisStore) ensureExists(ctx context.Context, id string) error {
	n, err := s.redis.Exists(ctx, metaKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
