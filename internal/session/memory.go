package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"aibuddy-backend/internal/models"
)

type memoryEntry struct {
	session  models.ChatSession
	inFlight bool
	turn     string
	lastSeen time.Time
}

// MemoryStore keeps sessions in process. Idle sessions are dropped after ttl.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*memoryEntry
	ttl      time.Duration
	now      func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*memoryEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *MemoryStore) Create(ctx context.Context, sess *models.ChatSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictExpired()
	entry := &memoryEntry{session: *sess, lastSeen: s.now()}
	entry.session.Messages = append([]models.Message(nil), sess.Messages...)
	entry.session.State = models.StateIdle
	s.sessions[sess.ID] = entry
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*models.ChatSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	snapshot := entry.session
	snapshot.Messages = append([]models.Message(nil), entry.session.Messages...)
	snapshot.State = models.StateIdle
	if entry.inFlight {
		snapshot.State = models.StateAwaitingResponse
	}
	return &snapshot, nil
}

func (s *MemoryStore) Append(ctx context.Context, id string, msg models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.lookup(id)
	if err != nil {
		return err
	}
	entry.session.Messages = append(entry.session.Messages, msg)
	entry.lastSeen = s.now()
	return nil
}

func (s *MemoryStore) BeginTurn(ctx context.Context, id string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.lookup(id)
	if err != nil {
		return "", false, err
	}
	if entry.inFlight {
		return "", false, nil
	}
	entry.inFlight = true
	entry.turn = uuid.NewString()
	entry.lastSeen = s.now()
	return entry.turn, true, nil
}

func (s *MemoryStore) EndTurn(ctx context.Context, id, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.sessions[id]; ok && entry.inFlight && entry.turn == token {
		entry.inFlight = false
		entry.turn = ""
		entry.lastSeen = s.now()
	}
	return nil
}

// lookup must be called with mu held.
func (s *MemoryStore) lookup(id string) (*memoryEntry, error) {
	entry, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !entry.inFlight && s.now().Sub(entry.lastSeen) > s.ttl {
		delete(s.sessions, id)
		return nil, ErrNotFound
	}
	return entry, nil
}

func (s *MemoryStore) evictExpired() {
	now := s.now()
	for id, entry := range s.sessions {
		if !entry.inFlight && now.Sub(entry.lastSeen) > s.ttl {
			delete(s.sessions, id)
		}
	}
}
