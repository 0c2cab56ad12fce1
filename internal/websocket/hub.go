package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"aibuddy-backend/internal/logger"
	"aibuddy-backend/internal/middleware"
	"aibuddy-backend/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub streams session events to the websockets watching each chat session.
// With Redis, events go through pub/sub so every replica sees them;
// without it they are delivered in-process.
type Hub struct {
	mu          sync.RWMutex
	connections map[string][]*client
	redisClient *redis.Client
	auth        *middleware.SessionAuth
	cancelFuncs map[string]context.CancelFunc
	log         *logger.Logger
}

func NewHub(redisClient *redis.Client, auth *middleware.SessionAuth, log *logger.Logger) *Hub {
	return &Hub{
		connections: make(map[string][]*client),
		redisClient: redisClient,
		auth:        auth,
		cancelFuncs: make(map[string]context.CancelFunc),
		log:         log,
	}
}

func channelName(sessionID string) string {
	return "chat_session_events:" + sessionID
}

func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	// Authenticate via token query param
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	sessionID, err := h.auth.ParseToken(tokenStr)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if id := chi.URLParam(r, "id"); id != "" && id != sessionID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithContext(r.Context()).Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{conn: conn}
	h.registerConnection(sessionID, c)

	// Keep connection alive and handle disconnect
	go func() {
		defer h.unregisterConnection(sessionID, c)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

func (h *Hub) registerConnection(sessionID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.connections[sessionID] = append(h.connections[sessionID], c)

	// Start pub/sub subscription if this is the first connection for this session
	if h.redisClient != nil && len(h.connections[sessionID]) == 1 {
		ctx, cancel := context.WithCancel(context.Background())
		h.cancelFuncs[sessionID] = cancel
		go h.subscribeToPubSub(ctx, sessionID)
	}

	h.log.Debug("websocket connected", zap.String("session_id", sessionID), zap.Int("total", len(h.connections[sessionID])))
}

func (h *Hub) unregisterConnection(sessionID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c.conn.Close()

	conns := h.connections[sessionID]
	for i, existing := range conns {
		if existing == c {
			h.connections[sessionID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}

	if len(h.connections[sessionID]) == 0 {
		delete(h.connections, sessionID)
		if cancel, ok := h.cancelFuncs[sessionID]; ok {
			cancel()
			delete(h.cancelFuncs, sessionID)
		}
	}

	h.log.Debug("websocket disconnected", zap.String("session_id", sessionID))
}

func (h *Hub) subscribeToPubSub(ctx context.Context, sessionID string) {
	pubsub := h.redisClient.Subscribe(ctx, channelName(sessionID))
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.broadcast(sessionID, []byte(msg.Payload))
		}
	}
}

func (h *Hub) broadcast(sessionID string, data []byte) {
	h.mu.RLock()
	conns := append([]*client(nil), h.connections[sessionID]...)
	h.mu.RUnlock()

	for _, c := range conns {
		if err := c.write(data); err != nil {
			h.log.Debug("websocket write failed", zap.String("session_id", sessionID), zap.Error(err))
		}
	}
}

// Publish delivers a session event to every watcher of the session.
func (h *Hub) Publish(ctx context.Context, sessionID string, event models.SessionEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	if h.redisClient == nil {
		h.broadcast(sessionID, data)
		return
	}
	if err := h.redisClient.Publish(ctx, channelName(sessionID), data).Err(); err != nil {
		h.log.WithContext(ctx).Warn("failed to publish session event", zap.String("session_id", sessionID), zap.Error(err))
	}
}
