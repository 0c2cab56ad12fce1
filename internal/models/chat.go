package models

import "time"

type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

type SessionState string

const (
	StateIdle             SessionState = "idle"
	StateAwaitingResponse SessionState = "awaiting_response"
)

// Message is a single entry of a chat transcript.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	HTML      string    `json:"html,omitempty"` // sanitized rendering, bot messages only
	Timestamp time.Time `json:"timestamp"`
}

// ChatSession is a snapshot of one chat transcript.
type ChatSession struct {
	ID        string       `json:"session_id"`
	State     SessionState `json:"state"`
	CreatedAt time.Time    `json:"created_at"`
	Messages  []Message    `json:"messages"`
}

// ChatTurn is the pair of messages appended by one submit.
type ChatTurn struct {
	User Message `json:"user"`
	Bot  Message `json:"bot"`
}

type ChatRequest struct {
	Query string `json:"query"`
}

type CreateSessionResponse struct {
	ChatSession
	Token string `json:"token"`
}

type ChatTurnResponse struct {
	ChatTurn
	Error *APIError `json:"error,omitempty"`
}

// SessionEvent is pushed to websocket subscribers of a session.
type SessionEvent struct {
	Type    string       `json:"type"` // "message" or "state"
	Message *Message     `json:"message,omitempty"`
	State   SessionState `json:"state,omitempty"`
}
