package models

import "time"

// Message roles persisted in chat history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one ordered entry in a session's conversation history.
// Append-only; never mutated or deleted by this service.
type ChatMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatResponse is the answer returned by the chat endpoint.
type ChatResponse struct {
	Answer string `json:"answer"`
}

// HistoryResponse lists a session's persisted messages oldest first.
type HistoryResponse struct {
	SessionID string        `json:"session_id"`
	Messages  []ChatMessage `json:"messages"`
}
