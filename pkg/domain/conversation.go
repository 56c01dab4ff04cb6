package domain

import "time"

// ConversationMessage is one entry in a client-side conversation session.
// Sessions are transient UI state; nothing here is ever persisted.
type ConversationMessage struct {
	ID          string
	Role        string
	Content     string
	CreatedAt   time.Time
	Usage       *TokenUsage
	VoiceOrigin bool
}
