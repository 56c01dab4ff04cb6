package client

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dkravets/conversai/pkg/domain"
)

// ErrSubmissionPending is returned by Begin while a prior submission has not
// resolved yet.
var ErrSubmissionPending = errors.New("a submission is already in flight")

// Session holds the append-only conversation state of one UI session.
// Messages are appended in strict submission order; the Begin/End guard
// keeps turns from interleaving, since the backend itself is stateless and
// enforces nothing across calls. Nothing survives the session.
type Session struct {
	mu       sync.Mutex
	messages []domain.ConversationMessage
	pending  bool
}

func NewSession() *Session {
	return &Session{}
}

// Begin marks a submission as in flight. It fails while a prior one is
// unresolved; callers disable resubmission on this error.
func (s *Session) Begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending {
		return ErrSubmissionPending
	}
	s.pending = true
	return nil
}

// End resolves the in-flight submission. Idempotent.
func (s *Session) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = false
}

func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// AddUserMessage appends a user turn and returns the stored message.
func (s *Session) AddUserMessage(content string, voiceOrigin bool) domain.ConversationMessage {
	msg := domain.ConversationMessage{
		ID:          uuid.NewString(),
		Role:        domain.RoleUser,
		Content:     content,
		CreatedAt:   time.Now(),
		VoiceOrigin: voiceOrigin,
	}

	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.mu.Unlock()

	return msg
}

// AddAssistantMessage appends an assistant turn with optional usage metadata.
func (s *Session) AddAssistantMessage(content string, usage *domain.TokenUsage) domain.ConversationMessage {
	msg := domain.ConversationMessage{
		ID:        uuid.NewString(),
		Role:      domain.RoleAssistant,
		Content:   content,
		CreatedAt: time.Now(),
		Usage:     usage,
	}

	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.mu.Unlock()

	return msg
}

// Messages returns a copy of the conversation in insertion order.
func (s *Session) Messages() []domain.ConversationMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ConversationMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// History renders the conversation as the role/content pairs the backend
// expects as conversationHistory.
func (s *Session) History() []domain.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ChatMessage, 0, len(s.messages))
	for _, m := range s.messages {
		out = append(out, domain.ChatMessage{Role: m.Role, Content: m.Content})
	}
	return out
}

// Clear drops all messages. The id sequence is not reused.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
}
