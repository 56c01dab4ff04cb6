package domain

import "time"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is a single role-tagged turn in a conversation, in the shape
// the completion provider expects.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TokenUsage is the provider's token accounting for one completion.
type TokenUsage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}

// ChatResult is the tagged outcome of a text generation call. Exactly one of
// the success fields or Failure is meaningful; OK reports which.
type ChatResult struct {
	Text    string
	Usage   TokenUsage
	Model   string
	Elapsed time.Duration

	Failure *Failure
}

func (r ChatResult) OK() bool { return r.Failure == nil }

// ConnectivityResult is the outcome of a provider liveness probe.
type ConnectivityResult struct {
	Message string
	Model   string
	Elapsed time.Duration

	Failure *Failure
}

func (r ConnectivityResult) OK() bool { return r.Failure == nil }
