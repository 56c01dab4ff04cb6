package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dkravets/conversai/pkg/api/response"
	"github.com/dkravets/conversai/pkg/domain"
)

type ReplyGenerator interface {
	GenerateReply(ctx context.Context, message string, history []domain.ChatMessage) domain.ChatResult
}

type chat struct {
	gateway ReplyGenerator
	writer  response.JSONWriter
}

func NewChat(gateway ReplyGenerator) *chat {
	return &chat{gateway: gateway}
}

type chatRequest struct {
	Message             string               `json:"message"`
	ConversationHistory []domain.ChatMessage `json:"conversationHistory"`
}

type chatResponse struct {
	Success      bool              `json:"success"`
	Response     string            `json:"response"`
	Usage        domain.TokenUsage `json:"usage"`
	Model        string            `json:"model"`
	ResponseTime int64             `json:"responseTime"`
	Timestamp    string            `json:"timestamp"`
}

// GenerateResponse handles POST /api/chat. Validation failures never reach
// the gateway.
func (h *chat) GenerateResponse(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		h.writer.WriteError(w, http.StatusBadRequest, domain.CodeMissingMessage, "Message is required")
		return
	}

	slog.Info("chat request", "message", truncate(req.Message, 50))

	res := h.gateway.GenerateReply(r.Context(), req.Message, req.ConversationHistory)
	if !res.OK() {
		h.writer.WriteError(w, res.Failure.Kind.HTTPStatus(), res.Failure.Code, res.Failure.Message)
		return
	}

	h.writer.WriteSuccess(w, chatResponse{
		Success:      true,
		Response:     res.Text,
		Usage:        res.Usage,
		Model:        res.Model,
		ResponseTime: res.Elapsed.Milliseconds(),
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	})
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
