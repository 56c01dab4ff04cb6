package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dkravets/conversai/pkg/domain"
)

type fakeReplyGenerator struct {
	result  domain.ChatResult
	calls   int
	message string
	history []domain.ChatMessage
}

func (f *fakeReplyGenerator) GenerateReply(_ context.Context, message string, history []domain.ChatMessage) domain.ChatResult {
	f.calls++
	f.message = message
	f.history = history
	return f.result
}

func postChat(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestChatGenerateResponse(t *testing.T) {
	gateway := &fakeReplyGenerator{result: domain.ChatResult{
		Text:    "Hi there!",
		Usage:   domain.TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
		Model:   "gpt-3.5-turbo",
		Elapsed: 1250 * time.Millisecond,
	}}

	rec := postChat(t, NewChat(gateway).GenerateResponse,
		`{"message":"hello","conversationHistory":[{"role":"user","content":"earlier"}]}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Success      bool              `json:"success"`
		Response     string            `json:"response"`
		Usage        domain.TokenUsage `json:"usage"`
		Model        string            `json:"model"`
		ResponseTime int64             `json:"responseTime"`
		Timestamp    string            `json:"timestamp"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !body.Success || body.Response != "Hi there!" {
		t.Errorf("unexpected body %+v", body)
	}
	if body.Usage.TotalTokens != 15 {
		t.Errorf("expected 15 total tokens, got %d", body.Usage.TotalTokens)
	}
	if body.ResponseTime != 1250 {
		t.Errorf("expected responseTime 1250, got %d", body.ResponseTime)
	}
	if _, err := time.Parse(time.RFC3339, body.Timestamp); err != nil {
		t.Errorf("timestamp %q is not RFC3339: %v", body.Timestamp, err)
	}

	if gateway.message != "hello" {
		t.Errorf("expected gateway message 'hello', got %q", gateway.message)
	}
	if len(gateway.history) != 1 || gateway.history[0].Content != "earlier" {
		t.Errorf("unexpected history %+v", gateway.history)
	}
}

func TestChatValidationRejectsBeforeGateway(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing message", `{"conversationHistory":[]}`},
		{"blank message", `{"message":"   "}`},
		{"malformed json", `{"message":`},
		{"empty body", ``},
	}

	for _, test := range tests {
		gateway := &fakeReplyGenerator{}
		rec := postChat(t, NewChat(gateway).GenerateResponse, test.body)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", test.name, rec.Code)
		}
		if gateway.calls != 0 {
			t.Errorf("%s: expected gateway untouched, got %d calls", test.name, gateway.calls)
		}

		var body struct {
			Success bool   `json:"success"`
			Error   string `json:"error"`
			Code    string `json:"code"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: decoding response: %v", test.name, err)
		}
		if body.Success || body.Code != domain.CodeMissingMessage {
			t.Errorf("%s: unexpected error body %+v", test.name, body)
		}
		if body.Error != "Message is required" {
			t.Errorf("%s: unexpected error message %q", test.name, body.Error)
		}
	}
}

func TestChatFailureStatusMapping(t *testing.T) {
	tests := []struct {
		kind           domain.ErrorKind
		code           string
		expectedStatus int
	}{
		{domain.ErrCredentialMissing, domain.CodeAPIKeyMissing, http.StatusInternalServerError},
		{domain.ErrInvalidCredential, domain.CodeInvalidAPIKey, http.StatusUnauthorized},
		{domain.ErrQuotaExceeded, domain.CodeInsufficientQuota, http.StatusPaymentRequired},
		{domain.ErrRateLimited, domain.CodeRateLimitExceeded, http.StatusTooManyRequests},
		{domain.ErrProvider, domain.CodeAPIError, http.StatusInternalServerError},
		{domain.ErrUnknown, domain.CodeUnknownError, http.StatusInternalServerError},
	}

	for _, test := range tests {
		gateway := &fakeReplyGenerator{result: domain.ChatResult{
			Failure: &domain.Failure{Kind: test.kind, Message: "boom", Code: test.code},
		}}

		rec := postChat(t, NewChat(gateway).GenerateResponse, `{"message":"hello"}`)

		if rec.Code != test.expectedStatus {
			t.Errorf("kind %s: expected status %d, got %d", test.kind, test.expectedStatus, rec.Code)
		}

		var body struct {
			Success bool   `json:"success"`
			Error   string `json:"error"`
			Code    string `json:"code"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("kind %s: decoding response: %v", test.kind, err)
		}
		if body.Success || body.Code != test.code || body.Error != "boom" {
			t.Errorf("kind %s: unexpected error body %+v", test.kind, body)
		}
	}
}
