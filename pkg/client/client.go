package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dkravets/conversai/pkg/domain"
)

const (
	defaultTimeout = 30 * time.Second

	// Synthesis is slower than completion, so audio requests get more room.
	defaultAudioTimeout = 45 * time.Second
)

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.hc.Timeout = d }
}

func WithAudioTimeout(d time.Duration) Option {
	return func(c *Client) { c.audioHC.Timeout = d }
}

// Client is the backend's consumer-side counterpart. Every call returns
// either a parsed success value or a classified *APIError; raw transport
// errors never cross this boundary.
type Client struct {
	baseURL string
	hc      *http.Client
	audioHC *http.Client
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: defaultTimeout},
		audioHC: &http.Client{Timeout: defaultAudioTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ChatReply is the parsed body of a successful /api/chat response.
type ChatReply struct {
	Response     string            `json:"response"`
	Usage        domain.TokenUsage `json:"usage"`
	Model        string            `json:"model"`
	ResponseTime int64             `json:"responseTime"`
	Timestamp    string            `json:"timestamp"`
}

// HealthStatus is the parsed body of a successful /health response.
type HealthStatus struct {
	Status      string  `json:"status"`
	Service     string  `json:"service"`
	Uptime      float64 `json:"uptime"`
	Environment string  `json:"environment"`
}

// SendMessage posts a user message plus prior history and returns the
// generated reply.
func (c *Client) SendMessage(ctx context.Context, message string, history []domain.ChatMessage) (*ChatReply, *APIError) {
	payload := map[string]interface{}{
		"message":             strings.TrimSpace(message),
		"conversationHistory": history,
	}

	body, apiErr := c.postJSON(ctx, c.hc, "/api/chat", payload)
	if apiErr != nil {
		return nil, apiErr
	}

	var reply ChatReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return nil, &APIError{
			Type:    ErrorTypeUnknown,
			Message: "Unexpected response from the server. Please try again.",
			Details: err.Error(),
		}
	}
	return &reply, nil
}

// GetAudio posts text for synthesis and wraps the binary response in a
// revocable playable handle. The caller owns the handle and must Release it.
func (c *Client) GetAudio(ctx context.Context, text, voice string) (*AudioResource, *APIError) {
	payload := map[string]interface{}{
		"text":  strings.TrimSpace(text),
		"voice": voice,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, &APIError{Type: ErrorTypeUnknown, Message: "Failed to encode request.", Details: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/text-to-speech", bytes.NewReader(data))
	if err != nil {
		return nil, &APIError{Type: ErrorTypeUnknown, Message: "Failed to build request.", Details: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.audioHC.Do(req)
	if err != nil {
		return nil, classifyTransport(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransport(err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp.StatusCode, body)
	}

	var info AudioInfo
	if raw := resp.Header.Get("X-Audio-Info"); raw != "" {
		_ = json.Unmarshal([]byte(raw), &info)
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = domain.AudioMimeType
	}

	return newAudioResource(body, mimeType, info), nil
}

// CheckHealth probes the backend liveness endpoint.
func (c *Client) CheckHealth(ctx context.Context) (*HealthStatus, *APIError) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, &APIError{Type: ErrorTypeUnknown, Message: "Failed to build request.", Details: err.Error()}
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, classifyTransport(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransport(err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp.StatusCode, body)
	}

	var status HealthStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, &APIError{
			Type:    ErrorTypeUnknown,
			Message: "Unexpected response from the server. Please try again.",
			Details: err.Error(),
		}
	}
	return &status, nil
}

func (c *Client) postJSON(ctx context.Context, hc *http.Client, path string, payload interface{}) ([]byte, *APIError) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, &APIError{Type: ErrorTypeUnknown, Message: "Failed to encode request.", Details: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, &APIError{Type: ErrorTypeUnknown, Message: fmt.Sprintf("Failed to build request for %s.", path), Details: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return nil, classifyTransport(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransport(err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp.StatusCode, body)
	}
	return body, nil
}
