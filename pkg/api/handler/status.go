package handler

import (
	"net/http"
	"time"

	"github.com/dkravets/conversai/pkg/api/response"
)

// StatusConfig is the configuration subset /api/status is allowed to expose.
// The credential itself never leaves the process, only its presence.
type StatusConfig struct {
	MaxTokens      int
	Temperature    float32
	AllowedOrigins []string
	HasAPIKey      bool
}

type status struct {
	cfg       StatusConfig
	startedAt time.Time
	writer    response.JSONWriter
}

func NewStatus(cfg StatusConfig, startedAt time.Time) *status {
	return &status{cfg: cfg, startedAt: startedAt}
}

type statusResponse struct {
	Success       bool                `json:"success"`
	Status        string              `json:"status"`
	Endpoints     map[string]string   `json:"endpoints"`
	Configuration statusConfiguration `json:"configuration"`
	Uptime        float64             `json:"uptime"`
	Timestamp     string              `json:"timestamp"`
}

type statusConfiguration struct {
	MaxTokens      int      `json:"maxTokens"`
	Temperature    float32  `json:"temperature"`
	AllowedOrigins []string `json:"allowedOrigins"`
	HasAPIKey      bool     `json:"hasApiKey"`
}

// Status handles GET /api/status.
func (h *status) Status(w http.ResponseWriter, r *http.Request) {
	h.writer.WriteSuccess(w, statusResponse{
		Success: true,
		Status:  "API is running",
		Endpoints: map[string]string{
			"chat":         "POST /api/chat",
			"textToSpeech": "POST /api/text-to-speech",
			"test":         "GET /api/test",
			"status":       "GET /api/status",
		},
		Configuration: statusConfiguration{
			MaxTokens:      h.cfg.MaxTokens,
			Temperature:    h.cfg.Temperature,
			AllowedOrigins: h.cfg.AllowedOrigins,
			HasAPIKey:      h.cfg.HasAPIKey,
		},
		Uptime:    time.Since(h.startedAt).Seconds(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
