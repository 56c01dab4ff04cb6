package handler

import (
	"net/http"
	"time"

	"github.com/dkravets/conversai/pkg/api/response"
)

type health struct {
	environment string
	startedAt   time.Time
	writer      response.JSONWriter
}

func NewHealth(environment string, startedAt time.Time) *health {
	return &health{environment: environment, startedAt: startedAt}
}

type healthResponse struct {
	Status      string  `json:"status"`
	Service     string  `json:"service"`
	Uptime      float64 `json:"uptime"`
	Environment string  `json:"environment"`
	Timestamp   string  `json:"timestamp"`
}

// Health handles GET /health.
func (h *health) Health(w http.ResponseWriter, r *http.Request) {
	h.writer.WriteSuccess(w, healthResponse{
		Status:      "OK",
		Service:     "Conversational AI Relay",
		Uptime:      time.Since(h.startedAt).Seconds(),
		Environment: h.environment,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	})
}
