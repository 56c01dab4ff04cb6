package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dkravets/conversai/pkg/api/response"
	"github.com/dkravets/conversai/pkg/domain"
)

type ConnectionChecker interface {
	CheckConnection(ctx context.Context) domain.ConnectivityResult
}

type connectionTest struct {
	gateway ConnectionChecker
	writer  response.JSONWriter
}

func NewConnectionTest(gateway ConnectionChecker) *connectionTest {
	return &connectionTest{gateway: gateway}
}

type connectionTestResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	Model        string `json:"model"`
	ResponseTime int64  `json:"responseTime"`
	Timestamp    string `json:"timestamp"`
}

// TestConnection handles GET /api/test. Probe failures are always reported
// as 500 with the failure detail, matching the debugging purpose of the
// endpoint.
func (h *connectionTest) TestConnection(w http.ResponseWriter, r *http.Request) {
	slog.Info("connection test requested")

	res := h.gateway.CheckConnection(r.Context())
	if !res.OK() {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		body := map[string]interface{}{
			"success": false,
			"error":   "Connection test failed",
			"details": res.Failure.Message,
			"code":    res.Failure.Code,
		}
		if err := json.NewEncoder(w).Encode(body); err != nil {
			slog.Error("encoding test response", "err", err)
		}
		return
	}

	h.writer.WriteSuccess(w, connectionTestResponse{
		Success:      true,
		Message:      res.Message,
		Model:        res.Model,
		ResponseTime: res.Elapsed.Milliseconds(),
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	})
}
