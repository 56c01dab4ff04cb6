package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type notFoundResponse struct {
	Success    bool   `json:"success"`
	Error      string `json:"error"`
	Path       string `json:"path"`
	Suggestion string `json:"suggestion"`
}

// NotFound is the routing fallback for any unmatched method and path.
func NotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	body := notFoundResponse{
		Success:    false,
		Error:      "Endpoint not found",
		Path:       r.URL.Path,
		Suggestion: "Check GET /api/status for available endpoints",
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("encoding not-found response", "err", err)
	}
}
