package response

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dkravets/conversai/pkg/logger"
)

type JSONWriter struct{}

func (j *JSONWriter) WriteSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encoding success response", logger.Err(err))
	}
}

func (j *JSONWriter) WriteError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	body := ErrorResponse{Success: false, Error: message, Code: code}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("encoding error response", logger.Err(err))
	}
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
}
