package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/dkravets/conversai/pkg/domain"
)

// Recover turns a handler panic into a 500 INTERNAL_ERROR response. The
// panic detail is logged always but only sent to the client in the
// development environment.
func Recover(environment string) func(http.Handler) http.Handler {
	development := environment == "development"

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}

				slog.Error("panic in handler",
					"path", r.URL.Path,
					"panic", rec,
					"stack", string(debug.Stack()),
				)

				body := map[string]interface{}{
					"success": false,
					"error":   "Internal server error",
					"code":    domain.CodeInternalError,
				}
				if development {
					body["message"] = rec
				}

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				if err := json.NewEncoder(w).Encode(body); err != nil {
					slog.Error("encoding panic response", "err", err)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
