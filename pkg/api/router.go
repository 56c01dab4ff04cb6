package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dkravets/conversai/pkg/api/handler"
	"github.com/dkravets/conversai/pkg/api/middleware"
)

// RouterOptions wires the middleware configuration and the endpoint handlers
// into one HTTP surface.
type RouterOptions struct {
	AllowedOrigins []string
	Environment    string

	Chat           http.HandlerFunc
	TextToSpeech   http.HandlerFunc
	ConnectionTest http.HandlerFunc
	Status         http.HandlerFunc
	Health         http.HandlerFunc
}

func NewRouter(opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logging)
	r.Use(middleware.CORS(opts.AllowedOrigins))
	r.Use(middleware.Recover(opts.Environment))

	r.Post("/api/chat", opts.Chat)
	r.Post("/api/text-to-speech", opts.TextToSpeech)
	r.Get("/api/test", opts.ConnectionTest)
	r.Get("/api/status", opts.Status)
	r.Get("/health", opts.Health)

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.NotFound)

	return r
}
