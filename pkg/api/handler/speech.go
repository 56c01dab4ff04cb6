package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/dkravets/conversai/pkg/api/response"
	"github.com/dkravets/conversai/pkg/domain"
)

type SpeechSynthesizer interface {
	SynthesizeSpeech(ctx context.Context, text, voice string) domain.SpeechResult
}

type speech struct {
	gateway SpeechSynthesizer
	writer  response.JSONWriter
}

func NewSpeech(gateway SpeechSynthesizer) *speech {
	return &speech{gateway: gateway}
}

type speechRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
}

// audioInfo is the X-Audio-Info side channel carried next to the binary body.
type audioInfo struct {
	Voice        string `json:"voice"`
	TextLength   int    `json:"textLength"`
	AudioSize    int    `json:"audioSize"`
	ResponseTime int64  `json:"responseTime"`
}

// Synthesize handles POST /api/text-to-speech. On success the body is the
// raw audio and all metadata travels in headers.
func (h *speech) Synthesize(w http.ResponseWriter, r *http.Request) {
	var req speechRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		h.writer.WriteError(w, http.StatusBadRequest, domain.CodeMissingText, "Text is required for speech synthesis")
		return
	}

	slog.Info("text-to-speech request", "chars", len(req.Text))

	res := h.gateway.SynthesizeSpeech(r.Context(), req.Text, req.Voice)
	if !res.OK() {
		h.writer.WriteError(w, res.Failure.Kind.HTTPStatus(), res.Failure.Code, res.Failure.Message)
		return
	}

	info, err := json.Marshal(audioInfo{
		Voice:        res.Voice,
		TextLength:   res.TextLength,
		AudioSize:    len(res.Audio),
		ResponseTime: res.Elapsed.Milliseconds(),
	})
	if err == nil {
		w.Header().Set("X-Audio-Info", string(info))
	}

	w.Header().Set("Content-Type", res.MimeType)
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Audio)))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(res.Audio); err != nil {
		slog.Error("writing audio response", "err", err)
	}
}
