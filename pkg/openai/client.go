package openai

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/sashabaranov/go-openai"

	"github.com/dkravets/conversai/pkg/domain"
	"github.com/dkravets/conversai/pkg/repository"
)

const (
	chatModel   = openai.GPT3Dot5Turbo
	speechModel = openai.TTSModel1

	systemPrompt = `You are a helpful, professional AI assistant for a conversational AI demo.
Provide clear, concise, and engaging responses.
Keep responses under 150 words unless specifically asked for longer explanations.
Be conversational but professional, perfect for demonstrating AI capabilities.`

	connectivityProbe = "Hello, this is a connection test."
)

// Config carries everything the gateway needs. It is built once at process
// start; an empty APIKey means every call reports CredentialMissing without
// going to the network.
type Config struct {
	APIKey      string
	MaxTokens   int
	Temperature float32

	// MaxHistoryMessages caps how many prior turns are forwarded to the
	// completion endpoint; only the most recent ones survive. 0 disables
	// the cap.
	MaxHistoryMessages int
}

// Client adapts the hosted completion and speech-synthesis capabilities.
// Every operation returns a tagged result value; nothing escapes as an error
// or panic.
type Client struct {
	api   *openai.Client // nil when no credential is configured
	cfg   Config
	cache *repository.AudioCache
}

// NewClient creates the provider gateway. cache may be nil to disable speech
// memoization.
func NewClient(cfg Config, cache *repository.AudioCache) *Client {
	c := &Client{cfg: cfg, cache: cache}
	if cfg.APIKey != "" {
		c.api = openai.NewClient(cfg.APIKey)
	} else {
		slog.Warn("no API key configured, provider calls will report CredentialMissing")
	}
	return c
}

// newClientWithAPI lets tests point the SDK at a stub server.
func newClientWithAPI(api *openai.Client, cfg Config, cache *repository.AudioCache) *Client {
	return &Client{api: api, cfg: cfg, cache: cache}
}

// GenerateReply submits the system persona, the capped prior history and the
// new user turn to the completion endpoint.
func (c *Client) GenerateReply(ctx context.Context, message string, history []domain.ChatMessage) domain.ChatResult {
	if c.api == nil {
		return domain.ChatResult{Failure: credentialMissingFailure()}
	}

	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return domain.ChatResult{Failure: &domain.Failure{
			Kind:    domain.ErrUnknown,
			Message: "Prompt cannot be empty",
			Code:    domain.CodeUnknownError,
		}}
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, m := range c.capHistory(history) {
		messages = append(messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: trimmed,
	})

	slog.Debug("generating reply", "prompt", truncate(trimmed, 50), "historyLen", len(history))

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       chatModel,
		Messages:    messages,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
		TopP:        1,
	})
	elapsed := time.Since(start)

	if err != nil {
		slog.Error("text generation failed", "err", err)
		return domain.ChatResult{Elapsed: elapsed, Failure: classify(err, false)}
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return domain.ChatResult{Elapsed: elapsed, Failure: &domain.Failure{
			Kind:    domain.ErrUnknown,
			Message: "No response generated",
			Code:    domain.CodeUnknownError,
		}}
	}

	slog.Info("reply generated",
		"model", resp.Model,
		"totalTokens", resp.Usage.TotalTokens,
		"elapsed", elapsed,
	)

	return domain.ChatResult{
		Text: strings.TrimSpace(resp.Choices[0].Message.Content),
		Usage: domain.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
		Model:   resp.Model,
		Elapsed: elapsed,
	}
}

// SynthesizeSpeech converts text to MP3 audio. Text beyond the provider cap
// is cut and marked; an unknown voice id falls back to the default voice
// rather than failing.
func (c *Client) SynthesizeSpeech(ctx context.Context, text, voice string) domain.SpeechResult {
	if c.api == nil {
		return domain.SpeechResult{Failure: credentialMissingFailure()}
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return domain.SpeechResult{Failure: &domain.Failure{
			Kind:    domain.ErrUnknown,
			Message: "Text cannot be empty",
			Code:    domain.CodeTTSUnknownError,
		}}
	}

	processed := trimmed
	if len(processed) > domain.MaxSpeechInputLength {
		processed = processed[:domain.MaxSpeechInputLength] + domain.SpeechTruncationMarker
	}

	selectedVoice := lo.Ternary(lo.Contains(domain.SupportedVoices, voice), voice, domain.DefaultVoice)

	start := time.Now()

	if c.cache != nil {
		if audio, ok := c.cache.Get(selectedVoice, processed); ok {
			slog.Debug("speech cache hit", "voice", selectedVoice, "bytes", len(audio))
			return domain.SpeechResult{
				Audio:      audio,
				MimeType:   domain.AudioMimeType,
				Voice:      selectedVoice,
				TextLength: len(processed),
				Elapsed:    time.Since(start),
				Cached:     true,
			}
		}
	}

	slog.Debug("synthesizing speech", "chars", len(processed), "voice", selectedVoice)

	resp, err := c.api.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          speechModel,
		Input:          processed,
		Voice:          openai.SpeechVoice(selectedVoice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
		Speed:          1.0,
	})
	if err != nil {
		slog.Error("speech synthesis failed", "err", err)
		return domain.SpeechResult{Elapsed: time.Since(start), Failure: classify(err, true)}
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	elapsed := time.Since(start)
	if err != nil {
		return domain.SpeechResult{Elapsed: elapsed, Failure: &domain.Failure{
			Kind:    domain.ErrUnknown,
			Message: "Failed to read synthesized audio",
			Code:    domain.CodeTTSUnknownError,
		}}
	}

	if c.cache != nil {
		c.cache.Put(selectedVoice, processed, audio)
	}

	slog.Info("speech generated", "bytes", len(audio), "voice", selectedVoice, "elapsed", elapsed)

	return domain.SpeechResult{
		Audio:      audio,
		MimeType:   domain.AudioMimeType,
		Voice:      selectedVoice,
		TextLength: len(processed),
		Elapsed:    elapsed,
	}
}

// CheckConnection issues a minimal completion as a liveness probe. Calling it
// repeatedly accumulates no state.
func (c *Client) CheckConnection(ctx context.Context) domain.ConnectivityResult {
	if c.api == nil {
		return domain.ConnectivityResult{Failure: credentialMissingFailure()}
	}

	res := c.GenerateReply(ctx, connectivityProbe, nil)
	if !res.OK() {
		return domain.ConnectivityResult{Elapsed: res.Elapsed, Failure: res.Failure}
	}

	return domain.ConnectivityResult{
		Message: "Provider connection is working properly",
		Model:   res.Model,
		Elapsed: res.Elapsed,
	}
}

// TranscribeAudio converts a recorded clip to text via the hosted
// transcription model. Unlike the relay operations this returns a plain
// error; the capture controller does its own cause mapping.
func (c *Client) TranscribeAudio(ctx context.Context, clip []byte) (string, error) {
	if c.api == nil {
		return "", fmt.Errorf("no API key configured")
	}

	resp, err := c.api.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		Reader:   bytes.NewReader(clip),
		FilePath: "clip.wav",
	})
	if err != nil {
		return "", fmt.Errorf("creating transcription: %w", err)
	}

	return resp.Text, nil
}

func (c *Client) capHistory(history []domain.ChatMessage) []domain.ChatMessage {
	if c.cfg.MaxHistoryMessages <= 0 || len(history) <= c.cfg.MaxHistoryMessages {
		return history
	}
	return history[len(history)-c.cfg.MaxHistoryMessages:]
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
