package capture

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"
)

// Transcriber converts a recorded audio clip to text.
type Transcriber interface {
	TranscribeAudio(ctx context.Context, clip []byte) (string, error)
}

// Microphone records raw audio clips from an input device. Open is the
// permission probe: it acquires the device and the caller closes it
// immediately.
type Microphone interface {
	Record(ctx context.Context, d time.Duration) ([]byte, error)
	Open(ctx context.Context) (io.Closer, error)
}

type WhisperOption func(*WhisperRecognizer)

// WithChunkDuration sets the length of each recorded clip.
func WithChunkDuration(d time.Duration) WhisperOption {
	return func(r *WhisperRecognizer) { r.chunk = d }
}

// WithListenWindow caps how long a session keeps listening before the
// accumulated text is finalized.
func WithListenWindow(d time.Duration) WhisperOption {
	return func(r *WhisperRecognizer) { r.window = d }
}

// WhisperRecognizer implements Recognizer over a microphone and a hosted
// transcription model. It records fixed-length clips, emits each
// transcribed clip as an interim result, and finalizes the joined text when
// the speaker goes quiet or the listen window closes.
type WhisperRecognizer struct {
	mic    Microphone
	stt    Transcriber
	chunk  time.Duration
	window time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
}

func NewWhisperRecognizer(mic Microphone, stt Transcriber, opts ...WhisperOption) *WhisperRecognizer {
	r := &WhisperRecognizer{
		mic:    mic,
		stt:    stt,
		chunk:  2 * time.Second,
		window: 15 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *WhisperRecognizer) Start(ctx context.Context) (<-chan Event, error) {
	r.mu.Lock()
	if r.cancel != nil {
		r.mu.Unlock()
		return nil, errors.New("recognition session already active")
	}
	sessionCtx, cancel := context.WithTimeout(ctx, r.window)
	r.cancel = cancel
	r.mu.Unlock()

	events := make(chan Event, 8)
	go r.run(sessionCtx, events)
	return events, nil
}

func (r *WhisperRecognizer) Stop() {
	r.mu.Lock()
	cancel := r.cancel
	r.cancel = nil
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// run is the session loop: record, transcribe, accumulate. An empty clip
// after speech has been heard ends the utterance, as does the window
// closing.
func (r *WhisperRecognizer) run(ctx context.Context, events chan<- Event) {
	defer close(events)
	defer r.Stop()

	var parts []string

	finalize := func() {
		combined := strings.TrimSpace(strings.Join(parts, " "))
		if combined != "" {
			events <- Event{Final: combined}
		}
	}

	for {
		select {
		case <-ctx.Done():
			finalize()
			return
		default:
		}

		clip, err := r.mic.Record(ctx, r.chunk)
		if err != nil {
			if ctx.Err() != nil {
				finalize()
				return
			}
			events <- Event{Err: errors.New(CauseAudioCapture)}
			return
		}

		text, err := r.stt.TranscribeAudio(ctx, clip)
		if err != nil {
			if ctx.Err() != nil {
				finalize()
				return
			}
			events <- Event{Err: errors.New(CauseNetwork)}
			return
		}

		text = strings.TrimSpace(text)
		if text == "" {
			if len(parts) > 0 {
				// Silence after speech: the utterance is complete.
				finalize()
				return
			}
			continue
		}

		parts = append(parts, text)
		events <- Event{Interim: strings.Join(parts, " ")}
	}
}

// WhisperCapability implements the static platform checks for the
// whisper-backed recognizer.
type WhisperCapability struct {
	Mic Microphone
	STT Transcriber
}

// Supported reports whether both a microphone and a transcription backend
// are available.
func (c WhisperCapability) Supported() bool {
	return c.Mic != nil && c.STT != nil
}

// RequestMicrophonePermission opens the input device to verify access and
// releases it immediately; the microphone is never held open beyond the
// check.
func (c WhisperCapability) RequestMicrophonePermission(ctx context.Context) error {
	if c.Mic == nil {
		return NewCaptureError(CauseServiceNotAllowed)
	}
	stream, err := c.Mic.Open(ctx)
	if err != nil {
		return NewCaptureError(CauseNotAllowed)
	}
	drainReader(stream)
	return nil
}
