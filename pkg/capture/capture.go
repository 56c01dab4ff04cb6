// Package capture wraps a speech-to-text capability behind a small state
// machine that streams interim transcripts and auto-stops once a final
// transcript arrives. The recognizer itself is injected, so the controller
// logic is host-independent.
package capture

import "fmt"

// State is the capture lifecycle position.
type State string

const (
	StateIdle      State = "idle"
	StateListening State = "listening"
	StateError     State = "error"
)

// Recognition error causes, mirroring the platform recognition facility.
const (
	CauseNoSpeech          = "no-speech"
	CauseAudioCapture      = "audio-capture"
	CauseNotAllowed        = "not-allowed"
	CauseNetwork           = "network"
	CauseAborted           = "aborted"
	CauseServiceNotAllowed = "service-not-allowed"
)

var causeMessages = map[string]string{
	CauseNoSpeech:          "No speech detected. Please try again.",
	CauseAudioCapture:      "Microphone access denied.",
	CauseNotAllowed:        "Please allow microphone access.",
	CauseNetwork:           "Network error. Check your connection.",
	CauseAborted:           "Speech recognition stopped.",
	CauseServiceNotAllowed: "Speech service not allowed.",
}

// CaptureError pairs a recognition cause with its human-readable message.
type CaptureError struct {
	Cause   string
	Message string
}

func (e CaptureError) Error() string { return e.Message }

// NewCaptureError maps a cause to its fixed message, with a generic
// fallback for unrecognized causes.
func NewCaptureError(cause string) CaptureError {
	if msg, ok := causeMessages[cause]; ok {
		return CaptureError{Cause: cause, Message: msg}
	}
	return CaptureError{Cause: cause, Message: fmt.Sprintf("Speech error: %s", cause)}
}

// Result is one transcript delivery. Interim results stream continuously
// while listening; IsFinal marks the end of an utterance.
type Result struct {
	Interim string
	Final   string
	IsFinal bool
}
