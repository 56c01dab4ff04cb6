package domain

import "time"

const (
	VoiceAlloy   = "alloy"
	VoiceEcho    = "echo"
	VoiceFable   = "fable"
	VoiceOnyx    = "onyx"
	VoiceNova    = "nova"
	VoiceShimmer = "shimmer"

	// DefaultVoice is substituted for any voice id outside SupportedVoices.
	DefaultVoice = VoiceAlloy

	// AudioMimeType is the fixed MIME type of synthesized audio.
	AudioMimeType = "audio/mpeg"

	// MaxSpeechInputLength is the provider's input cap. Longer text is cut
	// at this length and SpeechTruncationMarker is appended.
	MaxSpeechInputLength   = 4000
	SpeechTruncationMarker = "..."
)

// SupportedVoices is the fixed set of speech-synthesis timbres.
var SupportedVoices = []string{
	VoiceAlloy, VoiceEcho, VoiceFable, VoiceOnyx, VoiceNova, VoiceShimmer,
}

// SpeechResult is the tagged outcome of a speech synthesis call.
type SpeechResult struct {
	Audio      []byte
	MimeType   string
	Voice      string
	TextLength int
	Elapsed    time.Duration
	Cached     bool

	Failure *Failure
}

func (r SpeechResult) OK() bool { return r.Failure == nil }
