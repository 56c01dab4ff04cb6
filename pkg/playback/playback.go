// Package playback manages the lifecycle of a single playable audio
// resource: load, play, pause, resume, stop and seek, with state
// notifications to subscribers. At most one resource is ever active;
// starting a new one stops and releases the previous one.
package playback

import (
	"errors"
	"io"
	"time"
)

// State is the playback lifecycle position.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StatePlaying State = "playing"
	StatePaused  State = "paused"
	StateEnded   State = "ended"
	StateError   State = "error"
)

// ErrInvalidTransition is returned for operations that are not valid from
// the current state, e.g. Pause while not playing.
var ErrInvalidTransition = errors.New("invalid playback state transition")

// Resource is a revocable handle over playable audio bytes. The client
// adapter's AudioResource satisfies it.
type Resource interface {
	Reader() (io.Reader, error)
	Release()
}

// Progress reports where playback currently stands.
type Progress struct {
	Position time.Duration
	Duration time.Duration
	Percent  float64
}

// Listener receives every state transition together with the progress at
// that moment. Listeners must not call back into the Controller.
type Listener func(State, Progress)
