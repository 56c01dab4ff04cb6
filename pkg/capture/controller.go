package capture

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Event is one delivery from a recognition session: a transcript or an
// error. Err, when set, carries a cause string understood by
// NewCaptureError.
type Event struct {
	Interim string
	Final   string
	Err     error
}

// Recognizer is the injected speech-to-text capability. Start opens a
// session whose events arrive on the returned channel; the channel closes
// when the session ends. Stop ends the session and must be idempotent.
type Recognizer interface {
	Start(ctx context.Context) (<-chan Event, error)
	Stop()
}

// Capability exposes the static platform checks: whether capture is
// available at all, and whether microphone permission can be obtained. The
// permission probe must release the acquired stream immediately.
type Capability interface {
	Supported() bool
	RequestMicrophonePermission(ctx context.Context) error
}

// Callbacks are the controller's notifications. All optional.
type Callbacks struct {
	OnResult      func(Result)
	OnError       func(CaptureError)
	OnStateChange func(State)
}

type Option func(*Controller)

// WithAutoStopDelay sets the pause between a final transcript and the
// automatic stop.
func WithAutoStopDelay(d time.Duration) Option {
	return func(c *Controller) { c.autoStopDelay = d }
}

// Controller is the capture state machine: idle → listening → idle, with
// error reachable from listening. At most one session is active; starting
// while listening is a no-op rather than stacking sessions.
type Controller struct {
	rec           Recognizer
	callbacks     Callbacks
	autoStopDelay time.Duration

	mu      sync.Mutex
	state   State
	session uint64
}

func NewController(rec Recognizer, cb Callbacks, opts ...Option) *Controller {
	c := &Controller{
		rec:           rec,
		callbacks:     cb,
		autoStopDelay: 100 * time.Millisecond,
		state:         StateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StartListening begins a capture session. A no-op while already listening.
func (c *Controller) StartListening(ctx context.Context) error {
	c.mu.Lock()
	if c.state == StateListening {
		c.mu.Unlock()
		return nil
	}
	c.session++
	session := c.session
	c.state = StateListening
	c.mu.Unlock()

	events, err := c.rec.Start(ctx)
	if err != nil {
		capErr := NewCaptureError(CauseAudioCapture)
		c.toState(session, StateError)
		c.emitError(capErr)
		return capErr
	}

	c.emitState(StateListening)
	go c.consume(session, events)
	return nil
}

// StopListening ends the active session and returns to idle. Idempotent and
// safe to call at any time.
func (c *Controller) StopListening() {
	c.mu.Lock()
	if c.state == StateIdle {
		c.mu.Unlock()
		return
	}
	c.state = StateIdle
	c.mu.Unlock()

	c.rec.Stop()
	c.emitState(StateIdle)
}

// Listening reports whether a capture session is active.
func (c *Controller) Listening() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateListening
}

// State returns the current capture state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) consume(session uint64, events <-chan Event) {
	for ev := range events {
		if !c.sessionAlive(session) {
			return
		}

		if ev.Err != nil {
			capErr := NewCaptureError(ev.Err.Error())
			slog.Debug("recognition error", "cause", capErr.Cause)
			c.rec.Stop()
			c.toState(session, StateError)
			c.emitError(capErr)
			return
		}

		if ev.Interim != "" {
			c.emitResult(Result{Interim: strings.TrimSpace(ev.Interim)})
		}

		if final := strings.TrimSpace(ev.Final); final != "" {
			c.emitResult(Result{Final: final, IsFinal: true})

			// A real utterance ends the session shortly after; one-char
			// fragments are noise and keep the microphone open.
			if len(final) > 1 {
				time.AfterFunc(c.autoStopDelay, func() {
					if c.sessionAlive(session) {
						c.StopListening()
					}
				})
			}
		}
	}

	// Session ended on the recognizer's side.
	if c.toState(session, StateIdle) {
		c.emitState(StateIdle)
	}
}

func (c *Controller) sessionAlive(session uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session == session && c.state == StateListening
}

// toState moves to s if the session is still current. Reports whether the
// transition happened.
func (c *Controller) toState(session uint64, s State) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != session {
		return false
	}
	if c.state == s {
		return false
	}
	c.state = s
	return true
}

func (c *Controller) emitState(s State) {
	if c.callbacks.OnStateChange != nil {
		c.callbacks.OnStateChange(s)
	}
}

func (c *Controller) emitResult(r Result) {
	if c.callbacks.OnResult != nil {
		c.callbacks.OnResult(r)
	}
}

func (c *Controller) emitError(e CaptureError) {
	if c.callbacks.OnError != nil {
		c.callbacks.OnError(e)
	}
	c.emitState(StateError)
}

// drainReader is a small helper for capability probes that must release an
// acquired stream immediately.
func drainReader(rc io.Closer) {
	if rc != nil {
		_ = rc.Close()
	}
}
