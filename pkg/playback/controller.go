package playback

import (
	"log/slog"
	"sync"
	"time"
)

const watchInterval = 50 * time.Millisecond

// Controller is the playback state machine:
//
//	idle → loading → playing ⇄ paused → ended
//
// with error reachable from any active state. It owns at most one active
// resource; Play on a busy controller stops and releases the previous
// resource first.
type Controller struct {
	eng    engine
	decode decoderFunc

	mu         sync.Mutex
	state      State
	player     sound
	src        *countingSource
	resource   Resource
	generation uint64

	listeners  []Listener
	onComplete func()

	pending []event
}

type event struct {
	state State
	prog  Progress
}

// NewController creates a controller backed by the system audio device.
func NewController() *Controller {
	return newController(newOtoEngine(), decodeMP3)
}

func newController(eng engine, decode decoderFunc) *Controller {
	return &Controller{eng: eng, decode: decode, state: StateIdle}
}

// Subscribe registers a listener for every state transition.
func (c *Controller) Subscribe(fn Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// OnComplete registers a callback fired when playback finishes naturally.
func (c *Controller) OnComplete(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onComplete = fn
}

// Play loads the resource and begins playback. Any active resource is fully
// stopped and released first.
func (c *Controller) Play(res Resource) error {
	c.mu.Lock()

	c.releaseLocked()
	c.generation++
	gen := c.generation
	c.resource = res
	c.setStateLocked(StateLoading)

	reader, err := res.Reader()
	if err != nil {
		c.failLocked(res)
		c.flush(c.mu.Unlock)
		return err
	}

	src, err := c.decode(reader)
	if err != nil {
		c.failLocked(res)
		c.flush(c.mu.Unlock)
		return err
	}

	cs := newCountingSource(src)
	snd, err := c.eng.load(cs, cs.sampleRate())
	if err != nil {
		c.failLocked(res)
		c.flush(c.mu.Unlock)
		return err
	}

	c.player = snd
	c.src = cs
	snd.play()
	c.setStateLocked(StatePlaying)
	c.flush(c.mu.Unlock)

	go c.watch(gen)
	return nil
}

// Pause suspends playback. Only valid from playing.
func (c *Controller) Pause() error {
	c.mu.Lock()
	if c.state != StatePlaying {
		c.mu.Unlock()
		return ErrInvalidTransition
	}
	c.player.pause()
	c.setStateLocked(StatePaused)
	c.flush(c.mu.Unlock)
	return nil
}

// Resume continues playback. Only valid from paused; a dead resource moves
// the controller to the error state.
func (c *Controller) Resume() error {
	c.mu.Lock()
	if c.state != StatePaused {
		c.mu.Unlock()
		return ErrInvalidTransition
	}
	if c.player == nil || c.resource == nil {
		c.failLocked(c.resource)
		c.flush(c.mu.Unlock)
		return ErrInvalidTransition
	}
	c.generation++
	gen := c.generation
	c.player.play()
	c.setStateLocked(StatePlaying)
	c.flush(c.mu.Unlock)

	go c.watch(gen)
	return nil
}

// Stop halts playback, releases the active resource and returns to idle.
// Safe to call from any state, including idle.
func (c *Controller) Stop() {
	c.mu.Lock()
	if c.state == StateIdle && c.resource == nil {
		c.mu.Unlock()
		return
	}
	c.releaseLocked()
	c.setStateLocked(StateIdle)
	c.flush(c.mu.Unlock)
}

// Seek moves playback to the given position, clamped to the resource
// bounds. Valid while playing or paused.
func (c *Controller) Seek(pos time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StatePlaying && c.state != StatePaused {
		return ErrInvalidTransition
	}

	offset := durationToBytes(pos, c.src.sampleRate())
	if offset < 0 {
		offset = 0
	}
	if max := c.src.length(); offset > max {
		offset = max
	}
	offset -= offset % bytesPerFrame

	return c.player.seek(offset)
}

// State returns the current playback state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Progress returns the current position, total duration and percentage.
func (c *Controller) Progress() Progress {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.progressLocked()
}

// Close stops playback, releases the resource and detaches all subscribers.
// Safe to call when nothing is active.
func (c *Controller) Close() {
	c.Stop()
	c.mu.Lock()
	c.listeners = nil
	c.onComplete = nil
	c.mu.Unlock()
}

// watch polls for natural completion of the given playback generation.
func (c *Controller) watch(gen uint64) {
	for {
		time.Sleep(watchInterval)

		c.mu.Lock()
		if c.generation != gen || c.state != StatePlaying {
			c.mu.Unlock()
			return
		}

		if !c.player.isPlaying() && c.src.position() >= c.src.length() {
			c.setStateLocked(StateEnded)
			complete := c.onComplete
			c.flush(c.mu.Unlock)
			if complete != nil {
				complete()
			}
			return
		}
		c.mu.Unlock()
	}
}

// releaseLocked tears down the active player and revokes the resource
// handle so audio bytes are never leaked.
func (c *Controller) releaseLocked() {
	if c.player != nil {
		c.player.pause()
		if err := c.player.close(); err != nil {
			slog.Debug("closing audio player", "err", err)
		}
		c.player = nil
	}
	if c.resource != nil {
		c.resource.Release()
		c.resource = nil
	}
	c.src = nil
}

func (c *Controller) failLocked(res Resource) {
	if res != nil {
		res.Release()
	}
	c.player = nil
	c.src = nil
	c.resource = nil
	c.setStateLocked(StateError)
}

func (c *Controller) setStateLocked(s State) {
	c.state = s
	c.pending = append(c.pending, event{state: s, prog: c.progressLocked()})
}

func (c *Controller) progressLocked() Progress {
	if c.src == nil {
		return Progress{}
	}
	rate := c.src.sampleRate()
	pos := bytesToDuration(c.src.position(), rate)
	dur := bytesToDuration(c.src.length(), rate)
	p := Progress{Position: pos, Duration: dur}
	if dur > 0 {
		p.Percent = float64(pos) / float64(dur) * 100
	}
	return p
}

// flush delivers pending transition events outside the lock. unlock is the
// caller's deferred-style unlock, invoked after the snapshot is taken.
func (c *Controller) flush(unlock func()) {
	events := c.pending
	c.pending = nil
	listeners := make([]Listener, len(c.listeners))
	copy(listeners, c.listeners)
	unlock()

	for _, ev := range events {
		for _, fn := range listeners {
			fn(ev.state, ev.prog)
		}
	}
}
