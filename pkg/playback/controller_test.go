package playback

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"testing"
	"time"
)

type fakePCM struct {
	r    *bytes.Reader
	rate int
	size int64
}

func (f *fakePCM) Read(p []byte) (int, error)           { return f.r.Read(p) }
func (f *fakePCM) Seek(off int64, w int) (int64, error) { return f.r.Seek(off, w) }
func (f *fakePCM) SampleRate() int                      { return f.rate }
func (f *fakePCM) Length() int64                        { return f.size }

func fakeDecoder(rate int) decoderFunc {
	return func(r io.Reader) (pcmSource, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		return &fakePCM{r: bytes.NewReader(data), rate: rate, size: int64(len(data))}, nil
	}
}

type fakeSound struct {
	mu            sync.Mutex
	src           io.ReadSeeker
	playing       bool
	closed        bool
	consumeOnPlay bool
	seekedTo      int64
}

func (s *fakeSound) play() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playing = true
	if s.consumeOnPlay {
		_, _ = io.Copy(io.Discard, s.src)
		s.playing = false
	}
}

func (s *fakeSound) pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playing = false
}

func (s *fakeSound) isPlaying() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

func (s *fakeSound) seek(offset int64) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seekedTo = offset
	_, err = s.src.Seek(offset, io.SeekStart)
	return err
}

func (s *fakeSound) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.playing = false
	return nil
}

func (s *fakeSound) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

type fakeEngine struct {
	mu            sync.Mutex
	loadErr       error
	consumeOnPlay bool
	sounds        []*fakeSound
}

func (e *fakeEngine) load(src io.ReadSeeker, sampleRate int) (sound, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.loadErr != nil {
		return nil, e.loadErr
	}
	s := &fakeSound{src: src, consumeOnPlay: e.consumeOnPlay}
	e.sounds = append(e.sounds, s)
	return s, nil
}

func (e *fakeEngine) sound(i int) *fakeSound {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sounds[i]
}

type fakeAudioResource struct {
	mu        sync.Mutex
	data      []byte
	released  bool
	readerErr error
}

func (r *fakeAudioResource) Reader() (io.Reader, error) {
	if r.readerErr != nil {
		return nil, r.readerErr
	}
	return bytes.NewReader(r.data), nil
}

func (r *fakeAudioResource) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.released = true
}

func (r *fakeAudioResource) isReleased() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.released
}

func pcmBytes(frames int) []byte {
	return make([]byte, frames*bytesPerFrame)
}

func TestPlayTransitions(t *testing.T) {
	eng := &fakeEngine{}
	c := newController(eng, fakeDecoder(44100))

	var states []State
	c.Subscribe(func(s State, _ Progress) { states = append(states, s) })

	res := &fakeAudioResource{data: pcmBytes(44100)}
	if err := c.Play(res); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.State() != StatePlaying {
		t.Errorf("expected playing, got %s", c.State())
	}
	if len(states) != 2 || states[0] != StateLoading || states[1] != StatePlaying {
		t.Errorf("expected loading then playing, got %v", states)
	}
	if !eng.sound(0).isPlaying() {
		t.Error("expected backend sound started")
	}
}

func TestPlayReleasesPreviousResource(t *testing.T) {
	eng := &fakeEngine{}
	c := newController(eng, fakeDecoder(44100))

	first := &fakeAudioResource{data: pcmBytes(100)}
	second := &fakeAudioResource{data: pcmBytes(100)}

	if err := c.Play(first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Play(second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !first.isReleased() {
		t.Error("expected first resource released when second plays")
	}
	if second.isReleased() {
		t.Error("second resource must stay live")
	}
	if !eng.sound(0).isClosed() {
		t.Error("expected first backend sound closed")
	}
	if c.State() != StatePlaying {
		t.Errorf("expected playing, got %s", c.State())
	}
}

func TestPauseResume(t *testing.T) {
	c := newController(&fakeEngine{}, fakeDecoder(44100))

	if err := c.Pause(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition from idle, got %v", err)
	}

	res := &fakeAudioResource{data: pcmBytes(100)}
	if err := c.Play(res); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := c.Resume(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition resuming while playing, got %v", err)
	}

	if err := c.Pause(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.State() != StatePaused {
		t.Errorf("expected paused, got %s", c.State())
	}

	if err := c.Pause(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition pausing twice, got %v", err)
	}

	if err := c.Resume(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.State() != StatePlaying {
		t.Errorf("expected playing after resume, got %s", c.State())
	}
}

func TestStop(t *testing.T) {
	c := newController(&fakeEngine{}, fakeDecoder(44100))

	c.Stop() // idempotent from idle

	res := &fakeAudioResource{data: pcmBytes(100)}
	if err := c.Play(res); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c.Stop()
	if c.State() != StateIdle {
		t.Errorf("expected idle, got %s", c.State())
	}
	if !res.isReleased() {
		t.Error("expected resource released on stop")
	}

	c.Stop() // still safe
}

func TestPlayUnreadableResource(t *testing.T) {
	c := newController(&fakeEngine{}, fakeDecoder(44100))

	var states []State
	c.Subscribe(func(s State, _ Progress) { states = append(states, s) })

	res := &fakeAudioResource{readerErr: errors.New("revoked")}
	if err := c.Play(res); err == nil {
		t.Fatal("expected error from unreadable resource")
	}

	if c.State() != StateError {
		t.Errorf("expected error state, got %s", c.State())
	}
	if !res.isReleased() {
		t.Error("expected failed resource released")
	}
	if len(states) == 0 || states[len(states)-1] != StateError {
		t.Errorf("expected error transition delivered, got %v", states)
	}
}

func TestPlayEngineFailure(t *testing.T) {
	c := newController(&fakeEngine{loadErr: errors.New("no device")}, fakeDecoder(44100))

	res := &fakeAudioResource{data: pcmBytes(100)}
	if err := c.Play(res); err == nil {
		t.Fatal("expected error from engine failure")
	}
	if c.State() != StateError {
		t.Errorf("expected error state, got %s", c.State())
	}
	if !res.isReleased() {
		t.Error("expected resource released on engine failure")
	}
}

func TestNaturalCompletion(t *testing.T) {
	eng := &fakeEngine{consumeOnPlay: true}
	c := newController(eng, fakeDecoder(44100))

	done := make(chan State, 8)
	c.Subscribe(func(s State, _ Progress) { done <- s })

	completed := make(chan struct{})
	c.OnComplete(func() { close(completed) })

	if err := c.Play(&fakeAudioResource{data: pcmBytes(100)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case s := <-done:
			if s == StateEnded {
				select {
				case <-completed:
				case <-deadline:
					t.Fatal("completion callback never fired")
				}
				if c.State() != StateEnded {
					t.Errorf("expected ended, got %s", c.State())
				}
				return
			}
		case <-deadline:
			t.Fatal("never reached ended state")
		}
	}
}

func TestSeekClampsToBounds(t *testing.T) {
	eng := &fakeEngine{}
	c := newController(eng, fakeDecoder(44100))

	if err := c.Seek(time.Second); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition seeking from idle, got %v", err)
	}

	// one second of audio at 44100 Hz
	if err := c.Play(&fakeAudioResource{data: pcmBytes(44100)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := c.Seek(10 * time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := eng.sound(0).seekedTo; got != int64(44100*bytesPerFrame) {
		t.Errorf("expected clamp to length %d, got %d", 44100*bytesPerFrame, got)
	}

	if err := c.Seek(500 * time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := eng.sound(0).seekedTo; got != int64(22050*bytesPerFrame) {
		t.Errorf("expected half-way offset %d, got %d", 22050*bytesPerFrame, got)
	}
	if got := eng.sound(0).seekedTo % bytesPerFrame; got != 0 {
		t.Errorf("expected frame-aligned offset, remainder %d", got)
	}
}

func TestProgress(t *testing.T) {
	eng := &fakeEngine{}
	c := newController(eng, fakeDecoder(44100))

	if p := c.Progress(); p.Duration != 0 || p.Percent != 0 {
		t.Errorf("expected zero progress while idle, got %+v", p)
	}

	if err := c.Play(&fakeAudioResource{data: pcmBytes(44100)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p := c.Progress(); p.Duration != time.Second {
		t.Errorf("expected 1s duration, got %v", p.Duration)
	}

	if err := c.Seek(500 * time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := c.Progress()
	if p.Position != 500*time.Millisecond {
		t.Errorf("expected position 500ms, got %v", p.Position)
	}
	if p.Percent < 49 || p.Percent > 51 {
		t.Errorf("expected ~50%%, got %f", p.Percent)
	}
}

func TestClose(t *testing.T) {
	c := newController(&fakeEngine{}, fakeDecoder(44100))

	calls := 0
	c.Subscribe(func(State, Progress) { calls++ })

	res := &fakeAudioResource{data: pcmBytes(100)}
	if err := c.Play(res); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c.Close()
	if !res.isReleased() {
		t.Error("expected resource released on close")
	}
	if c.State() != StateIdle {
		t.Errorf("expected idle, got %s", c.State())
	}

	before := calls
	c.Close() // detached and idempotent
	if calls != before {
		t.Error("expected no deliveries after close")
	}
}
