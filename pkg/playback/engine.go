package playback

import (
	"fmt"
	"io"

	"github.com/ebitengine/oto/v3"
)

// engine abstracts the audio backend so the state machine is testable
// without a sound device.
type engine interface {
	load(src io.ReadSeeker, sampleRate int) (sound, error)
}

type sound interface {
	play()
	pause()
	isPlaying() bool
	seek(offset int64) error
	close() error
}

// otoEngine plays PCM through the system audio device. oto allows a single
// context per process, created here with the first resource's sample rate;
// synthesized speech from one provider keeps a constant rate, so later
// resources reuse it.
type otoEngine struct {
	ctx *oto.Context
}

func newOtoEngine() *otoEngine { return &otoEngine{} }

func (e *otoEngine) load(src io.ReadSeeker, sampleRate int) (sound, error) {
	if e.ctx == nil {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: 2,
			Format:       oto.FormatSignedInt16LE,
		})
		if err != nil {
			return nil, fmt.Errorf("initializing audio context: %w", err)
		}
		<-ready
		e.ctx = ctx
	}

	return &otoSound{p: e.ctx.NewPlayer(src)}, nil
}

type otoSound struct {
	p *oto.Player
}

func (s *otoSound) play()           { s.p.Play() }
func (s *otoSound) pause()          { s.p.Pause() }
func (s *otoSound) isPlaying() bool { return s.p.IsPlaying() }

func (s *otoSound) seek(offset int64) error {
	_, err := s.p.Seek(offset, io.SeekStart)
	return err
}

func (s *otoSound) close() error { return s.p.Close() }
