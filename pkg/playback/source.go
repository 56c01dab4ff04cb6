package playback

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/hajimehoshi/go-mp3"
)

// bytesPerFrame: the decoder always yields 16-bit little-endian stereo PCM.
const bytesPerFrame = 4

// pcmSource is decoded, seekable PCM. *mp3.Decoder satisfies it.
type pcmSource interface {
	io.ReadSeeker
	SampleRate() int
	Length() int64
}

// decoderFunc turns encoded audio into PCM. Swapped out in tests.
type decoderFunc func(io.Reader) (pcmSource, error)

func decodeMP3(r io.Reader) (pcmSource, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("decoding mp3: %w", err)
	}
	return dec, nil
}

// countingSource tracks the absolute read offset so the controller can
// report position without asking the audio backend.
type countingSource struct {
	mu  sync.Mutex
	src pcmSource
	off int64
}

func newCountingSource(src pcmSource) *countingSource {
	return &countingSource{src: src}
}

func (s *countingSource) Read(p []byte) (int, error) {
	n, err := s.src.Read(p)
	s.mu.Lock()
	s.off += int64(n)
	s.mu.Unlock()
	return n, err
}

func (s *countingSource) Seek(offset int64, whence int) (int64, error) {
	abs, err := s.src.Seek(offset, whence)
	if err != nil {
		return abs, err
	}
	s.mu.Lock()
	s.off = abs
	s.mu.Unlock()
	return abs, nil
}

func (s *countingSource) position() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.off
}

func (s *countingSource) length() int64 { return s.src.Length() }

func (s *countingSource) sampleRate() int { return s.src.SampleRate() }

func bytesToDuration(n int64, sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	frames := n / bytesPerFrame
	return time.Duration(frames) * time.Second / time.Duration(sampleRate)
}

func durationToBytes(d time.Duration, sampleRate int) int64 {
	frames := int64(d.Seconds() * float64(sampleRate))
	return frames * bytesPerFrame
}
