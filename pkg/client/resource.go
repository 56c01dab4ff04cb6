package client

import (
	"bytes"
	"errors"
	"io"
	"sync"
)

// ErrResourceReleased is returned when a released handle is used.
var ErrResourceReleased = errors.New("audio resource released")

// AudioInfo is the synthesis metadata carried in the X-Audio-Info header.
type AudioInfo struct {
	Voice        string `json:"voice"`
	TextLength   int    `json:"textLength"`
	AudioSize    int    `json:"audioSize"`
	ResponseTime int64  `json:"responseTime"`
}

// AudioResource is a revocable handle over in-memory audio bytes. The
// consumer that takes it owns its lifetime and must call Release when done;
// a playback controller's cleanup path counts.
type AudioResource struct {
	mu       sync.Mutex
	data     []byte
	mimeType string
	info     AudioInfo
	released bool
}

func newAudioResource(data []byte, mimeType string, info AudioInfo) *AudioResource {
	return &AudioResource{data: data, mimeType: mimeType, info: info}
}

// Reader returns a fresh reader over the audio bytes, or
// ErrResourceReleased after Release.
func (r *AudioResource) Reader() (io.Reader, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return nil, ErrResourceReleased
	}
	return bytes.NewReader(r.data), nil
}

func (r *AudioResource) Bytes() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return nil, ErrResourceReleased
	}
	return r.data, nil
}

func (r *AudioResource) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.data)
}

func (r *AudioResource) MimeType() string { return r.mimeType }

func (r *AudioResource) Info() AudioInfo { return r.info }

// Release revokes the handle and drops the audio bytes. Idempotent.
func (r *AudioResource) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = nil
	r.released = true
}

func (r *AudioResource) Released() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.released
}
