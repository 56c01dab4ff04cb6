package client

import (
	"errors"
	"io"
	"testing"
)

func TestAudioResourceReader(t *testing.T) {
	res := newAudioResource([]byte("abc"), "audio/mpeg", AudioInfo{Voice: "alloy"})

	r, err := res.Reader()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, _ := io.ReadAll(r)
	if string(data) != "abc" {
		t.Errorf("unexpected data %q", data)
	}

	// Each Reader call starts from the beginning.
	r2, err := res.Reader()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data2, _ := io.ReadAll(r2)
	if string(data2) != "abc" {
		t.Errorf("expected fresh reader, got %q", data2)
	}
}

func TestAudioResourceRelease(t *testing.T) {
	res := newAudioResource([]byte("abc"), "audio/mpeg", AudioInfo{})

	res.Release()
	res.Release() // idempotent

	if !res.Released() {
		t.Error("expected resource marked released")
	}
	if _, err := res.Reader(); !errors.Is(err, ErrResourceReleased) {
		t.Errorf("expected ErrResourceReleased, got %v", err)
	}
	if _, err := res.Bytes(); !errors.Is(err, ErrResourceReleased) {
		t.Errorf("expected ErrResourceReleased, got %v", err)
	}
	if res.Len() != 0 {
		t.Errorf("expected released resource to drop its bytes, got %d", res.Len())
	}
}
