package repository

import "testing"

func TestAudioCacheGetPut(t *testing.T) {
	c := NewAudioCache(8)

	if _, ok := c.Get("alloy", "hello"); ok {
		t.Fatal("expected miss on empty cache")
	}

	c.Put("alloy", "hello", []byte("audio-a"))

	audio, ok := c.Get("alloy", "hello")
	if !ok || string(audio) != "audio-a" {
		t.Errorf("expected hit with audio-a, got %q ok=%v", audio, ok)
	}

	// Same text under another voice is a different entry.
	if _, ok := c.Get("nova", "hello"); ok {
		t.Error("expected miss for a different voice")
	}

	hits, misses := c.Stats()
	if hits != 1 || misses != 2 {
		t.Errorf("expected 1 hit / 2 misses, got %d / %d", hits, misses)
	}
}

func TestAudioCacheEviction(t *testing.T) {
	c := NewAudioCache(2)

	c.Put("alloy", "one", []byte("1"))
	c.Put("alloy", "two", []byte("2"))
	c.Put("alloy", "three", []byte("3"))

	if c.Len() != 2 {
		t.Errorf("expected cache capped at 2 entries, got %d", c.Len())
	}
	if _, ok := c.Get("alloy", "three"); !ok {
		t.Error("expected most recent entry present")
	}
}

func TestAudioCacheOverwriteDoesNotEvict(t *testing.T) {
	c := NewAudioCache(2)

	c.Put("alloy", "one", []byte("1"))
	c.Put("alloy", "two", []byte("2"))
	c.Put("alloy", "one", []byte("1b"))

	if c.Len() != 2 {
		t.Errorf("expected 2 entries after overwrite, got %d", c.Len())
	}
	if audio, ok := c.Get("alloy", "one"); !ok || string(audio) != "1b" {
		t.Errorf("expected updated entry, got %q ok=%v", audio, ok)
	}
	if _, ok := c.Get("alloy", "two"); !ok {
		t.Error("expected untouched entry to survive overwrite")
	}
}

func TestAudioCacheClear(t *testing.T) {
	c := NewAudioCache(0)

	c.Put("alloy", "hello", []byte("x"))
	c.Clear()

	if c.Len() != 0 {
		t.Errorf("expected empty cache, got %d entries", c.Len())
	}
	if hits, misses := c.Stats(); hits != 0 || misses != 0 {
		t.Errorf("expected reset stats, got %d / %d", hits, misses)
	}
}
