package repository

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// AudioCache memoizes synthesized speech in memory, keyed by voice and source
// text, so repeated synthesis of the same line skips the provider round trip.
// Entries live for the process lifetime only; nothing is persisted.
type AudioCache struct {
	mu         sync.RWMutex
	entries    map[string][]byte
	maxEntries int
	hits       int64
	misses     int64
}

// NewAudioCache creates a cache holding at most maxEntries clips.
// maxEntries <= 0 means unbounded.
func NewAudioCache(maxEntries int) *AudioCache {
	return &AudioCache{
		entries:    make(map[string][]byte),
		maxEntries: maxEntries,
	}
}

func (c *AudioCache) Get(voice, text string) ([]byte, bool) {
	key := cacheKey(voice, text)

	c.mu.Lock()
	defer c.mu.Unlock()

	audio, ok := c.entries[key]
	if ok {
		c.hits++
		return audio, true
	}
	c.misses++
	return nil, false
}

func (c *AudioCache) Put(voice, text string, audio []byte) {
	key := cacheKey(voice, text)

	c.mu.Lock()
	defer c.mu.Unlock()

	// Evict an arbitrary entry when full. The working set of a single demo
	// session is tiny, so anything smarter than this buys nothing.
	if c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		if _, exists := c.entries[key]; !exists {
			for k := range c.entries {
				delete(c.entries, k)
				break
			}
		}
	}

	c.entries[key] = audio
}

func (c *AudioCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns hit and miss counts since creation.
func (c *AudioCache) Stats() (hits, misses int64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

func (c *AudioCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// cacheKey hashes voice and text together so a voice change never serves
// audio synthesized for another timbre.
func cacheKey(voice, text string) string {
	h := sha256.Sum256([]byte(voice + ":" + text))
	return hex.EncodeToString(h[:])
}
