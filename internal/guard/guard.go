// Package guard provides time-bounded, in-process mutual exclusion keyed by
// a logical operation identity. It prevents duplicate concurrent execution
// of the same operation (e.g. a double-submitted accept), not cross-process
// races; those are governed by the store's own conflict handling.
package guard

import (
	"sync"
	"time"
)

// DefaultTTL bounds how long an acquisition is honored before it is treated
// as abandoned. Longer flows may construct a guard with a larger TTL, up to
// MaxTTL.
const (
	DefaultTTL = 3 * time.Second
	MaxTTL     = 5 * time.Second
)

// Guard is a time-bounded advisory lock set. The zero value is not usable;
// construct with New.
type Guard struct {
	mu      sync.Mutex
	entries map[string]time.Time
	ttl     time.Duration

	now func() time.Time
}

// New creates a Guard with the given TTL. A non-positive TTL falls back to
// DefaultTTL; TTLs beyond MaxTTL are clamped.
func New(ttl time.Duration) *Guard {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if ttl > MaxTTL {
		ttl = MaxTTL
	}
	return &Guard{
		entries: make(map[string]time.Time),
		ttl:     ttl,
		now:     time.Now,
	}
}

// TryAcquire attempts to claim key. It returns false when a live entry
// exists; a stale entry (older than the TTL) is treated as abandoned and
// reclaimed. Callers must Release the key when the operation finishes,
// success or not.
func (g *Guard) TryAcquire(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if acquiredAt, ok := g.entries[key]; ok && now.Sub(acquiredAt) < g.ttl {
		return false
	}
	g.entries[key] = now
	return true
}

// Release frees key. Releasing an unheld key is a no-op.
func (g *Guard) Release(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.entries, key)
}

// Held reports whether key currently has a live entry.
func (g *Guard) Held(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	acquiredAt, ok := g.entries[key]
	return ok && g.now().Sub(acquiredAt) < g.ttl
}
