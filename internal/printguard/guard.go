// Package printguard suppresses duplicate print dialogs. The first
// printable rendering of a bill in a session triggers window.print();
// re-opening the same bill in the same session renders without it.
package printguard

import (
	"sync"
	"time"
)

const defaultTTL = 12 * time.Hour

type key struct {
	sessionID string
	billID    int64
}

// Guard tracks which (session, bill) pairs already printed. Entries
// expire so long-lived sessions do not grow the map unbounded.
type Guard struct {
	mu      sync.Mutex
	ttl     time.Duration
	printed map[key]time.Time
	now     func() time.Time
}

type Option func(*Guard)

// WithTTL overrides the expiry, for tests.
func WithTTL(ttl time.Duration) Option {
	return func(g *Guard) { g.ttl = ttl }
}

// WithClock overrides time lookup, for tests.
func WithClock(now func() time.Time) Option {
	return func(g *Guard) { g.now = now }
}

// Provide constructs the default guard, for fx.
func Provide() *Guard {
	return New()
}

func New(opts ...Option) *Guard {
	g := &Guard{
		ttl:     defaultTTL,
		printed: map[key]time.Time{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Begin records the print attempt and reports whether this is the
// first one for the pair. The flag is set before the caller renders,
// so a concurrent repeat request cannot also claim the first print.
func (g *Guard) Begin(sessionID string, billID int64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	g.sweep(now)

	k := key{sessionID: sessionID, billID: billID}
	if _, ok := g.printed[k]; ok {
		return false
	}
	g.printed[k] = now.Add(g.ttl)
	return true
}

func (g *Guard) sweep(now time.Time) {
	for k, expiry := range g.printed {
		if now.After(expiry) {
			delete(g.printed, k)
		}
	}
}
