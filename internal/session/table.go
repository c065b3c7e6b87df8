// Package session keeps the in-progress order of every ongoing conversation.
//
// A Table maps a session id to an order. The table-wide mutex only guards
// the map itself; every entry has its own mutex, so work on one session never
// waits for another. Entries idle for longer than the TTL are dropped, either
// lazily on access or by the sweeper started with Run.
package session

import (
	"context"
	"sync"
	"time"

	"chatcuisine/internal/common/logger"
	"chatcuisine/internal/domain"
)

type Table struct {
	mu      sync.Mutex
	entries map[string]*entry

	ttl time.Duration
	now func() time.Time
	lg  *logger.Logger
}

type entry struct {
	mu      sync.Mutex
	order   *domain.Order
	touched time.Time
	gone    bool // removed from the map; holders must look the id up again
}

type Option func(*Table)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option { return func(t *Table) { t.now = now } }

func WithLogger(lg *logger.Logger) Option { return func(t *Table) { t.lg = lg } }

func New(ttl time.Duration, opts ...Option) *Table {
	t := &Table{
		entries: make(map[string]*entry),
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Acquire locks the order of session id and returns a handle to it. When the
// session has no live order, Acquire creates an empty one if create is set and
// otherwise returns false. The caller must Release the handle.
func (t *Table) Acquire(id string, create bool) (*Handle, bool) {
	for {
		t.mu.Lock()
		e, ok := t.entries[id]
		if !ok {
			if !create {
				t.mu.Unlock()
				return nil, false
			}
			e = &entry{order: domain.NewOrder(), touched: t.now()}
			t.entries[id] = e
		}
		t.mu.Unlock()

		e.mu.Lock()
		if e.gone {
			e.mu.Unlock()
			continue
		}
		if t.expired(e) {
			t.remove(id, e)
			e.mu.Unlock()
			if !create {
				return nil, false
			}
			continue
		}
		e.touched = t.now()
		return &Handle{t: t, id: id, e: e}, true
	}
}

// Len returns the number of sessions currently tracked.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Sweep drops every expired entry that nobody holds and returns how many went.
func (t *Table) Sweep() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	evicted := 0
	for id, e := range t.entries {
		if !e.mu.TryLock() {
			continue
		}
		if t.expired(e) {
			e.gone = true
			delete(t.entries, id)
			evicted++
		}
		e.mu.Unlock()
	}
	return evicted
}

// Run sweeps every interval until ctx is done.
func (t *Table) Run(ctx context.Context, interval time.Duration) error {
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick.C:
			if n := t.Sweep(); n > 0 && t.lg != nil {
				t.lg.Debug("sessions_evicted", map[string]any{"count": n, "remaining": t.Len()})
			}
		}
	}
}

// expired must be called with e.mu held.
func (t *Table) expired(e *entry) bool {
	return t.ttl > 0 && t.now().Sub(e.touched) > t.ttl
}

// remove must be called with e.mu held.
func (t *Table) remove(id string, e *entry) {
	t.mu.Lock()
	if cur, ok := t.entries[id]; ok && cur == e {
		delete(t.entries, id)
	}
	t.mu.Unlock()
	e.gone = true
}

// Handle is exclusive access to one session's order.
type Handle struct {
	t        *Table
	id       string
	e        *entry
	released bool
}

func (h *Handle) SessionID() string { return h.id }

// Order is the live order; it may only be used until Release.
func (h *Handle) Order() *domain.Order { return h.e.order }

// Delete drops the session from the table. The handle still has to be released.
func (h *Handle) Delete() {
	if h.released || h.e.gone {
		return
	}
	h.t.remove(h.id, h.e)
}

func (h *Handle) Release() {
	if h.released {
		return
	}
	h.released = true
	h.e.touched = h.t.now()
	h.e.mu.Unlock()
}
