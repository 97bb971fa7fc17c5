// Package autosave schedules debounced, fingerprint-deduplicated persistence
// of a mutating value. Persistence failures are logged and swallowed; the
// next change re-arms the timer, which doubles as the retry path.
package autosave

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultInterval is the debounce window applied when no override is given.
const DefaultInterval = 30 * time.Second

// SnapshotFunc serialises the current value. It runs when the timer fires,
// not when it is armed, so the freshest state is what gets persisted.
type SnapshotFunc func() ([]byte, error)

// SaveFunc persists a serialized snapshot.
type SaveFunc func(ctx context.Context, payload []byte) error

// Controller debounces save calls. Only one timer is ever pending: every
// Changed call cancels the previous timer and starts a new one (debounce, not
// throttle). When the timer fires the current snapshot is compared against the
// last-saved fingerprint and the save call is skipped when nothing changed.
//
// The timer fires on its own goroutine, so the controller serialises timer and
// fingerprint state behind a mutex to keep the one-fingerprint-comparison-per-
// fire invariant.
type Controller struct {
	snapshot SnapshotFunc
	save     SaveFunc
	interval time.Duration
	sched    Scheduler
	logger   *slog.Logger

	mu          sync.Mutex
	pending     Handle
	fingerprint string
	closed      bool
}

// Option customises a Controller.
type Option func(*Controller)

// WithInterval overrides the debounce window.
func WithInterval(interval time.Duration) Option {
	return func(c *Controller) {
		if interval > 0 {
			c.interval = interval
		}
	}
}

// WithScheduler overrides the timer implementation.
func WithScheduler(sched Scheduler) Option {
	return func(c *Controller) {
		if sched != nil {
			c.sched = sched
		}
	}
}

// WithLogger overrides the logger used for swallowed failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New constructs a Controller around a snapshot source and a save sink.
func New(snapshot SnapshotFunc, save SaveFunc, options ...Option) *Controller {
	c := &Controller{
		snapshot: snapshot,
		save:     save,
		interval: DefaultInterval,
		sched:    NewTimerScheduler(),
		logger:   slog.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// Changed records that the observed value mutated and (re)starts the debounce
// timer, cancelling any pending one.
func (c *Controller) Changed() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if c.pending != nil {
		c.pending.Cancel()
	}
	c.pending = c.sched.Schedule(c.interval, c.fire)
}

// Flush fires immediately when a save would be necessary, bypassing the
// debounce window. Used when a session is closing and a pending timer would
// otherwise be lost.
func (c *Controller) Flush() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.pending != nil {
		c.pending.Cancel()
		c.pending = nil
	}
	c.mu.Unlock()
	c.fire()
}

// MarkSaved stamps the fingerprint after an externally performed save so the
// next timer fire does not repeat it.
func (c *Controller) MarkSaved(payload []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fingerprint = string(payload)
}

// Close cancels any pending timer. The controller accepts no further work.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.pending != nil {
		c.pending.Cancel()
		c.pending = nil
	}
}

func (c *Controller) fire() {
	c.mu.Lock()
	c.pending = nil
	if c.closed {
		c.mu.Unlock()
		return
	}

	payload, err := c.snapshot()
	if err != nil {
		c.mu.Unlock()
		c.logger.Error("autosave: snapshot failed", "error", err)
		return
	}
	if string(payload) == c.fingerprint {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	// The save call runs outside the lock; a concurrent Changed simply arms
	// the next timer.
	if err := c.save(context.Background(), payload); err != nil {
		// Logged only: the failure is never surfaced and the next mutation
		// re-arms the timer, which serves as the retry.
		c.logger.Error("autosave: save failed", "error", err)
		return
	}

	c.mu.Lock()
	c.fingerprint = string(payload)
	c.mu.Unlock()
}
