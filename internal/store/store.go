// Package store persists templates and instances in sqlite. It implements the
// engine's external persistence collaborators.
package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/goliatone/go-formkit/pkg/schema"
)

// ErrNotFound is returned when a template or instance id does not exist.
var ErrNotFound = errors.New("store: not found")

// Store holds the sub-stores used by the engine.
type Store struct {
	DB        *sql.DB
	Templates TemplateStore
	Instances InstanceStore
}

// Option customises the sub-stores.
type Option func(*config)

type config struct {
	ids   schema.IDGenerator
	clock func() time.Time
}

// WithIDGenerator overrides id generation for duplicated templates and
// instances created without an id.
func WithIDGenerator(ids schema.IDGenerator) Option {
	return func(c *config) {
		if ids != nil {
			c.ids = ids
		}
	}
}

// WithClock overrides the timestamp source.
func WithClock(clock func() time.Time) Option {
	return func(c *config) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// New creates a Store with all sub-stores initialized.
func New(db *sql.DB, options ...Option) *Store {
	cfg := config{
		ids:   schema.NewUUIDGenerator(),
		clock: time.Now,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return &Store{
		DB:        db,
		Templates: &SQLiteTemplateStore{db: db, ids: cfg.ids, clock: cfg.clock},
		Instances: &SQLiteInstanceStore{db: db, ids: cfg.ids, clock: cfg.clock},
	}
}
