// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session keeps one isolated outline per interactive user session.
// Sessions live only as long as the store: the memory backend is a map, and
// the SQLite backend defaults to a private in-memory database.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/inspection-protocol/internal/outline"
	"github.com/pdiddy/inspection-protocol/pkg/types"
)

// ErrNotFound is returned for an unknown or already removed session id.
var ErrNotFound = errors.New("session not found")

// State is everything one session holds.
type State struct {
	Title   string
	Outline *outline.Outline
	Touched time.Time
}

// Store holds sessions by id. Implementations are safe for concurrent use;
// callbacks for the same store run one at a time.
type Store interface {
	// Create starts an empty session with the given title and returns its id.
	Create(ctx context.Context, title string) (string, error)

	// View calls fn with a copy of the session's state. Changes fn makes are
	// discarded.
	View(ctx context.Context, id string, fn func(*State) error) error

	// Update calls fn with the session's state and keeps the changes only if
	// fn returns nil.
	Update(ctx context.Context, id string, fn func(*State) error) error

	// Delete removes a session. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error

	// Sweep removes sessions last touched before cutoff and reports how many.
	Sweep(ctx context.Context, cutoff time.Time) (int, error)

	// Close releases resources held by the store.
	Close() error
}

// Option configures a store.
type Option func(*options)

type options struct {
	now   func() time.Time
	newID func() string
}

func defaultOptions() options {
	return options{now: time.Now, newID: uuid.NewString}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDs replaces the uuid generator, for tests.
func WithIDs(newID func() string) Option {
	return func(o *options) { o.newID = newID }
}

// Open returns the store selected by cfg. New sections in every session are
// seeded with defaults.
func Open(cfg types.SessionConfig, defaults []string, opts ...Option) (Store, error) {
	switch cfg.Backend {
	case types.BackendMemory, "":
		return NewMemoryStore(defaults, opts...), nil
	case types.BackendSQLite:
		return NewSQLiteStore(cfg.DSN, defaults, opts...)
	default:
		return nil, fmt.Errorf("unsupported session backend %q: use memory or sqlite", cfg.Backend)
	}
}
