// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"context"
	"sync"
	"time"

	"github.com/pdiddy/inspection-protocol/internal/outline"
)

// MemoryStore keeps sessions in a map guarded by a mutex.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*State
	defaults []string
	opts     options
}

// NewMemoryStore returns an empty in-process store.
func NewMemoryStore(defaults []string, opts ...Option) *MemoryStore {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return &MemoryStore{
		sessions: make(map[string]*State),
		defaults: append([]string(nil), defaults...),
		opts:     o,
	}
}

func (s *MemoryStore) Create(ctx context.Context, title string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.opts.newID()
	s.sessions[id] = &State{
		Title:   title,
		Outline: outline.New(s.defaults),
		Touched: s.opts.now(),
	}
	return id, nil
}

func (s *MemoryStore) View(ctx context.Context, id string, fn func(*State) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sessions[id]
	if !ok {
		return ErrNotFound
	}
	st.Touched = s.opts.now()
	c := clone(st)
	return fn(&c)
}

func (s *MemoryStore) Update(ctx context.Context, id string, fn func(*State) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sessions[id]
	if !ok {
		return ErrNotFound
	}
	c := clone(st)
	if err := fn(&c); err != nil {
		return err
	}
	c.Touched = s.opts.now()
	s.sessions[id] = &c
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *MemoryStore) Sweep(ctx context.Context, cutoff time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, st := range s.sessions {
		if st.Touched.Before(cutoff) {
			delete(s.sessions, id)
			n++
		}
	}
	return n, nil
}

// Len returns the number of live sessions.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = make(map[string]*State)
	return nil
}

func clone(st *State) State {
	return State{Title: st.Title, Outline: st.Outline.Clone(), Touched: st.Touched}
}
