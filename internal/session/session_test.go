// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/pdiddy/inspection-protocol/internal/outline"
	"github.com/pdiddy/inspection-protocol/pkg/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var testDefaults = []string{"Flooring", "Finish and paint", "Aluminum", "Electrical and lighting"}

// --- test helpers ---

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type backend struct {
	name string
	open func(t *testing.T, opts ...Option) Store
}

func backends() []backend {
	return []backend{
		{
			name: "memory",
			open: func(t *testing.T, opts ...Option) Store {
				s := NewMemoryStore(testDefaults, opts...)
				t.Cleanup(func() { s.Close() })
				return s
			},
		},
		{
			name: "sqlite",
			open: func(t *testing.T, opts ...Option) Store {
				s, err := NewSQLiteStore("", testDefaults, opts...)
				require.NoError(t, err)
				t.Cleanup(func() { s.Close() })
				return s
			},
		},
	}
}

func snapshot(t *testing.T, s Store, id string) (string, []outline.Section) {
	t.Helper()
	var (
		title    string
		sections []outline.Section
	)
	require.NoError(t, s.View(context.Background(), id, func(st *State) error {
		title = st.Title
		sections = st.Outline.Sections()
		return nil
	}))
	return title, sections
}

// --- tests ---

func TestStoreCreateAndView(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t)
			id, err := s.Create(context.Background(), "Handover")
			require.NoError(t, err)
			assert.NotEmpty(t, id)

			title, sections := snapshot(t, s, id)
			assert.Equal(t, "Handover", title)
			assert.Empty(t, sections)
		})
	}
}

func TestStoreUpdatePersists(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t)
			ctx := context.Background()
			id, err := s.Create(ctx, "Handover")
			require.NoError(t, err)

			require.NoError(t, s.Update(ctx, id, func(st *State) error {
				st.Title = "Renamed"
				if err := st.Outline.AddSection("Flooring"); err != nil {
					return err
				}
				return st.Outline.AddItem("Flooring", "Check grout")
			}))

			title, sections := snapshot(t, s, id)
			assert.Equal(t, "Renamed", title)
			require.Len(t, sections, 1)
			assert.Equal(t, "Flooring", sections[0].Name)
			assert.Equal(t, append(append([]string(nil), testDefaults...), "Check grout"), sections[0].Items)
		})
	}
}

func TestStoreUpdateErrorDiscardsChanges(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t)
			ctx := context.Background()
			id, err := s.Create(ctx, "Handover")
			require.NoError(t, err)

			boom := errors.New("boom")
			err = s.Update(ctx, id, func(st *State) error {
				st.Title = "Half done"
				_ = st.Outline.AddSection("Lobby")
				return boom
			})
			assert.ErrorIs(t, err, boom)

			title, sections := snapshot(t, s, id)
			assert.Equal(t, "Handover", title)
			assert.Empty(t, sections)
		})
	}
}

func TestStoreViewDiscardsChanges(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t)
			ctx := context.Background()
			id, err := s.Create(ctx, "Handover")
			require.NoError(t, err)

			require.NoError(t, s.View(ctx, id, func(st *State) error {
				st.Title = "changed"
				return st.Outline.AddSection("Lobby")
			}))

			title, sections := snapshot(t, s, id)
			assert.Equal(t, "Handover", title)
			assert.Empty(t, sections)
		})
	}
}

func TestStoreUnknownSession(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t)
			ctx := context.Background()
			noop := func(*State) error { return nil }

			assert.ErrorIs(t, s.View(ctx, "missing", noop), ErrNotFound)
			assert.ErrorIs(t, s.Update(ctx, "missing", noop), ErrNotFound)
			assert.NoError(t, s.Delete(ctx, "missing"))
		})
	}
}

func TestStoreSessionsAreIsolated(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t)
			ctx := context.Background()
			a, err := s.Create(ctx, "A")
			require.NoError(t, err)
			bID, err := s.Create(ctx, "B")
			require.NoError(t, err)
			require.NotEqual(t, a, bID)

			require.NoError(t, s.Update(ctx, a, func(st *State) error {
				return st.Outline.AddSection("Only in A")
			}))

			_, sections := snapshot(t, s, bID)
			assert.Empty(t, sections)
			_, sections = snapshot(t, s, a)
			assert.Len(t, sections, 1)
		})
	}
}

func TestStoreDelete(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t)
			ctx := context.Background()
			id, err := s.Create(ctx, "Handover")
			require.NoError(t, err)

			require.NoError(t, s.Delete(ctx, id))
			err = s.View(ctx, id, func(*State) error { return nil })
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStoreSweep(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			clock := newFakeClock()
			s := b.open(t, WithClock(clock.Now))
			ctx := context.Background()

			stale, err := s.Create(ctx, "stale")
			require.NoError(t, err)
			active, err := s.Create(ctx, "active")
			require.NoError(t, err)

			clock.Advance(time.Hour)
			require.NoError(t, s.View(ctx, active, func(*State) error { return nil }))
			clock.Advance(time.Minute)

			n, err := s.Sweep(ctx, clock.Now().Add(-30*time.Minute))
			require.NoError(t, err)
			assert.Equal(t, 1, n)

			assert.ErrorIs(t, s.View(ctx, stale, func(*State) error { return nil }), ErrNotFound)
			assert.NoError(t, s.View(ctx, active, func(*State) error { return nil }))
		})
	}
}

func TestStoreConcurrentUpdates(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t)
			ctx := context.Background()
			id, err := s.Create(ctx, "Handover")
			require.NoError(t, err)
			require.NoError(t, s.Update(ctx, id, func(st *State) error {
				return st.Outline.AddSection("Lobby")
			}))

			const workers = 10
			var wg sync.WaitGroup
			errs := make([]error, workers)
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					errs[i] = s.Update(ctx, id, func(st *State) error {
						return st.Outline.AddItem("Lobby", fmt.Sprintf("item %d", i))
					})
				}(i)
			}
			wg.Wait()
			for _, err := range errs {
				require.NoError(t, err)
			}

			_, sections := snapshot(t, s, id)
			require.Len(t, sections, 1)
			assert.Len(t, sections[0].Items, len(testDefaults)+workers)
		})
	}
}

func TestStoreCanceledContext(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t)
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			_, err := s.Create(ctx, "Handover")
			assert.Error(t, err)
		})
	}
}

func TestWithIDs(t *testing.T) {
	n := 0
	s := NewMemoryStore(nil, WithIDs(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}))
	defer s.Close()

	id, err := s.Create(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "id-1", id)
	assert.Equal(t, 1, s.Len())
}

func TestSQLiteStoreFileSurvivesReopen(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "sessions.db")
	ctx := context.Background()

	s, err := NewSQLiteStore(dsn, testDefaults)
	require.NoError(t, err)
	id, err := s.Create(ctx, "Handover")
	require.NoError(t, err)
	require.NoError(t, s.Update(ctx, id, func(st *State) error {
		return st.Outline.AddSection("Lobby")
	}))
	require.NoError(t, s.Close())

	reopened, err := NewSQLiteStore(dsn, testDefaults)
	require.NoError(t, err)
	defer reopened.Close()

	_, sections := snapshot(t, reopened, id)
	require.Len(t, sections, 1)
	assert.Equal(t, testDefaults, sections[0].Items)
}

func TestOpen(t *testing.T) {
	tests := []struct {
		name    string
		cfg     types.SessionConfig
		want    string
		wantErr bool
	}{
		{name: "default is memory", cfg: types.SessionConfig{}, want: "*session.MemoryStore"},
		{name: "memory", cfg: types.SessionConfig{Backend: types.BackendMemory}, want: "*session.MemoryStore"},
		{name: "sqlite", cfg: types.SessionConfig{Backend: types.BackendSQLite}, want: "*session.SQLiteStore"},
		{name: "unknown", cfg: types.SessionConfig{Backend: "redis"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(tt.cfg, testDefaults)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer s.Close()
			assert.Equal(t, tt.want, fmt.Sprintf("%T", s))
		})
	}
}

func TestJanitorSweepOnce(t *testing.T) {
	clock := newFakeClock()
	s := NewMemoryStore(testDefaults, WithClock(clock.Now))
	defer s.Close()
	ctx := context.Background()

	_, err := s.Create(ctx, "old")
	require.NoError(t, err)
	clock.Advance(3 * time.Hour)
	_, err = s.Create(ctx, "new")
	require.NoError(t, err)

	j := NewJanitor(s, 2*time.Hour, time.Minute, zap.NewNop())
	j.now = clock.Now

	n, err := j.SweepOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, s.Len())
}

func TestJanitorRunStopsOnCancel(t *testing.T) {
	clock := newFakeClock()
	s := NewMemoryStore(testDefaults, WithClock(clock.Now))
	defer s.Close()

	_, err := s.Create(context.Background(), "old")
	require.NoError(t, err)
	clock.Advance(time.Hour)

	j := NewJanitor(s, time.Minute, time.Millisecond, nil)
	j.now = clock.Now

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- j.Run(ctx) }()

	require.Eventually(t, func() bool { return s.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}
