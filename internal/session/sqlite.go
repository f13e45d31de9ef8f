// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/inspection-protocol/internal/outline"
)

// memoryDSN keeps the database inside the single pooled connection, so it
// disappears with the process.
const memoryDSN = "file::memory:?_foreign_keys=on"

// SQLiteStore keeps sessions in a SQLite table, one row per session with the
// outline stored as YAML.
type SQLiteStore struct {
	db       *sql.DB
	defaults []string
	opts     options
}

// NewSQLiteStore opens the database at dsn (a private in-memory database when
// empty) and creates the schema if needed.
func NewSQLiteStore(dsn string, defaults []string, opts ...Option) (*SQLiteStore, error) {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	if dsn == "" {
		dsn = memoryDSN
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One connection serializes callbacks and keeps an in-memory database alive.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{
		db:       db,
		defaults: append([]string(nil), defaults...),
		opts:     o,
	}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			document TEXT NOT NULL,
			touched INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_touched ON sessions(touched)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) Create(ctx context.Context, title string) (string, error) {
	id := s.opts.newID()
	data, err := outline.New(s.defaults).Marshal(title)
	if err != nil {
		return "", err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, document, touched) VALUES (?, ?, ?)`,
		id, string(data), s.opts.now().UnixNano(),
	)
	if err != nil {
		return "", fmt.Errorf("inserting session: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) View(ctx context.Context, id string, fn func(*State) error) error {
	return s.withState(ctx, id, func(tx *sql.Tx, st *State) error {
		if err := s.touch(ctx, tx, id); err != nil {
			return err
		}
		return fn(st)
	})
}

func (s *SQLiteStore) Update(ctx context.Context, id string, fn func(*State) error) error {
	return s.withState(ctx, id, func(tx *sql.Tx, st *State) error {
		if err := fn(st); err != nil {
			return err
		}
		data, err := st.Outline.Marshal(st.Title)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE sessions SET document = ?, touched = ? WHERE id = ?`,
			string(data), s.opts.now().UnixNano(), id,
		)
		if err != nil {
			return fmt.Errorf("updating session: %w", err)
		}
		return nil
	})
}

// withState loads the session inside a transaction and commits if fn
// succeeds.
func (s *SQLiteStore) withState(ctx context.Context, id string, fn func(*sql.Tx, *State) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var (
		document string
		touched  int64
	)
	err = tx.QueryRowContext(ctx,
		`SELECT document, touched FROM sessions WHERE id = ?`, id,
	).Scan(&document, &touched)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}

	title, o, err := outline.Unmarshal([]byte(document), s.defaults)
	if err != nil {
		return fmt.Errorf("decoding session %s: %w", id, err)
	}
	st := &State{Title: title, Outline: o, Touched: time.Unix(0, touched)}
	if err := fn(tx, st); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) touch(ctx context.Context, tx *sql.Tx, id string) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE sessions SET touched = ? WHERE id = ?`, s.opts.now().UnixNano(), id)
	if err != nil {
		return fmt.Errorf("touching session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Sweep(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE touched < ?`, cutoff.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("sweeping sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting swept sessions: %w", err)
	}
	return int(n), nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
