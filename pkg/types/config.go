// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ServerConfig holds settings for the interactive web surface.
type ServerConfig struct {
	// Addr is the HTTP listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr"`

	// ReadTimeout bounds reading a full request, body included.
	ReadTimeout time.Duration `json:"read_timeout" yaml:"read_timeout"`

	// WriteTimeout bounds writing a response, including artifact downloads.
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout"`

	// ShutdownTimeout is how long in-flight requests get on SIGINT/SIGTERM.
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// SessionBackend identifies where per-user outlines live while a session is open.
type SessionBackend string

const (
	BackendMemory SessionBackend = "memory"
	BackendSQLite SessionBackend = "sqlite"
)

// SessionConfig holds settings for the session store.
type SessionConfig struct {
	// Backend selects the store implementation: memory or sqlite.
	Backend SessionBackend `json:"backend" yaml:"backend"`

	// DSN is the SQLite data source name. Empty means a private in-memory database,
	// so session data never outlives the process.
	DSN string `json:"dsn,omitempty" yaml:"dsn,omitempty"`

	// TTL is how long an idle session is kept before the janitor removes it.
	TTL time.Duration `json:"ttl" yaml:"ttl"`

	// SweepInterval is how often the janitor looks for idle sessions.
	SweepInterval time.Duration `json:"sweep_interval" yaml:"sweep_interval"`
}

// PageSize names a supported paper size.
type PageSize string

const (
	PageLetter PageSize = "letter"
	PageA4     PageSize = "a4"
)

// DocumentConfig holds settings for document generation.
type DocumentConfig struct {
	// Locale selects the string catalog for headers, default items, and title (he, en).
	Locale string `json:"locale" yaml:"locale"`

	// Title overrides the catalog's default document title when non-empty.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// PageSize selects the paper size: letter or a4.
	PageSize PageSize `json:"page_size" yaml:"page_size"`

	// SpoolDir is where artifacts are written before being read back for delivery.
	// Empty means the OS temp directory.
	SpoolDir string `json:"spool_dir,omitempty" yaml:"spool_dir,omitempty"`
}

// Config groups all settings for the tool.
type Config struct {
	Server   ServerConfig   `json:"server" yaml:"server"`
	Session  SessionConfig  `json:"session" yaml:"session"`
	Document DocumentConfig `json:"document" yaml:"document"`
}

// DefaultConfig returns the settings used when no config file or flag overrides them.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Session: SessionConfig{
			Backend:       BackendMemory,
			TTL:           2 * time.Hour,
			SweepInterval: 5 * time.Minute,
		},
		Document: DocumentConfig{
			Locale:   "he",
			PageSize: PageLetter,
		},
	}
}
