// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/viper"

	"github.com/pdiddy/inspection-protocol/internal/locale"
	"github.com/pdiddy/inspection-protocol/pkg/types"
)

// setConfigDefaults registers DefaultConfig under the keys loadConfig reads.
func setConfigDefaults(v *viper.Viper) {
	d := types.DefaultConfig()

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)

	v.SetDefault("session.backend", string(d.Session.Backend))
	v.SetDefault("session.dsn", d.Session.DSN)
	v.SetDefault("session.ttl", d.Session.TTL)
	v.SetDefault("session.sweep_interval", d.Session.SweepInterval)

	v.SetDefault("document.locale", d.Document.Locale)
	v.SetDefault("document.title", d.Document.Title)
	v.SetDefault("document.page_size", string(d.Document.PageSize))
	v.SetDefault("document.spool_dir", d.Document.SpoolDir)
}

// loadConfig reads the merged flag, env, file, and default settings.
func loadConfig(v *viper.Viper) types.Config {
	return types.Config{
		Server: types.ServerConfig{
			Addr:            v.GetString("server.addr"),
			ReadTimeout:     v.GetDuration("server.read_timeout"),
			WriteTimeout:    v.GetDuration("server.write_timeout"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		Session: types.SessionConfig{
			Backend:       types.SessionBackend(v.GetString("session.backend")),
			DSN:           v.GetString("session.dsn"),
			TTL:           v.GetDuration("session.ttl"),
			SweepInterval: v.GetDuration("session.sweep_interval"),
		},
		Document: types.DocumentConfig{
			Locale:   v.GetString("document.locale"),
			Title:    v.GetString("document.title"),
			PageSize: types.PageSize(v.GetString("document.page_size")),
			SpoolDir: v.GetString("document.spool_dir"),
		},
	}
}

// documentCatalog returns the configured string catalog with the title
// override applied.
func documentCatalog(d types.DocumentConfig) (locale.Catalog, error) {
	c, err := locale.Lookup(d.Locale)
	if err != nil {
		return locale.Catalog{}, err
	}
	if d.Title != "" {
		c.Title = d.Title
	}
	return c, nil
}
