// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/inspection-protocol/internal/protocol"
	"github.com/pdiddy/inspection-protocol/internal/session"
	"github.com/pdiddy/inspection-protocol/internal/web"
	"github.com/pdiddy/inspection-protocol/pkg/types"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the browser editor",
	Long: `Serve starts the HTTP editor. Each browser gets its own outline, kept in
the session store until it has been idle for the session TTL. Generated
protocols are offered as a download.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "HTTP listen address (default :8080)")
	serveCmd.Flags().String("session-backend", "", "session store: memory or sqlite (default memory)")
	serveCmd.Flags().String("session-dsn", "", "SQLite data source for the sqlite backend (default in-memory)")
	serveCmd.Flags().Duration("session-ttl", 0, "idle time before a session is removed (default 2h)")

	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("session.backend", serveCmd.Flags().Lookup("session-backend"))
	_ = viper.BindPFlag("session.dsn", serveCmd.Flags().Lookup("session-dsn"))
	_ = viper.BindPFlag("session.ttl", serveCmd.Flags().Lookup("session-ttl"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(viper.GetViper())

	catalog, err := documentCatalog(cfg.Document)
	if err != nil {
		return err
	}
	layout, err := protocol.NewLayout(catalog, cfg.Document.PageSize)
	if err != nil {
		return err
	}

	store, err := session.Open(cfg.Session, catalog.DefaultItems)
	if err != nil {
		return err
	}
	defer store.Close()

	srv, err := web.New(store, protocol.NewGenerator(layout, cfg.Document.SpoolDir, logger), catalog, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg, srv.Routes(), session.NewJanitor(store, cfg.Session.TTL, cfg.Session.SweepInterval, logger))
}

// serve runs the HTTP server and the session janitor until ctx is done or
// either fails, then shuts the server down gracefully.
func serve(ctx context.Context, cfg types.Config, handler http.Handler, janitor *session.Janitor) error {
	httpSrv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening",
			zap.String("addr", cfg.Server.Addr),
			zap.String("session_backend", string(cfg.Session.Backend)),
			zap.Duration("session_ttl", cfg.Session.TTL),
		)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return janitor.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return httpSrv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
