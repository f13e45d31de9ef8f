// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package web serves the browser surface for editing an inspection outline
// and downloading the generated protocol.
package web

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/yuin/goldmark"
	"go.uber.org/zap"

	"github.com/pdiddy/inspection-protocol/internal/locale"
	"github.com/pdiddy/inspection-protocol/internal/protocol"
	"github.com/pdiddy/inspection-protocol/internal/session"
)

// CookieName is the cookie carrying the session id.
const CookieName = "inspection_session"

//go:embed templates/index.html
var templateFS embed.FS

// Server holds the dependencies shared by all handlers.
type Server struct {
	store     session.Store
	generator *protocol.Generator
	catalog   locale.Catalog
	logger    *zap.Logger
	page      *template.Template
	markdown  goldmark.Markdown
}

// New builds a server. New sessions start with catalog.Title as their title.
func New(store session.Store, gen *protocol.Generator, catalog locale.Catalog, logger *zap.Logger) (*Server, error) {
	if store == nil {
		return nil, errors.New("session store required")
	}
	if gen == nil {
		return nil, errors.New("generator required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	page, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}

	return &Server{
		store:     store,
		generator: gen,
		catalog:   catalog,
		logger:    logger,
		page:      page,
		markdown:  goldmark.New(),
	}, nil
}

// Routes returns the HTTP handler for the server.
func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex).Methods("GET")
	r.HandleFunc("/title", s.handleTitle).Methods("POST")
	r.HandleFunc("/sections", s.handleAddSection).Methods("POST")
	r.HandleFunc("/sections/delete", s.handleDeleteSection).Methods("POST")
	r.HandleFunc("/items", s.handleAddItem).Methods("POST")
	r.HandleFunc("/items/delete", s.handleDeleteItem).Methods("POST")
	r.HandleFunc("/generate", s.handleGenerate).Methods("POST")
	r.HandleFunc("/api/outline", s.handleOutline).Methods("GET")
	r.HandleFunc("/healthz", handleHealth).Methods("GET")
	r.Use(s.logRequests)
	return r
}

// sessionID returns the caller's session id, creating a new session and
// setting the cookie when the request carries none or an expired one.
func (s *Server) sessionID(ctx context.Context, w http.ResponseWriter, r *http.Request) (string, error) {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		err := s.store.View(ctx, c.Value, func(*session.State) error { return nil })
		if err == nil {
			return c.Value, nil
		}
		if !errors.Is(err, session.ErrNotFound) {
			return "", err
		}
	}

	id, err := s.store.Create(ctx, s.catalog.Title)
	if err != nil {
		return "", err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.logger.Debug("started session", zap.String("session", id))
	return id, nil
}

// renderMarkdown converts src to HTML. goldmark's default renderer omits raw
// HTML, so user text cannot inject markup.
func (s *Server) renderMarkdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}
