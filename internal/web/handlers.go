// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package web

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/pdiddy/inspection-protocol/internal/outline"
	"github.com/pdiddy/inspection-protocol/internal/protocol"
	"github.com/pdiddy/inspection-protocol/internal/session"
	"github.com/pdiddy/inspection-protocol/pkg/types"
)

type pageData struct {
	Dir      string
	Title    string
	Headers  [4]string
	Sections []outline.Section
	Preview  template.HTML
	FileName string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := s.sessionID(ctx, w, r)
	if err != nil {
		s.serverError(w, "resolving session", err)
		return
	}

	data := pageData{
		Dir:      s.catalog.Direction,
		Headers:  s.catalog.Headers,
		FileName: protocol.FileName,
	}
	err = s.store.View(ctx, id, func(st *session.State) error {
		data.Title = st.Title
		data.Sections = st.Outline.Sections()
		return nil
	})
	if err != nil {
		s.serverError(w, "reading session", err)
		return
	}

	data.Preview, err = s.renderMarkdown(outline.Markdown("", data.Sections))
	if err != nil {
		s.serverError(w, "rendering preview", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, data); err != nil {
		s.logger.Error("executing page template", zap.Error(err))
	}
}

func (s *Server) handleTitle(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, "set title", func(st *session.State) error {
		st.Title = r.PostFormValue("title")
		return nil
	})
}

func (s *Server) handleAddSection(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, "add section", func(st *session.State) error {
		return st.Outline.AddSection(r.PostFormValue("name"))
	})
}

func (s *Server) handleDeleteSection(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, "delete section", func(st *session.State) error {
		st.Outline.DeleteSection(r.PostFormValue("name"))
		return nil
	})
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, "add item", func(st *session.State) error {
		return st.Outline.AddItem(r.PostFormValue("section"), r.PostFormValue("text"))
	})
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, "delete item", func(st *session.State) error {
		index, err := strconv.Atoi(r.PostFormValue("index"))
		if err != nil {
			return fmt.Errorf("%w: %q", outline.ErrIndexOutOfRange, r.PostFormValue("index"))
		}
		return st.Outline.DeleteItem(r.PostFormValue("section"), index)
	})
}

// mutate applies fn to the caller's session and redirects back to the page.
// Rejected input leaves the session unchanged and is not reported.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, op string, fn func(*session.State) error) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	id, err := s.sessionID(ctx, w, r)
	if err != nil {
		s.serverError(w, "resolving session", err)
		return
	}

	err = s.store.Update(ctx, id, fn)
	switch {
	case err == nil:
	case isInputError(err):
		s.logger.Debug("ignored invalid input", zap.String("op", op), zap.Error(err))
	case errors.Is(err, session.ErrNotFound):
		// Swept between lookup and update; the redirect starts a new session.
		s.logger.Debug("session expired", zap.String("op", op), zap.String("session", id))
	default:
		s.serverError(w, op, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func isInputError(err error) bool {
	for _, target := range []error{
		outline.ErrEmptyName,
		outline.ErrSectionExists,
		outline.ErrSectionNotFound,
		outline.ErrEmptyText,
		outline.ErrIndexOutOfRange,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := s.sessionID(ctx, w, r)
	if err != nil {
		s.serverError(w, "resolving session", err)
		return
	}

	var (
		title    string
		sections []outline.Section
	)
	err = s.store.View(ctx, id, func(st *session.State) error {
		title = st.Title
		sections = st.Outline.Sections()
		return nil
	})
	if err != nil {
		s.serverError(w, "reading session", err)
		return
	}

	data, err := s.generator.Generate(title, sections)
	if err != nil {
		s.serverError(w, "generating protocol", err)
		return
	}

	w.Header().Set("Content-Type", protocol.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", protocol.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if _, err := w.Write(data); err != nil {
		s.logger.Warn("writing protocol", zap.Error(err))
	}
}

func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := s.sessionID(ctx, w, r)
	if err != nil {
		s.serverError(w, "resolving session", err)
		return
	}

	var f types.OutlineFile
	err = s.store.View(ctx, id, func(st *session.State) error {
		f = st.Outline.ToFile(st.Title)
		return nil
	})
	if err != nil {
		s.serverError(w, "reading session", err)
		return
	}
	writeJSON(w, f)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) serverError(w http.ResponseWriter, op string, err error) {
	s.logger.Error(op, zap.Error(err))
	http.Error(w, "internal error", http.StatusInternalServerError)
}
