// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pdiddy/inspection-protocol/internal/docx"
	"github.com/pdiddy/inspection-protocol/internal/locale"
	"github.com/pdiddy/inspection-protocol/internal/protocol"
	"github.com/pdiddy/inspection-protocol/internal/session"
	"github.com/pdiddy/inspection-protocol/pkg/types"
)

// --- test helpers ---

func newTestServer(t *testing.T, spoolDir string) (http.Handler, locale.Catalog) {
	t.Helper()
	c, err := locale.Lookup("en")
	require.NoError(t, err)
	l, err := protocol.NewLayout(c, types.PageLetter)
	require.NoError(t, err)

	store := session.NewMemoryStore(c.DefaultItems)
	t.Cleanup(func() { store.Close() })

	srv, err := New(store, protocol.NewGenerator(l, spoolDir, zap.NewNop()), c, zap.NewNop())
	require.NoError(t, err)
	return srv.Routes(), c
}

// client replays the session cookie across requests like a browser would.
type client struct {
	t      *testing.T
	h      http.Handler
	cookie *http.Cookie
}

func (c *client) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	c.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == CookieName {
			c.cookie = ck
		}
	}
	return rec
}

func (c *client) post(path string, form url.Values) {
	c.t.Helper()
	rec := c.do(http.MethodPost, path, form)
	require.Equal(c.t, http.StatusSeeOther, rec.Code, rec.Body.String())
	require.Equal(c.t, "/", rec.Header().Get("Location"))
}

func (c *client) outline() types.OutlineFile {
	c.t.Helper()
	rec := c.do(http.MethodGet, "/api/outline", nil)
	require.Equal(c.t, http.StatusOK, rec.Code)
	var f types.OutlineFile
	require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &f))
	return f
}

// --- tests ---

func TestIndexStartsSession(t *testing.T) {
	h, cat := newTestServer(t, t.TempDir())
	c := &client{t: t, h: h}

	rec := c.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), cat.Title)
	assert.Contains(t, rec.Body.String(), `dir="ltr"`)

	require.NotNil(t, c.cookie)
	assert.True(t, c.cookie.HttpOnly)
	assert.NotEmpty(t, c.cookie.Value)

	// The same cookie keeps the same session.
	first := c.cookie.Value
	c.do(http.MethodGet, "/", nil)
	assert.Equal(t, first, c.cookie.Value)
}

func TestUnknownCookieStartsNewSession(t *testing.T) {
	h, cat := newTestServer(t, t.TempDir())
	c := &client{t: t, h: h, cookie: &http.Cookie{Name: CookieName, Value: "expired"}}

	f := c.outline()
	assert.Equal(t, cat.Title, f.Title)
	assert.NotEqual(t, "expired", c.cookie.Value)
}

func TestMutations(t *testing.T) {
	h, cat := newTestServer(t, t.TempDir())
	c := &client{t: t, h: h}

	c.post("/title", url.Values{"title": {"Lobby handover"}})
	c.post("/sections", url.Values{"name": {"Lobby"}})
	c.post("/sections", url.Values{"name": {"Kitchen"}})

	f := c.outline()
	assert.Equal(t, "Lobby handover", f.Title)
	require.Len(t, f.Sections, 2)
	assert.Equal(t, "Lobby", f.Sections[0].Name)
	assert.Equal(t, cat.DefaultItems, f.Sections[0].Items)

	c.post("/items", url.Values{"section": {"Lobby"}, "text": {"Check doors"}})
	c.post("/items/delete", url.Values{"section": {"Lobby"}, "index": {"0"}})

	f = c.outline()
	want := append(append([]string(nil), cat.DefaultItems[1:]...), "Check doors")
	assert.Equal(t, want, f.Sections[0].Items)

	c.post("/sections/delete", url.Values{"name": {"Lobby"}})
	f = c.outline()
	require.Len(t, f.Sections, 1)
	assert.Equal(t, "Kitchen", f.Sections[0].Name)
}

func TestInvalidInputIsIgnored(t *testing.T) {
	h, _ := newTestServer(t, t.TempDir())
	c := &client{t: t, h: h}
	c.post("/sections", url.Values{"name": {"Lobby"}})
	before := c.outline()

	tests := []struct {
		name string
		path string
		form url.Values
	}{
		{name: "empty section name", path: "/sections", form: url.Values{"name": {""}}},
		{name: "duplicate section", path: "/sections", form: url.Values{"name": {"Lobby"}}},
		{name: "delete missing section", path: "/sections/delete", form: url.Values{"name": {"Nope"}}},
		{name: "item for missing section", path: "/items", form: url.Values{"section": {"Nope"}, "text": {"x"}}},
		{name: "empty item", path: "/items", form: url.Values{"section": {"Lobby"}, "text": {""}}},
		{name: "index not a number", path: "/items/delete", form: url.Values{"section": {"Lobby"}, "index": {"x"}}},
		{name: "index out of range", path: "/items/delete", form: url.Values{"section": {"Lobby"}, "index": {"99"}}},
		{name: "negative index", path: "/items/delete", form: url.Values{"section": {"Lobby"}, "index": {"-1"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.post(tt.path, tt.form)
			assert.Equal(t, before, c.outline())
		})
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	h, _ := newTestServer(t, t.TempDir())
	alice := &client{t: t, h: h}
	bob := &client{t: t, h: h}

	alice.post("/sections", url.Values{"name": {"Lobby"}})

	assert.Len(t, alice.outline().Sections, 1)
	assert.Empty(t, bob.outline().Sections)
	assert.NotEqual(t, alice.cookie.Value, bob.cookie.Value)
}

func TestGenerate(t *testing.T) {
	h, cat := newTestServer(t, t.TempDir())
	c := &client{t: t, h: h}
	c.post("/title", url.Values{"title": {"Handover"}})
	c.post("/sections", url.Values{"name": {"Lobby"}})

	rec := c.do(http.MethodPost, "/generate", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, protocol.ContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="inspection_protocol.docx"`, rec.Header().Get("Content-Disposition"))

	doc, err := docx.Parse(rec.Body.Bytes())
	require.NoError(t, err)
	require.NotEmpty(t, doc.Blocks)
	assert.Equal(t, docx.KindHeading, doc.Blocks[0].Kind)
	assert.Equal(t, "Handover", doc.Blocks[0].Text)

	tables := doc.Tables()
	require.Len(t, tables, 1)
	assert.Len(t, tables[0].Rows, len(cat.DefaultItems))
}

func TestGenerateFailure(t *testing.T) {
	h, _ := newTestServer(t, filepath.Join(t.TempDir(), "missing"))
	c := &client{t: t, h: h}
	c.post("/sections", url.Values{"name": {"Lobby"}})

	rec := c.do(http.MethodPost, "/generate", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Disposition"))
	assert.False(t, strings.HasPrefix(rec.Body.String(), "PK"))
}

func TestPreviewOmitsRawHTML(t *testing.T) {
	h, _ := newTestServer(t, t.TempDir())
	c := &client{t: t, h: h}
	c.post("/sections", url.Values{"name": {"Lobby"}})
	c.post("/items", url.Values{"section": {"Lobby"}, "text": {"<script>alert(1)</script>"}})

	rec := c.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "<script>")
	assert.Contains(t, rec.Body.String(), "<h2>Lobby</h2>")
}

func TestRoutesRejectWrongMethod(t *testing.T) {
	h, _ := newTestServer(t, t.TempDir())
	c := &client{t: t, h: h}

	rec := c.do(http.MethodGet, "/sections", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealth(t *testing.T) {
	h, _ := newTestServer(t, t.TempDir())
	c := &client{t: t, h: h}

	rec := c.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())
	assert.Nil(t, c.cookie)
}

func TestNewRequiresDependencies(t *testing.T) {
	_, err := New(nil, nil, locale.Catalog{}, nil)
	assert.Error(t, err)
}
