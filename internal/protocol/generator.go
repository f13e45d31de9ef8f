// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package protocol

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/pdiddy/inspection-protocol/internal/docx"
	"github.com/pdiddy/inspection-protocol/internal/outline"
)

// ErrGeneration marks every failure to produce an artifact. No bytes are
// returned alongside it.
var ErrGeneration = errors.New("document generation failed")

const spoolPattern = "inspection-protocol-*.docx"

// Generator renders outlines to .docx bytes. The artifact is written to a
// spool file and read back before delivery; the spool file is removed
// afterwards. A Generator holds no mutable state and is safe for concurrent use.
type Generator struct {
	layout   Layout
	spoolDir string
	logger   *zap.Logger
}

// NewGenerator returns a Generator that spools into spoolDir (the OS temp
// directory when empty).
func NewGenerator(l Layout, spoolDir string, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{layout: l, spoolDir: spoolDir, logger: logger}
}

// Layout returns the template the generator renders with.
func (g *Generator) Layout() Layout {
	return g.layout
}

// Generate assembles and renders the document for title and sections.
func (g *Generator) Generate(title string, sections []outline.Section) ([]byte, error) {
	doc := Assemble(title, sections, g.layout)

	f, err := os.CreateTemp(g.spoolDir, spoolPattern)
	if err != nil {
		return nil, fmt.Errorf("%w: creating spool file: %w", ErrGeneration, err)
	}
	path := f.Name()
	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			g.logger.Warn("removing spool file", zap.String("path", path), zap.Error(err))
		}
	}()

	cw := &countingWriter{w: f}
	if err := docx.Render(cw, doc); err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: rendering: %w", ErrGeneration, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("%w: closing spool file: %w", ErrGeneration, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading spool file: %w", ErrGeneration, err)
	}
	if int64(len(data)) != cw.n {
		return nil, fmt.Errorf("%w: spool file has %d bytes, wrote %d", ErrGeneration, len(data), cw.n)
	}

	g.logger.Debug("generated protocol",
		zap.Int("sections", len(sections)),
		zap.Int("bytes", len(data)))
	return data, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
