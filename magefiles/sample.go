//go:build mage

package main

import (
	"fmt"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

var (
	sampleOutline = filepath.Join("outlines", "sample.yaml")
	sampleOutput  = filepath.Join("output", "inspection_protocol.docx")
)

// Sample writes a starter outline and renders it to output/.
func Sample() error {
	mg.Deps(Init, Build)

	bin := filepath.Join(binDir, binName)
	if err := sh.RunV(bin, "outline", "init", "--force", "--file", sampleOutline,
		"--section", "Main hall", "--section", "Entrance", "--section", "Women's gallery"); err != nil {
		return fmt.Errorf("outline init: %w", err)
	}
	if err := sh.RunV(bin, "generate", "--outline", sampleOutline, "--output", sampleOutput); err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	return nil
}

// Serve runs the browser editor with a file-backed session store.
func Serve() error {
	mg.Deps(Init, Build)
	return sh.RunV(filepath.Join(binDir, binName), "serve", "--verbose",
		"--session-backend", "sqlite", "--session-dsn", filepath.Join("var", "sessions.db"))
}
