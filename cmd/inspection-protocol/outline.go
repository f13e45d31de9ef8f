// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/inspection-protocol/internal/outline"
)

const defaultOutlineFile = "outline.yaml"

var outlineCmd = &cobra.Command{
	Use:   "outline",
	Short: "Create and inspect outline files",
	Long: `Outline manages YAML outline files: a title plus ordered sections, each
with an ordered list of inspection items.`,
}

// --- init subcommand ---

var outlineInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter outline file",
	Long: `Init writes an outline file with the given sections, each seeded with the
locale's default inspection items. Existing files are kept unless --force
is set.`,
	RunE: runOutlineInit,
}

func runOutlineInit(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("file")
	sections, _ := cmd.Flags().GetStringSlice("section")
	force, _ := cmd.Flags().GetBool("force")

	catalog, err := documentCatalog(loadConfig(viper.GetViper()).Document)
	if err != nil {
		return err
	}
	return initOutline(path, catalog.Title, sections, catalog.DefaultItems, force, cmd.OutOrStdout())
}

// initOutline writes a new outline file at path.
func initOutline(path, title string, sections, defaults []string, force bool, w io.Writer) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	o := outline.New(defaults)
	for _, name := range sections {
		if err := o.AddSection(name); err != nil {
			return fmt.Errorf("section %q: %w", name, err)
		}
	}
	if err := outline.SaveFile(path, title, o); err != nil {
		return err
	}

	fmt.Fprintf(w, "Wrote %s (%d sections)\n", path, o.Len())
	return nil
}

// --- show subcommand ---

var outlineShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print an outline file as Markdown",
	RunE:  runOutlineShow,
}

func runOutlineShow(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("file")

	catalog, err := documentCatalog(loadConfig(viper.GetViper()).Document)
	if err != nil {
		return err
	}
	return showOutline(path, catalog.DefaultItems, cmd.OutOrStdout())
}

// showOutline prints the outline at path as Markdown.
func showOutline(path string, defaults []string, w io.Writer) error {
	title, o, err := outline.LoadFile(path, defaults)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, outline.Markdown(title, o.Sections()))
	return err
}

func init() {
	outlineInitCmd.Flags().String("file", defaultOutlineFile, "outline file to write")
	outlineInitCmd.Flags().StringSlice("section", nil, "section to add (repeatable)")
	outlineInitCmd.Flags().Bool("force", false, "overwrite an existing file")

	outlineShowCmd.Flags().String("file", defaultOutlineFile, "outline file to read")

	outlineCmd.AddCommand(outlineInitCmd)
	outlineCmd.AddCommand(outlineShowCmd)
	rootCmd.AddCommand(outlineCmd)
}
