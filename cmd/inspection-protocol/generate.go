// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/inspection-protocol/internal/outline"
	"github.com/pdiddy/inspection-protocol/internal/protocol"
	"github.com/pdiddy/inspection-protocol/pkg/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Render an outline file as a Word protocol",
	Long: `Generate reads a YAML outline file and writes the inspection protocol
document. The title comes from --title, then the outline file, then the
configured document title.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("outline", "", "path to the YAML outline file (required)")
	generateCmd.Flags().String("title", "", "document title (overrides the outline file)")
	generateCmd.Flags().StringP("output", "o", protocol.FileName, "path of the generated document")
	_ = generateCmd.MarkFlagRequired("outline")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	outlinePath, _ := cmd.Flags().GetString("outline")
	title, _ := cmd.Flags().GetString("title")
	output, _ := cmd.Flags().GetString("output")

	return generateProtocol(loadConfig(viper.GetViper()), outlinePath, title, output, cmd.OutOrStdout())
}

// generateProtocol renders the outline at outlinePath into output and
// reports what it wrote to w.
func generateProtocol(cfg types.Config, outlinePath, title, output string, w io.Writer) error {
	catalog, err := documentCatalog(cfg.Document)
	if err != nil {
		return err
	}
	layout, err := protocol.NewLayout(catalog, cfg.Document.PageSize)
	if err != nil {
		return err
	}

	fileTitle, o, err := outline.LoadFile(outlinePath, catalog.DefaultItems)
	if err != nil {
		return err
	}
	switch {
	case title != "":
	case fileTitle != "":
		title = fileTitle
	default:
		title = catalog.Title
	}

	data, err := protocol.NewGenerator(layout, cfg.Document.SpoolDir, logger).Generate(title, o.Sections())
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}

	logger.Debug("generated protocol", zap.String("output", output), zap.Int("bytes", len(data)))
	fmt.Fprintf(w, "Wrote %s (%d sections, %d bytes)\n", output, o.Len(), len(data))
	return nil
}
