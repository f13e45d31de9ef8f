// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the inspection-protocol CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is built in PersistentPreRunE; commands that skip the root hooks
// (tests) see the no-op logger.
var logger = zap.NewNop()

// rootCmd is the base command for the inspection-protocol CLI.
var rootCmd = &cobra.Command{
	Use:   "inspection-protocol",
	Short: "Build building-handover inspection protocols as Word documents",
	Long: `inspection-protocol edits an outline of inspection sections and items and
renders it as a Word document with one checklist table per section.

Use serve for the browser editor, or outline and generate to work with
outline files from the command line.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := config.Build()
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)
	setConfigDefaults(viper.GetViper())

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./inspection-protocol.yaml or ~/.config/inspection-protocol/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().String("locale", "", "string catalog for headers and default items (he, en)")
	_ = viper.BindPFlag("document.locale", rootCmd.PersistentFlags().Lookup("locale"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("inspection-protocol")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "inspection-protocol"))
		}
	}

	viper.SetEnvPrefix("INSPECTION_PROTOCOL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
