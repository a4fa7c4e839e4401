// Package main provides the CLI for the Store Embed Info action.
//
// # Basic Usage
//
// Print the action descriptor:
//
//	embedinfo describe
//
// Render the editor form:
//
//	embedinfo form --event
//
// Run a chain against a Discord message:
//
//	embedinfo run --config embedinfo.yaml --message msg.json --chain report
//
// # Environment Variables
//
//   - EMBEDINFO_CONFIG: Path to configuration file (default: embedinfo.yaml)
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// Build information - populated by ldflags during build.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	rootCmd := buildRootCmd()
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command execution failed", "error", err)
		os.Exit(1)
	}
}

// buildRootCmd creates the root command with all subcommands attached.
func buildRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "embedinfo",
		Short: "Store Embed Info - extract values from Discord embeds into variables",
		Long: `embedinfo hosts the "Store Embed Info" action.

It describes the action and its editor form, runs action chains against
Discord messages and persists authored chains.`,
		Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		buildDescribeCmd(),
		buildFormCmd(),
		buildRunCmd(),
		buildChainsCmd(),
	)
	return rootCmd
}
