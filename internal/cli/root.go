// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package cli implements the runoff command-line interface.
//
// The CLI tabulates an election file offline with the same engine the
// server uses. Election files are TOML or JSON:
//
//	title = "Board seat"
//
//	[[candidates]]
//	id = 0
//	name = "Ann"
//	party = "Blue"
//
//	[[ballots]]
//	choices = [0, 2, -1, 1]
//
// A negative choice (or JSON null) leaves that rank unset. Ballots without
// an id are numbered by their position in the file.
//
// # Commands
//
//   - tally: print the round-by-round tabulation and the outcome
//   - flow: print Sankey-ready flow data as JSON
//   - schema: print the election file JSON Schema
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  string
	date    string
)

// SetVersion sets the version information displayed by --version.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the runoff CLI until ctx is cancelled or the command returns.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "runoff",
		Short:        "Runoff tabulates ranked-choice elections",
		Long:         `Runoff runs instant-runoff tabulation over an election file and reports every round, the outcome, and the vote flow between rounds.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("runoff %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newTallyCmd())
	root.AddCommand(newFlowCmd())
	root.AddCommand(newSchemaCmd())

	return root
}
