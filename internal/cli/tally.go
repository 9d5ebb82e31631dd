// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/runoff/models"
	"github.com/danielhkuo/runoff/tabulate"
)

type tallyOpts struct {
	json bool // print the full result as JSON instead of the report
}

func newTallyCmd() *cobra.Command {
	var opts tallyOpts

	cmd := &cobra.Command{
		Use:   "tally <file>",
		Short: "Tabulate an election file round by round",
		Long: `Tabulate an election file with instant-runoff rules.

Candidates with no first-place votes are dropped before the first round.
Each later round eliminates every candidate tied for the fewest first-place
votes, until one candidate remains or the last candidates tie.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTally(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "print the full result as JSON")
	return cmd
}

func newFlowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "flow <file>",
		Short: "Print Sankey-ready flow data for an election file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, _, err := tabulateFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), models.NewFlowResponse(result.Flow))
		},
	}
}

func runTally(ctx context.Context, w io.Writer, path string, opts tallyOpts) error {
	result, title, err := tabulateFile(ctx, path)
	if err != nil {
		return err
	}
	if opts.json {
		return writeJSON(w, result)
	}
	printReport(w, title, result)
	return nil
}

// tabulateFile loads path and runs the engine over it.
func tabulateFile(ctx context.Context, path string) (*tabulate.Result, string, error) {
	logger := loggerFromContext(ctx)

	ef, err := loadElection(path)
	if err != nil {
		return nil, "", err
	}
	logger.Debug("loaded election", "file", path, "candidates", len(ef.Candidates), "ballots", len(ef.Ballots))

	prog := newProgress(logger)
	candidates, ballots := ef.input()
	result, err := tabulate.Run(candidates, ballots)
	if err != nil {
		return nil, "", fmt.Errorf("tabulate %s: %w", path, err)
	}
	prog.done(fmt.Sprintf("Tabulated %d rounds", len(result.Rounds)))

	return result, ef.Title, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
