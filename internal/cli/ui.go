// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/runoff/tabulate"
)

var (
	colorCyan  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorRed   = lipgloss.Color("167")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleWinner  = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	styleOut     = lipgloss.NewStyle().Foreground(colorRed)
	styleHeader  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleCell    = lipgloss.NewStyle().Padding(0, 1)
	styleNumeric = styleCell.Align(lipgloss.Right)
)

// candidateName returns the roster name of id, or "#id" when it is not on the roster.
func candidateName(result *tabulate.Result, id int) string {
	for _, c := range result.Candidates {
		if c.ID == id {
			return c.Name
		}
	}
	return "#" + strconv.Itoa(id)
}

// roundTable renders the first-place tallies of one round.
func roundTable(result *tabulate.Result, round int) string {
	tallies := result.TalliesForRound(round)
	rows := make([][]string, 0, len(tallies))
	for _, t := range tallies {
		party := ""
		for _, c := range result.Candidates {
			if c.ID == t.CandidateID {
				party = c.Party
			}
		}
		rows = append(rows, []string{
			candidateName(result, t.CandidateID),
			party,
			humanize.Comma(int64(t.Votes)),
			fmt.Sprintf("%.1f%%", t.Share*100),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Candidate", "Party", "Votes", "Share").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader.Padding(0, 1)
			}
			if col >= 2 {
				return styleNumeric
			}
			return styleCell
		}).
		Render()
}

// printReport writes the round-by-round report of a tabulation.
func printReport(w io.Writer, title string, result *tabulate.Result) {
	if title != "" {
		fmt.Fprintln(w, styleTitle.Render(title))
	}
	fmt.Fprintln(w, styleDim.Render(fmt.Sprintf("%s candidates, %s ballots counted",
		humanize.Comma(int64(len(result.Candidates))), humanize.Comma(int64(result.Counted)))))

	for i, round := range result.Rounds {
		fmt.Fprintln(w)
		fmt.Fprintln(w, styleTitle.Render(humanize.Ordinal(round.Number)+" round"))
		if len(round.Eliminated) > 0 {
			names := make([]string, len(round.Eliminated))
			for j, id := range round.Eliminated {
				names[j] = candidateName(result, id)
			}
			label := "Eliminated: "
			if i == 0 {
				label = "No first-place votes: "
			}
			fmt.Fprintln(w, styleOut.Render(label+strings.Join(names, ", ")))
		}
		fmt.Fprintln(w, roundTable(result, round.Number))
	}

	for _, ex := range result.Flow.Exhausted {
		if ex.Ballots > 0 {
			fmt.Fprintln(w, styleDim.Render(fmt.Sprintf("%s ballots exhausted between rounds %d and %d",
				humanize.Comma(int64(ex.Ballots)), ex.FromRound, ex.ToRound)))
		}
	}

	fmt.Fprintln(w)
	if winner, ok := result.WinnerCandidate(); ok {
		fmt.Fprintln(w, styleWinner.Render(fmt.Sprintf("Winner: %s after %d rounds", winner.Name, len(result.Rounds))))
		return
	}
	fmt.Fprintln(w, styleOut.Render(fmt.Sprintf("No winner: the final %d candidates tied", len(result.Rounds[len(result.Rounds)-1].Eliminated))))
}
