package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/danielhkuo/runoff/models"
	"github.com/danielhkuo/runoff/tabulate"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestTallyReport(t *testing.T) {
	path := writeFile(t, "board.toml", sampleTOML)

	out, err := runCmd(t, "tally", path)
	if err != nil {
		t.Fatalf("tally error: %v", err)
	}

	for _, want := range []string{
		"Board seat",
		"3 candidates, 5 ballots counted",
		"1st round",
		"3rd round",
		"Eliminated: Z",
		"1 ballots exhausted between rounds 2 and 3",
		"Winner: Y after 3 rounds",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q\n%s", want, out)
		}
	}
}

func TestTallyReport_NoWinner(t *testing.T) {
	path := writeFile(t, "tie.json", `{
		"candidates": [{"id": 0, "name": "A"}, {"id": 1, "name": "B"}, {"id": 2, "name": "C"}],
		"ballots": [{"choices": [0]}, {"choices": [1]}, {"choices": [1, 2]}, {"choices": [0]}]
	}`)

	out, err := runCmd(t, "tally", path)
	if err != nil {
		t.Fatalf("tally error: %v", err)
	}
	if !strings.Contains(out, "No first-place votes: C") {
		t.Errorf("report should name the pre-pass drop\n%s", out)
	}
	if !strings.Contains(out, "No winner: the final 2 candidates tied") {
		t.Errorf("report should state the tie\n%s", out)
	}
}

func TestTallyJSON(t *testing.T) {
	path := writeFile(t, "board.toml", sampleTOML)

	out, err := runCmd(t, "tally", "--json", path)
	if err != nil {
		t.Fatalf("tally --json error: %v", err)
	}

	var result tabulate.Result
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if result.Outcome != tabulate.OutcomeWinner || result.Winner == nil || *result.Winner != 1 {
		t.Errorf("outcome = %s winner = %v, want Y (1)", result.Outcome, result.Winner)
	}
	if len(result.Rounds) != 3 {
		t.Errorf("len(Rounds) = %d, want 3", len(result.Rounds))
	}
}

func TestTallyEmptyInput(t *testing.T) {
	path := writeFile(t, "empty.json", `{"candidates": [{"id": 0, "name": "A"}], "ballots": [{"choices": [null, 0]}]}`)

	_, err := runCmd(t, "tally", path)
	if !errors.Is(err, tabulate.ErrEmptyInput) {
		t.Errorf("error = %v, want ErrEmptyInput", err)
	}
}

func TestFlowCommand(t *testing.T) {
	path := writeFile(t, "board.toml", sampleTOML)

	out, err := runCmd(t, "flow", path)
	if err != nil {
		t.Fatalf("flow error: %v", err)
	}

	var flow models.FlowResponse
	if err := json.Unmarshal([]byte(out), &flow); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}

	wantNodes := []string{
		"Candidate: X, Round: 1",
		"Candidate: Y, Round: 1",
		"Candidate: Z, Round: 1",
		"Candidate: Y, Round: 2",
		"Candidate: X, Round: 2",
		"Candidate: Y, Round: 3",
	}
	if len(flow.Nodes) != len(wantNodes) {
		t.Fatalf("nodes = %v, want %v", flow.Nodes, wantNodes)
	}
	for i := range wantNodes {
		if flow.Nodes[i] != wantNodes[i] {
			t.Errorf("nodes[%d] = %q, want %q", i, flow.Nodes[i], wantNodes[i])
		}
	}
	if len(flow.Links) != 5 {
		t.Errorf("len(links) = %d, want 5", len(flow.Links))
	}
}

func TestSchemaCommand(t *testing.T) {
	out, err := runCmd(t, "schema")
	if err != nil {
		t.Fatalf("schema error: %v", err)
	}

	var schema map[string]any
	if err := json.Unmarshal([]byte(out), &schema); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	props, ok := schema["properties"].(map[string]any)
	if !ok {
		t.Fatalf("schema has no properties: %s", out)
	}
	for _, field := range []string{"title", "candidates", "ballots"} {
		if _, ok := props[field]; !ok {
			t.Errorf("schema missing property %q", field)
		}
	}
}

func TestTallyRequiresFile(t *testing.T) {
	if _, err := runCmd(t, "tally"); err == nil {
		t.Error("expected error without a file argument")
	}
}
