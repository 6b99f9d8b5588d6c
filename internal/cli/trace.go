package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ayushgw/graphql-basics/internal/harness"
	"github.com/ayushgw/graphql-basics/internal/model"
)

// TraceResult is the JSON payload of the trace command.
type TraceResult struct {
	Name   string          `json:"name"`
	Pass   bool            `json:"pass"`
	Trace  json.RawMessage `json:"trace"`
	Errors []string        `json:"errors,omitempty"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "trace <scenario.yaml>",
		Short: "Run one scenario and print its event trace",
		Long: `Run a scenario against a fresh in-memory store and print every
operation together with the events it delivered to open subscriptions.

The JSON form embeds the canonical trace, byte-for-byte what golden
files hold.

Exit codes:
  0 - Scenario passed
  1 - Scenario failed (unexpected errors or assertion failures)
  2 - Command error (missing file, invalid scenario)

Examples:
  graphstore trace ./scenarios/walkthrough.yaml
  graphstore trace ./scenarios/walkthrough.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(rootOpts, args[0], cmd)
		},
	}
}

func runTrace(opts *RootOptions, path string, cmd *cobra.Command) error {
	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		return f.Error(WrapExitError(ExitCommandError, "failed to load scenario", err))
	}

	slog.Debug("running scenario", "name", scenario.Name, "steps", len(scenario.Steps))
	result, err := harness.Run(scenario)
	if err != nil {
		return f.Error(WrapExitError(ExitCommandError, "scenario execution failed", err))
	}

	if opts.Format == "json" {
		snapshot, err := harness.Snapshot(scenario.Name, result)
		if err != nil {
			return f.Error(WrapExitError(ExitCommandError, "failed to render trace", err))
		}
		var doc struct {
			Trace json.RawMessage `json:"trace"`
		}
		if err := json.Unmarshal(snapshot, &doc); err != nil {
			return f.Error(WrapExitError(ExitCommandError, "failed to render trace", err))
		}

		if err := f.Success(TraceResult{
			Name:   scenario.Name,
			Pass:   result.Pass,
			Trace:  doc.Trace,
			Errors: result.Errors,
		}); err != nil {
			return err
		}
	} else {
		printTrace(cmd.OutOrStdout(), scenario.Name, result)
	}

	if !result.Pass {
		return NewExitError(ExitFailure, fmt.Sprintf("scenario %s failed", scenario.Name))
	}
	return nil
}

func printTrace(w io.Writer, name string, result *harness.Result) {
	fmt.Fprintf(w, "Scenario: %s\n\n", name)

	for _, entry := range result.Trace {
		switch entry.Type {
		case harness.TraceOp:
			outcome := "ok"
			if entry.Error != "" {
				outcome = entry.Error
			}
			fmt.Fprintf(w, "[%d] %s %s -> %s\n", entry.Seq, entry.Op, formatArgs(entry.Args), outcome)
		case harness.TraceEvent:
			data, err := model.MarshalCanonical(entry.Event)
			if err != nil {
				data = []byte(err.Error())
			}
			fmt.Fprintf(w, "[%d]   %s <- %s %s\n", entry.Seq, entry.Subscription, entry.Event.Mutation, data)
		}
	}

	fmt.Fprintln(w)
	if result.Pass {
		fmt.Fprintln(w, "✓ passed")
		return
	}
	fmt.Fprintln(w, "✗ failed")
	for _, e := range result.Errors {
		fmt.Fprintf(w, "  %s\n", e)
	}
}

// formatArgs renders args as {k: v, ...} with sorted keys.
func formatArgs(args map[string]any) string {
	if len(args) == 0 {
		return "{}"
	}
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %v", k, args[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
