package harness

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/ayushgw/graphql-basics/internal/model"
)

// Snapshot returns the canonical JSON form of a scenario's trace. The
// bytes are stable across runs and are what golden files hold.
func Snapshot(name string, result *Result) ([]byte, error) {
	trace := make([]any, len(result.Trace))
	for i, entry := range result.Trace {
		m := map[string]any{
			"seq":  entry.Seq,
			"type": entry.Type,
		}
		if entry.Op != "" {
			m["op"] = entry.Op
		}
		if len(entry.Args) > 0 {
			m["args"] = entry.Args
		}
		if entry.Result != nil {
			m["result"] = entry.Result
		}
		if entry.Error != "" {
			m["error"] = entry.Error
		}
		if entry.Subscription != "" {
			m["subscription"] = entry.Subscription
		}
		if entry.Event != nil {
			m["event"] = entry.Event.CanonicalMap()
		}
		trace[i] = m
	}

	return model.MarshalCanonical(map[string]any{
		"name":  name,
		"trace": trace,
	})
}

// GoldenPath returns where the golden file of a scenario file lives:
// a golden/ directory next to it, named after the file.
func GoldenPath(scenarioFile string) string {
	dir := filepath.Dir(scenarioFile)
	base := filepath.Base(scenarioFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, "golden", name+".golden")
}

// RunWithGolden executes a scenario and compares its trace against
// testdata/scenarios/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	return result, AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result's trace against its golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := Snapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/scenarios/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}
