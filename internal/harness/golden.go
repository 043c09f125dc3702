package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/mdaq/internal/ir"
)

// TraceSnapshot captures the complete trace for a scenario execution.
// All fields use canonical JSON serialization for deterministic comparison.
type TraceSnapshot struct {
	ScenarioName string
	RunID        string
	Expected     int
	Trace        []TraceEvent
}

// toCanonicalMap converts a TraceSnapshot to a map[string]any for canonical JSON serialization.
// This is required because ir.MarshalCanonical only handles maps, slices and primitives.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	events := make([]any, len(s.Trace))
	for i, te := range s.Trace {
		events[i] = map[string]any{
			"seq":   te.Seq,
			"event": te.Event.CanonicalMap(),
		}
	}
	return map[string]any{
		"scenario_name": s.ScenarioName,
		"run_id":        s.RunID,
		"expected":      s.Expected,
		"events":        events,
	}
}

// MarshalTrace returns the canonical JSON form of a scenario result, the
// bytes golden files hold.
func MarshalTrace(scenarioName string, result *Result) ([]byte, error) {
	snapshot := TraceSnapshot{
		ScenarioName: scenarioName,
		RunID:        result.RunID,
		Trace:        result.Trace,
	}
	if result.Report != nil {
		snapshot.Expected = result.Report.Expected
	}
	return ir.MarshalCanonical(snapshot.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares the trace against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if trace doesn't match golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares the given result's trace against a golden file.
// This is useful when you've already run a scenario and want to compare
// the result against a golden file without re-running.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	traceJSON, err := MarshalTrace(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, traceJSON)

	return nil
}
