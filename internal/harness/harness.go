package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/mdaq/internal/compiler"
	"github.com/roach88/mdaq/internal/engine"
	"github.com/roach88/mdaq/internal/sink"
	"github.com/roach88/mdaq/internal/store"
	"github.com/roach88/mdaq/internal/testutil"
)

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
// Deterministic helpers ensure reproducible results.
//
// Execution flow:
// 1. Compile the scenario's settings file
// 2. Create fresh in-memory database and a run record
// 3. Drive the stream into a Recorder and a Collector
// 4. Read the trace back from the store and check it against the Collector
// 5. Evaluate assertions
func Run(scenario *Scenario) (*Result, error) {
	compiled, err := compiler.Load(scenario.Settings)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	// Create fresh in-memory SQLite database
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	runID := testutil.NewFixedRunIDGenerator(scenario.RunID).Generate()

	if err := st.CreateRun(ctx, store.Run{
		ID:       runID,
		Name:     scenario.Name,
		Settings: compiled.Settings,
		Geometry: compiled.Geometry,
	}); err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	recorder, err := sink.NewRecorder(ctx, st, runID)
	if err != nil {
		return nil, err
	}

	delivered := sink.NewCollector()
	driver := engine.NewDriver(compiled.Settings, compiled.GeometryProvider(), sink.Multi{recorder, delivered},
		engine.WithClock(testutil.NewManualClock(scenario.ClockStartMs)),
		engine.WithRunID(runID),
		engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))), // Suppress logs in tests
	)
	report, err := driver.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to run scenario: %w", err)
	}

	records, err := st.ReadEvents(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to read trace: %w", err)
	}

	result := NewResult()
	result.RunID = runID
	result.Report = report
	result.Settings = compiled.Settings
	for _, rec := range records {
		result.Trace = append(result.Trace, TraceEvent{Seq: rec.Seq, Event: rec.Event})
	}

	if delivered.Len() != len(records) {
		result.AddError(fmt.Sprintf("trace holds %d event(s), driver delivered %d", len(records), delivered.Len()))
	}

	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(errMsg)
	}

	return result, nil
}
