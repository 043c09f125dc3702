package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mdaq/internal/ir"
)

func TestRun_TwoChannelStack(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/two_channel_stack.yaml")
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Empty(t, result.Errors)
	assert.Equal(t, "test-run-default", result.RunID)
	assert.Equal(t, 8, result.Report.Delivered)
	require.Len(t, result.Trace, 8)
	for i, te := range result.Trace {
		assert.Equal(t, int64(i+1), te.Seq)
	}
}

func TestRun_GridOverview(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/grid_overview.yaml")
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_FailingAssertionsAreCollected(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/two_channel_stack.yaml")
	require.NoError(t, err)
	scenario.Assertions = []Assertion{
		{Type: AssertEventCount, Count: 9},
		{Type: AssertEventAt, Index: 0, Expect: map[string]any{"channel_config": "FITC"}},
		{Type: AssertZIncreasing},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "event_count")
	assert.Contains(t, result.Errors[1], "event_at")
}

func TestRun_CustomRunID(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/two_channel_stack.yaml")
	require.NoError(t, err)
	scenario.RunID = "custom"

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.Equal(t, "custom", result.RunID)
}

func TestRun_BadSettings(t *testing.T) {
	dir := t.TempDir()
	settings := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(settings, []byte("name: \"\"\n"), 0o644))

	_, err := Run(&Scenario{Name: "bad", Settings: settings})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "E201")
}

func TestRun_ScheduleFollowsClockStart(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/two_channel_stack.yaml")
	require.NoError(t, err)
	scenario.ClockStartMs = 10_000

	result, err := Run(scenario)
	require.NoError(t, err)
	events := result.Events()
	assert.Equal(t, int64(10_000), *events[0].MinimumStartTimeMs)
	assert.Equal(t, int64(11_000), *events[7].MinimumStartTimeMs)

	// Identity does not depend on the clock.
	baseline, err := LoadScenario("testdata/scenarios/two_channel_stack.yaml")
	require.NoError(t, err)
	base, err := Run(baseline)
	require.NoError(t, err)
	for i := range events {
		a, _ := ir.EventID(events[i])
		b, _ := ir.EventID(base.Events()[i])
		assert.Equal(t, a, b)
	}
}
