package harness

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/roach88/mdaq/internal/ir"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
	Index    int    // Offending event index, -1 if not event-specific
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	if e.Index >= 0 {
		fmt.Fprintf(&buf, "  Event: %d\n", e.Index)
	}
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	return buf.String()
}

// EvaluateAssertions runs every assertion against the result and returns
// the failure messages. Does not fail fast.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string
	events := result.Events()

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertEventCount:
			err = assertEventCount(events, assertion)
		case AssertEventAt:
			err = assertEventAt(events, assertion)
		case AssertSnakeGrid:
			err = assertSnakeGrid(events, assertion)
		case AssertScheduleMonotonic:
			err = assertScheduleMonotonic(events, result.Settings)
		case AssertZIncreasing:
			err = assertZIncreasing(events)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}

func assertEventCount(events []ir.Event, a Assertion) error {
	if len(events) != a.Count {
		return &AssertionError{
			Type:     AssertEventCount,
			Expected: fmt.Sprintf("%d events", a.Count),
			Actual:   fmt.Sprintf("%d events", len(events)),
			Index:    -1,
		}
	}
	return nil
}

// assertEventAt matches the expected fields against the event's canonical
// form, so field names are the JSON names used in golden files.
func assertEventAt(events []ir.Event, a Assertion) error {
	if a.Index >= len(events) {
		return &AssertionError{
			Type:     AssertEventAt,
			Expected: fmt.Sprintf("event at index %d", a.Index),
			Actual:   fmt.Sprintf("only %d events", len(events)),
			Index:    a.Index,
		}
	}
	got := events[a.Index].CanonicalMap()
	if !matchSubset(a.Expect, got) {
		return &AssertionError{
			Type:     AssertEventAt,
			Expected: fmt.Sprintf("%v", a.Expect),
			Actual:   fmt.Sprintf("%v", got),
			Index:    a.Index,
		}
	}
	return nil
}

// assertSnakeGrid checks that the distinct grid positions, in order of first
// appearance, cover rows x cols exactly once, start at (0, 0), walk whole
// columns left to right and only ever step to an adjacent tile.
func assertSnakeGrid(events []ir.Event, a Assertion) error {
	type cell struct{ row, col int }
	fail := func(actual string) error {
		return &AssertionError{
			Type:     AssertSnakeGrid,
			Expected: fmt.Sprintf("%dx%d snake grid", a.Rows, a.Cols),
			Actual:   actual,
			Index:    -1,
		}
	}

	var order []cell
	seenIndex := map[int]bool{}
	for i, ev := range events {
		p, ok := ev.Index(ir.AxisPosition)
		if !ok || seenIndex[p] {
			continue
		}
		seenIndex[p] = true
		if ev.GridRow == nil || ev.GridCol == nil {
			return fail(fmt.Sprintf("event %d has no grid coordinates", i))
		}
		order = append(order, cell{*ev.GridRow, *ev.GridCol})
	}

	if len(order) != a.Rows*a.Cols {
		return fail(fmt.Sprintf("%d distinct tiles", len(order)))
	}
	seen := map[cell]bool{}
	for i, c := range order {
		if c.row < 0 || c.row >= a.Rows || c.col < 0 || c.col >= a.Cols {
			return fail(fmt.Sprintf("tile %d at (%d, %d) outside grid", i, c.row, c.col))
		}
		if seen[c] {
			return fail(fmt.Sprintf("tile (%d, %d) visited twice", c.row, c.col))
		}
		seen[c] = true
		if i == 0 {
			if c != (cell{0, 0}) {
				return fail(fmt.Sprintf("first tile (%d, %d)", c.row, c.col))
			}
			continue
		}
		prev := order[i-1]
		if abs(c.row-prev.row)+abs(c.col-prev.col) != 1 {
			return fail(fmt.Sprintf("step %d from (%d, %d) to (%d, %d) is not adjacent", i, prev.row, prev.col, c.row, c.col))
		}
		if c.col < prev.col {
			return fail(fmt.Sprintf("step %d moves back to column %d", i, c.col))
		}
	}
	return nil
}

// assertScheduleMonotonic checks that whenever the time index advances by
// one, the new minimum start is at least one interval after the previous.
// A time index that goes back marks a new time sequence.
func assertScheduleMonotonic(events []ir.Event, settings ir.AcquisitionSettings) error {
	var interval int64
	if settings.Time != nil {
		interval = max(settings.Time.IntervalMs, 0)
	}

	lastIdx := -1
	var lastStart *int64
	for i, ev := range events {
		t, ok := ev.Index(ir.AxisTime)
		if !ok || t == lastIdx {
			continue
		}
		if t == lastIdx+1 && lastStart != nil && ev.MinimumStartTimeMs != nil {
			if *ev.MinimumStartTimeMs < *lastStart+interval {
				return &AssertionError{
					Type:     AssertScheduleMonotonic,
					Expected: fmt.Sprintf("minimum start >= %d", *lastStart+interval),
					Actual:   fmt.Sprintf("%d", *ev.MinimumStartTimeMs),
					Index:    i,
				}
			}
		}
		lastIdx, lastStart = t, ev.MinimumStartTimeMs
	}
	return nil
}

// assertZIncreasing checks that z positions strictly increase within each
// sweep, a sweep being the events that share all non-z axis indices.
func assertZIncreasing(events []ir.Event) error {
	last := map[string]float64{}
	for i, ev := range events {
		if _, ok := ev.Index(ir.AxisZ); !ok || ev.ZPositionUm == nil {
			continue
		}
		key := sweepKey(ev)
		z := *ev.ZPositionUm
		if prev, ok := last[key]; ok && z <= prev {
			return &AssertionError{
				Type:     AssertZIncreasing,
				Expected: fmt.Sprintf("z > %v", prev),
				Actual:   fmt.Sprintf("z = %v", z),
				Index:    i,
			}
		}
		last[key] = z
	}
	return nil
}

func sweepKey(ev ir.Event) string {
	var b strings.Builder
	for _, axis := range slices.Sorted(maps.Keys(ev.AxisPositions)) {
		if axis == ir.AxisZ {
			continue
		}
		fmt.Fprintf(&b, "%s=%d;", axis, ev.AxisPositions[axis])
	}
	return b.String()
}

// matchSubset reports whether every key in expected is present in actual
// with an equal value. Nested maps match recursively with the same subset
// semantics; numbers compare by value regardless of Go type.
func matchSubset(expected, actual map[string]any) bool {
	for k, want := range expected {
		got, ok := actual[k]
		if !ok || !valuesEqual(want, got) {
			return false
		}
	}
	return true
}

func valuesEqual(want, got any) bool {
	if wm, ok := want.(map[string]any); ok {
		gm, ok := got.(map[string]any)
		return ok && matchSubset(wm, gm)
	}
	wf, wNum := toFloat(want)
	gf, gNum := toFloat(got)
	if wNum || gNum {
		return wNum && gNum && wf == gf
	}
	return want == got
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
