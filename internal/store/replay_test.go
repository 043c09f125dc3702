package store

import (
	"context"
	"testing"

	"github.com/roach88/mdaq/internal/ir"
)

func writeEvents(t *testing.T, s *Store, runID string, events []ir.Event) {
	t.Helper()
	for i, ev := range events {
		if err := s.WriteEvent(context.Background(), EventRecord{RunID: runID, Seq: int64(i + 1), Event: ev}); err != nil {
			t.Fatalf("WriteEvent(%d) failed: %v", i, err)
		}
	}
}

func TestCompareRun_Identical(t *testing.T) {
	s := createTestStore(t)
	createTestRun(t, s, "run-1")
	events := []ir.Event{createTestEvent(0), createTestEvent(1), createTestEvent(2)}
	writeEvents(t, s, "run-1", events)

	// The regenerated first time point was pulled at a different clock
	// reading; identity ignores the schedule.
	regenerated := []ir.Event{createTestEvent(0), createTestEvent(1), createTestEvent(2)}
	regenerated[0].MinimumStartTimeMs = ir.Ptr(int64(99))

	result, err := s.CompareRun(context.Background(), "run-1", regenerated)
	if err != nil {
		t.Fatalf("CompareRun() failed: %v", err)
	}
	if !result.Identical || result.Matched != 3 || result.FirstMismatch != -1 {
		t.Errorf("result = %+v, want identical", result)
	}
}

func TestCompareRun_Mismatch(t *testing.T) {
	s := createTestStore(t)
	createTestRun(t, s, "run-1")
	writeEvents(t, s, "run-1", []ir.Event{createTestEvent(0), createTestEvent(1), createTestEvent(2)})

	result, err := s.CompareRun(context.Background(), "run-1",
		[]ir.Event{createTestEvent(0), createTestEvent(2), createTestEvent(1)})
	if err != nil {
		t.Fatalf("CompareRun() failed: %v", err)
	}
	if result.Identical || result.FirstMismatch != 1 || result.Matched != 1 {
		t.Errorf("result = %+v, want mismatch at 1", result)
	}
}

func TestCompareRun_Truncated(t *testing.T) {
	s := createTestStore(t)
	createTestRun(t, s, "run-1")
	writeEvents(t, s, "run-1", []ir.Event{createTestEvent(0), createTestEvent(1)})

	result, err := s.CompareRun(context.Background(), "run-1",
		[]ir.Event{createTestEvent(0), createTestEvent(1), createTestEvent(2)})
	if err != nil {
		t.Fatalf("CompareRun() failed: %v", err)
	}
	if result.Identical || result.FirstMismatch != 2 || result.Recorded != 2 || result.Regenerated != 3 {
		t.Errorf("result = %+v, want mismatch at 2", result)
	}
}

func TestCompareStream_StopsOnePastRecording(t *testing.T) {
	s := createTestStore(t)
	createTestRun(t, s, "run-1")
	writeEvents(t, s, "run-1", []ir.Event{createTestEvent(0), createTestEvent(1)})

	pulled := 0
	endless := func(yield func(ir.Event) bool) {
		for k := 0; ; k++ {
			pulled++
			if !yield(createTestEvent(k)) {
				return
			}
		}
	}

	result, err := s.CompareStream(context.Background(), "run-1", endless)
	if err != nil {
		t.Fatalf("CompareStream() failed: %v", err)
	}
	if pulled != 3 {
		t.Errorf("pulled %d events, want 3", pulled)
	}
	if result.Matched != 2 || result.Regenerated != 3 || result.FirstMismatch != 2 || result.Identical {
		t.Errorf("result = %+v, want prefix match with one extra event", result)
	}
}
