package store

import (
	"context"
	"fmt"
	"iter"
	"slices"

	"github.com/roach88/mdaq/internal/ir"
)

// ReplayResult compares a recorded run with a regenerated event stream.
type ReplayResult struct {
	RunID    string
	Recorded int

	// Regenerated counts the events pulled from the regenerated stream,
	// capped at Recorded+1.
	Regenerated int
	Matched     int

	// FirstMismatch is the index of the first differing event, -1 if none.
	// A length difference counts as a mismatch at the shorter length.
	FirstMismatch int

	// Identical is true when both streams have the same event IDs in the
	// same order.
	Identical bool
}

// CompareRun compares the events recorded for runID with regenerated by
// event ID, position by position. The schedule is not compared: EventID
// excludes it.
func (s *Store) CompareRun(ctx context.Context, runID string, regenerated []ir.Event) (ReplayResult, error) {
	return s.CompareStream(ctx, runID, slices.Values(regenerated))
}

// CompareStream is CompareRun over a lazily generated stream. It pulls at
// most one event past the recording, so Regenerated never exceeds
// Recorded+1 and a longer stream is left unconsumed.
func (s *Store) CompareStream(ctx context.Context, runID string, regenerated iter.Seq[ir.Event]) (ReplayResult, error) {
	recorded, err := s.ReadEvents(ctx, runID)
	if err != nil {
		return ReplayResult{}, fmt.Errorf("compare run: %w", err)
	}

	result := ReplayResult{
		RunID:         runID,
		Recorded:      len(recorded),
		FirstMismatch: -1,
	}
	var compareErr error
	for ev := range regenerated {
		i := result.Regenerated
		result.Regenerated++
		if i == len(recorded) {
			break
		}
		if result.FirstMismatch >= 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			compareErr = fmt.Errorf("compare run: %w", err)
			break
		}
		id, err := ir.EventID(ev)
		if err != nil {
			compareErr = fmt.Errorf("compare run: event %d: %w", i, err)
			break
		}
		if id != recorded[i].EventID {
			result.FirstMismatch = i
			continue
		}
		result.Matched++
	}
	if compareErr != nil {
		return ReplayResult{}, compareErr
	}
	if result.FirstMismatch < 0 && result.Regenerated != len(recorded) {
		result.FirstMismatch = min(result.Regenerated, len(recorded))
	}
	result.Identical = result.FirstMismatch < 0
	return result, nil
}
