package sink

import (
	"context"
	"fmt"

	"github.com/roach88/mdaq/internal/engine"
	"github.com/roach88/mdaq/internal/ir"
	"github.com/roach88/mdaq/internal/store"
)

// Recorder appends every accepted event to a run in the store, numbering
// events with a logical clock.
type Recorder struct {
	store *store.Store
	runID string
	seq   *engine.SeqClock
}

// NewRecorder creates a recorder for an existing run. Numbering starts
// after the run's last recorded event, so a resumed run appends.
func NewRecorder(ctx context.Context, st *store.Store, runID string) (*Recorder, error) {
	last, err := st.LastSeq(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("new recorder: %w", err)
	}
	return &Recorder{
		store: st,
		runID: runID,
		seq:   engine.NewSeqClockAt(last),
	}, nil
}

// Accept implements engine.Sink.
func (r *Recorder) Accept(ctx context.Context, ev ir.Event) error {
	id, err := ir.EventID(ev)
	if err != nil {
		return fmt.Errorf("record event: %w", err)
	}
	return r.store.WriteEvent(ctx, store.EventRecord{
		RunID:   r.runID,
		Seq:     r.seq.Next(),
		EventID: id,
		Event:   ev,
	})
}

// RunID returns the run the recorder writes to.
func (r *Recorder) RunID() string {
	return r.runID
}

// Seq returns the seq of the last recorded event.
func (r *Recorder) Seq() int64 {
	return r.seq.Current()
}
