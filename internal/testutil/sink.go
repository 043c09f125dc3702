package testutil

import (
	"context"
	"sync"

	"github.com/roach88/mdaq/internal/ir"
)

// CollectingSink records every accepted event. If FailAt is positive, the
// FailAt-th call (1-based) returns Err instead of recording.
type CollectingSink struct {
	mu     sync.Mutex
	Events []ir.Event
	FailAt int
	Err    error
	calls  int
}

// Accept implements engine.Sink.
func (s *CollectingSink) Accept(_ context.Context, ev ir.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.FailAt > 0 && s.calls == s.FailAt {
		return s.Err
	}
	s.Events = append(s.Events, ev)
	return nil
}

// Calls returns the number of Accept calls, failed ones included.
func (s *CollectingSink) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
