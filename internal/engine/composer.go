package engine

import (
	"iter"

	"github.com/roach88/mdaq/internal/ir"
)

// Stream is the cartesian product of a list of axis factories, produced
// depth-first with the first factory outermost.
//
// The stream holds an explicit stack with one live Sequence per depth.
// When the innermost sequence runs dry it is popped and its parent is
// advanced; every event the parent yields pushes a fresh child sequence
// built from that event. The total length is never computed up front.
type Stream struct {
	seed      ir.Event
	factories []Factory
	stack     []Sequence
	started   bool
	done      bool
	yielded   int
}

// Compose builds a stream over factories, outermost first. With no
// factories the stream yields seed once.
func Compose(seed ir.Event, factories ...Factory) *Stream {
	return &Stream{
		seed:      seed,
		factories: append([]Factory(nil), factories...),
	}
}

// Next returns the next event, or false once the stream is exhausted or
// stopped.
func (s *Stream) Next() (ir.Event, bool) {
	if s.done {
		return ir.Event{}, false
	}
	if !s.started {
		s.started = true
		if len(s.factories) == 0 {
			s.done = true
			s.yielded++
			return s.seed.Derive(), true
		}
		s.stack = append(s.stack, s.factories[0].Sequence(s.seed))
	}

	for len(s.stack) > 0 {
		depth := len(s.stack) - 1
		ev, ok := s.stack[depth].Next()
		if !ok {
			s.stack[depth] = nil
			s.stack = s.stack[:depth]
			continue
		}
		if depth == len(s.factories)-1 {
			s.yielded++
			return ev, true
		}
		s.stack = append(s.stack, s.factories[depth+1].Sequence(ev))
	}

	s.done = true
	return ir.Event{}, false
}

// Stop abandons all held sequences. Later calls to Next return false.
func (s *Stream) Stop() {
	clear(s.stack)
	s.stack = nil
	s.done = true
}

// All returns an iterator over the remaining events. Breaking out of the
// loop leaves the stream where it stopped; call Stop to release it.
func (s *Stream) All() iter.Seq[ir.Event] {
	return func(yield func(ir.Event) bool) {
		for {
			ev, ok := s.Next()
			if !ok || !yield(ev) {
				return
			}
		}
	}
}

// Depth returns the number of sequences currently held.
func (s *Stream) Depth() int {
	return len(s.stack)
}

// Yielded returns the number of events produced so far.
func (s *Stream) Yielded() int {
	return s.yielded
}

// Axes returns the axes of the stream, outermost first.
func (s *Stream) Axes() []ir.Axis {
	axes := make([]ir.Axis, len(s.factories))
	for i, f := range s.factories {
		axes[i] = f.Axis()
	}
	return axes
}
