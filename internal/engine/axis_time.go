package engine

import "github.com/roach88/mdaq/internal/ir"

// TimeAxis yields Frames time points.
//
// The first time point is scheduled at the clock reading taken on the first
// pull. Each later one is scheduled IntervalMs after its predecessor, so the
// schedule is a fixed lower bound that does not drift when the consumer
// lags. With IntervalMs <= 0 later time points are unconstrained.
type TimeAxis struct {
	Frames     int
	IntervalMs int64
	Clock      Clock
}

// Axis implements Factory.
func (a TimeAxis) Axis() ir.Axis { return ir.AxisTime }

// Sequence implements Factory.
func (a TimeAxis) Sequence(template ir.Event) Sequence {
	return &timeSequence{axis: a, template: template}
}

type timeSequence struct {
	axis     TimeAxis
	template ir.Event
	next     int
	lastMs   int64
}

func (s *timeSequence) Next() (ir.Event, bool) {
	if s.next >= s.axis.Frames {
		return ir.Event{}, false
	}
	i := s.next
	s.next++

	ev := s.template.WithAxis(ir.AxisTime, i)
	switch {
	case i == 0:
		s.lastMs = s.axis.Clock.NowMs()
		ev.MinimumStartTimeMs = ir.Ptr(s.lastMs)
	case s.axis.IntervalMs > 0:
		s.lastMs += s.axis.IntervalMs
		ev.MinimumStartTimeMs = ir.Ptr(s.lastMs)
	default:
		ev.MinimumStartTimeMs = nil
	}
	return ev, true
}
