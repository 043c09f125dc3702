package engine

import "github.com/roach88/mdaq/internal/ir"

// ZStackAxis yields slices Start..Stop-1.
//
// Slice k is placed at base + k*StepUm + OriginUm, where base is the z
// position already on the template (0 if unset). The axis index and ZIndex
// are both the slice index k, not the count of slices yielded: with Start 2
// the first event carries AxisPositions["z"] == 2.
type ZStackAxis struct {
	Start    int
	Stop     int
	StepUm   float64
	OriginUm float64
}

// Axis implements Factory.
func (a ZStackAxis) Axis() ir.Axis { return ir.AxisZ }

// Sequence implements Factory.
func (a ZStackAxis) Sequence(template ir.Event) Sequence {
	return &zStackSequence{axis: a, template: template, next: a.Start}
}

type zStackSequence struct {
	axis     ZStackAxis
	template ir.Event
	next     int
}

func (s *zStackSequence) Next() (ir.Event, bool) {
	if s.next >= s.axis.Stop {
		return ir.Event{}, false
	}
	k := s.next
	s.next++

	ev := s.template.WithAxis(ir.AxisZ, k)
	ev.ZIndex = ir.Ptr(k)
	ev.ZPositionUm = ir.Ptr(s.template.ZBaseUm() + float64(k)*s.axis.StepUm + s.axis.OriginUm)
	return ev, true
}
