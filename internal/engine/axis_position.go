package engine

import "github.com/roach88/mdaq/internal/ir"

// PositionAxis yields one event per stage position, in list order.
// With no positions it passes the template through once and adds no
// position key.
type PositionAxis struct {
	Positions []ir.XYStagePosition
}

// Axis implements Factory.
func (a PositionAxis) Axis() ir.Axis { return ir.AxisPosition }

// Sequence implements Factory.
func (a PositionAxis) Sequence(template ir.Event) Sequence {
	return &positionSequence{positions: a.Positions, template: template}
}

type positionSequence struct {
	positions []ir.XYStagePosition
	template  ir.Event
	next      int
	done      bool
}

func (s *positionSequence) Next() (ir.Event, bool) {
	if len(s.positions) == 0 {
		if s.done {
			return ir.Event{}, false
		}
		s.done = true
		return s.template.Derive(), true
	}
	if s.next >= len(s.positions) {
		return ir.Event{}, false
	}
	i := s.next
	s.next++

	p := s.positions[i]
	ev := s.template.WithAxis(ir.AxisPosition, i)
	ev.StageXY = &ir.Point{X: p.Center.X, Y: p.Center.Y}
	ev.GridRow = copyInt(p.GridRow)
	ev.GridCol = copyInt(p.GridCol)
	ev.PositionLabel = p.Label
	return ev, true
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	return ir.Ptr(*p)
}
