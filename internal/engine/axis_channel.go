package engine

import "github.com/roach88/mdaq/internal/ir"

// ChannelAxis yields one event per channel, in list order.
//
// A channel's z offset is added to whatever z position the template carries.
// An unset template position counts as 0, so under the canonical nesting the
// offset becomes the base the z-stack builds on.
type ChannelAxis struct {
	Channels []ir.Channel
}

// Axis implements Factory.
func (a ChannelAxis) Axis() ir.Axis { return ir.AxisChannel }

// Sequence implements Factory.
func (a ChannelAxis) Sequence(template ir.Event) Sequence {
	return &channelSequence{channels: a.Channels, template: template}
}

type channelSequence struct {
	channels []ir.Channel
	template ir.Event
	next     int
}

func (s *channelSequence) Next() (ir.Event, bool) {
	if s.next >= len(s.channels) {
		return ir.Event{}, false
	}
	i := s.next
	s.next++

	c := s.channels[i]
	ev := s.template.WithAxis(ir.AxisChannel, i)
	ev.ChannelGroup = c.Group
	ev.ChannelConfig = c.Config
	if c.ExposureMs != nil {
		ev.ExposureMs = ir.Ptr(*c.ExposureMs)
	}
	if c.ZOffsetUm != 0 {
		ev.ZPositionUm = ir.Ptr(s.template.ZBaseUm() + c.ZOffsetUm)
	}
	return ev, true
}
