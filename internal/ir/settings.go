package ir

import "fmt"

// Channel is one entry of the channel axis.
type Channel struct {
	Group      string   `json:"group"`
	Config     string   `json:"config"`
	ExposureMs *float64 `json:"exposure_ms,omitempty"`

	// ZOffsetUm is channel-specific focus compensation. It is added to the
	// z position an event already carries, never substituted for it.
	ZOffsetUm float64 `json:"z_offset_um,omitempty"`
}

// TimeLapse configures the time axis.
type TimeLapse struct {
	Frames     int   `json:"frames"`
	IntervalMs int64 `json:"interval_ms"`
}

// ZRange configures the z-stack axis. Slices run over [Start, Stop).
type ZRange struct {
	Start    int     `json:"start"`
	Stop     int     `json:"stop"`
	StepUm   float64 `json:"step_um"`
	OriginUm float64 `json:"origin_um"`
}

// Slices returns the number of slices in the range, never negative.
func (z ZRange) Slices() int {
	if z.Stop <= z.Start {
		return 0
	}
	return z.Stop - z.Start
}

// ZComposition names how channel offsets combine with the z-stack.
type ZComposition string

const (
	// ZCompositionDefault applies only to the canonical nesting.
	ZCompositionDefault ZComposition = ""

	// ZCompositionAdditive acknowledges that z and channel contributions sum
	// regardless of nesting order.
	ZCompositionAdditive ZComposition = "additive"
)

// AcquisitionSettings is the immutable root of one acquisition run.
//
// A nil Time, empty Channels or nil Z removes that axis from the stream.
// Positions takes precedence over Grid; with neither, the run stays at the
// current stage position.
type AcquisitionSettings struct {
	Name string `json:"name,omitempty"`

	Time      *TimeLapse        `json:"time,omitempty"`
	Positions []XYStagePosition `json:"positions,omitempty"`
	Grid      *TileGridSpec     `json:"grid,omitempty"`
	Channels  []Channel         `json:"channels,omitempty"`
	Z         *ZRange           `json:"z,omitempty"`

	// AxisOrder is the outer-to-inner nesting. Empty means CanonicalAxisOrder.
	AxisOrder    []Axis       `json:"axis_order,omitempty"`
	ZComposition ZComposition `json:"z_composition,omitempty"`
}

// Order returns the effective axis order.
func (s AcquisitionSettings) Order() []Axis {
	if len(s.AxisOrder) == 0 {
		return CanonicalAxisOrder
	}
	return s.AxisOrder
}

// CheckOrder verifies that the axis order is a permutation of the four axes
// and that non-canonical channel/z nesting has explicit composition semantics.
func (s AcquisitionSettings) CheckOrder() error {
	order := s.Order()
	if len(order) != len(CanonicalAxisOrder) {
		return fmt.Errorf("axis order must list %d axes, got %d", len(CanonicalAxisOrder), len(order))
	}
	seen := make(map[Axis]int, len(order))
	for i, a := range order {
		if !a.Valid() {
			return fmt.Errorf("axis order[%d]: unknown axis %q", i, a)
		}
		if _, dup := seen[a]; dup {
			return fmt.Errorf("axis order[%d]: duplicate axis %q", i, a)
		}
		seen[a] = i
	}
	if seen[AxisZ] < seen[AxisChannel] && s.ZComposition != ZCompositionAdditive {
		return fmt.Errorf("axis order nests %q outside %q: set z_composition to %q to accept additive offsets",
			AxisZ, AxisChannel, ZCompositionAdditive)
	}
	if s.ZComposition != ZCompositionDefault && s.ZComposition != ZCompositionAdditive {
		return fmt.Errorf("unknown z composition %q", s.ZComposition)
	}
	return nil
}

// AxisLength returns the number of values axis contributes per outer context
// and whether the axis takes part in the stream at all. Grid positions are
// counted from the grid spec.
func (s AcquisitionSettings) AxisLength(axis Axis) (n int, present bool) {
	switch axis {
	case AxisTime:
		if s.Time == nil {
			return 1, false
		}
		return max(s.Time.Frames, 0), true
	case AxisPosition:
		if len(s.Positions) > 0 {
			return len(s.Positions), true
		}
		if s.Grid != nil {
			return s.Grid.TileCount(), true
		}
		return 1, false
	case AxisChannel:
		if len(s.Channels) == 0 {
			return 1, false
		}
		return len(s.Channels), true
	case AxisZ:
		if s.Z == nil {
			return 1, false
		}
		return s.Z.Slices(), true
	}
	return 0, false
}

// ExpectedEvents returns the product of all axis lengths.
func (s AcquisitionSettings) ExpectedEvents() int {
	total := 1
	for _, a := range CanonicalAxisOrder {
		n, _ := s.AxisLength(a)
		total *= n
	}
	return total
}

// EmptyAxes lists the present axes that would yield no values, in canonical
// order.
func (s AcquisitionSettings) EmptyAxes() []Axis {
	var empty []Axis
	for _, a := range CanonicalAxisOrder {
		if n, present := s.AxisLength(a); present && n == 0 {
			empty = append(empty, a)
		}
	}
	return empty
}
