package ir

import "maps"

// Axis names one independent dimension of iteration.
type Axis string

const (
	AxisTime     Axis = "time"
	AxisPosition Axis = "position"
	AxisChannel  Axis = "channel"
	AxisZ        Axis = "z"
)

// CanonicalAxisOrder is the default outer-to-inner nesting.
//
// Channel offsets compose with the z-stack additively in this order; any
// order that puts AxisZ outside AxisChannel must opt in explicitly (see
// AcquisitionSettings.ZComposition).
var CanonicalAxisOrder = []Axis{AxisTime, AxisPosition, AxisChannel, AxisZ}

// Valid reports whether a is one of the four known axes.
func (a Axis) Valid() bool {
	switch a {
	case AxisTime, AxisPosition, AxisChannel, AxisZ:
		return true
	}
	return false
}

// Point is an (x, y) coordinate in stage units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Event is one planned capture: a complete, self-contained instruction for
// exactly one image.
//
// Events are created by copying a template and are never mutated after being
// yielded downstream. Use Derive or the With* helpers to build a new value.
type Event struct {
	// AxisPositions maps axis name to the index yielded by that axis.
	// All events of one stream carry the same key set.
	AxisPositions map[Axis]int `json:"axis_positions"`

	StageXY *Point `json:"stage_xy,omitempty"`

	ZIndex      *int     `json:"z_index,omitempty"`
	ZPositionUm *float64 `json:"z_position_um,omitempty"`

	ChannelGroup  string   `json:"channel_group,omitempty"`
	ChannelConfig string   `json:"channel_config,omitempty"`
	ExposureMs    *float64 `json:"exposure_ms,omitempty"`

	// MinimumStartTimeMs is the earliest permissible start, in milliseconds
	// since the stream-local epoch. Nil means as soon as possible.
	MinimumStartTimeMs *int64 `json:"minimum_start_time_ms,omitempty"`

	GridRow       *int   `json:"grid_row,omitempty"`
	GridCol       *int   `json:"grid_col,omitempty"`
	PositionLabel string `json:"position_label,omitempty"`
}

// NewEvent returns an empty template event with an initialized axis map.
func NewEvent() Event {
	return Event{AxisPositions: map[Axis]int{}}
}

// Derive returns a copy of e that shares no mutable state with it.
//
// Pointer fields are shared, which is safe because no code writes through
// them: axes replace a pointer, they never assign to *ptr.
func (e Event) Derive() Event {
	d := e
	d.AxisPositions = maps.Clone(e.AxisPositions)
	if d.AxisPositions == nil {
		d.AxisPositions = map[Axis]int{}
	}
	return d
}

// WithAxis returns a copy of e with axis set to index.
func (e Event) WithAxis(axis Axis, index int) Event {
	d := e.Derive()
	d.AxisPositions[axis] = index
	return d
}

// Index returns the index for axis and whether the axis is present.
func (e Event) Index(axis Axis) (int, bool) {
	i, ok := e.AxisPositions[axis]
	return i, ok
}

// ZBaseUm returns the z contribution already carried by e, or 0 if unset.
func (e Event) ZBaseUm() float64 {
	if e.ZPositionUm == nil {
		return 0
	}
	return *e.ZPositionUm
}

// CanonicalMap converts e to the map form consumed by MarshalCanonical.
// Unset optional fields are omitted.
func (e Event) CanonicalMap() map[string]any {
	m := e.identityMap()
	if e.MinimumStartTimeMs != nil {
		m["minimum_start_time_ms"] = *e.MinimumStartTimeMs
	}
	return m
}

// identityMap is CanonicalMap without the schedule.
func (e Event) identityMap() map[string]any {
	axes := make(map[string]any, len(e.AxisPositions))
	for k, v := range e.AxisPositions {
		axes[string(k)] = v
	}
	m := map[string]any{"axis_positions": axes}

	if e.StageXY != nil {
		m["stage_xy"] = map[string]any{"x": e.StageXY.X, "y": e.StageXY.Y}
	}
	if e.ZIndex != nil {
		m["z_index"] = *e.ZIndex
	}
	if e.ZPositionUm != nil {
		m["z_position_um"] = *e.ZPositionUm
	}
	if e.ChannelGroup != "" {
		m["channel_group"] = e.ChannelGroup
	}
	if e.ChannelConfig != "" {
		m["channel_config"] = e.ChannelConfig
	}
	if e.ExposureMs != nil {
		m["exposure_ms"] = *e.ExposureMs
	}
	if e.GridRow != nil {
		m["grid_row"] = *e.GridRow
	}
	if e.GridCol != nil {
		m["grid_col"] = *e.GridCol
	}
	if e.PositionLabel != "" {
		m["position_label"] = e.PositionLabel
	}
	return m
}

// Ptr returns a pointer to a copy of v.
func Ptr[T any](v T) *T {
	return &v
}
