package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mdaq/internal/ir"
	"github.com/roach88/mdaq/internal/testutil"
)

func drain(seq Sequence) []ir.Event {
	var out []ir.Event
	for {
		ev, ok := seq.Next()
		if !ok {
			return out
		}
		out = append(out, ev)
	}
}

func TestTimeAxis_Schedule(t *testing.T) {
	clock := testutil.NewManualClock(5000)
	events := drain(TimeAxis{Frames: 4, IntervalMs: 250, Clock: clock}.Sequence(ir.NewEvent()))

	require.Len(t, events, 4)
	for i, ev := range events {
		assert.Equal(t, i, ev.AxisPositions[ir.AxisTime])
		require.NotNil(t, ev.MinimumStartTimeMs)
		assert.Equal(t, int64(5000+250*i), *ev.MinimumStartTimeMs)
	}
}

func TestTimeAxis_ReadsClockOnFirstPullOnly(t *testing.T) {
	clock := testutil.NewManualClock(0)
	seq := TimeAxis{Frames: 3, IntervalMs: 100, Clock: clock}.Sequence(ir.NewEvent())
	assert.Equal(t, 0, clock.Reads(), "creating a sequence must not read the clock")

	clock.Set(1234)
	first, ok := seq.Next()
	require.True(t, ok)
	assert.Equal(t, int64(1234), *first.MinimumStartTimeMs)

	// The consumer lags far behind; the schedule stays a fixed lower bound.
	clock.Advance(10_000)
	second, ok := seq.Next()
	require.True(t, ok)
	assert.Equal(t, int64(1334), *second.MinimumStartTimeMs)
	assert.Equal(t, 1, clock.Reads())
}

func TestTimeAxis_NoIntervalLeavesLaterFramesUnconstrained(t *testing.T) {
	clock := testutil.NewManualClock(42)
	template := ir.NewEvent()
	template.MinimumStartTimeMs = ir.Ptr(int64(7))

	events := drain(TimeAxis{Frames: 3, IntervalMs: 0, Clock: clock}.Sequence(template))
	require.Len(t, events, 3)
	assert.Equal(t, int64(42), *events[0].MinimumStartTimeMs)
	assert.Nil(t, events[1].MinimumStartTimeMs)
	assert.Nil(t, events[2].MinimumStartTimeMs)
	assert.Equal(t, int64(7), *template.MinimumStartTimeMs, "template untouched")
}

func TestTimeAxis_ZeroFrames(t *testing.T) {
	clock := testutil.NewManualClock(0)
	assert.Empty(t, drain(TimeAxis{Frames: 0, Clock: clock}.Sequence(ir.NewEvent())))
	assert.Equal(t, 0, clock.Reads())
}

func TestTimeAxis_NotRestartable(t *testing.T) {
	seq := TimeAxis{Frames: 1, Clock: testutil.NewManualClock(0)}.Sequence(ir.NewEvent())
	_, ok := seq.Next()
	require.True(t, ok)
	_, ok = seq.Next()
	assert.False(t, ok)
	_, ok = seq.Next()
	assert.False(t, ok)
}

func TestPositionAxis_EmptyPassesTemplateThrough(t *testing.T) {
	template := ir.NewEvent().WithAxis(ir.AxisTime, 3)
	events := drain(PositionAxis{}.Sequence(template))

	require.Len(t, events, 1)
	assert.Equal(t, template, events[0])
	_, hasPosition := events[0].Index(ir.AxisPosition)
	assert.False(t, hasPosition)
}

func TestPositionAxis_YieldsInListOrder(t *testing.T) {
	positions := []ir.XYStagePosition{
		{Center: ir.Point{X: 10, Y: 20}, Label: "A"},
		{Center: ir.Point{X: -5, Y: 0}, GridRow: ir.Ptr(1), GridCol: ir.Ptr(2), Label: "Grid_1_2"},
	}
	events := drain(PositionAxis{Positions: positions}.Sequence(ir.NewEvent()))

	require.Len(t, events, 2)
	assert.Equal(t, 0, events[0].AxisPositions[ir.AxisPosition])
	assert.Equal(t, ir.Point{X: 10, Y: 20}, *events[0].StageXY)
	assert.Nil(t, events[0].GridRow)
	assert.Equal(t, "A", events[0].PositionLabel)

	assert.Equal(t, 1, events[1].AxisPositions[ir.AxisPosition])
	assert.Equal(t, 1, *events[1].GridRow)
	assert.Equal(t, 2, *events[1].GridCol)

	// Events must not alias the settings' position list.
	*events[1].GridRow = 99
	assert.Equal(t, 1, *positions[1].GridRow)
}

func TestChannelAxis_SetsChannelAndAddsOffset(t *testing.T) {
	channels := []ir.Channel{
		{Group: "Channel", Config: "DAPI", ExposureMs: ir.Ptr(20.0)},
		{Group: "Channel", Config: "FITC", ZOffsetUm: 2},
	}
	template := ir.NewEvent()
	template.ZPositionUm = ir.Ptr(10.0)

	events := drain(ChannelAxis{Channels: channels}.Sequence(template))
	require.Len(t, events, 2)

	assert.Equal(t, "DAPI", events[0].ChannelConfig)
	assert.Equal(t, 20.0, *events[0].ExposureMs)
	assert.Equal(t, 10.0, *events[0].ZPositionUm, "zero offset leaves z alone")

	assert.Equal(t, "FITC", events[1].ChannelConfig)
	assert.Equal(t, 1, events[1].AxisPositions[ir.AxisChannel])
	assert.Equal(t, 12.0, *events[1].ZPositionUm)
	assert.Equal(t, 10.0, *template.ZPositionUm)
}

func TestChannelAxis_OffsetOnUnsetZ(t *testing.T) {
	events := drain(ChannelAxis{Channels: []ir.Channel{{Config: "A"}, {Config: "B", ZOffsetUm: -1.5}}}.Sequence(ir.NewEvent()))
	require.Len(t, events, 2)
	assert.Nil(t, events[0].ZPositionUm)
	assert.Equal(t, -1.5, *events[1].ZPositionUm)
}

func TestZStackAxis_Positions(t *testing.T) {
	events := drain(ZStackAxis{Start: 0, Stop: 5, StepUm: 0.5, OriginUm: 10}.Sequence(ir.NewEvent()))

	require.Len(t, events, 5)
	for k, ev := range events {
		assert.Equal(t, k, *ev.ZIndex)
		assert.Equal(t, k, ev.AxisPositions[ir.AxisZ])
		assert.Equal(t, 10.0+float64(k)*0.5, *ev.ZPositionUm)
		if k > 0 {
			assert.Greater(t, *ev.ZPositionUm, *events[k-1].ZPositionUm)
		}
	}
}

func TestZStackAxis_NonZeroStart(t *testing.T) {
	events := drain(ZStackAxis{Start: 2, Stop: 4, StepUm: 1, OriginUm: 0}.Sequence(ir.NewEvent()))
	require.Len(t, events, 2)
	assert.Equal(t, 2, *events[0].ZIndex)
	assert.Equal(t, 2, events[0].AxisPositions[ir.AxisZ])
	assert.Equal(t, 3, events[1].AxisPositions[ir.AxisZ])
	assert.Equal(t, 2.0, *events[0].ZPositionUm)
	assert.Equal(t, 3.0, *events[1].ZPositionUm)
}

func TestZStackAxis_EmptyRange(t *testing.T) {
	assert.Empty(t, drain(ZStackAxis{Start: 3, Stop: 3}.Sequence(ir.NewEvent())))
	assert.Empty(t, drain(ZStackAxis{Start: 4, Stop: 1}.Sequence(ir.NewEvent())))
}

func TestZStackAxis_AddsToChannelBase(t *testing.T) {
	template := ir.NewEvent()
	template.ZPositionUm = ir.Ptr(2.0)
	events := drain(ZStackAxis{Start: 0, Stop: 1, StepUm: 0.5, OriginUm: 10}.Sequence(template))
	require.Len(t, events, 1)
	assert.Equal(t, 12.0, *events[0].ZPositionUm)
}
