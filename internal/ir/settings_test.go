package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsOrderDefaultsToCanonical(t *testing.T) {
	assert.Equal(t, CanonicalAxisOrder, AcquisitionSettings{}.Order())

	custom := []Axis{AxisPosition, AxisTime, AxisChannel, AxisZ}
	assert.Equal(t, custom, AcquisitionSettings{AxisOrder: custom}.Order())
}

func TestSettingsCheckOrder(t *testing.T) {
	tests := []struct {
		name     string
		settings AcquisitionSettings
		wantErr  string
	}{
		{"canonical", AcquisitionSettings{}, ""},
		{"positions first", AcquisitionSettings{AxisOrder: []Axis{AxisPosition, AxisTime, AxisChannel, AxisZ}}, ""},
		{"too short", AcquisitionSettings{AxisOrder: []Axis{AxisTime}}, "must list 4 axes"},
		{"unknown", AcquisitionSettings{AxisOrder: []Axis{AxisTime, AxisPosition, AxisChannel, "lambda"}}, "unknown axis"},
		{"duplicate", AcquisitionSettings{AxisOrder: []Axis{AxisTime, AxisTime, AxisChannel, AxisZ}}, "duplicate axis"},
		{
			"z outside channel without opt-in",
			AcquisitionSettings{AxisOrder: []Axis{AxisTime, AxisPosition, AxisZ, AxisChannel}},
			"z_composition",
		},
		{
			"z outside channel with opt-in",
			AcquisitionSettings{
				AxisOrder:    []Axis{AxisTime, AxisPosition, AxisZ, AxisChannel},
				ZComposition: ZCompositionAdditive,
			},
			"",
		},
		{"bad composition", AcquisitionSettings{ZComposition: "override"}, "unknown z composition"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.CheckOrder()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSettingsExpectedEvents(t *testing.T) {
	s := AcquisitionSettings{
		Time:      &TimeLapse{Frames: 3, IntervalMs: 100},
		Positions: []XYStagePosition{{}, {Center: Point{X: 1}}},
		Channels:  []Channel{{Config: "DAPI"}, {Config: "FITC"}},
		Z:         &ZRange{Start: 0, Stop: 5, StepUm: 1},
	}
	assert.Equal(t, 3*2*2*5, s.ExpectedEvents())
	assert.Empty(t, s.EmptyAxes())

	assert.Equal(t, 1, AcquisitionSettings{}.ExpectedEvents())
}

func TestSettingsGridCountsAsPositions(t *testing.T) {
	s := AcquisitionSettings{Grid: &TileGridSpec{NumRows: 2, NumCols: 3}}
	n, present := s.AxisLength(AxisPosition)
	assert.True(t, present)
	assert.Equal(t, 6, n)
}

func TestSettingsEmptyAxes(t *testing.T) {
	s := AcquisitionSettings{
		Time: &TimeLapse{Frames: 0},
		Z:    &ZRange{Start: 4, Stop: 2},
	}
	assert.Equal(t, []Axis{AxisTime, AxisZ}, s.EmptyAxes())
	assert.Equal(t, 0, s.ExpectedEvents())
}

func TestZRangeSlices(t *testing.T) {
	assert.Equal(t, 5, ZRange{Start: 0, Stop: 5}.Slices())
	assert.Equal(t, 0, ZRange{Start: 5, Stop: 5}.Slices())
	assert.Equal(t, 0, ZRange{Start: 6, Stop: 5}.Slices())
}
