package compiler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDoc() *Document {
	return &Document{
		Name:     "ok",
		Time:     &TimeDoc{Frames: 2, IntervalMs: 100},
		Channels: []ChannelDoc{{Group: "Channel", Config: "DAPI"}},
		Z:        &ZDoc{Start: 0, Stop: 3, StepUm: 1},
	}
}

func TestValidate_Valid(t *testing.T) {
	assert.Empty(t, Validate(validDoc()))
}

func TestValidate_Codes(t *testing.T) {
	neg := -1
	tests := []struct {
		name  string
		edit  func(d *Document)
		field string
		code  string
	}{
		{"missing name", func(d *Document) { d.Name = "" }, "name", ErrRequired},
		{"missing channel config", func(d *Document) { d.Channels[0].Config = "" }, "channels[0].config", ErrRequired},
		{"negative frames", func(d *Document) { d.Time.Frames = -1 }, "time.frames", ErrOutOfRange},
		{"negative interval", func(d *Document) { d.Time.IntervalMs = -5 }, "time.interval_ms", ErrOutOfRange},
		{"z stop below start", func(d *Document) { d.Z.Start, d.Z.Stop = 4, 2 }, "z.stop", ErrOutOfRange},
		{"zero exposure", func(d *Document) { d.Channels[0].ExposureMs = new(float64) }, "channels[0].exposure_ms", ErrOutOfRange},
		{"negative grid row", func(d *Document) { d.Positions = []PositionDoc{{GridRow: &neg}} }, "positions[0].grid_row", ErrOutOfRange},
		{"overlap of one", func(d *Document) {
			d.Grid = &GridDoc{OverlapFraction: 1, NumRows: 1, NumCols: 1}
			d.Camera = &CameraDoc{WidthPx: 1, HeightPx: 1, PixelSizeUm: 1}
		}, "grid.overlap_fraction", ErrOutOfRange},
		{"camera without pixel size", func(d *Document) {
			d.Camera = &CameraDoc{WidthPx: 10, HeightPx: 10}
		}, "camera.pixel_size_um", ErrOutOfRange},
		{"short axis order", func(d *Document) { d.AxisOrder = []string{"time", "z"} }, "axis_order", ErrInvalidAxisOrder},
		{"unknown axis", func(d *Document) { d.AxisOrder = []string{"time", "position", "channel", "lambda"} }, "axis_order[3]", ErrInvalidAxisOrder},
		{"repeated axis", func(d *Document) { d.AxisOrder = []string{"time", "time", "channel", "z"} }, "axis_order", ErrInvalidAxisOrder},
		{"z outside channel", func(d *Document) { d.AxisOrder = []string{"time", "position", "z", "channel"} }, "axis_order", ErrInvalidAxisOrder},
		{"unknown composition", func(d *Document) { d.ZComposition = "replace" }, "z_composition", ErrInvalidValue},
		{"grid without camera", func(d *Document) { d.Grid = &GridDoc{NumRows: 2, NumCols: 2} }, "camera", ErrGridNeedsCamera},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validDoc()
			tt.edit(doc)

			errs := Validate(doc)
			require.NotEmpty(t, errs)
			found := false
			for _, e := range errs {
				if e.Field == tt.field && e.Code == tt.code {
					found = true
				}
			}
			assert.True(t, found, "want %s on %s, got %v", tt.code, tt.field, errs)
		})
	}
}

func TestValidate_ZOutsideChannelWithAdditive(t *testing.T) {
	doc := validDoc()
	doc.AxisOrder = []string{"time", "position", "z", "channel"}
	doc.ZComposition = "additive"
	assert.Empty(t, Validate(doc))
}

func TestValidate_GridWithPositionsNeedsNoCamera(t *testing.T) {
	doc := validDoc()
	doc.Grid = &GridDoc{NumRows: 2, NumCols: 2}
	doc.Positions = []PositionDoc{{X: 1, Y: 2}}
	assert.Empty(t, Validate(doc))
}

func TestValidate_CollectsAll(t *testing.T) {
	doc := validDoc()
	doc.Name = ""
	doc.Time.Frames = -1
	doc.Channels[0].Config = ""

	errs := Validate(doc)
	assert.Len(t, errs, 3)
}

func TestCompile_ReturnsValidationErrors(t *testing.T) {
	doc := validDoc()
	doc.Name = ""

	_, err := Compile(doc)
	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.True(t, verrs.HasCode(ErrRequired))
	assert.Contains(t, err.Error(), "[E201] name: name is required")
}

func TestValidationErrors_Empty(t *testing.T) {
	assert.Equal(t, "validation failed", ValidationErrors{}.Error())
}
