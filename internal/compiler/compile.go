package compiler

import (
	"cuelang.org/go/cue"

	"github.com/roach88/mdaq/internal/ir"
	"github.com/roach88/mdaq/internal/tiling"
)

// Result is a compiled settings document.
type Result struct {
	Settings ir.AcquisitionSettings

	// Geometry is built from the camera block, nil without one.
	Geometry *tiling.StaticGeometry
}

// Compile validates doc and converts it to settings.
// Returns ValidationErrors (as error) if the document is invalid.
func Compile(doc *Document) (*Result, error) {
	if errs := Validate(doc); len(errs) > 0 {
		return nil, errs
	}

	s := ir.AcquisitionSettings{
		Name:         doc.Name,
		AxisOrder:    toAxes(doc.AxisOrder),
		ZComposition: ir.ZComposition(doc.ZComposition),
	}
	if doc.Time != nil {
		s.Time = &ir.TimeLapse{Frames: doc.Time.Frames, IntervalMs: doc.Time.IntervalMs}
	}
	for _, p := range doc.Positions {
		s.Positions = append(s.Positions, ir.XYStagePosition{
			Center:  ir.Point{X: p.X, Y: p.Y},
			GridRow: p.GridRow,
			GridCol: p.GridCol,
			Label:   p.Label,
		})
	}
	if doc.Grid != nil {
		s.Grid = &ir.TileGridSpec{
			CenterX:         doc.Grid.CenterX,
			CenterY:         doc.Grid.CenterY,
			OverlapFraction: doc.Grid.OverlapFraction,
			NumRows:         doc.Grid.NumRows,
			NumCols:         doc.Grid.NumCols,
		}
	}
	for _, c := range doc.Channels {
		if c.Use != nil && !*c.Use {
			continue
		}
		s.Channels = append(s.Channels, ir.Channel{
			Group:      c.Group,
			Config:     c.Config,
			ExposureMs: c.ExposureMs,
			ZOffsetUm:  c.ZOffsetUm,
		})
	}
	if doc.Z != nil {
		s.Z = &ir.ZRange{
			Start:    doc.Z.Start,
			Stop:     doc.Z.Stop,
			StepUm:   doc.Z.StepUm,
			OriginUm: doc.Z.OriginUm,
		}
	}

	res := &Result{Settings: s}
	if cam := doc.Camera; cam != nil {
		res.Geometry = &tiling.StaticGeometry{
			WidthPx:     cam.WidthPx,
			HeightPx:    cam.HeightPx,
			PixelSizeUm: cam.PixelSizeUm,
			RotationDeg: cam.RotationDeg,
			FlipX:       cam.FlipX,
			FlipY:       cam.FlipY,
		}
	}
	return res, nil
}

// Load reads, validates and compiles a settings file.
func Load(path string) (*Result, error) {
	doc, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return Compile(doc)
}

// CompileSettings compiles a CUE value that is already loaded, such as a
// field of a larger CUE configuration.
func CompileSettings(v cue.Value) (*Result, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	doc, err := decodeCUE(v)
	if err != nil {
		return nil, err
	}
	return Compile(doc)
}

// GeometryProvider returns the result's geometry as a provider, or nil.
// A nil *StaticGeometry must not be handed to the engine as a non-nil
// interface.
func (r *Result) GeometryProvider() tiling.GeometryProvider {
	if r.Geometry == nil {
		return nil
	}
	return *r.Geometry
}
