package tiling

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/roach88/mdaq/internal/ir"
)

// ErrInvalidGrid is wrapped by BuildGrid when the grid layout itself is unusable.
var ErrInvalidGrid = errors.New("invalid tile grid")

// BuildGrid returns NumRows*NumCols stage positions covering the region
// described by spec, in snake order.
//
// The geometry provider is queried once for the tile size and once for the
// affine transform. Any provider error is returned immediately.
func BuildGrid(ctx context.Context, geo GeometryProvider, spec ir.TileGridSpec) ([]ir.XYStagePosition, error) {
	if err := checkSpec(spec); err != nil {
		return nil, err
	}

	width, height, err := geo.TileSize(ctx)
	if err != nil {
		return nil, fmt.Errorf("tile size: %w", err)
	}
	transform, err := geo.AffineTransform(ctx, spec.CenterX, spec.CenterY)
	if err != nil {
		return nil, fmt.Errorf("affine transform: %w", err)
	}

	strideX := float64(width) - float64(width)*spec.OverlapFraction
	strideY := float64(height) - float64(height)*spec.OverlapFraction
	midCol := float64(spec.NumCols-1) / 2
	midRow := float64(spec.NumRows-1) / 2

	positions := make([]ir.XYStagePosition, 0, spec.TileCount())
	for col := 0; col < spec.NumCols; col++ {
		pixelOffsetX := (float64(col) - midCol) * strideX
		for i := 0; i < spec.NumRows; i++ {
			row := i
			if col%2 == 1 {
				row = spec.NumRows - 1 - i
			}
			pixelOffsetY := (float64(row) - midRow) * strideY
			positions = append(positions, ir.XYStagePosition{
				Center:  transform.Apply(pixelOffsetX, pixelOffsetY),
				GridRow: ir.Ptr(row),
				GridCol: ir.Ptr(col),
				Label:   TileLabel(row, col),
			})
		}
	}
	return positions, nil
}

// TileLabel is the label given to the tile at (row, col).
func TileLabel(row, col int) string {
	return fmt.Sprintf("Grid_%d_%d", row, col)
}

func checkSpec(spec ir.TileGridSpec) error {
	if spec.NumRows < 1 || spec.NumCols < 1 {
		return fmt.Errorf("%w: %dx%d tiles", ErrInvalidGrid, spec.NumRows, spec.NumCols)
	}
	if spec.OverlapFraction < 0 || spec.OverlapFraction >= 1 || math.IsNaN(spec.OverlapFraction) {
		return fmt.Errorf("%w: overlap fraction %v outside [0, 1)", ErrInvalidGrid, spec.OverlapFraction)
	}
	for _, v := range []float64{spec.CenterX, spec.CenterY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite center (%v, %v)", ErrInvalidGrid, spec.CenterX, spec.CenterY)
		}
	}
	return nil
}
