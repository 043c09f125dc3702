package tiling

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// GeometryProvider answers the two questions the grid builder needs about
// the optical setup. Implementations may query hardware; callers treat any
// error as a configuration failure and never retry.
type GeometryProvider interface {
	// TileSize returns the full camera field in pixels.
	TileSize(ctx context.Context) (width, height int, err error)

	// AffineTransform returns the pixel→stage mapping for a field centered on
	// the stage point (centerX, centerY).
	AffineTransform(ctx context.Context, centerX, centerY float64) (Affine, error)
}

// ErrGeometryUnavailable is wrapped by StaticGeometry when its description
// cannot answer a query.
var ErrGeometryUnavailable = errors.New("geometry unavailable")

// StaticGeometry is a GeometryProvider backed by a fixed camera description.
type StaticGeometry struct {
	WidthPx     int     `json:"width_px"`
	HeightPx    int     `json:"height_px"`
	PixelSizeUm float64 `json:"pixel_size_um"`
	RotationDeg float64 `json:"rotation_deg,omitempty"`
	FlipX       bool    `json:"flip_x,omitempty"`
	FlipY       bool    `json:"flip_y,omitempty"`
}

// TileSize implements GeometryProvider.
func (g StaticGeometry) TileSize(context.Context) (int, int, error) {
	if g.WidthPx <= 0 || g.HeightPx <= 0 {
		return 0, 0, fmt.Errorf("%w: camera size %dx%d", ErrGeometryUnavailable, g.WidthPx, g.HeightPx)
	}
	return g.WidthPx, g.HeightPx, nil
}

// AffineTransform implements GeometryProvider. Flips negate the matching
// pixel axis before rotation.
func (g StaticGeometry) AffineTransform(_ context.Context, centerX, centerY float64) (Affine, error) {
	if g.PixelSizeUm <= 0 || math.IsNaN(g.PixelSizeUm) || math.IsInf(g.PixelSizeUm, 0) {
		return Affine{}, fmt.Errorf("%w: pixel size %v", ErrGeometryUnavailable, g.PixelSizeUm)
	}
	theta := g.RotationDeg * math.Pi / 180
	cos, sin := math.Cos(theta), math.Sin(theta)

	sx, sy := g.PixelSizeUm, g.PixelSizeUm
	if g.FlipX {
		sx = -sx
	}
	if g.FlipY {
		sy = -sy
	}

	return Affine{
		A:  sx * cos,
		B:  -sy * sin,
		C:  sx * sin,
		D:  sy * cos,
		Tx: centerX,
		Ty: centerY,
	}, nil
}
