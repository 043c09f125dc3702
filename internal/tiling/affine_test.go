package tiling

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAffine_InvertRoundTrip(t *testing.T) {
	geo := StaticGeometry{WidthPx: 100, HeightPx: 100, PixelSizeUm: 0.65, RotationDeg: 17, FlipY: true}
	fwd, err := geo.AffineTransform(context.Background(), 300, -40)
	require.NoError(t, err)

	inv, err := fwd.Invert()
	require.NoError(t, err)

	stage := fwd.Apply(12, -30)
	back := inv.Apply(stage.X, stage.Y)
	assert.InDelta(t, 12, back.X, 1e-9)
	assert.InDelta(t, -30, back.Y, 1e-9)
}

func TestAffine_InvertSingular(t *testing.T) {
	_, err := Affine{A: 1, B: 2, C: 2, D: 4}.Invert()
	assert.ErrorIs(t, err, ErrSingularTransform)
}

func TestStaticGeometry_Flips(t *testing.T) {
	geo := StaticGeometry{WidthPx: 10, HeightPx: 10, PixelSizeUm: 1, FlipX: true}
	tr, err := geo.AffineTransform(context.Background(), 0, 0)
	require.NoError(t, err)

	p := tr.Apply(5, 3)
	assert.InDelta(t, -5, p.X, 1e-12)
	assert.InDelta(t, 3, p.Y, 1e-12)
}
