package tiling

import (
	"errors"
	"math"

	"github.com/roach88/mdaq/internal/ir"
)

// ErrSingularTransform is returned when an affine transform has no inverse.
var ErrSingularTransform = errors.New("affine transform is singular")

// Affine maps pixel offsets to stage coordinates:
//
//	x = A*px + B*py + Tx
//	y = C*px + D*py + Ty
type Affine struct {
	A, B, C, D float64
	Tx, Ty     float64
}

// Apply maps the pixel offset (px, py) to stage coordinates.
func (t Affine) Apply(px, py float64) ir.Point {
	return ir.Point{
		X: t.A*px + t.B*py + t.Tx,
		Y: t.C*px + t.D*py + t.Ty,
	}
}

// Invert returns the stage→pixel transform.
func (t Affine) Invert() (Affine, error) {
	det := t.A*t.D - t.B*t.C
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return Affine{}, ErrSingularTransform
	}
	inv := Affine{
		A: t.D / det,
		B: -t.B / det,
		C: -t.C / det,
		D: t.A / det,
	}
	inv.Tx = -(inv.A*t.Tx + inv.B*t.Ty)
	inv.Ty = -(inv.C*t.Tx + inv.D*t.Ty)
	return inv, nil
}
