// Package tiling computes stage positions that cover a rectangular region
// with overlapping camera fields of view.
//
// The package never talks to hardware. Field size and the pixel→stage
// mapping come from a GeometryProvider injected by the caller; StaticGeometry
// is a provider built from a fixed camera description.
//
// Tiles are emitted in snake (boustrophedon) order: even columns run rows
// top to bottom, odd columns bottom to top, so consecutive tiles are always
// one row or one column step apart.
package tiling
