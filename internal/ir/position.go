package ir

// XYStagePosition is one physical stage location.
type XYStagePosition struct {
	Center  Point  `json:"center"`
	GridRow *int   `json:"grid_row,omitempty"`
	GridCol *int   `json:"grid_col,omitempty"`
	Label   string `json:"label,omitempty"`
}

// Equal reports whether p and o share the same center.
//
// The comparison is exact. Grid coordinates and labels are ignored.
func (p XYStagePosition) Equal(o XYStagePosition) bool {
	return p.Center.X == o.Center.X && p.Center.Y == o.Center.Y
}

// TileGridSpec describes a rectangular tiled region centered on a stage point.
type TileGridSpec struct {
	CenterX         float64 `json:"center_x"`
	CenterY         float64 `json:"center_y"`
	OverlapFraction float64 `json:"overlap_fraction"`
	NumRows         int     `json:"num_rows"`
	NumCols         int     `json:"num_cols"`
}

// TileCount returns the number of tiles the grid covers.
func (g TileGridSpec) TileCount() int {
	if g.NumRows <= 0 || g.NumCols <= 0 {
		return 0
	}
	return g.NumRows * g.NumCols
}
