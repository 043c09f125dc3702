package compiler

// Document is the on-disk form of acquisition settings, shared by the CUE
// and YAML loaders. Field names are the same in both formats.
type Document struct {
	Name         string        `json:"name" yaml:"name" validate:"required"`
	Time         *TimeDoc      `json:"time,omitempty" yaml:"time,omitempty"`
	Positions    []PositionDoc `json:"positions,omitempty" yaml:"positions,omitempty" validate:"dive"`
	Grid         *GridDoc      `json:"grid,omitempty" yaml:"grid,omitempty"`
	Channels     []ChannelDoc  `json:"channels,omitempty" yaml:"channels,omitempty" validate:"dive"`
	Z            *ZDoc         `json:"z,omitempty" yaml:"z,omitempty"`
	AxisOrder    []string      `json:"axis_order,omitempty" yaml:"axis_order,omitempty" validate:"omitempty,len=4,unique,dive,oneof=time position channel z"`
	ZComposition string        `json:"z_composition,omitempty" yaml:"z_composition,omitempty" validate:"omitempty,oneof=additive"`
	Camera       *CameraDoc    `json:"camera,omitempty" yaml:"camera,omitempty"`
}

// TimeDoc configures the time axis.
type TimeDoc struct {
	Frames     int   `json:"frames" yaml:"frames" validate:"gte=0"`
	IntervalMs int64 `json:"interval_ms,omitempty" yaml:"interval_ms,omitempty" validate:"gte=0"`
}

// PositionDoc is one explicit stage position.
type PositionDoc struct {
	X       float64 `json:"x" yaml:"x"`
	Y       float64 `json:"y" yaml:"y"`
	Label   string  `json:"label,omitempty" yaml:"label,omitempty"`
	GridRow *int    `json:"grid_row,omitempty" yaml:"grid_row,omitempty" validate:"omitempty,gte=0"`
	GridCol *int    `json:"grid_col,omitempty" yaml:"grid_col,omitempty" validate:"omitempty,gte=0"`
}

// GridDoc describes a tile grid around a center point.
type GridDoc struct {
	CenterX         float64 `json:"center_x,omitempty" yaml:"center_x,omitempty"`
	CenterY         float64 `json:"center_y,omitempty" yaml:"center_y,omitempty"`
	OverlapFraction float64 `json:"overlap_fraction,omitempty" yaml:"overlap_fraction,omitempty" validate:"gte=0,lt=1"`
	NumRows         int     `json:"num_rows" yaml:"num_rows" validate:"gte=1"`
	NumCols         int     `json:"num_cols" yaml:"num_cols" validate:"gte=1"`
}

// ChannelDoc is one channel. Channels with use: false are dropped.
type ChannelDoc struct {
	Group      string   `json:"group,omitempty" yaml:"group,omitempty"`
	Config     string   `json:"config" yaml:"config" validate:"required"`
	ExposureMs *float64 `json:"exposure_ms,omitempty" yaml:"exposure_ms,omitempty" validate:"omitempty,gt=0"`
	ZOffsetUm  float64  `json:"z_offset_um,omitempty" yaml:"z_offset_um,omitempty"`
	Use        *bool    `json:"use,omitempty" yaml:"use,omitempty"`
}

// ZDoc configures the z-stack axis over slices [start, stop).
type ZDoc struct {
	Start    int     `json:"start,omitempty" yaml:"start,omitempty"`
	Stop     int     `json:"stop" yaml:"stop" validate:"gtefield=Start"`
	StepUm   float64 `json:"step_um" yaml:"step_um"`
	OriginUm float64 `json:"origin_um,omitempty" yaml:"origin_um,omitempty"`
}

// CameraDoc describes the camera field used to build tile grids.
type CameraDoc struct {
	WidthPx     int     `json:"width_px" yaml:"width_px" validate:"gt=0"`
	HeightPx    int     `json:"height_px" yaml:"height_px" validate:"gt=0"`
	PixelSizeUm float64 `json:"pixel_size_um" yaml:"pixel_size_um" validate:"gt=0"`
	RotationDeg float64 `json:"rotation_deg,omitempty" yaml:"rotation_deg,omitempty"`
	FlipX       bool    `json:"flip_x,omitempty" yaml:"flip_x,omitempty"`
	FlipY       bool    `json:"flip_y,omitempty" yaml:"flip_y,omitempty"`
}
