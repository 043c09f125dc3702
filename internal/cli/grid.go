package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/mdaq/internal/engine"
	"github.com/roach88/mdaq/internal/ir"
)

// GridTile is one stage position as printed by the grid command.
type GridTile struct {
	Index int     `json:"index"`
	Label string  `json:"label,omitempty"`
	Row   *int    `json:"row,omitempty"`
	Col   *int    `json:"col,omitempty"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`

	// PixelX and PixelY are the tile center's offset from the grid center
	// in camera pixels. Only set for generated grids.
	PixelX *float64 `json:"pixel_x,omitempty"`
	PixelY *float64 `json:"pixel_y,omitempty"`
}

// GridOutput is the JSON payload of the grid command.
type GridOutput struct {
	Source string     `json:"source"` // "positions" | "grid"
	Tiles  []GridTile `json:"tiles"`
}

// NewGridCommand creates the grid command.
func NewGridCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grid <settings>",
		Short: "Print the stage positions a settings file visits",
		Long: `Resolve the position axis of a settings file and print it in
visiting order.

An explicit position list is printed as is. A tile grid is generated from
the camera block in snake order, with each tile's pixel offset from the
grid center.

Examples:
  mdaq grid ./overview.cue
  mdaq grid ./overview.cue --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGrid(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runGrid(opts *RootOptions, path string, cmd *cobra.Command) error {
	res, err := loadSettings(path)
	if err != nil {
		return err
	}
	settings := res.Settings
	if len(settings.Positions) == 0 && settings.Grid == nil {
		return NewExitError(ExitFailure, "settings define neither positions nor a grid")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	geo := res.GeometryProvider()
	positions, err := engine.ResolvePositions(ctx, settings, geo)
	if err != nil {
		return WrapExitError(ExitFailure, "resolve positions", err)
	}

	out := GridOutput{Source: "positions", Tiles: make([]GridTile, len(positions))}
	for i, p := range positions {
		out.Tiles[i] = GridTile{Index: i, Label: p.Label, Row: p.GridRow, Col: p.GridCol, X: p.Center.X, Y: p.Center.Y}
	}

	if len(settings.Positions) == 0 {
		out.Source = "grid"
		transform, err := geo.AffineTransform(ctx, settings.Grid.CenterX, settings.Grid.CenterY)
		if err != nil {
			return WrapExitError(ExitFailure, "affine transform", err)
		}
		toPixels, err := transform.Invert()
		if err != nil {
			return WrapExitError(ExitFailure, "invert affine transform", err)
		}
		for i := range out.Tiles {
			px := toPixels.Apply(out.Tiles[i].X, out.Tiles[i].Y)
			out.Tiles[i].PixelX = ir.Ptr(px.X)
			out.Tiles[i].PixelY = ir.Ptr(px.Y)
		}
	}

	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		return formatter.Success(out)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%d position(s) from %s\n", len(out.Tiles), out.Source)
	for _, t := range out.Tiles {
		line := fmt.Sprintf("%4d  (%g, %g)", t.Index, t.X, t.Y)
		if t.Label != "" {
			line += "  " + t.Label
		}
		if t.PixelX != nil {
			line += fmt.Sprintf("  px=(%.1f, %.1f)", *t.PixelX, *t.PixelY)
		}
		fmt.Fprintln(w, line)
	}
	return nil
}
