package engine

import (
	"context"
	"fmt"

	"github.com/roach88/mdaq/internal/ir"
	"github.com/roach88/mdaq/internal/tiling"
)

// Plan composes the event stream for settings without driving it.
//
// Positions come from settings.Positions, or from a tile grid built with
// geo when only settings.Grid is set. geo may be nil when no grid is
// needed. clock feeds the time axis.
func Plan(ctx context.Context, settings ir.AcquisitionSettings, geo tiling.GeometryProvider, clock Clock) (*Stream, error) {
	if err := settings.CheckOrder(); err != nil {
		return nil, NewConfigurationError("invalid axis order", err)
	}
	positions, err := ResolvePositions(ctx, settings, geo)
	if err != nil {
		return nil, err
	}
	factories, err := Factories(settings, positions, clock)
	if err != nil {
		return nil, err
	}
	return Compose(ir.NewEvent(), factories...), nil
}

// ResolvePositions returns the position list for settings, building the
// tile grid if required.
func ResolvePositions(ctx context.Context, settings ir.AcquisitionSettings, geo tiling.GeometryProvider) ([]ir.XYStagePosition, error) {
	if len(settings.Positions) > 0 {
		return settings.Positions, nil
	}
	if settings.Grid == nil {
		return nil, nil
	}
	if geo == nil {
		return nil, NewConfigurationError("tile grid requires a geometry provider", nil)
	}
	positions, err := tiling.BuildGrid(ctx, geo, *settings.Grid)
	if err != nil {
		return nil, NewConfigurationError("build tile grid", err)
	}
	return positions, nil
}

// Factories builds the axis factories for settings in nesting order.
//
// Absent axes (nil Time, no Channels, nil Z) are left out. The position axis
// is always included; with no positions it passes events through.
func Factories(settings ir.AcquisitionSettings, positions []ir.XYStagePosition, clock Clock) ([]Factory, error) {
	var factories []Factory
	for _, axis := range settings.Order() {
		switch axis {
		case ir.AxisTime:
			if settings.Time == nil {
				continue
			}
			if clock == nil {
				return nil, NewConfigurationError("time axis requires a clock", nil)
			}
			factories = append(factories, TimeAxis{
				Frames:     settings.Time.Frames,
				IntervalMs: settings.Time.IntervalMs,
				Clock:      clock,
			})
		case ir.AxisPosition:
			factories = append(factories, PositionAxis{Positions: positions})
		case ir.AxisChannel:
			if len(settings.Channels) == 0 {
				continue
			}
			factories = append(factories, ChannelAxis{Channels: settings.Channels})
		case ir.AxisZ:
			if settings.Z == nil {
				continue
			}
			factories = append(factories, ZStackAxis{
				Start:    settings.Z.Start,
				Stop:     settings.Z.Stop,
				StepUm:   settings.Z.StepUm,
				OriginUm: settings.Z.OriginUm,
			})
		default:
			return nil, NewConfigurationError(fmt.Sprintf("unknown axis %q", axis), nil)
		}
	}
	return factories, nil
}
