package sink

import (
	"context"
	"log/slog"

	"github.com/roach88/mdaq/internal/engine"
	"github.com/roach88/mdaq/internal/ir"
)

// Logging writes one log record per event and forwards it to next, if any.
type Logging struct {
	next   engine.Sink
	logger *slog.Logger
	level  slog.Level
	count  int
}

// NewLogging creates a Logging sink. next may be nil.
func NewLogging(next engine.Sink, logger *slog.Logger, level slog.Level) *Logging {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logging{next: next, logger: logger, level: level}
}

// Accept implements engine.Sink.
func (l *Logging) Accept(ctx context.Context, ev ir.Event) error {
	l.logger.LogAttrs(ctx, l.level, "acquisition event", eventAttrs(l.count, ev)...)
	l.count++
	if l.next == nil {
		return nil
	}
	return l.next.Accept(ctx, ev)
}

func eventAttrs(index int, ev ir.Event) []slog.Attr {
	attrs := []slog.Attr{slog.Int("index", index)}
	for _, axis := range ir.CanonicalAxisOrder {
		if i, ok := ev.Index(axis); ok {
			attrs = append(attrs, slog.Int(string(axis), i))
		}
	}
	if ev.StageXY != nil {
		attrs = append(attrs, slog.Float64("x", ev.StageXY.X), slog.Float64("y", ev.StageXY.Y))
	}
	if ev.PositionLabel != "" {
		attrs = append(attrs, slog.String("position_label", ev.PositionLabel))
	}
	if ev.ChannelConfig != "" {
		attrs = append(attrs, slog.String("channel_config", ev.ChannelConfig))
	}
	if ev.ZPositionUm != nil {
		attrs = append(attrs, slog.Float64("z_um", *ev.ZPositionUm))
	}
	if ev.MinimumStartTimeMs != nil {
		attrs = append(attrs, slog.Int64("min_start_ms", *ev.MinimumStartTimeMs))
	}
	return attrs
}
