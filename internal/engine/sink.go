package engine

import (
	"context"

	"github.com/roach88/mdaq/internal/ir"
)

// Sink executes acquisition events. The driver calls Accept exactly once per
// event, in generation order, from its pull loop, and computes nothing more
// until Accept returns.
//
// The sink owns everything the generator does not: waiting for
// MinimumStartTimeMs, talking to hardware, storing images, retrying.
type Sink interface {
	Accept(ctx context.Context, ev ir.Event) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, ev ir.Event) error

// Accept implements Sink.
func (f SinkFunc) Accept(ctx context.Context, ev ir.Event) error {
	return f(ctx, ev)
}
