package sink

import (
	"context"
	"fmt"

	"github.com/roach88/mdaq/internal/engine"
	"github.com/roach88/mdaq/internal/ir"
)

// Multi forwards each event to every sink in order. The first error stops
// the fan-out; later sinks do not see the event.
type Multi []engine.Sink

// Accept implements engine.Sink.
func (m Multi) Accept(ctx context.Context, ev ir.Event) error {
	for i, s := range m {
		if err := s.Accept(ctx, ev); err != nil {
			return fmt.Errorf("sink %d: %w", i, err)
		}
	}
	return nil
}
