package sink

import (
	"context"
	"slices"
	"sync"

	"github.com/roach88/mdaq/internal/ir"
)

// Collector keeps every accepted event in memory.
//
// Thread-safety: Collector is safe for concurrent use.
type Collector struct {
	mu     sync.Mutex
	events []ir.Event
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Accept implements engine.Sink.
func (c *Collector) Accept(_ context.Context, ev ir.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
	return nil
}

// Events returns a copy of the collected events in arrival order.
func (c *Collector) Events() []ir.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.events)
}

// Len returns the number of collected events.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}
