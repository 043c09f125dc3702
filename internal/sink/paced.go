package sink

import (
	"context"
	"time"

	"github.com/roach88/mdaq/internal/engine"
	"github.com/roach88/mdaq/internal/ir"
)

// SleepFunc blocks for d or until ctx is done, whichever comes first.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Paced holds each event until the stream clock reaches its
// MinimumStartTimeMs, then forwards it. Events without a minimum start, or
// whose start has already passed, are forwarded immediately.
//
// Paced must share its clock with the driver: the schedule is expressed in
// that clock's milliseconds.
type Paced struct {
	next  engine.Sink
	clock engine.Clock
	sleep SleepFunc

	waited time.Duration
}

// PacedOption configures a Paced sink.
type PacedOption func(*Paced)

// WithSleep replaces the real-time sleep. Tests pass a function that
// advances a manual clock instead.
func WithSleep(fn SleepFunc) PacedOption {
	return func(p *Paced) {
		p.sleep = fn
	}
}

// NewPaced creates a Paced sink forwarding to next.
func NewPaced(next engine.Sink, clock engine.Clock, opts ...PacedOption) *Paced {
	p := &Paced{
		next:  next,
		clock: clock,
		sleep: sleepContext,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Accept implements engine.Sink.
func (p *Paced) Accept(ctx context.Context, ev ir.Event) error {
	if ev.MinimumStartTimeMs != nil {
		wait := *ev.MinimumStartTimeMs - p.clock.NowMs()
		if wait > 0 {
			d := time.Duration(wait) * time.Millisecond
			if err := p.sleep(ctx, d); err != nil {
				return err
			}
			p.waited += d
		}
	}
	return p.next.Accept(ctx, ev)
}

// Waited returns the total time spent holding events.
func (p *Paced) Waited() time.Duration {
	return p.waited
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
