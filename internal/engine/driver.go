package engine

import (
	"context"
	"log/slog"

	"github.com/roach88/mdaq/internal/ir"
	"github.com/roach88/mdaq/internal/tiling"
)

// Driver pulls the event stream for one acquisition run into a Sink.
//
// Thread-safety model:
//   - Run(): must be called from exactly one goroutine, once
//   - the sink is called synchronously from Run's goroutine
//
// INVARIANTS:
//   - settings are never mutated after NewDriver
//   - no event is computed before the sink returns for its predecessor
//   - cancellation is observed between pulls, never inside Accept
type Driver struct {
	settings ir.AcquisitionSettings
	geometry tiling.GeometryProvider
	sink     Sink
	clock    Clock
	logger   *slog.Logger
	runID    string
	idGen    RunIDGenerator

	maxEvents int
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithClock sets the clock feeding the time axis.
// Default: a StreamClock created by NewDriver.
func WithClock(c Clock) DriverOption {
	return func(d *Driver) {
		d.clock = c
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) DriverOption {
	return func(d *Driver) {
		d.logger = l
	}
}

// WithRunID fixes the run ID reported and logged by the driver.
func WithRunID(id string) DriverOption {
	return func(d *Driver) {
		d.runID = id
	}
}

// WithRunIDGenerator sets the generator used when no run ID is fixed.
// Default: UUIDv7Generator.
func WithRunIDGenerator(g RunIDGenerator) DriverOption {
	return func(d *Driver) {
		d.idGen = g
	}
}

// WithMaxEvents caps the number of events a run may deliver.
// Default: 0 (no cap).
func WithMaxEvents(n int) DriverOption {
	return func(d *Driver) {
		d.maxEvents = n
	}
}

// Report summarizes a run, complete or not.
type Report struct {
	RunID string

	// Expected is the event count implied by the settings.
	Expected int

	// Delivered counts events the sink accepted.
	Delivered int

	// Axes is the effective nesting, outermost first.
	Axes []ir.Axis

	// Cancelled is set when the context ended the run.
	Cancelled bool

	// EmptyAxis is set when the stream was empty because an axis yields
	// nothing. An empty stream is a valid outcome, not a failure.
	EmptyAxis *Error
}

// NewDriver creates a Driver. geo may be nil when settings use no tile grid.
func NewDriver(settings ir.AcquisitionSettings, geo tiling.GeometryProvider, sink Sink, opts ...DriverOption) *Driver {
	d := &Driver{
		settings: settings,
		geometry: geo,
		sink:     sink,
		idGen:    UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.clock == nil {
		d.clock = NewStreamClock()
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	if d.runID == "" {
		d.runID = d.idGen.Generate()
	}
	return d
}

// RunID returns the run identifier.
func (d *Driver) RunID() string {
	return d.runID
}

// Run plans the stream and delivers every event to the sink.
//
// It returns when the stream is exhausted, the sink fails (EXECUTION_ERROR),
// the quota is exceeded (QUOTA_EXCEEDED), or ctx is done (ctx.Err()). The
// report is non-nil in every case except a configuration error.
func (d *Driver) Run(ctx context.Context) (*Report, error) {
	log := d.logger.With("run_id", d.runID)

	stream, err := Plan(ctx, d.settings, d.geometry, d.clock)
	if err != nil {
		log.Error("acquisition planning failed", "error", err)
		return nil, err
	}
	defer stream.Stop()

	report := &Report{
		RunID:    d.runID,
		Expected: d.settings.ExpectedEvents(),
		Axes:     stream.Axes(),
	}
	quota := NewEventQuota(d.maxEvents)

	log.Info("acquisition starting",
		"name", d.settings.Name,
		"expected_events", report.Expected,
		"axes", report.Axes,
	)

	for {
		if err := ctx.Err(); err != nil {
			report.Cancelled = true
			log.Info("acquisition cancelled", "delivered", report.Delivered, "reason", err)
			return report, err
		}

		ev, ok := stream.Next()
		if !ok {
			break
		}
		if err := quota.Check(); err != nil {
			log.Error("acquisition stopped", "delivered", report.Delivered, "error", err)
			return report, err
		}
		if err := d.sink.Accept(ctx, ev); err != nil {
			execErr := NewExecutionError(report.Delivered, err)
			log.Error("acquisition stopped", "delivered", report.Delivered, "error", execErr)
			return report, execErr
		}
		report.Delivered++
		log.Debug("event delivered", "index", report.Delivered-1, "axes", ev.AxisPositions)
	}

	if report.Delivered == 0 {
		if empty := d.settings.EmptyAxes(); len(empty) > 0 {
			report.EmptyAxis = NewEmptyAxisError(empty[0])
			log.Warn("acquisition produced no events", "axis", empty[0])
		}
	}
	log.Info("acquisition complete", "delivered", report.Delivered)
	return report, nil
}
