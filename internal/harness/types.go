package harness

import (
	"github.com/roach88/mdaq/internal/engine"
	"github.com/roach88/mdaq/internal/ir"
)

// TraceEvent is one recorded event with its logical sequence number.
type TraceEvent struct {
	Seq   int64    `json:"seq"`
	Event ir.Event `json:"event"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every assertion holds.
	Pass bool `json:"pass"`

	// RunID is the run the trace was recorded under.
	RunID string `json:"run_id"`

	// Trace contains every recorded event in seq order.
	Trace []TraceEvent `json:"trace"`

	// Report is the driver's summary of the run.
	Report *engine.Report `json:"-"`

	// Settings are the compiled settings the scenario ran.
	Settings ir.AcquisitionSettings `json:"-"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Events returns the traced events without their seq numbers.
func (r *Result) Events() []ir.Event {
	events := make([]ir.Event, len(r.Trace))
	for i, te := range r.Trace {
		events[i] = te.Event
	}
	return events
}
