package engine

import "github.com/roach88/mdaq/internal/ir"

// Sequence is a finite, lazily computed run of events. It is not
// restartable: once Next returns false it keeps returning false.
type Sequence interface {
	Next() (ir.Event, bool)
}

// Factory builds the Sequence for one axis given the event produced by the
// enclosing axes. A fresh Sequence is requested for every outer context.
type Factory interface {
	Axis() ir.Axis
	Sequence(template ir.Event) Sequence
}
