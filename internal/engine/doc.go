// Package engine generates the ordered stream of acquisition events for one
// multi-dimensional experiment and drives it into an execution sink.
//
// ARCHITECTURE:
//
// Axis factories:
// Each axis (time, position, channel, z) is a Factory. Given a template
// event it returns a finite, non-restartable Sequence of derived events.
// Sequences are small state machines; no closure state is shared between
// axis instances.
//
// Composer:
// Compose nests factories outer-to-inner in the order supplied. It keeps an
// explicit stack holding one live Sequence per depth, so only the current
// path through the product is ever in memory. Nothing is buffered and
// nothing runs in the background: a caller that stops calling Next has
// stopped all work.
//
// Driver:
// The Driver resolves settings (building a tile grid if asked), composes
// the stream and pulls one event at a time into a Sink. The next event is
// not computed until the sink has returned for the previous one.
// Cancellation is checked between pulls, never preemptively.
//
// CRITICAL PATTERNS:
//
// Copy-on-derive:
// Axes never mutate their template. Every yielded event is a fresh value
// built with ir.Event.Derive / WithAxis.
//
// Schedule is a hint:
// The time axis stamps MinimumStartTimeMs but the generator never sleeps.
// Honouring the schedule is the sink's job (see sink.Paced).
//
// Determinism:
// Given equal settings, equal geometry answers and clocks reading the same
// instant, two runs yield identical event sequences.
package engine
