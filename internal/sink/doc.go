// Package sink provides engine.Sink implementations.
//
// Sinks are the consumer side of an acquisition stream. The generator never
// waits and never talks to hardware; everything downstream of an event lives
// here:
//   - Collector: keeps every event in memory (plan output, harness, tests)
//   - Paced: holds each event until its minimum start time
//   - Logging: one structured log line per event
//   - Recorder: appends each event to the run log in the store
//   - Multi: fans one event out to several sinks in order
//
// Sinks compose by wrapping: Paced(next) and Logging(next) forward to the
// next sink after doing their own work.
package sink
