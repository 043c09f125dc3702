// Package harness runs acquisition scenarios for conformance testing.
//
// A scenario names a settings file, a clock reading for the stream epoch,
// and assertions over the resulting event stream. Run drives the real
// engine with deterministic helpers:
//   - testutil.ManualClock pinned at clock_start_ms
//   - testutil.FixedRunIDGenerator (run ID "test-run-default" unless set)
//   - a fresh in-memory store; the trace is read back from it by seq
//
// So a scenario checks planning, driving, recording and reading in one
// pass. RunWithGolden additionally compares the canonical trace with
// testdata/golden/<name>.golden via goldie.
//
// Assertion types:
//   - event_count: the stream has exactly count events
//   - event_at: the event at index matches expect (subset of its canonical form)
//   - snake_grid: positions cover a rows x cols grid in snake order
//   - schedule_monotonic: consecutive time points are at least interval apart
//   - z_increasing: z positions rise within every z sweep
package harness
