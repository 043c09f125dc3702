// Package store provides SQLite-backed durable storage for acquisition runs.
//
// The store is an append-only log with:
//   - Runs: the settings (and camera geometry, if any) a stream was built from
//   - Events: every event a sink accepted, keyed by (run_id, seq)
//
// # Critical Patterns
//
// Logical ordering
//   - Events are ordered by seq INTEGER (engine.SeqClock), NEVER timestamps
//   - A replayed plan lines up with the recorded one regardless of wall time
//
// Idempotent writes
//   - PRIMARY KEY(run_id, seq) with ON CONFLICT DO NOTHING
//   - A recorder restarted at the same seq cannot duplicate events
//
// Deterministic payloads
//   - Event payloads are RFC 8785 canonical JSON (ir.MarshalCanonical)
//   - event_id is ir.EventID, which excludes the schedule
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
