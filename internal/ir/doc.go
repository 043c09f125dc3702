// Package ir provides the acquisition data model shared by every mdaq package.
//
// This package contains value types and their canonical encodings only. All
// other internal packages import ir; ir imports nothing internal, which keeps
// it the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Events are values. Every axis derives a new Event from its template via
//     Derive / With* helpers; nothing mutates an Event after it is yielded.
//   - Optional fields are pointers (or empty strings) so "unset" is distinct
//     from zero. A z position of 0 is a real focus target.
//   - All JSON tags use snake_case and match the canonical encoding keys, so
//     canonical payloads decode back with encoding/json.
//   - Identity (EventID) excludes the schedule: two events that capture the
//     same thing are the same event even if they ran at different times.
package ir
