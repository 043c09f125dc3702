package engine

import (
	"sync/atomic"
	"time"
)

// Clock reads the stream-local time in milliseconds.
//
// The epoch is arbitrary but fixed for the lifetime of a stream. The time
// axis reads the clock once per sequence, on its first pull.
type Clock interface {
	NowMs() int64
}

// StreamClock measures milliseconds elapsed since it was created.
// It uses the monotonic clock reading carried by time.Time.
type StreamClock struct {
	epoch time.Time
}

// NewStreamClock creates a clock whose epoch is now.
func NewStreamClock() *StreamClock {
	return &StreamClock{epoch: time.Now()}
}

// NowMs implements Clock.
func (c *StreamClock) NowMs() int64 {
	return time.Since(c.epoch).Milliseconds()
}

// Epoch returns the wall-clock instant the stream time is measured from.
func (c *StreamClock) Epoch() time.Time {
	return c.epoch
}

// FixedClock always reads the same instant. Plans built with it are
// reproducible, which replay and dry runs rely on.
type FixedClock int64

// NowMs implements Clock.
func (c FixedClock) NowMs() int64 {
	return int64(c)
}

// SeqClock is a monotonic logical clock for ordering delivered events.
//
// Recorded runs are ordered by seq, never by wall-clock timestamps, so a
// replayed plan lines up with the recorded one regardless of when it ran.
//
// Thread-safety: SeqClock is safe for concurrent use (atomic operations).
type SeqClock struct {
	seq atomic.Int64
}

// NewSeqClock creates a new clock starting at 0.
func NewSeqClock() *SeqClock {
	return &SeqClock{}
}

// NewSeqClockAt creates a clock starting at a specific sequence number.
// Used to resume appending to an existing run.
func NewSeqClockAt(start int64) *SeqClock {
	c := &SeqClock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number. The first call returns start+1.
func (c *SeqClock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *SeqClock) Current() int64 {
	return c.seq.Load()
}
