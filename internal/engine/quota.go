package engine

// EventQuota caps the number of events a single run may deliver.
//
// A z range or grid entered with a typo (10000 slices instead of 100) yields
// a valid but runaway stream. The quota turns that into a QUOTA_EXCEEDED
// error before the offending event reaches the sink.
type EventQuota struct {
	maxEvents int
	current   int
}

// NewEventQuota creates a quota with the given limit. A limit <= 0 disables
// the check.
func NewEventQuota(maxEvents int) *EventQuota {
	return &EventQuota{maxEvents: maxEvents}
}

// Check counts one more event and returns a quota error if the limit is
// exceeded.
func (q *EventQuota) Check() error {
	q.current++
	if q.maxEvents > 0 && q.current > q.maxEvents {
		return NewQuotaError(q.current-1, q.maxEvents)
	}
	return nil
}

// Current returns the number of events checked so far.
func (q *EventQuota) Current() int {
	return q.current
}

// MaxEvents returns the limit, 0 when disabled.
func (q *EventQuota) MaxEvents() int {
	return max(q.maxEvents, 0)
}
