package alerts

import "math"

// Decision is the outcome of evaluating a reading against a latch.
type Decision int

const (
	// Noop means no notification should be sent.
	Noop Decision = iota
	// Fire means the reading crossed into the alert state and a notification is due.
	Fire
)

func (d Decision) String() string {
	if d == Fire {
		return "fire"
	}
	return "noop"
}

// Latch is an edge-triggered threshold alarm for a single metric.
// Armed means an alert was already sent for the current excursion above the limit.
// The zero value is an unarmed latch.
type Latch struct {
	armed bool
}

// Check evaluates value against limit. NaN is treated as an absent reading.
func (l *Latch) Check(value, limit float64) Decision {
	if math.IsNaN(value) || value <= limit {
		l.armed = false
		return Noop
	}
	if l.armed {
		return Noop
	}
	l.armed = true
	return Fire
}

// Armed reports whether the latch is holding an alert for the current excursion.
func (l *Latch) Armed() bool {
	return l.armed
}
