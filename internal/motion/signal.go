package motion

import (
	"math"
	"sync/atomic"
	"time"
)

const never = math.MinInt64

// Signal is a debounced, edge-triggered motion flag.
//
// Trigger is called from the GPIO event context and Poll from the alert loop.
// The two only communicate through the atomics below; Trigger never blocks or allocates.
// All Trigger timestamps for one Signal must come from the same monotonic clock.
type Signal struct {
	window  time.Duration
	origin  time.Time
	pending atomic.Bool
	last    atomic.Int64

	accepted   atomic.Uint64
	suppressed atomic.Uint64
}

// NewSignal returns a Signal that accepts triggers spaced more than window apart.
func NewSignal(window time.Duration) *Signal {
	s := &Signal{window: window, origin: time.Now()}
	s.last.Store(never)
	return s
}

// Trigger records a raw rising edge observed at the given monotonic offset.
// It returns false when the edge fell inside the debounce window and was ignored.
func (s *Signal) Trigger(at time.Duration) bool {
	last := s.last.Load()
	if last != never && int64(at)-last <= int64(s.window) {
		s.suppressed.Add(1)
		return false
	}
	if !s.last.CompareAndSwap(last, int64(at)) {
		// a concurrent edge won the race for this window
		s.suppressed.Add(1)
		return false
	}
	s.pending.Store(true)
	s.accepted.Add(1)
	return true
}

// TriggerNow records an edge using the Signal's own monotonic clock.
func (s *Signal) TriggerNow() bool {
	return s.Trigger(time.Since(s.origin))
}

// Poll reports whether an accepted edge is pending and clears it in the same step.
func (s *Signal) Poll() bool {
	return s.pending.Swap(false)
}

// Accepted returns the number of edges that passed the debounce window.
func (s *Signal) Accepted() uint64 {
	return s.accepted.Load()
}

// Suppressed returns the number of edges discarded as bounce.
func (s *Signal) Suppressed() uint64 {
	return s.suppressed.Load()
}
