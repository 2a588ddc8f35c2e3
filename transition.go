package scrubber

import (
	"sync"
	"time"
)

// Transition linearly interpolates a value toward a target over a fixed duration.
// It carries no timer of its own - callers sample it with ValueAt whenever they
// produce a frame, so an idle transition costs nothing.
type Transition struct {
	mu       sync.Mutex
	from     float32
	to       float32
	start    time.Time
	duration time.Duration
}

// NewTransition creates a transition resting at the given value
func NewTransition(initial float32) *Transition {
	return &Transition{from: initial, to: initial}
}

// Start begins interpolating from the current sampled value toward target,
// finishing duration after now. Starting toward the current target is a no-op.
func (tr *Transition) Start(target float32, now time.Time, duration time.Duration) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	if target == tr.to {
		return
	}

	tr.from = tr.valueAtLocked(now)
	tr.to = target
	tr.start = now
	tr.duration = duration
}

// ValueAt samples the transition at the given time, clamped to its endpoints
func (tr *Transition) ValueAt(now time.Time) float32 {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	return tr.valueAtLocked(now)
}

// Target returns the value the transition is heading toward
func (tr *Transition) Target() float32 {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	return tr.to
}

// Active reports whether the transition is still in flight at the given time
func (tr *Transition) Active(now time.Time) bool {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	return now.Before(tr.start.Add(tr.duration))
}

func (tr *Transition) valueAtLocked(now time.Time) float32 {
	if tr.duration <= 0 {
		return tr.to
	}

	elapsed := now.Sub(tr.start)
	if elapsed <= 0 {
		return tr.from
	}
	if elapsed >= tr.duration {
		return tr.to
	}

	fraction := float32(elapsed) / float32(tr.duration)
	return tr.from + (tr.to-tr.from)*Clamp(fraction, 0, 1)
}
