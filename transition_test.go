package scrubber

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTransition_LinearInterpolation(t *testing.T) {
	start := time.Now()
	tr := NewTransition(0)
	tr.Start(1, start, 100*time.Millisecond)

	assert.InDelta(t, 0, tr.ValueAt(start), 0.0001)
	assert.InDelta(t, 0.5, tr.ValueAt(start.Add(50*time.Millisecond)), 0.0001)
	assert.InDelta(t, 1, tr.ValueAt(start.Add(100*time.Millisecond)), 0.0001)

	// idempotent after the deadline
	assert.InDelta(t, 1, tr.ValueAt(start.Add(time.Hour)), 0.0001)
	assert.False(t, tr.Active(start.Add(time.Hour)))
}

func TestTransition_RetargetMidFlight(t *testing.T) {
	start := time.Now()
	tr := NewTransition(0)
	tr.Start(1, start, 100*time.Millisecond)

	// reverse direction halfway through; the new leg starts from 0.5
	mid := start.Add(50 * time.Millisecond)
	tr.Start(0, mid, 100*time.Millisecond)

	assert.InDelta(t, 0.5, tr.ValueAt(mid), 0.0001)
	assert.InDelta(t, 0.25, tr.ValueAt(mid.Add(50*time.Millisecond)), 0.0001)
	assert.InDelta(t, 0, tr.ValueAt(mid.Add(100*time.Millisecond)), 0.0001)
}

func TestTransition_RestartTowardSameTargetIsANoOp(t *testing.T) {
	start := time.Now()
	tr := NewTransition(0)
	tr.Start(1, start, 100*time.Millisecond)

	// drag movements re-reveal the bubble every tick; that must not
	// restart the fade from scratch
	mid := start.Add(50 * time.Millisecond)
	tr.Start(1, mid, 100*time.Millisecond)

	assert.InDelta(t, 0.5, tr.ValueAt(mid), 0.0001)
	assert.InDelta(t, 1, tr.ValueAt(start.Add(100*time.Millisecond)), 0.0001)
}

func TestTransition_ZeroDurationSnapsToTarget(t *testing.T) {
	start := time.Now()
	tr := NewTransition(0.3)
	tr.Start(0.9, start, 0)

	assert.InDelta(t, 0.9, tr.ValueAt(start), 0.0001)
}
