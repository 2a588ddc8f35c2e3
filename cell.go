package scrubber

import "sync"

// Cell is a shared value slot that may be written by the caller and by the engine,
// possibly from different goroutines. Reads and writes are atomic with respect to
// each other and follow last-write-wins semantics - there is no ownership handoff.
// Watchers registered via Watch are invoked after every write, outside the lock.
type Cell[T any] struct {
	mu       sync.RWMutex
	value    T
	watchers []func(T)
}

// NewCell creates a cell holding the given initial value
func NewCell[T any](initial T) *Cell[T] {
	return &Cell[T]{value: initial}
}

// Load returns the current value
func (c *Cell[T]) Load() T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.value
}

// Store replaces the current value and notifies watchers with the new value.
// Watchers run on the writer's goroutine.
func (c *Cell[T]) Store(v T) {
	c.mu.Lock()
	c.value = v
	watchers := c.watchers
	c.mu.Unlock()

	for _, watcher := range watchers {
		watcher(v)
	}
}

// Watch registers a change hook. Hooks must be fast and must not write back
// into the same cell, or they'll recurse.
func (c *Cell[T]) Watch(fn func(T)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.watchers = append(c.watchers, fn)
}
