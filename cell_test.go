package scrubber

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCell_LoadStore(t *testing.T) {
	c := NewCell[float32](0.5)
	assert.Equal(t, float32(0.5), c.Load())

	c.Store(0.75)
	assert.Equal(t, float32(0.75), c.Load())
}

func TestCell_WatchersFireOnEveryStore(t *testing.T) {
	c := NewCell[float32](0)

	var seen []float32
	c.Watch(func(v float32) { seen = append(seen, v) })

	c.Store(1)
	c.Store(1)
	c.Store(2)

	assert.Equal(t, []float32{1, 1, 2}, seen)
}

func TestCell_ConcurrentWritersLastWriteWins(t *testing.T) {
	c := NewCell[float32](0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(v float32) {
			defer wg.Done()
			c.Store(v)
		}(float32(i))
	}
	wg.Wait()

	got := c.Load()
	assert.GreaterOrEqual(t, got, float32(0))
	assert.Less(t, got, float32(50))
}
