package scrubber

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBubbleText_DefaultFormatting(t *testing.T) {
	testCases := map[string]struct {
		value    float32
		expected string
	}{
		"whole-number":    {value: 50, expected: "50"},
		"two-decimals":    {value: 0.15442, expected: "0.15"},
		"trailing-zeroes": {value: 12.5, expected: "12.5"},
		"zero":            {value: 0, expected: "0"},
	}

	for testName, tc := range testCases {
		t.Run(testName, func(t *testing.T) {
			s := newTestScrubber(t)

			s.Bubble().Publish(tc.value)

			assert.Equal(t, tc.expected, s.Bubble().Label().Load())
		})
	}
}

func TestBubbleText_ConfiguredPrecision(t *testing.T) {
	s := newTestScrubber(t)
	s.config.ValuePrecision = 0

	s.Bubble().Publish(12.5)

	assert.Equal(t, "13", s.Bubble().Label().Load())
}

func TestBubbleText_CustomFormatter(t *testing.T) {
	s := newTestScrubber(t)
	s.Bubble().SetFormatter(func(v float32) string {
		return fmt.Sprintf("%02d:%02d", int(v)/60, int(v)%60)
	})

	s.Bubble().Publish(83)

	assert.Equal(t, "01:23", s.Bubble().Label().Load())
}

func TestBubbleText_SinkSupersedesLabel(t *testing.T) {
	s := newTestScrubber(t)

	var sunk []string
	s.Bubble().SetSink(func(text string) { sunk = append(sunk, text) })

	s.Bubble().Publish(42)
	drainDispatch(s)

	assert.Equal(t, []string{"42"}, sunk)
	assert.Equal(t, "", s.Bubble().Label().Load(), "the built-in label must stay untouched while a sink is set")
}
