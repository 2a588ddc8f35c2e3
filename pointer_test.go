package scrubber

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePointerLine(t *testing.T) {
	type testCase struct {
		givenLine     string
		expectedOK    bool
		expectedEvent PointerEvent
	}

	testCases := map[string]testCase{
		"down-with-both-coords": {
			givenLine:     "0|150|20\r\n",
			expectedOK:    true,
			expectedEvent: PointerEvent{Kind: PointerDown, X: 150, Y: 20},
		},
		"move-without-y": {
			givenLine:     "1|285\n",
			expectedOK:    true,
			expectedEvent: PointerEvent{Kind: PointerMove, X: 285},
		},
		"up-bare-line": {
			givenLine:     "2|0",
			expectedOK:    true,
			expectedEvent: PointerEvent{Kind: PointerUp, X: 0},
		},
		"cancel-negative-coords": {
			givenLine:     "3|-5|-12\r\n",
			expectedOK:    true,
			expectedEvent: PointerEvent{Kind: PointerCancel, X: -5, Y: -12},
		},
		"unknown-kind": {
			givenLine:  "7|150\r\n",
			expectedOK: false,
		},
		"gibberish": {
			givenLine:  "UwU",
			expectedOK: false,
		},
		"trailing-garbage": {
			givenLine:  "1|150|20|999\r\n",
			expectedOK: false,
		},
		"empty": {
			givenLine:  "",
			expectedOK: false,
		},
	}

	for testName, tc := range testCases {
		t.Run(testName, func(t *testing.T) {
			event, ok := parsePointerLine(tc.givenLine)

			require.Equal(t, tc.expectedOK, ok)
			if !ok {
				return
			}

			assert.Equal(t, tc.expectedEvent.Kind, event.Kind)
			assert.Equal(t, tc.expectedEvent.X, event.X)
			assert.Equal(t, tc.expectedEvent.Y, event.Y)
		})
	}
}

func TestPointerFilter_NoiseGate(t *testing.T) {
	s := newTestScrubber(t)
	s.SetContainerWidth(300)

	filter := newPointerFilter(s)

	_, deliver := filter.apply(PointerEvent{Kind: PointerDown, X: 150})
	assert.True(t, deliver, "presses always pass")

	// sub-threshold jitter around the press position is dropped
	_, deliver = filter.apply(PointerEvent{Kind: PointerMove, X: 150.2})
	assert.False(t, deliver)

	// a real movement passes
	_, deliver = filter.apply(PointerEvent{Kind: PointerMove, X: 160})
	assert.True(t, deliver)

	// releases always pass
	_, deliver = filter.apply(PointerEvent{Kind: PointerUp, X: 160})
	assert.True(t, deliver)
}

func TestPointerFilter_SubPixelBucketJitterIsDropped(t *testing.T) {
	s := newTestScrubber(t)
	s.SetContainerWidth(300)

	filter := newPointerFilter(s)

	filter.apply(PointerEvent{Kind: PointerDown, X: 150})

	// 151/300 differs from 150/300 by more than the raw gate threshold, but
	// both trim to the same two-decimal position
	_, deliver := filter.apply(PointerEvent{Kind: PointerMove, X: 151})
	assert.False(t, deliver)
}

func TestPointerFilter_InvertX(t *testing.T) {
	s := newTestScrubber(t)
	s.SetContainerWidth(300)
	s.config.InvertX = true

	filter := newPointerFilter(s)

	event, deliver := filter.apply(PointerEvent{Kind: PointerDown, X: 100})
	require.True(t, deliver)
	assert.Equal(t, float32(200), event.X)
}

func TestPointerFilter_NoGateBeforeFirstMeasurement(t *testing.T) {
	s := newTestScrubber(t)

	filter := newPointerFilter(s)

	filter.apply(PointerEvent{Kind: PointerDown, X: 0})
	_, deliver := filter.apply(PointerEvent{Kind: PointerMove, X: 0})
	assert.True(t, deliver, "the gate must not eat events while the width is unknown")
}
