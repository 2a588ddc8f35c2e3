package scrubber

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLayoutTracker_ResizeScenarios(t *testing.T) {
	type testCase struct {
		progress       float32
		max            float32
		widths         []float32
		expectedOffset float32
	}

	testCases := map[string]testCase{
		"first-measurement": {
			progress:       25,
			max:            100,
			widths:         []float32{300},
			expectedOffset: 75,
		},
		"zero-then-real-width": {
			progress:       25,
			max:            100,
			widths:         []float32{0, 300},
			expectedOffset: 75,
		},
		"repeated-reports-are-idempotent": {
			progress:       50,
			max:            100,
			widths:         []float32{300, 300, 300},
			expectedOffset: 150,
		},
		"offset-clamps-to-usable-width": {
			progress:       100,
			max:            100,
			widths:         []float32{300},
			expectedOffset: 285,
		},
		"zero-range-parks-at-left-edge": {
			progress:       25,
			max:            0,
			widths:         []float32{300},
			expectedOffset: 0,
		},
		"negative-width-treated-as-zero": {
			progress:       25,
			max:            100,
			widths:         []float32{-10},
			expectedOffset: 0,
		},
	}

	for testName, tc := range testCases {
		t.Run(testName, func(t *testing.T) {
			s := newTestScrubber(t)
			s.DomainMax().Store(tc.max)
			s.Progress().Store(tc.progress)

			for _, w := range tc.widths {
				s.SetContainerWidth(w)
			}

			assert.InDelta(t, tc.expectedOffset, s.thumbOffset.Load(), 0.001)

			offset := s.thumbOffset.Load()
			assert.False(t, offset != offset, "offset must not be NaN")
		})
	}
}
