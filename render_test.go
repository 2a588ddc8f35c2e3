package scrubber

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveFrame(t *testing.T) {
	m := Mapper{ContainerWidth: 300, ThumbWidth: 15, Min: 0, Max: 100}

	type testCase struct {
		inputs   frameInputs
		expected FrameStyles
	}

	testCases := map[string]testCase{
		"mid-range": {
			inputs: frameInputs{progress: 50, cache: 40, thumbOffset: 142.5, thumbScale: 1, bubbleOpacity: 1, bubbleOffsetY: 25},
			expected: FrameStyles{
				FillWidth:        150,
				ThumbTranslateX:  142.5,
				ThumbScale:       1,
				CacheWidth:       120,
				BubbleTranslateX: 150,
				BubbleTranslateY: -25,
				BubbleOpacity:    1,
				BubbleScale:      1,
			},
		},
		"at-zero": {
			inputs: frameInputs{progress: 0, thumbScale: 1, bubbleOffsetY: 25},
			expected: FrameStyles{
				FillWidth:        7.5,
				ThumbTranslateX:  0,
				ThumbScale:       1,
				CacheWidth:       0,
				BubbleTranslateX: 7.5,
				BubbleTranslateY: -25,
			},
		},
		"overshoot-clamps": {
			inputs: frameInputs{progress: 500, thumbOffset: 285, thumbScale: 1, bubbleOffsetY: 25},
			expected: FrameStyles{
				FillWidth:        300,
				ThumbTranslateX:  285,
				ThumbScale:       1,
				BubbleTranslateX: 292.5,
				BubbleTranslateY: -25,
			},
		},
	}

	for testName, tc := range testCases {
		t.Run(testName, func(t *testing.T) {
			got := deriveFrame(m, tc.inputs)

			assert.InDelta(t, tc.expected.FillWidth, got.FillWidth, 0.001)
			assert.InDelta(t, tc.expected.ThumbTranslateX, got.ThumbTranslateX, 0.001)
			assert.InDelta(t, tc.expected.ThumbScale, got.ThumbScale, 0.001)
			assert.InDelta(t, tc.expected.CacheWidth, got.CacheWidth, 0.001)
			assert.InDelta(t, tc.expected.BubbleTranslateX, got.BubbleTranslateX, 0.001)
			assert.InDelta(t, tc.expected.BubbleTranslateY, got.BubbleTranslateY, 0.001)
			assert.InDelta(t, tc.expected.BubbleOpacity, got.BubbleOpacity, 0.001)
			assert.InDelta(t, tc.expected.BubbleScale, got.BubbleScale, 0.001)
		})
	}
}

func TestDeriveFrame_ZeroAndMissingCacheAreEquivalent(t *testing.T) {
	m := Mapper{ContainerWidth: 300, ThumbWidth: 15, Min: 0, Max: 100}

	withZero := deriveFrame(m, frameInputs{cache: 0})
	withNegative := deriveFrame(m, frameInputs{cache: -1})

	assert.Equal(t, float32(0), withZero.CacheWidth)
	assert.Equal(t, float32(0), withNegative.CacheWidth)
}

func TestDeriveFrame_DegenerateRange(t *testing.T) {
	m := Mapper{ContainerWidth: 300, ThumbWidth: 15, Min: 0, Max: 0}

	got := deriveFrame(m, frameInputs{progress: 50, cache: 40})

	// a zero total range degrades to a slider pinned at value 0
	assert.Equal(t, float32(7.5), got.FillWidth)
	assert.Equal(t, float32(0), got.ThumbTranslateX)
	assert.Equal(t, float32(0), got.CacheWidth)
}

func TestDeriveFrame_IsIdempotent(t *testing.T) {
	m := Mapper{ContainerWidth: 300, ThumbWidth: 15, Min: 0, Max: 100}
	in := frameInputs{progress: 33, cache: 10, thumbOffset: 94, thumbScale: 1.2, bubbleOpacity: 0.5, bubbleOffsetY: 25}

	assert.Equal(t, deriveFrame(m, in), deriveFrame(m, in))
}
