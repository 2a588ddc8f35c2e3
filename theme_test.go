package scrubber

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThemeMapFromConfigs(t *testing.T) {
	type testCase struct {
		userTheme      map[string]string
		internalTheme  map[string]string
		expectedColors map[string]string
	}

	testCases := map[string]testCase{
		"defaults-when-empty": {
			expectedColors: map[string]string{"track": "#FFFFFF", "fill": "#001A72"},
		},
		"user-overrides-defaults": {
			userTheme:      map[string]string{"fill": "#FF0000"},
			expectedColors: map[string]string{"fill": "#FF0000", "track": "#FFFFFF"},
		},
		"user-overrides-internal": {
			userTheme:      map[string]string{"thumb": "#AAAAAA"},
			internalTheme:  map[string]string{"thumb": "#BBBBBB", "cache": "#CCCCCC"},
			expectedColors: map[string]string{"thumb": "#AAAAAA", "cache": "#CCCCCC"},
		},
		"unknown-components-dropped": {
			userTheme:      map[string]string{"sparkles": "#123456"},
			expectedColors: map[string]string{"track": "#FFFFFF"},
		},
		"empty-colors-ignored": {
			userTheme:      map[string]string{"fill": ""},
			expectedColors: map[string]string{"fill": "#001A72"},
		},
	}

	for testName, tc := range testCases {
		t.Run(testName, func(t *testing.T) {
			theme := themeMapFromConfigs(tc.userTheme, tc.internalTheme)

			for component, expected := range tc.expectedColors {
				got, ok := theme.Get(component)
				require.True(t, ok, "component %s should be themed", component)
				assert.Equal(t, expected, got)
			}

			_, ok := theme.Get("sparkles")
			assert.False(t, ok)
		})
	}
}
