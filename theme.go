package scrubber

import (
	"fmt"
	"sync"

	"github.com/thoas/go-funk"
)

// themeMap holds the color assignments for the control's visual components.
// The visual layer reads from it; config reloads replace entries in place.
type themeMap struct {
	m    map[string]string
	lock sync.Locker
}

// the component names a theme may color
var knownThemeComponents = []string{"track", "fill", "cache", "thumb", "bubble", "bubble_text"}

func newThemeMap() *themeMap {
	return &themeMap{
		m:    make(map[string]string),
		lock: &sync.Mutex{},
	}
}

var defaultTheme = func() *themeMap {
	theme := newThemeMap()
	theme.set("track", "#FFFFFF")
	theme.set("fill", "#001A72")
	theme.set("cache", "#333333")
	theme.set("thumb", "#001A72")
	theme.set("bubble", "#666666")
	theme.set("bubble_text", "#FFFFFF")

	return theme
}()

// themeMapFromConfigs merges the user config's theme over the internal one,
// on top of the defaults. Unknown component names are dropped.
func themeMapFromConfigs(userTheme map[string]string, internalTheme map[string]string) *themeMap {
	resultMap := newThemeMap()

	defaultTheme.iterate(func(component string, color string) {
		resultMap.set(component, color)
	})

	for component, color := range internalTheme {
		if !funk.ContainsString(knownThemeComponents, component) || color == "" {
			continue
		}

		resultMap.set(component, color)
	}

	for component, color := range userTheme {
		if !funk.ContainsString(knownThemeComponents, component) || color == "" {
			continue
		}

		resultMap.set(component, color)
	}

	return resultMap
}

// Get returns the color assigned to a component
func (m *themeMap) Get(component string) (string, bool) {
	m.lock.Lock()
	defer m.lock.Unlock()

	value, ok := m.m[component]
	return value, ok
}

func (m *themeMap) set(component string, color string) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.m[component] = color
}

func (m *themeMap) iterate(f func(string, string)) {
	m.lock.Lock()
	defer m.lock.Unlock()

	for key, value := range m.m {
		f(key, value)
	}
}

func (m *themeMap) String() string {
	m.lock.Lock()
	defer m.lock.Unlock()

	return fmt.Sprintf("<%d themed components>", len(m.m))
}
