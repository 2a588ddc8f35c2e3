package scrubber

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCrashLog(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 8, 26, 13, 37, 0, 0, time.UTC)

	crashlogPath, err := writeCrashLog(dir, "something broke", []byte("goroutine 1 [running]"), now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "scrubber-crash-2026.08.26-13.37.00.log"), crashlogPath)

	contents, err := os.ReadFile(crashlogPath)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "something broke")
	assert.Contains(t, string(contents), "goroutine 1 [running]")
}

func TestWriteCrashLog_CreatesMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")

	crashlogPath, err := writeCrashLog(dir, "boom", []byte("stack"), time.Now())
	require.NoError(t, err)
	assert.FileExists(t, crashlogPath)
}
