package scrubber

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/jay-jlm/scrubber/util"
)

const (
	crashlogFilename        = "scrubber-crash-%s.log"
	crashlogTimestampFormat = "2006.01.02-15.04.05"

	crashMessage = `-----------------------------------------------------------------
                      scrubber crashlog
-----------------------------------------------------------------
Unfortunately, the scrubber has crashed. This really shouldn't happen!
If you've just encountered this, please open an issue and attach this error log.
-----------------------------------------------------------------
Time: %s
Panic occurred: %s
Stack trace:
%s
-----------------------------------------------------------------
`
)

func (s *Scrubber) recoverFromPanic() {
	r := recover()

	if r == nil {
		return
	}

	// if we got here, we're recovering from a panic!
	crashlogPath, err := writeCrashLog(logDirectory, r, debug.Stack(), time.Now())
	if err != nil {

		// that would REALLY suck
		panic(err)
	}

	s.logger.Errorw("Encountered and logged panic, crashing",
		"crashlogPath", crashlogPath,
		"error", r)

	s.notifier.Notify("Unexpected crash occurred...",
		fmt.Sprintf("More details in %s", crashlogPath))

	// the run loop may already be unwinding past its receive, so don't hang
	// on the handoff
	select {
	case s.stopChannel <- true:
	default:
	}

	// bye :(
	s.logger.Errorw("Quitting", "exitCode", 1)
	os.Exit(1)
}

func writeCrashLog(dir string, r interface{}, stack []byte, now time.Time) (string, error) {
	if err := util.EnsureDirExists(dir); err != nil {
		return "", fmt.Errorf("ensure crashlog dir exists: %w", err)
	}

	timestamp := now.Format(crashlogTimestampFormat)

	crashlogBytes := bytes.NewBufferString(fmt.Sprintf(crashMessage, timestamp, r, stack))
	crashlogPath := filepath.Join(dir, fmt.Sprintf(crashlogFilename, timestamp))

	if err := os.WriteFile(crashlogPath, crashlogBytes.Bytes(), os.ModePerm); err != nil {
		return "", fmt.Errorf("write crashlog file contents: %w", err)
	}

	return crashlogPath, nil
}
