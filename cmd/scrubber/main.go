package main

import (
	"flag"
	"fmt"

	"github.com/jay-jlm/scrubber"
)

var (
	gitCommit  string
	versionTag string
	buildType  string

	verbose bool
)

func init() {
	flag.BoolVar(&verbose, "verbose", false, "show verbose logs (useful for debugging input sources)")
	flag.BoolVar(&verbose, "v", false, "shorthand for --verbose")
	flag.Parse()
}

func main() {

	// first we need a logger
	logger, err := scrubber.NewLogger(buildType)
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}

	named := logger.Named("main")
	named.Debug("Created logger")

	named.Infow("Version info",
		"gitCommit", gitCommit,
		"versionTag", versionTag,
		"buildType", buildType)

	// provide a fair warning if the user's running in verbose mode
	if verbose {
		named.Debug("Verbose flag provided, all log messages will be shown")
	}

	// create the scrubber instance
	s, err := scrubber.NewScrubber(logger, verbose)
	if err != nil {
		named.Fatalw("Failed to create scrubber object", "error", err)
	}

	// if injected by build process, set version info to show up in the logs
	if buildType != "" && (versionTag != "" || gitCommit != "") {
		identifier := gitCommit
		if versionTag != "" {
			identifier = versionTag
		}

		s.SetVersion(fmt.Sprintf("Version %s-%s", buildType, identifier))
	}

	// log value changes so a bare run of the binary shows something useful
	s.SetCallbacks(scrubber.Callbacks{
		OnSlidingStart: func() {
			named.Debug("Sliding started")
		},
		OnValueChange: func(value float32) {
			named.Debugw("Value changed", "value", value)
		},
		OnSlidingComplete: func(value float32) {
			named.Infow("Sliding complete", "value", value)
		},
	})

	// onwards, to glory
	if err = s.Initialize(); err != nil {
		named.Fatalw("Failed to initialize scrubber", "error", err)
	}
}
