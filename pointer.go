package scrubber

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jay-jlm/scrubber/util"
)

// PointerKind classifies a single pointer event
type PointerKind uint8

const (
	// PointerDown is reported when the pointer first touches the track surface
	PointerDown PointerKind = iota

	// PointerMove is reported for every position update while the pointer is down
	PointerMove

	// PointerUp is reported when the pointer is released
	PointerUp

	// PointerCancel is reported when the gesture is interrupted by the host
	PointerCancel
)

// PointerEvent is a single pointer sample in track-local pixel coordinates
type PointerEvent struct {
	Kind PointerKind
	X    float32
	Y    float32
	Time time.Time
}

// the wire format shared by the serial and UDP sources: "kind|x" or "kind|x|y",
// where kind is a single digit 0-3 and x/y are integer pixels
var expectedPointerLinePattern = regexp.MustCompile(`^[0-3]\|-?\d{1,5}(\|-?\d{1,5})?$`)

// parsePointerLine turns one wire-format line into a PointerEvent.
// Garbage lines are rejected rather than guessed at.
func parsePointerLine(line string) (PointerEvent, bool) {

	// lines from serial end with CRLF, UDP packets usually don't - accept both
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")

	if !expectedPointerLinePattern.MatchString(line) {
		return PointerEvent{}, false
	}

	fields := strings.Split(line, "|")

	kind, _ := strconv.Atoi(fields[0])
	x, _ := strconv.Atoi(fields[1])

	event := PointerEvent{
		Kind: PointerKind(kind),
		X:    float32(x),
		Time: time.Now(),
	}

	if len(fields) == 3 {
		y, _ := strconv.Atoi(fields[2])
		event.Y = float32(y)
	}

	return event, true
}

// pointerFilter applies coordinate inversion and a hardware noise gate to
// events arriving from remote sources. Each source owns one; local callers
// bypass it entirely.
type pointerFilter struct {
	scrubber *Scrubber

	lastNormalizedX float32
}

func newPointerFilter(scrubber *Scrubber) *pointerFilter {
	// an impossible position, so the first move always passes the gate
	return &pointerFilter{scrubber: scrubber, lastNormalizedX: -1}
}

// apply adjusts the event per config and reports whether it should be
// delivered. Presses and releases always pass; movements pass the noise gate.
func (f *pointerFilter) apply(e PointerEvent) (PointerEvent, bool) {
	width := f.scrubber.containerWidth.Load()

	// if the hardware is mounted backwards, take the mirror position
	if f.scrubber.config.InvertX && width > 0 {
		e.X = width - e.X
	}

	switch e.Kind {
	case PointerDown:
		f.lastNormalizedX = util.NormalizeScalar(normalizedPosition(e.X, width))

	case PointerMove:
		// trim to two decimals before gating, so sub-pixel hardware jitter
		// lands in the same bucket as the reference position
		norm := util.NormalizeScalar(normalizedPosition(e.X, width))
		if width > 0 && !util.SignificantlyDifferent(f.lastNormalizedX, norm) {
			return e, false
		}
		f.lastNormalizedX = norm
	}

	return e, true
}

// reset makes the next movement pass the gate unconditionally; used when the
// config reloads and the gate's reference position may no longer make sense
func (f *pointerFilter) reset() {
	f.lastNormalizedX = -1
}

func normalizedPosition(x float32, width float32) float32 {
	if width <= 0 {
		return 0
	}
	return x / width
}

func (k PointerKind) String() string {
	switch k {
	case PointerDown:
		return "PointerDown"
	case PointerMove:
		return "PointerMove"
	case PointerUp:
		return "PointerUp"
	case PointerCancel:
		return "PointerCancel"
	default:
		return "PointerUnknown"
	}
}
