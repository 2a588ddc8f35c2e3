package scrubber

import (
	"time"

	"github.com/chewxy/math32"
	"go.uber.org/zap"
)

// PanState tracks the continuous-drag recognizer
type PanState uint8

const (
	// PanIdle is the default pan state
	PanIdle PanState = iota
	// PanStarting is reported after a pointer press, before the minimum
	// activation distance has been covered
	PanStarting
	// PanDragging is reported while an activated drag is in progress
	PanDragging
)

// TapState tracks the discrete-tap recognizer
type TapState uint8

const (
	// TapIdle is the default tap state
	TapIdle TapState = iota
	// TapTracking is reported after a pointer press that may still become a tap
	TapTracking
)

// PanEventType classifies pan recognizer output
type PanEventType uint8

const (
	// PanStart is reported once, when the drag covers the activation distance
	PanStart PanEventType = iota
	// PanMove is reported for every position update of an activated drag
	PanMove
	// PanEnd is reported when an activated drag is released or cancelled
	PanEnd
)

// PanEvent is a single state-machine output of the pan recognizer
type PanEvent struct {
	Type PanEventType
	X    float32
}

// TapEvent is reported when a press is released without ever covering
// the pan activation distance
type TapEvent struct {
	X float32
}

// PanRecognizer detects continuous horizontal drags. A drag only activates
// once the pointer travels ActivationDistance pixels from its press position;
// until then the gesture still belongs to the tap recognizer. This gate is
// what keeps the two recognizers from ever both claiming the same gesture.
type PanRecognizer struct {
	// ActivationDistance is the minimum horizontal travel, in pixels,
	// before the drag activates
	ActivationDistance float32

	state  PanState
	startX float32
}

// State reports the pan recognizer state
func (p *PanRecognizer) State() PanState {
	return p.state
}

// Feed advances the state machine with one pointer event and returns the
// recognizer events it produced, in order.
func (p *PanRecognizer) Feed(e PointerEvent) []PanEvent {
	var events []PanEvent

	switch e.Kind {
	case PointerDown:
		if p.state != PanIdle {
			break
		}
		p.state = PanStarting
		p.startX = e.X

	case PointerMove:
		switch p.state {
		case PanStarting:
			if math32.Abs(e.X-p.startX) < p.ActivationDistance {
				break
			}
			p.state = PanDragging
			events = append(events,
				PanEvent{Type: PanStart, X: e.X},
				PanEvent{Type: PanMove, X: e.X})
		case PanDragging:
			events = append(events, PanEvent{Type: PanMove, X: e.X})
		}

	case PointerUp, PointerCancel:
		if p.state == PanDragging {
			events = append(events, PanEvent{Type: PanEnd, X: e.X})
		}
		p.state = PanIdle
	}

	return events
}

// TapRecognizer detects short presses. It gives up as soon as the pointer
// travels far enough for the pan recognizer to activate.
type TapRecognizer struct {
	// MaxDistance is the travel budget before the press stops being a tap;
	// keep it equal to the pan recognizer's ActivationDistance
	MaxDistance float32

	state  TapState
	startX float32
}

// State reports the tap recognizer state
func (t *TapRecognizer) State() TapState {
	return t.state
}

// Feed advances the state machine with one pointer event. The boolean return
// is true when a completed tap was recognized.
func (t *TapRecognizer) Feed(e PointerEvent) (TapEvent, bool) {
	switch e.Kind {
	case PointerDown:
		if t.state != TapIdle {
			break
		}
		t.state = TapTracking
		t.startX = e.X

	case PointerMove:
		if t.state == TapTracking && math32.Abs(e.X-t.startX) >= t.MaxDistance {
			// the drag owns this gesture now
			t.state = TapIdle
		}

	case PointerUp:
		if t.state == TapTracking {
			t.state = TapIdle
			return TapEvent{X: e.X}, true
		}

	case PointerCancel:
		t.state = TapIdle
	}

	return TapEvent{}, false
}

// Callbacks are the caller-facing observers of the control. All of them are
// optional and all of them are invoked on the dispatcher goroutine, never on
// the input path.
type Callbacks struct {
	// OnSlidingStart fires once when a drag activates
	OnSlidingStart func()

	// OnValueChange fires with the new domain value for every drag movement
	// and for every accepted tap-seek
	OnValueChange func(value float32)

	// OnSlidingComplete fires with the final domain value when a drag or
	// tap-seek is released
	OnSlidingComplete func(value float32)

	// OnTap fires for every recognized tap, even while the control is disabled
	OnTap func()
}

// Coordinator owns the two gesture recognizers racing on the track surface
// and turns their output into value writes, render updates and callbacks.
type Coordinator struct {
	scrubber *Scrubber
	logger   *zap.SugaredLogger

	pan PanRecognizer
	tap TapRecognizer

	// whether the current pointer sequence began inside the hit area
	tracking bool
}

func newCoordinator(scrubber *Scrubber, logger *zap.SugaredLogger) *Coordinator {
	logger = logger.Named("gestures")

	gc := &Coordinator{
		scrubber: scrubber,
		logger:   logger,
	}

	logger.Debug("Created gesture coordinator instance")

	return gc
}

// Handle feeds one pointer event through both recognizers and applies
// whatever they produce. It is safe to call from any single input goroutine;
// everything caller-visible is marshalled through the dispatcher.
func (gc *Coordinator) Handle(e PointerEvent) {
	config := gc.scrubber.config

	// activation distance is hot-reloadable, so re-read it per event
	gc.pan.ActivationDistance = config.PanActivationDistance
	gc.tap.MaxDistance = config.PanActivationDistance

	if e.Kind == PointerDown {
		if !gc.hitTest(e) {
			gc.tracking = false
			return
		}
		gc.tracking = true
	} else if !gc.tracking {
		return
	}

	for _, pe := range gc.pan.Feed(e) {
		switch pe.Type {
		case PanStart:
			gc.onPanStart()
		case PanMove:
			gc.onPanMove(pe.X)
		case PanEnd:
			gc.onPanEnd()
		}
	}

	if te, ok := gc.tap.Feed(e); ok {
		gc.onTap(te.X)
	}

	if e.Kind == PointerUp || e.Kind == PointerCancel {
		gc.tracking = false
	}
}

// hitTest checks a press against the track bounds padded by the configured
// hit slop insets
func (gc *Coordinator) hitTest(e PointerEvent) bool {
	config := gc.scrubber.config
	width := gc.scrubber.containerWidth.Load()
	slop := config.HitSlop

	if e.X < -slop.Left || e.X > width+slop.Right {
		return false
	}
	if e.Y < -slop.Top || e.Y > config.TrackHeight+slop.Bottom {
		return false
	}

	return true
}

func (gc *Coordinator) onPanStart() {
	s := gc.scrubber

	if s.config.Disabled {
		return
	}

	s.isScrubbing.Store(true)

	if cb := s.callbacks.OnSlidingStart; cb != nil {
		s.dispatcher.Dispatch(cb)
	}

	if s.Verbose() {
		gc.logger.Debug("Drag activated")
	}
}

func (gc *Coordinator) onPanMove(x float32) {
	s := gc.scrubber

	if s.config.Disabled {
		return
	}

	// every movement tick counts as scrubbing activity
	s.isScrubbing.Store(true)

	now := time.Now()
	s.renderer.revealBubble(now)

	m := s.mapper()
	offset := Clamp(x, 0, m.usableWidth())
	s.thumbOffset.Store(offset)

	// the live drag value clamps against the raw Max rather than the Min+Max
	// span. Min is conventionally 0, and existing callers rely on this exact
	// behavior, so it stays.
	value := Clamp(m.OffsetToValue(offset), m.Min, m.Max)
	s.progress.Store(value)

	s.bubble.Publish(value)

	if cb := s.callbacks.OnValueChange; cb != nil {
		s.dispatcher.Dispatch(func() { cb(value) })
	}
}

func (gc *Coordinator) onPanEnd() {
	s := gc.scrubber

	// the release tick itself counts as scrubbing activity; resetting the
	// flag to false is the caller's job, never ours
	s.isScrubbing.Store(true)

	if s.config.Disabled {
		return
	}

	s.renderer.concealBubble(time.Now())

	value := s.mapper().OffsetToValue(s.thumbOffset.Load())

	if cb := s.callbacks.OnSlidingComplete; cb != nil {
		s.dispatcher.Dispatch(func() { cb(value) })
	}

	if s.Verbose() {
		gc.logger.Debugw("Drag released", "value", value)
	}
}

func (gc *Coordinator) onTap(x float32) {
	s := gc.scrubber

	// tap observers hear about every tap, even while the control is disabled
	if cb := s.callbacks.OnTap; cb != nil {
		s.dispatcher.Dispatch(cb)
	}

	if s.config.Disabled || !s.config.TapToSeek {
		return
	}

	// a tap-seek is a single-point drag step at the tap location,
	// followed by an immediate release
	gc.onPanMove(x)
	gc.onPanEnd()
}

func (s PanState) String() string {
	switch s {
	case PanIdle:
		return "PanIdle"
	case PanStarting:
		return "PanStarting"
	case PanDragging:
		return "PanDragging"
	default:
		return "PanUnknown"
	}
}

func (s TapState) String() string {
	switch s {
	case TapIdle:
		return "TapIdle"
	case TapTracking:
		return "TapTracking"
	default:
		return "TapUnknown"
	}
}
