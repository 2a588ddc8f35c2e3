package scrubber

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// FrameStyles is everything the visual layer needs to draw one frame: the
// fill and cache overlay widths, the thumb transform, and the bubble
// transform. It is derived from current state alone, so a stale frame can
// always be replaced by simply deriving a fresh one.
type FrameStyles struct {
	FillWidth float32

	ThumbTranslateX float32
	ThumbScale      float32

	CacheWidth float32

	BubbleTranslateX float32
	BubbleTranslateY float32
	BubbleOpacity    float32
	BubbleScale      float32
}

// frameInputs are the per-frame scalars deriveFrame folds together with the
// mapper; collected into a struct so the derivation stays a pure function
type frameInputs struct {
	progress      float32
	cache         float32
	thumbOffset   float32
	thumbScale    float32
	bubbleOpacity float32
	bubbleOffsetY float32
}

// deriveFrame computes the full set of visual parameters. It has no memory
// of previous frames, which is what lets a resize or an external progress
// write self-correct the visuals on the very next derivation.
func deriveFrame(m Mapper, in frameInputs) FrameStyles {
	frame := FrameStyles{
		FillWidth:       Clamp(m.ValueToOffset(in.progress)+m.ThumbWidth/2, 0, m.ContainerWidth),
		ThumbTranslateX: Clamp(m.ValueToOffset(in.progress), 0, m.usableWidth()),
		ThumbScale:      in.thumbScale,

		BubbleTranslateX: in.thumbOffset + m.ThumbWidth/2,
		BubbleTranslateY: -in.bubbleOffsetY,
		BubbleOpacity:    in.bubbleOpacity,
		BubbleScale:      in.bubbleOpacity,
	}

	// a missing cache value and a zero one draw the same: nothing
	if total := m.TotalRange(); total != 0 && in.cache > 0 {
		frame.CacheWidth = (in.cache / total) * m.ContainerWidth
	}

	return frame
}

const (
	bubbleFadeDuration = 120 * time.Millisecond
	thumbScaleDuration = 100 * time.Millisecond

	frameConsumerBuffer = 16
)

// Renderer recomputes frame styles whenever any shared value changes and
// publishes them to subscribers. Publishing never blocks the input path - a
// lagging consumer just misses intermediate frames, and every frame it does
// receive is self-consistent.
type Renderer struct {
	scrubber *Scrubber
	logger   *zap.SugaredLogger

	bubbleOpacity *Transition
	thumbScale    *Transition

	consumersLock  sync.Mutex
	frameConsumers []chan FrameStyles
}

func newRenderer(scrubber *Scrubber, logger *zap.SugaredLogger) *Renderer {
	logger = logger.Named("render")

	r := &Renderer{
		scrubber:      scrubber,
		logger:        logger,
		bubbleOpacity: NewTransition(0),
		thumbScale:    NewTransition(1),
	}

	logger.Debug("Created renderer instance")

	return r
}

// watchCells hooks the renderer up to every shared value that affects the
// visuals, so external writes re-derive the frame without any caller help
func (r *Renderer) watchCells() {
	s := r.scrubber

	republish := func(float32) { r.publish(time.Now()) }

	s.progress.Watch(republish)
	s.cache.Watch(republish)
	s.domainMin.Watch(republish)
	s.domainMax.Watch(republish)
	s.containerWidth.Watch(republish)
	s.thumbOffset.Watch(republish)

	// the thumb scale cell holds a target; the rendered scale eases toward it
	s.thumbScale.Watch(func(target float32) {
		now := time.Now()
		r.thumbScale.Start(target, now, thumbScaleDuration)
		r.publish(now)
	})
}

// SubscribeToFrames returns a buffered channel that receives a FrameStyles
// for every state change. Intermediate frames may be dropped if the consumer
// falls behind.
func (r *Renderer) SubscribeToFrames() chan FrameStyles {
	ch := make(chan FrameStyles, frameConsumerBuffer)

	r.consumersLock.Lock()
	r.frameConsumers = append(r.frameConsumers, ch)
	r.consumersLock.Unlock()

	return ch
}

// Frame derives the current frame styles from shared state at the given time
func (r *Renderer) Frame(now time.Time) FrameStyles {
	s := r.scrubber

	return deriveFrame(s.mapper(), frameInputs{
		progress:      s.progress.Load(),
		cache:         s.cache.Load(),
		thumbOffset:   s.thumbOffset.Load(),
		thumbScale:    r.thumbScale.ValueAt(now),
		bubbleOpacity: r.bubbleOpacity.ValueAt(now),
		bubbleOffsetY: s.config.BubbleOffset,
	})
}

// BubbleOpacityTarget reports where the bubble fade is heading (0 or 1)
func (r *Renderer) BubbleOpacityTarget() float32 {
	return r.bubbleOpacity.Target()
}

// revealBubble fades the bubble in; called on every drag movement, so it has
// to tolerate being started toward an unchanged target
func (r *Renderer) revealBubble(now time.Time) {
	r.bubbleOpacity.Start(1, now, bubbleFadeDuration)
	r.publish(now)
}

// concealBubble fades the bubble back out on release
func (r *Renderer) concealBubble(now time.Time) {
	r.bubbleOpacity.Start(0, now, bubbleFadeDuration)
	r.publish(now)
}

func (r *Renderer) publish(now time.Time) {
	frame := r.Frame(now)

	r.consumersLock.Lock()
	consumers := r.frameConsumers
	r.consumersLock.Unlock()

	for _, consumer := range consumers {
		select {
		case consumer <- frame:
		default:
			// consumer is behind; it'll get a fresher frame on the next change
		}
	}
}
