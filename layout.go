package scrubber

import (
	"go.uber.org/zap"
)

// LayoutTracker receives measured container sizes from the host and keeps the
// thumb's pixel offset consistent with the current value across resizes.
type LayoutTracker struct {
	scrubber *Scrubber
	logger   *zap.SugaredLogger
}

func newLayoutTracker(scrubber *Scrubber, logger *zap.SugaredLogger) *LayoutTracker {
	logger = logger.Named("layout")

	lt := &LayoutTracker{
		scrubber: scrubber,
		logger:   logger,
	}

	logger.Debug("Created layout tracker instance")

	return lt
}

// SetContainerWidth records a measured track width in pixels and re-derives
// the thumb offset from the current progress value. Idempotent: repeated
// reports of the same width land on the same offset, and a first report
// arriving while the width is still 0 is fine.
func (lt *LayoutTracker) SetContainerWidth(px float32) {
	s := lt.scrubber

	if px < 0 {
		px = 0
	}

	s.containerWidth.Store(px)

	m := s.mapper()

	var offset float32
	if total := m.TotalRange(); total != 0 {
		offset = Clamp((s.progress.Load()/total)*px, 0, m.usableWidth())
	}

	s.thumbOffset.Store(offset)

	lt.logger.Debugw("Container width updated", "width", px, "thumbOffset", offset)
}
