package scrubber

import (
	"strconv"

	"github.com/chewxy/math32"
	"go.uber.org/zap"
)

// BubbleText formats the current value for the floating bubble and forwards
// it to exactly one destination: a caller-supplied sink if one is registered,
// or the built-in label cell otherwise. Never both.
type BubbleText struct {
	scrubber *Scrubber
	logger   *zap.SugaredLogger

	formatter func(value float32) string
	sink      func(text string)
	label     *Cell[string]
}

func newBubbleText(scrubber *Scrubber, logger *zap.SugaredLogger) *BubbleText {
	logger = logger.Named("bubble")

	bt := &BubbleText{
		scrubber: scrubber,
		logger:   logger,
		label:    NewCell(""),
	}

	logger.Debug("Created bubble text adapter instance")

	return bt
}

// SetFormatter registers a custom value formatter. A nil formatter restores
// the default two-decimal rendering.
func (bt *BubbleText) SetFormatter(fn func(value float32) string) {
	bt.formatter = fn
}

// SetSink registers an external text sink. While a sink is set, the built-in
// label cell stops updating; sink calls run on the dispatcher goroutine.
func (bt *BubbleText) SetSink(fn func(text string)) {
	bt.sink = fn
}

// Label exposes the built-in label holder for hosts without a text sink
func (bt *BubbleText) Label() *Cell[string] {
	return bt.label
}

// Publish formats the value and forwards it to the registered destination
func (bt *BubbleText) Publish(value float32) {
	text := bt.format(value)

	if bt.sink != nil {
		sink := bt.sink
		bt.scrubber.dispatcher.Dispatch(func() { sink(text) })
		return
	}

	bt.label.Store(text)
}

func (bt *BubbleText) format(value float32) string {
	if bt.formatter != nil {
		return bt.formatter(value)
	}

	// default: round to the configured precision, drop trailing zeros
	// ("50", not "50.00")
	shift := math32.Pow(10, float32(bt.scrubber.config.ValuePrecision))
	rounded := math32.Round(value*shift) / shift
	return strconv.FormatFloat(float64(rounded), 'f', -1, 32)
}
