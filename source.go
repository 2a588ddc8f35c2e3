package scrubber

// PointerSource is a transport streaming remote pointer events into the
// engine. The engine starts each source, funnels its subscription into the
// gesture coordinator, and stops it on shutdown.
type PointerSource interface {
	Start() error
	Stop()
	SubscribeToPointerEvents() chan PointerEvent
}

var (
	_ PointerSource = (*SerialSource)(nil)
	_ PointerSource = (*UDPSource)(nil)
)
