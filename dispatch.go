package scrubber

import "go.uber.org/zap"

// Dispatcher marshals caller-facing callbacks onto a single goroutine, which
// keeps the gesture and render paths free of caller side effects. Callbacks
// run in submission order. Queueing never blocks: if the queue is full we
// drop the callback and warn, because stalling a live drag is worse than a
// missed notification.
type Dispatcher struct {
	logger *zap.SugaredLogger

	queue       chan func()
	stopChannel chan bool
}

const dispatchQueueSize = 64

// NewDispatcher creates a dispatcher; call Start before dispatching
func NewDispatcher(logger *zap.SugaredLogger) *Dispatcher {
	logger = logger.Named("dispatch")

	d := &Dispatcher{
		logger:      logger,
		queue:       make(chan func(), dispatchQueueSize),
		stopChannel: make(chan bool),
	}

	logger.Debug("Created dispatcher instance")

	return d
}

// Start launches the run loop goroutine
func (d *Dispatcher) Start() {
	go func() {
		for {
			select {
			case <-d.stopChannel:
				d.logger.Debug("Dispatcher run loop stopping")
				return
			case fn := <-d.queue:
				fn()
			}
		}
	}()
}

// Dispatch queues fn for execution on the run loop. Nil funcs are skipped.
func (d *Dispatcher) Dispatch(fn func()) {
	if fn == nil {
		return
	}

	select {
	case d.queue <- fn:
	default:
		d.logger.Warn("Dispatch queue full, dropping callback")
	}
}

// Stop signals the run loop to exit. Already-queued callbacks may be dropped.
func (d *Dispatcher) Stop() {
	d.stopChannel <- true
}
