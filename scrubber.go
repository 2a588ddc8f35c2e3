// Package scrubber implements a headless range-selection control. Pointer
// input - delivered locally or streamed from hardware over serial/UDP - drives
// a pair of racing gesture recognizers that map drag and tap coordinates onto
// a bounded numeric value. The engine publishes per-frame render styles for
// the track fill, cache overlay, thumb and value bubble, and reports value
// changes to caller-supplied observers.
package scrubber

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/jay-jlm/scrubber/util"
)

const (

	// when this is set to anything, the scrubber won't start its serial/UDP sources
	envNoRemoteInput = "SCRUBBER_NO_REMOTE_INPUT"
)

// Scrubber is the main entity managing access to all sub-components
type Scrubber struct {
	logger   *zap.SugaredLogger
	notifier Notifier
	config   *CanonicalConfig
	verbose  bool

	dispatcher *Dispatcher

	// shared values - the caller may write any of these at any time
	progress    *Cell[float32]
	cache       *Cell[float32]
	domainMin   *Cell[float32]
	domainMax   *Cell[float32]
	thumbScale  *Cell[float32]
	isScrubbing *Cell[bool]

	// layout-derived values
	containerWidth *Cell[float32]
	thumbOffset    *Cell[float32]

	layout   *LayoutTracker
	gestures *Coordinator
	renderer *Renderer
	bubble   *BubbleText

	sources []PointerSource

	callbacks Callbacks

	stopChannel chan bool
	version     string
}

// NewScrubber creates a Scrubber instance
func NewScrubber(logger *zap.SugaredLogger, verbose bool) (*Scrubber, error) {
	logger = logger.Named("scrubber")

	notifier, err := NewDesktopNotifier(logger)
	if err != nil {
		logger.Errorw("Failed to create DesktopNotifier", "error", err)
		return nil, fmt.Errorf("create new DesktopNotifier: %w", err)
	}

	s := &Scrubber{
		logger:   logger,
		notifier: notifier,
		verbose:  verbose,

		progress:    NewCell[float32](0),
		cache:       NewCell[float32](0),
		domainMin:   NewCell[float32](0),
		domainMax:   NewCell[float32](1),
		thumbScale:  NewCell[float32](1),
		isScrubbing: NewCell(false),

		containerWidth: NewCell[float32](0),
		thumbOffset:    NewCell[float32](0),

		stopChannel: make(chan bool),
	}

	config, err := NewConfig(logger, notifier)
	if err != nil {
		logger.Errorw("Failed to create Config", "error", err)
		return nil, fmt.Errorf("create new Config: %w", err)
	}
	s.config = config

	s.dispatcher = NewDispatcher(logger)
	s.layout = newLayoutTracker(s, logger)
	s.bubble = newBubbleText(s, logger)
	s.renderer = newRenderer(s, logger)
	s.gestures = newCoordinator(s, logger)

	// hook the renderer up after every cell exists
	s.renderer.watchCells()

	logger.Debug("Created scrubber instance")

	return s, nil
}

// Initialize loads the config, sets up components and starts to run in the background
func (s *Scrubber) Initialize() error {
	defer s.recoverFromPanic()

	s.logger.Debug("Initializing")

	// load the config for the first time
	if err := s.config.Load(); err != nil {
		s.logger.Errorw("Failed to load config during initialization", "error", err)
		return fmt.Errorf("load config during init: %w", err)
	}

	s.dispatcher.Start()

	// watch the config file for changes
	go s.config.WatchConfigFileChanges()

	if _, noRemoteSet := os.LookupEnv(envNoRemoteInput); noRemoteSet {
		s.logger.Debugw("Running without remote input sources", "reason", "envvar set")
	} else if err := s.setupRemoteSources(); err != nil {
		s.logger.Warnw("Failed to set up remote input sources", "error", err)
	}

	// run in main goroutine while waiting on ctrl+C
	interruptChannel := util.SetupCloseHandler()

	go func() {
		<-interruptChannel
		s.logger.Warn("Interrupted")
		s.signalStop()
	}()

	s.run()

	return nil
}

// SetVersion causes the scrubber to log the version string it was built with
func (s *Scrubber) SetVersion(version string) {
	s.version = version
	s.logger.Infow("Version set", "version", version)
}

// Verbose returns a boolean indicating whether the scrubber is running in verbose mode
func (s *Scrubber) Verbose() bool {
	return s.verbose
}

// HandlePointer feeds one locally-produced pointer event through the gesture
// coordinator. Hosts embedding the engine call this directly instead of (or in
// addition to) the remote sources. Call from a single goroutine.
func (s *Scrubber) HandlePointer(e PointerEvent) {
	s.gestures.Handle(e)
}

// SetContainerWidth reports a measured track width to the layout tracker
func (s *Scrubber) SetContainerWidth(px float32) {
	s.layout.SetContainerWidth(px)
}

// SetCallbacks registers the caller-facing observers. Register before any
// input flows; the engine never resets them.
func (s *Scrubber) SetCallbacks(callbacks Callbacks) {
	s.callbacks = callbacks
}

// Progress exposes the current-value cell; the caller owns it and may write
// it at any time
func (s *Scrubber) Progress() *Cell[float32] { return s.progress }

// Cache exposes the secondary "buffered" value cell. Purely visual.
func (s *Scrubber) Cache() *Cell[float32] { return s.cache }

// DomainMin exposes the lower-bound cell
func (s *Scrubber) DomainMin() *Cell[float32] { return s.domainMin }

// DomainMax exposes the range-span cell. The total representable range is
// DomainMin + DomainMax, per the control's long-standing convention.
func (s *Scrubber) DomainMax() *Cell[float32] { return s.domainMax }

// ThumbScale exposes the thumb scale target cell; the rendered scale eases
// toward whatever is written here
func (s *Scrubber) ThumbScale() *Cell[float32] { return s.thumbScale }

// IsScrubbing exposes the scrubbing flag. The engine only ever sets it to
// true; resetting it is the caller's responsibility.
func (s *Scrubber) IsScrubbing() *Cell[bool] { return s.isScrubbing }

// Renderer exposes the render-state derivation component
func (s *Scrubber) Renderer() *Renderer { return s.renderer }

// Bubble exposes the bubble text adapter
func (s *Scrubber) Bubble() *BubbleText { return s.bubble }

// Config exposes the canonical configuration
func (s *Scrubber) Config() *CanonicalConfig { return s.config }

// mapper builds a value mapper from the current layout and bounds
func (s *Scrubber) mapper() Mapper {
	return Mapper{
		ContainerWidth: s.containerWidth.Load(),
		ThumbWidth:     s.config.ThumbWidth,
		Min:            s.domainMin.Load(),
		Max:            s.domainMax.Load(),
	}
}

func (s *Scrubber) setupRemoteSources() error {
	serial, err := NewSerialSource(s, s.logger)
	if err != nil {
		s.logger.Errorw("Failed to create SerialSource", "error", err)
		return fmt.Errorf("create new SerialSource: %w", err)
	}

	udp, err := NewUDPSource(s, s.logger)
	if err != nil {
		s.logger.Errorw("Failed to create UDPSource", "error", err)
		return fmt.Errorf("create new UDPSource: %w", err)
	}

	s.sources = []PointerSource{serial, udp}

	for _, source := range s.sources {

		// hardware may simply not be plugged in - warn and keep the rest running
		if err := source.Start(); err != nil {
			s.logger.Warnw("Failed to start pointer source, continuing without it", "error", err)
			continue
		}

		s.consumePointerEvents(source.SubscribeToPointerEvents())
	}

	return nil
}

// consumePointerEvents funnels a source's events into the gesture coordinator.
// All sources share one funnel goroutine per subscription, so the coordinator
// itself only ever runs on one goroutine at a time per source; interleaving
// between sources is the caller's configuration choice.
func (s *Scrubber) consumePointerEvents(ch chan PointerEvent) {
	go func() {
		defer s.recoverFromPanic()

		for event := range ch {
			s.gestures.Handle(event)
		}
	}()
}

func (s *Scrubber) run() {
	s.logger.Info("Run loop starting")

	// wait until stopped
	<-s.stopChannel
	s.logger.Info("Stop channel signaled, terminating")

	for _, source := range s.sources {
		source.Stop()
	}

	s.config.StopWatchingConfigFile()
	s.dispatcher.Stop()
}

func (s *Scrubber) signalStop() {
	s.logger.Debug("Signalling stop channel")
	s.stopChannel <- true
}
