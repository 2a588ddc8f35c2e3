package scrubber

import (
	"fmt"
	"net"
	"strings"

	"go.uber.org/zap"
)

// UDPSource reads pointer events from remote controllers over UDP. Each
// datagram carries one or more wire-format lines, same protocol as the
// serial source.
type UDPSource struct {
	scrubber *Scrubber
	logger   *zap.SugaredLogger

	stopChannel chan bool

	connection *net.UDPConn

	filter *pointerFilter

	pointerConsumers []chan PointerEvent
}

// NewUDPSource creates a UDPSource that uses the provided scrubber
// instance's connection info to listen for remote controllers
func NewUDPSource(scrubber *Scrubber, logger *zap.SugaredLogger) (*UDPSource, error) {
	logger = logger.Named("udp")

	us := &UDPSource{
		scrubber:         scrubber,
		logger:           logger,
		stopChannel:      make(chan bool),
		filter:           newPointerFilter(scrubber),
		pointerConsumers: []chan PointerEvent{},
	}

	logger.Debug("Created UDP source instance")

	// respond to config changes
	us.setupOnConfigReload()

	return us, nil
}

// Start creates a UDP listener and begins reading packets in the background
func (us *UDPSource) Start() error {
	addr, err := net.ResolveUDPAddr("udp4", fmt.Sprintf(":%d", us.scrubber.config.UDPPort))
	if err != nil {
		us.logger.Warnw("Failed to resolve UDP address", "error", err)
		return fmt.Errorf("resolve udp address: %w", err)
	}

	connection, err := net.ListenUDP("udp4", addr)
	if err != nil {
		us.logger.Warnw("Failed to start UDP listener", "error", err)
		return fmt.Errorf("start udp listener: %w", err)
	}

	us.connection = connection

	namedLogger := us.logger.Named(fmt.Sprintf(":%d", us.scrubber.config.UDPPort))

	namedLogger.Infow("Listening", "conn", us.connection)

	// read packets or await a stop
	go func() {
		packetChannel := us.readPacket(namedLogger)

		for {
			select {
			case <-us.stopChannel:
				us.close(namedLogger)
				return
			case packet := <-packetChannel:
				us.handlePacket(namedLogger, packet)
			}
		}
	}()

	return nil
}

// Stop signals us to shut down our UDP listener, if one is active
func (us *UDPSource) Stop() {
	if us.connection != nil {
		us.logger.Debug("Shutting down UDP listener")
		us.stopChannel <- true
	} else {
		us.logger.Debug("Not currently listening, nothing to stop")
	}
}

// SubscribeToPointerEvents returns an unbuffered channel that receives
// a PointerEvent struct for every accepted pointer sample
func (us *UDPSource) SubscribeToPointerEvents() chan PointerEvent {
	ch := make(chan PointerEvent)
	us.pointerConsumers = append(us.pointerConsumers, ch)

	return ch
}

func (us *UDPSource) readPacket(logger *zap.SugaredLogger) chan string {
	packetChannel := make(chan string)

	go func() {
		for {
			packet := make([]byte, 4096)
			bytesRead, _, err := us.connection.ReadFromUDP(packet)
			if err != nil {

				if us.scrubber.Verbose() {
					logger.Warnw("Failed to read UDP packet", "error", err)
				}

				return
			}

			stringData := string(packet[:bytesRead])

			if us.scrubber.Verbose() {
				logger.Debugw("Read new packet", "packet", stringData)
			}

			packetChannel <- stringData
		}
	}()

	return packetChannel
}

func (us *UDPSource) handlePacket(logger *zap.SugaredLogger, packet string) {

	// a single datagram may batch several samples, one per line
	for _, line := range strings.Split(packet, "\n") {
		if line == "" {
			continue
		}

		event, ok := parsePointerLine(line)
		if !ok {
			if us.scrubber.Verbose() {
				logger.Debugw("Got malformed line from UDP, ignoring", "line", line)
			}
			continue
		}

		event, deliver := us.filter.apply(event)
		if !deliver {
			continue
		}

		// deliver the event towards all potential consumers
		for _, consumer := range us.pointerConsumers {
			consumer <- event
		}
	}
}

func (us *UDPSource) setupOnConfigReload() {
	configReloadedChannel := us.scrubber.config.SubscribeToChanges()

	go func() {
		for range configReloadedChannel {
			// the noise gate's reference position may be stale after a reload
			us.filter.reset()
		}
	}()
}

func (us *UDPSource) close(logger *zap.SugaredLogger) {
	if err := us.connection.Close(); err != nil {
		logger.Warnw("Failed to close UDP connection", "error", err)
	} else {
		logger.Debug("UDP connection closed")
	}

	us.connection = nil
}
