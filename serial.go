package scrubber

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jacobsa/go-serial/serial"
	"go.uber.org/zap"
)

// SerialSource reads pointer events from a hardware scrub wheel or strip
// attached over a serial port. The device streams one wire-format line per
// pointer sample; garbage lines are ignored.
type SerialSource struct {
	scrubber *Scrubber

	logger      *zap.SugaredLogger
	namedLogger *zap.SugaredLogger
	stopChannel chan bool
	connected   bool
	connOptions serial.OpenOptions
	conn        io.ReadWriteCloser

	filter *pointerFilter

	pointerConsumers []chan PointerEvent
}

// NewSerialSource creates a SerialSource that uses the provided scrubber
// instance's connection info to establish communications with the device
func NewSerialSource(scrubber *Scrubber, logger *zap.SugaredLogger) (*SerialSource, error) {
	logger = logger.Named("serial")

	ss := &SerialSource{
		scrubber:         scrubber,
		logger:           logger,
		stopChannel:      make(chan bool),
		connected:        false,
		conn:             nil,
		filter:           newPointerFilter(scrubber),
		pointerConsumers: []chan PointerEvent{},
	}

	logger.Debug("Created serial source instance")

	// respond to config changes
	ss.setupOnConfigReload()

	return ss, nil
}

// Start opens the serial port and begins reading pointer lines in the background
func (ss *SerialSource) Start() error {
	// don't allow multiple concurrent connections
	if ss.connected {
		ss.logger.Warn("Already connected, can't start another without closing first")
		return errors.New("serial: connection already active")
	}

	ss.connOptions = serial.OpenOptions{
		PortName:        ss.scrubber.config.ConnectionInfo.COMPort,
		BaudRate:        uint(ss.scrubber.config.ConnectionInfo.BaudRate),
		DataBits:        8,
		StopBits:        1,
		MinimumReadSize: 1,
	}

	ss.namedLogger = ss.logger.Named(strings.ToLower(ss.connOptions.PortName))

	ss.logger.Debugw("Attempting serial connection",
		"comPort", ss.connOptions.PortName,
		"baudRate", ss.connOptions.BaudRate)

	var err error
	ss.conn, err = serial.Open(ss.connOptions)
	if err != nil {
		ss.namedLogger.Warnw("Failed to open serial connection", "error", err)
		return fmt.Errorf("open serial connection: %w", err)
	}

	ss.namedLogger.Infow("Connected", "conn", ss.conn)
	ss.connected = true

	// read lines or await a stop
	go func() {
		lineChannel := ss.readLine(ss.namedLogger)

		for {
			select {
			case <-ss.stopChannel:
				ss.close(ss.namedLogger)
				return
			case line := <-lineChannel:
				ss.handleLine(ss.namedLogger, line)
			}
		}
	}()

	return nil
}

// Stop signals us to shut down our serial connection, if one is active
func (ss *SerialSource) Stop() {
	if ss.connected {
		ss.logger.Debug("Shutting down serial connection")
		ss.stopChannel <- true
	} else {
		ss.logger.Debug("Not currently connected, nothing to stop")
	}
}

// SubscribeToPointerEvents returns an unbuffered channel that receives
// a PointerEvent struct for every accepted pointer sample
func (ss *SerialSource) SubscribeToPointerEvents() chan PointerEvent {
	ch := make(chan PointerEvent)
	ss.pointerConsumers = append(ss.pointerConsumers, ch)

	return ch
}

func (ss *SerialSource) setupOnConfigReload() {
	configReloadedChannel := ss.scrubber.config.SubscribeToChanges()

	const stopDelay = 50 * time.Millisecond

	go func() {
		for range configReloadedChannel {

			// the noise gate's reference position may be stale after a reload
			// (inversion or layout assumptions could have changed)
			ss.filter.reset()

			// if connection params have changed, attempt to stop and start the connection
			if ss.scrubber.config.ConnectionInfo.COMPort != ss.connOptions.PortName ||
				uint(ss.scrubber.config.ConnectionInfo.BaudRate) != ss.connOptions.BaudRate {

				ss.logger.Info("Detected change in connection parameters, attempting to renew connection")
				ss.Stop()

				// let the connection close
				<-time.After(stopDelay)

				if err := ss.Start(); err != nil {
					ss.logger.Warnw("Failed to renew connection after parameter change", "error", err)
				} else {
					ss.logger.Debug("Renewed connection successfully")
				}
			}
		}
	}()
}

func (ss *SerialSource) close(logger *zap.SugaredLogger) {
	if err := ss.conn.Close(); err != nil {
		logger.Warnw("Failed to close serial connection", "error", err)
	} else {
		logger.Debug("Serial connection closed")
	}

	ss.conn = nil
	ss.connected = false
}

func (ss *SerialSource) readLine(logger *zap.SugaredLogger) chan string {
	ch := make(chan string)

	go func() {
		reader := bufio.NewReader(ss.conn)

		for {
			line, err := reader.ReadString('\n')
			if err != nil {

				// we probably don't need to log this, it'll happen once and the read loop will stop
				return
			}

			// no reason to log here, just deliver the line to the channel
			ch <- line
		}
	}()

	return ch
}

func (ss *SerialSource) handleLine(logger *zap.SugaredLogger, line string) {

	// this function receives an unsanitized line which is guaranteed to end with LF.
	// it may also have garbage instead of pointer samples, so we must check for
	// that! just ignore bad ones
	event, ok := parsePointerLine(line)
	if !ok {
		if ss.scrubber.Verbose() {
			logger.Debugw("Got malformed line from serial, ignoring", "line", line)
		}
		return
	}

	event, deliver := ss.filter.apply(event)
	if !deliver {
		return
	}

	// deliver the event towards all potential consumers
	for _, consumer := range ss.pointerConsumers {
		consumer <- event
	}
}
