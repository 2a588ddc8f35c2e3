package scrubber

import (
	"fmt"

	"github.com/gen2brain/beeep"
	"go.uber.org/zap"
)

// Notifier provides generic notification sending
type Notifier interface {
	Notify(title string, message string) error
}

// DesktopNotifier sends desktop notifications on whatever platform we're on
type DesktopNotifier struct {
	logger *zap.SugaredLogger
}

// NewDesktopNotifier creates a new DesktopNotifier
func NewDesktopNotifier(logger *zap.SugaredLogger) (*DesktopNotifier, error) {
	logger = logger.Named("notifier")
	logger.Debug("Created desktop notifier instance")

	return &DesktopNotifier{logger: logger}, nil
}

// Notify sends a desktop notification
func (dn *DesktopNotifier) Notify(title string, message string) error {
	dn.logger.Debugw("Sending notification", "title", title)

	if err := beeep.Notify(title, message, ""); err != nil {
		return fmt.Errorf("send desktop notification: %w", err)
	}

	return nil
}
