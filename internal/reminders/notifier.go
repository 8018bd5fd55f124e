package reminders

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// Notifier delivers a reminder message to the user. The log notifier is the
// default sink; a chat transport can be plugged in without touching the
// scheduler.
type Notifier interface {
	Notify(ctx context.Context, slot, message string) error
}

type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, slot, message string) error {
	log.WithField("slot", slot).Info(message)
	return nil
}
