// Package reminders fires the day's scheduled nudges at their wall clock
// times. Each slot runs on its own goroutine; a slot that panics or errors
// never takes the others down, and fires missed while the process was off
// are not replayed.
package reminders

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/mfdias/rotina/internal/telemetry/metrics"
	"github.com/mfdias/rotina/internal/telemetry/tracing"
)

// Slot is one scheduled reminder. Fire builds the message; returning an
// empty message with a nil error skips the delivery.
type Slot struct {
	Name string
	At   string // "HH:MM" wall clock in the scheduler's location
	Days func(time.Weekday) bool
	Fire func(ctx context.Context) (string, error)
}

func Weekdays(d time.Weekday) bool {
	return d != time.Saturday && d != time.Sunday
}

func Weekends(d time.Weekday) bool {
	return d == time.Saturday || d == time.Sunday
}

func EveryDay(time.Weekday) bool {
	return true
}

type Scheduler struct {
	slots    []Slot
	location *time.Location
	notifier Notifier
	metrics  *metrics.Manager

	// now is swapped in tests.
	now func() time.Time

	wg sync.WaitGroup
}

func NewScheduler(slots []Slot, location *time.Location, notifier Notifier, metricsManager *metrics.Manager) (*Scheduler, error) {
	for _, s := range slots {
		if _, err := parseClock(s.At); err != nil {
			return nil, fmt.Errorf("slot %s: %w", s.Name, err)
		}
	}
	return &Scheduler{
		slots:    slots,
		location: location,
		notifier: notifier,
		metrics:  metricsManager,
		now:      time.Now,
	}, nil
}

// Run starts one goroutine per slot and blocks until ctx is done and every
// slot goroutine has drained.
func (s *Scheduler) Run(ctx context.Context) {
	log.Debugf("reminders: starting %d slots", len(s.slots))
	for _, slot := range s.slots {
		s.wg.Add(1)
		go s.runSlot(ctx, slot)
	}
	s.wg.Wait()
	log.Debug("reminders: all slots stopped")
}

func (s *Scheduler) runSlot(ctx context.Context, slot Slot) {
	defer s.wg.Done()

	for {
		next := s.nextFire(slot)
		timer := time.NewTimer(next.Sub(s.now().In(s.location)))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if slot.Days != nil && !slot.Days(next.Weekday()) {
			continue
		}
		s.fire(ctx, slot)
	}
}

func (s *Scheduler) fire(ctx context.Context, slot Slot) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("reminders: slot %s panicked: %v", slot.Name, r)
			s.metrics.CounterReminderErrors.Inc()
		}
	}()

	ctx, span := tracing.GlobalRemindersTracer.Start(ctx, "reminders.fire")
	var err error
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	var message string
	message, err = slot.Fire(ctx)
	if err != nil {
		log.Errorf("reminders: slot %s: %s", slot.Name, err)
		s.metrics.CounterReminderErrors.Inc()
		return
	}
	if message == "" {
		log.Debugf("reminders: slot %s skipped", slot.Name)
		return
	}
	if err = s.notifier.Notify(ctx, slot.Name, message); err != nil {
		log.Errorf("reminders: notify %s: %s", slot.Name, err)
		s.metrics.CounterReminderErrors.Inc()
		return
	}
	s.metrics.CounterRemindersSent.WithLabelValues(slot.Name).Inc()
}

// nextFire returns the next wall clock occurrence of the slot's time,
// today if still ahead, otherwise tomorrow. Day gating happens at fire
// time so a Monday-only slot sleeping through Sunday costs one wakeup.
func (s *Scheduler) nextFire(slot Slot) time.Time {
	clock, _ := parseClock(slot.At)
	now := s.now().In(s.location)
	next := time.Date(now.Year(), now.Month(), now.Day(), clock.hour, clock.minute, 0, 0, s.location)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

type clockTime struct {
	hour, minute int
}

func parseClock(at string) (clockTime, error) {
	var c clockTime
	if _, err := fmt.Sscanf(at, "%d:%d", &c.hour, &c.minute); err != nil {
		return c, fmt.Errorf("bad clock time %q: %w", at, err)
	}
	if c.hour < 0 || c.hour > 23 || c.minute < 0 || c.minute > 59 {
		return c, fmt.Errorf("bad clock time %q", at)
	}
	return c, nil
}
