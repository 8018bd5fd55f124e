package reminders

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/mfdias/rotina/internal/telemetry/metrics"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type captureNotifier struct {
	mutex    sync.Mutex
	messages []string
	err      error
}

func (c *captureNotifier) Notify(_ context.Context, slot, message string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.err != nil {
		return c.err
	}
	c.messages = append(c.messages, slot+": "+message)
	return nil
}

func (c *captureNotifier) all() []string {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return append([]string(nil), c.messages...)
}

func newTestScheduler(t *testing.T, slots []Slot, notifier Notifier) *Scheduler {
	t.Helper()
	s, err := NewScheduler(slots, time.UTC, notifier, metrics.NewTestManager())
	require.NoError(t, err)
	return s
}

func TestNewScheduler_RejectsBadClock(t *testing.T) {
	for _, at := range []string{"", "25:00", "12:61", "noon", "-1:30"} {
		_, err := NewScheduler([]Slot{{Name: "x", At: at, Fire: static("hi")}},
			time.UTC, LogNotifier{}, metrics.NewTestManager())
		assert.Error(t, err, "clock %q", at)
	}
}

func TestNextFire(t *testing.T) {
	s := newTestScheduler(t, nil, LogNotifier{})

	t.Run("later today", func(t *testing.T) {
		s.now = func() time.Time { return time.Date(2026, time.March, 9, 6, 0, 0, 0, time.UTC) }
		next := s.nextFire(Slot{At: "07:00"})
		assert.Equal(t, time.Date(2026, time.March, 9, 7, 0, 0, 0, time.UTC), next)
	})

	t.Run("already passed rolls to tomorrow", func(t *testing.T) {
		s.now = func() time.Time { return time.Date(2026, time.March, 9, 8, 0, 0, 0, time.UTC) }
		next := s.nextFire(Slot{At: "07:00"})
		assert.Equal(t, time.Date(2026, time.March, 10, 7, 0, 0, 0, time.UTC), next)
	})

	t.Run("exactly at the slot rolls to tomorrow", func(t *testing.T) {
		s.now = func() time.Time { return time.Date(2026, time.March, 9, 7, 0, 0, 0, time.UTC) }
		next := s.nextFire(Slot{At: "07:00"})
		assert.Equal(t, time.Date(2026, time.March, 10, 7, 0, 0, 0, time.UTC), next)
	})
}

func TestFire(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers the message", func(t *testing.T) {
		notifier := &captureNotifier{}
		s := newTestScheduler(t, nil, notifier)
		s.fire(ctx, Slot{Name: "lunch", Fire: static("hora do almoço")})
		assert.Equal(t, []string{"lunch: hora do almoço"}, notifier.all())
	})

	t.Run("empty message skips delivery", func(t *testing.T) {
		notifier := &captureNotifier{}
		s := newTestScheduler(t, nil, notifier)
		s.fire(ctx, Slot{Name: "hydration", Fire: static("")})
		assert.Empty(t, notifier.all())
	})

	t.Run("fire error is contained", func(t *testing.T) {
		notifier := &captureNotifier{}
		s := newTestScheduler(t, nil, notifier)
		s.fire(ctx, Slot{Name: "broken", Fire: func(context.Context) (string, error) {
			return "", fmt.Errorf("sheet unavailable")
		}})
		assert.Empty(t, notifier.all())
	})

	t.Run("panic is contained", func(t *testing.T) {
		s := newTestScheduler(t, nil, &captureNotifier{})
		assert.NotPanics(t, func() {
			s.fire(ctx, Slot{Name: "paniky", Fire: func(context.Context) (string, error) {
				panic("boom")
			}})
		})
	})
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	slots := []Slot{
		{Name: "far_away", At: "03:00", Days: EveryDay, Fire: static("never")},
		{Name: "other", At: "04:00", Days: EveryDay, Fire: static("never")},
	}
	s := newTestScheduler(t, slots, &captureNotifier{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
}

func TestDayGates(t *testing.T) {
	assert.True(t, Weekdays(time.Monday))
	assert.False(t, Weekdays(time.Saturday))
	assert.True(t, Weekends(time.Sunday))
	assert.False(t, Weekends(time.Friday))
	assert.True(t, EveryDay(time.Wednesday))
}
