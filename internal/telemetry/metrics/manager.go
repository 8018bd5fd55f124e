package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests           *prometheus.CounterVec
	CounterActionsRecorded    *prometheus.CounterVec
	CounterMealsLogged        prometheus.Counter
	CounterCheatMeals         prometheus.Counter
	CounterRemindersSent      *prometheus.CounterVec
	CounterReminderErrors     prometheus.Counter
	CounterSheetsErrors       prometheus.Counter
	CounterHandleRequestPanic prometheus.Counter

	// gauges
	GaugeRequests   prometheus.Gauge
	GaugeLifeSignal prometheus.Gauge

	// histograms
	HistogramRequestDuration *prometheus.HistogramVec
	HistSheetsCallDuration   prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager("rotina", "test_service", prometheus.NewRegistry())
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request",
		Help:      "The total number of incoming requests",
	}, []string{"method", "status"})
	counterActionsRecorded := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "actions_recorded",
		Help:      "The total number of habit actions recorded",
	}, []string{"action"})
	counterMealsLogged := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "meals_logged",
		Help:      "The total number of meals logged to the meal journal",
	})
	counterCheatMeals := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "cheat_meals",
		Help:      "The total number of cheat meals logged",
	})
	counterRemindersSent := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "reminders_sent",
		Help:      "The total number of reminders fired",
	}, []string{"slot"})
	counterReminderErrors := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "reminder_errors",
		Help:      "The total number of reminder firings that failed",
	})
	counterSheetsErrors := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "sheets_errors",
		Help:      "The total number of failed spreadsheet store calls",
	})
	counterHandleRequestPanic := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "handle_request_panic",
		Help:      "The total number of serve request panics",
	})

	gaugeRequests := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "current_requests",
		Help:      "Current number of requests served",
	})
	gaugeLifeSignal := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "life_signal",
		Help:      "Used as a life signal indicator",
	})

	histogramRequestDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request_duration",
		Help:      "Request serving duration in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})
	histSheetsCallDuration := factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "sheets_call_duration",
		Help:      "Spreadsheet store call duration in seconds",
		Buckets:   prometheus.DefBuckets,
	})

	return &Manager{
		CounterRequests:           counterRequests,
		CounterActionsRecorded:    counterActionsRecorded,
		CounterMealsLogged:        counterMealsLogged,
		CounterCheatMeals:         counterCheatMeals,
		CounterRemindersSent:      counterRemindersSent,
		CounterReminderErrors:     counterReminderErrors,
		CounterSheetsErrors:       counterSheetsErrors,
		CounterHandleRequestPanic: counterHandleRequestPanic,
		GaugeRequests:             gaugeRequests,
		GaugeLifeSignal:           gaugeLifeSignal,
		HistogramRequestDuration:  histogramRequestDuration,
		HistSheetsCallDuration:    histSheetsCallDuration,
	}
}
