package habits

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/mfdias/rotina/internal/habits/catalog"
	"github.com/mfdias/rotina/internal/habits/journal"
	"github.com/mfdias/rotina/internal/habits/ledger"
	"github.com/mfdias/rotina/internal/habits/milestone"
	"github.com/mfdias/rotina/internal/habits/period"
	"github.com/mfdias/rotina/internal/habits/scoring"
	"github.com/mfdias/rotina/internal/habits/settings"
	"github.com/mfdias/rotina/internal/telemetry/metrics"
	"github.com/mfdias/rotina/internal/telemetry/tracing"
)

var (
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrInvalidMeal marks meal requests rejected by validation, as opposed
	// to failures of the backing store.
	ErrInvalidMeal = errors.New("invalid meal request")
)

// ActionResult is what a single recorded action produced.
type ActionResult struct {
	Action     catalog.Action   `json:"action"`
	Done       bool             `json:"done"`
	Points     int              `json:"points"`
	Totals     scoring.Totals   `json:"totals"`
	Max        scoring.Max      `json:"max"`
	Percent    float64          `json:"percent"`
	Milestones []milestone.Kind `json:"milestones,omitempty"`
	Message    string           `json:"message"`
}

// Progress is the current state of one day.
type Progress struct {
	Date       time.Time      `json:"date"`
	Totals     scoring.Totals `json:"totals"`
	Max        scoring.Max    `json:"max"`
	Percent    float64        `json:"percent"`
	CheatMeals int            `json:"cheatMeals"`
	Message    string         `json:"message"`
}

// WaterStatus breaks the day's hydration down per container.
type WaterStatus struct {
	Items     []WaterItem `json:"items"`
	Points    int         `json:"points"`
	MaxPoints int         `json:"maxPoints"`
	Message   string      `json:"message"`
}

type WaterItem struct {
	Action catalog.Action `json:"action"`
	Weight int            `json:"weight"`
	Done   bool           `json:"done"`
}

type undoEntry struct {
	date     time.Time
	action   catalog.Action
	previous int
}

// Service ties the ledger, settings, journal and period aggregation together
// behind the operations the HTTP handler and the reminder scheduler call.
type Service struct {
	catalog  *catalog.Catalog
	ledger   *ledger.Ledger
	settings *settings.Store
	journal  *journal.Journal
	location *time.Location
	metrics  *metrics.Manager

	// now is swapped in tests.
	now func() time.Time

	undoMutex sync.Mutex
	lastUndo  *undoEntry
}

func NewService(
	cat *catalog.Catalog,
	dayLedger *ledger.Ledger,
	settingsStore *settings.Store,
	mealJournal *journal.Journal,
	location *time.Location,
	metricsManager *metrics.Manager,
) *Service {
	return &Service{
		catalog:  cat,
		ledger:   dayLedger,
		settings: settingsStore,
		journal:  mealJournal,
		location: location,
		metrics:  metricsManager,
		now:      time.Now,
	}
}

func (s *Service) today() time.Time {
	return s.now().In(s.location)
}

// Today is the current time in the user's configured timezone.
func (s *Service) Today() time.Time {
	return s.today()
}

// RecordAction marks an action done or undone for today and reports the new
// totals together with any milestone crossed by this very action.
func (s *Service) RecordAction(ctx context.Context, action catalog.Action, done bool) (res *ActionResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "habits.recordAction")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if !s.catalog.Known(action) {
		return nil, fmt.Errorf("%w: %s", catalog.ErrUnknownAction, action)
	}

	today := s.today()
	rec, err := s.ledger.GetOrCreate(ctx, today)
	if err != nil {
		return nil, err
	}
	before := scoring.ComputeTotals(s.catalog, rec)

	value := 0
	if done {
		value = 1
	}
	previous, err := s.ledger.UpdateField(ctx, today, action, value)
	if err != nil {
		return nil, err
	}
	s.rememberUndo(today, action, previous)

	rec.Values[action] = value
	delete(rec.Raw, action)
	after := scoring.ComputeTotals(s.catalog, rec)

	choice, err := s.settings.GymDayChoice(ctx)
	if err != nil {
		log.Errorf("record action: gym day choice unavailable: %s", err)
		choice = catalog.ChoiceNone
	}
	max := scoring.ComputeMax(s.catalog, today.Weekday(), choice)

	res = &ActionResult{
		Action:  action,
		Done:    done,
		Points:  scoring.PointsFor(s.catalog, action, value),
		Totals:  after,
		Max:     max,
		Percent: scoring.Percent(after.Grand, max.Total),
	}
	if done {
		res.Milestones = milestone.Detect(before, after, max, action)
	}
	res.Message = recordedMessage(res)

	s.metrics.CounterActionsRecorded.WithLabelValues(string(action)).Inc()
	return res, nil
}

// TodayProgress recomputes today's totals from the ledger row.
func (s *Service) TodayProgress(ctx context.Context) (p *Progress, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "habits.todayProgress")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	today := s.today()
	rec, err := s.ledger.GetOrCreate(ctx, today)
	if err != nil {
		return nil, err
	}
	choice, err := s.settings.GymDayChoice(ctx)
	if err != nil {
		log.Errorf("today progress: gym day choice unavailable: %s", err)
		choice = catalog.ChoiceNone
	}

	totals := scoring.ComputeTotals(s.catalog, rec)
	max := scoring.ComputeMax(s.catalog, today.Weekday(), choice)
	p = &Progress{
		Date:       today,
		Totals:     totals,
		Max:        max,
		Percent:    scoring.Percent(totals.Grand, max.Total),
		CheatMeals: rec.Value(catalog.ActionCheatMeals),
	}
	p.Message = progressMessage(p)
	return p, nil
}

// WeekSummary aggregates the week containing today, Monday to Sunday.
func (s *Service) WeekSummary(ctx context.Context) (sum period.WeekSummary, msg string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "habits.weekSummary")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	from, to := weekBounds(s.today())
	recs, err := s.ledger.ReadRange(ctx, from, to)
	if err != nil {
		return period.WeekSummary{}, "", err
	}
	choice, err := s.settings.GymDayChoice(ctx)
	if err != nil {
		log.Errorf("week summary: gym day choice unavailable: %s", err)
		choice = catalog.ChoiceNone
	}
	sum = period.SummarizeWeek(s.catalog, from, to, choice, recs)
	return sum, weekSummaryMessage(sum), nil
}

// MonthSummary aggregates the calendar month containing today.
func (s *Service) MonthSummary(ctx context.Context) (sum period.MonthSummary, msg string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "habits.monthSummary")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	today := s.today()
	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, s.location)
	last := first.AddDate(0, 1, -1)

	recs, err := s.ledger.ReadRange(ctx, first, last)
	if err != nil {
		return period.MonthSummary{}, "", err
	}
	choice, err := s.settings.GymDayChoice(ctx)
	if err != nil {
		log.Errorf("month summary: gym day choice unavailable: %s", err)
		choice = catalog.ChoiceNone
	}
	sum = period.SummarizeMonth(s.catalog, today.Year(), today.Month(), s.location, choice, recs)
	return sum, monthSummaryMessage(sum), nil
}

// LogMeal appends a journal entry and, for regular meals, checks the meal
// off in today's ledger. Cheat meals bump the penalty counter instead.
func (s *Service) LogMeal(ctx context.Context, meal catalog.Action, description string, cheat bool) (msg string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "habits.logMeal")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	now := s.today()
	if meal == "" {
		meal = journal.MealTypeForHour(now.Hour())
	}
	switch meal {
	case catalog.ActionBreakfast, catalog.ActionLunch, catalog.ActionSnack, catalog.ActionDinner:
	default:
		return "", fmt.Errorf("%w: %q is not a meal", ErrInvalidMeal, meal)
	}
	if strings.TrimSpace(description) == "" {
		return "", fmt.Errorf("%w: description must not be empty", ErrInvalidMeal)
	}

	if err := s.journal.Log(ctx, now, meal, description, cheat); err != nil {
		return "", err
	}

	if cheat {
		count, err := s.ledger.IncrementCheatMeals(ctx, now)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf(
			"🍕 %s livre registrado. Total de refeições livres hoje: %d (penalidade semanal: -%d).",
			journal.MealName(meal), count, count*period.CheatMealPenalty,
		), nil
	}

	res, err := s.RecordAction(ctx, meal, true)
	if err != nil {
		return "", err
	}
	return res.Message, nil
}

// SetGymDay stores the weekend gym day preference.
func (s *Service) SetGymDay(ctx context.Context, choice catalog.ExerciseChoice) error {
	if choice != catalog.ChoiceFriday && choice != catalog.ChoiceSaturday {
		return fmt.Errorf("gym day must be %q or %q", catalog.ChoiceFriday, catalog.ChoiceSaturday)
	}
	return s.settings.SetGymDayChoice(ctx, choice)
}

func (s *Service) Weight(ctx context.Context) (float64, error) {
	return s.settings.Weight(ctx)
}

func (s *Service) SetWeight(ctx context.Context, weight float64) error {
	return s.settings.SetWeight(ctx, weight)
}

// WaterStatusToday reports the day's hydration per container.
func (s *Service) WaterStatusToday(ctx context.Context) (w *WaterStatus, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "habits.waterStatus")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	rec, err := s.ledger.GetOrCreate(ctx, s.today())
	if err != nil {
		return nil, err
	}

	w = &WaterStatus{}
	for _, a := range []catalog.Action{
		catalog.ActionWater1, catalog.ActionWater2, catalog.ActionWater3, catalog.ActionWaterCup,
	} {
		rule, err := s.catalog.Rule(a)
		if err != nil {
			return nil, err
		}
		done := rec.Done(a)
		w.Items = append(w.Items, WaterItem{Action: a, Weight: rule.Weight, Done: done})
		w.MaxPoints += rule.Weight
		if done {
			w.Points += rule.Weight
		}
	}
	w.Message = waterStatusMessage(w)
	return w, nil
}

// Undo restores the cell touched by the most recent mutation. One level
// deep; a second undo in a row fails.
func (s *Service) Undo(ctx context.Context) (msg string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "habits.undo")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	s.undoMutex.Lock()
	entry := s.lastUndo
	s.lastUndo = nil
	s.undoMutex.Unlock()

	if entry == nil {
		return "", ErrNothingToUndo
	}
	if _, err := s.ledger.UpdateField(ctx, entry.date, entry.action, entry.previous); err != nil {
		return "", err
	}
	return undoneMessage(entry.action, entry.previous), nil
}

// RefreshSummaries rewrites the formula mirrors for today's ledger row.
func (s *Service) RefreshSummaries(ctx context.Context) error {
	return s.ledger.RefreshFormulas(ctx, s.today())
}

// ExerciseToday returns today's scheduled session, if any.
func (s *Service) ExerciseToday(ctx context.Context) (catalog.Action, bool, error) {
	choice, err := s.settings.GymDayChoice(ctx)
	if err != nil {
		return "", false, err
	}
	a, ok := s.catalog.ExerciseFor(s.today().Weekday(), choice)
	return a, ok, nil
}

func (s *Service) rememberUndo(date time.Time, action catalog.Action, previous int) {
	s.undoMutex.Lock()
	defer s.undoMutex.Unlock()
	s.lastUndo = &undoEntry{date: date, action: action, previous: previous}
}

// weekBounds returns the Monday and Sunday of the week containing t.
func weekBounds(t time.Time) (from, to time.Time) {
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	from = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()).
		AddDate(0, 0, -daysSinceMonday)
	return from, from.AddDate(0, 0, 6)
}
