package habits

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfdias/rotina/internal/habits/catalog"
	"github.com/mfdias/rotina/internal/habits/journal"
	"github.com/mfdias/rotina/internal/habits/ledger"
	"github.com/mfdias/rotina/internal/habits/milestone"
	"github.com/mfdias/rotina/internal/habits/settings"
	"github.com/mfdias/rotina/internal/telemetry/metrics"
)

// memStore is a tiny multi-sheet spreadsheet: ranges are "Sheet!A1" style
// and rows live per sheet.
type memStore struct {
	sheets map[string][][]any
}

func newMemStore() *memStore {
	cat := catalog.New()
	header := []any{"date", "day"}
	for _, a := range cat.Actions() {
		header = append(header, string(a))
	}
	header = append(header, "daily_pts", "exercise_pts", "total_pts")
	return &memStore{sheets: map[string][][]any{
		"Daily_Log": {header},
		"Config":    {{"key", "value"}},
		"Meals_Log": {},
	}}
}

func (m *memStore) split(r string) (sheet, a1 string) {
	sheet, a1, _ = strings.Cut(r, "!")
	return sheet, a1
}

func (m *memStore) Get(_ context.Context, readRange string) ([][]any, error) {
	sheet, _ := m.split(readRange)
	rows := m.sheets[sheet]
	out := make([][]any, len(rows))
	for i, r := range rows {
		out[i] = append([]any(nil), r...)
	}
	return out, nil
}

func (m *memStore) Update(_ context.Context, updateRange string, rows [][]any) error {
	sheet, a1 := m.split(updateRange)
	col, row := 0, 0
	i := 0
	for i < len(a1) && a1[i] >= 'A' && a1[i] <= 'Z' {
		col = col*26 + int(a1[i]-'A'+1)
		i++
	}
	col--
	if _, err := fmt.Sscanf(a1[i:], "%d", &row); err != nil {
		return fmt.Errorf("bad range %q: %w", updateRange, err)
	}
	target := m.sheets[sheet][row-1]
	for j, v := range rows[0] {
		for len(target) <= col+j {
			target = append(target, nil)
		}
		target[col+j] = v
	}
	m.sheets[sheet][row-1] = target
	return nil
}

func (m *memStore) UpdateFormulas(ctx context.Context, updateRange string, rows [][]any) error {
	return m.Update(ctx, updateRange, rows)
}

func (m *memStore) Append(_ context.Context, appendRange string, rows [][]any) error {
	sheet, _ := m.split(appendRange)
	m.sheets[sheet] = append(m.sheets[sheet], rows...)
	return nil
}

func newTestService(t *testing.T, now time.Time) (*Service, *memStore) {
	t.Helper()
	store := newMemStore()
	mm := metrics.NewTestManager()
	cat := catalog.New()
	svc := NewService(
		cat,
		ledger.New(store, cat, "Daily_Log", mm),
		settings.New(store, "Config", mm),
		journal.New(store, "Meals_Log", mm),
		time.UTC,
		mm,
	)
	svc.now = func() time.Time { return now }
	return svc, store
}

func TestRecordAction_PointsAndTotals(t *testing.T) {
	monday := time.Date(2026, time.March, 9, 10, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, monday)
	ctx := context.Background()

	res, err := svc.RecordAction(ctx, catalog.ActionWater3, true)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Points)
	assert.Equal(t, 3, res.Totals.Grand)
	assert.Equal(t, 16, res.Max.Total, "monday has the pilates point")
	assert.Equal(t, []milestone.Kind{milestone.KindHardMode}, res.Milestones)
	assert.Contains(t, res.Message, "registrado")
}

func TestRecordAction_HalfwayFiresOnce(t *testing.T) {
	monday := time.Date(2026, time.March, 9, 10, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, monday)
	ctx := context.Background()

	var fired int
	for _, a := range []catalog.Action{
		catalog.ActionWakeUp7am, catalog.ActionCardio, catalog.ActionBreakfast,
		catalog.ActionLunch, catalog.ActionWater1, catalog.ActionWater2,
		catalog.ActionWater3, catalog.ActionSnack, catalog.ActionDinner,
	} {
		res, err := svc.RecordAction(ctx, a, true)
		require.NoError(t, err)
		for _, m := range res.Milestones {
			if m == milestone.KindHalfway {
				fired++
			}
		}
	}
	assert.Equal(t, 1, fired, "halfway fires exactly once per day")
}

func TestRecordAction_PerfectDay(t *testing.T) {
	sunday := time.Date(2026, time.March, 8, 10, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, sunday)
	ctx := context.Background()

	all := []catalog.Action{
		catalog.ActionBreakfast, catalog.ActionLunch, catalog.ActionSnack, catalog.ActionDinner,
		catalog.ActionWater1, catalog.ActionWater2, catalog.ActionWater3, catalog.ActionWaterCup,
		catalog.ActionBedroom, catalog.ActionBed,
	}
	var last *ActionResult
	for _, a := range all {
		res, err := svc.RecordAction(ctx, a, true)
		require.NoError(t, err)
		last = res
	}
	require.NotNil(t, last)
	assert.Equal(t, 13, last.Totals.Grand)
	assert.Contains(t, last.Milestones, milestone.KindPerfect)
}

func TestRecordAction_UnknownAction(t *testing.T) {
	svc, _ := newTestService(t, time.Date(2026, time.March, 9, 10, 0, 0, 0, time.UTC))
	_, err := svc.RecordAction(context.Background(), "situps", true)
	assert.ErrorIs(t, err, catalog.ErrUnknownAction)
}

func TestUndo(t *testing.T) {
	monday := time.Date(2026, time.March, 9, 10, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, monday)
	ctx := context.Background()

	_, err := svc.RecordAction(ctx, catalog.ActionBreakfast, true)
	require.NoError(t, err)

	msg, err := svc.Undo(ctx)
	require.NoError(t, err)
	assert.Contains(t, msg, "Desfeito")

	progress, err := svc.TodayProgress(ctx)
	require.NoError(t, err)
	assert.Zero(t, progress.Totals.Nutrition)

	_, err = svc.Undo(ctx)
	assert.ErrorIs(t, err, ErrNothingToUndo, "undo is one level deep")
}

func TestLogMeal(t *testing.T) {
	monday := time.Date(2026, time.March, 9, 12, 30, 0, 0, time.UTC)
	svc, store := newTestService(t, monday)
	ctx := context.Background()

	t.Run("regular meal checks the ledger cell", func(t *testing.T) {
		msg, err := svc.LogMeal(ctx, "", "arroz e feijão", false)
		require.NoError(t, err)
		assert.Contains(t, msg, "Almoço", "12:30 falls in the lunch window")

		progress, err := svc.TodayProgress(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, progress.Totals.Nutrition)
		require.Len(t, store.sheets["Meals_Log"], 1)
	})

	t.Run("cheat meal counts the penalty instead", func(t *testing.T) {
		msg, err := svc.LogMeal(ctx, catalog.ActionDinner, "pizza", true)
		require.NoError(t, err)
		assert.Contains(t, msg, "penalidade")

		progress, err := svc.TodayProgress(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, progress.CheatMeals)
		assert.Equal(t, 1, progress.Totals.Nutrition, "dinner cell stays unchecked")
	})

	t.Run("non meal action is rejected", func(t *testing.T) {
		_, err := svc.LogMeal(ctx, catalog.ActionGym, "leg day", false)
		assert.ErrorIs(t, err, ErrInvalidMeal)
	})

	t.Run("blank description is rejected", func(t *testing.T) {
		_, err := svc.LogMeal(ctx, catalog.ActionLunch, "   ", false)
		assert.ErrorIs(t, err, ErrInvalidMeal)
	})
}

func TestLogMeal_LateNightFallsBackToDinner(t *testing.T) {
	twoAM := time.Date(2026, time.March, 10, 2, 0, 0, 0, time.UTC)
	svc, store := newTestService(t, twoAM)

	msg, err := svc.LogMeal(context.Background(), "", "miojo da madrugada", false)
	require.NoError(t, err)
	assert.Contains(t, msg, "Jantar")
	require.Len(t, store.sheets["Meals_Log"], 1)
}

func TestWeekSummaryThroughService(t *testing.T) {
	wednesday := time.Date(2026, time.March, 11, 10, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, wednesday)
	ctx := context.Background()

	_, err := svc.RecordAction(ctx, catalog.ActionWater3, true)
	require.NoError(t, err)

	sum, msg, err := svc.WeekSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Final)
	assert.Equal(t, 106, sum.Max)
	assert.Equal(t, time.Monday, sum.From.Weekday())
	assert.Equal(t, time.Sunday, sum.To.Weekday())
	assert.Contains(t, msg, "Semana")
}

func TestWaterStatusToday(t *testing.T) {
	monday := time.Date(2026, time.March, 9, 10, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, monday)
	ctx := context.Background()

	_, err := svc.RecordAction(ctx, catalog.ActionWater2, true)
	require.NoError(t, err)

	w, err := svc.WaterStatusToday(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, w.Points)
	assert.Equal(t, 7, w.MaxPoints)
	require.Len(t, w.Items, 4)
	assert.False(t, w.Items[0].Done)
	assert.True(t, w.Items[1].Done)
}

func TestExerciseToday(t *testing.T) {
	ctx := context.Background()

	t.Run("monday is pilates", func(t *testing.T) {
		svc, _ := newTestService(t, time.Date(2026, time.March, 9, 10, 0, 0, 0, time.UTC))
		a, ok, err := svc.ExerciseToday(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, catalog.ActionPilates, a)
	})

	t.Run("saturday depends on the gym day choice", func(t *testing.T) {
		svc, _ := newTestService(t, time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC))
		_, ok, err := svc.ExerciseToday(ctx)
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, svc.SetGymDay(ctx, catalog.ChoiceSaturday))
		a, ok, err := svc.ExerciseToday(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, catalog.ActionGym, a)
	})
}
