package journal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfdias/rotina/internal/habits/catalog"
	"github.com/mfdias/rotina/internal/telemetry/metrics"
)

type fakeAppender struct {
	rows [][]any
}

func (f *fakeAppender) Append(_ context.Context, _ string, rows [][]any) error {
	f.rows = append(f.rows, rows...)
	return nil
}

func TestLog(t *testing.T) {
	fake := &fakeAppender{}
	j := New(fake, "Meals_Log", metrics.NewTestManager())
	at := time.Date(2026, time.March, 9, 12, 30, 0, 0, time.UTC)

	require.NoError(t, j.Log(context.Background(), at, catalog.ActionLunch, "arroz e feijão", false))
	require.Len(t, fake.rows, 1)
	assert.Equal(t, []any{
		"2026-03-09 12:30:00", "2026-03-09", "Almoço", "arroz e feijão", "Não",
	}, fake.rows[0])
}

func TestLog_CheatMeal(t *testing.T) {
	fake := &fakeAppender{}
	j := New(fake, "Meals_Log", metrics.NewTestManager())
	at := time.Date(2026, time.March, 9, 20, 0, 0, 0, time.UTC)

	require.NoError(t, j.Log(context.Background(), at, catalog.ActionDinner, "pizza", true))
	require.Len(t, fake.rows, 1)
	assert.Equal(t, "Sim", fake.rows[0][4])
}

func TestLog_EmptyDescription(t *testing.T) {
	j := New(&fakeAppender{}, "Meals_Log", metrics.NewTestManager())
	err := j.Log(context.Background(), time.Now(), catalog.ActionSnack, "   ", false)
	assert.Error(t, err)
}

func TestMealTypeForHour(t *testing.T) {
	tests := []struct {
		hour int
		want catalog.Action
	}{
		{0, catalog.ActionDinner},
		{7, catalog.ActionDinner},
		{8, catalog.ActionBreakfast},
		{10, catalog.ActionBreakfast},
		{11, catalog.ActionLunch},
		{13, catalog.ActionLunch},
		{14, catalog.ActionSnack},
		{16, catalog.ActionSnack},
		{17, catalog.ActionDinner},
		{23, catalog.ActionDinner},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, MealTypeForHour(tc.hour), "hour %d", tc.hour)
	}
}

func TestMealName(t *testing.T) {
	assert.Equal(t, "Café da Manhã", MealName(catalog.ActionBreakfast))
	assert.Equal(t, "Jantar", MealName(catalog.ActionDinner))
	assert.Equal(t, "gym", MealName(catalog.ActionGym))
}
