package catalog_test

import (
	"errors"
	"testing"
	"time"

	"github.com/mfdias/rotina/internal/habits/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_WeightOf(t *testing.T) {
	c := catalog.New()

	for action, expectedWeight := range map[catalog.Action]int{
		catalog.ActionWakeUp7am:  1,
		catalog.ActionCardio:     1,
		catalog.ActionBreakfast:  1,
		catalog.ActionWater1:     1,
		catalog.ActionWater2:     2,
		catalog.ActionWater3:     3,
		catalog.ActionWaterCup:   1,
		catalog.ActionBed:        1,
		catalog.ActionGym:        1,
		catalog.ActionCheatMeals: 0,
	} {
		w, err := c.WeightOf(action)
		require.NoError(t, err)
		assert.Equal(t, expectedWeight, w, "weight of %s", action)
	}
}

func TestCatalog_WeightOf_UnknownAction(t *testing.T) {
	c := catalog.New()
	_, err := c.WeightOf("jogging")
	require.Error(t, err)
	assert.True(t, errors.Is(err, catalog.ErrUnknownAction))
}

func TestCatalog_IsApplicable(t *testing.T) {
	c := catalog.New()

	t.Run("wake and cardio are weekday only", func(t *testing.T) {
		for _, day := range []time.Weekday{
			time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
		} {
			assert.True(t, c.IsApplicable(catalog.ActionWakeUp7am, day, catalog.ChoiceNone))
			assert.True(t, c.IsApplicable(catalog.ActionCardio, day, catalog.ChoiceNone))
		}
		for _, day := range []time.Weekday{time.Saturday, time.Sunday} {
			assert.False(t, c.IsApplicable(catalog.ActionWakeUp7am, day, catalog.ChoiceNone))
			assert.False(t, c.IsApplicable(catalog.ActionCardio, day, catalog.ChoiceNone))
		}
	})

	t.Run("pilates on mon and wed", func(t *testing.T) {
		assert.True(t, c.IsApplicable(catalog.ActionPilates, time.Monday, catalog.ChoiceNone))
		assert.True(t, c.IsApplicable(catalog.ActionPilates, time.Wednesday, catalog.ChoiceNone))
		assert.False(t, c.IsApplicable(catalog.ActionPilates, time.Tuesday, catalog.ChoiceNone))
		assert.False(t, c.IsApplicable(catalog.ActionPilates, time.Saturday, catalog.ChoiceSaturday))
	})

	t.Run("gym on tue, thu and the chosen day", func(t *testing.T) {
		assert.True(t, c.IsApplicable(catalog.ActionGym, time.Tuesday, catalog.ChoiceNone))
		assert.True(t, c.IsApplicable(catalog.ActionGym, time.Thursday, catalog.ChoiceNone))

		assert.False(t, c.IsApplicable(catalog.ActionGym, time.Friday, catalog.ChoiceNone))
		assert.True(t, c.IsApplicable(catalog.ActionGym, time.Friday, catalog.ChoiceFriday))
		assert.False(t, c.IsApplicable(catalog.ActionGym, time.Friday, catalog.ChoiceSaturday))

		assert.False(t, c.IsApplicable(catalog.ActionGym, time.Saturday, catalog.ChoiceNone))
		assert.True(t, c.IsApplicable(catalog.ActionGym, time.Saturday, catalog.ChoiceSaturday))
	})

	t.Run("meals and water apply every day", func(t *testing.T) {
		for _, day := range []time.Weekday{time.Monday, time.Saturday, time.Sunday} {
			assert.True(t, c.IsApplicable(catalog.ActionLunch, day, catalog.ChoiceNone))
			assert.True(t, c.IsApplicable(catalog.ActionWater3, day, catalog.ChoiceNone))
		}
	})
}

func TestCatalog_ExerciseFor(t *testing.T) {
	c := catalog.New()

	ex, ok := c.ExerciseFor(time.Monday, catalog.ChoiceNone)
	require.True(t, ok)
	assert.Equal(t, catalog.ActionPilates, ex)

	ex, ok = c.ExerciseFor(time.Thursday, catalog.ChoiceNone)
	require.True(t, ok)
	assert.Equal(t, catalog.ActionGym, ex)

	_, ok = c.ExerciseFor(time.Friday, catalog.ChoiceNone)
	assert.False(t, ok)

	ex, ok = c.ExerciseFor(time.Friday, catalog.ChoiceFriday)
	require.True(t, ok)
	assert.Equal(t, catalog.ActionGym, ex)

	_, ok = c.ExerciseFor(time.Sunday, catalog.ChoiceSaturday)
	assert.False(t, ok)
}

func TestParseExerciseChoice(t *testing.T) {
	choice, err := catalog.ParseExerciseChoice("friday")
	require.NoError(t, err)
	assert.Equal(t, catalog.ChoiceFriday, choice)

	choice, err = catalog.ParseExerciseChoice("saturday")
	require.NoError(t, err)
	assert.Equal(t, catalog.ChoiceSaturday, choice)

	_, err = catalog.ParseExerciseChoice("sunday")
	require.Error(t, err)
	_, err = catalog.ParseExerciseChoice("")
	require.Error(t, err)
}

func TestCatalog_ActionsOrderIsStable(t *testing.T) {
	c := catalog.New()
	actions := c.Actions()
	require.Len(t, actions, 15)
	assert.Equal(t, catalog.ActionWakeUp7am, actions[0])
	assert.Equal(t, catalog.ActionCheatMeals, actions[len(actions)-1])

	// the ledger column layout depends on this order
	assert.Equal(t, c.Actions(), actions)
}
