// Package scoring turns a single ledger record into point totals. It is pure
// computation: the stored total columns are never trusted, every total is
// recomputed here from the action cells.
package scoring

import (
	"time"

	"github.com/mfdias/rotina/internal/habits/catalog"
	"github.com/mfdias/rotina/internal/habits/ledger"
)

const (
	maxDailyWeekday = 15
	maxDailyWeekend = 13
)

// Totals is the locally computed score breakdown for one day.
type Totals struct {
	Sleep     int
	Nutrition int
	Hydration int
	Cardio    int

	// Exercise is capped at one point per day regardless of how many
	// exercise cells are set.
	Exercise int

	Daily int
	Grand int
}

// Max holds the highest score reachable on a given day.
type Max struct {
	Daily    int
	Exercise int
	Total    int
}

// ComputeTotals recomputes category subtotals and the grand total from the
// record's action values. Malformed cells already read as zero at the ledger
// layer, so they simply do not score.
func ComputeTotals(cat *catalog.Catalog, rec *ledger.Record) Totals {
	var t Totals
	for _, a := range cat.Actions() {
		rule, err := cat.Rule(a)
		if err != nil {
			continue
		}
		points := rec.Value(a) * rule.Weight
		switch rule.Category {
		case catalog.CategorySleep:
			t.Sleep += points
		case catalog.CategoryNutrition:
			t.Nutrition += points
		case catalog.CategoryHydration:
			t.Hydration += points
		case catalog.CategoryCardio:
			t.Cardio += points
		case catalog.CategoryExercise:
			if rec.Done(a) {
				t.Exercise = 1
			}
		}
	}
	t.Daily = t.Sleep + t.Nutrition + t.Hydration + t.Cardio
	t.Grand = t.Daily + t.Exercise
	return t
}

// ComputeMax returns the maximum reachable score for the given weekday.
// Weekends drop the wake-up and cardio points; the exercise point exists
// only on days with a scheduled session.
func ComputeMax(cat *catalog.Catalog, day time.Weekday, choice catalog.ExerciseChoice) Max {
	m := Max{Daily: maxDailyWeekday}
	if catalog.IsWeekend(day) {
		m.Daily = maxDailyWeekend
	}
	if _, ok := cat.ExerciseFor(day, choice); ok {
		m.Exercise = 1
	}
	m.Total = m.Daily + m.Exercise
	return m
}

// Percent returns progress toward max as a percentage. A zero max reads as
// zero percent, not a division error.
func Percent(points, max int) float64 {
	if max <= 0 {
		return 0
	}
	return float64(points) / float64(max) * 100
}

// PointsFor returns how many points a single action value is worth.
func PointsFor(cat *catalog.Catalog, a catalog.Action, value int) int {
	rule, err := cat.Rule(a)
	if err != nil {
		return 0
	}
	if rule.Category == catalog.CategoryExercise {
		if value > 0 {
			return 1
		}
		return 0
	}
	return value * rule.Weight
}
