// Package period aggregates ledger records into weekly and monthly
// summaries, applies the cheat meal penalty and maps results onto the
// status ladder.
package period

import (
	"time"

	"github.com/mfdias/rotina/internal/habits/catalog"
	"github.com/mfdias/rotina/internal/habits/ledger"
	"github.com/mfdias/rotina/internal/habits/scoring"
)

const (
	// WeeklyMax is the highest raw score a full week can reach: five
	// weekday maxima (5*15), two weekend maxima (2*13) and one exercise
	// point on each of the five exercise days (pilates twice, gym twice
	// and the chosen weekend day).
	WeeklyMax = 106

	// CheatMealPenalty is subtracted from the raw total per cheat meal.
	CheatMealPenalty = 3
)

type Status string

const (
	StatusPerfect    Status = "Perfeito"
	StatusSuccessful Status = "Sucesso"
	StatusNeedsWork  Status = "Precisa Melhorar"
	StatusDanger     Status = "Perigo"
	StatusExcellent  Status = "Excelente"
	StatusGood       Status = "Bom"
	StatusNoData     Status = "Sem Dados"
)

// WeekSummary is the scored view of one Monday-to-Sunday week.
type WeekSummary struct {
	From time.Time
	To   time.Time

	RawPoints  int
	CheatMeals int
	Penalty    int
	Final      int
	Max        int
	Percent    float64
	Status     Status

	TrackedDays int
	PerfectDays int
}

// MonthSummary is the scored view of one calendar month.
type MonthSummary struct {
	Year  int
	Month time.Month

	RawPoints  int
	CheatMeals int
	Penalty    int
	Final      int
	Max        int
	Percent    float64
	Status     Status

	TrackedDays  int
	PerfectDays  int
	DailyAverage float64
}

// SummarizeWeek folds the given records into a week summary. Records outside
// [from, to] are the caller's bug and are still counted; missing days simply
// contribute nothing.
func SummarizeWeek(cat *catalog.Catalog, from, to time.Time, choice catalog.ExerciseChoice, recs []*ledger.Record) WeekSummary {
	s := WeekSummary{From: from, To: to, Max: WeeklyMax}
	s.RawPoints, s.CheatMeals, s.TrackedDays, s.PerfectDays = fold(cat, choice, recs)
	s.Penalty = s.CheatMeals * CheatMealPenalty
	s.Final = s.RawPoints - s.Penalty
	if s.Final < 0 {
		s.Final = 0
	}
	s.Percent = scoring.Percent(s.Final, s.Max)
	s.Status = StatusFor(s.Percent)
	return s
}

// SummarizeMonth folds the given records into a month summary. The monthly
// maximum is computed from the month's actual weekday and weekend mix, so
// February and March never share a maximum.
func SummarizeMonth(cat *catalog.Catalog, year int, month time.Month, loc *time.Location, choice catalog.ExerciseChoice, recs []*ledger.Record) MonthSummary {
	s := MonthSummary{Year: year, Month: month}
	s.RawPoints, s.CheatMeals, s.TrackedDays, s.PerfectDays = fold(cat, choice, recs)
	s.Penalty = s.CheatMeals * CheatMealPenalty
	s.Final = s.RawPoints - s.Penalty
	if s.Final < 0 {
		s.Final = 0
	}
	s.Max = monthMax(cat, year, month, loc, choice)
	s.Percent = scoring.Percent(s.Final, s.Max)
	if s.TrackedDays > 0 {
		s.DailyAverage = float64(s.Final) / float64(s.TrackedDays)
	}
	s.Status = monthStatus(s.DailyAverage, s.TrackedDays)
	return s
}

func fold(cat *catalog.Catalog, choice catalog.ExerciseChoice, recs []*ledger.Record) (raw, cheats, tracked, perfect int) {
	for _, rec := range recs {
		totals := scoring.ComputeTotals(cat, rec)
		raw += totals.Grand
		cheats += rec.Value(catalog.ActionCheatMeals)
		tracked++
		max := scoring.ComputeMax(cat, rec.Weekday(), choice)
		if totals.Grand >= max.Total && max.Total > 0 {
			perfect++
		}
	}
	return raw, cheats, tracked, perfect
}

func monthMax(cat *catalog.Catalog, year int, month time.Month, loc *time.Location, choice catalog.ExerciseChoice) int {
	total := 0
	for d := time.Date(year, month, 1, 0, 0, 0, 0, loc); d.Month() == month; d = d.AddDate(0, 0, 1) {
		total += scoring.ComputeMax(cat, d.Weekday(), choice).Total
	}
	return total
}

// StatusFor maps a weekly percentage onto the status ladder.
func StatusFor(percent float64) Status {
	switch {
	case percent >= 100:
		return StatusPerfect
	case percent >= 85:
		return StatusSuccessful
	case percent >= 70:
		return StatusNeedsWork
	default:
		return StatusDanger
	}
}

// monthStatus ranks a month by its daily average score.
func monthStatus(avg float64, tracked int) Status {
	if tracked == 0 {
		return StatusNoData
	}
	switch {
	case avg >= 15:
		return StatusPerfect
	case avg >= 12:
		return StatusExcellent
	case avg >= 10:
		return StatusGood
	case avg >= 8:
		return StatusNeedsWork
	default:
		return StatusDanger
	}
}
