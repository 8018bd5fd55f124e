// Package journal appends meal descriptions to the meals log sheet. The
// journal is append only; the scored meal checkmarks live in the daily
// ledger, not here.
package journal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mfdias/rotina/internal/habits/catalog"
	"github.com/mfdias/rotina/internal/telemetry/metrics"
	"github.com/mfdias/rotina/internal/telemetry/tracing"
)

type appender interface {
	Append(ctx context.Context, appendRange string, rows [][]any) error
}

type Journal struct {
	store   appender
	sheet   string
	metrics *metrics.Manager
}

func New(store appender, sheet string, metricsManager *metrics.Manager) *Journal {
	return &Journal{
		store:   store,
		sheet:   sheet,
		metrics: metricsManager,
	}
}

// MealName returns the Portuguese label used on the sheet and in messages.
func MealName(meal catalog.Action) string {
	switch meal {
	case catalog.ActionBreakfast:
		return "Café da Manhã"
	case catalog.ActionLunch:
		return "Almoço"
	case catalog.ActionSnack:
		return "Lanche"
	case catalog.ActionDinner:
		return "Jantar"
	default:
		return string(meal)
	}
}

// MealTypeForHour maps a local hour onto the meal window it falls in.
// Windows are half open: 8-11 breakfast, 11-14 lunch, 14-17 snack,
// 17 onward dinner. Hours before 8 count as a late dinner, so a midnight
// meal still gets logged.
func MealTypeForHour(hour int) catalog.Action {
	switch {
	case hour >= 8 && hour < 11:
		return catalog.ActionBreakfast
	case hour >= 11 && hour < 14:
		return catalog.ActionLunch
	case hour >= 14 && hour < 17:
		return catalog.ActionSnack
	default:
		return catalog.ActionDinner
	}
}

// Log appends one meal entry. The cheat column carries the human-facing
// Sim/Não form the summary formulas count on.
func (j *Journal) Log(ctx context.Context, at time.Time, meal catalog.Action, description string, cheat bool) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "journal.log")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	description = strings.TrimSpace(description)
	if description == "" {
		return fmt.Errorf("meal description must not be empty")
	}

	cheatCell := "Não"
	if cheat {
		cheatCell = "Sim"
	}
	row := []any{
		at.Format("2006-01-02 15:04:05"),
		at.Format("2006-01-02"),
		MealName(meal),
		description,
		cheatCell,
	}
	if err := j.store.Append(ctx, j.sheet+"!A:E", [][]any{row}); err != nil {
		j.metrics.CounterSheetsErrors.Inc()
		return fmt.Errorf("append meal entry: %w", err)
	}
	j.metrics.CounterMealsLogged.Inc()
	if cheat {
		j.metrics.CounterCheatMeals.Inc()
	}
	return nil
}
