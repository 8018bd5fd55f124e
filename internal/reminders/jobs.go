package reminders

import (
	"context"
	"fmt"
	"time"

	"github.com/mfdias/rotina/internal/habits"
	"github.com/mfdias/rotina/internal/habits/catalog"
	"github.com/mfdias/rotina/internal/habits/journal"
)

func static(message string) func(context.Context) (string, error) {
	return func(context.Context) (string, error) {
		return message, nil
	}
}

// Jobs builds the daily reminder schedule on top of the habits service.
// When a summary writer is given, the closing week and month are also
// recorded on their summary sheets.
func Jobs(svc *habits.Service, summaries *habits.SummaryWriter) []Slot {
	slots := []Slot{
		{
			Name: "wake_up", At: "07:00", Days: Weekdays,
			Fire: static("⏰ Bom dia! Hora de acordar e começar o dia!"),
		},
		{
			Name: "cardio_weekday", At: "07:00", Days: Weekdays,
			Fire: static("🏃 Hora do cardio matinal!"),
		},
		{
			Name: "cardio_weekend", At: "10:00", Days: Weekends,
			Fire: static("🏃 Fim de semana também tem cardio!"),
		},
		{
			Name: "breakfast", At: "08:00", Days: EveryDay,
			Fire: static(fmt.Sprintf("🍳 Hora do %s!", journal.MealName(catalog.ActionBreakfast))),
		},
		{
			Name: "lunch", At: "12:00", Days: EveryDay,
			Fire: static(fmt.Sprintf("🍽 Hora do %s!", journal.MealName(catalog.ActionLunch))),
		},
		{
			Name: "hydration_check", At: "14:00", Days: EveryDay,
			Fire: func(ctx context.Context) (string, error) {
				status, err := svc.WaterStatusToday(ctx)
				if err != nil {
					return "", err
				}
				if status.Points >= status.MaxPoints {
					return "", nil
				}
				return status.Message, nil
			},
		},
		{
			Name: "snack", At: "16:00", Days: EveryDay,
			Fire: static(fmt.Sprintf("🥪 Hora do %s!", journal.MealName(catalog.ActionSnack))),
		},
		{
			Name: "exercise", At: "18:00", Days: EveryDay,
			Fire: func(ctx context.Context) (string, error) {
				session, ok, err := svc.ExerciseToday(ctx)
				if err != nil {
					return "", err
				}
				if !ok {
					return "", nil
				}
				if session == catalog.ActionPilates {
					return "🧘 Hoje tem Pilates!", nil
				}
				return "🏋️ Hoje tem Academia!", nil
			},
		},
		{
			Name: "dinner_water_warning", At: "19:00", Days: EveryDay,
			Fire: func(ctx context.Context) (string, error) {
				msg := fmt.Sprintf("🍲 Hora do %s!", journal.MealName(catalog.ActionDinner))
				status, err := svc.WaterStatusToday(ctx)
				if err != nil {
					return msg, nil
				}
				if status.Points < status.MaxPoints {
					msg += fmt.Sprintf("\n⚠️ Atenção: hidratação em %d/%d, ainda dá tempo!",
						status.Points, status.MaxPoints)
				}
				return msg, nil
			},
		},
		{
			Name: "chores", At: "21:30", Days: EveryDay,
			Fire: static("🧹 Hora de arrumar as coisas para amanhã!"),
		},
		{
			Name: "bedroom", At: "22:00", Days: EveryDay,
			Fire: static("🛏 Hora de ir para o quarto!"),
		},
		{
			Name: "bed", At: "22:30", Days: EveryDay,
			Fire: static("😴 Hora de dormir! Boa noite!"),
		},
		{
			Name: "daily_summary", At: "23:00", Days: EveryDay,
			Fire: func(ctx context.Context) (string, error) {
				progress, err := svc.TodayProgress(ctx)
				if err != nil {
					return "", err
				}
				return progress.Message, nil
			},
		},
	}

	if summaries != nil {
		slots = append(slots,
			Slot{
				Name: "weekly_summary", At: "23:30",
				Days: func(d time.Weekday) bool { return d == time.Sunday },
				Fire: func(ctx context.Context) (string, error) {
					summary, message, err := svc.WeekSummary(ctx)
					if err != nil {
						return "", err
					}
					if err := summaries.AppendWeek(ctx, summary); err != nil {
						return "", err
					}
					return message, nil
				},
			},
			Slot{
				Name: "monthly_summary", At: "23:45", Days: EveryDay,
				Fire: func(ctx context.Context) (string, error) {
					today := svc.Today()
					if today.AddDate(0, 0, 1).Month() == today.Month() {
						return "", nil
					}
					summary, message, err := svc.MonthSummary(ctx)
					if err != nil {
						return "", err
					}
					if err := summaries.AppendMonth(ctx, summary); err != nil {
						return "", err
					}
					return message, nil
				},
			},
		)
	}
	return slots
}
