package habits

import (
	"fmt"
	"strings"
	"time"

	"github.com/mfdias/rotina/internal/habits/catalog"
	"github.com/mfdias/rotina/internal/habits/journal"
	"github.com/mfdias/rotina/internal/habits/milestone"
	"github.com/mfdias/rotina/internal/habits/period"
)

// User-facing text is Portuguese; it is shown verbatim in reminders and
// API responses.

func actionLabel(a catalog.Action) string {
	switch a {
	case catalog.ActionWakeUp7am:
		return "Acordar às 7h"
	case catalog.ActionCardio:
		return "Cardio"
	case catalog.ActionBreakfast, catalog.ActionLunch, catalog.ActionSnack, catalog.ActionDinner:
		return journal.MealName(a)
	case catalog.ActionWater1:
		return "Garrafa de água 1"
	case catalog.ActionWater2:
		return "Garrafa de água 2"
	case catalog.ActionWater3:
		return "Garrafa de água 3"
	case catalog.ActionWaterCup:
		return "Copo de água"
	case catalog.ActionBedroom:
		return "Quarto arrumado"
	case catalog.ActionBed:
		return "Dormir no horário"
	case catalog.ActionPilates:
		return "Pilates"
	case catalog.ActionGym:
		return "Academia"
	case catalog.ActionCheatMeals:
		return "Refeições livres"
	default:
		return string(a)
	}
}

func recordedMessage(res *ActionResult) string {
	var b strings.Builder
	if res.Done {
		fmt.Fprintf(&b, "✅ %s registrado! +%d ponto", actionLabel(res.Action), res.Points)
		if res.Points != 1 {
			b.WriteByte('s')
		}
	} else {
		fmt.Fprintf(&b, "↩️ %s desmarcado.", actionLabel(res.Action))
	}
	fmt.Fprintf(&b, "\nTotal de hoje: %d/%d (%.0f%%)", res.Totals.Grand, res.Max.Total, res.Percent)

	for _, m := range res.Milestones {
		b.WriteByte('\n')
		b.WriteString(milestoneMessage(m))
	}
	return b.String()
}

func milestoneMessage(kind milestone.Kind) string {
	switch kind {
	case milestone.KindHalfway:
		return "🔥 Metade do dia conquistada! Continue assim!"
	case milestone.KindPerfect:
		return "🏆 DIA PERFEITO! Todos os pontos do dia!"
	case milestone.KindHardMode:
		return "💪 MODO HARD! Garrafa 3 concluída!"
	default:
		return ""
	}
}

func progressMessage(p *Progress) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 Progresso de hoje (%s):\n", p.Date.Format("02/01/2006"))
	fmt.Fprintf(&b, "😴 Sono: %d\n", p.Totals.Sleep)
	fmt.Fprintf(&b, "🍽 Alimentação: %d\n", p.Totals.Nutrition)
	fmt.Fprintf(&b, "💧 Hidratação: %d/7\n", p.Totals.Hydration)
	fmt.Fprintf(&b, "🏃 Cardio: %d\n", p.Totals.Cardio)
	fmt.Fprintf(&b, "🏋️ Exercício: %d\n", p.Totals.Exercise)
	if p.CheatMeals > 0 {
		fmt.Fprintf(&b, "🍕 Refeições livres: %d\n", p.CheatMeals)
	}
	fmt.Fprintf(&b, "Total: %d/%d (%.0f%%)", p.Totals.Grand, p.Max.Total, p.Percent)
	return b.String()
}

func waterStatusMessage(w *WaterStatus) string {
	var b strings.Builder
	b.WriteString("💧 Hidratação de hoje:\n")
	for _, item := range w.Items {
		mark := "▫️"
		if item.Done {
			mark = "✅"
		}
		fmt.Fprintf(&b, "%s %s (%d pt", mark, actionLabel(item.Action), item.Weight)
		if item.Weight != 1 {
			b.WriteByte('s')
		}
		b.WriteString(")\n")
	}
	fmt.Fprintf(&b, "Total: %d/%d pontos", w.Points, w.MaxPoints)
	return b.String()
}

func weekSummaryMessage(s period.WeekSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📅 Semana %s a %s:\n",
		s.From.Format("02/01"), s.To.Format("02/01"))
	fmt.Fprintf(&b, "Pontos: %d", s.Final)
	if s.Penalty > 0 {
		fmt.Fprintf(&b, " (%d - %d de penalidade)", s.RawPoints, s.Penalty)
	}
	fmt.Fprintf(&b, "/%d (%.1f%%)\n", s.Max, s.Percent)
	fmt.Fprintf(&b, "Dias registrados: %d | Dias perfeitos: %d\n", s.TrackedDays, s.PerfectDays)
	fmt.Fprintf(&b, "Status: %s", s.Status)
	return b.String()
}

func monthSummaryMessage(s period.MonthSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🗓 Resumo de %s/%d:\n", monthName(s.Month), s.Year)
	fmt.Fprintf(&b, "Pontos: %d/%d (%.1f%%)\n", s.Final, s.Max, s.Percent)
	fmt.Fprintf(&b, "Média diária: %.1f | Dias perfeitos: %d/%d\n",
		s.DailyAverage, s.PerfectDays, s.TrackedDays)
	fmt.Fprintf(&b, "Status: %s", s.Status)
	return b.String()
}

var monthNames = map[time.Month]string{
	time.January: "Janeiro", time.February: "Fevereiro", time.March: "Março",
	time.April: "Abril", time.May: "Maio", time.June: "Junho",
	time.July: "Julho", time.August: "Agosto", time.September: "Setembro",
	time.October: "Outubro", time.November: "Novembro", time.December: "Dezembro",
}

func monthName(m time.Month) string {
	if pt, ok := monthNames[m]; ok {
		return pt
	}
	return m.String()
}

func undoneMessage(a catalog.Action, previous int) string {
	return fmt.Sprintf("↩️ Desfeito: %s voltou para %d.", actionLabel(a), previous)
}
