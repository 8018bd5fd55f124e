package habits

import (
	"context"
	"fmt"

	"github.com/mfdias/rotina/internal/habits/catalog"
	"github.com/mfdias/rotina/internal/habits/ledger"
	"github.com/mfdias/rotina/internal/habits/period"
	"github.com/mfdias/rotina/internal/telemetry/metrics"
	"github.com/mfdias/rotina/internal/telemetry/tracing"
)

type summaryStore interface {
	EnsureSheet(ctx context.Context, title string, rowCount, columnCount int64) error
	Update(ctx context.Context, updateRange string, rows [][]any) error
	UpdateFormulas(ctx context.Context, updateRange string, rows [][]any) error
	Append(ctx context.Context, appendRange string, rows [][]any) error
}

// SummaryWriter owns the analysis sheets: closed weeks and months get a row
// appended to their summary sheets, and Setup prepares the sheets themselves,
// headers included. The summary sheets are a history for the human reader;
// nothing reads them back.
type SummaryWriter struct {
	store   summaryStore
	cols    ledger.SheetColumns
	params  SummaryWriterParams
	metrics *metrics.Manager
}

type SummaryWriterParams struct {
	DailyLogSheet  string
	WeeklySheet    string
	MonthlySheet   string
	DashboardSheet string
}

func NewSummaryWriter(store summaryStore, cat *catalog.Catalog, params SummaryWriterParams, metricsManager *metrics.Manager) *SummaryWriter {
	return &SummaryWriter{
		store:   store,
		cols:    ledger.ColumnsFor(cat),
		params:  params,
		metrics: metricsManager,
	}
}

// Setup creates the summary and dashboard sheets when missing and writes
// their header rows and the dashboard formula block. Safe to call again:
// existing sheets are kept and headers are simply rewritten in place.
func (w *SummaryWriter) Setup(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "summary.setup")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	for _, sheet := range []struct {
		title string
		cols  int64
	}{
		{w.params.WeeklySheet, 11},
		{w.params.MonthlySheet, 11},
		{w.params.DashboardSheet, 4},
	} {
		if err := w.store.EnsureSheet(ctx, sheet.title, 200, sheet.cols); err != nil {
			w.metrics.CounterSheetsErrors.Inc()
			return fmt.Errorf("ensure sheet %s: %w", sheet.title, err)
		}
	}

	weeklyHeader := []any{
		"Semana Início", "Semana Fim", "Pontos Brutos", "Refeições Livres",
		"Penalidade", "Pontos Finais", "Máximo", "Percentual", "Status",
		"Dias Registrados", "Dias Perfeitos",
	}
	if err := w.store.Update(ctx, w.params.WeeklySheet+"!A1", [][]any{weeklyHeader}); err != nil {
		w.metrics.CounterSheetsErrors.Inc()
		return fmt.Errorf("write weekly header: %w", err)
	}

	monthlyHeader := []any{
		"Mês", "Pontos Brutos", "Refeições Livres", "Penalidade",
		"Pontos Finais", "Máximo", "Percentual", "Média Diária", "Status",
		"Dias Registrados", "Dias Perfeitos",
	}
	if err := w.store.Update(ctx, w.params.MonthlySheet+"!A1", [][]any{monthlyHeader}); err != nil {
		w.metrics.CounterSheetsErrors.Inc()
		return fmt.Errorf("write monthly header: %w", err)
	}

	if err := w.store.UpdateFormulas(ctx, w.params.DashboardSheet+"!A1", w.dashboardBlock()); err != nil {
		w.metrics.CounterSheetsErrors.Inc()
		return fmt.Errorf("write dashboard block: %w", err)
	}
	return nil
}

// dashboardBlock builds the live-formula rows of the dashboard sheet. The
// formulas read the daily log directly, so the dashboard stays current
// without the service touching it again.
func (w *SummaryWriter) dashboardBlock() [][]any {
	dlog := w.params.DailyLogSheet
	dateCol := fmt.Sprintf("%s!%s:%s", dlog, w.cols.Date, w.cols.Date)
	totalCol := fmt.Sprintf("%s!%s:%s", dlog, w.cols.TotalPts, w.cols.TotalPts)
	cheatCol := fmt.Sprintf("%s!%s:%s", dlog, w.cols.CheatMeals, w.cols.CheatMeals)

	// WEEKDAY(...,3) is 0 for Monday, so TODAY()-WEEKDAY(TODAY(),3) is the
	// Monday opening the current week.
	weekStart := `TEXT(TODAY()-WEEKDAY(TODAY(),3),"yyyy-mm-dd")`
	monthStart := `TEXT(EOMONTH(TODAY(),-1)+1,"yyyy-mm-dd")`
	today := `TEXT(TODAY(),"yyyy-mm-dd")`

	return [][]any{
		{"📊 Painel da Rotina", ""},
		{"", ""},
		{"Pontos de hoje", fmt.Sprintf(
			`=IFERROR(INDEX(%s, MATCH(%s, %s, 0)), 0)`,
			totalCol, today, dateCol,
		)},
		{"Pontos da semana", fmt.Sprintf(
			`=SUMIFS(%s, %s, ">="&%s, %s, "<="&%s)`,
			totalCol, dateCol, weekStart, dateCol, today,
		)},
		{"Percentual da semana", fmt.Sprintf(
			`=ROUND(B4/%d*100, 1)`, period.WeeklyMax,
		)},
		{"Refeições livres da semana", fmt.Sprintf(
			`=SUMIFS(%s, %s, ">="&%s, %s, "<="&%s)`,
			cheatCol, dateCol, weekStart, dateCol, today,
		)},
		{"Pontos do mês", fmt.Sprintf(
			`=SUMIFS(%s, %s, ">="&%s, %s, "<="&%s)`,
			totalCol, dateCol, monthStart, dateCol, today,
		)},
	}
}

func (w *SummaryWriter) AppendWeek(ctx context.Context, s period.WeekSummary) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "summary.appendWeek")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	row := []any{
		s.From.Format("2006-01-02"),
		s.To.Format("2006-01-02"),
		s.RawPoints,
		s.CheatMeals,
		s.Penalty,
		s.Final,
		s.Max,
		fmt.Sprintf("%.1f%%", s.Percent),
		string(s.Status),
		s.TrackedDays,
		s.PerfectDays,
	}
	if err := w.store.Append(ctx, w.params.WeeklySheet+"!A:K", [][]any{row}); err != nil {
		w.metrics.CounterSheetsErrors.Inc()
		return fmt.Errorf("append week summary: %w", err)
	}
	return nil
}

func (w *SummaryWriter) AppendMonth(ctx context.Context, s period.MonthSummary) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "summary.appendMonth")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	row := []any{
		fmt.Sprintf("%04d-%02d", s.Year, int(s.Month)),
		s.RawPoints,
		s.CheatMeals,
		s.Penalty,
		s.Final,
		s.Max,
		fmt.Sprintf("%.1f%%", s.Percent),
		fmt.Sprintf("%.1f", s.DailyAverage),
		string(s.Status),
		s.TrackedDays,
		s.PerfectDays,
	}
	if err := w.store.Append(ctx, w.params.MonthlySheet+"!A:K", [][]any{row}); err != nil {
		w.metrics.CounterSheetsErrors.Inc()
		return fmt.Errorf("append month summary: %w", err)
	}
	return nil
}
