package ledger

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/mfdias/rotina/internal/habits/catalog"
	"github.com/mfdias/rotina/internal/telemetry/metrics"
	"github.com/mfdias/rotina/internal/telemetry/tracing"
)

var ErrRecordNotFound = errors.New("ledger record not found")

// valueStore is the slice of the spreadsheet client the ledger needs.
type valueStore interface {
	Get(ctx context.Context, readRange string) ([][]any, error)
	Update(ctx context.Context, updateRange string, rows [][]any) error
	UpdateFormulas(ctx context.Context, updateRange string, rows [][]any) error
	Append(ctx context.Context, appendRange string, rows [][]any) error
}

// Ledger owns the daily log sheet: one row per calendar date, one column per
// action, totals recomputed locally. All mutations go through a single mutex
// so that concurrent callers cannot append two rows for the same date; the
// backing store has no compare-and-swap.
type Ledger struct {
	store   valueStore
	catalog *catalog.Catalog
	schema  *schema
	sheet   string
	metrics *metrics.Manager

	mutex sync.Mutex
}

func New(store valueStore, cat *catalog.Catalog, sheet string, metricsManager *metrics.Manager) *Ledger {
	return &Ledger{
		store:   store,
		catalog: cat,
		schema:  newSchema(cat),
		sheet:   sheet,
		metrics: metricsManager,
	}
}

// GetOrCreate returns the row for the given date, creating a zero-filled one
// when the date has no row yet. Calling it twice for the same date always
// lands on the same row.
func (l *Ledger) GetOrCreate(ctx context.Context, date time.Time) (rec *Record, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "ledger.getOrCreate")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	l.mutex.Lock()
	defer l.mutex.Unlock()

	rows, err := l.readAll(ctx)
	if err != nil {
		return nil, err
	}

	key := date.Format(DateLayout)
	if rowIdx := findDateRow(rows, key); rowIdx >= 0 {
		return l.recordFromRow(rows[rowIdx]), nil
	}

	rec = NewRecord(date)
	// Sheet rows are 1-based and row 1 is the header.
	sheetRow := len(rows) + 1
	newRow := l.schema.newRow(rec, l.catalog, sheetRow)
	if err := l.store.Append(ctx, l.schema.dataRange(l.sheet), [][]any{newRow}); err != nil {
		l.metrics.CounterSheetsErrors.Inc()
		return nil, fmt.Errorf("append row for %s: %w", key, err)
	}

	log.Debugf("ledger: created row %d for %s", sheetRow, key)
	return rec, nil
}

// UpdateField sets a single action cell on the row for the given date,
// creating the row first when needed. The previous cell value is returned so
// callers can offer undo.
func (l *Ledger) UpdateField(ctx context.Context, date time.Time, action catalog.Action, value int) (previous int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "ledger.updateField")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if !l.catalog.Known(action) {
		return 0, fmt.Errorf("%w: %s", catalog.ErrUnknownAction, action)
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()

	rows, err := l.readAll(ctx)
	if err != nil {
		return 0, err
	}

	key := date.Format(DateLayout)
	rowIdx := findDateRow(rows, key)
	if rowIdx < 0 {
		rec := NewRecord(date)
		sheetRow := len(rows) + 1
		newRow := l.schema.newRow(rec, l.catalog, sheetRow)
		col, _ := l.schema.columnOf(action)
		newRow[col] = value
		if err := l.store.Append(ctx, l.schema.dataRange(l.sheet), [][]any{newRow}); err != nil {
			l.metrics.CounterSheetsErrors.Inc()
			return 0, fmt.Errorf("append row for %s: %w", key, err)
		}
		return 0, nil
	}

	col, _ := l.schema.columnOf(action)
	previous = cellInt(rows[rowIdx], col)

	// Sheet row numbers are 1-based.
	cell := l.schema.cellRange(l.sheet, col, rowIdx+1)
	if err := l.store.Update(ctx, cell, [][]any{{value}}); err != nil {
		l.metrics.CounterSheetsErrors.Inc()
		return 0, fmt.Errorf("update %s for %s: %w", action, key, err)
	}
	return previous, nil
}

// IncrementCheatMeals bumps the cheat meal counter for the date and returns
// the new count.
func (l *Ledger) IncrementCheatMeals(ctx context.Context, date time.Time) (count int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "ledger.incrementCheatMeals")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	rec, err := l.GetOrCreate(ctx, date)
	if err != nil {
		return 0, err
	}
	count = rec.Value(catalog.ActionCheatMeals) + 1
	if _, err := l.UpdateField(ctx, date, catalog.ActionCheatMeals, count); err != nil {
		return 0, err
	}
	return count, nil
}

// Read returns the row for the given date, or ErrRecordNotFound. Columns the
// row does not have yet read as zero; cells holding non-numeric text keep
// their raw form for display and count as zero.
func (l *Ledger) Read(ctx context.Context, date time.Time) (rec *Record, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "ledger.read")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	rows, err := l.readAll(ctx)
	if err != nil {
		return nil, err
	}
	key := date.Format(DateLayout)
	rowIdx := findDateRow(rows, key)
	if rowIdx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, key)
	}
	return l.recordFromRow(rows[rowIdx]), nil
}

// ReadRange returns all records with from <= date <= to, ordered by date
// ascending. Dates without a row are simply absent from the result.
func (l *Ledger) ReadRange(ctx context.Context, from, to time.Time) (recs []*Record, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "ledger.readRange")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	rows, err := l.readAll(ctx)
	if err != nil {
		return nil, err
	}

	fromKey := from.Format(DateLayout)
	toKey := to.Format(DateLayout)
	for _, row := range rows[1:] {
		key := cellString(row, colDate)
		if key < fromKey || key > toKey {
			continue
		}
		recs = append(recs, l.recordFromRow(row))
	}
	// Lexicographic order of the date layout is chronological order, but the
	// sheet itself is append-ordered which may not be.
	for i := 1; i < len(recs); i++ {
		for j := i; j > 0 && recs[j-1].Date.After(recs[j].Date); j-- {
			recs[j-1], recs[j] = recs[j], recs[j-1]
		}
	}
	return recs, nil
}

// RefreshFormulas rewrites the derived-total formula cells for the row of the
// given date. The formulas are display-only mirrors of the local computation.
func (l *Ledger) RefreshFormulas(ctx context.Context, date time.Time) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "ledger.refreshFormulas")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	l.mutex.Lock()
	defer l.mutex.Unlock()

	rows, err := l.readAll(ctx)
	if err != nil {
		return err
	}
	key := date.Format(DateLayout)
	rowIdx := findDateRow(rows, key)
	if rowIdx < 0 {
		return fmt.Errorf("%w: %s", ErrRecordNotFound, key)
	}

	sheetRow := rowIdx + 1
	formulas := []any{
		l.schema.dailyPtsFormula(l.catalog, sheetRow),
		l.schema.exercisePtsFormula(sheetRow),
		fmt.Sprintf(
			"=%s%d+%s%d",
			colLetter(l.schema.dailyPtsCol), sheetRow,
			colLetter(l.schema.exercisePtsCol), sheetRow,
		),
	}
	cell := l.schema.cellRange(l.sheet, l.schema.dailyPtsCol, sheetRow)
	if err := l.store.UpdateFormulas(ctx, cell, [][]any{formulas}); err != nil {
		l.metrics.CounterSheetsErrors.Inc()
		return fmt.Errorf("refresh formulas for %s: %w", key, err)
	}
	return nil
}

func (l *Ledger) readAll(ctx context.Context) ([][]any, error) {
	started := time.Now()
	rows, err := l.store.Get(ctx, l.schema.dataRange(l.sheet))
	l.metrics.HistSheetsCallDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		l.metrics.CounterSheetsErrors.Inc()
		return nil, fmt.Errorf("read daily log: %w", err)
	}
	if len(rows) == 0 {
		return nil, errors.New("daily log sheet has no header row")
	}
	return rows, nil
}

func (l *Ledger) recordFromRow(row []any) *Record {
	date, err := time.Parse(DateLayout, cellString(row, colDate))
	if err != nil {
		log.Warnf("ledger: unparseable date cell %q", cellString(row, colDate))
	}
	rec := NewRecord(date)
	for _, a := range l.schema.actions {
		col, _ := l.schema.columnOf(a)
		if col >= len(row) {
			// Row predates this column; reads as zero.
			continue
		}
		raw := cellString(row, col)
		if raw == "" {
			continue
		}
		v, convErr := strconv.Atoi(raw)
		if convErr != nil {
			rec.Raw[a] = raw
			continue
		}
		rec.Values[a] = v
	}
	return rec
}

func findDateRow(rows [][]any, dateKey string) int {
	// Row 0 is the header.
	for i := 1; i < len(rows); i++ {
		if cellString(rows[i], colDate) == dateKey {
			return i
		}
	}
	return -1
}

func cellString(row []any, col int) string {
	if col >= len(row) || row[col] == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%v", row[col]))
}

func cellInt(row []any, col int) int {
	v, err := strconv.Atoi(cellString(row, col))
	if err != nil {
		return 0
	}
	return v
}
