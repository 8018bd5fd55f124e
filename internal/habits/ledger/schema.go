package ledger

import (
	"fmt"
	"strings"

	"github.com/mfdias/rotina/internal/habits/catalog"
)

// Physical column layout of the daily log sheet:
// date, day name, one column per action in catalog order, then three
// derived total columns. All cell access goes through this mapping -
// positional access without a lookup is how the legacy sheet broke every
// time a column moved.
const (
	colDate = 0
	colDay  = 1
)

type schema struct {
	actions []catalog.Action
	index   map[catalog.Action]int

	dailyPtsCol    int
	exercisePtsCol int
	totalPtsCol    int
	width          int
}

func newSchema(cat *catalog.Catalog) *schema {
	s := &schema{
		actions: cat.Actions(),
		index:   make(map[catalog.Action]int),
	}
	next := colDay + 1
	for _, a := range s.actions {
		s.index[a] = next
		next++
	}
	s.dailyPtsCol = next
	s.exercisePtsCol = next + 1
	s.totalPtsCol = next + 2
	s.width = next + 3
	return s
}

func (s *schema) columnOf(a catalog.Action) (int, bool) {
	idx, ok := s.index[a]
	return idx, ok
}

// dataRange spans all physical columns, e.g. "Daily_Log!A:T".
func (s *schema) dataRange(sheet string) string {
	return fmt.Sprintf("%s!A:%s", sheet, colLetter(s.width-1))
}

func (s *schema) cellRange(sheet string, col, row int) string {
	return fmt.Sprintf("%s!%s%d", sheet, colLetter(col), row)
}

func (s *schema) rowRange(sheet string, row int) string {
	return fmt.Sprintf("%s!A%d", sheet, row)
}

// newRow builds a fresh zero-filled row for the given record, including the
// derived-total formula cells. The formulas are a human-facing mirror in the
// spreadsheet UI; reads never trust them.
func (s *schema) newRow(rec *Record, cat *catalog.Catalog, row int) []any {
	out := make([]any, s.width)
	out[colDate] = rec.Date.Format(DateLayout)
	out[colDay] = rec.Day
	for _, a := range s.actions {
		out[s.index[a]] = 0
	}
	out[s.dailyPtsCol] = s.dailyPtsFormula(cat, row)
	out[s.exercisePtsCol] = s.exercisePtsFormula(row)
	out[s.totalPtsCol] = fmt.Sprintf(
		"=%s%d+%s%d",
		colLetter(s.dailyPtsCol), row,
		colLetter(s.exercisePtsCol), row,
	)
	return out
}

func (s *schema) dailyPtsFormula(cat *catalog.Catalog, row int) string {
	var b strings.Builder
	b.WriteByte('=')
	first := true
	for _, a := range s.actions {
		rule, err := cat.Rule(a)
		if err != nil || rule.Category == catalog.CategoryExercise || rule.Category == catalog.CategoryPenalty {
			continue
		}
		if !first {
			b.WriteByte('+')
		}
		first = false
		fmt.Fprintf(&b, "%s%d", colLetter(s.index[a]), row)
		if rule.Weight > 1 {
			fmt.Fprintf(&b, "*%d", rule.Weight)
		}
	}
	return b.String()
}

func (s *schema) exercisePtsFormula(row int) string {
	return fmt.Sprintf(
		"=%s%d+%s%d",
		colLetter(s.index[catalog.ActionPilates]), row,
		colLetter(s.index[catalog.ActionGym]), row,
	)
}

// SheetColumns exposes the A1 letters of the columns other sheets reference
// in cross-sheet formulas.
type SheetColumns struct {
	Date        string
	CheatMeals  string
	DailyPts    string
	ExercisePts string
	TotalPts    string
}

// ColumnsFor reports the daily log column letters for the given catalog.
func ColumnsFor(cat *catalog.Catalog) SheetColumns {
	s := newSchema(cat)
	cols := SheetColumns{
		Date:        colLetter(colDate),
		DailyPts:    colLetter(s.dailyPtsCol),
		ExercisePts: colLetter(s.exercisePtsCol),
		TotalPts:    colLetter(s.totalPtsCol),
	}
	if idx, ok := s.columnOf(catalog.ActionCheatMeals); ok {
		cols.CheatMeals = colLetter(idx)
	}
	return cols
}

// colLetter converts a 0-based column index to its A1 letter form.
func colLetter(col int) string {
	letters := ""
	for col >= 0 {
		letters = string(rune('A'+col%26)) + letters
		col = col/26 - 1
	}
	return letters
}
