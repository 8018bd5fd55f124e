package ledger

import (
	"strconv"
	"time"

	"github.com/mfdias/rotina/internal/habits/catalog"
)

const DateLayout = "2006-01-02"

// Record is one ledger entry - exactly one per calendar date.
// Values holds the parsed numeric value per action; fields that came back
// from the store as non-numeric text are kept in Raw for display and count
// as zero in any arithmetic.
type Record struct {
	Date   time.Time
	Day    string
	Values map[catalog.Action]int
	Raw    map[catalog.Action]string
}

func NewRecord(date time.Time) *Record {
	return &Record{
		Date:   date,
		Day:    date.Format("Monday"),
		Values: make(map[catalog.Action]int),
		Raw:    make(map[catalog.Action]string),
	}
}

// Value returns the numeric value for an action, zero for fields that are
// absent or malformed. Columns added to the schema after this record was
// created simply read as zero.
func (r *Record) Value(a catalog.Action) int {
	return r.Values[a]
}

func (r *Record) Done(a catalog.Action) bool {
	return r.Values[a] > 0
}

// Display returns the stored text for malformed fields, otherwise the
// numeric value.
func (r *Record) Display(a catalog.Action) string {
	if raw, ok := r.Raw[a]; ok {
		return raw
	}
	return strconv.Itoa(r.Values[a])
}

// Weekday is recomputed from the date - the stored day name column is a
// human-facing mirror, never authoritative.
func (r *Record) Weekday() time.Weekday {
	return r.Date.Weekday()
}
