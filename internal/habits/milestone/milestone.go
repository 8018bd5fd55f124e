// Package milestone decides which celebration messages a newly recorded
// action has earned. Detection works on the crossing edge: a milestone fires
// on the action that moves the total over its threshold and never again for
// the same day.
package milestone

import (
	"github.com/mfdias/rotina/internal/habits/catalog"
	"github.com/mfdias/rotina/internal/habits/scoring"
)

type Kind string

const (
	KindHalfway  Kind = "halfway"
	KindPerfect  Kind = "perfect"
	KindHardMode Kind = "hard_mode"
)

// Detect compares the day's total before and after the recorded action and
// returns the milestones that were crossed. The large water bottle is a
// milestone every time it is completed, independent of totals.
func Detect(before, after scoring.Totals, max scoring.Max, justCompleted catalog.Action) []Kind {
	var out []Kind

	if max.Total > 0 {
		beforePct := scoring.Percent(before.Grand, max.Total)
		afterPct := scoring.Percent(after.Grand, max.Total)

		if afterPct >= 50 && beforePct < 50 {
			out = append(out, KindHalfway)
		}
		if after.Grand >= max.Total && before.Grand < max.Total {
			out = append(out, KindPerfect)
		}
	}

	if justCompleted == catalog.ActionWater3 && after.Grand > before.Grand {
		out = append(out, KindHardMode)
	}
	return out
}
