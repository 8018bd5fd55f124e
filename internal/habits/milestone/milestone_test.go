package milestone

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mfdias/rotina/internal/habits/catalog"
	"github.com/mfdias/rotina/internal/habits/scoring"
)

func totals(grand int) scoring.Totals {
	return scoring.Totals{Grand: grand}
}

func TestDetect_Halfway(t *testing.T) {
	max := scoring.Max{Total: 16}

	t.Run("fires on the crossing action", func(t *testing.T) {
		got := Detect(totals(7), totals(8), max, catalog.ActionLunch)
		assert.Equal(t, []Kind{KindHalfway}, got)
	})

	t.Run("does not refire once past the threshold", func(t *testing.T) {
		got := Detect(totals(8), totals(9), max, catalog.ActionSnack)
		assert.Empty(t, got)
	})

	t.Run("silent below the threshold", func(t *testing.T) {
		got := Detect(totals(2), totals(3), max, catalog.ActionSnack)
		assert.Empty(t, got)
	})
}

func TestDetect_Perfect(t *testing.T) {
	max := scoring.Max{Total: 16}

	got := Detect(totals(15), totals(16), max, catalog.ActionBed)
	assert.Equal(t, []Kind{KindPerfect}, got)

	got = Detect(totals(16), totals(16), max, catalog.ActionBed)
	assert.Empty(t, got, "already at max, nothing new crossed")
}

func TestDetect_HalfwayAndPerfectTogether(t *testing.T) {
	// A three point jump on a small weekend max can cross both edges at once.
	max := scoring.Max{Total: 13}
	got := Detect(totals(10), totals(13), max, catalog.ActionWater3)
	assert.Equal(t, []Kind{KindPerfect, KindHardMode}, got)
}

func TestDetect_HardMode(t *testing.T) {
	max := scoring.Max{Total: 16}

	t.Run("large bottle always celebrates", func(t *testing.T) {
		got := Detect(totals(3), totals(6), max, catalog.ActionWater3)
		assert.Equal(t, []Kind{KindHardMode}, got)
	})

	t.Run("unchecking the bottle does not", func(t *testing.T) {
		got := Detect(totals(6), totals(3), max, catalog.ActionWater3)
		assert.Empty(t, got)
	})

	t.Run("other water actions do not", func(t *testing.T) {
		got := Detect(totals(3), totals(4), max, catalog.ActionWater1)
		assert.Empty(t, got)
	})
}

func TestDetect_ZeroMax(t *testing.T) {
	got := Detect(totals(0), totals(1), scoring.Max{}, catalog.ActionBreakfast)
	assert.Empty(t, got)
}
