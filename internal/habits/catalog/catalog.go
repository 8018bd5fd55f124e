package catalog

import (
	"errors"
	"fmt"
	"time"
)

// Action is the stable key of a single trackable habit event.
type Action string

const (
	ActionWakeUp7am Action = "wake_7am"
	ActionCardio    Action = "cardio"
	ActionBreakfast Action = "breakfast"
	ActionLunch     Action = "lunch"
	ActionSnack     Action = "snack"
	ActionDinner    Action = "dinner"
	ActionWater1    Action = "water_1"
	ActionWater2    Action = "water_2"
	ActionWater3    Action = "water_3"
	ActionWaterCup  Action = "water_copo"
	ActionBedroom   Action = "bedroom"
	ActionBed       Action = "bed"
	ActionPilates   Action = "pilates"
	ActionGym       Action = "gym"
	// ActionCheatMeals is a counter, not a scored habit - it feeds the
	// weekly penalty instead of the daily total.
	ActionCheatMeals Action = "cheat_meals"
)

type Category string

const (
	CategorySleep     Category = "sleep"
	CategoryNutrition Category = "nutrition"
	CategoryHydration Category = "hydration"
	CategoryCardio    Category = "cardio"
	CategoryExercise  Category = "exercise"
	CategoryPenalty   Category = "penalty"
)

// ExerciseChoice is the weekly pick of which optional day counts for the gym.
type ExerciseChoice string

const (
	ChoiceNone     ExerciseChoice = ""
	ChoiceFriday   ExerciseChoice = "friday"
	ChoiceSaturday ExerciseChoice = "saturday"
)

func ParseExerciseChoice(s string) (ExerciseChoice, error) {
	switch ExerciseChoice(s) {
	case ChoiceFriday, ChoiceSaturday:
		return ExerciseChoice(s), nil
	default:
		return ChoiceNone, fmt.Errorf("gym day must be %q or %q", ChoiceFriday, ChoiceSaturday)
	}
}

var ErrUnknownAction = errors.New("unknown action")

type Rule struct {
	Action   Action
	Weight   int
	Category Category
}

type Catalog struct {
	rules map[Action]Rule
	order []Action
}

// New returns the static action registry. Hydration weights escalate per
// bottle (1/2/3 points) plus 1 point for the 300 ml cup - the non-uniform
// weighting is intentional and mirrored by the spreadsheet formulas.
func New() *Catalog {
	rules := []Rule{
		{ActionWakeUp7am, 1, CategorySleep},
		{ActionCardio, 1, CategoryCardio},
		{ActionBreakfast, 1, CategoryNutrition},
		{ActionLunch, 1, CategoryNutrition},
		{ActionSnack, 1, CategoryNutrition},
		{ActionDinner, 1, CategoryNutrition},
		{ActionWater1, 1, CategoryHydration},
		{ActionWater2, 2, CategoryHydration},
		{ActionWater3, 3, CategoryHydration},
		{ActionWaterCup, 1, CategoryHydration},
		{ActionBedroom, 1, CategorySleep},
		{ActionBed, 1, CategorySleep},
		{ActionPilates, 1, CategoryExercise},
		{ActionGym, 1, CategoryExercise},
		{ActionCheatMeals, 0, CategoryPenalty},
	}

	c := &Catalog{
		rules: make(map[Action]Rule, len(rules)),
	}
	for _, r := range rules {
		c.rules[r.Action] = r
		c.order = append(c.order, r.Action)
	}
	return c
}

// Actions returns all actions in stable catalog order. The ledger derives
// its column schema from this order.
func (c *Catalog) Actions() []Action {
	out := make([]Action, len(c.order))
	copy(out, c.order)
	return out
}

func (c *Catalog) Known(a Action) bool {
	_, ok := c.rules[a]
	return ok
}

func (c *Catalog) Rule(a Action) (Rule, error) {
	r, ok := c.rules[a]
	if !ok {
		return Rule{}, fmt.Errorf("%w: %s", ErrUnknownAction, a)
	}
	return r, nil
}

func (c *Catalog) WeightOf(a Action) (int, error) {
	r, err := c.Rule(a)
	if err != nil {
		return 0, err
	}
	return r.Weight, nil
}

// IsApplicable reports whether an action can score on the given day.
// Wake-up and cardio are weekday slots; pilates runs Mon/Wed; gym runs
// Tue/Thu plus the chosen Friday or Saturday. Everything else applies daily.
func (c *Catalog) IsApplicable(a Action, day time.Weekday, choice ExerciseChoice) bool {
	if !c.Known(a) {
		return false
	}
	switch a {
	case ActionWakeUp7am, ActionCardio:
		return !IsWeekend(day)
	case ActionPilates:
		return day == time.Monday || day == time.Wednesday
	case ActionGym:
		if day == time.Tuesday || day == time.Thursday {
			return true
		}
		return (choice == ChoiceFriday && day == time.Friday) ||
			(choice == ChoiceSaturday && day == time.Saturday)
	default:
		return true
	}
}

// ExerciseFor returns the exercise scheduled for the given day, if any.
// Pilates and gym never share a day in the schedule, but if they ever did,
// pilates wins - exercise counts at most one point per day either way.
func (c *Catalog) ExerciseFor(day time.Weekday, choice ExerciseChoice) (Action, bool) {
	if c.IsApplicable(ActionPilates, day, choice) {
		return ActionPilates, true
	}
	if c.IsApplicable(ActionGym, day, choice) {
		return ActionGym, true
	}
	return "", false
}

func IsWeekend(day time.Weekday) bool {
	return day == time.Saturday || day == time.Sunday
}
