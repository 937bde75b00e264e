// Package nutrition models the weekly meal plan returned by the gateway and
// its local completion overlay.
package nutrition

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fitpantry/coach/internal/domain/pantry"
	"github.com/fitpantry/coach/internal/domain/shared"
)

var (
	ErrUnknownDay       = errors.New("unknown weekday label")
	ErrEmptyPlan        = errors.New("plan has no meals")
	ErrMissingDish      = errors.New("meal is missing a dish name")
	ErrMealNotFound     = errors.New("meal not found")
	ErrAlreadyCompleted = errors.New("meal already completed")
)

// Meal is one entry of a day in the plan. Macro fields are optional and only summed for display.
type Meal struct {
	Type         string   `json:"type"`
	Dish         string   `json:"dish"`
	Ingredients  []string `json:"ingredients"`
	Instructions string   `json:"instructions"`
	Rationale    string   `json:"rationale"`
	Kcal         *float64 `json:"kcal,omitempty"`
	Protein      *float64 `json:"protein,omitempty"`
	Carbs        *float64 `json:"carbs,omitempty"`
	Fat          *float64 `json:"fat,omitempty"`
}

// Validate checks the required fields of a meal
func (m Meal) Validate() error {
	if strings.TrimSpace(m.Dish) == "" {
		return ErrMissingDish
	}
	return nil
}

// Slot addresses a meal inside the plan
type Slot struct {
	Day   string `json:"day"`
	Index int    `json:"index"`
}

// Plan maps weekday labels to ordered meals. Completed is the overlay of
// finished slots; everything else is immutable until the next generation.
type Plan struct {
	Days      map[string][]Meal `json:"days"`
	Completed []Slot            `json:"completed"`
}

// NewPlan validates a generated plan. Unknown day labels, meals without a dish
// and plans with no meal at all are rejected.
func NewPlan(days map[string][]Meal) (Plan, error) {
	clean := make(map[string][]Meal, len(days))
	total := 0
	for day, meals := range days {
		total += len(meals)
		if !shared.IsWeekday(day) {
			return Plan{}, fmt.Errorf("%w: %q", ErrUnknownDay, day)
		}
		for i, meal := range meals {
			if err := meal.Validate(); err != nil {
				return Plan{}, fmt.Errorf("%s meal %d: %w", day, i, err)
			}
		}
		clean[day] = cloneMeals(meals)
	}
	if total == 0 {
		return Plan{}, ErrEmptyPlan
	}
	return Plan{Days: clean, Completed: []Slot{}}, nil
}

// IsEmpty reports whether no plan has been generated yet
func (p Plan) IsEmpty() bool {
	return len(p.Days) == 0
}

// OrderedDays returns the plan's day labels in weekday order
func (p Plan) OrderedDays() []string {
	return shared.OrderedDays(p.Days)
}

// Meal returns the meal at the slot
func (p Plan) Meal(day string, index int) (Meal, error) {
	meals, ok := p.Days[day]
	if !ok || index < 0 || index >= len(meals) {
		return Meal{}, fmt.Errorf("%w: %s #%d", ErrMealNotFound, day, index)
	}
	return meals[index], nil
}

// IsCompleted reports whether the slot is in the completion overlay
func (p Plan) IsCompleted(day string, index int) bool {
	for _, s := range p.Completed {
		if s.Day == day && s.Index == index {
			return true
		}
	}
	return false
}

// MarkCompleted adds the slot to the overlay. A slot can be completed only once.
func (p *Plan) MarkCompleted(day string, index int) (Meal, error) {
	meal, err := p.Meal(day, index)
	if err != nil {
		return Meal{}, err
	}
	if p.IsCompleted(day, index) {
		return Meal{}, ErrAlreadyCompleted
	}
	p.Completed = append(p.Completed, Slot{Day: day, Index: index})
	return meal, nil
}

// ReplaceMeal splices a regenerated meal into the slot and clears its completion flag.
func (p *Plan) ReplaceMeal(day string, index int, meal Meal) error {
	if _, err := p.Meal(day, index); err != nil {
		return err
	}
	if err := meal.Validate(); err != nil {
		return err
	}
	p.Days[day][index] = cloneMeal(meal)
	kept := p.Completed[:0]
	for _, s := range p.Completed {
		if s.Day != day || s.Index != index {
			kept = append(kept, s)
		}
	}
	p.Completed = kept
	return nil
}

// Totals is the display-only sum of the macro fields supplied by the gateway
type Totals struct {
	Kcal    float64 `json:"kcal"`
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
}

// DailyTotals sums the optional macros of a day
func (p Plan) DailyTotals(day string) Totals {
	var t Totals
	for _, m := range p.Days[day] {
		t.Kcal += deref(m.Kcal)
		t.Protein += deref(m.Protein)
		t.Carbs += deref(m.Carbs)
		t.Fat += deref(m.Fat)
	}
	return t
}

// IngredientStatus is the have/missing indicator for one ingredient
type IngredientStatus struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

// Availability flags every ingredient of the meal against the inventory
func Availability(meal Meal, inv pantry.Inventory, matcher pantry.IngredientMatcher) []IngredientStatus {
	out := make([]IngredientStatus, 0, len(meal.Ingredients))
	for _, ing := range meal.Ingredients {
		out = append(out, IngredientStatus{
			Name:      ing,
			Available: inv.Has(ing, matcher),
		})
	}
	return out
}

// MissingToday is the union of missing ingredients across the meals of a day.
func (p Plan) MissingToday(day string, inv pantry.Inventory, matcher pantry.IngredientMatcher) []string {
	var all []string
	for _, m := range p.Days[day] {
		all = append(all, m.Ingredients...)
	}
	return inv.Missing(all, matcher)
}

// Clone returns a deep copy
func (p Plan) Clone() Plan {
	out := Plan{Completed: append([]Slot{}, p.Completed...)}
	if p.Days != nil {
		out.Days = make(map[string][]Meal, len(p.Days))
		for day, meals := range p.Days {
			out.Days[day] = cloneMeals(meals)
		}
	}
	return out
}

func cloneMeals(meals []Meal) []Meal {
	out := make([]Meal, len(meals))
	for i, m := range meals {
		out[i] = cloneMeal(m)
	}
	return out
}

func cloneMeal(m Meal) Meal {
	m.Ingredients = append([]string{}, m.Ingredients...)
	return m
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
