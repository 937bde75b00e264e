package nutrition

import (
	"testing"

	"github.com/fitpantry/coach/internal/domain/pantry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func samplePlan(t *testing.T) Plan {
	t.Helper()
	plan, err := NewPlan(map[string][]Meal{
		"Lunes": {
			{Type: "Desayuno", Dish: "Tortilla", Ingredients: []string{"huevo", "espinaca"}, Kcal: f(400), Protein: f(25)},
			{Type: "Comida", Dish: "Arroz con brócoli", Ingredients: []string{"arroz", "brócoli"}, Kcal: f(600)},
		},
		"Martes": {
			{Type: "Cena", Dish: "Salmón", Ingredients: []string{"salmón"}},
		},
	})
	require.NoError(t, err)
	return plan
}

func TestNewPlan(t *testing.T) {
	t.Run("valid plan", func(t *testing.T) {
		plan := samplePlan(t)
		assert.Equal(t, []string{"Lunes", "Martes"}, plan.OrderedDays())
		assert.Empty(t, plan.Completed)
	})

	t.Run("unknown day", func(t *testing.T) {
		_, err := NewPlan(map[string][]Meal{"Monday": {{Dish: "x"}}})
		assert.ErrorIs(t, err, ErrUnknownDay)
	})

	t.Run("meal without dish", func(t *testing.T) {
		_, err := NewPlan(map[string][]Meal{"Lunes": {{Type: "Cena"}}})
		assert.ErrorIs(t, err, ErrMissingDish)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := NewPlan(nil)
		assert.ErrorIs(t, err, ErrEmptyPlan)
	})

	t.Run("days without meals", func(t *testing.T) {
		_, err := NewPlan(map[string][]Meal{"Lunes": {}, "Martes": nil})
		assert.ErrorIs(t, err, ErrEmptyPlan)
	})
}

func TestMarkCompleted(t *testing.T) {
	plan := samplePlan(t)

	meal, err := plan.MarkCompleted("Lunes", 1)
	require.NoError(t, err)
	assert.Equal(t, "Arroz con brócoli", meal.Dish)
	assert.True(t, plan.IsCompleted("Lunes", 1))

	_, err = plan.MarkCompleted("Lunes", 1)
	assert.ErrorIs(t, err, ErrAlreadyCompleted)

	_, err = plan.MarkCompleted("Lunes", 7)
	assert.ErrorIs(t, err, ErrMealNotFound)
}

func TestReplaceMeal_ClearsCompletion(t *testing.T) {
	plan := samplePlan(t)
	_, err := plan.MarkCompleted("Lunes", 0)
	require.NoError(t, err)

	err = plan.ReplaceMeal("Lunes", 0, Meal{Type: "Desayuno", Dish: "Avena", Ingredients: []string{"avena"}})
	require.NoError(t, err)

	assert.False(t, plan.IsCompleted("Lunes", 0))
	assert.Equal(t, "Avena", plan.Days["Lunes"][0].Dish)
	assert.Equal(t, "Arroz con brócoli", plan.Days["Lunes"][1].Dish)

	assert.ErrorIs(t, plan.ReplaceMeal("Lunes", 0, Meal{}), ErrMissingDish)
}

func TestDailyTotals(t *testing.T) {
	plan := samplePlan(t)

	totals := plan.DailyTotals("Lunes")

	assert.InDelta(t, 1000.0, totals.Kcal, 0.001)
	assert.InDelta(t, 25.0, totals.Protein, 0.001)
	assert.Zero(t, totals.Fat)
}

func TestMissingIngredients(t *testing.T) {
	inv := pantry.NewInventory("arroz", "huevo")
	matcher := pantry.ContainmentMatcher{}
	meal := Meal{Dish: "Arroz con brócoli", Ingredients: []string{"arroz", "brócoli"}}

	assert.Equal(t, []string{"brócoli"}, inv.Missing(meal.Ingredients, matcher))

	status := Availability(meal, inv, matcher)
	assert.Equal(t, []IngredientStatus{{Name: "arroz", Available: true}, {Name: "brócoli", Available: false}}, status)

	plan := samplePlan(t)
	assert.Equal(t, []string{"espinaca", "brócoli"}, plan.MissingToday("Lunes", inv, matcher))
}

func TestClone_IsDeep(t *testing.T) {
	plan := samplePlan(t)
	c := plan.Clone()

	c.Days["Lunes"][0].Ingredients[0] = "tofu"
	c.Days["Lunes"][0].Dish = "Otro"

	assert.Equal(t, "huevo", plan.Days["Lunes"][0].Ingredients[0])
	assert.Equal(t, "Tortilla", plan.Days["Lunes"][0].Dish)
}
