package coach

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{"plain", `{"a":1}`, `{"a":1}`, true},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`, true},
		{"single line fence", "```json {\"a\":1} ```", `{"a":1}`, true},
		{"fence glued to object", "```{\"a\":1}```", `{"a":1}`, true},
		{"commentary", "Aquí tienes tu plan:\n{\"a\":{\"b\":2}}\n¡Buena suerte!", `{"a":{"b":2}}`, true},
		{"no object", "lo siento, no puedo", "", false},
		{"reversed braces", "} nada {", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSON(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePlan(t *testing.T) {
	t.Run("canonicalizes day labels", func(t *testing.T) {
		raw := "```json\n{\"lunes\": [{\"type\": \"Desayuno\", \"dish\": \"Avena\", \"ingredients\": [\"avena\", \"leche\"], \"kcal\": 350}],\n \"Miércoles\": [{\"type\": \"Cena\", \"dish\": \"Tortilla\", \"ingredients\": [\"huevo\"]}]}\n```"

		res := ParsePlan(raw)

		require.True(t, res.Ok(), res.Reason())
		plan := res.Value()
		assert.Equal(t, []string{"Lunes", "Miercoles"}, plan.OrderedDays())
		require.NotNil(t, plan.Days["Lunes"][0].Kcal)
		assert.Equal(t, 350.0, *plan.Days["Lunes"][0].Kcal)
	})

	t.Run("accepts single line fenced answer", func(t *testing.T) {
		raw := "```json {\"Lunes\": [{\"type\": \"Desayuno\", \"dish\": \"Avena\", \"ingredients\": [\"avena\"]}]} ```"

		res := ParsePlan(raw)

		require.True(t, res.Ok(), res.Reason())
		assert.Equal(t, "Avena", res.Value().Days["Lunes"][0].Dish)
	})

	t.Run("rejects plan without meals", func(t *testing.T) {
		res := ParsePlan(`{"Lunes": [], "Martes": []}`)
		assert.False(t, res.Ok())
		assert.Contains(t, res.Reason(), "plan has no meals")
	})

	t.Run("rejects unknown day", func(t *testing.T) {
		res := ParsePlan(`{"Funday": [{"dish": "x"}]}`)
		assert.False(t, res.Ok())
		assert.Contains(t, res.Reason(), "unknown day")
	})

	t.Run("rejects meal without dish", func(t *testing.T) {
		res := ParsePlan(`{"Lunes": [{"type": "Cena"}]}`)
		assert.False(t, res.Ok())
	})

	t.Run("rejects wrong value type", func(t *testing.T) {
		res := ParsePlan(`{"Lunes": "descanso"}`)
		assert.False(t, res.Ok())
		assert.Contains(t, res.Reason(), "invalid JSON")
	})

	t.Run("rejects duplicate day", func(t *testing.T) {
		res := ParsePlan(`{"Lunes": [{"dish": "a"}], "lunes": [{"dish": "b"}]}`)
		assert.False(t, res.Ok())
	})
}

func TestParseMicrocycle(t *testing.T) {
	raw := `Plan: {"Lunes": [{"name": "Sentadilla", "sets": 3, "reps": "6-8", "rir": "1-2", "tempo": "3-1-1-0", "completed_sets": [{"load": 100}]}]}`

	res := ParseMicrocycle(raw)

	require.True(t, res.Ok(), res.Reason())
	ex := res.Value().Days["Lunes"][0]
	assert.Equal(t, "Sentadilla", ex.Name)
	assert.Equal(t, 3, ex.TargetSets)
	assert.Empty(t, ex.Completed)

	assert.False(t, ParseMicrocycle(`{"Lunes": [{"name": "Remo", "sets": 0}]}`).Ok())
}

func TestParseExercise(t *testing.T) {
	res := ParseExercise(`{"name": "Prensa", "sets": 4, "completed_sets": [{"load": 1}]}`)
	require.True(t, res.Ok())
	assert.Empty(t, res.Value().Completed)

	assert.False(t, ParseExercise(`{"sets": 4}`).Ok())
	assert.False(t, ParseExercise(`not json`).Ok())
}

func TestParseMeal(t *testing.T) {
	res := ParseMeal(`{"type": "Comida", "dish": "Lentejas", "ingredients": ["lentejas"]}`)
	require.True(t, res.Ok())
	assert.Equal(t, "Lentejas", res.Value().Dish)

	assert.False(t, ParseMeal(`{"type": "Comida"}`).Ok())
}

func TestParseIngredientList(t *testing.T) {
	res := ParseIngredientList("Tomate, Lechuga,\n- Queso fresco.")
	require.True(t, res.Ok())
	assert.Equal(t, []string{"tomate", "lechuga", "queso fresco"}, res.Value())

	assert.False(t, ParseIngredientList(" , \n").Ok())
}
