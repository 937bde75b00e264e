// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/fitpantry/coach/internal/domain/nutrition"
	"github.com/fitpantry/coach/internal/domain/pantry"
	"github.com/fitpantry/coach/internal/domain/profile"
	"github.com/fitpantry/coach/internal/domain/session"
	"github.com/fitpantry/coach/internal/domain/shared"
	"github.com/fitpantry/coach/internal/domain/training"
	"github.com/google/uuid"
)

var pantryStaples = []string{
	"arroz", "pollo", "huevos", "avena", "platano", "espinacas", "atun",
	"lentejas", "yogur", "aceite de oliva", "tomate", "cebolla", "patata",
}

var exerciseNames = []string{
	"Sentadilla", "Press banca", "Peso muerto", "Dominadas", "Remo con barra",
	"Press militar", "Hip thrust", "Zancadas", "Curl femoral", "Plancha",
}

// StateFactory builds session states from a seeded faker
type StateFactory struct {
	faker *gofakeit.Faker
}

// NewStateFactory creates a new state factory with seeded faker
func NewStateFactory(seed int64) *StateFactory {
	return &StateFactory{faker: gofakeit.New(seed)}
}

// Profile returns a plausible random profile
func (f *StateFactory) Profile() profile.Profile {
	p := profile.DefaultProfile()
	p.Sex = profile.Sex(f.faker.RandomString([]string{"male", "female"}))
	p.Age = f.faker.Number(18, 65)
	p.WeightKg = float64(f.faker.Number(50, 110))
	p.HeightCm = float64(f.faker.Number(150, 200))
	p.Goal = profile.Goal(f.faker.RandomString([]string{"fat_loss", "hypertrophy", "strength", "health"}))
	p.TrainingDays = f.faker.Number(2, 6)
	p.MealsPerDay = f.faker.Number(3, 5)
	p.Normalize()
	return p
}

// Ingredients returns n distinct pantry names
func (f *StateFactory) Ingredients(n int) []string {
	if n > len(pantryStaples) {
		n = len(pantryStaples)
	}
	shuffled := append([]string{}, pantryStaples...)
	f.faker.ShuffleStrings(shuffled)
	return shuffled[:n]
}

// Meal returns a meal built from the given ingredients
func (f *StateFactory) Meal(mealType string, ingredients ...string) nutrition.Meal {
	kcal := float64(f.faker.Number(250, 800))
	protein := float64(f.faker.Number(15, 50))
	return nutrition.Meal{
		Type:         mealType,
		Dish:         strings.Join(ingredients, " con "),
		Ingredients:  ingredients,
		Instructions: f.faker.Sentence(8),
		Rationale:    f.faker.Sentence(6),
		Kcal:         &kcal,
		Protein:      &protein,
	}
}

// Plan returns a plan covering the given days with mealsPerDay meals each
func (f *StateFactory) Plan(days []string, mealsPerDay int) nutrition.Plan {
	out := make(map[string][]nutrition.Meal, len(days))
	for _, day := range days {
		for i := 0; i < mealsPerDay; i++ {
			out[day] = append(out[day], f.Meal(fmt.Sprintf("Comida %d", i+1), f.Ingredients(2)...))
		}
	}
	plan, err := nutrition.NewPlan(out)
	if err != nil {
		panic(err)
	}
	return plan
}

// Exercise returns a fresh exercise with the given target sets
func (f *StateFactory) Exercise(targetSets int) training.Exercise {
	return training.Exercise{
		Name:       f.faker.RandomString(exerciseNames),
		WarmUp:     "2 series de aproximacion",
		TargetSets: targetSets,
		Reps:       fmt.Sprintf("%d-%d", f.faker.Number(5, 8), f.faker.Number(9, 12)),
		TargetRIR:  "2",
		Tempo:      "3-1-1-0",
		Rest:       "90s",
		Completed:  []training.CompletedSet{},
	}
}

// Microcycle returns a microcycle with exercisesPerDay exercises on each day
func (f *StateFactory) Microcycle(days []string, exercisesPerDay, targetSets int) training.Microcycle {
	out := make(map[string][]training.Exercise, len(days))
	for _, day := range days {
		for i := 0; i < exercisesPerDay; i++ {
			out[day] = append(out[day], f.Exercise(targetSets))
		}
	}
	mc, err := training.NewMicrocycle(out)
	if err != nil {
		panic(err)
	}
	return mc
}

// StateBuilder provides a fluent interface for building test sessions
type StateBuilder struct {
	factory *StateFactory
	state   *session.State
}

// NewStateBuilder creates a builder around a fresh session
func NewStateBuilder(seed int64) *StateBuilder {
	return &StateBuilder{
		factory: NewStateFactory(seed),
		state:   session.NewState(uuid.NewString()),
	}
}

// WithID sets the session ID
func (b *StateBuilder) WithID(id string) *StateBuilder {
	b.state.ID = id
	return b
}

// WithRandomProfile fills the profile from the faker
func (b *StateBuilder) WithRandomProfile() *StateBuilder {
	b.state.Profile = b.factory.Profile()
	return b
}

// WithInventory adds pantry items through the manual channel
func (b *StateBuilder) WithInventory(names ...string) *StateBuilder {
	b.state.AddInventory(pantry.ChannelManual, names)
	return b
}

// WithPlan installs a plan
func (b *StateBuilder) WithPlan(plan nutrition.Plan) *StateBuilder {
	b.state.ReplacePlan(plan)
	return b
}

// WithWeekPlan installs a generated plan covering the whole week
func (b *StateBuilder) WithWeekPlan(mealsPerDay int) *StateBuilder {
	return b.WithPlan(b.factory.Plan(shared.Weekdays, mealsPerDay))
}

// WithMicrocycle installs a microcycle
func (b *StateBuilder) WithMicrocycle(mc training.Microcycle) *StateBuilder {
	b.state.ReplaceMicrocycle(mc)
	return b
}

// WithCNS sets the central nervous system gauge
func (b *StateBuilder) WithCNS(value int) *StateBuilder {
	b.state.Fatigue[training.CNS] = value
	return b
}

// Build returns the state with pending events cleared
func (b *StateBuilder) Build() *session.State {
	b.state.ClearEvents()
	return b.state
}
