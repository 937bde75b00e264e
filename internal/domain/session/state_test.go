package session

import (
	"testing"

	"github.com/fitpantry/coach/internal/domain/nutrition"
	"github.com/fitpantry/coach/internal/domain/pantry"
	"github.com/fitpantry/coach/internal/domain/profile"
	"github.com/fitpantry/coach/internal/domain/training"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type StateTestSuite struct {
	suite.Suite
	state   *State
	matcher pantry.IngredientMatcher
}

func (s *StateTestSuite) SetupTest() {
	s.state = NewState("session-1")
	s.matcher = pantry.ContainmentMatcher{}

	m, err := training.NewMicrocycle(map[string][]training.Exercise{
		"Lunes": {
			{Name: "Sentadilla", TargetSets: 3},
			{Name: "Dominadas", TargetSets: 1},
		},
	})
	require.NoError(s.T(), err)
	s.state.ReplaceMicrocycle(m)
	s.state.ClearEvents()
}

func (s *StateTestSuite) TestNewState() {
	assert.Equal(s.T(), 100, s.state.Fatigue.CNS())
	assert.Equal(s.T(), profile.PhaseNone, s.state.Profile.HormonalPhase)
	assert.Equal(s.T(), DefaultHydrationTarget, s.state.Hydration.Target)
	assert.Zero(s.T(), s.state.Inventory.Len())
}

func (s *StateTestSuite) TestRegisterSet() {
	s.Run("NormalSet_ShouldDecrementCNSByThree", func() {
		// Act
		res, err := s.state.RegisterSet("Lunes", 0, 100, 2, false)

		// Assert
		require.NoError(s.T(), err)
		assert.Equal(s.T(), 97, res.CNS)
		assert.Len(s.T(), res.Exercise.Completed, 1)
		assert.Empty(s.T(), s.state.Records)
	})

	s.Run("PRSet_ShouldDecrementBySixAndOverwriteRecord", func() {
		s.state.Records.Record("Sentadilla", 200)

		res, err := s.state.RegisterSet("Lunes", 0, 150, 0, true)

		require.NoError(s.T(), err)
		assert.Equal(s.T(), 91, res.CNS)
		assert.Equal(s.T(), 150.0, s.state.Records["Sentadilla"])
	})

	s.Run("UnknownExercise_ShouldNotMutate", func() {
		before := s.state.Fatigue.CNS()

		_, err := s.state.RegisterSet("Lunes", 9, 100, 2, false)

		assert.ErrorIs(s.T(), err, training.ErrExerciseNotFound)
		assert.Equal(s.T(), before, s.state.Fatigue.CNS())
	})
}

func (s *StateTestSuite) TestFatigueGate() {
	s.Run("CNSBelowFloor_ShouldRejectWithoutMutation", func() {
		// Arrange
		s.state.Fatigue[training.CNS] = 39
		setsBefore := len(s.state.Microcycle.Days["Lunes"][0].Completed)

		// Act
		_, err := s.state.RegisterSet("Lunes", 0, 100, 1, true)

		// Assert
		assert.ErrorIs(s.T(), err, training.ErrFatigueLocked)
		assert.Equal(s.T(), 39, s.state.Fatigue.CNS())
		assert.Len(s.T(), s.state.Microcycle.Days["Lunes"][0].Completed, setsBefore)
		assert.Empty(s.T(), s.state.Records)
	})

	s.Run("AfterReset_ShouldAcceptAgain", func() {
		s.state.ResetFatigue()

		_, err := s.state.RegisterSet("Lunes", 0, 100, 1, false)

		assert.NoError(s.T(), err)
	})

	s.Run("RepeatedSets_ShouldLockAtFloor", func() {
		s.state.ResetFatigue()
		accepted := 0
		for i := 0; i < 50; i++ {
			if _, err := s.state.RegisterSet("Lunes", 0, 100, 1, true); err != nil {
				break
			}
			accepted++
		}
		// 100 -> 40 takes 10 PR sets, the 11th lands at 34 and every later set is refused
		assert.Equal(s.T(), 11, accepted)
		assert.Equal(s.T(), 34, s.state.Fatigue.CNS())
	})
}

func (s *StateTestSuite) TestTrainingStreak() {
	s.Run("LastExerciseDone_ShouldIncrementOnce", func() {
		for i := 0; i < 3; i++ {
			res, err := s.state.RegisterSet("Lunes", 0, 100, 2, false)
			require.NoError(s.T(), err)
			assert.False(s.T(), res.DayCompleted)
		}

		res, err := s.state.RegisterSet("Lunes", 1, 0, 1, false)
		require.NoError(s.T(), err)
		assert.True(s.T(), res.DayCompleted)
		assert.Equal(s.T(), 1, s.state.Streaks.Training)

		res, err = s.state.RegisterSet("Lunes", 1, 0, 1, false)
		require.NoError(s.T(), err)
		assert.False(s.T(), res.DayCompleted)
		assert.Equal(s.T(), 1, s.state.Streaks.Training)
	})
}

func (s *StateTestSuite) TestCompleteMeal() {
	s.Run("ShouldConsumeIngredientsAndExtendStreak", func() {
		// Arrange
		s.state.AddInventory(pantry.ChannelManual, []string{"pollo", "pechuga de pollo", "arroz"})
		plan, err := nutrition.NewPlan(map[string][]nutrition.Meal{
			"Lunes": {{Type: "Comida", Dish: "Pollo con arroz", Ingredients: []string{"pollo", "arroz", "limón"}}},
		})
		require.NoError(s.T(), err)
		s.state.ReplacePlan(plan)

		// Act
		consumed, err := s.state.CompleteMeal("Lunes", 0, s.matcher)

		// Assert
		require.NoError(s.T(), err)
		assert.Len(s.T(), consumed, 2)
		assert.Equal(s.T(), 1, s.state.Inventory.Len())
		assert.Equal(s.T(), 1, s.state.Streaks.Nutrition)
		assert.True(s.T(), s.state.Plan.IsCompleted("Lunes", 0))
	})

	s.Run("SecondCompletion_ShouldNotConsumeAgain", func() {
		before := s.state.Inventory.Len()

		_, err := s.state.CompleteMeal("Lunes", 0, s.matcher)

		assert.ErrorIs(s.T(), err, nutrition.ErrAlreadyCompleted)
		assert.Equal(s.T(), before, s.state.Inventory.Len())
		assert.Equal(s.T(), 1, s.state.Streaks.Nutrition)
	})

	s.Run("NewPlan_ShouldClearOverlay", func() {
		plan, err := nutrition.NewPlan(map[string][]nutrition.Meal{"Martes": {{Dish: "Sopa"}}})
		require.NoError(s.T(), err)

		s.state.ReplacePlan(plan)

		assert.Empty(s.T(), s.state.Plan.Completed)
	})
}

func (s *StateTestSuite) TestTrackers() {
	require.NoError(s.T(), s.state.AddWater(0.5))
	assert.ErrorIs(s.T(), s.state.AddWater(0), ErrInvalidAmount)
	s.state.Streaks = Streaks{Nutrition: 4, Training: 2}

	s.state.RecoveryProtocol()

	assert.Equal(s.T(), Streaks{}, s.state.Streaks)
	assert.Zero(s.T(), s.state.Hydration.Liters)
	assert.InDelta(s.T(), 3.0, s.state.Hydration.Target, 0.0001)

	assert.ErrorIs(s.T(), s.state.LogMeasurement(Measurement{}), ErrInvalidMeasurement)
	require.NoError(s.T(), s.state.LogMeasurement(Measurement{WeightKg: 80}))
	assert.Len(s.T(), s.state.Measurements, 1)
	assert.False(s.T(), s.state.Measurements[0].Date.IsZero())
}

func (s *StateTestSuite) TestCloneIsolation() {
	s.state.AddInventory(pantry.ChannelManual, []string{"arroz"})

	cp := s.state.Clone()
	cp.AddInventory(pantry.ChannelManual, []string{"huevo"})
	_, err := cp.RegisterSet("Lunes", 0, 100, 2, true)
	require.NoError(s.T(), err)

	assert.Equal(s.T(), 1, s.state.Inventory.Len())
	assert.Equal(s.T(), 100, s.state.Fatigue.CNS())
	assert.Empty(s.T(), s.state.Microcycle.Days["Lunes"][0].Completed)
	assert.Empty(s.T(), s.state.Records)
}

func (s *StateTestSuite) TestEvents() {
	s.state.AddInventory(pantry.ChannelVoice, []string{"avena"})
	s.state.AddInventory(pantry.ChannelVoice, []string{"avena"})
	_, err := s.state.RegisterSet("Lunes", 1, 0, 0, false)
	require.NoError(s.T(), err)

	events := s.state.Events()

	names := make([]string, 0, len(events))
	for _, e := range events {
		names = append(names, e.EventName())
	}
	assert.Equal(s.T(), []string{"inventory.updated", "set.registered"}, names)
}

func TestStateTestSuite(t *testing.T) {
	suite.Run(t, new(StateTestSuite))
}
