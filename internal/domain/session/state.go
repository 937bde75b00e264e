// Package session holds the per-user state record that every action reads
// and mutates. Callers mutate a Clone and persist it only on success, so a
// failed action never leaves a partially updated record behind.
package session

import (
	"time"

	"github.com/fitpantry/coach/internal/domain/nutrition"
	"github.com/fitpantry/coach/internal/domain/pantry"
	"github.com/fitpantry/coach/internal/domain/profile"
	"github.com/fitpantry/coach/internal/domain/shared"
	"github.com/fitpantry/coach/internal/domain/training"
)

// State is the complete session record
type State struct {
	shared.AggregateRoot `json:"-"`

	ID             string                   `json:"id"`
	Profile        profile.Profile          `json:"profile"`
	Inventory      pantry.Inventory         `json:"inventory"`
	Plan           nutrition.Plan           `json:"plan"`
	Microcycle     training.Microcycle      `json:"microcycle"`
	Fatigue        training.FatigueMap      `json:"muscle_fatigue"`
	Records        training.PersonalRecords `json:"personal_records"`
	Streaks        Streaks                  `json:"streaks"`
	Hydration      Hydration                `json:"hydration"`
	Measurements   []Measurement            `json:"measurements"`
	Calibration    profile.Calibration      `json:"calibration"`
	MedicalHistory MedicalHistory           `json:"medical_history"`
	Version        int64                    `json:"version"`
	CreatedAt      time.Time                `json:"created_at"`
	UpdatedAt      time.Time                `json:"updated_at"`
}

// NewState creates a session with default profile, empty pantry and a fully recovered fatigue map.
func NewState(id string) *State {
	now := time.Now().UTC()
	return &State{
		ID:           id,
		Profile:      profile.DefaultProfile(),
		Inventory:    pantry.NewInventory(),
		Fatigue:      training.DefaultFatigueMap(),
		Records:      training.PersonalRecords{},
		Hydration:    Hydration{Target: DefaultHydrationTarget},
		Measurements: []Measurement{},
		Calibration:  profile.DefaultCalibration(),
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Clone returns a deep copy without pending events
func (s *State) Clone() *State {
	cp := &State{
		ID:             s.ID,
		Profile:        s.Profile.Clone(),
		Inventory:      s.Inventory.Clone(),
		Plan:           s.Plan.Clone(),
		Microcycle:     s.Microcycle.Clone(),
		Fatigue:        s.Fatigue.Clone(),
		Records:        s.Records.Clone(),
		Streaks:        s.Streaks,
		Hydration:      s.Hydration,
		Measurements:   append([]Measurement{}, s.Measurements...),
		Calibration:    s.Calibration,
		MedicalHistory: s.MedicalHistory,
		Version:        s.Version,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
	cp.EnsureDefaults()
	return cp
}

// EnsureDefaults fills maps a decoder may have left nil
func (s *State) EnsureDefaults() {
	if s.Fatigue == nil {
		s.Fatigue = training.DefaultFatigueMap()
	}
	if s.Records == nil {
		s.Records = training.PersonalRecords{}
	}
	if s.Measurements == nil {
		s.Measurements = []Measurement{}
	}
	if s.Hydration.Target == 0 {
		s.Hydration.Target = DefaultHydrationTarget
	}
}

// Touch bumps the version after a successful mutation
func (s *State) Touch() {
	s.Version++
	s.UpdatedAt = time.Now().UTC()
}

// UpdateProfile overwrites the profile wholesale
func (s *State) UpdateProfile(p profile.Profile) {
	s.Profile = p.Normalize()
}

// Calibrate overwrites the daily readiness snapshot
func (s *State) Calibrate(c profile.Calibration) {
	s.Calibration = c
}

// AddInventory unions names into the pantry and returns the ones that were new
func (s *State) AddInventory(channel pantry.Channel, names []string) []string {
	added := s.Inventory.Add(names...)
	if len(added) > 0 {
		s.AddEvent(InventoryUpdatedEvent{SessionID: s.ID, Channel: string(channel), Added: added, At: time.Now()})
	}
	return added
}

// RemoveInventoryItem deletes an exact pantry entry
func (s *State) RemoveInventoryItem(name string) error {
	if !s.Inventory.Remove(name) {
		return ErrItemNotFound
	}
	return nil
}

// ReplacePlan installs a freshly generated plan; the completion overlay starts empty
func (s *State) ReplacePlan(plan nutrition.Plan) {
	plan.Completed = []nutrition.Slot{}
	s.Plan = plan
	s.AddEvent(PlanGeneratedEvent{SessionID: s.ID, Days: len(plan.Days), At: time.Now()})
}

// ReplaceMeal splices a regenerated meal into the plan
func (s *State) ReplaceMeal(day string, index int, meal nutrition.Meal) error {
	return s.Plan.ReplaceMeal(day, index, meal)
}

// CompleteMeal marks the meal completed, consumes its ingredients from the
// pantry and extends the nutrition streak. It returns the consumed entries.
func (s *State) CompleteMeal(day string, index int, matcher pantry.IngredientMatcher) ([]string, error) {
	meal, err := s.Plan.MarkCompleted(day, index)
	if err != nil {
		return nil, err
	}
	consumed := s.Inventory.Consume(meal.Ingredients, matcher)
	s.Streaks.Nutrition++
	s.AddEvent(MealCompletedEvent{SessionID: s.ID, Day: day, Index: index, Consumed: consumed, At: time.Now()})
	return consumed, nil
}

// ReplaceMicrocycle installs a freshly generated microcycle
func (s *State) ReplaceMicrocycle(m training.Microcycle) {
	s.Microcycle = m
	s.AddEvent(MicrocycleGeneratedEvent{SessionID: s.ID, Days: len(m.Days), At: time.Now()})
}

// SubstituteExercise swaps an exercise in place
func (s *State) SubstituteExercise(day string, index int, ex training.Exercise) error {
	return s.Microcycle.Substitute(day, index, ex)
}

// SetResult describes the effect of an accepted set
type SetResult struct {
	Exercise     training.Exercise
	CNS          int
	DayCompleted bool
}

// RegisterSet appends a completed set. It is refused without any mutation while
// the CNS gauge is below the floor. Each set costs CNS points (more for a PR),
// a PR overwrites the stored load, and the training streak grows once when
// the last exercise of the day becomes done.
func (s *State) RegisterSet(day string, index int, load float64, rir int, isPR bool) (SetResult, error) {
	if s.Fatigue.Locked() {
		return SetResult{}, training.ErrFatigueLocked
	}
	if _, err := s.Microcycle.Exercise(day, index); err != nil {
		return SetResult{}, err
	}

	wasDone := s.Microcycle.DayDone(day)
	ex, err := s.Microcycle.AppendSet(day, index, training.CompletedSet{Load: load, RIR: rir, IsPR: isPR})
	if err != nil {
		return SetResult{}, err
	}

	cns := s.Fatigue.Decrement(training.CNS, training.SetCost(isPR))
	if isPR {
		s.Records.Record(ex.Name, load)
	}

	now := time.Now()
	s.AddEvent(SetRegisteredEvent{SessionID: s.ID, Exercise: ex.Name, Load: load, IsPR: isPR, CNS: cns, At: now})

	result := SetResult{Exercise: ex, CNS: cns}
	if !wasDone && s.Microcycle.DayDone(day) {
		s.Streaks.Training++
		result.DayCompleted = true
		s.AddEvent(TrainingDayCompletedEvent{SessionID: s.ID, Day: day, Streak: s.Streaks.Training, At: now})
	}
	return result, nil
}

// ResetFatigue restores every muscle group to 100
func (s *State) ResetFatigue() {
	s.Fatigue.Reset()
}

// AddWater adds liters to today's hydration
func (s *State) AddWater(liters float64) error {
	if liters <= 0 {
		return ErrInvalidAmount
	}
	s.Hydration.Liters += liters
	return nil
}

// RecoveryProtocol resets both streaks and today's hydration, and raises the hydration target.
func (s *State) RecoveryProtocol() {
	s.Streaks = Streaks{}
	s.Hydration.Liters = 0
	s.Hydration.Target += RecoveryTargetStep
	s.AddEvent(RecoveryProtocolEvent{SessionID: s.ID, Target: s.Hydration.Target, At: time.Now()})
}

// LogMeasurement appends to the measurement log
func (s *State) LogMeasurement(m Measurement) error {
	if m.WeightKg <= 0 {
		return ErrInvalidMeasurement
	}
	if m.Date.IsZero() {
		m.Date = time.Now().UTC()
	}
	s.Measurements = append(s.Measurements, m)
	return nil
}

// RecordBloodAnalysis stores the interpretation of a blood test
func (s *State) RecordBloodAnalysis(text string) {
	s.MedicalHistory.BloodAnalysis = text
}

// RecordInjuryReport stores the interpretation of a physiotherapy report
func (s *State) RecordInjuryReport(text string) {
	s.MedicalHistory.Injuries = text
}
