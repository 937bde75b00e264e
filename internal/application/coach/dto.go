package coach

import (
	"time"

	"github.com/fitpantry/coach/internal/domain/nutrition"
	"github.com/fitpantry/coach/internal/domain/session"
	"github.com/fitpantry/coach/internal/ports/inbound"
)

func (s *Service) toSessionDTO(st *session.State) *inbound.SessionDTO {
	dto := &inbound.SessionDTO{
		ID:             st.ID,
		Profile:        st.Profile,
		Calibration:    st.Calibration,
		Inventory:      st.Inventory.Items(),
		Fatigue:        st.Fatigue,
		FatigueLocked:  st.Fatigue.Locked(),
		Records:        st.Records,
		Streaks:        st.Streaks,
		Hydration:      st.Hydration,
		Measurements:   st.Measurements,
		MedicalHistory: st.MedicalHistory,
		Version:        st.Version,
		UpdatedAt:      st.UpdatedAt.Format(time.RFC3339),
	}
	if !st.Plan.IsEmpty() {
		dto.Plan = s.toPlanDTO(st)
	}
	if !st.Microcycle.IsEmpty() {
		dto.Microcycle = toMicrocycleDTO(st)
	}
	return dto
}

func (s *Service) toPlanDTO(st *session.State) *inbound.PlanDTO {
	out := &inbound.PlanDTO{Days: []inbound.PlanDayDTO{}}
	for _, day := range st.Plan.OrderedDays() {
		meals := st.Plan.Days[day]
		dayDTO := inbound.PlanDayDTO{
			Day:     day,
			Meals:   make([]inbound.MealDTO, 0, len(meals)),
			Totals:  st.Plan.DailyTotals(day),
			Missing: st.Plan.MissingToday(day, st.Inventory, s.matcher),
		}
		for i, meal := range meals {
			dayDTO.Meals = append(dayDTO.Meals, inbound.MealDTO{
				Index:       i,
				Meal:        meal,
				Completed:   st.Plan.IsCompleted(day, i),
				Ingredients: nutrition.Availability(meal, st.Inventory, s.matcher),
			})
		}
		out.Days = append(out.Days, dayDTO)
	}
	return out
}

func toMicrocycleDTO(st *session.State) *inbound.MicrocycleDTO {
	out := &inbound.MicrocycleDTO{Days: []inbound.WorkoutDayDTO{}}
	for _, day := range st.Microcycle.OrderedDays() {
		exercises := st.Microcycle.Days[day]
		dayDTO := inbound.WorkoutDayDTO{
			Day:       day,
			Exercises: make([]inbound.ExerciseDTO, 0, len(exercises)),
			Done:      st.Microcycle.DayDone(day),
		}
		for i, ex := range exercises {
			dayDTO.Exercises = append(dayDTO.Exercises, inbound.ExerciseDTO{Index: i, Exercise: ex, Done: ex.Done()})
		}
		out.Days = append(out.Days, dayDTO)
	}
	return out
}
