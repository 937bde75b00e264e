package handlers

import (
	"net/http"

	"github.com/fitpantry/coach/internal/ports/inbound"
)

// GenerateWorkout handles POST /api/v1/session/workout
func (h *CoachHandlers) GenerateWorkout(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	var body struct {
		HighEnergy bool `json:"high_energy"`
	}
	if err := decodeOptionalJSON(w, r, &body); err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	cycle, err := h.coach.GenerateWorkout(r.Context(), inbound.GenerateWorkoutCommand{SessionID: id, HighEnergy: body.HighEnergy})
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	writeOK(h.logger, w, cycle, "Microcycle generated")
}

// RegisterSet handles POST /api/v1/session/workout/{day}/exercises/{index}/sets
func (h *CoachHandlers) RegisterSet(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	day, index, err := slotParams(r)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	var cmd inbound.RegisterSetCommand
	if err := decodeJSON(w, r, &cmd); err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	cmd.SessionID, cmd.Day, cmd.Index = id, day, index

	result, err := h.coach.RegisterSet(r.Context(), cmd)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	writeOK(h.logger, w, result, "Set registered")
}

// SubstituteExercise handles POST /api/v1/session/workout/{day}/exercises/{index}/substitute
func (h *CoachHandlers) SubstituteExercise(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	day, index, err := slotParams(r)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	var cmd inbound.SubstituteExerciseCommand
	if err := decodeOptionalJSON(w, r, &cmd); err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	cmd.SessionID, cmd.Day, cmd.Index = id, day, index

	cycle, err := h.coach.SubstituteExercise(r.Context(), cmd)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	writeOK(h.logger, w, cycle, "Exercise substituted")
}

// ResetFatigue handles POST /api/v1/session/fatigue/reset
func (h *CoachHandlers) ResetFatigue(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	dto, err := h.coach.ResetFatigue(r.Context(), id)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	writeOK(h.logger, w, dto, "Fatigue reset")
}
