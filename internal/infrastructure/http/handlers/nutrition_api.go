package handlers

import (
	"net/http"

	"github.com/fitpantry/coach/internal/ports/inbound"
)

// GeneratePlan handles POST /api/v1/session/plan
func (h *CoachHandlers) GeneratePlan(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	plan, err := h.coach.GeneratePlan(r.Context(), id)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	writeOK(h.logger, w, plan, "Plan generated")
}

// RegenerateMeal handles POST /api/v1/session/plan/{day}/meals/{index}/regenerate
func (h *CoachHandlers) RegenerateMeal(w http.ResponseWriter, r *http.Request) {
	cmd, err := mealSlot(r)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	plan, err := h.coach.RegenerateMeal(r.Context(), cmd)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	writeOK(h.logger, w, plan, "Meal regenerated")
}

// CompleteMeal handles POST /api/v1/session/plan/{day}/meals/{index}/complete
func (h *CoachHandlers) CompleteMeal(w http.ResponseWriter, r *http.Request) {
	cmd, err := mealSlot(r)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	result, err := h.coach.CompleteMeal(r.Context(), cmd)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	writeOK(h.logger, w, result, "Meal completed")
}

// MissingToday handles GET /api/v1/session/plan/missing?day=
func (h *CoachHandlers) MissingToday(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	missing, err := h.coach.MissingToday(r.Context(), id, r.URL.Query().Get("day"))
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	writeOK(h.logger, w, missing, "")
}

// ExportCalendar handles GET /api/v1/session/plan/calendar.ics
func (h *CoachHandlers) ExportCalendar(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	data, err := h.coach.ExportCalendar(r.Context(), id)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="meal-plan.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func mealSlot(r *http.Request) (inbound.MealSlotCommand, error) {
	id, err := sessionID(r)
	if err != nil {
		return inbound.MealSlotCommand{}, err
	}
	day, index, err := slotParams(r)
	if err != nil {
		return inbound.MealSlotCommand{}, err
	}
	return inbound.MealSlotCommand{SessionID: id, Day: day, Index: index}, nil
}
