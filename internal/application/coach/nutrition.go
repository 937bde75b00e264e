package coach

import (
	"context"

	"github.com/fitpantry/coach/internal/domain/session"
	"github.com/fitpantry/coach/internal/domain/shared"
	"github.com/fitpantry/coach/internal/ports/inbound"
	"github.com/fitpantry/coach/pkg/errors"
	"go.uber.org/zap"
)

// GeneratePlan replaces the weekly plan. A failed call or unparsable answer keeps the previous plan.
func (s *Service) GeneratePlan(ctx context.Context, sessionID string) (*inbound.PlanDTO, error) {
	st, err := s.mutate(ctx, sessionID, "generate_plan", func(draft *session.State) error {
		raw, err := s.generate(ctx, "generate_plan", buildPlanPrompt(draft))
		if err != nil {
			return err
		}
		res := ParsePlan(raw)
		if !res.Ok() {
			return s.parseFailed(ShapePlan, res.Reason())
		}
		draft.ReplacePlan(res.Value())
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Nutrition plan generated",
		zap.String("session_id", sessionID),
		zap.Int("days", len(st.Plan.Days)),
	)
	return s.toPlanDTO(st), nil
}

// RegenerateMeal swaps one meal for a freshly generated one in the same slot
func (s *Service) RegenerateMeal(ctx context.Context, cmd inbound.MealSlotCommand) (*inbound.PlanDTO, error) {
	if err := s.validate(cmd); err != nil {
		return nil, err
	}
	cmd.Day = canonicalDay(cmd.Day)

	st, err := s.mutate(ctx, cmd.SessionID, "regenerate_meal", func(draft *session.State) error {
		current, err := draft.Plan.Meal(cmd.Day, cmd.Index)
		if err != nil {
			return err
		}
		raw, err := s.generate(ctx, "regenerate_meal", buildMealPrompt(draft, cmd.Day, current))
		if err != nil {
			return err
		}
		res := ParseMeal(raw)
		if !res.Ok() {
			return s.parseFailed(ShapeMeal, res.Reason())
		}
		return draft.ReplaceMeal(cmd.Day, cmd.Index, res.Value())
	})
	if err != nil {
		return nil, err
	}
	return s.toPlanDTO(st), nil
}

// CompleteMeal marks a meal eaten and consumes its ingredients from the pantry
func (s *Service) CompleteMeal(ctx context.Context, cmd inbound.MealSlotCommand) (*inbound.MealCompletionResult, error) {
	if err := s.validate(cmd); err != nil {
		return nil, err
	}
	cmd.Day = canonicalDay(cmd.Day)

	var consumed []string
	st, err := s.mutate(ctx, cmd.SessionID, "complete_meal", func(draft *session.State) error {
		var err error
		consumed, err = draft.CompleteMeal(cmd.Day, cmd.Index, s.matcher)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Meal completed",
		zap.String("session_id", cmd.SessionID),
		zap.String("day", cmd.Day),
		zap.Int("index", cmd.Index),
		zap.Strings("consumed", consumed),
	)

	return &inbound.MealCompletionResult{
		Day:       cmd.Day,
		Index:     cmd.Index,
		Consumed:  consumed,
		Inventory: st.Inventory.Items(),
		Streak:    st.Streaks.Nutrition,
	}, nil
}

// MissingToday lists the plan ingredients of a day the pantry cannot cover. Empty day means today.
func (s *Service) MissingToday(ctx context.Context, sessionID, day string) (*inbound.MissingDTO, error) {
	if day == "" {
		day = shared.LabelFor(s.now())
	} else {
		label, ok := shared.CanonicalWeekday(day)
		if !ok {
			return nil, errors.NewValidationError("unknown day " + day)
		}
		day = label
	}

	st, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &inbound.MissingDTO{
		Day:     day,
		Missing: st.Plan.MissingToday(day, st.Inventory, s.matcher),
	}, nil
}

// ExportCalendar renders the current plan as iCalendar
func (s *Service) ExportCalendar(ctx context.Context, sessionID string) ([]byte, error) {
	st, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if st.Plan.IsEmpty() {
		return nil, errors.NewNotFoundError("plan")
	}
	data, err := s.calendar.Export(st.Plan, s.now())
	if err != nil {
		return nil, errors.Wrap(err, "failed to export calendar")
	}
	return data, nil
}
