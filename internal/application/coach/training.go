package coach

import (
	"context"
	stderrors "errors"

	"github.com/fitpantry/coach/internal/domain/session"
	"github.com/fitpantry/coach/internal/domain/training"
	"github.com/fitpantry/coach/internal/ports/inbound"
	"github.com/fitpantry/coach/pkg/errors"
	"go.uber.org/zap"
)

// GenerateWorkout replaces the microcycle. A failed call or unparsable answer keeps the previous one.
func (s *Service) GenerateWorkout(ctx context.Context, cmd inbound.GenerateWorkoutCommand) (*inbound.MicrocycleDTO, error) {
	if err := s.validate(cmd); err != nil {
		return nil, err
	}

	st, err := s.mutate(ctx, cmd.SessionID, "generate_workout", func(draft *session.State) error {
		raw, err := s.generate(ctx, "generate_workout", buildWorkoutPrompt(draft, cmd.HighEnergy))
		if err != nil {
			return err
		}
		res := ParseMicrocycle(raw)
		if !res.Ok() {
			return s.parseFailed(ShapeMicrocycle, res.Reason())
		}
		draft.ReplaceMicrocycle(res.Value())
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Microcycle generated",
		zap.String("session_id", cmd.SessionID),
		zap.Bool("high_energy", cmd.HighEnergy),
		zap.Int("days", len(st.Microcycle.Days)),
	)
	return toMicrocycleDTO(st), nil
}

// RegisterSet records a completed set unless the CNS gauge is below the floor
func (s *Service) RegisterSet(ctx context.Context, cmd inbound.RegisterSetCommand) (*inbound.SetResultDTO, error) {
	if err := s.validate(cmd); err != nil {
		return nil, err
	}
	cmd.Day = canonicalDay(cmd.Day)

	var result session.SetResult
	st, err := s.mutate(ctx, cmd.SessionID, "register_set", func(draft *session.State) error {
		var err error
		result, err = draft.RegisterSet(cmd.Day, cmd.Index, cmd.Load, cmd.RIR, cmd.IsPR)
		if stderrors.Is(err, training.ErrFatigueLocked) {
			s.metrics.FatigueLocked()
			return errors.NewFatigueLockedError(draft.Fatigue.CNS(), training.CNSFloor)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	dto := &inbound.SetResultDTO{
		Exercise:     inbound.ExerciseDTO{Index: cmd.Index, Exercise: result.Exercise, Done: result.Exercise.Done()},
		CNS:          result.CNS,
		DayCompleted: result.DayCompleted,
		Streak:       st.Streaks.Training,
	}
	if cmd.IsPR {
		record := st.Records[result.Exercise.Name]
		dto.Record = &record
	}
	return dto, nil
}

// SubstituteExercise replaces one exercise with a generated alternative at the same position
func (s *Service) SubstituteExercise(ctx context.Context, cmd inbound.SubstituteExerciseCommand) (*inbound.MicrocycleDTO, error) {
	if err := s.validate(cmd); err != nil {
		return nil, err
	}
	cmd.Day = canonicalDay(cmd.Day)

	st, err := s.mutate(ctx, cmd.SessionID, "substitute_exercise", func(draft *session.State) error {
		current, err := draft.Microcycle.Exercise(cmd.Day, cmd.Index)
		if err != nil {
			return err
		}
		raw, err := s.generate(ctx, "substitute_exercise", buildSubstitutePrompt(draft, current, cmd.Reason))
		if err != nil {
			return err
		}
		res := ParseExercise(raw)
		if !res.Ok() {
			return s.parseFailed(ShapeExercise, res.Reason())
		}
		return draft.SubstituteExercise(cmd.Day, cmd.Index, res.Value())
	})
	if err != nil {
		return nil, err
	}
	return toMicrocycleDTO(st), nil
}

// ResetFatigue restores every muscle group to full recovery
func (s *Service) ResetFatigue(ctx context.Context, sessionID string) (*inbound.SessionDTO, error) {
	st, err := s.mutate(ctx, sessionID, "reset_fatigue", func(draft *session.State) error {
		draft.ResetFatigue()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.toSessionDTO(st), nil
}
