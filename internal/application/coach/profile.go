package coach

import (
	"context"

	"github.com/fitpantry/coach/internal/domain/profile"
	"github.com/fitpantry/coach/internal/domain/session"
	"github.com/fitpantry/coach/internal/ports/inbound"
	"go.uber.org/zap"
)

// UpdateProfile overwrites the whole profile
func (s *Service) UpdateProfile(ctx context.Context, cmd inbound.UpdateProfileCommand) (*inbound.SessionDTO, error) {
	if err := s.validate(cmd); err != nil {
		return nil, err
	}

	st, err := s.mutate(ctx, cmd.SessionID, "update_profile", func(draft *session.State) error {
		draft.UpdateProfile(profileFromCommand(cmd.Profile))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Profile updated",
		zap.String("session_id", cmd.SessionID),
		zap.String("goal", string(st.Profile.Goal)),
	)
	return s.toSessionDTO(st), nil
}

// Calibrate stores today's readiness snapshot
func (s *Service) Calibrate(ctx context.Context, cmd inbound.CalibrateCommand) (*inbound.SessionDTO, error) {
	if err := s.validate(cmd); err != nil {
		return nil, err
	}

	st, err := s.mutate(ctx, cmd.SessionID, "calibrate", func(draft *session.State) error {
		draft.Calibrate(profile.NewCalibration(cmd.HoursSlept, cmd.Soreness, cmd.Stress, s.now()))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.toSessionDTO(st), nil
}

func profileFromCommand(c inbound.ProfileCommand) profile.Profile {
	return profile.Profile{
		Sex:                  c.Sex,
		Age:                  c.Age,
		WeightKg:             c.WeightKg,
		HeightCm:             c.HeightCm,
		ActivityLevel:        c.ActivityLevel,
		HormonalPhase:        c.HormonalPhase,
		Goal:                 c.Goal,
		Experience:           c.Experience,
		TrainingLocation:     c.TrainingLocation,
		Schedule:             c.Schedule,
		TrainingDays:         c.TrainingDays,
		DietType:             c.DietType,
		MealsPerDay:          c.MealsPerDay,
		IntermittentFasting:  c.IntermittentFasting,
		Allergies:            c.Allergies,
		Supplements:          c.Supplements,
		Injuries:             c.Injuries,
		SleepHours:           c.SleepHours,
		StressBaseline:       c.StressBaseline,
		WakeTime:             c.WakeTime,
		SleepTime:            c.SleepTime,
		DigestiveSensitivity: c.DigestiveSensitivity,
		CaffeineTolerance:    c.CaffeineTolerance,
		Budget:               c.Budget,
		Equipment:            c.Equipment,
		MaxCookMinutes:       c.MaxCookMinutes,
		LikedIngredients:     c.LikedIngredients,
		DislikedIngredients:  c.DislikedIngredients,
	}
}
