package security

import (
	"testing"

	"github.com/fitpantry/coach/internal/ports/inbound"
	"github.com/fitpantry/coach/pkg/errors"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"
)

type ValidationServiceTestSuite struct {
	suite.Suite
	service *ValidationService
}

func (s *ValidationServiceTestSuite) SetupTest() {
	s.service = NewValidationService(zaptest.NewLogger(s.T()))
}

func (s *ValidationServiceTestSuite) TestWeekday() {
	s.Run("AccentedLabel_ShouldPass", func() {
		err := s.service.Validate(inbound.MealSlotCommand{SessionID: "s", Day: "Miércoles", Index: 0})
		s.NoError(err)
	})

	s.Run("UnknownLabel_ShouldFailWithField", func() {
		// Act
		err := s.service.Validate(inbound.MealSlotCommand{SessionID: "s", Day: "Funday", Index: 0})

		// Assert
		s.Require().Error(err)
		s.True(errors.Is(err, errors.CodeValidationFailed))
		appErr := err.(*errors.AppError)
		fields := appErr.Metadata["validation_errors"].(errors.ValidationErrors)
		s.Require().Len(fields, 1)
		s.Equal("Day", fields[0].Field)
		s.Equal("weekday", fields[0].Tag)
	})
}

func (s *ValidationServiceTestSuite) TestProfile() {
	valid := inbound.ProfileCommand{
		Sex:          "female",
		Age:          34,
		WeightKg:     62,
		HeightCm:     168,
		Goal:         "strength",
		Experience:   "intermediate",
		TrainingDays: 4,
		DietType:     "vegetarian",
		MealsPerDay:  4,
		SleepHours:   7,
		WakeTime:     "06:30",
	}

	s.Run("ValidProfile_ShouldPass", func() {
		s.NoError(s.service.Validate(inbound.UpdateProfileCommand{SessionID: "s", Profile: valid}))
	})

	s.Run("BadClock_ShouldFail", func() {
		p := valid
		p.WakeTime = "25:99"
		err := s.service.Validate(inbound.UpdateProfileCommand{SessionID: "s", Profile: p})
		s.True(errors.Is(err, errors.CodeValidationFailed))
		s.Contains(err.Error(), "wake_time")
	})

	s.Run("ScriptInIngredient_ShouldFail", func() {
		p := valid
		p.DislikedIngredients = []string{"<script>alert(1)</script>"}
		err := s.service.Validate(inbound.UpdateProfileCommand{SessionID: "s", Profile: p})
		s.True(errors.Is(err, errors.CodeValidationFailed))
	})

	s.Run("XSSInFreeText_ShouldFail", func() {
		p := valid
		p.Allergies = "nueces <script>"
		err := s.service.Validate(inbound.UpdateProfileCommand{SessionID: "s", Profile: p})
		s.True(errors.Is(err, errors.CodeValidationFailed))
	})
}

func (s *ValidationServiceTestSuite) TestAmounts() {
	s.Run("ZeroWater_ShouldFail", func() {
		err := s.service.Validate(inbound.AddWaterCommand{SessionID: "s", Liters: 0})
		s.True(errors.Is(err, errors.CodeValidationFailed))
	})

	s.Run("UnknownChannel_ShouldFail", func() {
		err := s.service.Validate(inbound.AcquireInventoryCommand{SessionID: "s", Channel: "telepathy"})
		s.True(errors.Is(err, errors.CodeValidationFailed))
	})
}

func TestValidationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ValidationServiceTestSuite))
}
