// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"
	"time"

	"github.com/fitpantry/coach/internal/domain/nutrition"
	"github.com/fitpantry/coach/internal/domain/profile"
	"github.com/fitpantry/coach/internal/domain/session"
	"github.com/fitpantry/coach/internal/domain/training"
)

// CoachService defines the session actions.
// Every command runs against one session: load, mutate a copy, save on success.
type CoachService interface {
	// Session lifecycle
	StartSession(ctx context.Context) (*SessionDTO, error)
	GetSession(ctx context.Context, sessionID string) (*SessionDTO, error)
	EndSession(ctx context.Context, sessionID string) error

	// Profile & calibration
	UpdateProfile(ctx context.Context, cmd UpdateProfileCommand) (*SessionDTO, error)
	Calibrate(ctx context.Context, cmd CalibrateCommand) (*SessionDTO, error)

	// Pantry
	AcquireInventory(ctx context.Context, cmd AcquireInventoryCommand) (*InventoryResult, error)
	RemoveInventoryItem(ctx context.Context, sessionID, name string) (*SessionDTO, error)

	// Nutrition
	GeneratePlan(ctx context.Context, sessionID string) (*PlanDTO, error)
	RegenerateMeal(ctx context.Context, cmd MealSlotCommand) (*PlanDTO, error)
	CompleteMeal(ctx context.Context, cmd MealSlotCommand) (*MealCompletionResult, error)
	MissingToday(ctx context.Context, sessionID, day string) (*MissingDTO, error)
	ExportCalendar(ctx context.Context, sessionID string) ([]byte, error)

	// Training
	GenerateWorkout(ctx context.Context, cmd GenerateWorkoutCommand) (*MicrocycleDTO, error)
	RegisterSet(ctx context.Context, cmd RegisterSetCommand) (*SetResultDTO, error)
	SubstituteExercise(ctx context.Context, cmd SubstituteExerciseCommand) (*MicrocycleDTO, error)
	ResetFatigue(ctx context.Context, sessionID string) (*SessionDTO, error)

	// Trackers
	AddWater(ctx context.Context, cmd AddWaterCommand) (*SessionDTO, error)
	LogMeasurement(ctx context.Context, cmd LogMeasurementCommand) (*SessionDTO, error)
	RecoveryProtocol(ctx context.Context, sessionID string) (*SessionDTO, error)

	// Clinic
	AnalyzeBloodWork(ctx context.Context, cmd ClinicCommand) (*session.MedicalHistory, error)
	AnalyzeInjuryReport(ctx context.Context, cmd ClinicCommand) (*session.MedicalHistory, error)

	// Backup
	ExportBackup(ctx context.Context, sessionID, format string) (*BackupDocument, error)
	ImportBackup(ctx context.Context, cmd ImportBackupCommand) (*ImportResult, error)
}

// Command objects for operations

// UpdateProfileCommand overwrites the whole profile
type UpdateProfileCommand struct {
	SessionID string `validate:"required"`
	Profile   ProfileCommand
}

// ProfileCommand carries the editable profile fields
type ProfileCommand struct {
	Sex                  profile.Sex           `json:"sex" validate:"required,oneof=male female"`
	Age                  int                   `json:"age" validate:"min=12,max=100"`
	WeightKg             float64               `json:"weight_kg" validate:"min=30,max=300"`
	HeightCm             float64               `json:"height_cm" validate:"min=120,max=230"`
	ActivityLevel        profile.Level         `json:"activity_level" validate:"omitempty,oneof=low medium high"`
	HormonalPhase        profile.HormonalPhase `json:"hormonal_phase" validate:"omitempty,oneof=none follicular luteal pcos endometriosis pregnancy postpartum menopause red-s"`
	Goal                 profile.Goal          `json:"goal" validate:"required,oneof=fat_loss hypertrophy strength recomposition endurance health"`
	Experience           profile.Experience    `json:"experience" validate:"required,oneof=beginner intermediate advanced"`
	TrainingLocation     string                `json:"training_location" validate:"max=60,no_xss"`
	Schedule             string                `json:"schedule" validate:"max=60,no_xss"`
	TrainingDays         int                   `json:"training_days" validate:"min=1,max=7"`
	DietType             profile.DietType      `json:"diet_type" validate:"required,oneof=omnivore vegetarian vegan pescatarian keto mediterranean"`
	MealsPerDay          int                   `json:"meals_per_day" validate:"min=1,max=8"`
	IntermittentFasting  bool                  `json:"intermittent_fasting"`
	Allergies            string                `json:"allergies" validate:"max=500,no_xss"`
	Supplements          string                `json:"supplements" validate:"max=500,no_xss"`
	Injuries             string                `json:"injuries" validate:"max=500,no_xss"`
	SleepHours           float64               `json:"sleep_hours" validate:"min=0,max=16"`
	StressBaseline       profile.Stress        `json:"stress_baseline" validate:"omitempty,oneof=Bajo Medio Alto"`
	WakeTime             string                `json:"wake_time" validate:"omitempty,clock"`
	SleepTime            string                `json:"sleep_time" validate:"omitempty,clock"`
	DigestiveSensitivity profile.Level         `json:"digestive_sensitivity" validate:"omitempty,oneof=low medium high"`
	CaffeineTolerance    profile.Level         `json:"caffeine_tolerance" validate:"omitempty,oneof=low medium high"`
	Budget               profile.Level         `json:"budget" validate:"omitempty,oneof=low medium high"`
	Equipment            []string              `json:"equipment" validate:"max=40,dive,ingredient"`
	MaxCookMinutes       int                   `json:"max_cook_minutes" validate:"min=0,max=600"`
	LikedIngredients     []string              `json:"liked_ingredients" validate:"max=100,dive,ingredient"`
	DislikedIngredients  []string              `json:"disliked_ingredients" validate:"max=100,dive,ingredient"`
}

// CalibrateCommand records the daily readiness snapshot
type CalibrateCommand struct {
	SessionID  string         `validate:"required"`
	HoursSlept float64        `json:"hours_slept" validate:"min=0,max=24"`
	Soreness   int            `json:"soreness" validate:"min=1,max=10"`
	Stress     profile.Stress `json:"stress" validate:"required,oneof=Bajo Medio Alto"`
}

// AcquireInventoryCommand feeds one acquisition channel. Manual entries use Text;
// the other channels send Media (voice may send either).
type AcquireInventoryCommand struct {
	SessionID string `validate:"required"`
	Channel   string `validate:"required,oneof=image receipt barcode voice manual"`
	Text      string `validate:"max=4000"`
	Media     []byte
	MIMEType  string
}

// MealSlotCommand addresses one meal of the plan
type MealSlotCommand struct {
	SessionID string `validate:"required"`
	Day       string `validate:"required,weekday"`
	Index     int    `validate:"min=0"`
}

// GenerateWorkoutCommand asks for a new microcycle
type GenerateWorkoutCommand struct {
	SessionID  string `validate:"required"`
	HighEnergy bool
}

// RegisterSetCommand records one completed set
type RegisterSetCommand struct {
	SessionID string  `validate:"required"`
	Day       string  `validate:"required,weekday"`
	Index     int     `validate:"min=0"`
	Load      float64 `json:"load" validate:"min=0,max=1000"`
	RIR       int     `json:"rir" validate:"min=0,max=10"`
	IsPR      bool    `json:"is_pr"`
}

// SubstituteExerciseCommand replaces one exercise in place
type SubstituteExerciseCommand struct {
	SessionID string `validate:"required"`
	Day       string `validate:"required,weekday"`
	Index     int    `validate:"min=0"`
	Reason    string `json:"reason" validate:"max=500,no_xss"`
}

// AddWaterCommand adds to today's hydration
type AddWaterCommand struct {
	SessionID string  `validate:"required"`
	Liters    float64 `json:"liters" validate:"gt=0,max=5"`
}

// LogMeasurementCommand appends a body measurement
type LogMeasurementCommand struct {
	SessionID  string     `validate:"required"`
	Date       *time.Time `json:"date"`
	WeightKg   float64    `json:"weight_kg" validate:"min=30,max=300"`
	WaistCm    *float64   `json:"waist_cm" validate:"omitempty,min=30,max=250"`
	BodyFatPct *float64   `json:"body_fat_pct" validate:"omitempty,min=2,max=70"`
}

// ClinicCommand carries a medical document image
type ClinicCommand struct {
	SessionID string `validate:"required"`
	Image     []byte `validate:"required"`
	MIMEType  string `validate:"required"`
}

// ImportBackupCommand restores a backup document
type ImportBackupCommand struct {
	SessionID string `validate:"required"`
	Format    string `validate:"omitempty,oneof=json yaml yml"`
	Data      []byte `validate:"required"`
}

// Response DTOs

// SessionDTO is the full view of a session
type SessionDTO struct {
	ID             string                   `json:"id"`
	Token          string                   `json:"token,omitempty"`
	Profile        profile.Profile          `json:"profile"`
	Calibration    profile.Calibration      `json:"calibration"`
	Inventory      []string                 `json:"inventory"`
	Plan           *PlanDTO                 `json:"plan,omitempty"`
	Microcycle     *MicrocycleDTO           `json:"microcycle,omitempty"`
	Fatigue        training.FatigueMap      `json:"muscle_fatigue"`
	FatigueLocked  bool                     `json:"fatigue_locked"`
	Records        training.PersonalRecords `json:"personal_records"`
	Streaks        session.Streaks          `json:"streaks"`
	Hydration      session.Hydration        `json:"hydration"`
	Measurements   []session.Measurement    `json:"measurements"`
	MedicalHistory session.MedicalHistory   `json:"medical_history"`
	Version        int64                    `json:"version"`
	UpdatedAt      string                   `json:"updated_at"`
}

// PlanDTO is the plan with completion and availability overlays, in weekday order
type PlanDTO struct {
	Days []PlanDayDTO `json:"days"`
}

// PlanDayDTO is one day of the plan
type PlanDayDTO struct {
	Day     string           `json:"day"`
	Meals   []MealDTO        `json:"meals"`
	Totals  nutrition.Totals `json:"totals"`
	Missing []string         `json:"missing"`
}

// MealDTO decorates a meal with its overlays
type MealDTO struct {
	Index       int                          `json:"index"`
	Meal        nutrition.Meal               `json:"meal"`
	Completed   bool                         `json:"completed"`
	Ingredients []nutrition.IngredientStatus `json:"ingredients"`
}

// MicrocycleDTO is the workout week in weekday order
type MicrocycleDTO struct {
	Days []WorkoutDayDTO `json:"days"`
}

// WorkoutDayDTO is one training day
type WorkoutDayDTO struct {
	Day       string        `json:"day"`
	Exercises []ExerciseDTO `json:"exercises"`
	Done      bool          `json:"done"`
}

// ExerciseDTO decorates an exercise with its derived done flag
type ExerciseDTO struct {
	Index    int               `json:"index"`
	Exercise training.Exercise `json:"exercise"`
	Done     bool              `json:"done"`
}

// InventoryResult reports what an acquisition added
type InventoryResult struct {
	Channel   string   `json:"channel"`
	Parsed    []string `json:"parsed"`
	Added     []string `json:"added"`
	Inventory []string `json:"inventory"`
}

// MealCompletionResult reports the consumption triggered by a completed meal
type MealCompletionResult struct {
	Day       string   `json:"day"`
	Index     int      `json:"index"`
	Consumed  []string `json:"consumed"`
	Inventory []string `json:"inventory"`
	Streak    int      `json:"nutrition_streak"`
}

// MissingDTO lists today's missing ingredients
type MissingDTO struct {
	Day     string   `json:"day"`
	Missing []string `json:"missing"`
}

// SetResultDTO reports an accepted set
type SetResultDTO struct {
	Exercise     ExerciseDTO `json:"exercise"`
	CNS          int         `json:"cns"`
	DayCompleted bool        `json:"day_completed"`
	Streak       int         `json:"training_streak"`
	Record       *float64    `json:"record,omitempty"`
}

// BackupDocument is an encoded backup
type BackupDocument struct {
	Format      string `json:"format"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
}

// ImportResult lists the keys a backup overwrote
type ImportResult struct {
	Keys    []string    `json:"keys"`
	Session *SessionDTO `json:"session"`
}
