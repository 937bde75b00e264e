package session

import (
	"errors"
	"time"
)

var (
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrInvalidMeasurement = errors.New("measurement weight must be positive")
	ErrItemNotFound       = errors.New("inventory item not found")
	ErrMalformedBackup    = errors.New("backup content is malformed")
	ErrUnsupportedFormat  = errors.New("unsupported backup format")
)

const (
	DefaultHydrationTarget = 2.5
	RecoveryTargetStep     = 0.5
)

// Streaks counts consecutive completions
type Streaks struct {
	Nutrition int `json:"nutrition"`
	Training  int `json:"training"`
}

// Hydration is today's water intake against the daily target, in liters
type Hydration struct {
	Liters float64 `json:"liters"`
	Target float64 `json:"target"`
}

// Measurement is one entry of the append-only body measurement log
type Measurement struct {
	Date       time.Time `json:"date"`
	WeightKg   float64   `json:"weight_kg"`
	WaistCm    *float64  `json:"waist_cm,omitempty"`
	BodyFatPct *float64  `json:"body_fat_pct,omitempty"`
}

// MedicalHistory holds the clinician-style interpretations embedded into plan prompts
type MedicalHistory struct {
	BloodAnalysis string `json:"blood_analysis" yaml:"blood_analysis"`
	Injuries      string `json:"injuries" yaml:"injuries"`
}

// Empty reports whether nothing has been recorded
func (m MedicalHistory) Empty() bool {
	return m.BloodAnalysis == "" && m.Injuries == ""
}
