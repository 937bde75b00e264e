package profile

import "time"

// Stress is the self-reported stress level
type Stress string

const (
	StressLow    Stress = "Bajo"
	StressMedium Stress = "Medio"
	StressHigh   Stress = "Alto"
)

// Calibration is the once-per-day readiness snapshot.
// Completed only decides whether the form or its summary is shown.
type Calibration struct {
	HoursSlept float64   `json:"hours_slept"`
	Soreness   int       `json:"soreness"`
	Stress     Stress    `json:"stress"`
	Completed  bool      `json:"completed"`
	RecordedAt time.Time `json:"recorded_at,omitempty"`
}

// DefaultCalibration returns the snapshot a new session starts with
func DefaultCalibration() Calibration {
	return Calibration{
		HoursSlept: 8,
		Soreness:   1,
		Stress:     StressLow,
	}
}

// NewCalibration builds a completed calibration snapshot
func NewCalibration(hoursSlept float64, soreness int, stress Stress, at time.Time) Calibration {
	return Calibration{
		HoursSlept: hoursSlept,
		Soreness:   soreness,
		Stress:     stress,
		Completed:  true,
		RecordedAt: at,
	}
}

// HighReadiness is a rough hint for the workout prompt: well slept, low soreness, low stress.
func (c Calibration) HighReadiness() bool {
	return c.Completed && c.HoursSlept >= 7 && c.Soreness <= 3 && c.Stress == StressLow
}
