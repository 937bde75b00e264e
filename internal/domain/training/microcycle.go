// Package training models the workout microcycle, completed sets, the
// per-muscle-group fatigue map and the personal-record table.
package training

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fitpantry/coach/internal/domain/shared"
)

var (
	ErrUnknownDay        = errors.New("unknown weekday label")
	ErrEmptyMicrocycle   = errors.New("microcycle has no exercises")
	ErrMissingName       = errors.New("exercise is missing a name")
	ErrInvalidTargetSets = errors.New("exercise target sets must be positive")
	ErrExerciseNotFound  = errors.New("exercise not found")
	ErrFatigueLocked     = errors.New("central nervous system fatigue below training floor")
)

// CompletedSet is one registered set
type CompletedSet struct {
	Load float64 `json:"load"`
	RIR  int     `json:"rir"`
	IsPR bool    `json:"is_pr"`
}

// Exercise is a prescribed movement for one training day
type Exercise struct {
	Name       string         `json:"name"`
	WarmUp     string         `json:"warmup"`
	TargetSets int            `json:"sets"`
	Reps       string         `json:"reps"`
	TargetRIR  string         `json:"rir"`
	Tempo      string         `json:"tempo"`
	Rest       string         `json:"rest"`
	VideoRef   string         `json:"video"`
	Completed  []CompletedSet `json:"completed_sets"`
}

// Done is derived on every call: completed sets reached the target.
func (e Exercise) Done() bool {
	return len(e.Completed) >= e.TargetSets
}

// Validate checks the required fields
func (e Exercise) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrMissingName
	}
	if e.TargetSets <= 0 {
		return ErrInvalidTargetSets
	}
	return nil
}

// Fresh returns a copy with the completed list emptied, as expected for generated exercises.
func (e Exercise) Fresh() Exercise {
	e.Completed = []CompletedSet{}
	return e
}

// Microcycle maps day labels to ordered exercises
type Microcycle struct {
	Days map[string][]Exercise `json:"days"`
}

// NewMicrocycle validates a generated microcycle and empties every completed list.
func NewMicrocycle(days map[string][]Exercise) (Microcycle, error) {
	if len(days) == 0 {
		return Microcycle{}, ErrEmptyMicrocycle
	}
	clean := make(map[string][]Exercise, len(days))
	for day, exercises := range days {
		if !shared.IsWeekday(day) {
			return Microcycle{}, fmt.Errorf("%w: %q", ErrUnknownDay, day)
		}
		out := make([]Exercise, len(exercises))
		for i, ex := range exercises {
			if err := ex.Validate(); err != nil {
				return Microcycle{}, fmt.Errorf("%s exercise %d: %w", day, i, err)
			}
			out[i] = ex.Fresh()
		}
		clean[day] = out
	}
	return Microcycle{Days: clean}, nil
}

// IsEmpty reports whether no microcycle has been generated yet
func (m Microcycle) IsEmpty() bool {
	return len(m.Days) == 0
}

// OrderedDays returns the day labels in weekday order
func (m Microcycle) OrderedDays() []string {
	return shared.OrderedDays(m.Days)
}

// Exercise returns the exercise at the position
func (m Microcycle) Exercise(day string, index int) (Exercise, error) {
	exercises, ok := m.Days[day]
	if !ok || index < 0 || index >= len(exercises) {
		return Exercise{}, fmt.Errorf("%w: %s #%d", ErrExerciseNotFound, day, index)
	}
	return exercises[index], nil
}

// AppendSet records a completed set on the exercise
func (m *Microcycle) AppendSet(day string, index int, set CompletedSet) (Exercise, error) {
	if _, err := m.Exercise(day, index); err != nil {
		return Exercise{}, err
	}
	ex := &m.Days[day][index]
	ex.Completed = append(ex.Completed, set)
	return *ex, nil
}

// Substitute splices a replacement in place, preserving the day's order.
func (m *Microcycle) Substitute(day string, index int, replacement Exercise) error {
	if _, err := m.Exercise(day, index); err != nil {
		return err
	}
	if err := replacement.Validate(); err != nil {
		return err
	}
	m.Days[day][index] = replacement.Fresh()
	return nil
}

// DayDone reports whether every exercise of the day is done
func (m Microcycle) DayDone(day string) bool {
	exercises, ok := m.Days[day]
	if !ok || len(exercises) == 0 {
		return false
	}
	for _, ex := range exercises {
		if !ex.Done() {
			return false
		}
	}
	return true
}

// Clone returns a deep copy
func (m Microcycle) Clone() Microcycle {
	if m.Days == nil {
		return Microcycle{}
	}
	out := Microcycle{Days: make(map[string][]Exercise, len(m.Days))}
	for day, exercises := range m.Days {
		cp := make([]Exercise, len(exercises))
		for i, ex := range exercises {
			ex.Completed = append([]CompletedSet{}, ex.Completed...)
			cp[i] = ex
		}
		out.Days[day] = cp
	}
	return out
}
