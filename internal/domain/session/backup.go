package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fitpantry/coach/internal/domain/pantry"
	"github.com/fitpantry/coach/internal/domain/profile"
	"github.com/fitpantry/coach/internal/domain/training"
)

// Format of a backup document
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts json, yaml or yml; empty means json
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	if f == FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// Snapshot is the curated subset of state carried by a backup. A nil field
// means the key was absent and the import leaves that part of state alone.
type Snapshot struct {
	Profile         *profile.Profile          `json:"profile,omitempty" yaml:"profile,omitempty"`
	Inventory       *[]string                 `json:"inventory,omitempty" yaml:"inventory,omitempty"`
	MuscleFatigue   *training.FatigueMap      `json:"muscle_fatigue,omitempty" yaml:"muscle_fatigue,omitempty"`
	MedicalHistory  *MedicalHistory           `json:"medical_history,omitempty" yaml:"medical_history,omitempty"`
	PersonalRecords *training.PersonalRecords `json:"personal_records,omitempty" yaml:"personal_records,omitempty"`
	TrainingStreak  *int                      `json:"training_streak,omitempty" yaml:"training_streak,omitempty"`
}

// Export copies the backup keys out of the state
func (s *State) Export() Snapshot {
	p := s.Profile.Clone()
	items := s.Inventory.Items()
	fatigue := s.Fatigue.Clone()
	history := s.MedicalHistory
	records := s.Records.Clone()
	streak := s.Streaks.Training
	return Snapshot{
		Profile:         &p,
		Inventory:       &items,
		MuscleFatigue:   &fatigue,
		MedicalHistory:  &history,
		PersonalRecords: &records,
		TrainingStreak:  &streak,
	}
}

// Import overwrites every key present in the snapshot wholesale and returns the applied keys.
func (s *State) Import(snap Snapshot) []string {
	var keys []string
	if snap.Profile != nil {
		s.Profile = snap.Profile.Normalize()
		keys = append(keys, "profile")
	}
	if snap.Inventory != nil {
		s.Inventory = pantry.NewInventory(*snap.Inventory...)
		keys = append(keys, "inventory")
	}
	if snap.MuscleFatigue != nil {
		s.Fatigue = snap.MuscleFatigue.Clone()
		keys = append(keys, "muscle_fatigue")
	}
	if snap.MedicalHistory != nil {
		s.MedicalHistory = *snap.MedicalHistory
		keys = append(keys, "medical_history")
	}
	if snap.PersonalRecords != nil {
		s.Records = snap.PersonalRecords.Clone()
		keys = append(keys, "personal_records")
	}
	if snap.TrainingStreak != nil {
		s.Streaks.Training = *snap.TrainingStreak
		keys = append(keys, "training_streak")
	}
	if len(keys) > 0 {
		s.AddEvent(BackupImportedEvent{SessionID: s.ID, Keys: keys, At: time.Now()})
	}
	return keys
}

// Validate rejects values the state could never hold
func (snap Snapshot) Validate() error {
	if snap.MuscleFatigue != nil {
		for group, v := range *snap.MuscleFatigue {
			if v < 0 || v > 100 {
				return fmt.Errorf("%w: muscle_fatigue[%s]=%d out of range", ErrMalformedBackup, group, v)
			}
		}
	}
	if snap.TrainingStreak != nil && *snap.TrainingStreak < 0 {
		return fmt.Errorf("%w: negative training_streak", ErrMalformedBackup)
	}
	return nil
}

// EncodeSnapshot renders the snapshot in the requested format
func EncodeSnapshot(snap Snapshot, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(snap)
	case FormatJSON, "":
		return json.MarshalIndent(snap, "", "  ")
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// DecodeSnapshot parses and validates a backup document. Any failure wraps ErrMalformedBackup.
func DecodeSnapshot(data []byte, format Format) (Snapshot, error) {
	var snap Snapshot
	if len(bytes.TrimSpace(data)) == 0 {
		return snap, fmt.Errorf("%w: empty document", ErrMalformedBackup)
	}

	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &snap)
	case FormatJSON, "":
		err = json.Unmarshal(data, &snap)
	default:
		return snap, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrMalformedBackup, err)
	}
	if err := snap.Validate(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}
