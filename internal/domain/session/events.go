package session

import "time"

// Domain events raised by State mutations. They are drained after a successful save.

// InventoryUpdatedEvent is raised when an acquisition channel adds names
type InventoryUpdatedEvent struct {
	SessionID string
	Channel   string
	Added     []string
	At        time.Time
}

func (e InventoryUpdatedEvent) EventName() string     { return "inventory.updated" }
func (e InventoryUpdatedEvent) OccurredAt() time.Time { return e.At }

// MealCompletedEvent is raised when a meal is marked completed and its ingredients consumed
type MealCompletedEvent struct {
	SessionID string
	Day       string
	Index     int
	Consumed  []string
	At        time.Time
}

func (e MealCompletedEvent) EventName() string     { return "meal.completed" }
func (e MealCompletedEvent) OccurredAt() time.Time { return e.At }

// SetRegisteredEvent is raised for every accepted set
type SetRegisteredEvent struct {
	SessionID string
	Exercise  string
	Load      float64
	IsPR      bool
	CNS       int
	At        time.Time
}

func (e SetRegisteredEvent) EventName() string     { return "set.registered" }
func (e SetRegisteredEvent) OccurredAt() time.Time { return e.At }

// TrainingDayCompletedEvent is raised when the last exercise of a day becomes done
type TrainingDayCompletedEvent struct {
	SessionID string
	Day       string
	Streak    int
	At        time.Time
}

func (e TrainingDayCompletedEvent) EventName() string     { return "training.day_completed" }
func (e TrainingDayCompletedEvent) OccurredAt() time.Time { return e.At }

// PlanGeneratedEvent is raised when a new nutrition plan replaces the old one
type PlanGeneratedEvent struct {
	SessionID string
	Days      int
	At        time.Time
}

func (e PlanGeneratedEvent) EventName() string     { return "plan.generated" }
func (e PlanGeneratedEvent) OccurredAt() time.Time { return e.At }

// MicrocycleGeneratedEvent is raised when a new microcycle replaces the old one
type MicrocycleGeneratedEvent struct {
	SessionID string
	Days      int
	At        time.Time
}

func (e MicrocycleGeneratedEvent) EventName() string     { return "microcycle.generated" }
func (e MicrocycleGeneratedEvent) OccurredAt() time.Time { return e.At }

// RecoveryProtocolEvent is raised when streaks and hydration are reset
type RecoveryProtocolEvent struct {
	SessionID string
	Target    float64
	At        time.Time
}

func (e RecoveryProtocolEvent) EventName() string     { return "recovery.protocol" }
func (e RecoveryProtocolEvent) OccurredAt() time.Time { return e.At }

// BackupImportedEvent lists the keys a backup import overwrote
type BackupImportedEvent struct {
	SessionID string
	Keys      []string
	At        time.Time
}

func (e BackupImportedEvent) EventName() string     { return "backup.imported" }
func (e BackupImportedEvent) OccurredAt() time.Time { return e.At }
