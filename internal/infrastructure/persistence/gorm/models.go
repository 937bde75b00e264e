// Package gorm provides GORM model definitions and the SQL-backed session repository
package gorm

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fitpantry/coach/internal/domain/session"
	"gorm.io/datatypes"
)

// SessionModel stores one session record. The whole state lives in a JSON
// snapshot column; a few fields are lifted out for querying.
type SessionModel struct {
	ID            string         `gorm:"type:char(36);primaryKey"`
	Version       int64          `gorm:"default:1"`
	Goal          string         `gorm:"type:varchar(30);index"`
	InventorySize int            `gorm:"default:0"`
	CNS           int            `gorm:"column:cns;default:100"`
	Snapshot      datatypes.JSON `gorm:"type:json;not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time `gorm:"index"`
}

// TableName overrides the default table name
func (SessionModel) TableName() string {
	return "sessions"
}

// StateToModel converts a session state to a GORM model
func StateToModel(st *session.State) (*SessionModel, error) {
	data, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session %s: %w", st.ID, err)
	}
	return &SessionModel{
		ID:            st.ID,
		Version:       st.Version,
		Goal:          string(st.Profile.Goal),
		InventorySize: st.Inventory.Len(),
		CNS:           st.Fatigue.CNS(),
		Snapshot:      datatypes.JSON(data),
		CreatedAt:     st.CreatedAt,
		UpdatedAt:     st.UpdatedAt,
	}, nil
}

// ModelToState converts a GORM model back to a session state
func ModelToState(m *SessionModel) (*session.State, error) {
	var st session.State
	if err := json.Unmarshal(m.Snapshot, &st); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", m.ID, err)
	}
	st.ID = m.ID
	st.Version = m.Version
	st.EnsureDefaults()
	return &st, nil
}
