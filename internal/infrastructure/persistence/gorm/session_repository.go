package gorm

import (
	"context"
	"errors"
	"fmt"

	"github.com/fitpantry/coach/internal/domain/session"
	"github.com/fitpantry/coach/internal/ports/outbound"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SessionRepository implements outbound.SessionRepository using GORM
type SessionRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewSessionRepository creates a new GORM session repository
func NewSessionRepository(db *gorm.DB, logger *zap.Logger) *SessionRepository {
	return &SessionRepository{
		db:     db,
		logger: logger.Named("session-repository"),
	}
}

var (
	_ outbound.SessionRepository = (*SessionRepository)(nil)
	_ outbound.Pinger            = (*SessionRepository)(nil)
)

// Create inserts a new session row
func (r *SessionRepository) Create(ctx context.Context, st *session.State) error {
	model, err := StateToModel(st)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Error("Failed to create session", zap.String("session_id", st.ID), zap.Error(err))
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// Load reads a session row
func (r *SessionRepository) Load(ctx context.Context, id string) (*session.State, error) {
	var model SessionModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, outbound.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return ModelToState(&model)
}

// Save overwrites an existing session row
func (r *SessionRepository) Save(ctx context.Context, st *session.State) error {
	model, err := StateToModel(st)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&SessionModel{}).
		Where("id = ?", st.ID).
		Updates(map[string]interface{}{
			"version":        model.Version,
			"goal":           model.Goal,
			"inventory_size": model.InventorySize,
			"cns":            model.CNS,
			"snapshot":       model.Snapshot,
			"updated_at":     model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Error("Failed to save session", zap.String("session_id", st.ID), zap.Error(result.Error))
		return fmt.Errorf("failed to save session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return outbound.ErrSessionNotFound
	}
	return nil
}

// Delete removes a session row
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&SessionModel{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return outbound.ErrSessionNotFound
	}
	return nil
}

// Ping checks the database connection
func (r *SessionRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// CountLocked returns how many stored sessions sit below the given CNS value
func (r *SessionRepository) CountLocked(ctx context.Context, floor int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&SessionModel{}).Where("cns < ?", floor).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return count, nil
}
