package repos

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/shiftworks/quickjob/internal/db/models"
)

// WorkSessionRepository provides access to work-session database operations
type WorkSessionRepository struct {
	db *gorm.DB
}

// NewWorkSessionRepository creates a new work session repository instance
func NewWorkSessionRepository(db *gorm.DB) *WorkSessionRepository {
	return &WorkSessionRepository{db: db}
}

// Create creates a new work session in the database
func (r *WorkSessionRepository) Create(ctx context.Context, ws *models.WorkSession) error {
	if ws.ApplicationID == 0 {
		return fmt.Errorf("invalid work session: application_id must be non-zero")
	}
	return r.db.WithContext(ctx).Create(ws).Error
}

// Update updates an existing work session in the database
func (r *WorkSessionRepository) Update(ctx context.Context, ws *models.WorkSession) error {
	return r.db.WithContext(ctx).Save(ws).Error
}

// CurrentForApplication returns the most recently created work session for
// an application. Superseded sessions stay in the table; only the newest one
// is authoritative.
func (r *WorkSessionRepository) CurrentForApplication(ctx context.Context, applicationID uint) (*models.WorkSession, error) {
	var ws models.WorkSession
	err := r.db.WithContext(ctx).
		Where(&models.WorkSession{ApplicationID: applicationID}).
		Order("id DESC").
		First(&ws).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get work session: %w", err)
	}
	return &ws, nil
}

// ListByApplication returns every session recorded for an application,
// newest first.
func (r *WorkSessionRepository) ListByApplication(ctx context.Context, applicationID uint) ([]models.WorkSession, error) {
	var sessions []models.WorkSession
	err := r.db.WithContext(ctx).
		Where(&models.WorkSession{ApplicationID: applicationID}).
		Order("id DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list work sessions: %w", err)
	}
	return sessions, nil
}
