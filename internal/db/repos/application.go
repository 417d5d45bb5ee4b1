package repos

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/shiftworks/quickjob/internal/db/models"
)

// ErrNoActiveApplication is returned when no active application exists for a
// (job, employee) pair.
var ErrNoActiveApplication = errors.New("no active application")

// ApplicationRepository provides access to application-related database operations
type ApplicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new application repository instance
func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Create creates a new application in the database
func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	if app.JobID == 0 || app.EmployeeID == 0 {
		return fmt.Errorf("invalid application: job_id and employee_id must be non-zero")
	}
	return r.db.WithContext(ctx).Create(app).Error
}

// Update updates an existing application in the database
func (r *ApplicationRepository) Update(ctx context.Context, app *models.Application) error {
	return r.db.WithContext(ctx).Save(app).Error
}

// UpdateStatus updates the status of an application
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id uint, status models.CanonicalStatus) error {
	return r.db.WithContext(ctx).Model(&models.Application{}).
		Where(&models.Application{Model: gorm.Model{ID: id}}).
		Update("status", status).Error
}

// GetByID retrieves an application by its ID
func (r *ApplicationRepository) GetByID(ctx context.Context, id uint) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).First(&app, id).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return &app, nil
}

// FindActive returns the logically active application for a (job, employee)
// pair, or ErrNoActiveApplication. Rejected, declined and not-interested
// records do not count as active.
func (r *ApplicationRepository) FindActive(ctx context.Context, jobID, employeeID uint) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).
		Where(&models.Application{JobID: jobID, EmployeeID: employeeID}).
		Where("status NOT IN ?", []models.CanonicalStatus{
			models.StatusRejected,
			models.StatusNotInterested,
			models.StatusDeclined,
		}).
		Order(models.CreatedAtField + " DESC").
		First(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoActiveApplication
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find active application: %w", err)
	}
	return &app, nil
}

// ListByEmployee returns an employee's applications, newest first
func (r *ApplicationRepository) ListByEmployee(ctx context.Context, employeeID uint, opts *models.ListOptions) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.WithContext(ctx).
		Where(&models.Application{EmployeeID: employeeID}).
		Order(models.CreatedAtField + " DESC").
		Limit(opts.LimitOrDefault()).
		Offset(opts.OffsetOrZero()).
		Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

// ListByJob returns the applications submitted against a job, newest first
func (r *ApplicationRepository) ListByJob(ctx context.Context, jobID uint, opts *models.ListOptions) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.WithContext(ctx).
		Where(&models.Application{JobID: jobID}).
		Order(models.CreatedAtField + " DESC").
		Limit(opts.LimitOrDefault()).
		Offset(opts.OffsetOrZero()).
		Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}
