// Package repos provides access to the persistent store, one repository per
// aggregate.
package repos

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/shiftworks/quickjob/internal/db/models"
)

// JobRepository provides access to job-related database operations
type JobRepository struct {
	db *gorm.DB
}

// NewJobRepository creates a new job repository instance
func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create creates a new job in the database
func (r *JobRepository) Create(ctx context.Context, job *models.Job) error {
	if job.EmployerID == 0 {
		return fmt.Errorf("invalid employer_id: must be non-zero")
	}
	return r.db.WithContext(ctx).Create(job).Error
}

// Update updates an existing job in the database
func (r *JobRepository) Update(ctx context.Context, job *models.Job) error {
	return r.db.WithContext(ctx).Save(job).Error
}

// GetByID retrieves a job by its ID
func (r *JobRepository) GetByID(ctx context.Context, id uint) (*models.Job, error) {
	var job models.Job
	err := r.db.WithContext(ctx).First(&job, id).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return &job, nil
}

// ListByEmployer returns the jobs owned by an employer
func (r *JobRepository) ListByEmployer(ctx context.Context, employerID uint, opts *models.ListOptions) ([]models.Job, error) {
	var jobs []models.Job
	err := r.db.WithContext(ctx).
		Where(&models.Job{EmployerID: employerID}).
		Order(models.CreatedAtField + " DESC").
		Limit(opts.LimitOrDefault()).
		Offset(opts.OffsetOrZero()).
		Find(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, nil
}

// ListOpen returns jobs discoverable by employees: approved and active.
// District and state filter when non-empty.
func (r *JobRepository) ListOpen(ctx context.Context, district, state string, opts *models.ListOptions) ([]models.Job, error) {
	qry := &models.Job{
		ApprovalStatus: models.JobApproved,
		IsActive:       true,
		District:       district,
		State:          state,
	}

	var jobs []models.Job
	err := r.db.WithContext(ctx).
		Where(qry).
		Order(models.CreatedAtField + " DESC").
		Limit(opts.LimitOrDefault()).
		Offset(opts.OffsetOrZero()).
		Find(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list open jobs: %w", err)
	}
	return jobs, nil
}
