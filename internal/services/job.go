package services

import (
	"context"
	"fmt"

	"github.com/shiftworks/quickjob/internal/cache"
	"github.com/shiftworks/quickjob/internal/db/models"
	"github.com/shiftworks/quickjob/internal/db/repos"
	"github.com/shiftworks/quickjob/internal/logger"
	"github.com/shiftworks/quickjob/internal/types"
)

// JobService provides business logic for employer job postings. Every
// mutation invalidates the job's cache entry before the write is
// acknowledged, so cached reads never outlive a change.
type JobService struct {
	jobRepo  *repos.JobRepository
	jobCache *cache.Cache
}

// NewJobService creates a new job service instance
func NewJobService(jobRepo *repos.JobRepository, jobCache *cache.Cache) *JobService {
	return &JobService{jobRepo: jobRepo, jobCache: jobCache}
}

// Create creates a new job posting for the acting employer. New postings
// start unapproved and are not discoverable until an administrator approves
// them.
func (s *JobService) Create(ctx context.Context, employerID uint, job *models.Job) (*models.Job, error) {
	ctx, cancel := context.WithTimeout(ctx, mutateTimeout)
	defer cancel()

	job.EmployerID = employerID
	job.ApprovalStatus = models.JobPendingApproval
	job.IsActive = true
	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, types.ErrPersistence("failed to create job", err)
	}

	logger.InfoWithFields("job created", map[string]interface{}{
		"job_id":      job.ID,
		"employer_id": employerID,
	})
	return job, nil
}

// Update applies employer edits to a job posting.
func (s *JobService) Update(ctx context.Context, employerID uint, jobID uint, patch *models.Job) (*models.Job, error) {
	ctx, cancel := context.WithTimeout(ctx, mutateTimeout)
	defer cancel()

	job, err := s.ownedJob(ctx, employerID, jobID)
	if err != nil {
		return nil, err
	}

	if patch.Title != "" {
		job.Title = patch.Title
	}
	if patch.Description != "" {
		job.Description = patch.Description
	}
	if patch.District != "" {
		job.District = patch.District
	}
	if patch.State != "" {
		job.State = patch.State
	}
	if patch.SalaryRange != "" {
		job.SalaryRange = patch.SalaryRange
	}

	s.jobCache.Remove(jobCacheKey(jobID))
	if err := s.jobRepo.Update(ctx, job); err != nil {
		return nil, types.ErrPersistence("failed to update job", err)
	}
	return job, nil
}

// SetActive toggles whether a job accepts new applications.
func (s *JobService) SetActive(ctx context.Context, employerID uint, jobID uint, active bool) (*models.Job, error) {
	ctx, cancel := context.WithTimeout(ctx, mutateTimeout)
	defer cancel()

	job, err := s.ownedJob(ctx, employerID, jobID)
	if err != nil {
		return nil, err
	}

	job.IsActive = active
	s.jobCache.Remove(jobCacheKey(jobID))
	if err := s.jobRepo.Update(ctx, job); err != nil {
		return nil, types.ErrPersistence("failed to update job", err)
	}
	return job, nil
}

// Approve records the administrator's approval decision for a posting.
func (s *JobService) Approve(ctx context.Context, jobID uint, approved bool) (*models.Job, error) {
	ctx, cancel := context.WithTimeout(ctx, mutateTimeout)
	defer cancel()

	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, storeErr("job", err)
	}

	if approved {
		job.ApprovalStatus = models.JobApproved
	} else {
		job.ApprovalStatus = models.JobRejected
	}
	s.jobCache.Remove(jobCacheKey(jobID))
	if err := s.jobRepo.Update(ctx, job); err != nil {
		return nil, types.ErrPersistence("failed to update job", err)
	}
	return job, nil
}

// ListOpen returns jobs discoverable by employees, optionally filtered by
// district and state.
func (s *JobService) ListOpen(ctx context.Context, district, state string, opts *models.ListOptions) ([]models.Job, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	jobs, err := s.jobRepo.ListOpen(ctx, district, state, opts)
	if err != nil {
		return nil, types.ErrPersistence("failed to list jobs", err)
	}
	return jobs, nil
}

// ListForEmployer returns the acting employer's own postings.
func (s *JobService) ListForEmployer(ctx context.Context, employerID uint, opts *models.ListOptions) ([]models.Job, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	jobs, err := s.jobRepo.ListByEmployer(ctx, employerID, opts)
	if err != nil {
		return nil, types.ErrPersistence("failed to list jobs", err)
	}
	return jobs, nil
}

func (s *JobService) ownedJob(ctx context.Context, employerID, jobID uint) (*models.Job, error) {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, storeErr("job", err)
	}
	if !job.OwnedBy(employerID) {
		return nil, types.ErrAuthorizationDenied("job is not owned by the acting employer")
	}
	return job, nil
}

func jobCacheKey(jobID uint) string {
	return fmt.Sprintf("job:%d", jobID)
}
