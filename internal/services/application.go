package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shiftworks/quickjob/internal/cache"
	"github.com/shiftworks/quickjob/internal/db/models"
	"github.com/shiftworks/quickjob/internal/db/repos"
	"github.com/shiftworks/quickjob/internal/events"
	"github.com/shiftworks/quickjob/internal/guard"
	"github.com/shiftworks/quickjob/internal/types"
)

// ApplicationService is the orchestration facade for everything an employee
// or employer does with applications. Work-session transitions are delegated
// to the WorkSessionService; job reads go through the reference cache.
type ApplicationService struct {
	appRepo  *repos.ApplicationRepository
	jobRepo  *repos.JobRepository
	sessions *WorkSessionService
	jobCache *cache.Cache
	guard    *guard.Guard

	now func() time.Time
}

// NewApplicationService creates a new application service instance
func NewApplicationService(
	appRepo *repos.ApplicationRepository,
	jobRepo *repos.JobRepository,
	sessions *WorkSessionService,
	jobCache *cache.Cache,
	g *guard.Guard,
) *ApplicationService {
	return &ApplicationService{
		appRepo:  appRepo,
		jobRepo:  jobRepo,
		sessions: sessions,
		jobCache: jobCache,
		guard:    g,
		now:      time.Now,
	}
}

// Sessions exposes the work-session machine for callers that need the
// OTP-gated operations.
func (s *ApplicationService) Sessions() *WorkSessionService {
	return s.sessions
}

// Apply files a new application for a discoverable job. At most one
// logically active application may exist per (job, employee) pair; prior
// rejected or withdrawn records do not count.
func (s *ApplicationService) Apply(ctx context.Context, jobID, employeeID uint) (*models.Application, error) {
	key := fmt.Sprintf("apply:%d:%d", jobID, employeeID)
	if !s.guard.TryAcquire(key) {
		return nil, types.ErrOperationInProgress(key)
	}
	defer s.guard.Release(key)

	ctx, cancel := context.WithTimeout(ctx, mutateTimeout)
	defer cancel()

	job, err := s.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !job.Discoverable() {
		return nil, types.ErrNotFound("job", nil)
	}

	if _, err := s.appRepo.FindActive(ctx, jobID, employeeID); err == nil {
		return nil, types.ErrConflict("an active application already exists for this job")
	} else if !errors.Is(err, repos.ErrNoActiveApplication) {
		return nil, types.ErrPersistence("failed to check existing applications", err)
	}

	appliedAt := s.now()
	app := &models.Application{
		JobID:      jobID,
		EmployeeID: employeeID,
		Status:     models.StatusApplied,
		AppliedAt:  &appliedAt,
	}
	if err := s.appRepo.Create(ctx, app); err != nil {
		return nil, types.ErrPersistence("failed to create application", err)
	}

	events.Publish(events.Event{
		Type:          events.EventApplicationFiled,
		ApplicationID: app.ID,
		JobID:         jobID,
		EmployeeID:    employeeID,
		EmployerID:    job.EmployerID,
	})
	return app, nil
}

// Reconsider re-opens a terminally rejected or withdrawn application by
// creating a fresh APPLIED record. Terminal records are never mutated in
// place.
func (s *ApplicationService) Reconsider(ctx context.Context, applicationID, employeeID uint) (*models.Application, error) {
	key := fmt.Sprintf("reconsider:%d", applicationID)
	if !s.guard.TryAcquire(key) {
		return nil, types.ErrOperationInProgress(key)
	}
	defer s.guard.Release(key)

	ctx, cancel := context.WithTimeout(ctx, mutateTimeout)
	defer cancel()

	prior, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, storeErr("application", err)
	}
	if prior.EmployeeID != employeeID {
		return nil, types.ErrAuthorizationDenied("application does not belong to the acting employee")
	}
	if !models.IsNegativeOutcome(prior.Status) {
		return nil, types.ErrInvalidStatusTransition(
			fmt.Sprintf("only rejected or withdrawn applications can be reconsidered, not %s", prior.Status))
	}

	appliedAt := s.now()
	app := &models.Application{
		JobID:      prior.JobID,
		EmployeeID: prior.EmployeeID,
		Status:     models.StatusApplied,
		AppliedAt:  &appliedAt,
	}
	if err := s.appRepo.Create(ctx, app); err != nil {
		return nil, types.ErrPersistence("failed to create application", err)
	}
	return app, nil
}

// Get returns a single application visible to the acting user (its employee
// or the employer owning its job).
func (s *ApplicationService) Get(ctx context.Context, applicationID, actingUserID uint) (*models.Application, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, storeErr("application", err)
	}
	if app.EmployeeID == actingUserID {
		return app, nil
	}
	job, err := s.GetJob(ctx, app.JobID)
	if err != nil {
		return nil, err
	}
	if !job.OwnedBy(actingUserID) {
		return nil, types.ErrAuthorizationDenied("application is not visible to the acting user")
	}
	return app, nil
}

// ListForEmployee returns the acting employee's applications.
func (s *ApplicationService) ListForEmployee(ctx context.Context, employeeID uint, opts *models.ListOptions) ([]models.Application, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	apps, err := s.appRepo.ListByEmployee(ctx, employeeID, opts)
	if err != nil {
		return nil, types.ErrPersistence("failed to list applications", err)
	}
	return apps, nil
}

// ListForJob returns a job's applications to its owning employer.
func (s *ApplicationService) ListForJob(ctx context.Context, jobID, employerID uint, opts *models.ListOptions) ([]models.Application, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	job, err := s.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !job.OwnedBy(employerID) {
		return nil, types.ErrAuthorizationDenied("job is not owned by the acting employer")
	}

	apps, err := s.appRepo.ListByJob(ctx, jobID, opts)
	if err != nil {
		return nil, types.ErrPersistence("failed to list applications", err)
	}
	return apps, nil
}

// GetJob returns a job, serving repeated reads from the reference cache.
// A failed store read is retried once before the error propagates; this
// retry applies to job lookups only.
func (s *ApplicationService) GetJob(ctx context.Context, jobID uint) (*models.Job, error) {
	key := jobCacheKey(jobID)
	if v, ok := s.jobCache.Get(key); ok {
		return v.(*models.Job), nil
	}

	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		if isNotFound(err) {
			return nil, types.ErrNotFound("job", err)
		}
		job, err = s.jobRepo.GetByID(ctx, jobID)
	}
	if err != nil {
		return nil, storeErr("job", err)
	}

	s.jobCache.Put(key, job)
	return job, nil
}
