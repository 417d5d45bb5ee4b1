package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shiftworks/quickjob/internal/db/models"
	"github.com/shiftworks/quickjob/internal/db/repos"
	"github.com/shiftworks/quickjob/internal/events"
	"github.com/shiftworks/quickjob/internal/guard"
	"github.com/shiftworks/quickjob/internal/logger"
	"github.com/shiftworks/quickjob/internal/otp"
	"github.com/shiftworks/quickjob/internal/types"
)

// Store call budgets. Short reads get the tight budget; the accept and
// verify flows touch several records and get the long one. A timeout means
// "not completed", never implicit success.
const (
	readTimeout   = 1 * time.Second
	mutateTimeout = 3 * time.Second
	acceptTimeout = 5 * time.Second
)

// fallbackSessionMinutes is charged when a session reaches completion
// without a usable start time. Failing the whole completion over a missing
// timestamp would strand the session, so the historical 60-minute fallback
// is kept.
const fallbackSessionMinutes = 60

// WorkSessionService owns application and work-session status transitions,
// OTP issuance and verification, and wage computation. Every mutating
// operation runs under an advisory guard keyed by the operand and operation
// name, so a double-submitted call is refused rather than executed twice.
type WorkSessionService struct {
	appRepo     *repos.ApplicationRepository
	jobRepo     *repos.JobRepository
	sessionRepo *repos.WorkSessionRepository
	guard       *guard.Guard
	issuer      *otp.Issuer

	now func() time.Time
}

// NewWorkSessionService creates a new work session service instance
func NewWorkSessionService(
	appRepo *repos.ApplicationRepository,
	jobRepo *repos.JobRepository,
	sessionRepo *repos.WorkSessionRepository,
	g *guard.Guard,
	issuer *otp.Issuer,
) *WorkSessionService {
	return &WorkSessionService{
		appRepo:     appRepo,
		jobRepo:     jobRepo,
		sessionRepo: sessionRepo,
		guard:       g,
		issuer:      issuer,
		now:         time.Now,
	}
}

// Accept moves an application to SELECTED on behalf of its job's employer,
// issuing a start code for the employee. The code is returned to the caller
// for out-of-band delivery.
func (s *WorkSessionService) Accept(ctx context.Context, applicationID, employerID uint) (*types.AcceptResult, error) {
	key := guardKey("accept", applicationID)
	if !s.guard.TryAcquire(key) {
		return nil, types.ErrOperationInProgress(key)
	}
	defer s.guard.Release(key)

	ctx, cancel := context.WithTimeout(ctx, acceptTimeout)
	defer cancel()

	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, storeErr("application", err)
	}
	if !models.CanTransition(app.Status, models.StatusSelected) {
		return nil, types.ErrInvalidStatusTransition(
			fmt.Sprintf("cannot accept application in status %s", app.Status))
	}

	job, err := s.jobRepo.GetByID(ctx, app.JobID)
	if err != nil {
		return nil, storeErr("job", err)
	}
	if !job.OwnedBy(employerID) {
		return nil, types.ErrAuthorizationDenied("job is not owned by the acting employer")
	}

	code, expiresAt, err := s.issuer.Issue()
	if err != nil {
		return nil, types.ErrPersistence("failed to issue code", err)
	}

	// Reuse the current session record when its code can simply be
	// replaced; otherwise start a fresh record. The work session is
	// written before the application so a failure in between leaves a
	// recoverable lagging session, not a dangling SELECTED application.
	session, err := s.sessionRepo.CurrentForApplication(ctx, applicationID)
	switch {
	case err == nil && (session.Status == models.SessionOtpGenerated || session.Status == models.SessionExpired):
		session.Status = models.SessionOtpGenerated
		session.StartOTP = code
		session.OTPExpiry = expiresAt
		if err := s.sessionRepo.Update(ctx, session); err != nil {
			return nil, types.ErrPersistence("failed to update work session", err)
		}
	case err == nil || errors.Is(err, gorm.ErrRecordNotFound):
		session = &models.WorkSession{
			ApplicationID: applicationID,
			JobID:         job.ID,
			EmployeeID:    app.EmployeeID,
			EmployerID:    job.EmployerID,
			Status:        models.SessionOtpGenerated,
			StartOTP:      code,
			OTPExpiry:     expiresAt,
		}
		if err := s.sessionRepo.Create(ctx, session); err != nil {
			return nil, types.ErrPersistence("failed to create work session", err)
		}
	default:
		return nil, storeErr("work session", err)
	}

	if err := s.appRepo.UpdateStatus(ctx, app.ID, models.StatusSelected); err != nil {
		return nil, types.ErrPersistence("failed to update application", err)
	}

	events.Publish(events.Event{
		Type:          events.EventStartCodeIssued,
		ApplicationID: app.ID,
		JobID:         job.ID,
		EmployeeID:    app.EmployeeID,
		EmployerID:    job.EmployerID,
		Code:          code,
		CodeExpiresAt: expiresAt,
	})

	return &types.AcceptResult{
		ApplicationID: app.ID,
		Status:        models.StatusSelected.String(),
		OTP:           code,
		OTPExpiresAt:  expiresAt,
	}, nil
}

// StartWork redeems the start code and begins the work session. Re-invoking
// after a successful start is a no-op success, not a second transition.
func (s *WorkSessionService) StartWork(ctx context.Context, applicationID, employeeID uint, submittedOTP string) (*types.StartResult, error) {
	key := guardKey("start", applicationID)
	if !s.guard.TryAcquire(key) {
		return nil, types.ErrOperationInProgress(key)
	}
	defer s.guard.Release(key)

	ctx, cancel := context.WithTimeout(ctx, mutateTimeout)
	defer cancel()

	session, err := s.sessionRepo.CurrentForApplication(ctx, applicationID)
	if err != nil {
		return nil, storeErr("work session", err)
	}
	if session.EmployeeID != employeeID {
		return nil, types.ErrAuthorizationDenied("work session does not belong to the acting employee")
	}

	if session.Status == models.SessionWorkStarted {
		started := s.now()
		if session.WorkStartTime != nil {
			started = *session.WorkStartTime
		}
		return &types.StartResult{
			ApplicationID:  applicationID,
			Status:         models.StatusWorkInProgress.String(),
			WorkStartTime:  started,
			AlreadyStarted: true,
		}, nil
	}
	if session.Status != models.SessionOtpGenerated {
		return nil, types.ErrInvalidStatusTransition(
			fmt.Sprintf("cannot start work from session status %s", session.Status))
	}

	switch s.issuer.Verify(submittedOTP, session.StartOTP, session.OTPExpiry) {
	case otp.Expired:
		return nil, types.ErrExpiredOtp()
	case otp.Mismatch:
		return nil, types.ErrInvalidOtp()
	}

	started := s.now()
	session.Status = models.SessionWorkStarted
	session.WorkStartTime = &started
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, types.ErrPersistence("failed to update work session", err)
	}
	if err := s.appRepo.UpdateStatus(ctx, applicationID, models.StatusWorkInProgress); err != nil {
		return nil, types.ErrPersistence("failed to update application", err)
	}

	events.Publish(events.Event{
		Type:          events.EventWorkStarted,
		ApplicationID: applicationID,
		JobID:         session.JobID,
		EmployeeID:    employeeID,
		EmployerID:    session.EmployerID,
	})

	return &types.StartResult{
		ApplicationID: applicationID,
		Status:        models.StatusWorkInProgress.String(),
		WorkStartTime: started,
	}, nil
}

// InitiateCompletion ends the working period, fixes the billable duration
// and issues a completion code for the employer.
func (s *WorkSessionService) InitiateCompletion(ctx context.Context, applicationID, employeeID uint) (*types.CompletionOTPResult, error) {
	key := guardKey("complete-init", applicationID)
	if !s.guard.TryAcquire(key) {
		return nil, types.ErrOperationInProgress(key)
	}
	defer s.guard.Release(key)

	ctx, cancel := context.WithTimeout(ctx, mutateTimeout)
	defer cancel()

	session, err := s.sessionRepo.CurrentForApplication(ctx, applicationID)
	if err != nil {
		return nil, storeErr("work session", err)
	}
	if session.EmployeeID != employeeID {
		return nil, types.ErrAuthorizationDenied("work session does not belong to the acting employee")
	}
	if session.Status != models.SessionWorkStarted {
		return nil, types.ErrInvalidStatusTransition(
			fmt.Sprintf("cannot initiate completion from session status %s", session.Status))
	}

	endedAt := s.now()
	minutes := fallbackSessionMinutes
	if session.WorkStartTime != nil && !session.WorkStartTime.IsZero() {
		minutes = int(endedAt.Sub(*session.WorkStartTime).Minutes())
		if minutes < 0 {
			minutes = 0
		}
	} else {
		logger.Warnf("work session %d has no start time, charging the %d minute fallback",
			session.ID, fallbackSessionMinutes)
	}

	code, expiresAt, err := s.issuer.Issue()
	if err != nil {
		return nil, types.ErrPersistence("failed to issue code", err)
	}

	session.Status = models.SessionCompletionPending
	session.WorkEndTime = &endedAt
	session.WorkDurationMinutes = minutes
	session.CompletionOTP = code
	session.CompletionOTPExpiry = expiresAt
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, types.ErrPersistence("failed to update work session", err)
	}
	if err := s.appRepo.UpdateStatus(ctx, applicationID, models.StatusCompletionPending); err != nil {
		return nil, types.ErrPersistence("failed to update application", err)
	}

	events.Publish(events.Event{
		Type:          events.EventCompletionCodeIssued,
		ApplicationID: applicationID,
		JobID:         session.JobID,
		EmployeeID:    session.EmployeeID,
		EmployerID:    session.EmployerID,
		Code:          code,
		CodeExpiresAt: expiresAt,
		Minutes:       minutes,
	})

	return &types.CompletionOTPResult{
		ApplicationID:       applicationID,
		Status:              models.StatusCompletionPending.String(),
		OTP:                 code,
		OTPExpiresAt:        expiresAt,
		WorkDurationMinutes: minutes,
	}, nil
}

// VerifyCompletion redeems the completion code on behalf of the employer and
// settles the session's wages.
func (s *WorkSessionService) VerifyCompletion(ctx context.Context, applicationID, employerID uint, submittedOTP string) (*types.CompletionSummary, error) {
	key := guardKey("complete-verify", applicationID)
	if !s.guard.TryAcquire(key) {
		return nil, types.ErrOperationInProgress(key)
	}
	defer s.guard.Release(key)

	ctx, cancel := context.WithTimeout(ctx, acceptTimeout)
	defer cancel()

	session, err := s.sessionRepo.CurrentForApplication(ctx, applicationID)
	if err != nil {
		return nil, storeErr("work session", err)
	}

	job, err := s.jobRepo.GetByID(ctx, session.JobID)
	if err != nil {
		return nil, storeErr("job", err)
	}
	if !job.OwnedBy(employerID) {
		return nil, types.ErrAuthorizationDenied("job is not owned by the acting employer")
	}
	if session.Status != models.SessionCompletionPending {
		return nil, types.ErrInvalidStatusTransition(
			fmt.Sprintf("cannot verify completion from session status %s", session.Status))
	}

	switch s.issuer.Verify(submittedOTP, session.CompletionOTP, session.CompletionOTPExpiry) {
	case otp.Expired:
		return nil, types.ErrExpiredOtp()
	case otp.Mismatch:
		return nil, types.ErrInvalidOtp()
	}

	rate := HourlyRate(job.SalaryRange)
	wages := (float64(session.WorkDurationMinutes) / 60.0) * rate

	session.Status = models.SessionWorkCompleted
	session.CalculatedWages = wages
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, types.ErrPersistence("failed to update work session", err)
	}
	if err := s.appRepo.UpdateStatus(ctx, applicationID, models.StatusCompleted); err != nil {
		return nil, types.ErrPersistence("failed to update application", err)
	}

	events.Publish(events.Event{
		Type:          events.EventWorkCompleted,
		ApplicationID: applicationID,
		JobID:         session.JobID,
		EmployeeID:    session.EmployeeID,
		EmployerID:    session.EmployerID,
		Minutes:       session.WorkDurationMinutes,
		Wages:         wages,
	})

	summary := &types.CompletionSummary{
		ApplicationID:       applicationID,
		Status:              models.StatusCompleted.String(),
		WorkDurationMinutes: session.WorkDurationMinutes,
		HourlyRate:          rate,
		CalculatedWages:     wages,
	}
	if session.WorkStartTime != nil {
		summary.WorkStartTime = *session.WorkStartTime
	}
	if session.WorkEndTime != nil {
		summary.WorkEndTime = *session.WorkEndTime
	}
	return summary, nil
}

// RequestNewOTP re-issues a start code. It is only valid when the current
// session is EXPIRED or its start code has already lapsed.
func (s *WorkSessionService) RequestNewOTP(ctx context.Context, applicationID, employeeID uint) (*types.AcceptResult, error) {
	key := guardKey("reissue", applicationID)
	if !s.guard.TryAcquire(key) {
		return nil, types.ErrOperationInProgress(key)
	}
	defer s.guard.Release(key)

	ctx, cancel := context.WithTimeout(ctx, mutateTimeout)
	defer cancel()

	session, err := s.sessionRepo.CurrentForApplication(ctx, applicationID)
	if err != nil {
		return nil, storeErr("work session", err)
	}
	if session.EmployeeID != employeeID {
		return nil, types.ErrAuthorizationDenied("work session does not belong to the acting employee")
	}

	lapsed := session.Status == models.SessionExpired ||
		(session.Status == models.SessionOtpGenerated && s.now().After(session.OTPExpiry))
	if !lapsed {
		return nil, types.ErrInvalidStatusTransition("a live start code already exists")
	}

	code, expiresAt, err := s.issuer.Issue()
	if err != nil {
		return nil, types.ErrPersistence("failed to issue code", err)
	}

	session.Status = models.SessionOtpGenerated
	session.StartOTP = code
	session.OTPExpiry = expiresAt
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, types.ErrPersistence("failed to update work session", err)
	}

	events.Publish(events.Event{
		Type:          events.EventStartCodeIssued,
		ApplicationID: applicationID,
		JobID:         session.JobID,
		EmployeeID:    session.EmployeeID,
		EmployerID:    session.EmployerID,
		Code:          code,
		CodeExpiresAt: expiresAt,
	})

	return &types.AcceptResult{
		ApplicationID: applicationID,
		Status:        models.StatusSelected.String(),
		OTP:           code,
		OTPExpiresAt:  expiresAt,
	}, nil
}

// Reject terminally rejects an application on behalf of its job's employer.
func (s *WorkSessionService) Reject(ctx context.Context, applicationID, employerID uint) error {
	key := guardKey("reject", applicationID)
	if !s.guard.TryAcquire(key) {
		return types.ErrOperationInProgress(key)
	}
	defer s.guard.Release(key)

	ctx, cancel := context.WithTimeout(ctx, mutateTimeout)
	defer cancel()

	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return storeErr("application", err)
	}
	job, err := s.jobRepo.GetByID(ctx, app.JobID)
	if err != nil {
		return storeErr("job", err)
	}
	if !job.OwnedBy(employerID) {
		return types.ErrAuthorizationDenied("job is not owned by the acting employer")
	}
	if !models.CanTransition(app.Status, models.StatusRejected) {
		return types.ErrInvalidStatusTransition(
			fmt.Sprintf("cannot reject application in status %s", app.Status))
	}

	if err := s.appRepo.UpdateStatus(ctx, app.ID, models.StatusRejected); err != nil {
		return types.ErrPersistence("failed to update application", err)
	}

	events.Publish(events.Event{
		Type:          events.EventApplicationClosed,
		ApplicationID: app.ID,
		JobID:         job.ID,
		EmployeeID:    app.EmployeeID,
		EmployerID:    job.EmployerID,
	})
	return nil
}

// MarkNotInterested terminally withdraws an application on behalf of the
// employee who filed it.
func (s *WorkSessionService) MarkNotInterested(ctx context.Context, applicationID, employeeID uint) error {
	key := guardKey("not-interested", applicationID)
	if !s.guard.TryAcquire(key) {
		return types.ErrOperationInProgress(key)
	}
	defer s.guard.Release(key)

	ctx, cancel := context.WithTimeout(ctx, mutateTimeout)
	defer cancel()

	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return storeErr("application", err)
	}
	if app.EmployeeID != employeeID {
		return types.ErrAuthorizationDenied("application does not belong to the acting employee")
	}
	if !models.CanTransition(app.Status, models.StatusNotInterested) {
		return types.ErrInvalidStatusTransition(
			fmt.Sprintf("cannot withdraw application in status %s", app.Status))
	}

	if err := s.appRepo.UpdateStatus(ctx, app.ID, models.StatusNotInterested); err != nil {
		return types.ErrPersistence("failed to update application", err)
	}

	events.Publish(events.Event{
		Type:          events.EventApplicationClosed,
		ApplicationID: app.ID,
		JobID:         app.JobID,
		EmployeeID:    app.EmployeeID,
	})
	return nil
}

func guardKey(op string, applicationID uint) string {
	return fmt.Sprintf("%s:%d", op, applicationID)
}

// storeErr translates a repository failure into a domain error, keeping
// not-found distinct from genuine store failures.
func storeErr(entity string, err error) *types.Error {
	if isNotFound(err) {
		return types.ErrNotFound(entity, err)
	}
	return types.ErrPersistence("failed to load "+entity, err)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
