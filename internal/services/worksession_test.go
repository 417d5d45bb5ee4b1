package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftworks/quickjob/internal/db/models"
	"github.com/shiftworks/quickjob/internal/types"
)

func TestWorkSessionService_AcceptIssuesStartCode(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	job := ts.createOpenJob(t, 10, "40-60")
	app := ts.createApplication(t, job.ID, 20, models.StatusApplied)

	res, err := ts.SessionService.Accept(ts.ctx, app.ID, job.EmployerID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSelected.String(), res.Status)
	assert.Len(t, res.OTP, 6)
	assert.True(t, res.OTPExpiresAt.After(time.Now()))

	got, err := ts.AppRepo.GetByID(ts.ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSelected, got.Status)

	session, err := ts.SessionRepo.CurrentForApplication(ts.ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionOtpGenerated, session.Status)
	assert.Equal(t, res.OTP, session.StartOTP)
	assert.Equal(t, job.EmployerID, session.EmployerID)
	assert.Equal(t, app.EmployeeID, session.EmployeeID)
}

func TestWorkSessionService_AcceptRequiresOwnership(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	job := ts.createOpenJob(t, 10, "50")
	app := ts.createApplication(t, job.ID, 20, models.StatusApplied)

	_, err := ts.SessionService.Accept(ts.ctx, app.ID, 99)
	assert.Equal(t, types.KindAuthorizationDenied, types.KindOf(err))

	got, err := ts.AppRepo.GetByID(ts.ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApplied, got.Status, "denied accept must not change status")
}

func TestWorkSessionService_AcceptRejectsBadTransition(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	job := ts.createOpenJob(t, 10, "50")
	app := ts.createApplication(t, job.ID, 20, models.StatusCompleted)

	_, err := ts.SessionService.Accept(ts.ctx, app.ID, job.EmployerID)
	assert.Equal(t, types.KindInvalidStatusTransition, types.KindOf(err))
}

func TestWorkSessionService_AcceptRefusedWhileGuardHeld(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	job := ts.createOpenJob(t, 10, "50")
	app := ts.createApplication(t, job.ID, 20, models.StatusApplied)

	require.True(t, ts.Guard.TryAcquire(guardKey("accept", app.ID)))
	defer ts.Guard.Release(guardKey("accept", app.ID))

	_, err := ts.SessionService.Accept(ts.ctx, app.ID, job.EmployerID)
	assert.Equal(t, types.KindOperationInProgress, types.KindOf(err))

	got, err := ts.AppRepo.GetByID(ts.ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApplied, got.Status)
}

func TestWorkSessionService_StartWork(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	job := ts.createOpenJob(t, 10, "50")
	app := ts.createApplication(t, job.ID, 20, models.StatusApplied)

	res, err := ts.SessionService.Accept(ts.ctx, app.ID, job.EmployerID)
	require.NoError(t, err)

	start, err := ts.SessionService.StartWork(ts.ctx, app.ID, app.EmployeeID, res.OTP)
	require.NoError(t, err)
	assert.Equal(t, models.StatusWorkInProgress.String(), start.Status)
	assert.False(t, start.AlreadyStarted)
	assert.False(t, start.WorkStartTime.IsZero())

	got, err := ts.AppRepo.GetByID(ts.ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusWorkInProgress, got.Status)

	session, err := ts.SessionRepo.CurrentForApplication(ts.ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionWorkStarted, session.Status)
	require.NotNil(t, session.WorkStartTime)
}

func TestWorkSessionService_StartWorkIdempotent(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	job := ts.createOpenJob(t, 10, "50")
	app := ts.createApplication(t, job.ID, 20, models.StatusApplied)

	res, err := ts.SessionService.Accept(ts.ctx, app.ID, job.EmployerID)
	require.NoError(t, err)

	first, err := ts.SessionService.StartWork(ts.ctx, app.ID, app.EmployeeID, res.OTP)
	require.NoError(t, err)

	// Second start succeeds without a second transition, even with a bad code
	second, err := ts.SessionService.StartWork(ts.ctx, app.ID, app.EmployeeID, "000000")
	require.NoError(t, err)
	assert.True(t, second.AlreadyStarted)
	assert.True(t, second.WorkStartTime.Equal(first.WorkStartTime))

	sessions, err := ts.SessionRepo.ListByApplication(ts.ctx, app.ID)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestWorkSessionService_StartWorkWrongCode(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	job := ts.createOpenJob(t, 10, "50")
	app := ts.createApplication(t, job.ID, 20, models.StatusApplied)

	res, err := ts.SessionService.Accept(ts.ctx, app.ID, job.EmployerID)
	require.NoError(t, err)

	wrong := "000000"
	if res.OTP == wrong {
		wrong = "000001"
	}
	_, err = ts.SessionService.StartWork(ts.ctx, app.ID, app.EmployeeID, wrong)
	assert.Equal(t, types.KindInvalidOtp, types.KindOf(err))

	session, err := ts.SessionRepo.CurrentForApplication(ts.ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionOtpGenerated, session.Status, "failed verification must not change state")
}

func TestWorkSessionService_StartWorkExpiredCode(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	job := ts.createOpenJob(t, 10, "50")
	app := ts.createApplication(t, job.ID, 20, models.StatusApplied)

	res, err := ts.SessionService.Accept(ts.ctx, app.ID, job.EmployerID)
	require.NoError(t, err)

	// Lapse the code in place
	session, err := ts.SessionRepo.CurrentForApplication(ts.ctx, app.ID)
	require.NoError(t, err)
	session.OTPExpiry = time.Now().Add(-time.Minute)
	require.NoError(t, ts.SessionRepo.Update(ts.ctx, session))

	_, err = ts.SessionService.StartWork(ts.ctx, app.ID, app.EmployeeID, res.OTP)
	assert.Equal(t, types.KindExpiredOtp, types.KindOf(err))

	session, err = ts.SessionRepo.CurrentForApplication(ts.ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionOtpGenerated, session.Status)
	assert.Nil(t, session.WorkStartTime)

	got, err := ts.AppRepo.GetByID(ts.ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSelected, got.Status)
}

func TestWorkSessionService_StartWorkWrongEmployee(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	job := ts.createOpenJob(t, 10, "50")
	app := ts.createApplication(t, job.ID, 20, models.StatusApplied)

	res, err := ts.SessionService.Accept(ts.ctx, app.ID, job.EmployerID)
	require.NoError(t, err)

	_, err = ts.SessionService.StartWork(ts.ctx, app.ID, 99, res.OTP)
	assert.Equal(t, types.KindAuthorizationDenied, types.KindOf(err))
}

func TestWorkSessionService_FullLifecycleWages(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	// Rate 60/h for 90 minutes of work should settle at 90.0
	job := ts.createOpenJob(t, 10, "60")
	app := ts.createApplication(t, job.ID, 20, models.StatusApplied)

	res, err := ts.SessionService.Accept(ts.ctx, app.ID, job.EmployerID)
	require.NoError(t, err)

	startedAt := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	ts.SetClock(startedAt)
	_, err = ts.SessionService.StartWork(ts.ctx, app.ID, app.EmployeeID, res.OTP)
	require.NoError(t, err)

	ts.SetClock(startedAt.Add(90 * time.Minute))
	completion, err := ts.SessionService.InitiateCompletion(ts.ctx, app.ID, app.EmployeeID)
	require.NoError(t, err)
	assert.Equal(t, 90, completion.WorkDurationMinutes)
	assert.Equal(t, models.StatusCompletionPending.String(), completion.Status)

	summary, err := ts.SessionService.VerifyCompletion(ts.ctx, app.ID, job.EmployerID, completion.OTP)
	require.NoError(t, err)
	assert.Equal(t, 90, summary.WorkDurationMinutes)
	assert.InDelta(t, 60.0, summary.HourlyRate, 0.001)
	assert.InDelta(t, 90.0, summary.CalculatedWages, 0.001)

	got, err := ts.AppRepo.GetByID(ts.ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)

	session, err := ts.SessionRepo.CurrentForApplication(ts.ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionWorkCompleted, session.Status)
	assert.InDelta(t, 90.0, session.CalculatedWages, 0.001)
}

func TestWorkSessionService_DurationFloorsPartialMinutes(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	job := ts.createOpenJob(t, 10, "60")
	app := ts.createApplication(t, job.ID, 20, models.StatusApplied)

	res, err := ts.SessionService.Accept(ts.ctx, app.ID, job.EmployerID)
	require.NoError(t, err)

	startedAt := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	ts.SetClock(startedAt)
	_, err = ts.SessionService.StartWork(ts.ctx, app.ID, app.EmployeeID, res.OTP)
	require.NoError(t, err)

	ts.SetClock(startedAt.Add(42*time.Minute + 59*time.Second))
	completion, err := ts.SessionService.InitiateCompletion(ts.ctx, app.ID, app.EmployeeID)
	require.NoError(t, err)
	assert.Equal(t, 42, completion.WorkDurationMinutes)
}

func TestWorkSessionService_CompletionFallbackWithoutStartTime(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	job := ts.createOpenJob(t, 10, "60")
	app := ts.createApplication(t, job.ID, 20, models.StatusApplied)

	_, err := ts.SessionService.Accept(ts.ctx, app.ID, job.EmployerID)
	require.NoError(t, err)

	// Force a started session with no recorded start time
	session, err := ts.SessionRepo.CurrentForApplication(ts.ctx, app.ID)
	require.NoError(t, err)
	session.Status = models.SessionWorkStarted
	session.WorkStartTime = nil
	require.NoError(t, ts.SessionRepo.Update(ts.ctx, session))

	completion, err := ts.SessionService.InitiateCompletion(ts.ctx, app.ID, app.EmployeeID)
	require.NoError(t, err)
	assert.Equal(t, fallbackSessionMinutes, completion.WorkDurationMinutes)
}

func TestWorkSessionService_VerifyCompletionExpiredCode(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	job := ts.createOpenJob(t, 10, "60")
	app := ts.createApplication(t, job.ID, 20, models.StatusApplied)

	res, err := ts.SessionService.Accept(ts.ctx, app.ID, job.EmployerID)
	require.NoError(t, err)
	_, err = ts.SessionService.StartWork(ts.ctx, app.ID, app.EmployeeID, res.OTP)
	require.NoError(t, err)
	completion, err := ts.SessionService.InitiateCompletion(ts.ctx, app.ID, app.EmployeeID)
	require.NoError(t, err)

	session, err := ts.SessionRepo.CurrentForApplication(ts.ctx, app.ID)
	require.NoError(t, err)
	session.CompletionOTPExpiry = time.Now().Add(-time.Minute)
	require.NoError(t, ts.SessionRepo.Update(ts.ctx, session))

	_, err = ts.SessionService.VerifyCompletion(ts.ctx, app.ID, job.EmployerID, completion.OTP)
	assert.Equal(t, types.KindExpiredOtp, types.KindOf(err))

	session, err = ts.SessionRepo.CurrentForApplication(ts.ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionCompletionPending, session.Status)
	assert.Zero(t, session.CalculatedWages)
}

func TestWorkSessionService_RequestNewOTP(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	job := ts.createOpenJob(t, 10, "50")
	app := ts.createApplication(t, job.ID, 20, models.StatusApplied)

	res, err := ts.SessionService.Accept(ts.ctx, app.ID, job.EmployerID)
	require.NoError(t, err)

	// A live code refuses re-issue
	_, err = ts.SessionService.RequestNewOTP(ts.ctx, app.ID, app.EmployeeID)
	assert.Equal(t, types.KindInvalidStatusTransition, types.KindOf(err))

	// Lapse it, then re-issue
	session, err := ts.SessionRepo.CurrentForApplication(ts.ctx, app.ID)
	require.NoError(t, err)
	session.OTPExpiry = time.Now().Add(-time.Minute)
	require.NoError(t, ts.SessionRepo.Update(ts.ctx, session))

	reissued, err := ts.SessionService.RequestNewOTP(ts.ctx, app.ID, app.EmployeeID)
	require.NoError(t, err)
	assert.Len(t, reissued.OTP, 6)
	assert.NotEqual(t, res.OTP, reissued.OTP)

	session, err = ts.SessionRepo.CurrentForApplication(ts.ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionOtpGenerated, session.Status)
	assert.Equal(t, reissued.OTP, session.StartOTP)

	// The fresh code is redeemable
	_, err = ts.SessionService.StartWork(ts.ctx, app.ID, app.EmployeeID, reissued.OTP)
	require.NoError(t, err)
}

func TestWorkSessionService_Reject(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	job := ts.createOpenJob(t, 10, "50")
	app := ts.createApplication(t, job.ID, 20, models.StatusApplied)

	require.NoError(t, ts.SessionService.Reject(ts.ctx, app.ID, job.EmployerID))

	got, err := ts.AppRepo.GetByID(ts.ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, got.Status)

	// Terminal, no way back
	err = ts.SessionService.Reject(ts.ctx, app.ID, job.EmployerID)
	assert.Equal(t, types.KindInvalidStatusTransition, types.KindOf(err))
}

func TestWorkSessionService_MarkNotInterested(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	job := ts.createOpenJob(t, 10, "50")
	app := ts.createApplication(t, job.ID, 20, models.StatusApplied)

	err := ts.SessionService.MarkNotInterested(ts.ctx, app.ID, 99)
	assert.Equal(t, types.KindAuthorizationDenied, types.KindOf(err))

	require.NoError(t, ts.SessionService.MarkNotInterested(ts.ctx, app.ID, app.EmployeeID))

	got, err := ts.AppRepo.GetByID(ts.ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusNotInterested, got.Status)
}
