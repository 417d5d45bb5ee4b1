package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftworks/quickjob/internal/db/models"
	"github.com/shiftworks/quickjob/internal/types"
)

func TestApplicationService_Apply(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	job := ts.createOpenJob(t, 10, "40-60")

	app, err := ts.ApplicationSvc.Apply(ts.ctx, job.ID, 20)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApplied, app.Status)
	assert.NotZero(t, app.ID)
	require.NotNil(t, app.AppliedAt)
}

func TestApplicationService_ApplyUndiscoverableJob(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	job := ts.createOpenJob(t, 10, "50")
	job.ApprovalStatus = models.JobPendingApproval
	require.NoError(t, ts.JobRepo.Update(ts.ctx, job))

	_, err := ts.ApplicationSvc.Apply(ts.ctx, job.ID, 20)
	assert.Equal(t, types.KindNotFound, types.KindOf(err), "unapproved jobs look nonexistent to employees")

	_, err = ts.ApplicationSvc.Apply(ts.ctx, 424242, 20)
	assert.Equal(t, types.KindNotFound, types.KindOf(err))
}

func TestApplicationService_ApplyOneActivePerPair(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	job := ts.createOpenJob(t, 10, "50")

	_, err := ts.ApplicationSvc.Apply(ts.ctx, job.ID, 20)
	require.NoError(t, err)

	_, err = ts.ApplicationSvc.Apply(ts.ctx, job.ID, 20)
	assert.Equal(t, types.KindConflict, types.KindOf(err))

	// A different employee is unaffected
	_, err = ts.ApplicationSvc.Apply(ts.ctx, job.ID, 21)
	require.NoError(t, err)
}

func TestApplicationService_ApplyAgainAfterRejection(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	job := ts.createOpenJob(t, 10, "50")
	app, err := ts.ApplicationSvc.Apply(ts.ctx, job.ID, 20)
	require.NoError(t, err)

	require.NoError(t, ts.SessionService.Reject(ts.ctx, app.ID, job.EmployerID))

	fresh, err := ts.ApplicationSvc.Apply(ts.ctx, job.ID, 20)
	require.NoError(t, err)
	assert.NotEqual(t, app.ID, fresh.ID)
	assert.Equal(t, models.StatusApplied, fresh.Status)
}

func TestApplicationService_ApplyRefusedWhileGuardHeld(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	job := ts.createOpenJob(t, 10, "50")

	key := fmt.Sprintf("apply:%d:%d", job.ID, uint(20))
	require.True(t, ts.Guard.TryAcquire(key))
	defer ts.Guard.Release(key)

	_, err := ts.ApplicationSvc.Apply(ts.ctx, job.ID, 20)
	assert.Equal(t, types.KindOperationInProgress, types.KindOf(err))
}

func TestApplicationService_Reconsider(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	job := ts.createOpenJob(t, 10, "50")
	prior := ts.createApplication(t, job.ID, 20, models.StatusRejected)

	app, err := ts.ApplicationSvc.Reconsider(ts.ctx, prior.ID, 20)
	require.NoError(t, err)
	assert.NotEqual(t, prior.ID, app.ID, "reconsideration creates a fresh record")
	assert.Equal(t, models.StatusApplied, app.Status)
	assert.Equal(t, prior.JobID, app.JobID)

	// The terminal record stays terminal
	got, err := ts.AppRepo.GetByID(ts.ctx, prior.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, got.Status)
}

func TestApplicationService_ReconsiderOnlyTerminalNegatives(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	job := ts.createOpenJob(t, 10, "50")
	live := ts.createApplication(t, job.ID, 20, models.StatusApplied)

	_, err := ts.ApplicationSvc.Reconsider(ts.ctx, live.ID, 20)
	assert.Equal(t, types.KindInvalidStatusTransition, types.KindOf(err))

	rejected := ts.createApplication(t, job.ID, 21, models.StatusRejected)
	_, err = ts.ApplicationSvc.Reconsider(ts.ctx, rejected.ID, 99)
	assert.Equal(t, types.KindAuthorizationDenied, types.KindOf(err))
}

func TestApplicationService_GetVisibility(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	job := ts.createOpenJob(t, 10, "50")
	app := ts.createApplication(t, job.ID, 20, models.StatusApplied)

	got, err := ts.ApplicationSvc.Get(ts.ctx, app.ID, 20)
	require.NoError(t, err)
	assert.Equal(t, app.ID, got.ID)

	got, err = ts.ApplicationSvc.Get(ts.ctx, app.ID, job.EmployerID)
	require.NoError(t, err)
	assert.Equal(t, app.ID, got.ID)

	_, err = ts.ApplicationSvc.Get(ts.ctx, app.ID, 99)
	assert.Equal(t, types.KindAuthorizationDenied, types.KindOf(err))
}

func TestApplicationService_ListForJobRequiresOwnership(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	job := ts.createOpenJob(t, 10, "50")
	ts.createApplication(t, job.ID, 20, models.StatusApplied)
	ts.createApplication(t, job.ID, 21, models.StatusApplied)

	apps, err := ts.ApplicationSvc.ListForJob(ts.ctx, job.ID, job.EmployerID, nil)
	require.NoError(t, err)
	assert.Len(t, apps, 2)

	_, err = ts.ApplicationSvc.ListForJob(ts.ctx, job.ID, 99, nil)
	assert.Equal(t, types.KindAuthorizationDenied, types.KindOf(err))
}

func TestApplicationService_GetJobCaches(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	job := ts.createOpenJob(t, 10, "50")

	got, err := ts.ApplicationSvc.GetJob(ts.ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.ID, got.ID)

	// Change the row behind the cache: the stale title is served until the
	// entry is invalidated
	job.Title = "changed underneath"
	require.NoError(t, ts.JobRepo.Update(ts.ctx, job))

	cached, err := ts.ApplicationSvc.GetJob(ts.ctx, job.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "changed underneath", cached.Title)

	ts.JobCache.Remove(jobCacheKey(job.ID))
	fresh, err := ts.ApplicationSvc.GetJob(ts.ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "changed underneath", fresh.Title)
}

func TestJobService_MutationsInvalidateCache(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	job := ts.createOpenJob(t, 10, "50")

	_, err := ts.ApplicationSvc.GetJob(ts.ctx, job.ID)
	require.NoError(t, err)

	_, err = ts.JobService.Update(ts.ctx, job.EmployerID, job.ID, &models.Job{Title: "renamed"})
	require.NoError(t, err)

	got, err := ts.ApplicationSvc.GetJob(ts.ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)
}

func TestJobService_CreateStartsUnapproved(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	job, err := ts.JobService.Create(ts.ctx, 10, &models.Job{
		Title:          "pop-up stall",
		SalaryRange:    "45",
		ApprovalStatus: models.JobApproved, // caller cannot self-approve
	})
	require.NoError(t, err)
	assert.Equal(t, models.JobPendingApproval, job.ApprovalStatus)
	assert.True(t, job.IsActive)

	open, err := ts.JobService.ListOpen(ts.ctx, "", "", nil)
	require.NoError(t, err)
	assert.Empty(t, open)

	_, err = ts.JobService.Approve(ts.ctx, job.ID, true)
	require.NoError(t, err)

	open, err = ts.JobService.ListOpen(ts.ctx, "", "", nil)
	require.NoError(t, err)
	assert.Len(t, open, 1)
}
