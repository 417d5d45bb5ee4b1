package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shiftworks/quickjob/internal/cache"
	"github.com/shiftworks/quickjob/internal/db/models"
	"github.com/shiftworks/quickjob/internal/db/repos"
	"github.com/shiftworks/quickjob/internal/guard"
	"github.com/shiftworks/quickjob/internal/otp"
)

// TestSetup sets up an in-memory database, repositories and services for
// testing. The services share one guard and one job cache, like in the
// running process.
type TestSetup struct {
	DB          *gorm.DB
	JobRepo     *repos.JobRepository
	AppRepo     *repos.ApplicationRepository
	SessionRepo *repos.WorkSessionRepository
	Guard       *guard.Guard
	JobCache    *cache.Cache
	Issuer      *otp.Issuer

	JobService     *JobService
	SessionService *WorkSessionService
	ApplicationSvc *ApplicationService
	ctx            context.Context
}

// NewTestSetup creates a new test setup with in-memory database
func NewTestSetup(t *testing.T) *TestSetup {
	// Create in-memory SQLite database
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err, "Failed to create in-memory database")

	// Run migrations
	err = db.AutoMigrate(
		&models.Job{},
		&models.Application{},
		&models.WorkSession{},
	)
	assert.NoError(t, err, "Failed to run migrations")

	// Create real repositories
	jobRepo := repos.NewJobRepository(db)
	appRepo := repos.NewApplicationRepository(db)
	sessionRepo := repos.NewWorkSessionRepository(db)

	g := guard.New(guard.DefaultTTL)
	jobCache := cache.New(cache.DefaultTTL, cache.DefaultCapacity)
	issuer := otp.NewIssuer(otp.DefaultTTL)

	// Create real services
	jobService := NewJobService(jobRepo, jobCache)
	sessionService := NewWorkSessionService(appRepo, jobRepo, sessionRepo, g, issuer)
	applicationSvc := NewApplicationService(appRepo, jobRepo, sessionService, jobCache, g)

	return &TestSetup{
		DB:             db,
		JobRepo:        jobRepo,
		AppRepo:        appRepo,
		SessionRepo:    sessionRepo,
		Guard:          g,
		JobCache:       jobCache,
		Issuer:         issuer,
		JobService:     jobService,
		SessionService: sessionService,
		ApplicationSvc: applicationSvc,
		ctx:            context.Background(),
	}
}

// CleanUp cleans up resources after test
func (ts *TestSetup) CleanUp() {
	sqlDB, err := ts.DB.DB()
	if err == nil && sqlDB != nil {
		_ = sqlDB.Close()
	}
}

// SetClock pins the service clocks to a fixed instant. Code expiry is
// checked against the wall clock, so tests exercise lapsed codes by
// rewriting the stored expiry instead.
func (ts *TestSetup) SetClock(at time.Time) {
	clock := func() time.Time { return at }
	ts.SessionService.now = clock
	ts.ApplicationSvc.now = clock
}

// createOpenJob inserts an approved, active posting for employerID.
func (ts *TestSetup) createOpenJob(t *testing.T, employerID uint, salaryRange string) *models.Job {
	job := &models.Job{
		EmployerID:     employerID,
		Title:          "event crew",
		District:       "central",
		State:          "KA",
		SalaryRange:    salaryRange,
		ApprovalStatus: models.JobApproved,
		IsActive:       true,
	}
	require.NoError(t, ts.JobRepo.Create(ts.ctx, job))
	return job
}

// createApplication inserts an application directly at the given status.
func (ts *TestSetup) createApplication(t *testing.T, jobID, employeeID uint, status models.CanonicalStatus) *models.Application {
	app := &models.Application{
		JobID:      jobID,
		EmployeeID: employeeID,
		Status:     status,
	}
	require.NoError(t, ts.AppRepo.Create(ts.ctx, app))
	return app
}
