package repos

import (
	"github.com/google/uuid"

	"github.com/shiftworks/quickjob/internal/db/models"
)

func (s *DBRepositoryTestSuite) TestApplicationCreateAssignsPublicID() {
	job := s.createTestJob()
	app := s.createTestApplication(job.ID, s.randomUserID(), models.StatusApplied)

	s.NotZero(app.ID)
	s.NotEqual(uuid.Nil, app.PublicID)

	got, err := s.appRepo.GetByID(s.ctx, app.ID)
	s.Require().NoError(err)
	s.Equal(app.PublicID, got.PublicID)
	s.Equal(models.StatusApplied, got.Status)
}

func (s *DBRepositoryTestSuite) TestApplicationCreateValidation() {
	err := s.appRepo.Create(s.ctx, &models.Application{JobID: 1})
	s.Error(err, "missing employee_id should be rejected")

	err = s.appRepo.Create(s.ctx, &models.Application{EmployeeID: 1})
	s.Error(err, "missing job_id should be rejected")
}

func (s *DBRepositoryTestSuite) TestApplicationUpdateStatus() {
	job := s.createTestJob()
	app := s.createTestApplication(job.ID, s.randomUserID(), models.StatusApplied)

	s.Require().NoError(s.appRepo.UpdateStatus(s.ctx, app.ID, models.StatusSelected))

	got, err := s.appRepo.GetByID(s.ctx, app.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusSelected, got.Status)
}

func (s *DBRepositoryTestSuite) TestFindActive() {
	job := s.createTestJob()
	employeeID := s.randomUserID()
	app := s.createTestApplication(job.ID, employeeID, models.StatusApplied)

	got, err := s.appRepo.FindActive(s.ctx, job.ID, employeeID)
	s.Require().NoError(err)
	s.Equal(app.ID, got.ID)
}

func (s *DBRepositoryTestSuite) TestFindActiveIgnoresNegativeOutcomes() {
	job := s.createTestJob()
	employeeID := s.randomUserID()

	s.createTestApplication(job.ID, employeeID, models.StatusRejected)
	s.createTestApplication(job.ID, employeeID, models.StatusNotInterested)

	_, err := s.appRepo.FindActive(s.ctx, job.ID, employeeID)
	s.ErrorIs(err, ErrNoActiveApplication)

	// A completed run still counts as active history
	done := s.createTestApplication(job.ID, employeeID, models.StatusCompleted)
	got, err := s.appRepo.FindActive(s.ctx, job.ID, employeeID)
	s.Require().NoError(err)
	s.Equal(done.ID, got.ID)
}

func (s *DBRepositoryTestSuite) TestFindActiveNone() {
	job := s.createTestJob()
	_, err := s.appRepo.FindActive(s.ctx, job.ID, s.randomUserID())
	s.ErrorIs(err, ErrNoActiveApplication)
}

func (s *DBRepositoryTestSuite) TestApplicationListByEmployee() {
	employeeID := s.randomUserID()
	jobA := s.createTestJob()
	jobB := s.createTestJob()

	s.createTestApplication(jobA.ID, employeeID, models.StatusApplied)
	s.createTestApplication(jobB.ID, employeeID, models.StatusRejected)
	s.createTestApplication(jobA.ID, s.randomUserID(), models.StatusApplied)

	apps, err := s.appRepo.ListByEmployee(s.ctx, employeeID, nil)
	s.Require().NoError(err)
	s.Len(apps, 2)
	for _, a := range apps {
		s.Equal(employeeID, a.EmployeeID)
	}
}

func (s *DBRepositoryTestSuite) TestApplicationListByJob() {
	job := s.createTestJob()
	s.createTestApplication(job.ID, s.randomUserID(), models.StatusApplied)
	s.createTestApplication(job.ID, s.randomUserID(), models.StatusSelected)

	apps, err := s.appRepo.ListByJob(s.ctx, job.ID, nil)
	s.Require().NoError(err)
	s.Len(apps, 2)
}
