package repos

import (
	"time"

	"github.com/shiftworks/quickjob/internal/db/models"
)

func (s *DBRepositoryTestSuite) TestWorkSessionCreateAndGet() {
	job := s.createTestJob()
	app := s.createTestApplication(job.ID, s.randomUserID(), models.StatusSelected)

	ws := s.createTestSession(app, models.SessionOtpGenerated)
	s.NotZero(ws.ID)

	got, err := s.sessionRepo.CurrentForApplication(s.ctx, app.ID)
	s.Require().NoError(err)
	s.Equal(ws.ID, got.ID)
	s.Equal(models.SessionOtpGenerated, got.Status)
}

func (s *DBRepositoryTestSuite) TestWorkSessionCreateValidation() {
	err := s.sessionRepo.Create(s.ctx, &models.WorkSession{JobID: 1, EmployeeID: 1})
	s.Error(err, "missing application_id should be rejected")
}

func (s *DBRepositoryTestSuite) TestCurrentForApplicationNone() {
	_, err := s.sessionRepo.CurrentForApplication(s.ctx, 424242)
	s.Error(err)
}

func (s *DBRepositoryTestSuite) TestCurrentForApplicationPicksNewest() {
	job := s.createTestJob()
	app := s.createTestApplication(job.ID, s.randomUserID(), models.StatusSelected)

	s.createTestSession(app, models.SessionExpired)
	newest := s.createTestSession(app, models.SessionOtpGenerated)

	got, err := s.sessionRepo.CurrentForApplication(s.ctx, app.ID)
	s.Require().NoError(err)
	s.Equal(newest.ID, got.ID)
	s.Equal(models.SessionOtpGenerated, got.Status)
}

func (s *DBRepositoryTestSuite) TestWorkSessionUpdate() {
	job := s.createTestJob()
	app := s.createTestApplication(job.ID, s.randomUserID(), models.StatusSelected)
	ws := s.createTestSession(app, models.SessionOtpGenerated)

	start := time.Now().UTC().Truncate(time.Second)
	ws.Status = models.SessionWorkStarted
	ws.WorkStartTime = &start
	s.Require().NoError(s.sessionRepo.Update(s.ctx, ws))

	got, err := s.sessionRepo.CurrentForApplication(s.ctx, app.ID)
	s.Require().NoError(err)
	s.Equal(models.SessionWorkStarted, got.Status)
	s.Require().NotNil(got.WorkStartTime)
	s.True(got.WorkStartTime.Equal(start))
}

func (s *DBRepositoryTestSuite) TestWorkSessionListByApplication() {
	job := s.createTestJob()
	app := s.createTestApplication(job.ID, s.randomUserID(), models.StatusSelected)

	s.createTestSession(app, models.SessionExpired)
	s.createTestSession(app, models.SessionExpired)
	newest := s.createTestSession(app, models.SessionOtpGenerated)

	sessions, err := s.sessionRepo.ListByApplication(s.ctx, app.ID)
	s.Require().NoError(err)
	s.Require().Len(sessions, 3)
	s.Equal(newest.ID, sessions[0].ID, "newest first")
}
