package repos

import (
	"github.com/shiftworks/quickjob/internal/db/models"
)

func (s *DBRepositoryTestSuite) TestJobCreateAndGet() {
	job := s.createTestJob()
	s.NotZero(job.ID)

	got, err := s.jobRepo.GetByID(s.ctx, job.ID)
	s.Require().NoError(err)
	s.Equal(job.Title, got.Title)
	s.Equal(models.JobApproved, got.ApprovalStatus)
	s.True(got.IsActive)
}

func (s *DBRepositoryTestSuite) TestJobCreateRequiresEmployer() {
	err := s.jobRepo.Create(s.ctx, &models.Job{Title: "orphan"})
	s.Error(err)
}

func (s *DBRepositoryTestSuite) TestJobGetByIDNotFound() {
	_, err := s.jobRepo.GetByID(s.ctx, 424242)
	s.Error(err)
}

func (s *DBRepositoryTestSuite) TestJobUpdate() {
	job := s.createTestJob()

	job.Title = "warehouse shift (night)"
	job.IsActive = false
	s.Require().NoError(s.jobRepo.Update(s.ctx, job))

	got, err := s.jobRepo.GetByID(s.ctx, job.ID)
	s.Require().NoError(err)
	s.Equal("warehouse shift (night)", got.Title)
	s.False(got.IsActive)
}

func (s *DBRepositoryTestSuite) TestJobListByEmployer() {
	employerID := s.randomUserID()
	s.createTestJobForEmployer(employerID)
	s.createTestJobForEmployer(employerID)
	s.createTestJob() // someone else's

	jobs, err := s.jobRepo.ListByEmployer(s.ctx, employerID, nil)
	s.Require().NoError(err)
	s.Len(jobs, 2)
	for _, j := range jobs {
		s.Equal(employerID, j.EmployerID)
	}
}

func (s *DBRepositoryTestSuite) TestJobListOpenFiltersVisibility() {
	open := s.createTestJob()

	pending := s.createTestJob()
	pending.ApprovalStatus = models.JobPendingApproval
	s.Require().NoError(s.jobRepo.Update(s.ctx, pending))

	paused := s.createTestJob()
	paused.IsActive = false
	s.Require().NoError(s.jobRepo.Update(s.ctx, paused))

	jobs, err := s.jobRepo.ListOpen(s.ctx, "", "", nil)
	s.Require().NoError(err)
	s.Require().Len(jobs, 1)
	s.Equal(open.ID, jobs[0].ID)
}

func (s *DBRepositoryTestSuite) TestJobListOpenLocationFilter() {
	north := s.createTestJob()

	south := s.createTestJob()
	south.District = "south"
	s.Require().NoError(s.jobRepo.Update(s.ctx, south))

	jobs, err := s.jobRepo.ListOpen(s.ctx, "north", "", nil)
	s.Require().NoError(err)
	s.Require().Len(jobs, 1)
	s.Equal(north.ID, jobs[0].ID)

	jobs, err = s.jobRepo.ListOpen(s.ctx, "", "KA", nil)
	s.Require().NoError(err)
	s.Len(jobs, 2)
}

func (s *DBRepositoryTestSuite) TestJobListLimitAndOffset() {
	employerID := s.randomUserID()
	for i := 0; i < 3; i++ {
		s.createTestJobForEmployer(employerID)
	}

	jobs, err := s.jobRepo.ListByEmployer(s.ctx, employerID, &models.ListOptions{Limit: 2})
	s.Require().NoError(err)
	s.Len(jobs, 2)

	jobs, err = s.jobRepo.ListByEmployer(s.ctx, employerID, &models.ListOptions{Limit: 2, Offset: 2})
	s.Require().NoError(err)
	s.Len(jobs, 1)
}
