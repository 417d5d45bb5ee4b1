package handlers

import (
	fiber "github.com/gofiber/fiber/v2"

	"github.com/shiftworks/quickjob/internal/api/v1/middleware"
	"github.com/shiftworks/quickjob/internal/db/models"
	"github.com/shiftworks/quickjob/internal/services"
	"github.com/shiftworks/quickjob/internal/types"
)

// JobHandler handles HTTP requests for job postings
type JobHandler struct {
	jobService *services.JobService
	appService *services.ApplicationService
}

// NewJobHandler creates a new instance of JobHandler
func NewJobHandler(jobService *services.JobService, appService *services.ApplicationService) *JobHandler {
	return &JobHandler{
		jobService: jobService,
		appService: appService,
	}
}

// CreateJob handles creating a job posting for the acting employer
func (h *JobHandler) CreateJob(c *fiber.Ctx) error {
	employerID, ok := middleware.ActingUser(c)
	if !ok {
		return writeDomainError(c, types.ErrNotAuthenticated())
	}

	var params JobCreateParams
	if err := c.BodyParser(&params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(ErrMsgInvalidReqBody))
	}
	if err := params.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(err.Error()))
	}

	job, err := h.jobService.Create(c.Context(), employerID, &models.Job{
		Title:       params.Title,
		Description: params.Description,
		District:    params.District,
		State:       params.State,
		SalaryRange: params.SalaryRange,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(types.Success(job))
}

// UpdateJob handles employer edits to a posting
func (h *JobHandler) UpdateJob(c *fiber.Ctx) error {
	employerID, ok := middleware.ActingUser(c)
	if !ok {
		return writeDomainError(c, types.ErrNotAuthenticated())
	}

	jobID, err := c.ParamsInt("id")
	if err != nil || jobID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(ErrMsgInvalidJobID))
	}

	var params JobUpdateParams
	if err := c.BodyParser(&params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(ErrMsgInvalidReqBody))
	}

	job, err := h.jobService.Update(c.Context(), employerID, uint(jobID), &models.Job{
		Title:       params.Title,
		Description: params.Description,
		District:    params.District,
		State:       params.State,
		SalaryRange: params.SalaryRange,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(types.Success(job))
}

// SetJobActive handles toggling whether a posting accepts applications
func (h *JobHandler) SetJobActive(c *fiber.Ctx) error {
	employerID, ok := middleware.ActingUser(c)
	if !ok {
		return writeDomainError(c, types.ErrNotAuthenticated())
	}

	jobID, err := c.ParamsInt("id")
	if err != nil || jobID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(ErrMsgInvalidJobID))
	}

	var params JobActiveParams
	if err := c.BodyParser(&params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(ErrMsgInvalidReqBody))
	}

	job, err := h.jobService.SetActive(c.Context(), employerID, uint(jobID), params.Active)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(types.Success(job))
}

// ApproveJob handles recording an administrator approval decision
func (h *JobHandler) ApproveJob(c *fiber.Ctx) error {
	jobID, err := c.ParamsInt("id")
	if err != nil || jobID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(ErrMsgInvalidJobID))
	}

	var params JobApproveParams
	if err := c.BodyParser(&params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(ErrMsgInvalidReqBody))
	}

	job, err := h.jobService.Approve(c.Context(), uint(jobID), params.Approved)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(types.Success(job))
}

// ListJobs handles listing jobs. With mine=true it lists the acting
// employer's postings; otherwise it lists open jobs filtered by district
// and state.
func (h *JobHandler) ListJobs(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	opts := getPaginationOptions(page)

	var (
		jobs []models.Job
		err  error
	)
	if c.QueryBool("mine", false) {
		employerID, ok := middleware.ActingUser(c)
		if !ok {
			return writeDomainError(c, types.ErrNotAuthenticated())
		}
		jobs, err = h.jobService.ListForEmployer(c.Context(), employerID, opts)
	} else {
		jobs, err = h.jobService.ListOpen(c.Context(), c.Query("district"), c.Query("state"), opts)
	}
	if err != nil {
		return writeDomainError(c, err)
	}

	return c.JSON(types.Success(map[string]interface{}{
		"jobs": jobs,
		"pagination": types.PaginationResponse{
			Total:  len(jobs),
			Page:   page,
			Limit:  opts.Limit,
			Offset: opts.Offset,
		},
	}))
}

// GetJob handles retrieving a single job, served from the reference cache
func (h *JobHandler) GetJob(c *fiber.Ctx) error {
	jobID, err := c.ParamsInt("id")
	if err != nil || jobID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(ErrMsgInvalidJobID))
	}

	job, err := h.appService.GetJob(c.Context(), uint(jobID))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(types.Success(job))
}
