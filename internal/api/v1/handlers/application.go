package handlers

import (
	fiber "github.com/gofiber/fiber/v2"

	"github.com/shiftworks/quickjob/internal/api/v1/middleware"
	"github.com/shiftworks/quickjob/internal/services"
	"github.com/shiftworks/quickjob/internal/types"
)

// ApplicationHandler handles HTTP requests for job applications
type ApplicationHandler struct {
	appService *services.ApplicationService
}

// NewApplicationHandler creates a new instance of ApplicationHandler
func NewApplicationHandler(appService *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{appService: appService}
}

// Apply handles filing a new application for a job
func (h *ApplicationHandler) Apply(c *fiber.Ctx) error {
	employeeID, ok := middleware.ActingUser(c)
	if !ok {
		return writeDomainError(c, types.ErrNotAuthenticated())
	}

	var params ApplyParams
	if err := c.BodyParser(&params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(ErrMsgInvalidReqBody))
	}
	if err := params.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(err.Error()))
	}

	app, err := h.appService.Apply(c.Context(), params.JobID, employeeID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(types.Success(app))
}

// GetApplication handles retrieving a single application
func (h *ApplicationHandler) GetApplication(c *fiber.Ctx) error {
	userID, ok := middleware.ActingUser(c)
	if !ok {
		return writeDomainError(c, types.ErrNotAuthenticated())
	}

	appID, err := c.ParamsInt("id")
	if err != nil || appID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(ErrMsgInvalidAppID))
	}

	app, err := h.appService.Get(c.Context(), uint(appID), userID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(types.Success(app))
}

// ListApplications handles listing applications. With job_id it lists a
// job's applications to its owning employer; otherwise it lists the acting
// employee's own applications.
func (h *ApplicationHandler) ListApplications(c *fiber.Ctx) error {
	userID, ok := middleware.ActingUser(c)
	if !ok {
		return writeDomainError(c, types.ErrNotAuthenticated())
	}

	page := c.QueryInt("page", 1)
	opts := getPaginationOptions(page)

	jobID := c.QueryInt("job_id", 0)
	var apps interface{}
	var err error
	if jobID > 0 {
		apps, err = h.appService.ListForJob(c.Context(), uint(jobID), userID, opts)
	} else {
		apps, err = h.appService.ListForEmployee(c.Context(), userID, opts)
	}
	if err != nil {
		return writeDomainError(c, err)
	}

	return c.JSON(types.Success(map[string]interface{}{
		"applications": apps,
		"pagination": types.PaginationResponse{
			Page:   page,
			Limit:  opts.Limit,
			Offset: opts.Offset,
		},
	}))
}

// NotInterested handles an employee withdrawing an application
func (h *ApplicationHandler) NotInterested(c *fiber.Ctx) error {
	employeeID, ok := middleware.ActingUser(c)
	if !ok {
		return writeDomainError(c, types.ErrNotAuthenticated())
	}

	appID, err := c.ParamsInt("id")
	if err != nil || appID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(ErrMsgInvalidAppID))
	}

	if err := h.appService.Sessions().MarkNotInterested(c.Context(), uint(appID), employeeID); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(types.Success(nil))
}

// Reject handles an employer rejecting an application
func (h *ApplicationHandler) Reject(c *fiber.Ctx) error {
	employerID, ok := middleware.ActingUser(c)
	if !ok {
		return writeDomainError(c, types.ErrNotAuthenticated())
	}

	appID, err := c.ParamsInt("id")
	if err != nil || appID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(ErrMsgInvalidAppID))
	}

	if err := h.appService.Sessions().Reject(c.Context(), uint(appID), employerID); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(types.Success(nil))
}

// Reconsider handles re-opening a rejected or withdrawn application
func (h *ApplicationHandler) Reconsider(c *fiber.Ctx) error {
	employeeID, ok := middleware.ActingUser(c)
	if !ok {
		return writeDomainError(c, types.ErrNotAuthenticated())
	}

	appID, err := c.ParamsInt("id")
	if err != nil || appID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(ErrMsgInvalidAppID))
	}

	app, err := h.appService.Reconsider(c.Context(), uint(appID), employeeID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(types.Success(app))
}
