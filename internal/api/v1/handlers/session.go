package handlers

import (
	fiber "github.com/gofiber/fiber/v2"

	"github.com/shiftworks/quickjob/internal/api/v1/middleware"
	"github.com/shiftworks/quickjob/internal/services"
	"github.com/shiftworks/quickjob/internal/types"
)

// SessionHandler handles HTTP requests for the OTP-gated work session flow
type SessionHandler struct {
	sessions *services.WorkSessionService
}

// NewSessionHandler creates a new instance of SessionHandler
func NewSessionHandler(sessions *services.WorkSessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

func applicationID(c *fiber.Ctx) (uint, bool) {
	appID, err := c.ParamsInt("id")
	if err != nil || appID <= 0 {
		return 0, false
	}
	return uint(appID), true
}

// Accept handles an employer accepting an application. The issued start code
// is returned for out-of-band delivery to the employee.
func (h *SessionHandler) Accept(c *fiber.Ctx) error {
	employerID, ok := middleware.ActingUser(c)
	if !ok {
		return writeDomainError(c, types.ErrNotAuthenticated())
	}
	appID, ok := applicationID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(ErrMsgInvalidAppID))
	}

	result, err := h.sessions.Accept(c.Context(), appID, employerID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(types.Success(result))
}

// StartWork handles an employee redeeming the start code
func (h *SessionHandler) StartWork(c *fiber.Ctx) error {
	employeeID, ok := middleware.ActingUser(c)
	if !ok {
		return writeDomainError(c, types.ErrNotAuthenticated())
	}
	appID, ok := applicationID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(ErrMsgInvalidAppID))
	}

	var params OtpParams
	if err := c.BodyParser(&params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(ErrMsgInvalidReqBody))
	}
	if err := params.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(err.Error()))
	}

	result, err := h.sessions.StartWork(c.Context(), appID, employeeID, params.Otp)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(types.Success(result))
}

// InitiateCompletion handles an employee ending the working period. The
// issued completion code is returned for out-of-band delivery to the
// employer.
func (h *SessionHandler) InitiateCompletion(c *fiber.Ctx) error {
	employeeID, ok := middleware.ActingUser(c)
	if !ok {
		return writeDomainError(c, types.ErrNotAuthenticated())
	}
	appID, ok := applicationID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(ErrMsgInvalidAppID))
	}

	result, err := h.sessions.InitiateCompletion(c.Context(), appID, employeeID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(types.Success(result))
}

// VerifyCompletion handles an employer redeeming the completion code and
// settling wages
func (h *SessionHandler) VerifyCompletion(c *fiber.Ctx) error {
	employerID, ok := middleware.ActingUser(c)
	if !ok {
		return writeDomainError(c, types.ErrNotAuthenticated())
	}
	appID, ok := applicationID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(ErrMsgInvalidAppID))
	}

	var params OtpParams
	if err := c.BodyParser(&params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(ErrMsgInvalidReqBody))
	}
	if err := params.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(err.Error()))
	}

	summary, err := h.sessions.VerifyCompletion(c.Context(), appID, employerID, params.Otp)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(types.Success(summary))
}

// RequestNewOtp handles re-issuing a lapsed start code
func (h *SessionHandler) RequestNewOtp(c *fiber.Ctx) error {
	employeeID, ok := middleware.ActingUser(c)
	if !ok {
		return writeDomainError(c, types.ErrNotAuthenticated())
	}
	appID, ok := applicationID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(ErrMsgInvalidAppID))
	}

	result, err := h.sessions.RequestNewOTP(c.Context(), appID, employeeID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(types.Success(result))
}
