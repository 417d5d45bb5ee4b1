// Package handlers provides HTTP request handling
package handlers

import (
	fiber "github.com/gofiber/fiber/v2"

	"github.com/shiftworks/quickjob/internal/types"
)

// Common error messages
const (
	ErrMsgInvalidReqBody   = "Invalid request body"
	ErrMsgInvalidJobID     = "Invalid job id"
	ErrMsgInvalidAppID     = "Invalid application id"
	ErrMsgOtpRequired      = "Otp is required"
	ErrMsgTitleRequired    = "Title is required"
	ErrMsgNotAuthenticated = "No authenticated user"
)

// writeDomainError maps a domain error kind onto an HTTP status and slug
// response. Invalid and expired codes map to distinct slugs so clients can
// prompt "wrong code" vs "code expired, request a new one".
func writeDomainError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch types.KindOf(err) {
	case types.KindNotAuthenticated:
		status = fiber.StatusUnauthorized
	case types.KindNotFound:
		status = fiber.StatusNotFound
	case types.KindAuthorizationDenied:
		status = fiber.StatusForbidden
	case types.KindInvalidStatusTransition, types.KindInvalidOtp, types.KindExpiredOtp:
		status = fiber.StatusUnprocessableEntity
	case types.KindConflict, types.KindOperationInProgress:
		status = fiber.StatusConflict
	}
	return c.Status(status).JSON(types.FromDomainError(err))
}
