package middleware

import (
	"strconv"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/shiftworks/quickjob/internal/types"
)

// UserIDKey is the fiber locals key holding the authenticated user ID.
const UserIDKey = "userID"

// UserIDHeader carries the acting user's identifier. The identity provider
// sits in front of this service; by the time a request reaches it, the
// gateway has already verified the session token and stamped this header.
const UserIDHeader = "X-User-ID"

// Identity resolves the acting user from the request and rejects requests
// that carry none.
func Identity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Get(UserIDHeader)
		if raw == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(
				types.FromDomainError(types.ErrNotAuthenticated()))
		}
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(
				types.FromDomainError(types.ErrNotAuthenticated()))
		}
		c.Locals(UserIDKey, uint(id))
		return c.Next()
	}
}

// ActingUser returns the authenticated user ID stored by Identity.
func ActingUser(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals(UserIDKey).(uint)
	return id, ok
}
