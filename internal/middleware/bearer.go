package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// UserTokenKey is the Locals key holding a bearer token taken from the
// Authorization header.
const UserTokenKey = "user_token"

// BearerToken copies a bearer token from the Authorization header into
// Locals. Verification happens in the payment service, so a missing or
// malformed header is not rejected here.
func BearerToken() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			if token := strings.TrimSpace(authz[len("Bearer "):]); token != "" {
				c.Locals(UserTokenKey, token)
			}
		}
		return c.Next()
	}
}
