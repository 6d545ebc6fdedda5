package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/lead-capture-service/pkg/util/errorutil"
)

// RequireSignedIn rejects anonymous callers.
func RequireSignedIn() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !SessionFromContext(c).SignedIn() {
			return apperrors.NewUnauthorized("sign in required")
		}
		return c.Next()
	}
}

// RequireAdmin is the authoritative gate on admin routes.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := SessionFromContext(c)
		if !sess.SignedIn() {
			return apperrors.NewUnauthorized("sign in required")
		}
		if !sess.IsAdmin() {
			return apperrors.NewForbidden("admin role required")
		}
		return c.Next()
	}
}
