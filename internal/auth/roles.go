package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace/internal/domain"
	apperrors "github.com/spec-kit/marketplace/pkg/util"
)

// RequireRole admits only subjects carrying the given role. Must run after
// the gate's Handle.
func RequireRole(required domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authCtx, ok := FromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("missing credentials")
		}
		if authCtx.Role != required {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequireAuthenticated admits any subject with verified claims.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := FromContext(c); !ok {
			return apperrors.NewUnauthorized("missing credentials")
		}
		return c.Next()
	}
}
