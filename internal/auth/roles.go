package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/band-vault/internal/domain"
	apperrors "github.com/spec-kit/band-vault/pkg/util"
)

// RequireRole ensures the API principal holds one of the allowed roles.
// It must run after RequireAPI.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.User == nil {
			return apperrors.NewUnauthorized("Unauthorized")
		}
		if _, exists := allowedSet[principal.User.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
