package middleware

import (
	"strings"

	"fila-escolar/internal/config"
	"fila-escolar/internal/core/domain"
	"fila-escolar/internal/pkg/jwt"
	"fila-escolar/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// IdentityKey is the fiber locals key the parsed session identity is stored
// under
const IdentityKey = "identity"

// AuthMiddleware validates the session token (cookie or bearer header) and
// stores the parsed identity in locals for handlers to pass into services
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies("session_token")
		if token == "" {
			authHeader := c.Get("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				token = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}
		if token == "" {
			return response.Unauthorized(c, "Session token required")
		}

		claims, err := jwt.ValidateSessionToken(token, cfg.Session.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Session expired")
			}
			return response.Unauthorized(c, "Invalid session token")
		}

		c.Locals(IdentityKey, domain.Identity{
			StaffID:   claims.StaffID,
			StaffName: claims.StaffName,
			Counter:   claims.Counter,
			Role:      domain.Role(claims.Role),
		})
		return c.Next()
	}
}

// GetIdentity returns the identity stored by AuthMiddleware
func GetIdentity(c *fiber.Ctx) (domain.Identity, bool) {
	identity, ok := c.Locals(IdentityKey).(domain.Identity)
	return identity, ok
}

// StaffOnly allows only authenticated staff sessions
func StaffOnly() fiber.Handler {
	return requireRole(domain.RoleStaff)
}

// AdminOnly allows only admin sessions
func AdminOnly() fiber.Handler {
	return requireRole(domain.RoleAdmin)
}

func requireRole(roles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := GetIdentity(c)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}
		for _, role := range roles {
			if identity.Role == role {
				return c.Next()
			}
		}
		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}
