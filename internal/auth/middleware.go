package auth

import (
	"fmt"
	"strings"

	"mirotec-backend/internal/config"
	"mirotec-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

const (
	CtxUserIDKey    = "user_id"
	CtxUserNameKey  = "user_name"
	CtxUserRoleKey  = "user_role"
	CtxCompanyIDKey = "company_id"
	CtxRequestIDKey = "requestid"
)

func JWTMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing Authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization must be 'Bearer <token>'")
		}

		claims, err := ParseToken(cfg.JWTSecret, parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, ErrInvalidToken.Error())
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxUserNameKey, claims.Name)
		c.Locals(CtxUserRoleKey, claims.Role)
		c.Locals(CtxCompanyIDKey, claims.CompanyID)

		return c.Next()
	}
}

func RequireRole(allowedRoles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(CtxUserRoleKey).(models.UserRole)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "role missing")
		}

		for _, r := range allowedRoles {
			if r == role {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "you are not allowed to do this")
	}
}

// RequirePermission gates a route on the static role permission table.
func RequirePermission(p Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(CtxUserRoleKey).(models.UserRole)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "role missing")
		}
		if !Can(role, p) {
			return fiber.NewError(fiber.StatusForbidden, fmt.Sprintf("permission %s required", p))
		}
		return c.Next()
	}
}

// Session is what handlers need to know about the caller.
type Session struct {
	UserID    uint
	UserName  string
	Role      models.UserRole
	CompanyID uint
	RequestID string
}

func SessionFrom(c *fiber.Ctx) (Session, error) {
	userID, ok := c.Locals(CtxUserIDKey).(uint)
	if !ok {
		return Session{}, fiber.NewError(fiber.StatusUnauthorized, "user missing")
	}
	companyID, ok := c.Locals(CtxCompanyIDKey).(uint)
	if !ok || companyID == 0 {
		return Session{}, fiber.NewError(fiber.StatusUnauthorized, "company missing")
	}
	s := Session{UserID: userID, CompanyID: companyID}
	s.UserName, _ = c.Locals(CtxUserNameKey).(string)
	s.Role, _ = c.Locals(CtxUserRoleKey).(models.UserRole)
	s.RequestID, _ = c.Locals(CtxRequestIDKey).(string)
	return s, nil
}
