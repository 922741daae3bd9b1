package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/jorellortega/covionpartners-sub003/pkg/jwtutil"
	"github.com/jorellortega/covionpartners-sub003/pkg/logger"
)

// Roles allowed to run financial administration operations.
const (
	RoleOwner        = "owner"
	RoleFinanceAdmin = "finance_admin"
)

// AuthMiddleware validates the JWT token from the Authorization header.
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromEcho(c)

		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			log.Warn("Missing Authorization header")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Warn("Invalid Authorization header format")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
		}

		claims, err := jwtutil.ValidateToken(parts[1])
		if err != nil {
			log.Warn("Invalid JWT token", zap.Error(err))
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		if claims.OrganizationID != nil {
			c.Set("organization_id", *claims.OrganizationID)
			c.Set("organization_name", claims.OrganizationName)
			c.Set("user_role", claims.Role)
		}

		return next(c)
	}
}

// RequireOrganization ensures the token carries an organization context.
// Every engine operation is scoped to exactly one organization.
func RequireOrganization(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := c.Get("organization_id").(uint); !ok {
			logger.FromEcho(c).Warn("Request without organization context")
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "organization context required"})
		}
		return next(c)
	}
}

// RequireFinanceAdmin restricts an operation to the organization's
// designated financial administrator (or its owner).
func RequireFinanceAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		role, _ := c.Get("user_role").(string)
		if role != RoleOwner && role != RoleFinanceAdmin {
			logger.FromEcho(c).Warn("Non-admin attempted financial operation",
				zap.String("role", role))
			return c.JSON(http.StatusForbidden, echo.Map{"error": "financial administrator role required"})
		}
		return next(c)
	}
}
