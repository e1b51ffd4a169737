package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/workhive/workhive/internal/logger"
)

// AdminGuard restricts a route group to admin accounts. Denials are
// logged; ledger creation is the kind of endpoint where probing matters.
func AdminGuard(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		role, ok := c.Get("role").(string)
		if !ok || role != "admin" {
			uid, _ := c.Get("user_id").(string)
			logger.Log.Warn("admin route denied",
				zap.String("path", c.Path()),
				zap.String("user_id", uid),
				zap.String("role", role))
			return c.JSON(http.StatusForbidden, echo.Map{"error": "admin access only"})
		}
		return next(c)
	}
}
