package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Admin gates a route to accounts carrying the admin flag. It must run after
// Auth, which resolves the flag from the persisted account rather than the
// token, so a revoked admin loses access on their next request.
func Admin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			isAdmin, _ := c.Get("is_admin").(bool)
			if !isAdmin {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "admin access required"})
			}
			return next(c)
		}
	}
}
