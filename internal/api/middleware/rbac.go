package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/stayhub/hotel-api/internal/core/domain"
)

// Authorize enforces role-based access: the identity attached by
// Authenticate must hold at least one of the route's roles. A missing
// identity on a protected route is itself a 403 — never a silent allow.
func Authorize(routeRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if isOpenRoute(routeRoles) {
				return next(c)
			}

			identity, ok := c.Get(IdentityKey).(domain.Identity)
			if !ok {
				return echo.NewHTTPError(http.StatusForbidden, "no identity attached to request; authenticate first")
			}

			if !identity.HasAnyRole(routeRoles) {
				return echo.NewHTTPError(http.StatusForbidden, "missing a required role for this endpoint")
			}

			return next(c)
		}
	}
}
