package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/stayhub/hotel-api/internal/core/domain"
)

// IdentityKey is the echo context key the verified identity is stored under.
const IdentityKey = "identity"

// TokenVerifier is the slice of the token service the middleware needs.
type TokenVerifier interface {
	Verify(token string) (domain.Identity, error)
}

// Authenticate validates the bearer token and attaches the verified identity
// to the request context. Routes whose role set is empty or contains the
// ANYONE marker bypass authentication entirely.
func Authenticate(verifier TokenVerifier, routeRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if isOpenRoute(routeRoles) {
				return next(c)
			}

			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "authorization header is missing")
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "authorization header is malformed")
			}

			identity, err := verifier.Verify(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}

			c.Set(IdentityKey, identity)
			return next(c)
		}
	}
}

// isOpenRoute reports whether the declared role set exempts the route from
// the auth pipeline.
func isOpenRoute(routeRoles []string) bool {
	if len(routeRoles) == 0 {
		return true
	}
	for _, r := range routeRoles {
		if strings.EqualFold(r, domain.RoleAnyone) {
			return true
		}
	}
	return false
}
