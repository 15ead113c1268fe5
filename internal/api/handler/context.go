package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/stayhub/hotel-api/internal/api/middleware"
	"github.com/stayhub/hotel-api/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Authenticate middleware.
// Presence proves the middleware ran; a handler that needs an identity and
// does not find one fails fast with 401.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	identity, ok := c.Get(middleware.IdentityKey).(domain.Identity)
	if !ok {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication identity")
	}
	return identity, nil
}

// bearerToken pulls the raw token out of the Authorization header for
// handlers that inspect tokens on otherwise open routes (verify,
// tokenlifespan).
func bearerToken(c echo.Context) (string, error) {
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "authorization header is missing")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "authorization header is malformed")
	}
	return parts[1], nil
}
