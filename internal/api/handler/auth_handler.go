package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stayhub/hotel-api/internal/api/metrics"
	"github.com/stayhub/hotel-api/internal/core/domain"
	"github.com/stayhub/hotel-api/internal/core/ports"
	"github.com/stayhub/hotel-api/internal/infrastructure/db/redis"
)

// AuthHandler serves the /auth endpoints: login, register, token
// verification, and token lifespan inspection.
type AuthHandler struct {
	credentials ports.CredentialStore
	tokens      ports.TokenService
	lastLogin   *redis.LastLoginTracker
}

func NewAuthHandler(credentials ports.CredentialStore, tokens ports.TokenService, lastLogin *redis.LastLoginTracker) *AuthHandler {
	return &AuthHandler{credentials: credentials, tokens: tokens, lastLogin: lastLogin}
}

type credentialsRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// Login verifies credentials and returns a fresh bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Login credentials"
// @Success      200   {object}  tokenResponse
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	identity, err := h.credentials.VerifyCredentials(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "could not verify user")
		}
		return err
	}

	token, err := h.tokens.Issue(identity.Username, identity.Roles, 0)
	if err != nil {
		return err
	}

	if h.lastLogin != nil {
		// Best effort; a failed write must not fail the login.
		_ = h.lastLogin.Record(c.Request().Context(), identity.Username, time.Now())
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, tokenResponse{Token: token, Username: identity.Username})
}

// Register creates a new account with the default role and returns a token
// for it.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Account details"
// @Success      201   {object}  tokenResponse
// @Failure      422   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account, err := h.credentials.CreateAccount(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("failure").Inc()
		return err
	}

	token, err := h.tokens.Issue(account.Username, account.Roles, 0)
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusCreated, tokenResponse{Token: token, Username: account.Username})
}

// Verify checks the presented bearer token and reports whether it is valid.
//
// @Summary      Verify a bearer token
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /auth/verify [get]
func (h *AuthHandler) Verify(c echo.Context) error {
	token, err := bearerToken(c)
	if err != nil {
		return err
	}

	if _, err := h.tokens.Verify(token); err != nil {
		metrics.TokenVerificationsTotal.WithLabelValues("failure").Inc()
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}

	metrics.TokenVerificationsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, echo.Map{"msg": "Token is valid"})
}

// TokenLifespan reports when the presented token expires and how many
// seconds it has left.
//
// @Summary      Inspect token lifespan
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Router       /auth/tokenlifespan [get]
func (h *AuthHandler) TokenLifespan(c echo.Context) error {
	token, err := bearerToken(c)
	if err != nil {
		return err
	}

	if _, err := h.tokens.Verify(token); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}

	expiresAt, err := h.tokens.ExpiresAt(token)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	ttl, err := h.tokens.TimeToLive(token)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"msg":           fmt.Sprintf("Token is valid until %s", expiresAt.Format(time.RFC3339)),
		"expireTime":    expiresAt.Format(time.RFC3339),
		"secondsToLive": int64(ttl.Seconds()),
	})
}

// Demo returns a fixed greeting; protected variants include the caller's
// username when an identity is attached.
func Demo(msg string) echo.HandlerFunc {
	return func(c echo.Context) error {
		if identity, err := ctxIdentity(c); err == nil {
			return c.JSON(http.StatusOK, echo.Map{"msg": msg, "username": identity.Username})
		}
		return c.JSON(http.StatusOK, echo.Map{"msg": msg})
	}
}
