package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stayhub/hotel-api/internal/core/domain"
	"github.com/stayhub/hotel-api/internal/core/service"
)

// stubCredentialStore keeps accounts in memory with plaintext passwords;
// hashing is the real credential service's concern, not the handler's.
type stubCredentialStore struct {
	passwords map[string]string
	roles     map[string][]string
}

func newStubCredentialStore() *stubCredentialStore {
	return &stubCredentialStore{
		passwords: make(map[string]string),
		roles:     make(map[string][]string),
	}
}

func (s *stubCredentialStore) VerifyCredentials(_ context.Context, username, password string) (domain.Identity, error) {
	stored, ok := s.passwords[username]
	if !ok {
		return domain.Identity{}, domain.ErrNotFound
	}
	if stored != password {
		return domain.Identity{}, domain.ErrInvalidCredentials
	}
	return domain.Identity{Username: username, Roles: s.roles[username]}, nil
}

func (s *stubCredentialStore) CreateAccount(_ context.Context, username, password string) (*domain.Account, error) {
	if _, exists := s.passwords[username]; exists {
		return nil, domain.ErrAlreadyExists
	}
	s.passwords[username] = password
	s.roles[username] = []string{domain.RoleUser}
	return &domain.Account{Username: username, Roles: s.roles[username]}, nil
}

func (s *stubCredentialStore) AddRoleToAccount(_ context.Context, username, roleName string) (*domain.Account, error) {
	if _, ok := s.passwords[username]; !ok {
		return nil, domain.ErrNotFound
	}
	s.roles[username] = append(s.roles[username], roleName)
	return &domain.Account{Username: username, Roles: s.roles[username]}, nil
}

func (s *stubCredentialStore) RemoveRoleFromAccount(_ context.Context, username, roleName string) (*domain.Account, error) {
	if _, ok := s.passwords[username]; !ok {
		return nil, domain.ErrNotFound
	}
	kept := s.roles[username][:0]
	for _, r := range s.roles[username] {
		if r != roleName {
			kept = append(kept, r)
		}
	}
	s.roles[username] = kept
	return &domain.Account{Username: username, Roles: kept}, nil
}

func newAuthTestEnv(t *testing.T) (*echo.Echo, *AuthHandler, *stubCredentialStore, *service.TokenService) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	store := newStubCredentialStore()
	tokens := service.NewTokenService("hotel-api-test", "secret", time.Hour)
	return e, NewAuthHandler(store, tokens, nil), store, tokens
}

func doJSON(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Register(t *testing.T) {
	e, h, _, tokens := newAuthTestEnv(t)

	c, rec := doJSON(e, http.MethodPost, "/auth/register", `{"username":"alice","password":"pw1"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp struct {
		Token    string `json:"token"`
		Username string `json:"username"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Username != "alice" {
		t.Fatalf("unexpected username: %s", resp.Username)
	}

	identity, err := tokens.Verify(resp.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if !identity.HasAnyRole([]string{domain.RoleUser}) {
		t.Fatalf("token missing default role: %v", identity.Roles)
	}
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	e, h, _, _ := newAuthTestEnv(t)

	c, _ := doJSON(e, http.MethodPost, "/auth/register", `{"username":"alice","password":"pw1"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("first Register returned error: %v", err)
	}

	c, _ = doJSON(e, http.MethodPost, "/auth/register", `{"username":"alice","password":"pw2"}`)
	if err := h.Register(c); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestAuthHandler_Register_MissingFields(t *testing.T) {
	e, h, _, _ := newAuthTestEnv(t)

	c, _ := doJSON(e, http.MethodPost, "/auth/register", `{"username":"alice"}`)
	err := h.Register(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Login(t *testing.T) {
	e, h, store, _ := newAuthTestEnv(t)
	store.passwords["alice"] = "pw1"
	store.roles["alice"] = []string{domain.RoleUser}

	c, rec := doJSON(e, http.MethodPost, "/auth/login", `{"username":"alice","password":"pw1"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"username":"alice"`) {
		t.Fatalf("response missing username: %s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"token":"`) {
		t.Fatalf("response missing token: %s", rec.Body.String())
	}
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	e, h, store, _ := newAuthTestEnv(t)
	store.passwords["alice"] = "pw1"

	c, _ := doJSON(e, http.MethodPost, "/auth/login", `{"username":"alice","password":"wrong"}`)
	err := h.Login(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuthHandler_Login_UnknownAccount(t *testing.T) {
	e, h, _, _ := newAuthTestEnv(t)

	c, _ := doJSON(e, http.MethodPost, "/auth/login", `{"username":"ghost","password":"pw"}`)
	err := h.Login(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuthHandler_Verify(t *testing.T) {
	e, h, _, tokens := newAuthTestEnv(t)
	token, err := tokens.Issue("alice", []string{domain.RoleUser}, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	c, rec := doJSON(e, http.MethodGet, "/auth/verify", "")
	c.Request().Header.Set("Authorization", "Bearer "+token)
	if err := h.Verify(c); err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Token is valid") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAuthHandler_Verify_MissingHeader(t *testing.T) {
	e, h, _, _ := newAuthTestEnv(t)

	c, _ := doJSON(e, http.MethodGet, "/auth/verify", "")
	err := h.Verify(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuthHandler_Verify_BadToken(t *testing.T) {
	e, h, _, _ := newAuthTestEnv(t)

	c, _ := doJSON(e, http.MethodGet, "/auth/verify", "")
	c.Request().Header.Set("Authorization", "Bearer garbage")
	err := h.Verify(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuthHandler_TokenLifespan(t *testing.T) {
	e, h, _, tokens := newAuthTestEnv(t)
	token, err := tokens.Issue("alice", []string{domain.RoleUser}, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	c, rec := doJSON(e, http.MethodGet, "/auth/tokenlifespan", "")
	c.Request().Header.Set("Authorization", "Bearer "+token)
	if err := h.TokenLifespan(c); err != nil {
		t.Fatalf("TokenLifespan returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Msg           string `json:"msg"`
		ExpireTime    string `json:"expireTime"`
		SecondsToLive int64  `json:"secondsToLive"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.SecondsToLive <= 0 || resp.SecondsToLive > 3600 {
		t.Fatalf("unexpected secondsToLive: %d", resp.SecondsToLive)
	}
	if _, err := time.Parse(time.RFC3339, resp.ExpireTime); err != nil {
		t.Fatalf("expireTime not RFC3339: %q", resp.ExpireTime)
	}
}
