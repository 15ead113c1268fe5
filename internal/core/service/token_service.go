package service

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/stayhub/hotel-api/internal/core/domain"
)

// tokenClaims is the wire layout of an issued token: registered subject,
// issuer, iat and exp, plus the role snapshot as a comma-joined sorted
// string. Sorting keeps the encoding deterministic for identical inputs.
type tokenClaims struct {
	Roles string `json:"roles"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256-signed bearer tokens. The signing
// secret and issuer are fixed at construction; the TTL is per-issue with a
// default applied when the caller passes a non-positive duration.
type TokenService struct {
	issuer     string
	secret     []byte
	defaultTTL time.Duration
}

func NewTokenService(issuer, secret string, defaultTTL time.Duration) *TokenService {
	if defaultTTL <= 0 {
		defaultTTL = 30 * time.Minute
	}
	return &TokenService{issuer: issuer, secret: []byte(secret), defaultTTL: defaultTTL}
}

// Issue signs a token binding the subject to a frozen snapshot of its role
// names. The snapshot round-trips through Verify unchanged (modulo order).
func (s *TokenService) Issue(subject string, roles []string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	snapshot := append([]string(nil), roles...)
	sort.Strings(snapshot)

	now := time.Now()
	claims := tokenClaims{
		Roles: strings.Join(snapshot, ","),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Verify validates structure, signature, and expiry, in that order, and
// returns the identity encoded in the token. Each failure mode maps to its
// own domain error so callers never have to guess why a token was rejected.
func (s *TokenService) Verify(token string) (domain.Identity, error) {
	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithExpirationRequired())
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return domain.Identity{}, domain.ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return domain.Identity{}, domain.ErrTokenSignatureInvalid
		case errors.Is(err, jwt.ErrTokenExpired):
			return domain.Identity{}, domain.ErrTokenExpired
		default:
			return domain.Identity{}, domain.ErrUnauthorized
		}
	}

	identity := domain.Identity{Username: claims.Subject}
	if claims.Roles != "" {
		identity.Roles = strings.Split(claims.Roles, ",")
	}
	return identity, nil
}

// TimeToLive reports how long the token remains valid. Negative once the
// expiry has passed. The expiry claim is read without verifying the
// signature; callers that need a trust decision go through Verify.
func (s *TokenService) TimeToLive(token string) (time.Duration, error) {
	exp, err := s.ExpiresAt(token)
	if err != nil {
		return 0, err
	}
	return time.Until(exp), nil
}

// ExpiresAt returns the expiry instant encoded in the token.
func (s *TokenService) ExpiresAt(token string) (time.Time, error) {
	claims := &tokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, domain.ErrTokenMalformed
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, domain.ErrTokenMalformed
	}
	return claims.ExpiresAt.Time, nil
}
