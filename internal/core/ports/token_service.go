package ports

import (
	"time"

	"github.com/stayhub/hotel-api/internal/core/domain"
)

// TokenService issues and verifies the signed, time-bound bearer credentials
// that carry a subject and a frozen role snapshot. Verification is a pure
// computation over the token bytes and the secret; it touches no store.
type TokenService interface {
	// Issue signs a token for the subject with the given role snapshot.
	Issue(subject string, roles []string, ttl time.Duration) (string, error)
	// Verify checks structure, signature, and expiry, in that order, each
	// failure a distinct error kind (ErrTokenMalformed,
	// ErrTokenSignatureInvalid, ErrTokenExpired).
	Verify(token string) (domain.Identity, error)
	// TimeToLive returns the remaining lifetime of the token. The result is
	// negative once the token has expired; the caller decides whether that
	// is an error.
	TimeToLive(token string) (time.Duration, error)
	// ExpiresAt returns the token's expiry instant.
	ExpiresAt(token string) (time.Time, error)
}
