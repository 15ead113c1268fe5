package ports

import (
	"context"

	"github.com/stayhub/hotel-api/internal/core/domain"
)

// CredentialStore verifies passwords and manages accounts and their roles.
type CredentialStore interface {
	// VerifyCredentials returns the identity for the username when the
	// password matches its stored hash. ErrNotFound when the account does
	// not exist, ErrInvalidCredentials on a mismatch.
	VerifyCredentials(ctx context.Context, username, password string) (domain.Identity, error)
	// CreateAccount registers a new account with the default role attached.
	// ErrAlreadyExists when the username is taken.
	CreateAccount(ctx context.Context, username, password string) (*domain.Account, error)
	AddRoleToAccount(ctx context.Context, username, roleName string) (*domain.Account, error)
	RemoveRoleFromAccount(ctx context.Context, username, roleName string) (*domain.Account, error)
}
