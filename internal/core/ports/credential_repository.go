package ports

import (
	"context"

	"github.com/stayhub/hotel-api/internal/core/domain"
)

// CredentialRepository owns the persistence of accounts, roles, and the
// many-to-many relation between them. Relation mutations update both sides
// inside a single transaction so a torn relation is never observable.
type CredentialRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	// CreateAccount inserts the account with its initial role set, lazily
	// creating any role that does not yet exist, all in one transaction.
	// Returns ErrAlreadyExists when the username is taken.
	CreateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error)
	// DeleteAccount removes the account and detaches it from every role
	// back-set in the same transaction.
	DeleteAccount(ctx context.Context, username string) error
	CreateRole(ctx context.Context, name string) (*domain.Role, error)
	FindRole(ctx context.Context, name string) (*domain.Role, error)
	// AttachRole / DetachRole mutate both the account's role set and the
	// role's account back-set atomically.
	AttachRole(ctx context.Context, username, roleName string) (*domain.Account, error)
	DetachRole(ctx context.Context, username, roleName string) (*domain.Account, error)
}
