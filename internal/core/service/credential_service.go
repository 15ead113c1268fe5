package service

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/stayhub/hotel-api/internal/core/domain"
	"github.com/stayhub/hotel-api/internal/core/ports"
)

// CredentialService verifies passwords and manages accounts and their role
// sets on top of the credential repository. Password hashing stays here; the
// repository only ever sees the opaque hash.
type CredentialService struct {
	repo ports.CredentialRepository
}

func NewCredentialService(repo ports.CredentialRepository) *CredentialService {
	return &CredentialService{repo: repo}
}

// VerifyCredentials checks the password against the stored hash and returns
// the account's identity with its current role set.
func (s *CredentialService) VerifyCredentials(ctx context.Context, username, password string) (domain.Identity, error) {
	account, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return domain.Identity{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return domain.Identity{}, domain.ErrInvalidCredentials
	}

	return domain.Identity{Username: account.Username, Roles: account.Roles}, nil
}

// CreateAccount registers a new account and attaches the default USER role.
// The uniqueness check, the lazy creation of the default role, and the
// insert all happen inside the repository's single transaction, so a lost
// race on the username surfaces as ErrAlreadyExists with nothing committed.
func (s *CredentialService) CreateAccount(ctx context.Context, username, password string) (*domain.Account, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	account := &domain.Account{
		Username:     username,
		PasswordHash: string(hash),
		Roles:        []string{domain.RoleUser},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	return s.repo.CreateAccount(ctx, account)
}

// AddRoleToAccount attaches the role to the account, updating both sides of
// the relation atomically. Account or role missing yields ErrNotFound.
func (s *CredentialService) AddRoleToAccount(ctx context.Context, username, roleName string) (*domain.Account, error) {
	return s.repo.AttachRole(ctx, username, roleName)
}

// RemoveRoleFromAccount detaches the role from the account, updating both
// sides of the relation atomically.
func (s *CredentialService) RemoveRoleFromAccount(ctx context.Context, username, roleName string) (*domain.Account, error) {
	return s.repo.DetachRole(ctx, username, roleName)
}
