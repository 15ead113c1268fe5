package domain

import (
	"strings"
	"time"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"

	// RoleAnyone marks a route as open: no authentication or role check runs.
	RoleAnyone = "ANYONE"
)

// Account is a registered identity. Username is the natural key and is
// immutable after creation; Roles holds the names of every role attached to
// the account. An account always carries at least one role once created.
type Account struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasRole reports whether the account holds the named role.
func (a *Account) HasRole(name string) bool {
	for _, r := range a.Roles {
		if r == name {
			return true
		}
	}
	return false
}

// AttachRole adds the role name to the account's role set. No-op when the
// role is already present.
func (a *Account) AttachRole(name string) {
	if !a.HasRole(name) {
		a.Roles = append(a.Roles, name)
	}
}

// DetachRole removes the role name from the account's role set.
func (a *Account) DetachRole(name string) {
	for i, r := range a.Roles {
		if r == name {
			a.Roles = append(a.Roles[:i], a.Roles[i+1:]...)
			return
		}
	}
}

// Role is a named permission grouping. Accounts is the back-set of the
// account↔role relation and must always mirror Account.Roles; both sides are
// only ever mutated together inside one transaction.
type Role struct {
	Name     string   `json:"name"`
	Accounts []string `json:"accounts"`
}

// Identity is the verified subject attached to a request after
// authentication: the username plus the role snapshot frozen into the token
// at issuance.
type Identity struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

// HasAnyRole reports whether the identity holds at least one of the given
// role names, compared case-insensitively like the rest of the role checks.
func (id Identity) HasAnyRole(names []string) bool {
	for _, want := range names {
		for _, have := range id.Roles {
			if strings.EqualFold(have, want) {
				return true
			}
		}
	}
	return false
}
