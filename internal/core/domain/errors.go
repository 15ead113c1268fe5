package domain

import "errors"

var ErrNotFound = errors.New("entity not found")
var ErrAlreadyExists = errors.New("entity already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrStorage = errors.New("storage failure")
var ErrForbidden = errors.New("access forbidden")
var ErrUnauthorized = errors.New("unauthorized")

// Token verification failures are distinct kinds so callers can tell a
// garbage token apart from a forged or stale one. All of them unwrap to
// ErrUnauthorized, which is what the HTTP boundary keys on.
var (
	ErrTokenMalformed        = wrap("token is malformed")
	ErrTokenSignatureInvalid = wrap("token signature is invalid")
	ErrTokenExpired          = wrap("token is expired")
)

type tokenError struct {
	msg string
}

func (e *tokenError) Error() string { return e.msg }

func (e *tokenError) Unwrap() error { return ErrUnauthorized }

func wrap(msg string) error { return &tokenError{msg: msg} }
