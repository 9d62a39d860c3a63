// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., email taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidEmail indicates a registration email that fails the shape
	// check (empty or missing '@') before it ever reaches the directory.
	ErrInvalidEmail = errors.New("invalid email")

	// ErrInvalidCredentials indicates a failed login. The same value covers
	// both an unknown email and a wrong password so callers cannot
	// enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken indicates a session token with a bad signature or
	// malformed payload.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired indicates a correctly signed token whose validity
	// window has passed. Distinct from ErrInvalidToken so UIs can prompt
	// re-authentication instead of rejecting outright.
	ErrTokenExpired = errors.New("token expired")

	// ErrHashCorruption indicates a stored password hash that cannot be
	// parsed. Points at data corruption upstream; must not be treated as a
	// wrong password.
	ErrHashCorruption = errors.New("corrupted password hash")
)
