// Package service contains application services for authentication, content,
// and progress tracking.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/skillforge/skillforge/internal/errs"
	"github.com/skillforge/skillforge/internal/model"
	"github.com/skillforge/skillforge/internal/password"
	"github.com/skillforge/skillforge/internal/repository"
)

// Session lifetime is fixed; there is no refresh-token class and no
// revocation. A token stays valid until its natural expiry.
const (
	sessionTTL = 24 * time.Hour
	tokenType  = "Bearer"
)

// MinSigningKeyLen is the shortest accepted HS256 signing secret. Enforced
// at process startup.
const MinSigningKeyLen = 32

// Claims is the signed session payload: subject (user ID), email, and the
// issuance/expiry window.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// AuthService defines identity and session operations.
type AuthService interface {
	// Register creates a new user account. No session is issued.
	Register(ctx context.Context, email, plaintext, displayName string) (*model.User, error)
	// Login authenticates by email/password and issues a session token.
	Login(ctx context.Context, email, plaintext string) (model.SessionToken, error)
	// Verify validates a token's signature and expiry and returns its claims.
	Verify(ctx context.Context, token string) (*Claims, error)
	// Refresh mints a fresh token from a signed (possibly expired) one.
	Refresh(ctx context.Context, token string) (model.SessionToken, error)
}

type AuthServiceImpl struct {
	users   repository.UserRepository
	signKey []byte

	// now is swappable in tests; token expiry checks go through it too.
	now func() time.Time
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(users repository.UserRepository, signKey []byte) *AuthServiceImpl {
	return &AuthServiceImpl{users: users, signKey: signKey, now: time.Now}
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user with a policy-checked, hashed credential and
// zeroed progress fields.
func (s *AuthServiceImpl) Register(ctx context.Context, email, plaintext, displayName string) (*model.User, error) {
	email = NormalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, errs.ErrInvalidEmail
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, errs.ErrAlreadyExists
	} else if !errors.Is(err, errs.ErrNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	cred, err := password.New(plaintext)
	if err != nil {
		return nil, err
	}

	uid, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	u := &model.User{
		ID:           uid,
		Email:        email,
		PasswordHash: cred.Encoded(),
		DisplayName:  displayName,
		LastActiveAt: s.now(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		// The existence check above can race a concurrent registration;
		// the directory's unique index is authoritative.
		if errors.Is(err, errs.ErrAlreadyExists) {
			return nil, errs.ErrAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Login resolves the identity and verifies the password. Unknown email and
// wrong password return the same ErrInvalidCredentials.
func (s *AuthServiceImpl) Login(ctx context.Context, email, plaintext string) (model.SessionToken, error) {
	u, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.SessionToken{}, errs.ErrInvalidCredentials
		}
		return model.SessionToken{}, fmt.Errorf("lookup user: %w", err)
	}

	ok, err := password.FromHash(u.PasswordHash).Verify(plaintext)
	if err != nil {
		// Hash corruption is surfaced, not folded into bad-credentials.
		return model.SessionToken{}, fmt.Errorf("verify password for %s: %w", u.ID, err)
	}
	if !ok {
		return model.SessionToken{}, errs.ErrInvalidCredentials
	}

	return s.issueToken(u)
}

// Verify validates signature and expiry. Signature or structural problems
// yield ErrInvalidToken; a correctly signed token past its window yields the
// distinct ErrTokenExpired.
func (s *AuthServiceImpl) Verify(_ context.Context, token string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(token, claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) && !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, errs.ErrTokenExpired
		}
		return nil, errs.ErrInvalidToken
	}
	if !tok.Valid {
		return nil, errs.ErrInvalidToken
	}
	return claims, nil
}

// Refresh accepts a token that may already be expired. The signature and
// structure are checked but the expiry claim deliberately is not (reusing
// Verify here would reject exactly the tokens refresh exists for). The
// subject is re-resolved against the directory before new claims are minted.
func (s *AuthServiceImpl) Refresh(ctx context.Context, token string) (model.SessionToken, error) {
	claims := &Claims{}
	if _, err := jwt.ParseWithClaims(token, claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	); err != nil {
		return model.SessionToken{}, errs.ErrInvalidToken
	}

	uid, err := uuid.FromString(claims.Subject)
	if err != nil {
		return model.SessionToken{}, errs.ErrInvalidToken
	}
	u, err := s.users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.SessionToken{}, errs.ErrInvalidToken
		}
		return model.SessionToken{}, fmt.Errorf("lookup user: %w", err)
	}

	return s.issueToken(u)
}

// issueToken creates a signed HS256 session token for the given user.
func (s *AuthServiceImpl) issueToken(u *model.User) (model.SessionToken, error) {
	now := s.now()
	exp := now.Add(sessionTTL)
	claims := Claims{
		Email: u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signKey)
	if err != nil {
		return model.SessionToken{}, fmt.Errorf("sign token: %w", err)
	}
	return model.SessionToken{
		AccessToken: signed,
		TokenType:   tokenType,
		ExpiresIn:   int64(sessionTTL.Seconds()),
		ExpiresAt:   exp,
	}, nil
}

func (s *AuthServiceImpl) keyFunc(*jwt.Token) (any, error) { return s.signKey, nil }
