package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/skillforge/skillforge/internal/errs"
	"github.com/skillforge/skillforge/internal/model"
	"github.com/skillforge/skillforge/internal/password"
	"github.com/skillforge/skillforge/internal/repository"
)

const testPassword = "MySecurePassword123!"

type fakeUsers struct {
	byEmail map[string]*model.User

	createErr error
	getErr    error
}

var _ repository.UserRepository = (*fakeUsers)(nil)

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if f.byEmail == nil {
		f.byEmail = map[string]*model.User{}
	}
	if _, exists := f.byEmail[u.Email]; exists {
		return errs.ErrAlreadyExists
	}
	cpy := *u
	f.byEmail[u.Email] = &cpy
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			c := *u
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (f *fakeUsers) UpdateProgress(_ context.Context, id uuid.UUID, xp int64, streak int) error {
	for _, u := range f.byEmail {
		if u.ID == id {
			u.XP = xp
			u.Streak = streak
			return nil
		}
	}
	return errs.ErrNotFound
}

const testSignKey = "0123456789abcdef0123456789abcdef"

func newAuth(users *fakeUsers) *AuthServiceImpl {
	return NewAuthService(users, []byte(testSignKey))
}

func TestAuth_Register_Basics(t *testing.T) {
	t.Parallel()
	users := &fakeUsers{byEmail: map[string]*model.User{}}
	s := newAuth(users)
	ctx := context.Background()

	// A malformed email is a named, branchable error, not a generic one.
	if _, err := s.Register(ctx, "no-at-sign", testPassword, "x"); !errors.Is(err, errs.ErrInvalidEmail) {
		t.Fatalf("want ErrInvalidEmail, got %v", err)
	}
	if _, err := s.Register(ctx, "   ", testPassword, "x"); !errors.Is(err, errs.ErrInvalidEmail) {
		t.Fatalf("want ErrInvalidEmail for blank email, got %v", err)
	}

	var perr *password.PolicyError
	if _, err := s.Register(ctx, "alice@example.com", "short", "Alice"); !errors.As(err, &perr) {
		t.Fatalf("want PolicyError passthrough, got %v", err)
	}

	u, err := s.Register(ctx, "  Alice@Example.COM ", testPassword, "Alice")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Email != "alice@example.com" {
		t.Fatalf("email not normalized: %q", u.Email)
	}
	if u.XP != 0 || u.Streak != 0 {
		t.Fatalf("progress fields not zeroed: %+v", u)
	}
	if u.PasswordHash == "" || strings.Contains(u.PasswordHash, testPassword) {
		t.Fatalf("bad stored hash: %q", u.PasswordHash)
	}
}

func TestAuth_Register_Duplicates(t *testing.T) {
	t.Parallel()
	users := &fakeUsers{byEmail: map[string]*model.User{}}
	s := newAuth(users)
	ctx := context.Background()

	if _, err := s.Register(ctx, "bob@example.com", testPassword, "Bob"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	// Case/whitespace variants of the same address collide.
	if _, err := s.Register(ctx, "BOB@example.com ", testPassword, "Bob"); !errors.Is(err, errs.ErrAlreadyExists) {
		t.Fatalf("want ErrAlreadyExists, got %v", err)
	}
}

func TestAuth_Register_CreateRace(t *testing.T) {
	t.Parallel()
	// The directory may report a duplicate even after the existence check
	// passed. That is a normal AlreadyExists outcome, not a failure.
	users := &fakeUsers{byEmail: map[string]*model.User{}, createErr: errs.ErrAlreadyExists}
	s := newAuth(users)

	_, err := s.Register(context.Background(), "carol@example.com", testPassword, "Carol")
	if !errors.Is(err, errs.ErrAlreadyExists) {
		t.Fatalf("want ErrAlreadyExists from create race, got %v", err)
	}
}

func registerUser(t *testing.T, s *AuthServiceImpl, email string) *model.User {
	t.Helper()
	u, err := s.Register(context.Background(), email, testPassword, "u")
	if err != nil {
		t.Fatalf("Register(%s): %v", email, err)
	}
	return u
}

func TestAuth_Login_GenericFailure(t *testing.T) {
	t.Parallel()
	users := &fakeUsers{byEmail: map[string]*model.User{}}
	s := newAuth(users)
	ctx := context.Background()
	registerUser(t, s, "dave@example.com")

	_, errWrongPw := s.Login(ctx, "dave@example.com", "WrongCandidate9?!")
	_, errNoUser := s.Login(ctx, "nobody@example.com", testPassword)

	// Unknown email and wrong password must be indistinguishable.
	if !errors.Is(errWrongPw, errs.ErrInvalidCredentials) {
		t.Fatalf("wrong password: want ErrInvalidCredentials, got %v", errWrongPw)
	}
	if !errors.Is(errNoUser, errs.ErrInvalidCredentials) {
		t.Fatalf("unknown email: want ErrInvalidCredentials, got %v", errNoUser)
	}
	if errWrongPw.Error() != errNoUser.Error() {
		t.Fatalf("login failures differ: %q vs %q", errWrongPw, errNoUser)
	}
}

func TestAuth_Login_Success(t *testing.T) {
	t.Parallel()
	users := &fakeUsers{byEmail: map[string]*model.User{}}
	s := newAuth(users)
	ctx := context.Background()
	registerUser(t, s, "erin@example.com")

	tok, err := s.Login(ctx, "Erin@Example.com", testPassword)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if tok.AccessToken == "" {
		t.Fatalf("empty access token")
	}
	if tok.TokenType != "Bearer" {
		t.Fatalf("token type %q, want Bearer", tok.TokenType)
	}
	if tok.ExpiresIn != 86400 {
		t.Fatalf("expires_in %d, want 86400", tok.ExpiresIn)
	}
}

func TestAuth_Login_HashCorruption(t *testing.T) {
	t.Parallel()
	users := &fakeUsers{byEmail: map[string]*model.User{}}
	s := newAuth(users)
	u := registerUser(t, s, "frank@example.com")
	users.byEmail[u.Email].PasswordHash = "$argon2id$broken"

	_, err := s.Login(context.Background(), "frank@example.com", testPassword)
	if !errors.Is(err, errs.ErrHashCorruption) {
		t.Fatalf("want ErrHashCorruption surfaced, got %v", err)
	}
	if errors.Is(err, errs.ErrInvalidCredentials) {
		t.Fatalf("hash corruption must not be folded into bad credentials")
	}
}

func TestAuth_Verify_ExpiryWindow(t *testing.T) {
	t.Parallel()
	users := &fakeUsers{byEmail: map[string]*model.User{}}
	s := newAuth(users)
	ctx := context.Background()
	u := registerUser(t, s, "grace@example.com")

	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return issued }
	tok, err := s.Login(ctx, "grace@example.com", testPassword)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	// Just inside the 24h window.
	s.now = func() time.Time { return issued.Add(23*time.Hour + 59*time.Minute) }
	claims, err := s.Verify(ctx, tok.AccessToken)
	if err != nil {
		t.Fatalf("Verify inside window: %v", err)
	}
	if claims.Subject != u.ID.String() {
		t.Fatalf("subject %q, want %q", claims.Subject, u.ID)
	}
	if claims.Email != u.Email {
		t.Fatalf("email %q, want %q", claims.Email, u.Email)
	}

	// Just past the window: Expired, not InvalidToken.
	s.now = func() time.Time { return issued.Add(24*time.Hour + time.Minute) }
	if _, err := s.Verify(ctx, tok.AccessToken); !errors.Is(err, errs.ErrTokenExpired) {
		t.Fatalf("want ErrTokenExpired, got %v", err)
	}
}

// tamperSignature flips the first character of the token's signature segment.
func tamperSignature(t *testing.T, token string) string {
	t.Helper()
	i := strings.LastIndex(token, ".")
	if i < 0 || i == len(token)-1 {
		t.Fatalf("no signature segment in %q", token)
	}
	repl := byte('A')
	if token[i+1] == 'A' {
		repl = 'B'
	}
	return token[:i+1] + string(repl) + token[i+2:]
}

func TestAuth_Verify_TamperedSignature(t *testing.T) {
	t.Parallel()
	users := &fakeUsers{byEmail: map[string]*model.User{}}
	s := newAuth(users)
	ctx := context.Background()
	registerUser(t, s, "heidi@example.com")

	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return issued }
	tok, err := s.Login(ctx, "heidi@example.com", testPassword)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	bad := tamperSignature(t, tok.AccessToken)

	// Tampering is InvalidToken while still inside the window...
	if _, err := s.Verify(ctx, bad); !errors.Is(err, errs.ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken, got %v", err)
	}
	// ...and stays InvalidToken (never Expired) after the window too.
	s.now = func() time.Time { return issued.Add(48 * time.Hour) }
	if _, err := s.Verify(ctx, bad); !errors.Is(err, errs.ErrInvalidToken) || errors.Is(err, errs.ErrTokenExpired) {
		t.Fatalf("want ErrInvalidToken only, got %v", err)
	}

	if _, err := s.Verify(ctx, "not.a.token"); !errors.Is(err, errs.ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken for garbage, got %v", err)
	}
}

func TestAuth_Verify_MissingExpiry(t *testing.T) {
	t.Parallel()
	users := &fakeUsers{byEmail: map[string]*model.User{}}
	s := newAuth(users)

	// A correctly signed token that carries no exp claim must not validate.
	claims := Claims{
		Email: "mallory@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  uuid.Must(uuid.NewV4()).String(),
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSignKey))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := s.Verify(context.Background(), tok); !errors.Is(err, errs.ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken for missing exp, got %v", err)
	}
}

func TestAuth_Refresh(t *testing.T) {
	t.Parallel()
	users := &fakeUsers{byEmail: map[string]*model.User{}}
	s := newAuth(users)
	ctx := context.Background()
	u := registerUser(t, s, "ivan@example.com")

	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return issued }
	tok, err := s.Login(ctx, "ivan@example.com", testPassword)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	// An already-expired token still refreshes: signature is checked,
	// expiry is not.
	s.now = func() time.Time { return issued.Add(25 * time.Hour) }
	if _, err := s.Verify(ctx, tok.AccessToken); !errors.Is(err, errs.ErrTokenExpired) {
		t.Fatalf("precondition: token should be expired, got %v", err)
	}
	fresh, err := s.Refresh(ctx, tok.AccessToken)
	if err != nil {
		t.Fatalf("Refresh expired token: %v", err)
	}
	claims, err := s.Verify(ctx, fresh.AccessToken)
	if err != nil {
		t.Fatalf("Verify refreshed token: %v", err)
	}
	if claims.Subject != u.ID.String() {
		t.Fatalf("refreshed subject %q, want %q", claims.Subject, u.ID)
	}

	// Tampered tokens never refresh.
	if _, err := s.Refresh(ctx, tamperSignature(t, tok.AccessToken)); !errors.Is(err, errs.ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken for tampered refresh, got %v", err)
	}

	// A signed token whose subject no longer resolves is rejected.
	delete(users.byEmail, u.Email)
	if _, err := s.Refresh(ctx, tok.AccessToken); !errors.Is(err, errs.ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken for unknown subject, got %v", err)
	}
}
