package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/locallink/booking-api/internal/core/domain"
	"github.com/locallink/booking-api/internal/core/ports"
)

type stubUserRepo struct {
	seq   int
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.seq++
	copy := cloneUser(user)
	copy.ID = fmt.Sprintf("u%d", r.seq)
	r.users[copy.ID] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	var users []*domain.User
	for _, u := range r.users {
		users = append(users, cloneUser(u))
	}
	return users, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := r.users[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func newTestAuthService(repo ports.UserRepository) *AuthService {
	return NewAuthService(repo, nil, "secret", time.Hour, zerolog.Nop())
}

func TestAuthService_Signup_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	user, token, err := svc.Signup(context.Background(), ports.SignupInput{
		Username: "bob_1",
		Email:    "Bob@X.com",
		Password: "secret1",
	})
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if user.Role != domain.RoleClient {
		t.Fatalf("expected role to default to client, got %s", user.Role)
	}
	if user.Email != "bob@x.com" {
		t.Fatalf("expected email lower-cased, got %s", user.Email)
	}
	if !user.IsActive {
		t.Fatalf("expected new account to be active")
	}
	if user.PasswordHash == "secret1" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret1")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["sub"] != user.ID {
		t.Fatalf("expected sub %s, got %v", user.ID, claims["sub"])
	}
	if claims["role"] != domain.RoleClient {
		t.Fatalf("expected role client, got %v", claims["role"])
	}
}

func TestAuthService_Signup_RoleDowngrade(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	user, _, err := svc.Signup(context.Background(), ports.SignupInput{
		Username: "eve",
		Email:    "eve@example.com",
		Password: "secret1",
		Role:     "admin",
	})
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	if user.Role != domain.RoleClient {
		t.Fatalf("expected admin role request to downgrade to client, got %s", user.Role)
	}
}

func TestAuthService_Signup_ValidationOrder(t *testing.T) {
	cases := []struct {
		name    string
		in      ports.SignupInput
		wantMsg string
	}{
		{"missing fields", ports.SignupInput{Username: "  ", Email: "a@b.co", Password: "secret1"},
			"Username, email, and password are required"},
		{"short username", ports.SignupInput{Username: "ab", Email: "a@b.co", Password: "secret1"},
			"Username must be at least 3 characters"},
		{"bad username chars", ports.SignupInput{Username: "bad name!", Email: "a@b.co", Password: "secret1"},
			"Username can only contain letters, numbers, and underscores"},
		{"bad email", ports.SignupInput{Username: "alice", Email: "not-an-email", Password: "secret1"},
			"Invalid email format"},
		{"short password", ports.SignupInput{Username: "alice", Email: "a@b.co", Password: "12345"},
			"Password must be at least 6 characters"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestAuthService(newStubUserRepo())
			_, _, err := svc.Signup(context.Background(), tc.in)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if err.Error() != tc.wantMsg {
				t.Fatalf("expected message %q, got %q", tc.wantMsg, err.Error())
			}
		})
	}
}

func TestAuthService_Signup_DuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	if _, _, err := svc.Signup(context.Background(), ports.SignupInput{
		Username: "bob", Email: "bob@example.com", Password: "secret1",
	}); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}

	// Different username, same email in different case.
	_, _, err := svc.Signup(context.Background(), ports.SignupInput{
		Username: "robert", Email: "BOB@Example.COM", Password: "secret1",
	})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthService_Signup_DuplicateUsername(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	_, _, _ = svc.Signup(context.Background(), ports.SignupInput{
		Username: "bob", Email: "bob@example.com", Password: "secret1",
	})
	_, _, err := svc.Signup(context.Background(), ports.SignupInput{
		Username: "bob", Email: "other@example.com", Password: "secret1",
	})
	if !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	if _, _, err := svc.Signup(context.Background(), ports.SignupInput{
		Username: "carol", Email: "carol@example.com", Password: "s3cret1", Role: domain.RoleProvider,
	}); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	user, token, err := svc.Login(context.Background(), "  Carol@Example.COM ", "s3cret1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if user.Username != "carol" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestAuthService_Login_OpaqueFailures(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	_, _, _ = svc.Signup(context.Background(), ports.SignupInput{
		Username: "dave", Email: "dave@example.com", Password: "goodpass",
	})

	_, _, wrongPass := svc.Login(context.Background(), "dave@example.com", "badpass")
	_, _, noAccount := svc.Login(context.Background(), "ghost@example.com", "whatever")

	if !errors.Is(wrongPass, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", wrongPass)
	}
	if !errors.Is(noAccount, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", noAccount)
	}
	if wrongPass.Error() != noAccount.Error() {
		t.Fatalf("login failures must be indistinguishable: %q vs %q", wrongPass.Error(), noAccount.Error())
	}
}

func TestAuthService_Login_Deactivated(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	user, _, _ := svc.Signup(context.Background(), ports.SignupInput{
		Username: "frank", Email: "frank@example.com", Password: "secret1",
	})
	stored := repo.users[user.ID]
	stored.IsActive = false

	_, _, err := svc.Login(context.Background(), "frank@example.com", "secret1")
	if !errors.Is(err, domain.ErrAccountDisabled) {
		t.Fatalf("expected ErrAccountDisabled, got %v", err)
	}
}

type stubLimiter struct {
	blocked  bool
	failures int
	resets   int
}

func (l *stubLimiter) TooMany(_ context.Context, _ string) (bool, error) { return l.blocked, nil }
func (l *stubLimiter) RecordFailure(_ context.Context, _ string) error {
	l.failures++
	return nil
}
func (l *stubLimiter) Reset(_ context.Context, _ string) error {
	l.resets++
	return nil
}

func TestAuthService_Login_Throttled(t *testing.T) {
	repo := newStubUserRepo()
	limiter := &stubLimiter{blocked: true}
	svc := NewAuthService(repo, limiter, "secret", time.Hour, zerolog.Nop())

	_, _, err := svc.Login(context.Background(), "bob@example.com", "secret1")
	if !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestAuthService_Login_RecordsFailuresAndResets(t *testing.T) {
	repo := newStubUserRepo()
	limiter := &stubLimiter{}
	svc := NewAuthService(repo, limiter, "secret", time.Hour, zerolog.Nop())

	_, _, _ = svc.Signup(context.Background(), ports.SignupInput{
		Username: "gina", Email: "gina@example.com", Password: "secret1",
	})

	_, _, _ = svc.Login(context.Background(), "gina@example.com", "wrong")
	if limiter.failures != 1 {
		t.Fatalf("expected 1 recorded failure, got %d", limiter.failures)
	}

	if _, _, err := svc.Login(context.Background(), "gina@example.com", "secret1"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if limiter.resets != 1 {
		t.Fatalf("expected 1 reset, got %d", limiter.resets)
	}
}

func TestAuthService_UpdateProfile_UniquenessExcludesSelf(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	alice, _, _ := svc.Signup(context.Background(), ports.SignupInput{
		Username: "alice", Email: "alice@example.com", Password: "secret1",
	})
	_, _, _ = svc.Signup(context.Background(), ports.SignupInput{
		Username: "bob", Email: "bob@example.com", Password: "secret1",
	})

	// Re-submitting one's own username is not a conflict.
	self := "alice"
	if _, err := svc.UpdateProfile(context.Background(), alice.ID, ports.ProfilePatch{Username: &self}); err != nil {
		t.Fatalf("expected no conflict for own username, got %v", err)
	}

	// Taking another user's email is.
	taken := "bob@example.com"
	_, err := svc.UpdateProfile(context.Background(), alice.ID, ports.ProfilePatch{Email: &taken})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthService_UpdateProfile_PartialFields(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	alice, _, _ := svc.Signup(context.Background(), ports.SignupInput{
		Username: "alice", Email: "alice@example.com", Password: "secret1",
	})

	img := "https://cdn.example.com/alice.png"
	updated, err := svc.UpdateProfile(context.Background(), alice.ID, ports.ProfilePatch{ImageURL: &img})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if updated.Username != "alice" || updated.Email != "alice@example.com" {
		t.Fatalf("absent fields must stay untouched: %+v", updated)
	}
	if updated.ImageURL != img {
		t.Fatalf("expected image url updated, got %q", updated.ImageURL)
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	user, _, _ := svc.Signup(context.Background(), ports.SignupInput{
		Username: "henry", Email: "henry@example.com", Password: "oldpass",
	})

	if err := svc.ChangePassword(context.Background(), user.ID, "wrong", "newpass1"); !errors.Is(err, domain.ErrWrongPassword) {
		t.Fatalf("expected ErrWrongPassword, got %v", err)
	}
	if err := svc.ChangePassword(context.Background(), user.ID, "oldpass", "short"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for short password, got %v", err)
	}
	if err := svc.ChangePassword(context.Background(), user.ID, "oldpass", "newpass1"); err != nil {
		t.Fatalf("ChangePassword returned error: %v", err)
	}

	if _, _, err := svc.Login(context.Background(), "henry@example.com", "newpass1"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "henry@example.com", "oldpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected old password to stop working, got %v", err)
	}
}
