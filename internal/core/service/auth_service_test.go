package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/qvideo/rental-api/internal/core/domain"
	"github.com/qvideo/rental-api/internal/core/ports"
)

type stubUserRepo struct {
	users     map[string]*domain.User
	nextID    int64
	findCalls int
	findErr   error
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
	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrDuplicateEmail
	}
	r.nextID++
	copy := cloneUser(user)
	copy.ID = r.nextID
	r.users[copy.Email] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.findCalls++
	if r.findErr != nil {
		return nil, r.findErr
	}
	if u, ok := r.users[email]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := r.users[email]
	return ok, nil
}

type stubCache struct {
	entries   map[string]domain.Role
	lookupErr error
	stored    int
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string]domain.Role)}
}

func (c *stubCache) Lookup(_ context.Context, fp string) (domain.Role, bool, error) {
	if c.lookupErr != nil {
		return "", false, c.lookupErr
	}
	role, ok := c.entries[fp]
	return role, ok, nil
}

func (c *stubCache) Store(_ context.Context, fp string, role domain.Role) error {
	c.stored++
	c.entries[fp] = role
	return nil
}

func newAuthSvc(repo ports.UserRepository, opts AuthOptions) *AuthService {
	opts.BcryptCost = bcrypt.MinCost
	return NewAuthService(repo, opts, zerolog.Nop())
}

func register(t *testing.T, svc *AuthService, email, password, role string) *domain.User {
	t.Helper()
	user, err := svc.Register(context.Background(), ports.RegisterInput{
		Email:     email,
		Password:  password,
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return user
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo, AuthOptions{})

	user := register(t, svc, "Alice@Example.com", "pass123", "")

	if user.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalised email, got %s", user.Email)
	}
	if user.Role != domain.RoleCustomer {
		t.Fatalf("expected default role CUSTOMER, got %s", user.Role)
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAuthService_Register_AdminRole(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo(), AuthOptions{})

	user := register(t, svc, "root@example.com", "pass", "ADMIN")
	if user.Role != domain.RoleAdmin {
		t.Fatalf("expected ADMIN, got %s", user.Role)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo(), AuthOptions{})

	_, err := svc.Register(context.Background(), ports.RegisterInput{Email: "", Password: "pass"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	_, err = svc.Register(context.Background(), ports.RegisterInput{Email: "bob@example.com", Password: "pass", Role: "guest"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for bad role, got %v", err)
	}
}

func TestAuthService_Register_MixedCaseRole(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo(), AuthOptions{})

	user := register(t, svc, "mixed@example.com", "pass", "Admin")
	if user.Role != domain.RoleAdmin {
		t.Fatalf("expected ADMIN, got %s", user.Role)
	}
}

func TestAuthService_Register_PasswordTooLong(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo, AuthOptions{})

	// 40 two-byte runes: short in characters, over bcrypt's 72-byte limit.
	long := strings.Repeat("é", 40)
	_, err := svc.Register(context.Background(), ports.RegisterInput{Email: "long@example.com", Password: long})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(repo.users) != 0 {
		t.Fatalf("no user must be stored")
	}

	// Exactly 72 bytes is still accepted.
	register(t, svc, "edge@example.com", strings.Repeat("a", 72), "")
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo, AuthOptions{})

	register(t, svc, "bob@example.com", "pass", "")
	_, err := svc.Register(context.Background(), ports.RegisterInput{Email: "bob@example.com", Password: "pass2"})
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	if len(repo.users) != 1 {
		t.Fatalf("expected a single stored user, got %d", len(repo.users))
	}
}

func TestAuthService_Authenticate_Success(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo(), AuthOptions{})
	register(t, svc, "carol@example.com", "s3cret", "ADMIN")

	id, err := svc.Authenticate(context.Background(), "carol@example.com", "s3cret")
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if id.Email != "carol@example.com" || id.Role != domain.RoleAdmin {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestAuthService_Authenticate_UniformFailure(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo(), AuthOptions{})
	register(t, svc, "dave@example.com", "goodpass", "")

	_, wrongPassword := svc.Authenticate(context.Background(), "dave@example.com", "badpass")
	_, unknownEmail := svc.Authenticate(context.Background(), "ghost@example.com", "goodpass")

	if wrongPassword != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", wrongPassword)
	}
	if unknownEmail != wrongPassword {
		t.Fatalf("unknown email and wrong password must fail identically: %v vs %v", unknownEmail, wrongPassword)
	}
}

func TestAuthService_Authenticate_StoreError(t *testing.T) {
	repo := newStubUserRepo()
	repo.findErr = errors.New("connection refused")
	svc := newAuthSvc(repo, AuthOptions{})

	_, err := svc.Authenticate(context.Background(), "eve@example.com", "pass")
	if err == nil || errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected a store failure, got %v", err)
	}
}

func TestAuthService_Authenticate_UsesCache(t *testing.T) {
	repo := newStubUserRepo()
	cache := newStubCache()
	svc := newAuthSvc(repo, AuthOptions{Cache: cache, JWTSecret: "secret"})
	register(t, svc, "frank@example.com", "pass", "ADMIN")

	for i := 0; i < 3; i++ {
		id, err := svc.Authenticate(context.Background(), "frank@example.com", "pass")
		if err != nil {
			t.Fatalf("authenticate #%d: %v", i, err)
		}
		if id.Role != domain.RoleAdmin {
			t.Fatalf("unexpected role: %s", id.Role)
		}
	}

	if repo.findCalls != 1 {
		t.Fatalf("expected one store lookup, got %d", repo.findCalls)
	}
	if cache.stored != 1 {
		t.Fatalf("expected one cache write, got %d", cache.stored)
	}

	if _, err := svc.Authenticate(context.Background(), "frank@example.com", "wrong"); err != domain.ErrInvalidCredentials {
		t.Fatalf("wrong password must not hit the cache: %v", err)
	}
}

func TestAuthService_Authenticate_CacheErrorFallsBack(t *testing.T) {
	cache := newStubCache()
	cache.lookupErr = errors.New("redis down")
	svc := newAuthSvc(newStubUserRepo(), AuthOptions{Cache: cache})
	register(t, svc, "gina@example.com", "pass", "")

	if _, err := svc.Authenticate(context.Background(), "gina@example.com", "pass"); err != nil {
		t.Fatalf("expected fallback to password check, got %v", err)
	}
}

func TestAuthService_IssueToken_Disabled(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo(), AuthOptions{})

	_, _, err := svc.IssueToken(&domain.Identity{Email: "a@example.com", Role: domain.RoleCustomer})
	if !errors.Is(err, domain.ErrTokensDisabled) {
		t.Fatalf("expected ErrTokensDisabled, got %v", err)
	}
	if _, err := svc.ParseToken("anything"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_TokenRoundTrip(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo(), AuthOptions{JWTSecret: "secret", TokenTTL: time.Hour})

	token, exp, err := svc.IssueToken(&domain.Identity{Email: "hal@example.com", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if time.Until(exp) <= 0 || time.Until(exp) > time.Hour {
		t.Fatalf("unexpected expiry: %v", exp)
	}

	id, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if id.Email != "hal@example.com" || id.Role != domain.RoleAdmin {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestAuthService_ParseToken_Rejects(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo(), AuthOptions{JWTSecret: "secret"})

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "ivy@example.com",
		"role": "ADMIN",
		"exp":  time.Now().Add(-time.Minute).Unix(),
	})
	expiredToken, _ := expired.SignedString([]byte("secret"))

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "ivy@example.com",
		"role": "ADMIN",
	})
	foreignToken, _ := foreign.SignedString([]byte("other-secret"))

	noRole := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "ivy@example.com"})
	noRoleToken, _ := noRole.SignedString([]byte("secret"))

	for name, tok := range map[string]string{
		"expired": expiredToken,
		"foreign": foreignToken,
		"no role": noRoleToken,
		"garbage": "not-a-token",
	} {
		if _, err := svc.ParseToken(tok); err != domain.ErrInvalidCredentials {
			t.Errorf("%s: expected ErrInvalidCredentials, got %v", name, err)
		}
	}
}
