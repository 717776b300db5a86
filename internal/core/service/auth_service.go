package service

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/qvideo/rental-api/internal/metrics"
	"github.com/qvideo/rental-api/internal/core/domain"
	"github.com/qvideo/rental-api/internal/core/ports"
)

const defaultTokenTTL = 24 * time.Hour

// maxPasswordBytes is bcrypt's input limit; longer passwords are rejected
// rather than truncated.
const maxPasswordBytes = 72

// AuthOptions tunes an AuthService. The zero value is usable: tokens are
// disabled, bcrypt uses its default cost and no verification cache is used.
type AuthOptions struct {
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
	Cache      ports.CredentialCache
}

// AuthService implements registration and per-request credential checks.
type AuthService struct {
	users     ports.UserRepository
	cache     ports.CredentialCache
	jwtSecret []byte
	cacheKey  []byte
	tokenTTL  time.Duration
	cost      int
	dummyHash []byte
	log       zerolog.Logger
}

func NewAuthService(users ports.UserRepository, opts AuthOptions, log zerolog.Logger) *AuthService {
	cost := opts.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	ttl := opts.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}

	s := &AuthService{
		users:    users,
		cache:    opts.Cache,
		tokenTTL: ttl,
		cost:     cost,
		log:      log,
	}
	if opts.JWTSecret != "" {
		s.jwtSecret = []byte(opts.JWTSecret)
		s.cacheKey = s.jwtSecret
	} else {
		s.cacheKey = make([]byte, 32)
		_, _ = rand.Read(s.cacheKey)
	}

	// Compared against when the email is unknown so both failure paths cost
	// one bcrypt comparison.
	s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("qvideo-unknown-user"), cost)
	return s
}

// Register creates a CUSTOMER account unless another role is requested.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, fmt.Errorf("register: email and password are required: %w", domain.ErrValidation)
	}
	if len(in.Password) > maxPasswordBytes {
		return nil, fmt.Errorf("register: password must be at most %d bytes: %w", maxPasswordBytes, domain.ErrValidation)
	}
	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return nil, fmt.Errorf("register: unknown role %q: %w", in.Role, err)
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if exists {
		return nil, domain.ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	created, err := s.users.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	metrics.RegistrationsTotal.WithLabelValues(string(created.Role)).Inc()
	s.log.Info().Str("email", created.Email).Str("role", string(created.Role)).Msg("user registered")
	return created, nil
}

// Authenticate verifies an email/password pair. Unknown emails and wrong
// passwords both yield domain.ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.Identity, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		metrics.AuthenticationsTotal.WithLabelValues("password", "failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	fp := s.fingerprint(email, password)
	if s.cache != nil {
		role, ok, err := s.cache.Lookup(ctx, fp)
		switch {
		case err != nil:
			metrics.CredentialCacheTotal.WithLabelValues("error").Inc()
			s.log.Warn().Err(err).Msg("credential cache lookup failed, verifying password")
		case ok:
			metrics.CredentialCacheTotal.WithLabelValues("hit").Inc()
			metrics.AuthenticationsTotal.WithLabelValues("cache", "success").Inc()
			return &domain.Identity{Email: email, Role: role}, nil
		default:
			metrics.CredentialCacheTotal.WithLabelValues("miss").Inc()
		}
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			metrics.AuthenticationsTotal.WithLabelValues("password", "failure").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.AuthenticationsTotal.WithLabelValues("password", "failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}
	metrics.AuthenticationsTotal.WithLabelValues("password", "success").Inc()

	if s.cache != nil {
		if err := s.cache.Store(ctx, fp, user.Role); err != nil {
			s.log.Warn().Err(err).Msg("failed to cache credential verification")
		}
	}

	return &domain.Identity{Email: user.Email, Role: user.Role}, nil
}

type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 bearer token for identity. It returns
// domain.ErrTokensDisabled when no secret is configured.
func (s *AuthService) IssueToken(identity *domain.Identity) (string, time.Time, error) {
	if len(s.jwtSecret) == 0 {
		return "", time.Time{}, domain.ErrTokensDisabled
	}

	now := time.Now()
	exp := now.Add(s.tokenTTL)
	claims := tokenClaims{
		Role: string(identity.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp.UTC(), nil
}

// ParseToken validates a bearer token and returns the identity it carries.
func (s *AuthService) ParseToken(token string) (*domain.Identity, error) {
	if len(s.jwtSecret) == 0 {
		return nil, domain.ErrInvalidCredentials
	}

	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid || claims.Subject == "" {
		metrics.AuthenticationsTotal.WithLabelValues("token", "failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	role, err := domain.ParseRole(claims.Role)
	if err != nil || claims.Role == "" {
		metrics.AuthenticationsTotal.WithLabelValues("token", "failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	metrics.AuthenticationsTotal.WithLabelValues("token", "success").Inc()
	return &domain.Identity{Email: claims.Subject, Role: role}, nil
}

func (s *AuthService) fingerprint(email, password string) string {
	mac := hmac.New(sha256.New, s.cacheKey)
	mac.Write([]byte(email))
	mac.Write([]byte{0})
	mac.Write([]byte(password))
	return hex.EncodeToString(mac.Sum(nil))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
