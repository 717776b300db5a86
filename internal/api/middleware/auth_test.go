package middleware

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/qvideo/rental-api/internal/core/domain"
)

type stubAuthenticator struct {
	users  map[string]string // email -> password
	roles  map[string]domain.Role
	tokens map[string]*domain.Identity
	err    error
}

func (s *stubAuthenticator) Authenticate(_ context.Context, email, password string) (*domain.Identity, error) {
	if s.err != nil {
		return nil, s.err
	}
	if pw, ok := s.users[email]; !ok || pw != password {
		return nil, domain.ErrInvalidCredentials
	}
	return &domain.Identity{Email: email, Role: s.roles[email]}, nil
}

func (s *stubAuthenticator) ParseToken(token string) (*domain.Identity, error) {
	if id, ok := s.tokens[token]; ok {
		return id, nil
	}
	return nil, domain.ErrInvalidCredentials
}

func newStubAuthenticator() *stubAuthenticator {
	return &stubAuthenticator{
		users:  map[string]string{"alice@example.com": "secret"},
		roles:  map[string]domain.Role{"alice@example.com": domain.RoleAdmin},
		tokens: map[string]*domain.Identity{"tok": {Email: "bob@example.com", Role: domain.RoleCustomer}},
	}
}

func basic(user, pass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}

func runAuthenticate(t *testing.T, auth Authenticator, header string) (*domain.Identity, bool, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var (
		got    *domain.Identity
		called bool
	)
	handler := Authenticate(auth)(func(c echo.Context) error {
		called = true
		got = IdentityFrom(c)
		return c.NoContent(http.StatusOK)
	})
	err := handler(c)
	return got, called, err
}

func TestAuthenticate_Basic(t *testing.T) {
	id, called, err := runAuthenticate(t, newStubAuthenticator(), basic("alice@example.com", "secret"))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if id == nil || id.Email != "alice@example.com" || id.Role != domain.RoleAdmin {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestAuthenticate_PasswordWithColon(t *testing.T) {
	auth := newStubAuthenticator()
	auth.users["carol@example.com"] = "a:b:c"

	id, _, err := runAuthenticate(t, auth, basic("carol@example.com", "a:b:c"))
	if err != nil || id == nil {
		t.Fatalf("expected colon-containing password to verify, got %v", err)
	}
}

func TestAuthenticate_Bearer(t *testing.T) {
	id, called, err := runAuthenticate(t, newStubAuthenticator(), "Bearer tok")
	if err != nil || !called {
		t.Fatalf("expected pass-through, got err=%v called=%v", err, called)
	}
	if id == nil || id.Email != "bob@example.com" {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestAuthenticate_AnonymousPassesThrough(t *testing.T) {
	id, called, err := runAuthenticate(t, newStubAuthenticator(), "")
	if err != nil || !called {
		t.Fatalf("expected pass-through, got err=%v called=%v", err, called)
	}
	if id != nil {
		t.Fatalf("expected no identity, got %+v", id)
	}
}

func TestAuthenticate_Rejects(t *testing.T) {
	cases := map[string]string{
		"wrong password": basic("alice@example.com", "nope"),
		"unknown user":   basic("ghost@example.com", "secret"),
		"bad base64":     "Basic !!!",
		"no colon":       "Basic " + base64.StdEncoding.EncodeToString([]byte("alice@example.com")),
		"unknown scheme": "Token abc",
		"no scheme":      "abc",
		"bad token":      "Bearer nope",
	}
	for name, header := range cases {
		_, called, err := runAuthenticate(t, newStubAuthenticator(), header)
		if called {
			t.Errorf("%s: next must not be called", name)
		}
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("%s: expected ErrInvalidCredentials, got %v", name, err)
		}
	}
}

func TestAuthenticate_StoreErrorPropagates(t *testing.T) {
	auth := newStubAuthenticator()
	auth.err = errors.New("db down")

	_, called, err := runAuthenticate(t, auth, basic("alice@example.com", "secret"))
	if called || err == nil || errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected store error to propagate, got called=%v err=%v", called, err)
	}
}
