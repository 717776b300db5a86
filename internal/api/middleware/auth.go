package middleware

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/qvideo/rental-api/internal/core/domain"
)

const identityKey = "identity"

// Authenticator verifies the credentials a request carries.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*domain.Identity, error)
	ParseToken(token string) (*domain.Identity, error)
}

// Authenticate resolves the Authorization header into a domain.Identity and
// stores it on the context. Requests without the header pass through
// anonymously; AccessControl decides whether that is acceptable. A header
// that is present but wrong is rejected with ErrInvalidCredentials.
//
// Nothing is remembered between requests: Basic credentials are verified on
// every call and bearer tokens are checked against their signature only.
func Authenticate(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return next(c)
			}

			scheme, value, ok := strings.Cut(header, " ")
			if !ok {
				return domain.ErrInvalidCredentials
			}
			value = strings.TrimSpace(value)

			var (
				id  *domain.Identity
				err error
			)
			switch {
			case strings.EqualFold(scheme, "basic"):
				email, password, perr := parseBasic(value)
				if perr != nil {
					return perr
				}
				id, err = auth.Authenticate(c.Request().Context(), email, password)
			case strings.EqualFold(scheme, "bearer"):
				id, err = auth.ParseToken(value)
			default:
				return domain.ErrInvalidCredentials
			}
			if err != nil {
				return err
			}

			c.Set(identityKey, id)
			return next(c)
		}
	}
}

// IdentityFrom returns the authenticated caller, or nil for anonymous requests.
func IdentityFrom(c echo.Context) *domain.Identity {
	id, _ := c.Get(identityKey).(*domain.Identity)
	return id
}

func parseBasic(encoded string) (email, password string, err error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", "", domain.ErrInvalidCredentials
	}
	email, password, ok := strings.Cut(string(raw), ":")
	if !ok || email == "" {
		return "", "", domain.ErrInvalidCredentials
	}
	return email, password, nil
}
