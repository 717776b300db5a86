package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/qvideo/rental-api/internal/api/middleware"
	"github.com/qvideo/rental-api/internal/core/domain"
)

// ctxIdentity returns the caller established by the Authenticate middleware.
// A missing identity means the route was reached without credentials, which
// the access rules only allow for public endpoints.
func ctxIdentity(c echo.Context) (*domain.Identity, error) {
	id := middleware.IdentityFrom(c)
	if id == nil {
		return nil, domain.ErrUnauthenticated
	}
	return id, nil
}
