package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/qvideo/rental-api/internal/core/domain"
	"github.com/qvideo/rental-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	log         zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, registerResponse{
		Message: "User registered successfully",
		Email:   user.Email,
		Role:    user.Role,
	})
}

// Login confirms the credentials sent in the Authorization header. When
// token issuing is enabled the response also carries a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Produce      json
// @Security     BasicAuth
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	resp := loginResponse{
		Message:     "Login successful",
		Username:    id.Email,
		Authorities: []string{id.Role.Authority()},
	}

	token, exp, err := h.authService.IssueToken(id)
	switch {
	case err == nil:
		resp.Token = token
		resp.ExpiresAt = &exp
	case errors.Is(err, domain.ErrTokensDisabled):
	default:
		h.log.Warn().Err(err).Str("email", id.Email).Msg("token issue failed; answering without token")
	}

	return c.JSON(http.StatusOK, resp)
}
