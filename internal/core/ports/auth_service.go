package ports

import (
	"context"
	"time"

	"github.com/qvideo/rental-api/internal/core/domain"
)

// RegisterInput carries the registration payload after transport validation.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string // optional; empty means CUSTOMER
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (*domain.Identity, error)
	IssueToken(identity *domain.Identity) (string, time.Time, error)
	ParseToken(token string) (*domain.Identity, error)
}
