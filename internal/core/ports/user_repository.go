package ports

import (
	"context"

	"github.com/qvideo/rental-api/internal/core/domain"
)

// UserRepository is the credential store.
type UserRepository interface {
	// FindByEmail returns domain.ErrUserNotFound when no user has the email.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Create returns domain.ErrDuplicateEmail when the unique constraint fires.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
