package ports

import (
	"context"

	"github.com/qvideo/rental-api/internal/core/domain"
)

// VideoRepository is the catalog store. Lookups of absent ids return
// domain.ErrVideoNotFound.
type VideoRepository interface {
	FindAll(ctx context.Context) ([]domain.Video, error)
	FindByAvailable(ctx context.Context, available bool) ([]domain.Video, error)
	FindByID(ctx context.Context, id int64) (*domain.Video, error)
	// Create assigns a fresh ID to v and persists it.
	Create(ctx context.Context, v *domain.Video) error
	// Update replaces the descriptive fields of the record with v.ID.
	Update(ctx context.Context, v *domain.Video) error
	Delete(ctx context.Context, id int64) error
}
