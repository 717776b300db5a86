package ports

import (
	"context"

	"github.com/qvideo/rental-api/internal/core/domain"
)

// VideoInput holds the four replaceable fields of a video.
type VideoInput struct {
	Title     string
	Director  string
	Genre     string
	Available bool
}

// VideoService defines the catalog use cases.
type VideoService interface {
	ListAll(ctx context.Context) ([]domain.Video, error)
	ListAvailable(ctx context.Context) ([]domain.Video, error)
	GetByID(ctx context.Context, id int64) (*domain.Video, error)
	Create(ctx context.Context, in VideoInput) (*domain.Video, error)
	Update(ctx context.Context, id int64, in VideoInput) (*domain.Video, error)
	Delete(ctx context.Context, id int64) error
}
