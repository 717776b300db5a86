package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/qvideo/rental-api/internal/metrics"
	"github.com/qvideo/rental-api/internal/core/domain"
	"github.com/qvideo/rental-api/internal/core/ports"
)

// VideoService implements the catalog use cases on top of a VideoRepository.
type VideoService struct {
	repo   ports.VideoRepository
	logger zerolog.Logger
}

func NewVideoService(repo ports.VideoRepository, logger zerolog.Logger) *VideoService {
	return &VideoService{repo: repo, logger: logger}
}

func (s *VideoService) ListAll(ctx context.Context) ([]domain.Video, error) {
	videos, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	return videos, nil
}

// ListAvailable returns only the videos whose availability flag is set.
func (s *VideoService) ListAvailable(ctx context.Context) ([]domain.Video, error) {
	videos, err := s.repo.FindByAvailable(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list available videos: %w", err)
	}
	return videos, nil
}

func (s *VideoService) GetByID(ctx context.Context, id int64) (*domain.Video, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get video %d: %w", id, err)
	}
	return v, nil
}

func (s *VideoService) Create(ctx context.Context, in ports.VideoInput) (*domain.Video, error) {
	if err := validateVideoInput(in); err != nil {
		return nil, err
	}

	v := &domain.Video{
		Title:     strings.TrimSpace(in.Title),
		Director:  strings.TrimSpace(in.Director),
		Genre:     strings.TrimSpace(in.Genre),
		Available: in.Available,
	}
	if err := s.repo.Create(ctx, v); err != nil {
		s.logger.Error().Err(err).Msg("failed to create video")
		return nil, fmt.Errorf("create video: %w", err)
	}

	metrics.VideoMutationsTotal.WithLabelValues("create").Inc()
	s.logger.Info().Int64("video_id", v.ID).Str("title", v.Title).Msg("video created")
	return v, nil
}

// Update replaces all four descriptive fields of an existing video. It never
// creates a record.
func (s *VideoService) Update(ctx context.Context, id int64, in ports.VideoInput) (*domain.Video, error) {
	if err := validateVideoInput(in); err != nil {
		return nil, err
	}

	v, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	v.Title = strings.TrimSpace(in.Title)
	v.Director = strings.TrimSpace(in.Director)
	v.Genre = strings.TrimSpace(in.Genre)
	v.Available = in.Available

	if err := s.repo.Update(ctx, v); err != nil {
		return nil, fmt.Errorf("update video %d: %w", id, err)
	}

	metrics.VideoMutationsTotal.WithLabelValues("update").Inc()
	s.logger.Info().Int64("video_id", v.ID).Msg("video updated")
	return v, nil
}

func (s *VideoService) Delete(ctx context.Context, id int64) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete video %d: %w", id, err)
	}

	metrics.VideoMutationsTotal.WithLabelValues("delete").Inc()
	s.logger.Info().Int64("video_id", id).Msg("video deleted")
	return nil
}

func validateVideoInput(in ports.VideoInput) error {
	fields := []struct{ name, val string }{
		{"title", in.Title},
		{"director", in.Director},
		{"genre", in.Genre},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.val) == "" {
			return fmt.Errorf("%s is required: %w", f.name, domain.ErrValidation)
		}
	}
	return nil
}
