package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/qvideo/rental-api/internal/core/domain"
)

// VideoRepository implements ports.VideoRepository on the videos table.
type VideoRepository struct {
	db *sql.DB
}

func NewVideoRepository(db *sql.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

const videoColumns = `video_id, title, director, genre, is_available`

func (r *VideoRepository) FindAll(ctx context.Context) ([]domain.Video, error) {
	return r.query(ctx, `SELECT `+videoColumns+` FROM videos ORDER BY video_id`)
}

func (r *VideoRepository) FindByAvailable(ctx context.Context, available bool) ([]domain.Video, error) {
	return r.query(ctx, `SELECT `+videoColumns+` FROM videos WHERE is_available = $1 ORDER BY video_id`, available)
}

func (r *VideoRepository) query(ctx context.Context, query string, args ...any) ([]domain.Video, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query videos: %w", err)
	}
	defer rows.Close()

	videos := make([]domain.Video, 0)
	for rows.Next() {
		var v domain.Video
		if err := rows.Scan(&v.ID, &v.Title, &v.Director, &v.Genre, &v.Available); err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos: %w", err)
	}
	return videos, nil
}

func (r *VideoRepository) FindByID(ctx context.Context, id int64) (*domain.Video, error) {
	var v domain.Video
	err := r.db.QueryRowContext(ctx, `SELECT `+videoColumns+` FROM videos WHERE video_id = $1`, id).
		Scan(&v.ID, &v.Title, &v.Director, &v.Genre, &v.Available)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrVideoNotFound
		}
		return nil, fmt.Errorf("find video: %w", err)
	}
	return &v, nil
}

func (r *VideoRepository) Create(ctx context.Context, v *domain.Video) error {
	const query = `
		INSERT INTO videos (title, director, genre, is_available)
		VALUES ($1, $2, $3, $4)
		RETURNING video_id`
	if err := r.db.QueryRowContext(ctx, query, v.Title, v.Director, v.Genre, v.Available).Scan(&v.ID); err != nil {
		return fmt.Errorf("insert video: %w", err)
	}
	return nil
}

func (r *VideoRepository) Update(ctx context.Context, v *domain.Video) error {
	const query = `
		UPDATE videos
		SET title = $1,
			director = $2,
			genre = $3,
			is_available = $4
		WHERE video_id = $5`
	result, err := r.db.ExecContext(ctx, query, v.Title, v.Director, v.Genre, v.Available, v.ID)
	if err != nil {
		return fmt.Errorf("update video: %w", err)
	}
	return expectOneRow(result)
}

func (r *VideoRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM videos WHERE video_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	return expectOneRow(result)
}

func expectOneRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrVideoNotFound
	}
	return nil
}
