// internal/repository/postgres/video_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"padel-academy-service/internal/domain/video"
	xerrors "padel-academy-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const videoColumns = `
	id, title, description, host_video_id, weeks, is_coach, active,
	created_at, updated_at`

type VideoRepository struct {
	db *pgxpool.Pool
}

func NewVideoRepository(db *pgxpool.Pool) *VideoRepository {
	return &VideoRepository{db: db}
}

func scanVideo(row pgx.Row, v *video.Video) error {
	return row.Scan(
		&v.ID, &v.Title, &v.Description, &v.HostVideoID, &v.Weeks,
		&v.IsCoach, &v.Active, &v.CreatedAt, &v.UpdatedAt,
	)
}

// Create inserts a new video
func (r *VideoRepository) Create(ctx context.Context, v *video.Video) error {
	query := `
		INSERT INTO videos (title, description, host_video_id, weeks, is_coach, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		v.Title, v.Description, v.HostVideoID, v.Weeks, v.IsCoach, v.Active,
	).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create video: %w", err)
	}

	return nil
}

// FindByID retrieves a video by ID
func (r *VideoRepository) FindByID(ctx context.Context, id int64) (*video.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE id = $1`

	var v video.Video
	err := scanVideo(r.db.QueryRow(ctx, query, id), &v)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find video: %w", err)
	}

	return &v, nil
}

// FindRandomByWeek samples up to limit active videos tagged for the
// given week, uniformly without replacement.
func (r *VideoRepository) FindRandomByWeek(ctx context.Context, week, limit int) ([]int64, error) {
	query := `
		SELECT id FROM videos
		WHERE active = true AND $1 = ANY(weeks)
		ORDER BY random()
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, week, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to sample videos for week %d: %w", week, err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan video id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// List retrieves videos with filters
func (r *VideoRepository) List(ctx context.Context, filters *video.VideoListFilters) ([]video.Video, int64, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	argPos := 1

	if filters.Week != nil {
		where += fmt.Sprintf(" AND $%d = ANY(weeks)", argPos)
		args = append(args, *filters.Week)
		argPos++
	}
	if filters.Active != nil {
		where += fmt.Sprintf(" AND active = $%d", argPos)
		args = append(args, *filters.Active)
		argPos++
	}
	if filters.IsCoach != nil {
		where += fmt.Sprintf(" AND is_coach = $%d", argPos)
		args = append(args, *filters.IsCoach)
		argPos++
	}

	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM videos "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count videos: %w", err)
	}

	offset := (filters.Page - 1) * filters.PageSize
	query := fmt.Sprintf(
		"SELECT %s FROM videos %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		videoColumns, where, argPos, argPos+1,
	)
	args = append(args, filters.PageSize, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list videos: %w", err)
	}
	defer rows.Close()

	videos := []video.Video{}
	for rows.Next() {
		var v video.Video
		if err := scanVideo(rows, &v); err != nil {
			return nil, 0, fmt.Errorf("failed to scan video: %w", err)
		}
		videos = append(videos, v)
	}

	return videos, total, rows.Err()
}

// Update updates video fields in place
func (r *VideoRepository) Update(ctx context.Context, id int64, v *video.Video) error {
	query := `
		UPDATE videos
		SET title = $1, description = $2, host_video_id = $3, weeks = $4,
		    active = $5, updated_at = $6
		WHERE id = $7
	`

	result, err := r.db.Exec(
		ctx, query,
		v.Title, v.Description, v.HostVideoID, v.Weeks, v.Active, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update video: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}
