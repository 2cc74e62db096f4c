// internal/repository/postgres/assignment_repo.go
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"padel-academy-service/internal/domain/assignment"
	xerrors "padel-academy-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AssignmentRepository struct {
	db *pgxpool.Pool
}

func NewAssignmentRepository(db *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Create inserts a weekly assignment. The unique index on
// (order_id, week) turns a duplicate materialization into
// xerrors.ErrDuplicateEntry instead of a second row.
func (r *AssignmentRepository) Create(ctx context.Context, a *assignment.WeeklyAssignment) error {
	query := `
		INSERT INTO weekly_video_assignments (order_id, week, videos)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	videosJSON, err := json.Marshal(a.Videos)
	if err != nil {
		return fmt.Errorf("failed to marshal assignment videos: %w", err)
	}

	err = r.db.QueryRow(ctx, query, a.OrderID, a.Week, videosJSON).
		Scan(&a.ID, &a.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return xerrors.ErrDuplicateEntry
		}
		return fmt.Errorf("failed to create weekly assignment: %w", err)
	}

	return nil
}

// FindByOrderAndWeek retrieves the assignment for one (order, week) pair
func (r *AssignmentRepository) FindByOrderAndWeek(ctx context.Context, orderID int64, week int) (*assignment.WeeklyAssignment, error) {
	query := `
		SELECT id, order_id, week, videos, created_at
		FROM weekly_video_assignments
		WHERE order_id = $1 AND week = $2
	`

	var a assignment.WeeklyAssignment
	var videosJSON []byte

	err := r.db.QueryRow(ctx, query, orderID, week).Scan(
		&a.ID, &a.OrderID, &a.Week, &videosJSON, &a.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find weekly assignment: %w", err)
	}

	if err := json.Unmarshal(videosJSON, &a.Videos); err != nil {
		return nil, fmt.Errorf("failed to unmarshal assignment videos: %w", err)
	}

	return &a, nil
}

// ListByOrder retrieves every assignment of one order, oldest week first
func (r *AssignmentRepository) ListByOrder(ctx context.Context, orderID int64) ([]assignment.WeeklyAssignment, error) {
	query := `
		SELECT id, order_id, week, videos, created_at
		FROM weekly_video_assignments
		WHERE order_id = $1
		ORDER BY week ASC
	`

	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list weekly assignments: %w", err)
	}
	defer rows.Close()

	assignments := []assignment.WeeklyAssignment{}
	for rows.Next() {
		var a assignment.WeeklyAssignment
		var videosJSON []byte
		if err := rows.Scan(&a.ID, &a.OrderID, &a.Week, &videosJSON, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan weekly assignment: %w", err)
		}
		if err := json.Unmarshal(videosJSON, &a.Videos); err != nil {
			return nil, fmt.Errorf("failed to unmarshal assignment videos: %w", err)
		}
		assignments = append(assignments, a)
	}

	return assignments, rows.Err()
}

// UpdateVideos rewrites the checked-state list of one assignment. The
// single-row update is the only mutation allowed after materialization.
func (r *AssignmentRepository) UpdateVideos(ctx context.Context, id int64, videos []assignment.AssignedVideo) error {
	videosJSON, err := json.Marshal(videos)
	if err != nil {
		return fmt.Errorf("failed to marshal assignment videos: %w", err)
	}

	query := `UPDATE weekly_video_assignments SET videos = $1 WHERE id = $2`

	result, err := r.db.Exec(ctx, query, videosJSON, id)
	if err != nil {
		return fmt.Errorf("failed to update assignment videos: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// DeleteByOrder removes every assignment of an order. Re-running it is
// a no-op, which keeps the expiry pass safe to retry.
func (r *AssignmentRepository) DeleteByOrder(ctx context.Context, orderID int64) error {
	query := `DELETE FROM weekly_video_assignments WHERE order_id = $1`

	if _, err := r.db.Exec(ctx, query, orderID); err != nil {
		return fmt.Errorf("failed to delete weekly assignments: %w", err)
	}

	return nil
}
