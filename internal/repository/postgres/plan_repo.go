// internal/repository/postgres/plan_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"padel-academy-service/internal/domain/plan"
	xerrors "padel-academy-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const planColumns = `
	id, name, description, price, is_coach, active, days_active, benefits,
	created_at, updated_at`

type PlanRepository struct {
	db *pgxpool.Pool
}

func NewPlanRepository(db *pgxpool.Pool) *PlanRepository {
	return &PlanRepository{db: db}
}

func scanPlan(row pgx.Row, p *plan.Plan) error {
	return row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.IsCoach, &p.Active,
		&p.DaysActive, &p.Benefits, &p.CreatedAt, &p.UpdatedAt,
	)
}

// Create inserts a new plan
func (r *PlanRepository) Create(ctx context.Context, p *plan.Plan) error {
	query := `
		INSERT INTO plans (name, description, price, is_coach, active, days_active, benefits)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		p.Name, p.Description, p.Price, p.IsCoach, p.Active, p.DaysActive, p.Benefits,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create plan: %w", err)
	}

	return nil
}

// FindByID retrieves a plan by ID
func (r *PlanRepository) FindByID(ctx context.Context, id int64) (*plan.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE id = $1`

	var p plan.Plan
	err := scanPlan(r.db.QueryRow(ctx, query, id), &p)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find plan: %w", err)
	}

	return &p, nil
}

// List retrieves plans with filters
func (r *PlanRepository) List(ctx context.Context, filters *plan.PlanListFilters) ([]plan.Plan, int64, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	argPos := 1

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
	if filters.Search != "" {
		where += fmt.Sprintf(" AND name ILIKE $%d", argPos)
		args = append(args, "%"+filters.Search+"%")
		argPos++
	}

	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM plans "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count plans: %w", err)
	}

	offset := (filters.Page - 1) * filters.PageSize
	query := fmt.Sprintf(
		"SELECT %s FROM plans %s ORDER BY price ASC LIMIT $%d OFFSET $%d",
		planColumns, where, argPos, argPos+1,
	)
	args = append(args, filters.PageSize, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	plans := []plan.Plan{}
	for rows.Next() {
		var p plan.Plan
		if err := scanPlan(rows, &p); err != nil {
			return nil, 0, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans = append(plans, p)
	}

	return plans, total, rows.Err()
}

// Update updates plan fields in place
func (r *PlanRepository) Update(ctx context.Context, id int64, p *plan.Plan) error {
	query := `
		UPDATE plans
		SET name = $1, description = $2, price = $3, active = $4,
		    days_active = $5, benefits = $6, updated_at = $7
		WHERE id = $8
	`

	result, err := r.db.Exec(
		ctx, query,
		p.Name, p.Description, p.Price, p.Active, p.DaysActive, p.Benefits,
		time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update plan: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// Deactivate hides a plan from the catalog without deleting it; orders
// referencing it keep resolving.
func (r *PlanRepository) Deactivate(ctx context.Context, id int64) error {
	query := `UPDATE plans SET active = false, updated_at = $1 WHERE id = $2`

	result, err := r.db.Exec(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to deactivate plan: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}
