// internal/repository/postgres/counter_repo.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CounterRepository backs monotonic sequences with a dedicated counter
// row per name. The increment-and-read is a single statement, so it is
// atomic without any extra locking.
type CounterRepository struct {
	db *pgxpool.Pool
}

func NewCounterRepository(db *pgxpool.Pool) *CounterRepository {
	return &CounterRepository{db: db}
}

// Next increments the named counter and returns its new value.
func (r *CounterRepository) Next(ctx context.Context, name string) (int64, error) {
	query := `
		INSERT INTO counters (name, value)
		VALUES ($1, 1)
		ON CONFLICT (name) DO UPDATE SET value = counters.value + 1
		RETURNING value
	`

	var value int64
	if err := r.db.QueryRow(ctx, query, name).Scan(&value); err != nil {
		return 0, fmt.Errorf("failed to increment counter %q: %w", name, err)
	}

	return value, nil
}
