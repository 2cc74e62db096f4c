// internal/domain/plan/entity.go
package plan

import (
	"database/sql"
	"time"
)

// Duration is the paid-duration tier of a plan.
type Duration string

const (
	DurationOneMonth     Duration = "one_month"
	DurationThreeMonths  Duration = "three_months"
	DurationTwelveMonths Duration = "twelve_months"
)

// AllowanceDays is the number of calendar days an approved order stays
// active before it completes.
func (d Duration) AllowanceDays() int {
	switch d {
	case DurationOneMonth:
		return 30
	case DurationThreeMonths:
		return 90
	case DurationTwelveMonths:
		return 360
	default:
		return 0
	}
}

// RetentionDays is the grace period after completion during which the
// order's weekly assignments are kept before expiry deletes them.
// The one- and three-month tiers share the 60-day window while the
// twelve-month tier keeps only 30; this mapping is carried over from
// the product rules as-is.
func (d Duration) RetentionDays() int {
	switch d {
	case DurationOneMonth, DurationThreeMonths:
		return 60
	case DurationTwelveMonths:
		return 30
	default:
		return 0
	}
}

// Valid reports whether d is one of the known tiers.
func (d Duration) Valid() bool {
	switch d {
	case DurationOneMonth, DurationThreeMonths, DurationTwelveMonths:
		return true
	}
	return false
}

// Plan is a catalog product. Read-only from the order lifecycle's
// perspective; administrators manage it.
type Plan struct {
	ID          int64          `json:"id" db:"id"`
	Name        string         `json:"name" db:"name"`
	Description sql.NullString `json:"description,omitempty" db:"description"`
	Price       float64        `json:"price" db:"price"`
	IsCoach     bool           `json:"is_coach" db:"is_coach"`
	Active      bool           `json:"active" db:"active"`
	DaysActive  Duration       `json:"days_active" db:"days_active"`
	Benefits    []string       `json:"benefits" db:"benefits"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}
