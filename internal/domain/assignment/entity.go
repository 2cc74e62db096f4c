// internal/domain/assignment/entity.go
package assignment

import "time"

// AssignedVideo is one video inside a weekly assignment. Checked is the
// only mutable field after materialization.
type AssignedVideo struct {
	VideoID int64 `json:"video_id"`
	Checked bool  `json:"checked"`
}

// WeeklyAssignment is the materialized video set for one (order, week)
// pair. At most one exists per pair; everything except the checked flags
// is immutable once created.
type WeeklyAssignment struct {
	ID        int64           `json:"id" db:"id"`
	OrderID   int64           `json:"order_id" db:"order_id"`
	Week      int             `json:"week" db:"week"`
	Videos    []AssignedVideo `json:"videos" db:"videos"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}
