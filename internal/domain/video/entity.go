// internal/domain/video/entity.go
package video

import (
	"database/sql"
	"time"
)

// Video is a training video asset hosted on the external video platform,
// tagged with the curriculum weeks it is eligible for.
type Video struct {
	ID          int64          `json:"id" db:"id"`
	Title       string         `json:"title" db:"title"`
	Description sql.NullString `json:"description,omitempty" db:"description"`
	HostVideoID string         `json:"host_video_id" db:"host_video_id"`
	Weeks       []int          `json:"weeks" db:"weeks"`
	IsCoach     bool           `json:"is_coach" db:"is_coach"`
	Active      bool           `json:"active" db:"active"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}
