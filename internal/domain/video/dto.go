// internal/domain/video/dto.go
package video

type CreateVideoRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description"`
	HostVideoID string `json:"host_video_id" binding:"required,max=100"`
	Weeks       []int  `json:"weeks" binding:"required,min=1,dive,min=1"`
	IsCoach     bool   `json:"is_coach"`
}

type UpdateVideoRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=255"`
	Description *string `json:"description"`
	HostVideoID *string `json:"host_video_id" binding:"omitempty,max=100"`
	Weeks       []int   `json:"weeks" binding:"omitempty,dive,min=1"`
	Active      *bool   `json:"active"`
}

type VideoListFilters struct {
	Week     *int  `form:"week"`
	Active   *bool `form:"active"`
	IsCoach  *bool `form:"is_coach"`
	Page     int   `form:"page"`
	PageSize int   `form:"page_size"`
}

type VideoListResponse struct {
	Videos     []Video `json:"videos"`
	Total      int64   `json:"total"`
	Page       int     `json:"page"`
	PageSize   int     `json:"page_size"`
	TotalPages int     `json:"total_pages"`
}
