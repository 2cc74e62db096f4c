// internal/domain/plan/dto.go
package plan

type CreatePlanRequest struct {
	Name        string   `json:"name" binding:"required,max=255"`
	Description string   `json:"description"`
	Price       float64  `json:"price" binding:"required,min=0"`
	IsCoach     bool     `json:"is_coach"`
	DaysActive  Duration `json:"days_active" binding:"required"`
	Benefits    []string `json:"benefits"`
}

type UpdatePlanRequest struct {
	Name        *string   `json:"name" binding:"omitempty,max=255"`
	Description *string   `json:"description"`
	Price       *float64  `json:"price" binding:"omitempty,min=0"`
	Active      *bool     `json:"active"`
	DaysActive  *Duration `json:"days_active"`
	Benefits    []string  `json:"benefits"`
}

type PlanListFilters struct {
	Active   *bool  `form:"active"`
	IsCoach  *bool  `form:"is_coach"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Search   string `form:"search"`
}

type PlanListResponse struct {
	Plans      []Plan `json:"plans"`
	Total      int64  `json:"total"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	TotalPages int    `json:"total_pages"`
}
