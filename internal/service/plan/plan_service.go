// internal/service/plan/plan_service.go
package plan

import (
	"context"
	"database/sql"
	"fmt"

	"padel-academy-service/internal/domain/plan"
	xerrors "padel-academy-service/internal/pkg/errors"
	"padel-academy-service/internal/repository/postgres"

	"go.uber.org/zap"
)

type PlanService struct {
	planRepo *postgres.PlanRepository
	logger   *zap.Logger
}

func NewPlanService(planRepo *postgres.PlanRepository, logger *zap.Logger) *PlanService {
	return &PlanService{planRepo: planRepo, logger: logger}
}

// CreatePlan creates a new catalog plan (admin only)
func (s *PlanService) CreatePlan(ctx context.Context, req *plan.CreatePlanRequest) (*plan.Plan, error) {
	if !req.DaysActive.Valid() {
		return nil, fmt.Errorf("%w: unknown duration tier %q", xerrors.ErrInvalidInput, req.DaysActive)
	}

	p := &plan.Plan{
		Name:       req.Name,
		Price:      req.Price,
		IsCoach:    req.IsCoach,
		Active:     true,
		DaysActive: req.DaysActive,
		Benefits:   req.Benefits,
	}
	if req.Description != "" {
		p.Description = sql.NullString{String: req.Description, Valid: true}
	}
	if p.Benefits == nil {
		p.Benefits = []string{}
	}

	if err := s.planRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("plan created",
		zap.Int64("plan_id", p.ID),
		zap.String("name", p.Name),
		zap.String("days_active", string(p.DaysActive)),
	)

	return p, nil
}

// GetPlan retrieves a plan by ID
func (s *PlanService) GetPlan(ctx context.Context, planID int64) (*plan.Plan, error) {
	return s.planRepo.FindByID(ctx, planID)
}

// ListPlans retrieves plans with filters
func (s *PlanService) ListPlans(ctx context.Context, filters *plan.PlanListFilters) (*plan.PlanListResponse, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}
	if filters.PageSize > 100 {
		filters.PageSize = 100
	}

	plans, total, err := s.planRepo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	totalPages := int(total) / filters.PageSize
	if int(total)%filters.PageSize > 0 {
		totalPages++
	}

	return &plan.PlanListResponse{
		Plans:      plans,
		Total:      total,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalPages: totalPages,
	}, nil
}

// UpdatePlan updates a plan (admin only)
func (s *PlanService) UpdatePlan(ctx context.Context, planID int64, req *plan.UpdatePlanRequest) (*plan.Plan, error) {
	p, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = sql.NullString{String: *req.Description, Valid: *req.Description != ""}
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Active != nil {
		p.Active = *req.Active
	}
	if req.DaysActive != nil {
		if !req.DaysActive.Valid() {
			return nil, fmt.Errorf("%w: unknown duration tier %q", xerrors.ErrInvalidInput, *req.DaysActive)
		}
		p.DaysActive = *req.DaysActive
	}
	if req.Benefits != nil {
		p.Benefits = req.Benefits
	}

	if err := s.planRepo.Update(ctx, planID, p); err != nil {
		s.logger.Error("failed to update plan", zap.Error(err))
		return nil, fmt.Errorf("failed to update plan: %w", err)
	}

	s.logger.Info("plan updated", zap.Int64("plan_id", planID))

	return s.planRepo.FindByID(ctx, planID)
}

// DeactivatePlan hides a plan from the catalog (admin only)
func (s *PlanService) DeactivatePlan(ctx context.Context, planID int64) error {
	if err := s.planRepo.Deactivate(ctx, planID); err != nil {
		return err
	}

	s.logger.Info("plan deactivated", zap.Int64("plan_id", planID))
	return nil
}
