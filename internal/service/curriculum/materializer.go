// internal/service/curriculum/materializer.go
package curriculum

import (
	"context"
	"errors"
	"fmt"

	"padel-academy-service/internal/domain/assignment"
	xerrors "padel-academy-service/internal/pkg/errors"

	"go.uber.org/zap"
)

// DefaultWeeklyVideoCap bounds how many videos one materialized week holds.
const DefaultWeeklyVideoCap = 10

// AssignmentStore is the persistence surface the materializer needs.
type AssignmentStore interface {
	Create(ctx context.Context, a *assignment.WeeklyAssignment) error
	FindByOrderAndWeek(ctx context.Context, orderID int64, week int) (*assignment.WeeklyAssignment, error)
	ListByOrder(ctx context.Context, orderID int64) ([]assignment.WeeklyAssignment, error)
	UpdateVideos(ctx context.Context, id int64, videos []assignment.AssignedVideo) error
	DeleteByOrder(ctx context.Context, orderID int64) error
}

// VideoSampler samples video ids tagged for a curriculum week.
type VideoSampler interface {
	FindRandomByWeek(ctx context.Context, week, limit int) ([]int64, error)
}

type Service struct {
	assignments AssignmentStore
	videos      VideoSampler
	videoCap    int
	logger      *zap.Logger
}

func NewService(assignments AssignmentStore, videos VideoSampler, videoCap int, logger *zap.Logger) *Service {
	if videoCap <= 0 {
		videoCap = DefaultWeeklyVideoCap
	}
	return &Service{
		assignments: assignments,
		videos:      videos,
		videoCap:    videoCap,
		logger:      logger,
	}
}

// MaterializeWeek samples up to the configured cap of videos tagged for
// the given week and persists them as the (order, week) assignment.
// Idempotent: an existing assignment for the pair is returned untouched,
// and a concurrent duplicate insert resolves to the row that won. A week
// with no tagged videos yields an empty assignment rather than an error
// so curriculum gaps never block progression.
func (s *Service) MaterializeWeek(ctx context.Context, orderID int64, week int) (*assignment.WeeklyAssignment, error) {
	if week < 1 {
		return nil, fmt.Errorf("%w: week must be >= 1", xerrors.ErrInvalidInput)
	}

	existing, err := s.assignments.FindByOrderAndWeek(ctx, orderID, week)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, xerrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing assignment: %w", err)
	}

	videoIDs, err := s.videos.FindRandomByWeek(ctx, week, s.videoCap)
	if err != nil {
		return nil, fmt.Errorf("failed to sample videos: %w", err)
	}

	if len(videoIDs) == 0 {
		s.logger.Warn("no videos tagged for week, materializing empty assignment",
			zap.Int64("order_id", orderID),
			zap.Int("week", week),
		)
	}

	videos := make([]assignment.AssignedVideo, 0, len(videoIDs))
	for _, id := range videoIDs {
		videos = append(videos, assignment.AssignedVideo{VideoID: id, Checked: false})
	}

	a := &assignment.WeeklyAssignment{
		OrderID: orderID,
		Week:    week,
		Videos:  videos,
	}

	if err := s.assignments.Create(ctx, a); err != nil {
		if errors.Is(err, xerrors.ErrDuplicateEntry) {
			// Another writer materialized the same pair first; theirs wins.
			return s.assignments.FindByOrderAndWeek(ctx, orderID, week)
		}
		return nil, fmt.Errorf("failed to persist weekly assignment: %w", err)
	}

	s.logger.Info("weekly assignment materialized",
		zap.Int64("order_id", orderID),
		zap.Int("week", week),
		zap.Int("video_count", len(videos)),
	)

	return a, nil
}

// GetAssignment retrieves the assignment for one (order, week) pair
func (s *Service) GetAssignment(ctx context.Context, orderID int64, week int) (*assignment.WeeklyAssignment, error) {
	return s.assignments.FindByOrderAndWeek(ctx, orderID, week)
}

// ListAssignments retrieves every materialized week of an order
func (s *Service) ListAssignments(ctx context.Context, orderID int64) ([]assignment.WeeklyAssignment, error) {
	return s.assignments.ListByOrder(ctx, orderID)
}

// ToggleVideoChecked flips the checked flag of one video inside an
// assignment and returns the updated assignment.
func (s *Service) ToggleVideoChecked(ctx context.Context, orderID int64, week int, videoID int64) (*assignment.WeeklyAssignment, error) {
	a, err := s.assignments.FindByOrderAndWeek(ctx, orderID, week)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range a.Videos {
		if a.Videos[i].VideoID == videoID {
			a.Videos[i].Checked = !a.Videos[i].Checked
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("video %d not in assignment: %w", videoID, xerrors.ErrNotFound)
	}

	if err := s.assignments.UpdateVideos(ctx, a.ID, a.Videos); err != nil {
		return nil, fmt.Errorf("failed to persist checked state: %w", err)
	}

	return a, nil
}

// DeleteAssignments removes all materialized weeks of an order. Used by
// the expiry pass; safe to re-run.
func (s *Service) DeleteAssignments(ctx context.Context, orderID int64) error {
	return s.assignments.DeleteByOrder(ctx, orderID)
}
