// internal/service/video/video_service.go
package video

import (
	"context"
	"database/sql"
	"fmt"

	"padel-academy-service/internal/domain/video"
	"padel-academy-service/internal/repository/postgres"

	"go.uber.org/zap"
)

type VideoService struct {
	videoRepo *postgres.VideoRepository
	logger    *zap.Logger
}

func NewVideoService(videoRepo *postgres.VideoRepository, logger *zap.Logger) *VideoService {
	return &VideoService{videoRepo: videoRepo, logger: logger}
}

// CreateVideo registers a hosted training video with its week tags (admin only)
func (s *VideoService) CreateVideo(ctx context.Context, req *video.CreateVideoRequest) (*video.Video, error) {
	v := &video.Video{
		Title:       req.Title,
		HostVideoID: req.HostVideoID,
		Weeks:       req.Weeks,
		IsCoach:     req.IsCoach,
		Active:      true,
	}
	if req.Description != "" {
		v.Description = sql.NullString{String: req.Description, Valid: true}
	}

	if err := s.videoRepo.Create(ctx, v); err != nil {
		return nil, err
	}

	s.logger.Info("video created",
		zap.Int64("video_id", v.ID),
		zap.String("host_video_id", v.HostVideoID),
		zap.Ints("weeks", v.Weeks),
	)

	return v, nil
}

// GetVideo retrieves a video by ID
func (s *VideoService) GetVideo(ctx context.Context, videoID int64) (*video.Video, error) {
	return s.videoRepo.FindByID(ctx, videoID)
}

// ListVideos retrieves videos with filters
func (s *VideoService) ListVideos(ctx context.Context, filters *video.VideoListFilters) (*video.VideoListResponse, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}
	if filters.PageSize > 100 {
		filters.PageSize = 100
	}

	videos, total, err := s.videoRepo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}

	totalPages := int(total) / filters.PageSize
	if int(total)%filters.PageSize > 0 {
		totalPages++
	}

	return &video.VideoListResponse{
		Videos:     videos,
		Total:      total,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalPages: totalPages,
	}, nil
}

// UpdateVideo updates video fields (admin only)
func (s *VideoService) UpdateVideo(ctx context.Context, videoID int64, req *video.UpdateVideoRequest) (*video.Video, error) {
	v, err := s.videoRepo.FindByID(ctx, videoID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		v.Title = *req.Title
	}
	if req.Description != nil {
		v.Description = sql.NullString{String: *req.Description, Valid: *req.Description != ""}
	}
	if req.HostVideoID != nil {
		v.HostVideoID = *req.HostVideoID
	}
	if req.Weeks != nil {
		v.Weeks = req.Weeks
	}
	if req.Active != nil {
		v.Active = *req.Active
	}

	if err := s.videoRepo.Update(ctx, videoID, v); err != nil {
		s.logger.Error("failed to update video", zap.Error(err))
		return nil, fmt.Errorf("failed to update video: %w", err)
	}

	s.logger.Info("video updated", zap.Int64("video_id", videoID))

	return s.videoRepo.FindByID(ctx, videoID)
}
