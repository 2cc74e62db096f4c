// internal/handlers/video/video_handler.go
package video

import (
	"net/http"
	"strconv"

	"padel-academy-service/internal/domain/video"
	"padel-academy-service/internal/pkg/response"
	service "padel-academy-service/internal/service/video"

	"github.com/gin-gonic/gin"
)

type VideoHandler struct {
	videoService *service.VideoService
}

func NewVideoHandler(videoService *service.VideoService) *VideoHandler {
	return &VideoHandler{videoService: videoService}
}

// ListVideos retrieves videos with filters (admin only)
func (h *VideoHandler) ListVideos(c *gin.Context) {
	var filters video.VideoListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid query parameters", err)
		return
	}

	result, err := h.videoService.ListVideos(c.Request.Context(), &filters)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list videos", err)
		return
	}

	response.Success(c, http.StatusOK, "videos retrieved", result)
}

// GetVideo retrieves a video by ID (admin only)
func (h *VideoHandler) GetVideo(c *gin.Context) {
	videoID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid video ID", err)
		return
	}

	result, err := h.videoService.GetVideo(c.Request.Context(), videoID)
	if err != nil {
		response.Error(c, http.StatusNotFound, "video not found", err)
		return
	}

	response.Success(c, http.StatusOK, "video retrieved", result)
}

// CreateVideo registers a hosted training video (admin only)
func (h *VideoHandler) CreateVideo(c *gin.Context) {
	var req video.CreateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.videoService.CreateVideo(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "failed to create video", err)
		return
	}

	response.Success(c, http.StatusCreated, "video created successfully", result)
}

// UpdateVideo updates a video (admin only)
func (h *VideoHandler) UpdateVideo(c *gin.Context) {
	videoID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid video ID", err)
		return
	}

	var req video.UpdateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.videoService.UpdateVideo(c.Request.Context(), videoID, &req)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "failed to update video", err)
		return
	}

	response.Success(c, http.StatusOK, "video updated", result)
}
