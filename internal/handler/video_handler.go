package handler

import (
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sportscast/sportscast-api-go/internal/middleware"
	"github.com/sportscast/sportscast-api-go/internal/models"
	"github.com/sportscast/sportscast-api-go/internal/service"
	"github.com/sportscast/sportscast-api-go/pkg/logger"
)

// VideoHandler handles the video publication, browsing and management endpoints.
type VideoHandler struct {
	uploadService *service.UploadService
	feedService   *service.FeedService
	videoService  *service.VideoService
	watcher       *service.DashboardWatcher
}

// NewVideoHandler creates a new VideoHandler instance. watcher may be nil, in
// which case the dashboard stream endpoint reports unavailability.
func NewVideoHandler(
	uploadService *service.UploadService,
	feedService *service.FeedService,
	videoService *service.VideoService,
	watcher *service.DashboardWatcher,
) *VideoHandler {
	return &VideoHandler{
		uploadService: uploadService,
		feedService:   feedService,
		videoService:  videoService,
		watcher:       watcher,
	}
}

// Upload publishes a new video from a multipart form. The thumbnail comes
// from either the "thumbnail" file part or the "thumbnailDataUri" field; when
// both are present the file wins.
func (h *VideoHandler) Upload(c *gin.Context) {
	uploaderID, ok := middleware.UserID(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	req := &service.UploadRequest{
		UploaderID:  uploaderID,
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Sport:       c.PostForm("sport"),
	}

	videoFile, err := c.FormFile("video")
	if err == nil {
		payload, file, perr := openPayload(videoFile)
		if perr != nil {
			badRequest(c, "Could not read video file")
			return
		}
		defer file.Close()
		req.Video = payload
	}

	thumbFile, err := c.FormFile("thumbnail")
	if err == nil {
		payload, file, perr := openPayload(thumbFile)
		if perr != nil {
			badRequest(c, "Could not read thumbnail file")
			return
		}
		defer file.Close()
		req.ThumbnailFile = payload
	} else {
		req.ThumbnailDataURI = c.PostForm("thumbnailDataUri")
	}

	video, err := h.uploadService.Upload(c.Request.Context(), req)
	if err != nil {
		middleware.UploadsTotal.WithLabelValues("failure").Inc()
		handleError(c, err)
		return
	}

	middleware.UploadsTotal.WithLabelValues("success").Inc()
	if req.Video != nil {
		middleware.UploadBytes.Observe(float64(req.Video.Size))
	}

	logger.Log.Info("Video uploaded",
		zap.String("videoId", video.ID.String()),
		zap.String("uploaderId", uploaderID.String()),
	)

	c.JSON(http.StatusCreated, models.UploadResponseDTO{
		VideoID:    video.ID,
		VideoURL:   video.VideoURL,
		Thumbnail:  video.ThumbnailURL,
		UploadDate: video.UploadDate,
	})
}

// Feed returns the public feed, newest first.
func (h *VideoHandler) Feed(c *gin.Context) {
	videos, err := h.feedService.Feed(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"videos": videos})
}

// Watch returns one video for playback. Requesting it counts a view.
func (h *VideoHandler) Watch(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid video id")
		return
	}

	video, err := h.feedService.Watch(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, video)
}

// Edit updates a video's title, description and sport.
func (h *VideoHandler) Edit(c *gin.Context) {
	uploaderID, ok := middleware.UserID(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid video id")
		return
	}

	var req models.EditVideoRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	video, err := h.videoService.Edit(c.Request.Context(), id, uploaderID, req.Title, req.Description, req.Sport)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, video)
}

// Delete removes a video and its stored media.
func (h *VideoHandler) Delete(c *gin.Context) {
	uploaderID, ok := middleware.UserID(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid video id")
		return
	}

	if err := h.videoService.Delete(c.Request.Context(), id, uploaderID); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Dashboard returns the authenticated uploader's videos, newest first.
func (h *VideoHandler) Dashboard(c *gin.Context) {
	uploaderID, ok := middleware.UserID(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	videos, err := h.feedService.Dashboard(c.Request.Context(), uploaderID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"videos": videos})
}

// StreamDashboard streams the uploader's video list as server-sent events.
// The first event is the current snapshot; a fresh snapshot follows every
// change to the uploader's videos until the client disconnects.
func (h *VideoHandler) StreamDashboard(c *gin.Context) {
	uploaderID, ok := middleware.UserID(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	if h.watcher == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "live updates are not available"})
		return
	}

	sub, err := h.watcher.Subscribe(c.Request.Context(), uploaderID)
	if err != nil {
		handleError(c, err)
		return
	}
	defer sub.Stop()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case snapshot, open := <-sub.Updates():
			if !open {
				return false
			}
			c.SSEvent("videos", snapshot)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// openPayload turns a multipart file header into an upload payload. The
// caller closes the returned file after the upload completes.
func openPayload(fh *multipart.FileHeader) (*service.ObjectPayload, multipart.File, error) {
	file, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}

	return &service.ObjectPayload{
		Reader:      file,
		Size:        fh.Size,
		ContentType: fh.Header.Get("Content-Type"),
		Filename:    filepath.Base(fh.Filename),
	}, file, nil
}
