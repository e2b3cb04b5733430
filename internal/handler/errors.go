// Package handler provides HTTP request handlers for the application.
package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sportscast/sportscast-api-go/internal/db"
	"github.com/sportscast/sportscast-api-go/internal/models"
	"github.com/sportscast/sportscast-api-go/internal/service"
	"github.com/sportscast/sportscast-api-go/internal/thumbnail"
	"github.com/sportscast/sportscast-api-go/pkg/logger"
)

// handleError maps service and storage failures onto HTTP responses.
func handleError(c *gin.Context, err error) {
	path := c.Request.URL.Path

	var verr *service.ValidationError
	var gerr *thumbnail.GenerationError
	var uerr *service.UploadError
	var werr *service.WriteError

	switch {
	case errors.As(err, &verr):
		logger.Log.Warn("Validation error", zap.Error(err), zap.String("path", path))
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Status:    http.StatusBadRequest,
			Error:     "Bad Request",
			Message:   "Validation failed",
			Fields:    verr.Fields,
			Timestamp: time.Now(),
			Path:      path,
		})

	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Status:    http.StatusUnauthorized,
			Error:     "Unauthorized",
			Message:   err.Error(),
			Timestamp: time.Now(),
			Path:      path,
		})

	case errors.Is(err, db.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Status:    http.StatusNotFound,
			Error:     "Not Found",
			Message:   "The requested resource does not exist",
			Timestamp: time.Now(),
			Path:      path,
		})

	case errors.Is(err, db.ErrDuplicateKey):
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Status:    http.StatusConflict,
			Error:     "Conflict",
			Message:   "An account with this email already exists",
			Timestamp: time.Now(),
			Path:      path,
		})

	case errors.As(err, &gerr):
		logger.Log.Error("Thumbnail generation error", zap.Error(err), zap.String("path", path))
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Status:    http.StatusBadGateway,
			Error:     "Bad Gateway",
			Message:   "Thumbnail generation failed, please try again",
			Timestamp: time.Now(),
			Path:      path,
		})

	case errors.As(err, &uerr):
		logger.Log.Error("Storage error", zap.Error(err), zap.String("path", path))
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Status:    http.StatusBadGateway,
			Error:     "Bad Gateway",
			Message:   "Media storage is unavailable, please try again",
			Timestamp: time.Now(),
			Path:      path,
		})

	case errors.As(err, &werr):
		logger.Log.Error("Write error", zap.Error(err), zap.String("path", path))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Status:    http.StatusInternalServerError,
			Error:     "Internal Server Error",
			Message:   "Failed to save changes",
			Timestamp: time.Now(),
			Path:      path,
		})

	default:
		logger.Log.Error("Unexpected error", zap.Error(err), zap.String("path", path))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Status:    http.StatusInternalServerError,
			Error:     "Internal Server Error",
			Message:   "An unexpected error occurred",
			Timestamp: time.Now(),
			Path:      path,
		})
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Status:    http.StatusBadRequest,
		Error:     "Bad Request",
		Message:   message,
		Timestamp: time.Now(),
		Path:      c.Request.URL.Path,
	})
}
