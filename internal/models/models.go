// Package models contains the request and response DTOs for the HTTP API.
package models

import (
	"time"

	"github.com/google/uuid"

	dbmodels "github.com/sportscast/sportscast-api-go/internal/db/models"
)

// SignupRequestDTO represents the account creation request.
type SignupRequestDTO struct {
	Email       string `json:"email" binding:"required,max=254"`
	DisplayName string `json:"displayName" binding:"required,max=100"`
	Password    string `json:"password" binding:"required,max=128"`
}

// LoginRequestDTO represents the login request.
type LoginRequestDTO struct {
	Email    string `json:"email" binding:"required,max=254"`
	Password string `json:"password" binding:"required,max=128"`
}

// AuthResponseDTO represents a successful signup or login.
type AuthResponseDTO struct {
	Token string         `json:"token"`
	User  *dbmodels.User `json:"user"`
}

// EditVideoRequestDTO represents the editable subset of a video record.
type EditVideoRequestDTO struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"required,max=2000"`
	Sport       string `json:"sport" binding:"required,max=50"`
}

// GenerateThumbnailRequestDTO represents a thumbnail generation request.
type GenerateThumbnailRequestDTO struct {
	Prompt string `json:"prompt" binding:"required,max=1000"`
}

// GenerateThumbnailResponseDTO carries the generated thumbnail back to the
// uploader as a data URI for preview and resubmission.
type GenerateThumbnailResponseDTO struct {
	ThumbnailDataURI string `json:"thumbnailDataUri"`
}

// UploadResponseDTO represents a successful video publication.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type UploadResponseDTO struct {
	VideoID    uuid.UUID `json:"videoId"`
	VideoURL   string    `json:"videoUrl"`
	Thumbnail  string    `json:"thumbnailUrl"`
	UploadDate time.Time `json:"uploadDate"`
}

// ErrorResponse represents an error response.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ErrorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
	Fields    any       `json:"fields,omitempty"`
}
