// Package validation enforces the field constraints for video records and
// upload payloads before any network call is made.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sportscast/sportscast-api-go/internal/db/models"
)

const (
	minTitleLength       = 5
	minDescriptionLength = 10
	minPasswordLength    = 8
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// AcceptedVideoTypes are the MIME types allowed for video uploads.
var AcceptedVideoTypes = []string{"video/mp4"}

// AcceptedImageTypes are the MIME types allowed for thumbnail uploads.
var AcceptedImageTypes = []string{"image/jpeg", "image/png", "image/webp"}

// FieldError describes a constraint violation on a single input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors is the collection of violations found in one request.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fmt.Sprintf("%s: %s", fe.Field, fe.Message)
	}
	return strings.Join(parts, "; ")
}

// Validator checks upload and edit inputs against the configured size bounds.
type Validator struct {
	maxVideoSize     int64
	maxThumbnailSize int64
}

// New creates a Validator with the given upload size bounds in bytes.
func New(maxVideoSize, maxThumbnailSize int64) *Validator {
	return &Validator{
		maxVideoSize:     maxVideoSize,
		maxThumbnailSize: maxThumbnailSize,
	}
}

// ValidateDetails checks title, description and sport. It returns the parsed
// category alongside any violations.
func (v *Validator) ValidateDetails(title, description, sport string) (models.SportCategory, FieldErrors) {
	var errs FieldErrors

	if len(strings.TrimSpace(title)) < minTitleLength {
		errs = append(errs, FieldError{
			Field:   "title",
			Message: fmt.Sprintf("must be at least %d characters", minTitleLength),
		})
	}

	if len(strings.TrimSpace(description)) < minDescriptionLength {
		errs = append(errs, FieldError{
			Field:   "description",
			Message: fmt.Sprintf("must be at least %d characters", minDescriptionLength),
		})
	}

	category, err := models.ParseSportCategory(sport)
	if err != nil {
		errs = append(errs, FieldError{
			Field:   "sport",
			Message: fmt.Sprintf("must be one of %v", models.SportCategories),
		})
	}

	return category, errs
}

// ValidateVideoFile checks the video payload's presence, size and format.
func (v *Validator) ValidateVideoFile(contentType string, size int64) FieldErrors {
	var errs FieldErrors

	if size <= 0 {
		errs = append(errs, FieldError{Field: "video", Message: "video file is required"})
		return errs
	}

	if size > v.maxVideoSize {
		errs = append(errs, FieldError{
			Field:   "video",
			Message: fmt.Sprintf("max file size is %dMB", v.maxVideoSize/(1024*1024)),
		})
	}

	if !contains(AcceptedVideoTypes, contentType) {
		errs = append(errs, FieldError{Field: "video", Message: "please upload a video in MP4 format"})
	}

	return errs
}

// ValidateThumbnailFile checks an uploaded thumbnail image's size and format.
func (v *Validator) ValidateThumbnailFile(contentType string, size int64) FieldErrors {
	var errs FieldErrors

	if size <= 0 {
		errs = append(errs, FieldError{Field: "thumbnail", Message: "thumbnail file is empty"})
		return errs
	}

	if size > v.maxThumbnailSize {
		errs = append(errs, FieldError{
			Field:   "thumbnail",
			Message: fmt.Sprintf("max thumbnail file size is %dMB", v.maxThumbnailSize/(1024*1024)),
		})
	}

	if !contains(AcceptedImageTypes, contentType) {
		errs = append(errs, FieldError{
			Field:   "thumbnail",
			Message: "only .jpg, .png, and .webp formats are supported for thumbnails",
		})
	}

	return errs
}

// ValidateCredentials checks signup input.
func (v *Validator) ValidateCredentials(email, displayName, password string) FieldErrors {
	var errs FieldErrors

	if !emailRegex.MatchString(email) {
		errs = append(errs, FieldError{Field: "email", Message: "invalid email address"})
	}

	if strings.TrimSpace(displayName) == "" {
		errs = append(errs, FieldError{Field: "displayName", Message: "display name is required"})
	}

	if len(password) < minPasswordLength {
		errs = append(errs, FieldError{
			Field:   "password",
			Message: fmt.Sprintf("must be at least %d characters", minPasswordLength),
		})
	}

	return errs
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
