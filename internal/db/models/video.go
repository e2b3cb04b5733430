package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SportCategory is the closed set of categories a video can belong to.
type SportCategory string

// SportCategory constants define the valid categories.
const (
	SportFootball    SportCategory = "Football"
	SportBasketball  SportCategory = "Basketball"
	SportMotorsports SportCategory = "Motorsports"
	SportGaming      SportCategory = "Gaming"
	SportOther       SportCategory = "Other"
)

// SportCategories lists every valid category, in display order.
var SportCategories = []SportCategory{
	SportFootball,
	SportBasketball,
	SportMotorsports,
	SportGaming,
	SportOther,
}

// ParseSportCategory converts a string into a SportCategory, rejecting anything
// outside the closed set.
func ParseSportCategory(s string) (SportCategory, error) {
	switch SportCategory(s) {
	case SportFootball, SportBasketball, SportMotorsports, SportGaming, SportOther:
		return SportCategory(s), nil
	default:
		return "", fmt.Errorf("unknown sport category: %q", s)
	}
}

// IsValid reports whether the category is one of the closed set.
func (s SportCategory) IsValid() bool {
	_, err := ParseSportCategory(string(s))
	return err == nil
}

// Video represents one uploaded video's metadata record.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type Video struct {
	ID           uuid.UUID     `db:"id" json:"id"`
	Title        string        `db:"title" json:"title"`
	Description  string        `db:"description" json:"description"`
	Sport        SportCategory `db:"sport" json:"sport"`
	VideoURL     string        `db:"video_url" json:"videoUrl"`
	ThumbnailURL string        `db:"thumbnail_url" json:"thumbnailUrl"`
	UploaderID   uuid.UUID     `db:"uploader_id" json:"uploaderId"`
	UploadDate   time.Time     `db:"upload_date" json:"uploadDate"`
	Views        int64         `db:"views" json:"views"`
	Likes        int64         `db:"likes" json:"likes"`
}

// NewVideo creates a metadata record for a freshly uploaded video. Counters
// start at zero; the upload date is assigned by the database on insert.
func NewVideo(uploaderID uuid.UUID, title, description string, sport SportCategory, videoURL, thumbnailURL string) *Video {
	return &Video{
		ID:           uuid.New(),
		Title:        title,
		Description:  description,
		Sport:        sport,
		VideoURL:     videoURL,
		ThumbnailURL: thumbnailURL,
		UploaderID:   uploaderID,
	}
}

// ApplyEdit updates the three user-editable fields. Everything else, including
// the uploader, upload date, counters and object URLs, is untouched.
func (v *Video) ApplyEdit(title, description string, sport SportCategory) {
	v.Title = title
	v.Description = description
	v.Sport = sport
}
