// Package repository provides data access for videos and users.
package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sportscast/sportscast-api-go/internal/db"
	"github.com/sportscast/sportscast-api-go/internal/db/models"
)

// VideoRepository defines operations for managing video records.
type VideoRepository interface {
	// Create inserts a new video record. The upload date is assigned by the
	// database server clock and written back to the model.
	Create(ctx context.Context, video *models.Video) error

	// GetByID retrieves a single video record.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Video, error)

	// ListByUploadDate retrieves all videos ordered by upload date descending.
	ListByUploadDate(ctx context.Context) ([]*models.Video, error)

	// ListByUploader retrieves one user's videos ordered by upload date descending.
	ListByUploader(ctx context.Context, uploaderID uuid.UUID) ([]*models.Video, error)

	// UpdateDetails applies a partial update to title, description and sport
	// for a video owned by uploaderID. Returns the updated record.
	UpdateDetails(ctx context.Context, id, uploaderID uuid.UUID, title, description string, sport models.SportCategory) (*models.Video, error)

	// Delete removes a video record owned by uploaderID.
	Delete(ctx context.Context, id, uploaderID uuid.UUID) error

	// IncrementViews bumps the view counter by one using a server-side
	// atomic increment.
	IncrementViews(ctx context.Context, id uuid.UUID) error
}

type videoRepository struct {
	pool *pgxpool.Pool
}

// NewVideoRepository creates a new VideoRepository.
func NewVideoRepository(pool *pgxpool.Pool) VideoRepository {
	return &videoRepository{pool: pool}
}

const videoColumns = `id, title, description, sport, video_url, thumbnail_url, uploader_id, upload_date, views, likes`

func (r *videoRepository) Create(ctx context.Context, video *models.Video) error {
	query := `
		INSERT INTO videos (id, title, description, sport, video_url, thumbnail_url, uploader_id, views, likes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 0, 0)
		RETURNING upload_date, views, likes
	`

	err := r.pool.QueryRow(ctx, query,
		video.ID,
		video.Title,
		video.Description,
		video.Sport,
		video.VideoURL,
		video.ThumbnailURL,
		video.UploaderID,
	).Scan(
		&video.UploadDate,
		&video.Views,
		&video.Likes,
	)

	if err != nil {
		return db.WrapError(err, "create video")
	}

	return nil
}

func (r *videoRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE id = $1`

	video := &models.Video{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&video.ID,
		&video.Title,
		&video.Description,
		&video.Sport,
		&video.VideoURL,
		&video.ThumbnailURL,
		&video.UploaderID,
		&video.UploadDate,
		&video.Views,
		&video.Likes,
	)

	if err != nil {
		return nil, db.WrapError(err, "get video by id")
	}

	return video, nil
}

func (r *videoRepository) ListByUploadDate(ctx context.Context) ([]*models.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos ORDER BY upload_date DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, db.WrapError(err, "list videos by upload date")
	}
	defer rows.Close()

	return scanVideos(rows)
}

func (r *videoRepository) ListByUploader(ctx context.Context, uploaderID uuid.UUID) ([]*models.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE uploader_id = $1 ORDER BY upload_date DESC`

	rows, err := r.pool.Query(ctx, query, uploaderID)
	if err != nil {
		return nil, db.WrapError(err, "list videos by uploader")
	}
	defer rows.Close()

	return scanVideos(rows)
}

func (r *videoRepository) UpdateDetails(ctx context.Context, id, uploaderID uuid.UUID, title, description string, sport models.SportCategory) (*models.Video, error) {
	query := `
		UPDATE videos
		SET title = $3, description = $4, sport = $5
		WHERE id = $1 AND uploader_id = $2
		RETURNING ` + videoColumns

	video := &models.Video{}
	err := r.pool.QueryRow(ctx, query, id, uploaderID, title, description, sport).Scan(
		&video.ID,
		&video.Title,
		&video.Description,
		&video.Sport,
		&video.VideoURL,
		&video.ThumbnailURL,
		&video.UploaderID,
		&video.UploadDate,
		&video.Views,
		&video.Likes,
	)

	if err != nil {
		return nil, db.WrapError(err, "update video details")
	}

	return video, nil
}

func (r *videoRepository) Delete(ctx context.Context, id, uploaderID uuid.UUID) error {
	query := `DELETE FROM videos WHERE id = $1 AND uploader_id = $2`

	tag, err := r.pool.Exec(ctx, query, id, uploaderID)
	if err != nil {
		return db.WrapError(err, "delete video")
	}

	if tag.RowsAffected() == 0 {
		return db.WrapError(pgx.ErrNoRows, "delete video")
	}

	return nil
}

func (r *videoRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE videos SET views = views + 1 WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return db.WrapError(err, "increment views")
	}

	if tag.RowsAffected() == 0 {
		return db.WrapError(pgx.ErrNoRows, "increment views")
	}

	return nil
}

// Helper function to scan multiple videos from query results
func scanVideos(rows pgx.Rows) ([]*models.Video, error) {
	var videos []*models.Video

	for rows.Next() {
		video := &models.Video{}
		err := rows.Scan(
			&video.ID,
			&video.Title,
			&video.Description,
			&video.Sport,
			&video.VideoURL,
			&video.ThumbnailURL,
			&video.UploaderID,
			&video.UploadDate,
			&video.Views,
			&video.Likes,
		)
		if err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos: %w", err)
	}

	return videos, nil
}
