package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sportscast/sportscast-api-go/internal/cache"
	"github.com/sportscast/sportscast-api-go/internal/db"
	"github.com/sportscast/sportscast-api-go/internal/db/models"
	"github.com/sportscast/sportscast-api-go/internal/db/repository"
	"github.com/sportscast/sportscast-api-go/internal/storage"
	"github.com/sportscast/sportscast-api-go/internal/validation"
	"github.com/sportscast/sportscast-api-go/pkg/logger"
)

// VideoService handles the mutating operations on existing videos: editing
// details and deleting a video with its stored objects.
type VideoService struct {
	videos    repository.VideoRepository
	store     storage.ObjectStore
	validator *validation.Validator
	feedCache cache.FeedCache
	publisher EventPublisher
	log       *zap.Logger
}

// NewVideoService creates a VideoService. feedCache and publisher may be nil.
func NewVideoService(
	videos repository.VideoRepository,
	store storage.ObjectStore,
	validator *validation.Validator,
	feedCache cache.FeedCache,
	publisher EventPublisher,
) *VideoService {
	return &VideoService{
		videos:    videos,
		store:     store,
		validator: validator,
		feedCache: feedCache,
		publisher: publisher,
		log:       logger.Named("video"),
	}
}

// Edit updates a video's title, description and sport. Only the owner can
// edit; a mismatched uploader surfaces as db.ErrNotFound. Stored objects,
// counters and the upload date are never touched.
func (s *VideoService) Edit(ctx context.Context, id, uploaderID uuid.UUID, title, description, sport string) (*models.Video, error) {
	category, errs := s.validator.ValidateDetails(title, description, sport)
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	video, err := s.videos.UpdateDetails(ctx, id, uploaderID, title, description, category)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, err
		}
		return nil, &WriteError{Op: "update video details", Cause: err}
	}

	s.invalidateFeed(ctx)

	s.log.Info("video edited", zap.String("videoId", id.String()))
	return video, nil
}

// Delete removes a video's metadata record and then its stored video and
// thumbnail objects. The record is deleted first so the video disappears from
// the feed immediately; object removal failures are reported but leave the
// record gone.
func (s *VideoService) Delete(ctx context.Context, id, uploaderID uuid.UUID) error {
	video, err := s.videos.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.videos.Delete(ctx, id, uploaderID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return err
		}
		return &WriteError{Op: "delete video record", Cause: err}
	}

	s.invalidateFeed(ctx)

	if s.publisher != nil {
		if err := s.publisher.PublishVideoDeleted(ctx, video); err != nil {
			s.log.Warn("failed to publish delete event",
				zap.String("videoId", id.String()),
				zap.Error(err))
		}
	}

	var removalErrs []error
	for _, url := range []string{video.VideoURL, video.ThumbnailURL} {
		key, err := s.store.KeyFromURL(url)
		if err != nil {
			removalErrs = append(removalErrs, err)
			continue
		}
		if err := s.store.Remove(ctx, key); err != nil {
			removalErrs = append(removalErrs, &UploadError{Key: key, Cause: err})
		}
	}
	if len(removalErrs) > 0 {
		return errors.Join(removalErrs...)
	}

	s.log.Info("video deleted", zap.String("videoId", id.String()))
	return nil
}

func (s *VideoService) invalidateFeed(ctx context.Context) {
	if s.feedCache == nil {
		return
	}
	if err := s.feedCache.Invalidate(ctx); err != nil {
		s.log.Warn("failed to invalidate feed cache", zap.Error(err))
	}
}
