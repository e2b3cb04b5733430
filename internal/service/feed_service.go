package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sportscast/sportscast-api-go/internal/cache"
	"github.com/sportscast/sportscast-api-go/internal/db/models"
	"github.com/sportscast/sportscast-api-go/internal/db/repository"
	"github.com/sportscast/sportscast-api-go/pkg/logger"
)

// FeedService serves the public feed, the watch page and the uploader
// dashboard reads.
type FeedService struct {
	videos    repository.VideoRepository
	feedCache cache.FeedCache
	log       *zap.Logger
}

// NewFeedService creates a FeedService. feedCache may be nil, in which case
// every read goes to the database.
func NewFeedService(videos repository.VideoRepository, feedCache cache.FeedCache) *FeedService {
	return &FeedService{
		videos:    videos,
		feedCache: feedCache,
		log:       logger.Named("feed"),
	}
}

// Feed returns every video, newest first. Results are cached for the
// configured revalidation window; cache failures degrade to a database read.
func (s *FeedService) Feed(ctx context.Context) ([]*models.Video, error) {
	if s.feedCache != nil {
		videos, hit, err := s.feedCache.GetFeed(ctx)
		if err != nil {
			s.log.Warn("feed cache read failed", zap.Error(err))
		} else if hit {
			return videos, nil
		}
	}

	videos, err := s.videos.ListByUploadDate(ctx)
	if err != nil {
		return nil, err
	}

	if s.feedCache != nil {
		if err := s.feedCache.SetFeed(ctx, videos); err != nil {
			s.log.Warn("feed cache write failed", zap.Error(err))
		}
	}

	return videos, nil
}

// Watch returns one video for playback and bumps its view counter. The
// increment is fire-and-forget: playback is never delayed or failed by it.
func (s *FeedService) Watch(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	video, err := s.videos.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	go func() {
		ctx := context.WithoutCancel(ctx)
		if err := s.videos.IncrementViews(ctx, id); err != nil {
			s.log.Warn("failed to increment views",
				zap.String("videoId", id.String()),
				zap.Error(err))
		}
	}()

	return video, nil
}

// Dashboard returns one uploader's videos, newest first.
func (s *FeedService) Dashboard(ctx context.Context, uploaderID uuid.UUID) ([]*models.Video, error) {
	return s.videos.ListByUploader(ctx, uploaderID)
}
