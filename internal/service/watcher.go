package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/sportscast/sportscast-api-go/internal/db/models"
	"github.com/sportscast/sportscast-api-go/internal/db/repository"
	"github.com/sportscast/sportscast-api-go/pkg/logger"
)

// videoChangeChannel is the notification channel raised by the database
// trigger on every video insert, update and delete. The payload is the
// uploader id of the affected row.
const videoChangeChannel = "video_changes"

// Subscription is a live view over one uploader's video list. Updates carries
// a fresh snapshot after every relevant change; only the latest snapshot is
// retained when the consumer is slow.
type Subscription struct {
	updates chan []*models.Video
	stop    context.CancelFunc
	once    sync.Once
}

// Updates returns the snapshot channel. It is closed when the subscription
// ends.
func (s *Subscription) Updates() <-chan []*models.Video {
	return s.updates
}

// Stop ends the subscription and releases its database connection.
func (s *Subscription) Stop() {
	s.once.Do(s.stop)
}

// DashboardWatcher delivers live dashboard updates by listening for video
// change notifications on a dedicated database connection per subscriber.
type DashboardWatcher struct {
	pool   *pgxpool.Pool
	videos repository.VideoRepository
	log    *zap.Logger
}

// NewDashboardWatcher creates a DashboardWatcher.
func NewDashboardWatcher(pool *pgxpool.Pool, videos repository.VideoRepository) *DashboardWatcher {
	return &DashboardWatcher{
		pool:   pool,
		videos: videos,
		log:    logger.Named("watcher"),
	}
}

// Subscribe starts a live subscription for uploaderID. The first snapshot is
// delivered immediately; subsequent snapshots follow each change to the
// uploader's videos. The subscription ends when ctx is cancelled or Stop is
// called.
func (w *DashboardWatcher) Subscribe(ctx context.Context, uploaderID uuid.UUID) (*Subscription, error) {
	snapshot, err := w.videos.ListByUploader(ctx, uploaderID)
	if err != nil {
		return nil, err
	}

	conn, err := w.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(ctx, "LISTEN "+videoChangeChannel); err != nil {
		conn.Release()
		return nil, err
	}

	subCtx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		updates: make(chan []*models.Video, 1),
		stop:    cancel,
	}
	sub.updates <- snapshot

	go func() {
		defer conn.Release()
		defer close(sub.updates)

		for {
			notification, err := conn.Conn().WaitForNotification(subCtx)
			if err != nil {
				if subCtx.Err() == nil {
					w.log.Warn("dashboard subscription ended",
						zap.String("uploaderId", uploaderID.String()),
						zap.Error(err))
				}
				return
			}

			if notification.Payload != uploaderID.String() {
				continue
			}

			snapshot, err := w.videos.ListByUploader(subCtx, uploaderID)
			if err != nil {
				w.log.Warn("failed to refresh dashboard snapshot",
					zap.String("uploaderId", uploaderID.String()),
					zap.Error(err))
				continue
			}

			// Keep only the latest snapshot for slow consumers.
			select {
			case sub.updates <- snapshot:
			default:
				select {
				case <-sub.updates:
				default:
				}
				sub.updates <- snapshot
			}
		}
	}()

	return sub, nil
}
