package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sportscast/sportscast-api-go/internal/cache"
	"github.com/sportscast/sportscast-api-go/internal/db/models"
	"github.com/sportscast/sportscast-api-go/internal/db/repository"
	"github.com/sportscast/sportscast-api-go/internal/storage"
	"github.com/sportscast/sportscast-api-go/internal/thumbnail"
	"github.com/sportscast/sportscast-api-go/internal/validation"
	"github.com/sportscast/sportscast-api-go/pkg/logger"
)

// thumbnailObjectName is the fixed object name for a video's thumbnail inside
// its upload directory.
const thumbnailObjectName = "thumbnail.png"

// ObjectPayload is one binary part of an upload request.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ObjectPayload struct {
	Reader      io.Reader
	Size        int64
	ContentType string
	Filename    string
}

// UploadRequest carries everything needed to publish one video. Exactly one of
// ThumbnailFile and ThumbnailDataURI must be set.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type UploadRequest struct {
	UploaderID  uuid.UUID
	Title       string
	Description string
	Sport       string

	Video         *ObjectPayload
	ThumbnailFile *ObjectPayload

	// ThumbnailDataURI is a pre-generated thumbnail as a base64 data URI.
	ThumbnailDataURI string

	// Progress, if non-nil, receives combined upload progress in [0,100].
	Progress storage.ProgressFunc
}

// UploadService orchestrates the video publication pipeline: validate, store
// both binaries, then write the metadata record.
type UploadService struct {
	videos    repository.VideoRepository
	store     storage.ObjectStore
	validator *validation.Validator
	feedCache cache.FeedCache
	publisher EventPublisher
	log       *zap.Logger

	// now is swapped in tests to pin the upload directory name.
	now func() time.Time
}

// NewUploadService creates an UploadService. feedCache and publisher may be
// nil; both are best-effort side channels.
func NewUploadService(
	videos repository.VideoRepository,
	store storage.ObjectStore,
	validator *validation.Validator,
	feedCache cache.FeedCache,
	publisher EventPublisher,
) *UploadService {
	return &UploadService{
		videos:    videos,
		store:     store,
		validator: validator,
		feedCache: feedCache,
		publisher: publisher,
		log:       logger.Named("upload"),
		now:       time.Now,
	}
}

// Upload validates the request, stores the video and thumbnail concurrently,
// and creates the metadata record. Validation runs in full before any network
// call; the first upload or write failure aborts the operation without
// rollback of already-stored objects.
func (s *UploadService) Upload(ctx context.Context, req *UploadRequest) (*models.Video, error) {
	sport, thumb, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	dir := fmt.Sprintf("users/%s/videos/%d", req.UploaderID, s.now().UnixMilli())
	videoKey := path.Join(dir, req.Video.Filename)
	thumbKey := path.Join(dir, thumbnailObjectName)

	tracker := newProgressTracker(req.Progress, req.Video.Size, thumb.Size)

	var videoURL, thumbURL string
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		url, err := s.store.Upload(gctx, videoKey, req.Video.Reader, req.Video.Size, req.Video.ContentType, tracker.part(0))
		if err != nil {
			return &UploadError{Key: videoKey, Cause: err}
		}
		videoURL = url
		return nil
	})

	g.Go(func() error {
		url, err := s.store.Upload(gctx, thumbKey, thumb.Reader, thumb.Size, thumb.ContentType, tracker.part(1))
		if err != nil {
			return &UploadError{Key: thumbKey, Cause: err}
		}
		thumbURL = url
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	video := models.NewVideo(req.UploaderID, req.Title, req.Description, sport, videoURL, thumbURL)
	if err := s.videos.Create(ctx, video); err != nil {
		return nil, &WriteError{Op: "create video record", Cause: err}
	}

	s.invalidateFeed(ctx)

	if s.publisher != nil {
		if err := s.publisher.PublishVideoUploaded(ctx, video); err != nil {
			s.log.Warn("failed to publish upload event",
				zap.String("videoId", video.ID.String()),
				zap.Error(err))
		}
	}

	s.log.Info("video published",
		zap.String("videoId", video.ID.String()),
		zap.String("uploaderId", video.UploaderID.String()),
		zap.String("sport", string(video.Sport)))

	return video, nil
}

// validate checks every field before any network call and resolves the
// thumbnail payload from whichever source the request carries.
func (s *UploadService) validate(req *UploadRequest) (models.SportCategory, *ObjectPayload, error) {
	sport, errs := s.validator.ValidateDetails(req.Title, req.Description, req.Sport)

	if req.Video == nil {
		errs = append(errs, validation.FieldError{Field: "video", Message: "video file is required"})
	} else {
		errs = append(errs, s.validator.ValidateVideoFile(req.Video.ContentType, req.Video.Size)...)
	}

	var thumb *ObjectPayload
	switch {
	case req.ThumbnailFile != nil && req.ThumbnailDataURI != "":
		errs = append(errs, validation.FieldError{
			Field:   "thumbnail",
			Message: "provide either a thumbnail file or a generated thumbnail, not both",
		})
	case req.ThumbnailFile != nil:
		errs = append(errs, s.validator.ValidateThumbnailFile(req.ThumbnailFile.ContentType, req.ThumbnailFile.Size)...)
		thumb = req.ThumbnailFile
	case req.ThumbnailDataURI != "":
		img, err := thumbnail.ParseDataURI(req.ThumbnailDataURI)
		if err != nil {
			errs = append(errs, validation.FieldError{Field: "thumbnail", Message: "invalid generated thumbnail"})
			break
		}
		errs = append(errs, s.validator.ValidateThumbnailFile(img.MIME, int64(len(img.Data)))...)
		thumb = &ObjectPayload{
			Reader:      bytes.NewReader(img.Data),
			Size:        int64(len(img.Data)),
			ContentType: img.MIME,
		}
	default:
		errs = append(errs, validation.FieldError{Field: "thumbnail", Message: "a thumbnail is required"})
	}

	if len(errs) > 0 {
		return "", nil, &ValidationError{Fields: errs}
	}

	return sport, thumb, nil
}

func (s *UploadService) invalidateFeed(ctx context.Context) {
	if s.feedCache == nil {
		return
	}
	if err := s.feedCache.Invalidate(ctx); err != nil {
		s.log.Warn("failed to invalidate feed cache", zap.Error(err))
	}
}

// progressTracker merges per-object upload progress into one percentage,
// weighting each part by its byte size.
type progressTracker struct {
	fn       storage.ProgressFunc
	sizes    []int64
	percents []float64
	total    int64
	mu       sync.Mutex
}

func newProgressTracker(fn storage.ProgressFunc, sizes ...int64) *progressTracker {
	var total int64
	for _, s := range sizes {
		total += s
	}
	return &progressTracker{
		fn:       fn,
		sizes:    sizes,
		percents: make([]float64, len(sizes)),
		total:    total,
	}
}

// part returns the ProgressFunc for the i-th object, or nil when no caller
// progress callback was supplied.
func (t *progressTracker) part(i int) storage.ProgressFunc {
	if t.fn == nil {
		return nil
	}
	return func(percent float64) {
		// The callback fires under the lock so concurrent part updates
		// cannot deliver a momentarily regressing combined value.
		t.mu.Lock()
		defer t.mu.Unlock()

		t.percents[i] = percent
		var done float64
		for j, p := range t.percents {
			done += p / 100 * float64(t.sizes[j])
		}
		combined := float64(0)
		if t.total > 0 {
			combined = done / float64(t.total) * 100
		}
		t.fn(combined)
	}
}
