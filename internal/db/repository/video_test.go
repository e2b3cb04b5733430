package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportscast/sportscast-api-go/internal/db"
	"github.com/sportscast/sportscast-api-go/internal/db/models"
	"github.com/sportscast/sportscast-api-go/internal/db/testutil"
)

func createTestUser(t *testing.T, repo UserRepository, email string) *models.User {
	t.Helper()
	user := models.NewUser(email, "Test User", "$2a$10$fakehashfakehashfakehash")
	err := repo.Create(context.Background(), user)
	require.NoError(t, err)
	return user
}

func newTestVideo(uploaderID uuid.UUID, title string) *models.Video {
	return models.NewVideo(uploaderID, title, "A description long enough to pass checks",
		models.SportFootball,
		"http://store/users/u/videos/1/clip.mp4",
		"http://store/users/u/videos/1/thumbnail.png")
}

func TestVideoRepository_Create(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	videoRepo := NewVideoRepository(td.Pool)
	userRepo := NewUserRepository(td.Pool)
	ctx := context.Background()

	t.Run("creates record with server-assigned upload date and zero counters", func(t *testing.T) {
		td.TruncateTables(t)
		user := createTestUser(t, userRepo, "creator@example.com")

		video := newTestVideo(user.ID, "Amazing Goal!!")
		err := videoRepo.Create(ctx, video)

		require.NoError(t, err)
		assert.False(t, video.UploadDate.IsZero())
		assert.WithinDuration(t, time.Now(), video.UploadDate, 5*time.Second)
		assert.Equal(t, int64(0), video.Views)
		assert.Equal(t, int64(0), video.Likes)

		retrieved, err := videoRepo.GetByID(ctx, video.ID)
		require.NoError(t, err)
		assert.Equal(t, "Amazing Goal!!", retrieved.Title)
		assert.Equal(t, models.SportFootball, retrieved.Sport)
		assert.Equal(t, user.ID, retrieved.UploaderID)
	})

	t.Run("rejects unknown uploader", func(t *testing.T) {
		td.TruncateTables(t)

		video := newTestVideo(uuid.New(), "Orphan video")
		err := videoRepo.Create(ctx, video)

		require.Error(t, err)
		assert.ErrorIs(t, err, db.ErrForeignKeyViolation)
	})

	t.Run("rejects sport outside the closed set", func(t *testing.T) {
		td.TruncateTables(t)
		user := createTestUser(t, userRepo, "creator@example.com")

		video := newTestVideo(user.ID, "Odd category")
		video.Sport = models.SportCategory("Cricket")
		err := videoRepo.Create(ctx, video)

		require.Error(t, err)
		assert.ErrorIs(t, err, db.ErrCheckViolation)
	})
}

func TestVideoRepository_ListByUploadDate(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	videoRepo := NewVideoRepository(td.Pool)
	userRepo := NewUserRepository(td.Pool)
	ctx := context.Background()

	t.Run("returns videos strictly newest first", func(t *testing.T) {
		td.TruncateTables(t)
		user := createTestUser(t, userRepo, "creator@example.com")

		titles := []string{"First upload", "Second upload", "Third upload"}
		for _, title := range titles {
			err := videoRepo.Create(ctx, newTestVideo(user.ID, title))
			require.NoError(t, err)
			time.Sleep(10 * time.Millisecond)
		}

		videos, err := videoRepo.ListByUploadDate(ctx)
		require.NoError(t, err)
		require.Len(t, videos, 3)

		assert.Equal(t, "Third upload", videos[0].Title)
		assert.Equal(t, "Second upload", videos[1].Title)
		assert.Equal(t, "First upload", videos[2].Title)
		for i := 1; i < len(videos); i++ {
			assert.True(t, videos[i-1].UploadDate.After(videos[i].UploadDate),
				"feed must be strictly descending by upload date")
		}
	})

	t.Run("empty feed", func(t *testing.T) {
		td.TruncateTables(t)

		videos, err := videoRepo.ListByUploadDate(ctx)
		require.NoError(t, err)
		assert.Empty(t, videos)
	})
}

func TestVideoRepository_ListByUploader(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	videoRepo := NewVideoRepository(td.Pool)
	userRepo := NewUserRepository(td.Pool)
	ctx := context.Background()

	td.TruncateTables(t)
	alice := createTestUser(t, userRepo, "alice@example.com")
	bob := createTestUser(t, userRepo, "bob@example.com")

	require.NoError(t, videoRepo.Create(ctx, newTestVideo(alice.ID, "Alice clip one")))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, videoRepo.Create(ctx, newTestVideo(bob.ID, "Bob clip one")))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, videoRepo.Create(ctx, newTestVideo(alice.ID, "Alice clip two")))

	videos, err := videoRepo.ListByUploader(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, videos, 2)
	assert.Equal(t, "Alice clip two", videos[0].Title)
	assert.Equal(t, "Alice clip one", videos[1].Title)
	for _, v := range videos {
		assert.Equal(t, alice.ID, v.UploaderID)
	}
}

func TestVideoRepository_UpdateDetails(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	videoRepo := NewVideoRepository(td.Pool)
	userRepo := NewUserRepository(td.Pool)
	ctx := context.Background()

	t.Run("updates only title, description and sport", func(t *testing.T) {
		td.TruncateTables(t)
		user := createTestUser(t, userRepo, "creator@example.com")

		video := newTestVideo(user.ID, "Original title")
		require.NoError(t, videoRepo.Create(ctx, video))
		require.NoError(t, videoRepo.IncrementViews(ctx, video.ID))

		updated, err := videoRepo.UpdateDetails(ctx, video.ID, user.ID,
			"Updated title", "Updated description text", models.SportBasketball)
		require.NoError(t, err)

		assert.Equal(t, "Updated title", updated.Title)
		assert.Equal(t, "Updated description text", updated.Description)
		assert.Equal(t, models.SportBasketball, updated.Sport)

		// Everything else is untouched.
		assert.Equal(t, video.UploaderID, updated.UploaderID)
		assert.Equal(t, video.UploadDate.Unix(), updated.UploadDate.Unix())
		assert.Equal(t, video.VideoURL, updated.VideoURL)
		assert.Equal(t, video.ThumbnailURL, updated.ThumbnailURL)
		assert.Equal(t, int64(1), updated.Views)
		assert.Equal(t, int64(0), updated.Likes)
	})

	t.Run("not found for wrong owner", func(t *testing.T) {
		td.TruncateTables(t)
		owner := createTestUser(t, userRepo, "owner@example.com")
		other := createTestUser(t, userRepo, "other@example.com")

		video := newTestVideo(owner.ID, "Owner's video")
		require.NoError(t, videoRepo.Create(ctx, video))

		_, err := videoRepo.UpdateDetails(ctx, video.ID, other.ID,
			"Hijacked title", "Hijacked description", models.SportOther)
		require.Error(t, err)
		assert.True(t, db.IsNotFound(err))
	})

	t.Run("uploader_id is immutable at the store level", func(t *testing.T) {
		td.TruncateTables(t)
		owner := createTestUser(t, userRepo, "owner@example.com")
		other := createTestUser(t, userRepo, "other@example.com")

		video := newTestVideo(owner.ID, "Owner's video")
		require.NoError(t, videoRepo.Create(ctx, video))

		_, err := td.Pool.Exec(ctx, `UPDATE videos SET uploader_id = $1 WHERE id = $2`, other.ID, video.ID)
		require.Error(t, err)
		assert.ErrorIs(t, db.WrapError(err, "update"), db.ErrImmutableColumn)
	})
}

func TestVideoRepository_Delete(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	videoRepo := NewVideoRepository(td.Pool)
	userRepo := NewUserRepository(td.Pool)
	ctx := context.Background()

	t.Run("removes record from feed and dashboard", func(t *testing.T) {
		td.TruncateTables(t)
		user := createTestUser(t, userRepo, "creator@example.com")

		video := newTestVideo(user.ID, "Short lived")
		require.NoError(t, videoRepo.Create(ctx, video))

		require.NoError(t, videoRepo.Delete(ctx, video.ID, user.ID))

		feed, err := videoRepo.ListByUploadDate(ctx)
		require.NoError(t, err)
		assert.Empty(t, feed)

		dashboard, err := videoRepo.ListByUploader(ctx, user.ID)
		require.NoError(t, err)
		assert.Empty(t, dashboard)

		_, err = videoRepo.GetByID(ctx, video.ID)
		assert.True(t, db.IsNotFound(err))
	})

	t.Run("not found for wrong owner", func(t *testing.T) {
		td.TruncateTables(t)
		owner := createTestUser(t, userRepo, "owner@example.com")
		other := createTestUser(t, userRepo, "other@example.com")

		video := newTestVideo(owner.ID, "Owner's video")
		require.NoError(t, videoRepo.Create(ctx, video))

		err := videoRepo.Delete(ctx, video.ID, other.ID)
		require.Error(t, err)
		assert.True(t, db.IsNotFound(err))
	})
}

func TestVideoRepository_IncrementViews(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	videoRepo := NewVideoRepository(td.Pool)
	userRepo := NewUserRepository(td.Pool)
	ctx := context.Background()

	td.TruncateTables(t)
	user := createTestUser(t, userRepo, "creator@example.com")

	video := newTestVideo(user.ID, "Much watched")
	require.NoError(t, videoRepo.Create(ctx, video))

	for i := 0; i < 5; i++ {
		require.NoError(t, videoRepo.IncrementViews(ctx, video.ID))
	}

	retrieved, err := videoRepo.GetByID(ctx, video.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), retrieved.Views)

	err = videoRepo.IncrementViews(ctx, uuid.New())
	require.Error(t, err)
	assert.True(t, db.IsNotFound(err))
}
