package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/sportscast/sportscast-api-go/internal/cache"
	"github.com/sportscast/sportscast-api-go/internal/db"
	"github.com/sportscast/sportscast-api-go/internal/db/models"
	"github.com/sportscast/sportscast-api-go/internal/storage"
)

// feedCacheOrNil converts a nil *fakeFeedCache into a nil interface so the
// service's nil checks see an absent cache rather than a typed-nil pointer.
func feedCacheOrNil(c *fakeFeedCache) cache.FeedCache {
	if c == nil {
		return nil
	}
	return c
}

func publisherOrNil(p *fakePublisher) EventPublisher {
	if p == nil {
		return nil
	}
	return p
}

// fakeVideoRepo is an in-memory VideoRepository for unit tests.
type fakeVideoRepo struct {
	mu          sync.Mutex
	videos      map[uuid.UUID]*models.Video
	createErr   error
	updateErr   error
	deleteErr   error
	listCalls   int
	incremented chan uuid.UUID
	seq         int64
}

func newFakeVideoRepo() *fakeVideoRepo {
	return &fakeVideoRepo{
		videos:      make(map[uuid.UUID]*models.Video),
		incremented: make(chan uuid.UUID, 16),
	}
}

func (r *fakeVideoRepo) Create(_ context.Context, video *models.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.seq++
	stored := *video
	stored.UploadDate = stored.UploadDate.AddDate(0, 0, int(r.seq))
	r.videos[video.ID] = &stored
	*video = stored
	return nil
}

func (r *fakeVideoRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.videos[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *fakeVideoRepo) ListByUploadDate(_ context.Context) ([]*models.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	out := make([]*models.Video, 0, len(r.videos))
	for _, v := range r.videos {
		cp := *v
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadDate.After(out[j].UploadDate) })
	return out, nil
}

func (r *fakeVideoRepo) ListByUploader(_ context.Context, uploaderID uuid.UUID) ([]*models.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Video
	for _, v := range r.videos {
		if v.UploaderID == uploaderID {
			cp := *v
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadDate.After(out[j].UploadDate) })
	return out, nil
}

func (r *fakeVideoRepo) UpdateDetails(_ context.Context, id, uploaderID uuid.UUID, title, description string, sport models.SportCategory) (*models.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	v, ok := r.videos[id]
	if !ok || v.UploaderID != uploaderID {
		return nil, db.ErrNotFound
	}
	v.ApplyEdit(title, description, sport)
	cp := *v
	return &cp, nil
}

func (r *fakeVideoRepo) Delete(_ context.Context, id, uploaderID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	v, ok := r.videos[id]
	if !ok || v.UploaderID != uploaderID {
		return db.ErrNotFound
	}
	delete(r.videos, id)
	return nil
}

func (r *fakeVideoRepo) IncrementViews(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	if v, ok := r.videos[id]; ok {
		v.Views++
	}
	r.mu.Unlock()
	r.incremented <- id
	return nil
}

// fakeObjectStore records uploads and removals in memory.
type fakeObjectStore struct {
	mu        sync.Mutex
	objects   map[string][]byte
	uploadErr map[string]error
	removeErr error
	removed   []string
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{
		objects:   make(map[string][]byte),
		uploadErr: make(map[string]error),
	}
}

func (s *fakeObjectStore) Upload(_ context.Context, key string, r io.Reader, _ int64, _ string, progress storage.ProgressFunc) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for pattern, uerr := range s.uploadErr {
		if strings.Contains(key, pattern) {
			return "", uerr
		}
	}
	s.objects[key] = data
	if progress != nil {
		progress(100)
	}
	return "https://cdn.test/media/" + key, nil
}

func (s *fakeObjectStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.removeErr != nil {
		return s.removeErr
	}
	delete(s.objects, key)
	s.removed = append(s.removed, key)
	return nil
}

func (s *fakeObjectStore) KeyFromURL(url string) (string, error) {
	key, ok := strings.CutPrefix(url, "https://cdn.test/media/")
	if !ok {
		return "", fmt.Errorf("unknown url %q", url)
	}
	return key, nil
}

func (s *fakeObjectStore) keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.objects))
	for k := range s.objects {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// fakeFeedCache is an in-memory FeedCache that counts invalidations.
type fakeFeedCache struct {
	mu          sync.Mutex
	feed        []*models.Video
	set         bool
	getErr      error
	invalidated int
}

func (c *fakeFeedCache) GetFeed(_ context.Context) ([]*models.Video, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	return c.feed, c.set, nil
}

func (c *fakeFeedCache) SetFeed(_ context.Context, videos []*models.Video) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.feed = videos
	c.set = true
	return nil
}

func (c *fakeFeedCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.feed = nil
	c.set = false
	c.invalidated++
	return nil
}

// fakePublisher records published events.
type fakePublisher struct {
	mu       sync.Mutex
	uploaded []uuid.UUID
	deleted  []uuid.UUID
	err      error
}

func (p *fakePublisher) PublishVideoUploaded(_ context.Context, video *models.Video) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.uploaded = append(p.uploaded, video.ID)
	return nil
}

func (p *fakePublisher) PublishVideoDeleted(_ context.Context, video *models.Video) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.deleted = append(p.deleted, video.ID)
	return nil
}

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return db.ErrDuplicateKey
		}
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, db.ErrNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *u
	return &cp, nil
}
