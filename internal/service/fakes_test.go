package service

import (
	"context"
	"errors"
	"sync"

	"github.com/atinyakov/GophNotes/internal/enrich"
	"github.com/atinyakov/GophNotes/internal/models"
)

type mockNoteRepo struct {
	InsertFunc  func(ctx context.Context, n models.Note) (*models.Note, error)
	GetByIDFunc func(ctx context.Context, owner, id string) (*models.Note, error)
	ListFunc    func(ctx context.Context, owner string, f models.ListFilter) ([]models.Note, error)
	UpdateFunc  func(ctx context.Context, owner, id string, p models.NotePatch) (*models.Note, error)
	DeleteFunc  func(ctx context.Context, owner, id string) error
}

func (m *mockNoteRepo) Insert(ctx context.Context, n models.Note) (*models.Note, error) {
	return m.InsertFunc(ctx, n)
}

func (m *mockNoteRepo) GetByID(ctx context.Context, owner, id string) (*models.Note, error) {
	return m.GetByIDFunc(ctx, owner, id)
}

func (m *mockNoteRepo) List(ctx context.Context, owner string, f models.ListFilter) ([]models.Note, error) {
	return m.ListFunc(ctx, owner, f)
}

func (m *mockNoteRepo) Update(ctx context.Context, owner, id string, p models.NotePatch) (*models.Note, error) {
	return m.UpdateFunc(ctx, owner, id, p)
}

func (m *mockNoteRepo) Delete(ctx context.Context, owner, id string) error {
	return m.DeleteFunc(ctx, owner, id)
}

type mockBookmarkRepo struct {
	InsertFunc  func(ctx context.Context, b models.Bookmark) (*models.Bookmark, error)
	GetByIDFunc func(ctx context.Context, owner, id string) (*models.Bookmark, error)
	ListFunc    func(ctx context.Context, owner string, f models.ListFilter) ([]models.Bookmark, error)
	UpdateFunc  func(ctx context.Context, owner, id string, p models.BookmarkPatch) (*models.Bookmark, error)
	DeleteFunc  func(ctx context.Context, owner, id string) error
}

func (m *mockBookmarkRepo) Insert(ctx context.Context, b models.Bookmark) (*models.Bookmark, error) {
	return m.InsertFunc(ctx, b)
}

func (m *mockBookmarkRepo) GetByID(ctx context.Context, owner, id string) (*models.Bookmark, error) {
	return m.GetByIDFunc(ctx, owner, id)
}

func (m *mockBookmarkRepo) List(ctx context.Context, owner string, f models.ListFilter) ([]models.Bookmark, error) {
	return m.ListFunc(ctx, owner, f)
}

func (m *mockBookmarkRepo) Update(ctx context.Context, owner, id string, p models.BookmarkPatch) (*models.Bookmark, error) {
	return m.UpdateFunc(ctx, owner, id, p)
}

func (m *mockBookmarkRepo) Delete(ctx context.Context, owner, id string) error {
	return m.DeleteFunc(ctx, owner, id)
}

// fakeTitles returns a fixed title and records the URLs it was asked for.
type fakeTitles struct {
	title enrich.Title
	urls  []string
}

func (f *fakeTitles) FetchTitle(ctx context.Context, url string) enrich.Title {
	f.urls = append(f.urls, url)
	return f.title
}

// memCache is an in-process RecordCache that can be told to fail. Evict bumps
// a per-key generation like the Redis cache does.
type memCache struct {
	mu      sync.Mutex
	entries map[string]any
	gens    map[string]int64
	evicted []string
	fail    bool
}

func newMemCache() *memCache {
	return &memCache{entries: map[string]any{}, gens: map[string]int64{}}
}

var errCacheDown = errors.New("cache down")

func (c *memCache) Load(ctx context.Context, key string, dst any) (bool, int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return false, 0, errCacheDown
	}
	v, ok := c.entries[key]
	if !ok {
		return false, c.gens[key], nil
	}
	switch d := dst.(type) {
	case *models.Note:
		*d = *v.(*models.Note)
	case *models.Bookmark:
		*d = *v.(*models.Bookmark)
	}
	return true, c.gens[key], nil
}

func (c *memCache) Fill(ctx context.Context, key string, v any, gen int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errCacheDown
	}
	if c.gens[key] != gen {
		return nil
	}
	c.entries[key] = v
	return nil
}

func (c *memCache) Evict(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.evicted = append(c.evicted, key)
	if c.fail {
		return errCacheDown
	}
	c.gens[key]++
	delete(c.entries, key)
	return nil
}

func (c *memCache) cached(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

type publishedEvent struct {
	typ, kind, owner, id string
}

type fakePublisher struct {
	events []publishedEvent
	err    error
}

func (p *fakePublisher) Publish(ctx context.Context, typ, kind, owner, id string) error {
	p.events = append(p.events, publishedEvent{typ, kind, owner, id})
	return p.err
}
