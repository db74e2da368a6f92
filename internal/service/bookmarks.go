package service

import (
	"context"
	"strings"

	"github.com/atinyakov/GophNotes/internal/cache"
	"github.com/atinyakov/GophNotes/internal/enrich"
	"github.com/atinyakov/GophNotes/internal/events"
	"github.com/atinyakov/GophNotes/internal/models"
	"go.uber.org/zap"
)

// BookmarkRepository defines the owner-scoped persistence operations needed
// by the BookmarkService.
type BookmarkRepository interface {
	Insert(ctx context.Context, b models.Bookmark) (*models.Bookmark, error)
	GetByID(ctx context.Context, owner, id string) (*models.Bookmark, error)
	List(ctx context.Context, owner string, f models.ListFilter) ([]models.Bookmark, error)
	Update(ctx context.Context, owner, id string, p models.BookmarkPatch) (*models.Bookmark, error)
	Delete(ctx context.Context, owner, id string) error
}

// TitleFetcher derives a title for a URL. It never fails: the returned
// title is always usable.
type TitleFetcher interface {
	FetchTitle(ctx context.Context, url string) enrich.Title
}

// BookmarkService implements bookmark operations for a verified owner.
type BookmarkService struct {
	repo   BookmarkRepository
	titles TitleFetcher
	support
}

// NewBookmarkService constructs a BookmarkService. titles is consulted when a
// bookmark is created without a title.
func NewBookmarkService(repo BookmarkRepository, titles TitleFetcher, opts ...Option) *BookmarkService {
	return &BookmarkService{repo: repo, titles: titles, support: newSupport(opts)}
}

// List returns owner's bookmarks matching f.
func (s *BookmarkService) List(ctx context.Context, owner string, f models.ListFilter) ([]models.Bookmark, error) {
	return s.repo.List(ctx, owner, f)
}

// Get returns the bookmark {id, owner}, consulting the cache first.
func (s *BookmarkService) Get(ctx context.Context, owner, id string) (*models.Bookmark, error) {
	key := cache.Key(KindBookmarks, owner, id)

	var cached models.Bookmark
	read := s.load(ctx, key, &cached)
	if read.hit {
		return &cached, nil
	}

	b, err := s.repo.GetByID(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	s.fill(ctx, key, b, read)
	return b, nil
}

// Create validates in and stores a new bookmark owned by owner. A missing
// title is derived from the page before the bookmark is stored.
func (s *BookmarkService) Create(ctx context.Context, owner string, in models.BookmarkInput) (*models.Bookmark, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	title := in.Title
	if strings.TrimSpace(title) == "" {
		t := s.titles.FetchTitle(ctx, in.URL)
		s.log.Debug("derived bookmark title", zap.String("url", in.URL), zap.Bool("from_page", t.FromPage))
		title = t.Text
	}

	b, err := s.repo.Insert(ctx, models.Bookmark{
		Owner:       owner,
		URL:         in.URL,
		Title:       title,
		Description: in.Description,
		Tags:        models.NormalizeTags(in.Tags),
		IsFavorite:  in.IsFavorite,
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Created, KindBookmarks, owner, b.ID)
	return b, nil
}

// Update validates the provided fields of p and applies them to the
// bookmark {id, owner}.
func (s *BookmarkService) Update(ctx context.Context, owner, id string, p models.BookmarkPatch) (*models.Bookmark, error) {
	var c fieldChecker
	if p.URL != nil {
		c.check("url", ruleURL, *p.URL)
	}
	if p.Title != nil {
		c.check("title", ruleRequired, *p.Title)
	}
	if err := c.err(); err != nil {
		return nil, err
	}
	if p.Tags != nil {
		tags := models.NormalizeTags(*p.Tags)
		p.Tags = &tags
	}

	b, err := s.repo.Update(ctx, owner, id, p)
	if err != nil {
		return nil, err
	}

	s.evict(ctx, cache.Key(KindBookmarks, owner, id))
	s.publish(ctx, events.Updated, KindBookmarks, owner, id)
	return b, nil
}

// Delete removes the bookmark {id, owner}.
func (s *BookmarkService) Delete(ctx context.Context, owner, id string) error {
	if err := s.repo.Delete(ctx, owner, id); err != nil {
		return err
	}

	s.evict(ctx, cache.Key(KindBookmarks, owner, id))
	s.publish(ctx, events.Deleted, KindBookmarks, owner, id)
	return nil
}
