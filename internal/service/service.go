// Package service provides the owner-scoped business logic for notes and
// bookmarks, delegating persistence to repository interfaces.
package service

import (
	"context"

	"go.uber.org/zap"
)

// Record kinds, used for cache keys and events.
const (
	KindNotes     = "notes"
	KindBookmarks = "bookmarks"
)

// RecordCache is a best-effort read cache keyed by owner-scoped keys.
type RecordCache interface {
	// Load decodes the entry at key into dst and reports whether it was
	// present, along with the key's generation.
	Load(ctx context.Context, key string, dst any) (bool, int64, error)
	// Fill writes v at key unless key was evicted after the Load that
	// returned gen.
	Fill(ctx context.Context, key string, v any, gen int64) error
	// Evict removes the entry at key and invalidates pending fills.
	Evict(ctx context.Context, key string) error
}

// EventPublisher announces record mutations.
type EventPublisher interface {
	Publish(ctx context.Context, typ, kind, owner, id string) error
}

// Option configures the optional collaborators of a service.
type Option func(*support)

// WithCache enables the read cache for single-record lookups.
func WithCache(c RecordCache) Option {
	return func(s *support) { s.cache = c }
}

// WithEvents enables publishing of record events.
func WithEvents(p EventPublisher) Option {
	return func(s *support) { s.events = p }
}

// WithLogger sets the logger used for absorbed cache and event failures.
func WithLogger(l *zap.Logger) Option {
	return func(s *support) { s.log = l }
}

// support holds the collaborators whose failures never fail a request.
type support struct {
	cache  RecordCache
	events EventPublisher
	log    *zap.Logger
}

func newSupport(opts []Option) support {
	s := support{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// cacheRead is the outcome of a cache lookup. A fill is only allowed when the
// lookup succeeded, since the generation is unknown otherwise.
type cacheRead struct {
	hit      bool
	gen      int64
	fillable bool
}

func (s *support) load(ctx context.Context, key string, dst any) cacheRead {
	if s.cache == nil {
		return cacheRead{}
	}
	hit, gen, err := s.cache.Load(ctx, key, dst)
	if err != nil {
		s.log.Warn("cache load failed", zap.String("key", key), zap.Error(err))
		return cacheRead{}
	}
	return cacheRead{hit: hit, gen: gen, fillable: true}
}

// fill caches v read from the store after a missed lookup.
func (s *support) fill(ctx context.Context, key string, v any, r cacheRead) {
	if s.cache == nil || !r.fillable {
		return
	}
	if err := s.cache.Fill(ctx, key, v, r.gen); err != nil {
		s.log.Warn("cache fill failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *support) evict(ctx context.Context, key string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Evict(ctx, key); err != nil {
		s.log.Warn("cache evict failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *support) publish(ctx context.Context, typ, kind, owner, id string) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, typ, kind, owner, id); err != nil {
		s.log.Warn("publish event failed",
			zap.String("type", typ), zap.String("kind", kind), zap.String("id", id), zap.Error(err))
	}
}
