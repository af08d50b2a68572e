package postings

import (
	"context"
	"errors"
	"time"

	"github.com/jonathan/jobboard/internal/feed"
	"github.com/jonathan/jobboard/internal/ingestion"
	"github.com/jonathan/jobboard/internal/types"
	"go.uber.org/zap"
)

// Lister is the listing half of the backend client.
type Lister interface {
	List(ctx context.Context) ([]types.JobPosting, error)
}

// Listing is the outcome of a feed load.
type Listing struct {
	Posts     []types.JobPosting `json:"posts"`
	Notice    string             `json:"notice,omitempty"`
	Fallback  bool               `json:"fallback"`
	FromCache bool               `json:"from_cache"`
}

// Loader produces the feed listing. It never fails: when the backend cannot
// be reached it returns the fixed fallback postings with a notice.
type Loader struct {
	source   Lister
	cache    ListingCache
	cacheTTL time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithCache enables listing caching.
func WithCache(cache ListingCache, ttl time.Duration) LoaderOption {
	return func(l *Loader) {
		l.cache = cache
		l.cacheTTL = ttl
	}
}

// WithClock overrides the time source used for ingestion defaults.
func WithClock(now func() time.Time) LoaderOption {
	return func(l *Loader) {
		l.now = now
	}
}

// NewLoader creates a loader over source.
func NewLoader(source Lister, logger *zap.Logger, opts ...LoaderOption) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Loader{
		source:   source,
		cacheTTL: DefaultCacheTTL,
		now:      time.Now,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load fetches and normalizes the listing.
func (l *Loader) Load(ctx context.Context) Listing {
	if l.cache != nil {
		posts, err := l.cache.Get(ctx, ListingKey)
		switch {
		case err == nil:
			return Listing{Posts: posts, FromCache: true}
		case !errors.Is(err, ErrCacheMiss):
			l.logger.Warn("listing cache read failed", zap.Error(err))
		}
	}

	raw, err := l.source.List(ctx)
	if err != nil {
		l.logger.Warn("failed to load postings, serving fallback",
			zap.Error(err),
			zap.Int("fallback_count", len(feed.FallbackPostings())))
		return Listing{
			Posts:    feed.FallbackPostings(),
			Notice:   feed.FallbackNotice,
			Fallback: true,
		}
	}

	posts := ingestion.Normalize(raw, l.now())
	l.logger.Debug("postings loaded", zap.Int("count", len(posts)))

	if l.cache != nil {
		if err := l.cache.Set(ctx, ListingKey, posts, l.cacheTTL); err != nil {
			l.logger.Warn("listing cache write failed", zap.Error(err))
		}
	}
	return Listing{Posts: posts}
}

// Invalidate drops the cached listing so the next Load hits the backend.
func (l *Loader) Invalidate(ctx context.Context) {
	if l.cache == nil {
		return
	}
	if err := l.cache.Delete(ctx, ListingKey); err != nil {
		l.logger.Warn("listing cache invalidation failed", zap.Error(err))
	}
}
