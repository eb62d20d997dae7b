// Package cache keeps a TTL-bound snapshot of the article list in front of the upstream
// table and coalesces concurrent misses into a single fetch.
package cache

import (
	"context"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"antifraud/internal/logger"
	"antifraud/internal/metrics"
	"antifraud/internal/models"
)

// DefaultTTL is the snapshot lifetime when none is configured.
const DefaultTTL = 300 * time.Second

const flightKey = "all_articles"

// Status describes where a Load result came from.
type Status string

// Load statuses.
const (
	// StatusCached is a live snapshot served without an upstream call.
	StatusCached Status = "cached"
	// StatusFresh is a snapshot fetched by this load or by the flight it joined.
	StatusFresh Status = "fresh"
	// StatusDegraded is an empty result standing in for a failed fetch.
	StatusDegraded Status = "degraded"
)

// Result is the outcome of Load.
type Result struct {
	CreatedAt time.Time
	Err       error
	Status    Status
	Articles  []models.Article
}

// Options configures an ArticleCache.
type Options struct {
	Store   Store
	Logger  *logger.Logger
	Metrics *metrics.Metrics
	TTL     time.Duration
}

// ArticleCache serves the article list from a snapshot, refetching after the TTL or an
// explicit invalidation. At most one fetch runs per snapshot generation.
type ArticleCache struct {
	source     Source
	store      Store
	logger     *logger.Logger
	metrics    *metrics.Metrics
	now        func() time.Time
	group      singleflight.Group
	ttl        time.Duration
	generation uint64
	mu         sync.Mutex
}

// New creates a cache over source. Zero options select an in-memory store, DefaultTTL
// and a discarding logger.
func New(source Source, opts Options) *ArticleCache {
	if opts.Store == nil {
		opts.Store = NewMemoryStore()
	}

	if opts.Logger == nil {
		opts.Logger = logger.NewNopLogger()
	}

	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}

	return &ArticleCache{
		source:  source,
		store:   opts.Store,
		logger:  opts.Logger,
		metrics: opts.Metrics,
		now:     time.Now,
		ttl:     opts.TTL,
	}
}

// SetClock replaces the time source used for snapshot expiry.
func (c *ArticleCache) SetClock(now func() time.Time) {
	c.now = now
}

// TTL returns the snapshot lifetime.
func (c *ArticleCache) TTL() time.Duration {
	return c.ttl
}

// Backend names the snapshot store.
func (c *ArticleCache) Backend() string {
	return c.store.Name()
}

// GetAllArticles returns the current article list. Fetch failures are logged and yield
// an empty list.
func (c *ArticleCache) GetAllArticles(ctx context.Context) []models.Article {
	return c.Load(ctx).Articles
}

// GetArticle returns the article with the given record id from the current snapshot.
func (c *ArticleCache) GetArticle(ctx context.Context, id string) (models.Article, bool) {
	for _, article := range c.GetAllArticles(ctx) {
		if article.ID == id {
			return article, true
		}
	}

	return models.Article{}, false
}

// Invalidate drops the current snapshot so the next read refetches.
func (c *ArticleCache) Invalidate(ctx context.Context) {
	c.mu.Lock()
	c.generation++
	c.mu.Unlock()

	c.group.Forget(flightKey)

	if err := c.store.Delete(ctx); err != nil {
		c.logger.Error("Failed to drop article snapshot", "store", c.store.Name(), "error", err)
	}
}

// Load returns the current snapshot, fetching a new one on a miss.
func (c *ArticleCache) Load(ctx context.Context) Result {
	if snap, ok := c.lookup(ctx); ok {
		c.metrics.RecordLookup(metrics.ResultHit)

		return Result{Articles: cloneArticles(snap.Articles), CreatedAt: snap.CreatedAt, Status: StatusCached}
	}

	c.metrics.RecordLookup(metrics.ResultMiss)

	ch := c.group.DoChan(flightKey, func() (any, error) {
		return c.refill(context.WithoutCancel(ctx)), nil
	})

	select {
	case res := <-ch:
		result, _ := res.Val.(Result)
		result.Articles = cloneArticles(result.Articles)

		return result
	case <-ctx.Done():
		return Result{Articles: []models.Article{}, Status: StatusDegraded, Err: ctx.Err()}
	}
}

// lookup returns a live snapshot from the store.
func (c *ArticleCache) lookup(ctx context.Context) (Snapshot, bool) {
	snap, ok, err := c.store.Get(ctx)
	if err != nil {
		c.logger.Warn("Failed to read article snapshot", "store", c.store.Name(), "error", err)

		return Snapshot{}, false
	}

	if !ok || len(snap.Articles) == 0 || !c.live(snap) {
		return Snapshot{}, false
	}

	return snap, true
}

func (c *ArticleCache) live(snap Snapshot) bool {
	return c.now().Sub(snap.CreatedAt) < c.ttl
}

// refill runs inside the flight: re-check the store, then fetch and store a new snapshot.
func (c *ArticleCache) refill(ctx context.Context) Result {
	if snap, ok := c.lookup(ctx); ok {
		return Result{Articles: snap.Articles, CreatedAt: snap.CreatedAt, Status: StatusFresh}
	}

	c.mu.Lock()
	gen := c.generation
	c.mu.Unlock()

	start := c.now()

	articles, err := c.source.Articles(ctx)
	if err != nil {
		c.metrics.RecordFetch(metrics.StatusError, c.now().Sub(start))
		c.logger.Error("Failed to fetch articles", "error", err)

		return Result{Articles: []models.Article{}, Status: StatusDegraded, Err: err}
	}

	c.metrics.RecordFetch(metrics.StatusOK, c.now().Sub(start))

	snap := Snapshot{Articles: articles, CreatedAt: c.now()}

	c.mu.Lock()
	current := c.generation == gen
	c.mu.Unlock()

	switch {
	case len(articles) == 0:
		c.logger.Warn("Upstream table returned no articles")
	case !current:
		c.logger.Debug("Snapshot invalidated during fetch, not storing")
	default:
		if err := c.store.Set(ctx, snap, c.ttl); err != nil {
			c.logger.Error("Failed to store article snapshot", "store", c.store.Name(), "error", err)
		}

		c.metrics.SetArticles(len(articles))
		c.logger.Info("Article snapshot refreshed", "articles", len(articles), "store", c.store.Name())
	}

	return Result{Articles: articles, CreatedAt: snap.CreatedAt, Status: StatusFresh}
}

// cloneArticles copies the list and the analysis slices so callers cannot modify the
// stored snapshot.
func cloneArticles(in []models.Article) []models.Article {
	out := make([]models.Article, len(in))
	for i, a := range in {
		a.Analysis.KeyFeatures = slices.Clone(a.Analysis.KeyFeatures)
		a.Analysis.AntiFraudTech = slices.Clone(a.Analysis.AntiFraudTech)
		out[i] = a
	}

	return out
}
