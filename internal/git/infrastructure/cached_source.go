package infrastructure

import (
	"context"
	"fmt"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/zjrosen/gitlanes/internal/git/application"
	domain "github.com/zjrosen/gitlanes/internal/git/domain"
	"github.com/zjrosen/gitlanes/internal/log"
)

// CachedSource decorates a LogSource with a short TTL cache so rapid
// re-renders (resize, filter toggles that round-trip the same query) do
// not fork a git subprocess each time. Invalidate drops everything and
// is called by the repo watcher when refs move.
type CachedSource struct {
	inner application.LogSource
	store *cache.Cache
}

var _ application.LogSource = (*CachedSource)(nil)

// NewCachedSource wraps inner with the given TTL.
func NewCachedSource(inner application.LogSource, ttl time.Duration) *CachedSource {
	return &CachedSource{
		inner: inner,
		store: cache.New(ttl, 2*ttl),
	}
}

func (c *CachedSource) LoadGraph(ctx context.Context, query domain.LogQuery) ([]domain.CommitRecord, error) {
	key := queryKey(query)
	if cached, found := c.store.Get(key); found {
		log.Debug(log.CatGit, "Log cache hit", "key", key)
		return cached.([]domain.CommitRecord), nil
	}

	records, err := c.inner.LoadGraph(ctx, query)
	if err != nil {
		return nil, err
	}
	c.store.Set(key, records, cache.DefaultExpiration)
	return records, nil
}

func (c *CachedSource) ListBranches(ctx context.Context) ([]domain.BranchInfo, error) {
	const key = "branches"
	if cached, found := c.store.Get(key); found {
		return cached.([]domain.BranchInfo), nil
	}
	branches, err := c.inner.ListBranches(ctx)
	if err != nil {
		return nil, err
	}
	c.store.Set(key, branches, cache.DefaultExpiration)
	return branches, nil
}

// Invalidate flushes all cached pages. The next LoadGraph hits git.
func (c *CachedSource) Invalidate() {
	c.store.Flush()
	log.Debug(log.CatGit, "Log cache invalidated")
}

func queryKey(q domain.LogQuery) string {
	return fmt.Sprintf("log:%d:%t:%t:%s", q.Limit, q.AllBranches, q.FirstParentOnly, q.Branch)
}
