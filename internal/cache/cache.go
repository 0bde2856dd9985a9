// Package cache keeps the server's reference data (issue statuses and users)
// in a JSON file next to the config file, so that most commands can resolve
// names without a network round-trip.
//
// The file is trusted only while it is newer than the config file and younger
// than constants.FreshnessWindow. Concurrent rdm processes may race on the
// file; no locking is done.
package cache

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/spiffcs/rdm/internal/log"
	"github.com/spiffcs/rdm/internal/model"
	"golang.org/x/sync/errgroup"
)

// Source fetches reference data from the server.
type Source interface {
	FetchIssueStatuses(ctx context.Context) ([]model.IssueStatus, error)
	FetchUsers(ctx context.Context) ([]model.User, error)
}

// Strategy controls when a stale cache is refilled.
type Strategy int

const (
	// StrategyLazy fetches each list the first time it is requested and
	// persists after each fetch. A failure only affects the list being fetched.
	StrategyLazy Strategy = iota
	// StrategyEager fetches both lists concurrently as soon as a stale cache
	// is opened and persists once. Either failure fails the warm-up.
	StrategyEager
)

func (s Strategy) String() string {
	if s == StrategyEager {
		return "eager"
	}
	return "lazy"
}

// ReferenceData is the read side of the cache used by the command layer.
type ReferenceData interface {
	IssueStatuses(ctx context.Context) ([]model.IssueStatus, error)
	Users(ctx context.Context) ([]model.User, error)
}

// Ensure Cache implements ReferenceData.
var _ ReferenceData = (*Cache)(nil)

// Cache serves reference data from its snapshot, fetching from the Source on a miss.
type Cache struct {
	mu       sync.Mutex
	src      Source
	path     string
	snapshot Snapshot
	fresh    bool
	strategy Strategy
	now      func() time.Time
}

// Option configures Open.
type Option func(*Cache)

// WithStrategy selects the refill strategy. The default is StrategyLazy.
func WithStrategy(s Strategy) Option {
	return func(c *Cache) {
		c.strategy = s
	}
}

// WithClock overrides the time source used for the freshness check.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// Open loads the cache that belongs to the config file at configPath.
//
// A fresh cache file is loaded as-is; if it cannot be read or parsed Open
// fails rather than silently refetching. A stale or missing cache starts
// empty, and with StrategyEager is warmed before Open returns.
func Open(ctx context.Context, src Source, configPath string, opts ...Option) (*Cache, error) {
	c := &Cache{
		src:  src,
		path: PathFor(configPath),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	fresh, modTime := freshness(configPath, c.path, c.now())
	if fresh {
		snap, err := readSnapshot(c.path)
		if err != nil {
			return nil, &Error{Op: "load", Path: c.path, Err: err}
		}
		snap.Timestamp = modTime
		c.snapshot = snap
		c.fresh = true
		log.Debug("cache loaded", "path", c.path, "age", c.now().Sub(modTime).Round(time.Second))
		return c, nil
	}

	log.Debug("cache stale", "path", c.path, "strategy", c.strategy)
	if c.strategy == StrategyEager {
		if err := c.Warm(ctx); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Path returns the cache file location.
func (c *Cache) Path() string {
	return c.path
}

// Fresh reports whether the snapshot was loaded from a fresh cache file.
func (c *Cache) Fresh() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fresh
}

// Snapshot returns a copy of the in-memory snapshot.
func (c *Cache) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot.clone()
}

// IssueStatuses returns the cached statuses, fetching and persisting them on a miss.
// A fetch error is returned unchanged and leaves the snapshot untouched.
func (c *Cache) IssueStatuses(ctx context.Context) ([]model.IssueStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snapshot.IssueStatuses != nil {
		log.Info("cache hit", "data", "issue_statuses", "count", len(c.snapshot.IssueStatuses))
		return c.snapshot.clone().IssueStatuses, nil
	}

	log.Info("cache miss", "data", "issue_statuses")
	statuses, err := c.src.FetchIssueStatuses(ctx)
	if err != nil {
		return nil, err
	}

	next := c.snapshot.clone()
	next.IssueStatuses = statuses
	if err := c.commit(next); err != nil {
		return nil, err
	}
	return c.snapshot.clone().IssueStatuses, nil
}

// Users returns the cached users, fetching and persisting them on a miss.
func (c *Cache) Users(ctx context.Context) ([]model.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snapshot.Users != nil {
		log.Info("cache hit", "data", "users", "count", len(c.snapshot.Users))
		return c.snapshot.clone().Users, nil
	}

	log.Info("cache miss", "data", "users")
	users, err := c.src.FetchUsers(ctx)
	if err != nil {
		return nil, err
	}

	next := c.snapshot.clone()
	next.Users = users
	if err := c.commit(next); err != nil {
		return nil, err
	}
	return c.snapshot.clone().Users, nil
}

// Warm fetches statuses and users concurrently and persists them together.
// Both fetches run to completion; if either fails the first error is
// returned and the snapshot is left unchanged.
func (c *Cache) Warm(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var (
		statuses []model.IssueStatus
		users    []model.User
		g        errgroup.Group
	)

	// Each goroutine writes only its own variable; g.Wait is the barrier.
	g.Go(func() error {
		s, err := c.src.FetchIssueStatuses(ctx)
		if err != nil {
			return err
		}
		statuses = s
		return nil
	})
	g.Go(func() error {
		u, err := c.src.FetchUsers(ctx)
		if err != nil {
			return err
		}
		users = u
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("cache warmed", "issue_statuses", len(statuses), "users", len(users))
	return c.commit(Snapshot{IssueStatuses: statuses, Users: users})
}

// commit persists next and, only if that succeeds, makes it the current snapshot.
// The caller must hold c.mu.
func (c *Cache) commit(next Snapshot) error {
	next.Timestamp = c.now()
	if err := writeSnapshot(c.path, next); err != nil {
		return &Error{Op: "save", Path: c.path, Err: err}
	}
	log.Debug("cache saved", "path", c.path)
	c.snapshot = next
	return nil
}

// Clear removes the cache file belonging to configPath. A missing file is not an error.
func Clear(configPath string) error {
	path := PathFor(configPath)
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return &Error{Op: "clear", Path: path, Err: err}
	}
	return nil
}
