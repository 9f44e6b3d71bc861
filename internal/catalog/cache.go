package catalog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/arclabs/componentdb/internal/sheet"
)

// Loader supplies the raw workbook relations. Implemented by sheet.Fetcher.
type Loader interface {
	Load(ctx context.Context) ([]sheet.Table, error)
}

// SnapshotCache holds the current immutable snapshot with a time-to-live.
//
// Within the validity window every caller gets the cached snapshot without
// blocking. After expiry, singleflight guarantees at most one fetch/parse per
// refresh; concurrent callers share that one flight. If a rebuild fails and a
// stale snapshot exists, the stale snapshot is served and the failure logged;
// without one the error is returned.
type SnapshotCache struct {
	loader Loader
	ttl    time.Duration
	group  singleflight.Group

	// now is swappable for tests.
	now func() time.Time

	mu        sync.RWMutex
	snap      *Snapshot
	fetchedAt time.Time
}

// NewSnapshotCache creates a cache around loader with the given TTL.
func NewSnapshotCache(loader Loader, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{
		loader: loader,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Get returns a fresh snapshot, rebuilding it if the cached one has expired.
func (c *SnapshotCache) Get(ctx context.Context) (*Snapshot, error) {
	if snap, ok := c.fresh(); ok {
		return snap, nil
	}

	v, err, _ := c.group.Do("workbook", func() (interface{}, error) {
		// A concurrent flight may have refreshed while we waited for the lock.
		if snap, ok := c.fresh(); ok {
			return snap, nil
		}
		return c.rebuild(ctx)
	})
	if err != nil {
		c.mu.RLock()
		stale := c.snap
		c.mu.RUnlock()
		if stale != nil {
			slog.Warn("serving stale snapshot after refresh failure",
				"snapshot_id", stale.ID, "error", err)
			return stale, nil
		}
		return nil, err
	}

	return v.(*Snapshot), nil
}

// Refresh invalidates the cached snapshot and rebuilds immediately.
func (c *SnapshotCache) Refresh(ctx context.Context) (*Snapshot, error) {
	c.Invalidate()
	return c.Get(ctx)
}

// Invalidate forces the next Get to rebuild.
func (c *SnapshotCache) Invalidate() {
	c.mu.Lock()
	c.fetchedAt = time.Time{}
	c.mu.Unlock()
}

// fresh returns the cached snapshot if it is inside the validity window.
func (c *SnapshotCache) fresh() (*Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snap == nil || c.fetchedAt.IsZero() {
		return nil, false
	}
	if c.now().Sub(c.fetchedAt) >= c.ttl {
		return nil, false
	}
	return c.snap, true
}

// rebuild runs the full pipeline (fetch, normalize, join) and installs the
// resulting snapshot. The previous snapshot is replaced, never patched.
func (c *SnapshotCache) rebuild(ctx context.Context) (*Snapshot, error) {
	tables, err := c.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	rel, err := Normalize(tables)
	if err != nil {
		return nil, err
	}

	snap := BuildSnapshot(rel)

	c.mu.Lock()
	c.snap = snap
	c.fetchedAt = c.now()
	c.mu.Unlock()

	slog.Info("snapshot rebuilt",
		"snapshot_id", snap.ID,
		"components", len(snap.Records),
		"loaded_at", snap.LoadedAt,
	)

	return snap, nil
}
