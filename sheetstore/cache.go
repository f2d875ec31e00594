package sheetstore

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bsm/redislock"
)

// Snapshot is one immutable bundle of every registered table, loaded
// together. Readers share it; it is never mutated after publication.
type Snapshot struct {
	Tables   map[string][]Record
	Status   map[string]ReadStatus
	LoadedAt time.Time

	expiresAt time.Time
}

// Cache is a read-through TTL cache over the store. There is no
// write-through: every successful append must call Invalidate so the next
// read observes the new row. The snapshot pointer is swapped atomically so a
// concurrent read never sees a half-invalidated state.
type Cache struct {
	store  Store
	exec   *Executor
	specs  []TableSpec
	ttl    time.Duration
	locker *redislock.Client

	mu   sync.Mutex // serializes refresh
	snap atomic.Pointer[Snapshot]

	now func() time.Time
}

func NewCache(store Store, exec *Executor, specs []TableSpec, ttl time.Duration, locker *redislock.Client) *Cache {
	return &Cache{
		store:  store,
		exec:   exec,
		specs:  specs,
		ttl:    ttl,
		locker: locker,
		now:    time.Now,
	}
}

// EnsureTables provisions every registered table. Called once at startup.
func (c *Cache) EnsureTables(ctx context.Context) error {
	for _, spec := range c.specs {
		spec := spec
		err := c.exec.Do(ctx, "GetOrCreate "+spec.Name, func() error {
			return c.store.GetOrCreate(ctx, spec)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Load returns the current snapshot, refreshing from the store when the TTL
// has elapsed or the cache was invalidated by a write.
func (c *Cache) Load(ctx context.Context) (*Snapshot, error) {
	if s := c.snap.Load(); s != nil && c.now().Before(s.expiresAt) {
		return s, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another session may have refreshed while we waited on the lock.
	if s := c.snap.Load(); s != nil && c.now().Before(s.expiresAt) {
		return s, nil
	}

	// Best-effort cross-replica spacing: one replica refreshing at a time
	// keeps a fleet from burning read quota in a stampede. Refresh proceeds
	// either way; the lock only staggers it.
	if c.locker != nil {
		if lock, err := c.locker.Obtain(ctx, "clinicops:cache-refresh", 10*time.Second, nil); err == nil {
			defer lock.Release(context.Background())
		}
	}

	loadedAt := c.now()
	snap := &Snapshot{
		Tables:   make(map[string][]Record, len(c.specs)),
		Status:   make(map[string]ReadStatus, len(c.specs)),
		LoadedAt: loadedAt,

		expiresAt: loadedAt.Add(c.ttl),
	}

	for _, spec := range c.specs {
		name := spec.Name
		var rows []Record
		var status ReadStatus
		err := c.exec.Do(ctx, "ReadAll "+name, func() error {
			var rerr error
			rows, status, rerr = c.store.ReadAll(ctx, name)
			return rerr
		})
		if err != nil {
			return nil, err
		}
		snap.Tables[name] = rows
		snap.Status[name] = status
	}

	c.snap.Store(snap)
	return snap, nil
}

// Table reads one table through the cache.
func (c *Cache) Table(ctx context.Context, name string) ([]Record, ReadStatus, error) {
	snap, err := c.Load(ctx)
	if err != nil {
		return nil, ReadDegraded, err
	}
	return snap.Tables[name], snap.Status[name], nil
}

// Invalidate drops the snapshot. Required after every successful write.
func (c *Cache) Invalidate() {
	c.snap.Store(nil)
}
