package state

import (
	"errors"
	"fmt"

	"github.com/spaghettifunk/anima-state/engine/core"
)

type cacheEntry[D any, H any] struct {
	key    D
	handle H
}

// Cache maps descriptor values to the native objects built from them. A
// native object is built at most once per distinct value for as long as the
// entry lives. Keys are bucketed by Hash and matched with Equal, so the
// epsilon tolerance of the float fields is honoured.
//
// A Cache belongs to a single controller and is not safe for concurrent use:
// the check-then-construct sequence of Resolve would need one mutex around
// the whole map.
type Cache[D Descriptor[D], H any] struct {
	stage     Stage
	buckets   map[uint64][]cacheEntry[D, H]
	count     int
	construct func(D) (H, error)
	release   func(H) error
	metrics   *core.StateMetrics

	maxEntries int
	warned     bool
}

// NewCache builds an empty cache. release may be nil when the native objects
// need no cleanup; metrics may be nil.
func NewCache[D Descriptor[D], H any](stage Stage, construct func(D) (H, error), release func(H) error, metrics *core.StateMetrics) *Cache[D, H] {
	if metrics == nil {
		metrics = &core.StateMetrics{}
	}
	return &Cache[D, H]{
		stage:     stage,
		buckets:   make(map[uint64][]cacheEntry[D, H]),
		construct: construct,
		release:   release,
		metrics:   metrics,
	}
}

// SetMaxEntries sets the size past which the cache logs a warning. The cache
// never drops entries on its own. 0 disables the warning.
func (c *Cache[D, H]) SetMaxEntries(n int) {
	c.maxEntries = n
}

func (c *Cache[D, H]) Len() int {
	return c.count
}

func (c *Cache[D, H]) find(desc D) (uint64, int) {
	h := desc.Hash()
	for i, e := range c.buckets[h] {
		if e.key.Equal(desc) {
			return h, i
		}
	}
	return h, -1
}

// Lookup returns the handle cached for desc without building anything.
func (c *Cache[D, H]) Lookup(desc D) (H, bool) {
	desc = normalize(desc)
	h, i := c.find(desc)
	if i < 0 {
		var zero H
		return zero, false
	}
	return c.buckets[h][i].handle, true
}

// Resolve returns the handle cached for desc, building and storing it on a
// miss. A failed build stores nothing and returns a *StateCreationError.
func (c *Cache[D, H]) Resolve(desc D) (H, error) {
	desc = normalize(desc)
	h, i := c.find(desc)
	if i >= 0 {
		c.metrics.RecordResolve(true)
		return c.buckets[h][i].handle, nil
	}
	c.metrics.RecordResolve(false)

	handle, err := c.construct(desc)
	c.metrics.RecordConstruct(err)
	if err != nil {
		var zero H
		var creationErr *StateCreationError
		if errors.As(err, &creationErr) {
			return zero, err
		}
		return zero, &StateCreationError{Stage: c.stage, Descriptor: desc, Err: err}
	}

	c.buckets[h] = append(c.buckets[h], cacheEntry[D, H]{key: desc, handle: handle})
	c.count++
	core.LogDebug("%s state cache: created native object #%d", c.stage, c.count)

	if c.maxEntries > 0 && c.count > c.maxEntries && !c.warned {
		c.warned = true
		core.LogWarn("%s state cache holds %d entries (limit %d), descriptors are probably built from unbounded values", c.stage, c.count, c.maxEntries)
	}
	return handle, nil
}

// Purge drops and releases the entry matching desc. It returns the released
// handle and whether an entry was found; absent entries are a no-op. The
// entry is gone even when the release itself fails.
func (c *Cache[D, H]) Purge(desc D) (H, bool, error) {
	desc = normalize(desc)
	h, i := c.find(desc)
	if i < 0 {
		var zero H
		return zero, false, nil
	}

	bucket := c.buckets[h]
	handle := bucket[i].handle
	bucket = append(bucket[:i], bucket[i+1:]...)
	if len(bucket) == 0 {
		delete(c.buckets, h)
	} else {
		c.buckets[h] = bucket
	}
	c.count--
	c.metrics.RecordPurge()
	c.metrics.RecordRelease()
	core.LogDebug("%s state cache: purged one entry, %d left", c.stage, c.count)

	return handle, true, c.releaseHandle(handle)
}

// EvictAll releases every entry and empties the cache. Calling it on an
// empty cache does nothing. Release failures are collected, every handle is
// still released exactly once.
func (c *Cache[D, H]) EvictAll() error {
	if c.count == 0 {
		return nil
	}

	var errs []error
	for _, bucket := range c.buckets {
		for _, e := range bucket {
			if err := c.releaseHandle(e.handle); err != nil {
				errs = append(errs, err)
			}
		}
	}
	n := c.count
	c.buckets = make(map[uint64][]cacheEntry[D, H])
	c.count = 0
	c.warned = false
	c.metrics.RecordEviction(n)
	core.LogDebug("%s state cache: evicted %d entries", c.stage, n)

	return errors.Join(errs...)
}

func (c *Cache[D, H]) releaseHandle(handle H) error {
	if c.release == nil {
		return nil
	}
	if err := c.release(handle); err != nil {
		core.LogError("%s state cache: failed to release native object: %s", c.stage, err.Error())
		return fmt.Errorf("release %s state: %w", c.stage, err)
	}
	return nil
}
