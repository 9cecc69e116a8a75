package state

import (
	"errors"

	"github.com/spaghettifunk/anima-state/engine/core"
)

// Backend supplies the device side of a controller.
type Backend[D any, H any] interface {
	// ConstructNative builds the native object for a fully populated
	// descriptor. The same value must be accepted every time.
	ConstructNative(desc D) (H, error)
	// BindNative makes handle the active state of the stage.
	BindNative(handle H) error
	// ReleaseNative destroys a native object that left the cache.
	ReleaseNative(handle H) error
}

type options struct {
	validate   bool
	maxEntries int
}

type Option func(*options)

// WithValidation runs Validate on every descriptor that reaches the device
// and logs the warnings. Meant for debug builds.
func WithValidation(enabled bool) Option {
	return func(o *options) {
		o.validate = enabled
	}
}

// WithMaxCacheEntries sets the cache size past which a warning is logged.
func WithMaxCacheEntries(n int) Option {
	return func(o *options) {
		o.maxEntries = n
	}
}

// Controller holds the requested state of one fixed-function stage on one
// rendering context and only touches the device when that state changes.
//
// A controller starts uninitialized. The first successful Set or Reset binds
// a native object and from then on the bound handle is always the one the
// cache associates with Current. Not safe for concurrent use.
type Controller[D Descriptor[D], H comparable] struct {
	stage    Stage
	backend  Backend[D, H]
	cache    *Cache[D, H]
	defaults D
	current  D
	bound    H
	isBound  bool
	validate bool
	metrics  core.StateMetrics
}

func NewController[D Descriptor[D], H comparable](defaults D, backend Backend[D, H], opts ...Option) *Controller[D, H] {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	defaults = normalize(defaults)
	c := &Controller[D, H]{
		stage:    defaults.Stage(),
		backend:  backend,
		defaults: defaults,
		current:  defaults,
		validate: o.validate,
	}
	c.cache = NewCache[D, H](c.stage, backend.ConstructNative, backend.ReleaseNative, &c.metrics)
	c.cache.SetMaxEntries(o.maxEntries)
	return c
}

// Current returns the last descriptor successfully applied, or the default
// descriptor before the first one.
func (c *Controller[D, H]) Current() D {
	return c.current
}

// Defaults returns the descriptor Reset restores.
func (c *Controller[D, H]) Defaults() D {
	return c.defaults
}

// Bound returns the handle active on the device and whether there is one.
func (c *Controller[D, H]) Bound() (H, bool) {
	return c.bound, c.isBound
}

func (c *Controller[D, H]) IsBound() bool {
	return c.isBound
}

func (c *Controller[D, H]) Stage() Stage {
	return c.stage
}

func (c *Controller[D, H]) SetValidation(enabled bool) {
	c.validate = enabled
}

func (c *Controller[D, H]) SetMaxCacheEntries(n int) {
	c.cache.SetMaxEntries(n)
}

// CacheLen returns the number of native objects currently cached.
func (c *Controller[D, H]) CacheLen() int {
	return c.cache.Len()
}

func (c *Controller[D, H]) Metrics() core.StateMetrics {
	return c.metrics.Snapshot()
}

// Set makes desc the active state. A descriptor equal to Current is a no-op
// once the controller is bound. On failure the controller keeps its previous
// descriptor and handle.
func (c *Controller[D, H]) Set(desc D) error {
	desc = normalize(desc)
	if c.isBound && desc.Equal(c.current) {
		c.metrics.RecordSkippedBind()
		return nil
	}

	if c.validate {
		c.diagnose(desc)
	}

	handle, err := c.cache.Resolve(desc)
	if err != nil {
		return err
	}

	if c.isBound && handle == c.bound {
		c.current = desc
		c.metrics.RecordSkippedBind()
		return nil
	}
	return c.bind(desc, handle)
}

// Reset restores the default descriptor, evicts every cached object and binds
// a freshly built default object, even when the default was already active.
func (c *Controller[D, H]) Reset() error {
	evictErr := c.cache.EvictAll()

	// every handle was released, including the bound one
	c.isBound = false
	c.current = c.defaults

	if c.validate {
		c.diagnose(c.defaults)
	}

	handle, err := c.cache.Resolve(c.defaults)
	if err != nil {
		return errors.Join(evictErr, err)
	}
	if err := c.bind(c.defaults, handle); err != nil {
		return errors.Join(evictErr, err)
	}
	return evictErr
}

// Purge drops the cached object for desc, for configurations known to be
// obsolete. If that object is the bound one, Current is rebuilt and bound
// again so the bound handle always belongs to Current. Should the rebuild
// fail the controller is left unbound and the next Set rebinds.
func (c *Controller[D, H]) Purge(desc D) error {
	handle, found, err := c.cache.Purge(desc)
	if !found || !c.isBound || handle != c.bound {
		return err
	}

	var zero H
	c.bound = zero
	c.isBound = false
	core.LogDebug("%s state: purged the bound object, rebinding current", c.stage)

	rebuilt, rerr := c.cache.Resolve(c.current)
	if rerr != nil {
		return errors.Join(err, rerr)
	}
	return errors.Join(err, c.bind(c.current, rebuilt))
}

// Close releases every cached object. The controller can be used again, it
// starts from the uninitialized state. Calling Close twice is harmless.
func (c *Controller[D, H]) Close() error {
	err := c.cache.EvictAll()
	var zero H
	c.bound = zero
	c.isBound = false
	c.current = c.defaults
	return err
}

func (c *Controller[D, H]) bind(desc D, handle H) error {
	err := c.backend.BindNative(handle)
	c.metrics.RecordBind(err)
	if err != nil {
		var bindErr *BindError
		if errors.As(err, &bindErr) {
			return err
		}
		return &BindError{Stage: c.stage, Err: err}
	}
	c.current = desc
	c.bound = handle
	c.isBound = true
	return nil
}

func (c *Controller[D, H]) diagnose(desc D) {
	if err := desc.Validate(); err != nil {
		core.LogWarn("%s", err.Error())
	}
}
