package compiler

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang/groupcache/lru"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/ssargent/hybridrow/pkg/layout"
	"github.com/ssargent/hybridrow/pkg/metrics"
	"github.com/ssargent/hybridrow/pkg/schema"
)

// DefaultCacheSize is the number of layouts a Cache keeps when no size is
// given.
const DefaultCacheSize = 1024

// Cache memoizes compiled layouts by namespace fingerprint and schema id.
// Concurrent requests for the same layout share one compilation. A Cache is
// safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	layouts *lru.Cache
	group   singleflight.Group

	logger  *zap.Logger
	metrics *metrics.Metrics
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithLogger sets the logger used for compile diagnostics.
func WithLogger(logger *zap.Logger) CacheOption {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) CacheOption {
	return func(c *Cache) {
		c.metrics = m
	}
}

// NewCache returns a cache holding at most maxEntries layouts.
func NewCache(maxEntries int, opts ...CacheOption) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultCacheSize
	}
	c := &Cache{
		layouts: lru.New(maxEntries),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Layout returns the compiled layout of s, compiling it on a miss.
//
// s must be a member of ns, as for Compile; a cached layout is never handed
// to a schema of another namespace.
func (c *Cache) Layout(ns *schema.Namespace, s *schema.Schema) (*layout.Layout, error) {
	if ns == nil || s == nil {
		panic("compiler: nil namespace or schema")
	}
	if !ns.Index().Contains(s) {
		panic("compiler: schema " + s.Name + " is not a member of namespace " + ns.Name)
	}
	fp, err := ns.Fingerprint()
	if err != nil {
		return nil, fmt.Errorf("failed to fingerprint namespace %q: %w", ns.Name, err)
	}
	key := fmt.Sprintf("%016x/%d", fp, s.SchemaID)

	if l, ok := c.get(key); ok {
		c.metrics.RecordCacheLookup(true)
		return l, nil
	}
	c.metrics.RecordCacheLookup(false)

	v, err, shared := c.group.Do(key, func() (interface{}, error) {
		start := time.Now()
		l, err := Compile(ns, s)
		c.metrics.RecordCompile(time.Since(start), err)
		if err != nil {
			c.logger.Debug("layout compilation failed",
				zap.String("namespace", ns.Name),
				zap.String("schema", s.Name),
				zap.Error(err))
			return nil, err
		}
		c.put(key, l)
		c.logger.Debug("compiled layout",
			zap.String("namespace", ns.Name),
			zap.String("schema", s.Name),
			zap.Int32("schema_id", int32(s.SchemaID)),
			zap.Int("size", l.Size()),
			zap.Duration("elapsed", time.Since(start)))
		return l, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.Debug("shared layout compilation", zap.String("schema", s.Name))
	}
	return v.(*layout.Layout), nil
}

// Len returns the number of cached layouts.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.layouts.Len()
}

// Purge drops every cached layout.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.layouts.Clear()
	c.metrics.SetCachedLayouts(0)
}

func (c *Cache) get(key string) (*layout.Layout, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.layouts.Get(key)
	if !ok {
		return nil, false
	}
	return v.(*layout.Layout), true
}

func (c *Cache) put(key string, l *layout.Layout) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.layouts.Add(key, l)
	c.metrics.SetCachedLayouts(c.layouts.Len())
}

// NamespaceResolver resolves schema ids of one namespace to layouts,
// compiling through a Cache.
type NamespaceResolver struct {
	ns    *schema.Namespace
	cache *Cache
}

// NewNamespaceResolver returns a resolver over ns. A nil cache gets a
// private one.
func NewNamespaceResolver(ns *schema.Namespace, cache *Cache) *NamespaceResolver {
	if cache == nil {
		cache = NewCache(len(ns.Schemas))
	}
	return &NamespaceResolver{ns: ns, cache: cache}
}

func (r *NamespaceResolver) Resolve(id schema.SchemaID) (*layout.Layout, error) {
	s, ok := r.ns.Index().SchemaByID(id)
	if !ok || s.Type != schema.TypeKindSchema || s.Name == "" {
		return nil, errCannotResolveSchema("", id)
	}
	return r.cache.Layout(r.ns, s)
}

var _ layout.Resolver = (*NamespaceResolver)(nil)
