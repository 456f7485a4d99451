package catalog

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"

	"github.com/ssargent/hybridrow/pkg/compiler"
	"github.com/ssargent/hybridrow/pkg/metrics"
	"github.com/ssargent/hybridrow/pkg/recordio"
	"github.com/ssargent/hybridrow/pkg/row"
	"github.com/ssargent/hybridrow/pkg/schema"
)

var (
	segmentPrefix     = []byte("seg/")
	fingerprintPrefix = []byte("fp/")
)

// ErrNotFound is returned for ids the catalog does not hold.
var ErrNotFound = errors.New("catalog: segment not found")

// Options configures a Catalog.
type Options struct {
	// Sync makes every write durable before it returns.
	Sync    bool
	Logger  *zap.Logger
	Metrics *metrics.Metrics
	// Cache compiles registered namespaces. Nil gives the catalog a private
	// cache.
	Cache *compiler.Cache
}

// Entry is one registered namespace.
type Entry struct {
	ID          ksuid.KSUID
	Fingerprint uint64
	Segment     recordio.Segment
}

// Created is the registration time carried by the entry's id.
func (e Entry) Created() time.Time { return e.ID.Time() }

// Catalog persists namespaces as formatted segment rows. Registering the
// same namespace twice returns the first entry.
type Catalog struct {
	db      *pebble.DB
	writeOp *pebble.WriteOptions
	logger  *zap.Logger
	metrics *metrics.Metrics
	cache   *compiler.Cache
	mu      sync.Mutex
}

// Open opens or creates a catalog in dir.
func Open(dir string, opts Options) (*Catalog, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	c := &Catalog{
		db:      db,
		writeOp: pebble.NoSync,
		logger:  opts.Logger,
		metrics: opts.Metrics,
		cache:   opts.Cache,
	}
	if opts.Sync {
		c.writeOp = pebble.Sync
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.cache == nil {
		c.cache = compiler.NewCache(compiler.DefaultCacheSize, compiler.WithLogger(c.logger), compiler.WithMetrics(c.metrics))
	}
	return c, nil
}

// Register validates sdl, compiles every schema in it and stores it with
// comment. It reports whether a new entry was created.
func (c *Catalog) Register(comment string, sdl []byte) (Entry, bool, error) {
	entry, created, err := c.register(comment, sdl)
	c.metrics.RecordCatalogOperation("register", err)
	return entry, created, err
}

func (c *Catalog) register(comment string, sdl []byte) (Entry, bool, error) {
	ns, err := schema.ParseNamespace(sdl)
	if err != nil {
		return Entry{}, false, err
	}
	if err := schema.Validate(ns); err != nil {
		return Entry{}, false, err
	}
	for _, s := range ns.Schemas {
		if _, err := c.cache.Layout(ns, s); err != nil {
			return Entry{}, false, fmt.Errorf("schema %q: %w", s.Name, err)
		}
	}
	fp, err := ns.Fingerprint()
	if err != nil {
		return Entry{}, false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	existing, err := c.lookup(fp)
	switch {
	case err == nil:
		entry, err := c.get(existing)
		if err == nil {
			c.logger.Debug("namespace already registered",
				zap.String("namespace", ns.Name),
				zap.Stringer("id", existing))
			return entry, false, nil
		}
		// a dangling fingerprint key is overwritten below
		if !errors.Is(err, ErrNotFound) {
			return Entry{}, false, err
		}
	case !errors.Is(err, ErrNotFound):
		return Entry{}, false, err
	}

	buf, err := recordio.FormatSegment(recordio.Segment{Comment: comment, Namespace: ns}, &row.MemoryResizer{})
	if err != nil {
		return Entry{}, false, fmt.Errorf("failed to format segment: %w", err)
	}

	id := ksuid.New()
	batch := c.db.NewBatch()
	defer batch.Close()
	if err := batch.Set(segmentKey(id), buf.Bytes(), nil); err != nil {
		return Entry{}, false, err
	}
	if err := batch.Set(fingerprintKey(fp), id.Bytes(), nil); err != nil {
		return Entry{}, false, err
	}
	if err := batch.Commit(c.writeOp); err != nil {
		return Entry{}, false, fmt.Errorf("failed to store segment: %w", err)
	}

	c.logger.Info("registered namespace",
		zap.String("namespace", ns.Name),
		zap.Stringer("id", id),
		zap.Int("schemas", len(ns.Schemas)))

	seg, err := recordio.ReadSegment(buf.Bytes())
	if err != nil {
		return Entry{}, false, err
	}
	return Entry{ID: id, Fingerprint: fp, Segment: seg}, true, nil
}

// Get returns the entry stored under id.
func (c *Catalog) Get(id ksuid.KSUID) (Entry, error) {
	entry, err := c.get(id)
	c.metrics.RecordCatalogOperation("get", err)
	return entry, err
}

func (c *Catalog) get(id ksuid.KSUID) (Entry, error) {
	data, closer, err := c.db.Get(segmentKey(id))
	if errors.Is(err, pebble.ErrNotFound) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, err
	}
	defer closer.Close()
	return decodeEntry(id, data)
}

func (c *Catalog) lookup(fp uint64) (ksuid.KSUID, error) {
	data, closer, err := c.db.Get(fingerprintKey(fp))
	if errors.Is(err, pebble.ErrNotFound) {
		return ksuid.Nil, ErrNotFound
	}
	if err != nil {
		return ksuid.Nil, err
	}
	defer closer.Close()
	return ksuid.FromBytes(data)
}

// List returns every entry in registration order.
func (c *Catalog) List() ([]Entry, error) {
	entries, err := c.list()
	c.metrics.RecordCatalogOperation("list", err)
	return entries, err
}

func (c *Catalog) list() ([]Entry, error) {
	iter, err := c.db.NewIter(&pebble.IterOptions{
		LowerBound: segmentPrefix,
		UpperBound: prefixEnd(segmentPrefix),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var entries []Entry
	for iter.First(); iter.Valid(); iter.Next() {
		id, err := ksuid.FromBytes(bytes.TrimPrefix(iter.Key(), segmentPrefix))
		if err != nil {
			return nil, fmt.Errorf("catalog: bad key %x: %w", iter.Key(), err)
		}
		entry, err := decodeEntry(id, iter.Value())
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, iter.Error()
}

// Delete removes the entry stored under id.
func (c *Catalog) Delete(id ksuid.KSUID) error {
	err := c.delete(id)
	c.metrics.RecordCatalogOperation("delete", err)
	return err
}

func (c *Catalog) delete(id ksuid.KSUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, err := c.get(id)
	if err != nil {
		return err
	}

	batch := c.db.NewBatch()
	defer batch.Close()
	if err := batch.Delete(segmentKey(id), nil); err != nil {
		return err
	}
	if err := batch.Delete(fingerprintKey(entry.Fingerprint), nil); err != nil {
		return err
	}
	if err := batch.Commit(c.writeOp); err != nil {
		return err
	}
	c.logger.Info("deleted namespace", zap.Stringer("id", id))
	return nil
}

// Close closes the underlying store.
func (c *Catalog) Close() error {
	return c.db.Close()
}

func decodeEntry(id ksuid.KSUID, data []byte) (Entry, error) {
	seg, err := recordio.ReadSegment(data)
	if err != nil {
		return Entry{}, fmt.Errorf("catalog: segment %s: %w", id, err)
	}
	entry := Entry{ID: id, Segment: seg}
	if seg.Namespace != nil {
		if entry.Fingerprint, err = seg.Namespace.Fingerprint(); err != nil {
			return Entry{}, err
		}
	}
	return entry, nil
}

func segmentKey(id ksuid.KSUID) []byte {
	return append(append([]byte(nil), segmentPrefix...), id.Bytes()...)
}

func fingerprintKey(fp uint64) []byte {
	return binary.BigEndian.AppendUint64(append([]byte(nil), fingerprintPrefix...), fp)
}

func prefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	end[len(end)-1]++
	return end
}
