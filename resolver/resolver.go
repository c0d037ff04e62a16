package resolver

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/tzresolve/cache"
	"github.com/jonwraymond/tzresolve/class"
	"github.com/jonwraymond/tzresolve/grammar"
	"github.com/jonwraymond/tzresolve/tzdb"
	"github.com/jonwraymond/tzresolve/zone"
)

// Decoder decodes a compiled zone file. Decode errors are treated as opaque
// by the resolver and propagated as-is.
type Decoder interface {
	Decode(path, name string) (zone.Zone, class.Class, error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(path, name string) (zone.Zone, class.Class, error)

// Decode calls f.
func (f DecoderFunc) Decode(path, name string) (zone.Zone, class.Class, error) {
	return f(path, name)
}

// Config configures a Resolver.
type Config struct {
	// Root is the compiled database root directory.
	Root string

	// Workers is the number of worker slots in the cache. Zero means
	// runtime.GOMAXPROCS(0).
	Workers int

	// Decoder decodes compiled zone files. Nil means tzdb.Decode.
	Decoder Decoder

	// Meter supplies metrics instrumentation. Nil disables metrics.
	Meter metric.Meter
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("resolver: negative worker count %d", c.Workers)
	}
	return nil
}

// Resolver turns zone names into validated zone objects, enforcing a
// caller-supplied class mask.
//
// Contract:
// - Concurrency: each worker id must be used by at most one goroutine at a
//   time; under that discipline all methods except Reset are safe to call
//   concurrently without locks.
// - Reset must not run concurrently with any resolution call (stop-the-world
//   by contract).
type Resolver struct {
	root    string
	workers int
	dec     Decoder
	store   *cache.Store
	metrics *metrics
}

// New creates a Resolver.
func New(cfg Config) (*Resolver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	dec := cfg.Decoder
	if dec == nil {
		dec = DecoderFunc(tzdb.Decode)
	}
	m, err := newMetrics(cfg.Meter)
	if err != nil {
		return nil, err
	}
	return &Resolver{
		root:    cfg.Root,
		workers: cfg.Workers,
		dec:     dec,
		store:   cache.NewStore(cfg.Workers),
		metrics: m,
	}, nil
}

// Workers returns the number of worker slots.
func (r *Resolver) Workers() int { return r.workers }

// maskOf folds the optional mask arguments; no mask means class.Default.
func maskOf(mask []class.Class) class.Class {
	if len(mask) == 0 {
		return class.Default
	}
	m := class.None
	for _, c := range mask {
		m = m.Union(c)
	}
	return m
}

// Resolve resolves name into a zone on behalf of worker, permitting only
// the classes in mask (class.Default when omitted).
//
// Resolution order on a cache miss: a compiled database entry wins, then
// the fixed-offset grammar; otherwise the failure is DatabaseMissingError
// when the database root is missing or empty and UnknownTimeZoneError when
// the name is simply wrong. A successful decode is cached before the mask
// check, so a rejection by mask (DisallowedClassError) leaves the entry in
// place for later calls with a wider mask.
func (r *Resolver) Resolve(worker int, name string, mask ...class.Class) (zone.Zone, error) {
	m := maskOf(mask)
	ctx := context.Background()

	computed := false
	z, c, err := r.store.GetOrCompute(worker, name, func() (zone.Zone, class.Class, error) {
		computed = true
		return r.decode(ctx, name)
	})
	r.metrics.recordLookup(ctx, computed)
	if err != nil {
		return nil, err
	}
	if c.Intersect(m) == class.None {
		return nil, &DisallowedClassError{Name: name, Class: c, Mask: m}
	}
	return z, nil
}

// Exists reports whether name resolves to a zone whose class the mask
// permits. Unknown names and a missing database read as false; a genuine
// decode failure such as data corruption is returned as an error so it is
// never hidden behind the boolean.
//
// Fast path: a fixed-grammar name is reported true without touching the
// cache or the filesystem whenever the mask permits Fixed.
func (r *Resolver) Exists(worker int, name string, mask ...class.Class) (bool, error) {
	m := maskOf(mask)
	if m.Has(class.Fixed) && grammar.Matches(name) {
		return true, nil
	}
	ctx := context.Background()

	_, c, ok, err := r.store.Probe(worker, name, func() (zone.Zone, class.Class, bool, error) {
		z, c, err := r.decode(ctx, name)
		if err != nil {
			var unknown *UnknownTimeZoneError
			var missing *DatabaseMissingError
			if errors.As(err, &unknown) || errors.As(err, &missing) {
				return nil, class.None, false, nil
			}
			return nil, class.None, false, err
		}
		return z, c, true, nil
	})
	if err != nil {
		return false, err
	}
	return ok && c.Intersect(m) != class.None, nil
}

// Must is the literal-resolution convenience form: it panics when err is
// non-nil, for names known good ahead of time.
//
//	warsaw := resolver.Must(r.Resolve(0, "Europe/Warsaw", class.All))
func Must(z zone.Zone, err error) zone.Zone {
	if err != nil {
		panic(err)
	}
	return z
}

// Preload warms every worker's table with names, one goroutine per worker so
// table ownership is preserved. Decodes run under class.All; Preload fails
// only on genuine decode errors or unknown names.
func (r *Resolver) Preload(ctx context.Context, names []string) error {
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < r.workers; w++ {
		g.Go(func() error {
			for _, name := range names {
				if err := ctx.Err(); err != nil {
					return err
				}
				if _, err := r.Resolve(w, name, class.All); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// Reset discards every cached zone and resizes the cache to workers slots;
// workers <= 0 keeps the current count. The caller must ensure no resolution
// call is in flight on any worker.
func (r *Resolver) Reset(workers int) {
	if workers > 0 {
		r.workers = workers
	}
	r.store.Reset(r.workers)
}

// decode is the miss path: database entry, then fixed grammar, then the
// appropriate failure.
func (r *Resolver) decode(ctx context.Context, name string) (zone.Zone, class.Class, error) {
	if path, err := tzdb.PathFor(r.root, name); err == nil && tzdb.Known(r.root, name) {
		start := time.Now()
		z, c, err := r.dec.Decode(path, name)
		r.metrics.recordDecode(ctx, start, err)
		if err != nil {
			return nil, class.None, err
		}
		return z, c, nil
	}
	if grammar.Matches(name) {
		z, err := grammar.Construct(name)
		if err != nil {
			return nil, class.None, err
		}
		return z, class.Fixed, nil
	}
	if tzdb.Empty(r.root) {
		return nil, class.None, &DatabaseMissingError{Name: name}
	}
	return nil, class.None, &UnknownTimeZoneError{Name: name}
}
