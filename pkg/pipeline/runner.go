package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/tracelayout/pkg/cache"
	"github.com/matzehuels/tracelayout/pkg/observability"
	"github.com/matzehuels/tracelayout/pkg/render/sink"
	"github.com/matzehuels/tracelayout/pkg/table"
)

// Runner executes pipeline stages with caching.
//
// A Runner holds no results, so one Runner can serve concurrent runs with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching and a nil keyer
// selects the default one.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs load → compute → render.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	start := time.Now()
	ds, hit, err := r.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Dataset = ds
	result.Stats.LoadTime = time.Since(start)
	result.Stats.Slices = ds.Slices.RowCount()
	result.CacheInfo.LoadHit = hit
	logDataset(r.Logger, ds)

	start = time.Now()
	t, hit, err := r.ComputeWithCacheInfo(ctx, ds, opts)
	if err != nil {
		return nil, fmt.Errorf("compute: %w", err)
	}
	result.Table = t
	result.Stats.ComputeTime = time.Since(start)
	result.Stats.Rows = t.RowCount()
	result.CacheInfo.ComputeHit = hit
	r.Logger.Info("computed table",
		"table", opts.Table,
		"rows", t.RowCount(),
		"duration", result.Stats.ComputeTime)

	start = time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, t, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(start)
	result.CacheInfo.RenderHit = hit
	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LoadWithCacheInfo loads the input store. Local files are always read
// (their content hash is the cache key for later stages); MongoDB
// snapshots are cached.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) (ds *Dataset, hit bool, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLoad(); err != nil {
		return nil, false, err
	}

	kind := opts.Source
	if kind == SourceAuto {
		kind = DetectSource(opts.Input, nil)
	}
	label := sourceLabel(kind, opts.Input)

	observability.Pipeline().OnLoadStart(ctx, label)
	start := time.Now()
	defer func() {
		rows := 0
		if ds != nil {
			rows = ds.Slices.RowCount()
		}
		observability.Pipeline().OnLoadComplete(ctx, label, rows, time.Since(start), err)
	}()

	if kind == SourceMongo {
		return r.loadMongo(ctx, opts)
	}
	ds, err = ReadFile(opts.Input, opts.Source)
	return ds, false, err
}

// Load is LoadWithCacheInfo without the cache hit flag.
func (r *Runner) Load(ctx context.Context, opts Options) (*Dataset, error) {
	ds, _, err := r.LoadWithCacheInfo(ctx, opts)
	return ds, err
}

// ComputeWithCacheInfo queries the computed table over ds.
func (r *Runner) ComputeWithCacheInfo(ctx context.Context, ds *Dataset, opts Options) (t *table.Table, hit bool, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForCompute(); err != nil {
		return nil, false, err
	}

	arg := opts.Argument(ds)
	key := r.Keyer.TableKey(ds.Hash, opts.Table, opts.TableKeyOpts(ds))

	if !opts.Refresh {
		if data, ok := r.cacheGet(ctx, "table", key); ok {
			if cached, err := table.DecodeJSON(data); err == nil {
				return cached, true, nil
			}
		}
	}

	observability.Pipeline().OnComputeStart(ctx, opts.Table, arg)
	start := time.Now()
	defer func() {
		rows := 0
		if t != nil {
			rows = t.RowCount()
		}
		observability.Pipeline().OnComputeComplete(ctx, opts.Table, rows, time.Since(start), err)
	}()

	reg := NewRegistry(ds.Slices, opts.CheckOrder, opts.Logger)
	t, err = Query(reg, opts.Table, arg, opts.Where, opts.Order)
	if err != nil {
		return nil, false, err
	}

	if data, err := t.MarshalJSON(); err == nil {
		r.cacheSet(ctx, "table", key, data, cache.TTLTable)
	}
	return t, false, nil
}

// Compute is ComputeWithCacheInfo without the cache hit flag.
func (r *Runner) Compute(ctx context.Context, ds *Dataset, opts Options) (*table.Table, error) {
	t, _, err := r.ComputeWithCacheInfo(ctx, ds, opts)
	return t, err
}

// RenderWithCacheInfo renders t in every requested format. The hit flag is
// set only when all formats came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, t *table.Table, opts Options) (artifacts map[string][]byte, hit bool, err error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	tableData, err := t.MarshalJSON()
	if err != nil {
		return nil, false, fmt.Errorf("serialize table for cache key: %w", err)
	}
	tableHash := cache.Hash(tableData)

	artifacts = make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if !opts.Refresh {
			key := r.Keyer.ArtifactKey(tableHash, opts.ArtifactKeyOpts(format))
			if data, ok := r.cacheGet(ctx, "artifact", key); ok {
				artifacts[format] = data
				continue
			}
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	observability.Pipeline().OnRenderStart(ctx, missing)
	start := time.Now()
	defer func() {
		observability.Pipeline().OnRenderComplete(ctx, missing, time.Since(start), err)
	}()

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, format := range missing {
		g.Go(func() error {
			data, err := sink.Render(t, format, opts.Width)
			if err != nil {
				return fmt.Errorf("%s: %w", format, err)
			}
			key := r.Keyer.ArtifactKey(tableHash, opts.ArtifactKeyOpts(format))
			r.cacheSet(gctx, "artifact", key, data, cache.TTLArtifact)

			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, false, err
	}
	return artifacts, false, nil
}

// Render is RenderWithCacheInfo without the cache hit flag.
func (r *Runner) Render(ctx context.Context, t *table.Table, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, t, opts)
	return artifacts, err
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// cacheGet reads key, treating backend errors as misses.
func (r *Runner) cacheGet(ctx context.Context, keyType, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "type", keyType, "err", err)
		return nil, false
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, keyType)
		return data, true
	}
	observability.Cache().OnCacheMiss(ctx, keyType)
	return nil, false
}

// cacheSet writes key. Failures are logged, not returned.
func (r *Runner) cacheSet(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}
