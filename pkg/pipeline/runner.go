package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/labelspread/pkg/cache"
	"github.com/matzehuels/labelspread/pkg/labels"
	"github.com/matzehuels/labelspread/pkg/place"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
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
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete arrange → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, set *labels.Set, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Arrange
	arrangeStart := time.Now()
	res, arrangeHit, err := r.ArrangeWithCacheInfo(ctx, set, opts)
	if err != nil {
		return nil, fmt.Errorf("arrange: %w", err)
	}
	result.Result = res
	result.Stats.ArrangeTime = time.Since(arrangeStart)
	result.Stats.LabelCount = len(res.Placements)
	result.Stats.GroupCount = len(place.Groups(res.Positions(), res.Separation))
	result.CacheInfo.ArrangeHit = arrangeHit

	// Compute result hash for cache keys and API responses
	if resultData, err := labels.MarshalResult(res); err == nil {
		result.ResultHash = cache.Hash(resultData)
	}

	r.Logger.Info("arranged labels",
		"labels", result.Stats.LabelCount,
		"max_offset", res.MaxOffset,
		"duration", result.Stats.ArrangeTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, res, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ArrangeWithCacheInfo solves a placement with caching and returns cache
// hit info. The cache key combines the set's content hash with the
// placement overrides, so the same set arranged under different options
// caches separately.
func (r *Runner) ArrangeWithCacheInfo(ctx context.Context, set *labels.Set, opts Options) (*labels.Result, bool, error) {
	if err := opts.ValidateForArrange(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key from the input set; the overrides live in the
	// key options.
	setData, err := labels.MarshalSet(set)
	if err != nil {
		return nil, false, fmt.Errorf("serialize set for cache key: %w", err)
	}
	cacheKey := r.Keyer.PlacementKey(cache.Hash(setData), opts.PlacementKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			res, err := labels.UnmarshalResult(data)
			if err == nil {
				return res, true, nil // Cache hit
			}
			// If deserialization fails, fall through to recompute
		}
	}

	// Arrange
	res, err := labels.Arrange(opts.ApplyTo(set))
	if err != nil {
		return nil, false, err
	}

	// Cache the result. Refresh still writes so the next read is fresh.
	if data, err := labels.MarshalResult(res); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLPlacement)
	}

	return res, false, nil // Cache miss
}

// Arrange is a convenience wrapper that calls ArrangeWithCacheInfo and discards the cache hit info.
func (r *Runner) Arrange(ctx context.Context, set *labels.Set, opts Options) (*labels.Result, error) {
	res, _, err := r.ArrangeWithCacheInfo(ctx, set, opts)
	return res, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res *labels.Result, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key from the arranged result
	resultData, err := labels.MarshalResult(res)
	if err != nil {
		return nil, false, fmt.Errorf("serialize result for cache key: %w", err)
	}
	resultHash := cache.Hash(resultData)

	// Try to get all formats from cache (unless refresh requested)
	if !opts.Refresh {
		allCached := true
		artifacts := make(map[string][]byte)

		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(resultHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				artifacts[format] = data
			} else {
				allCached = false
				break
			}
		}

		if allCached && len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil // All artifacts from cache
		}
	}

	// Render all formats
	rendered, err := RenderArtifacts(res, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(resultHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, res *labels.Result, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, res, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
