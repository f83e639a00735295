package pipeline

import (
	"context"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/searchdex/crateindex/pkg/cache"
	"github.com/searchdex/crateindex/pkg/corpus"
	"github.com/searchdex/crateindex/pkg/crate"
	"github.com/searchdex/crateindex/pkg/errors"
	"github.com/searchdex/crateindex/pkg/index"
	"github.com/searchdex/crateindex/pkg/observability"
)

// Runner encapsulates pipeline execution with artifact caching.
//
// The Runner is stateless except for the cache and logger - it doesn't store
// build results. The build itself is single-threaded by design; the Runner
// only adds caching and instrumentation around it.
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

// Execute runs the complete build and writes the artifact to
// opts.OutputPath. When the input files and options match a cached build,
// the cached artifact is written instead of recomputing.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{RunID: uuid.NewString()}
	logger := opts.Logger.With("run", result.RunID)

	cratesPath := filepath.Join(opts.CSVDir, CratesFile)
	versionsPath := filepath.Join(opts.CSVDir, VersionsFile)

	// Cache lookup keyed by input content, so stale dumps never collide.
	cacheKey, err := r.artifactKey(cratesPath, versionsPath, opts)
	if err != nil {
		return nil, err
	}
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.CacheEvents().OnCacheHit(ctx, "index")
			result.Contents = string(data)
			result.CacheInfo.ArtifactHit = true
			if err := index.Write(opts.OutputPath, result.Contents); err != nil {
				return nil, err
			}
			logger.Info("artifact from cache", "bytes", len(data), "output", opts.OutputPath)
			return result, nil
		}
		observability.CacheEvents().OnCacheMiss(ctx, "index")
	}

	contents, err := r.build(ctx, opts, logger, cratesPath, versionsPath, &result.Stats)
	if err != nil {
		return nil, err
	}
	result.Contents = contents

	writeStart := time.Now()
	err = index.Write(opts.OutputPath, contents)
	observability.Build().OnWriteComplete(ctx, opts.OutputPath, len(contents), time.Since(writeStart), err)
	if err != nil {
		return nil, err
	}
	logger.Info("wrote crate index", "bytes", len(contents), "output", opts.OutputPath)

	if err := r.Cache.Set(ctx, cacheKey, []byte(contents), cache.TTLArtifact); err == nil {
		observability.CacheEvents().OnCacheSet(ctx, "index", len(contents))
	}

	return result, nil
}

// build runs the uncached load → rank → resolve → collect → minify →
// serialize sequence and returns the artifact text.
func (r *Runner) build(ctx context.Context, opts Options, logger *log.Logger, cratesPath, versionsPath string, stats *Stats) (string, error) {
	// Stage 1: Load
	loadStart := time.Now()
	observability.Build().OnLoadStart(ctx, cratesPath)
	crates, err := crate.LoadCrates(cratesPath)
	observability.Build().OnLoadComplete(ctx, cratesPath, len(crates), time.Since(loadStart), err)
	if err != nil {
		return "", err
	}

	versionsStart := time.Now()
	observability.Build().OnLoadStart(ctx, versionsPath)
	versions, err := crate.LoadVersions(versionsPath)
	observability.Build().OnLoadComplete(ctx, versionsPath, len(versions), time.Since(versionsStart), err)
	if err != nil {
		return "", err
	}
	stats.CrateCount = len(crates)
	stats.VersionCount = len(versions)
	stats.LoadTime = time.Since(loadStart)
	logger.Info("loaded tables",
		"crates", len(crates),
		"versions", len(versions),
		"duration", stats.LoadTime)

	// Stage 2: Rank
	rankStart := time.Now()
	ranked, err := crate.Rank(crates, opts.MaxCrates)
	stats.RankTime = time.Since(rankStart)
	observability.Build().OnRankComplete(ctx, len(ranked), stats.RankTime, err)
	if err != nil {
		return "", err
	}
	stats.RankedCount = len(ranked)
	logger.Info("ranked crates", "kept", len(ranked), "duration", stats.RankTime)

	// Stage 3: Resolve latest versions
	resolveStart := time.Now()
	latest := crate.ResolveLatest(versions)
	crate.Apply(ranked, latest)
	stats.ResolveTime = time.Since(resolveStart)
	observability.Build().OnResolveComplete(ctx, len(latest), stats.ResolveTime)
	logger.Info("resolved versions", "crates_with_versions", len(latest), "duration", stats.ResolveTime)

	// Stage 4+5: Collect corpus, build dictionary
	minifyStart := time.Now()
	collector := corpus.New()
	for _, c := range ranked {
		collector.CollectCrateID(c.Name)
		if c.Description != "" {
			collector.CollectDescription(c.Description)
		}
	}
	words := collector.Words()
	m := opts.Minifier(words)
	mapping := m.Mapping()
	stats.CorpusSize = len(words)
	stats.DictSize = len(mapping)
	observability.Build().OnMinifyComplete(ctx, len(words), len(mapping), time.Since(minifyStart))
	logger.Debug("built dictionary", "corpus", len(words), "entries", len(mapping))

	// Stage 6: Serialize
	serializeStart := time.Now()
	idx := index.Build(ranked, m)
	contents, err := index.Render(idx, mapping)
	if err != nil {
		return "", err
	}
	stats.SerializeTime = time.Since(serializeStart)
	logger.Info("serialized index", "entries", len(idx), "duration", stats.SerializeTime)

	return contents, nil
}

// artifactKey derives the cache key from the content of both input files
// plus the options that shape the artifact.
func (r *Runner) artifactKey(cratesPath, versionsPath string, opts Options) (string, error) {
	cratesHash, err := cache.HashFile(cratesPath)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeIO, err, "hash %s", cratesPath)
	}
	versionsHash, err := cache.HashFile(versionsPath)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeIO, err, "hash %s", versionsPath)
	}
	return r.Keyer.IndexKey(cratesHash, versionsHash, opts.KeyOpts()), nil
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
