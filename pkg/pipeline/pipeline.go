// Package pipeline provides the core index build pipeline for crateindex.
//
// This package implements the complete load → rank → resolve → collect →
// minify → serialize pipeline that turns the crates.io CSV dumps into the
// search-index artifact. Centralizing it here keeps the CLI a thin wrapper
// and lets tests drive the whole build with synthetic populations.
//
// # Architecture
//
// The pipeline is strictly linear and single-threaded:
//
//  1. Load: read crates.csv and versions.csv into memory
//  2. Rank: sort by downloads, keep the top MaxCrates+1
//  3. Resolve: pick the highest published version per ranked crate
//  4. Collect: extract the token corpus from names and descriptions
//  5. Minify: build the substitution dictionary from the corpus
//  6. Serialize: assemble and write the JavaScript artifact
//
// Any stage failing aborts the run; there is no partial output.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{CSVDir: "dumps/2026-08-01"}
//	result, err := runner.Execute(ctx, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/searchdex/crateindex/pkg/cache"
	"github.com/searchdex/crateindex/pkg/config"
	"github.com/searchdex/crateindex/pkg/errors"
	"github.com/searchdex/crateindex/pkg/index"
	"github.com/searchdex/crateindex/pkg/minify"
)

// Input file names expected under Options.CSVDir.
const (
	CratesFile   = "crates.csv"
	VersionsFile = "versions.csv"
)

// MinifierFactory builds a minifier from a token corpus. The pipeline always
// constructs the dictionary from the exact corpus it collected; substitution
// correctness depends on dictionary and encoded values sharing one corpus.
type MinifierFactory func(corpus []string) index.Minifier

// Options contains all configuration for the index build pipeline.
type Options struct {
	// CSVDir is the directory holding crates.csv and versions.csv. Required.
	CSVDir string `json:"csv_dir"`

	// OutputPath is where the artifact is written.
	// Defaults to index.DefaultOutputPath.
	OutputPath string `json:"output_path,omitempty"`

	// MaxCrates is the ranking cutoff; the index holds MaxCrates+1 entries.
	// Defaults to config.DefaultMaxCrates.
	MaxCrates int `json:"max_crates,omitempty"`

	// Refresh bypasses the artifact cache.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger     `json:"-"`
	Minifier MinifierFactory `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.CSVDir == "" {
		return errors.New(errors.ErrCodeInvalidInput, "csv directory is required")
	}
	if o.OutputPath == "" {
		o.OutputPath = index.DefaultOutputPath
	}
	if o.MaxCrates == 0 {
		o.MaxCrates = config.DefaultMaxCrates
	}
	if o.MaxCrates < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max crates must be positive, got %d", o.MaxCrates)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Minifier == nil {
		o.Minifier = func(corpus []string) index.Minifier { return minify.New(corpus) }
	}
	o.validated = true
	return nil
}

// KeyOpts returns the cache key options for this build.
func (o *Options) KeyOpts() cache.IndexKeyOpts {
	return cache.IndexKeyOpts{MaxCrates: o.MaxCrates}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this execution in logs and hooks.
	RunID string

	// Contents is the artifact text that was written.
	Contents string

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks whether the artifact came from cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	CrateCount   int // crates loaded before truncation
	VersionCount int // version records loaded
	RankedCount  int // crates surviving ranking (MaxCrates+1)
	CorpusSize   int // corpus entries fed to the minifier
	DictSize     int // substitution dictionary entries

	LoadTime      time.Duration
	RankTime      time.Duration
	ResolveTime   time.Duration
	SerializeTime time.Duration
}

// CacheInfo tracks cache usage for the run.
type CacheInfo struct {
	ArtifactHit bool // Whether the artifact came from cache
}
