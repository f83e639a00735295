package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/searchdex/crateindex/pkg/cache"
	"github.com/searchdex/crateindex/pkg/errors"
	"github.com/searchdex/crateindex/pkg/index"
	"github.com/searchdex/crateindex/pkg/minify"
)

const testCrates = `id,name,downloads,description
1,serde,900,A serialization framework
2,tokio,800,An async runtime
3,rand,700,Random number generators
4,obscure,5,Nobody downloads this
`

const testVersions = `crate_id,num
1,1.0.0
1,1.0.219
2,1.40.0
2,0.1.0
4,0.1.0
`

func writeFixtures(t *testing.T, crates, versions string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, CratesFile), []byte(crates), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, VersionsFile), []byte(versions), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func testOptions(t *testing.T, csvDir string) Options {
	t.Helper()
	return Options{
		CSVDir:     csvDir,
		OutputPath: filepath.Join(t.TempDir(), "crates.js"),
		MaxCrates:  2,
		Logger:     log.New(io.Discard),
		Minifier:   func([]string) index.Minifier { return minify.Nop{} },
	}
}

// decodeIndex extracts the crateIndex object from the artifact text.
func decodeIndex(t *testing.T, contents string) map[string][2]any {
	t.Helper()
	_, after, ok := strings.Cut(contents, "var crateIndex=")
	if !ok {
		t.Fatalf("no crateIndex declaration in %q", contents)
	}
	literal := strings.TrimSuffix(after, ";")
	literal = strings.ReplaceAll(literal, "[N,", "[null,")

	var idx map[string][2]any
	if err := json.Unmarshal([]byte(literal), &idx); err != nil {
		t.Fatalf("crateIndex literal does not parse: %v\n%s", err, literal)
	}
	return idx
}

func TestExecute(t *testing.T) {
	dir := writeFixtures(t, testCrates, testVersions)
	opts := testOptions(t, dir)

	runner := NewRunner(cache.NewNullCache(), nil, log.New(io.Discard))
	defer runner.Close()

	result, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	if result.RunID == "" {
		t.Error("missing run id")
	}
	if result.CacheInfo.ArtifactHit {
		t.Error("first run should not hit the cache")
	}
	if result.Stats.CrateCount != 4 || result.Stats.VersionCount != 5 {
		t.Errorf("stats = %+v", result.Stats)
	}
	if result.Stats.RankedCount != 3 {
		t.Errorf("ranked = %d, want max+1 = 3", result.Stats.RankedCount)
	}

	idx := decodeIndex(t, result.Contents)
	if len(idx) != 3 {
		t.Fatalf("index entries = %d, want 3: %v", len(idx), idx)
	}
	if _, ok := idx["obscure"]; ok {
		t.Error("lowest-ranked crate should be cut")
	}
	if idx["serde"][1] != "1.0.219" {
		t.Errorf("serde version = %v, want highest published", idx["serde"][1])
	}
	if idx["tokio"][1] != "1.40.0" {
		t.Errorf("tokio version = %v", idx["tokio"][1])
	}
	if idx["rand"][1] != "0.0.0" {
		t.Errorf("rand version = %v, want sentinel for no published versions", idx["rand"][1])
	}

	written, err := os.ReadFile(opts.OutputPath)
	if err != nil {
		t.Fatalf("artifact not written: %v", err)
	}
	if string(written) != result.Contents {
		t.Error("written artifact differs from result contents")
	}
}

func TestExecuteDeterministic(t *testing.T) {
	dir := writeFixtures(t, testCrates, testVersions)
	runner := NewRunner(cache.NewNullCache(), nil, log.New(io.Discard))
	defer runner.Close()

	opts := testOptions(t, dir)
	opts.Minifier = nil // real minifier

	first, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := runner.Execute(context.Background(), testOptionsLike(t, opts))
	if err != nil {
		t.Fatal(err)
	}
	if first.Contents != second.Contents {
		t.Error("two builds over identical input must be byte-identical")
	}
}

// testOptionsLike clones the build-relevant fields into fresh options.
func testOptionsLike(t *testing.T, o Options) Options {
	t.Helper()
	return Options{
		CSVDir:     o.CSVDir,
		OutputPath: filepath.Join(t.TempDir(), "crates.js"),
		MaxCrates:  o.MaxCrates,
		Logger:     log.New(io.Discard),
	}
}

func TestExecuteArtifactCache(t *testing.T) {
	dir := writeFixtures(t, testCrates, testVersions)
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, log.New(io.Discard))
	defer runner.Close()

	ctx := context.Background()
	first, err := runner.Execute(ctx, testOptions(t, dir))
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.ArtifactHit {
		t.Fatal("cold cache should miss")
	}

	second, err := runner.Execute(ctx, testOptions(t, dir))
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.ArtifactHit {
		t.Error("identical inputs and options should hit the cache")
	}
	if second.Contents != first.Contents {
		t.Error("cached artifact differs from the built one")
	}
}

func TestExecuteRefreshBypassesCache(t *testing.T) {
	dir := writeFixtures(t, testCrates, testVersions)
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, log.New(io.Discard))
	defer runner.Close()

	ctx := context.Background()
	if _, err := runner.Execute(ctx, testOptions(t, dir)); err != nil {
		t.Fatal(err)
	}

	opts := testOptions(t, dir)
	opts.Refresh = true
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if result.CacheInfo.ArtifactHit {
		t.Error("refresh must bypass the cache")
	}
}

func TestExecuteOptionsChangeCacheKey(t *testing.T) {
	dir := writeFixtures(t, testCrates, testVersions)
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, log.New(io.Discard))
	defer runner.Close()

	ctx := context.Background()
	if _, err := runner.Execute(ctx, testOptions(t, dir)); err != nil {
		t.Fatal(err)
	}

	opts := testOptions(t, dir)
	opts.MaxCrates = 1
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if result.CacheInfo.ArtifactHit {
		t.Error("different MaxCrates must not share a cache entry")
	}
	if result.Stats.RankedCount != 2 {
		t.Errorf("ranked = %d, want 2", result.Stats.RankedCount)
	}
}

func TestExecuteInsufficientPopulation(t *testing.T) {
	dir := writeFixtures(t, testCrates, testVersions)
	runner := NewRunner(cache.NewNullCache(), nil, log.New(io.Discard))
	defer runner.Close()

	opts := testOptions(t, dir)
	opts.MaxCrates = 10 // needs 11 crates, fixture has 4

	_, err := runner.Execute(context.Background(), opts)
	if !errors.Is(err, errors.ErrCodeInsufficientPopulation) {
		t.Errorf("err = %v, want INSUFFICIENT_POPULATION", err)
	}
}

func TestExecuteMissingInputs(t *testing.T) {
	runner := NewRunner(cache.NewNullCache(), nil, log.New(io.Discard))
	defer runner.Close()

	opts := testOptions(t, t.TempDir())
	_, err := runner.Execute(context.Background(), opts)
	if !errors.Is(err, errors.ErrCodeIO) {
		t.Errorf("err = %v, want IO_FAILURE for missing csv files", err)
	}
}

func TestOptionsValidation(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("empty CSVDir: err = %v, want INVALID_INPUT", err)
	}

	opts = Options{CSVDir: "dumps", MaxCrates: -1}
	if err := opts.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("negative MaxCrates: err = %v, want INVALID_INPUT", err)
	}

	opts = Options{CSVDir: "dumps"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.OutputPath == "" || opts.MaxCrates == 0 || opts.Logger == nil || opts.Minifier == nil {
		t.Errorf("defaults not applied: %+v", opts)
	}
}
