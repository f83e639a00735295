package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/searchdex/crateindex/pkg/config"
	"github.com/searchdex/crateindex/pkg/errors"
	"github.com/searchdex/crateindex/pkg/pipeline"
)

// buildOpts holds the command-line flags for the build command.
type buildOpts struct {
	maxCrates  int    // ranking cutoff, index holds maxCrates+1 entries
	refresh    bool   // bypass the artifact cache
	noCache    bool   // disable the artifact cache entirely
	configPath string // optional crateindex.toml path
}

// buildCommand creates the build command.
//
// The required argument is a directory containing the crates.io dump files
// crates.csv and versions.csv. The optional second argument overrides the
// output path (default: the extension's index directory).
func (c *CLI) buildCommand() *cobra.Command {
	opts := buildOpts{configPath: "crateindex.toml"}

	cmd := &cobra.Command{
		Use:   "build <csv-dir> [output]",
		Short: "Build the search index from the crates.io CSV dumps",
		Long: `Build the JavaScript search index from the crates.io bulk exports.

The directory must contain crates.csv and versions.csv. The top crates by
downloads are ranked into the index; each entry carries the crate's minified
description and its latest published version.

Examples:
  crateindex build dumps/2026-08-01
  crateindex build dumps/2026-08-01 out/crates.js --max-crates 5000
  crateindex build dumps/2026-08-01 --refresh`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBuild(cmd, args, opts)
		},
	}

	cmd.Flags().IntVar(&opts.maxCrates, "max-crates", 0, "ranking cutoff (default from config, 20000)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "rebuild even if a cached artifact exists")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().StringVar(&opts.configPath, "config", opts.configPath, "config file path")

	return cmd
}

func (c *CLI) runBuild(cmd *cobra.Command, args []string, opts buildOpts) error {
	ctx := cmd.Context()

	cfg, err := config.Load(opts.configPath, true)
	if err != nil {
		return err
	}
	if opts.maxCrates == 0 {
		opts.maxCrates = cfg.MaxCrates
	}

	output := cfg.Output
	if len(args) > 1 {
		output = args[1]
	}

	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spin := newSpinner(ctx, fmt.Sprintf("Building index from %s", args[0]))
	spin.Start()

	result, err := runner.Execute(ctx, pipeline.Options{
		CSVDir:     args[0],
		OutputPath: output,
		MaxCrates:  opts.maxCrates,
		Refresh:    opts.refresh,
		Logger:     c.Logger,
	})
	if err != nil {
		spin.StopWithError(errors.UserMessage(err))
		return err
	}

	if result.CacheInfo.ArtifactHit {
		spin.StopWithSuccess(fmt.Sprintf("Index up to date (%d bytes, cached)", len(result.Contents)))
	} else {
		spin.StopWithSuccess(fmt.Sprintf("Indexed %d crates (%d bytes)",
			result.Stats.RankedCount, len(result.Contents)))
		printDetail("dictionary: %d entries from %d corpus tokens",
			result.Stats.DictSize, result.Stats.CorpusSize)
	}
	prog.done("Generated crates index")
	return nil
}
