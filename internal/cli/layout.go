package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tracelayout/pkg/pipeline"
)

// layoutFlags holds the flags shared by commands that compute a table.
type layoutFlags struct {
	opts    pipeline.Options
	formats string
	noCache bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.opts.Tracks, "tracks", "t", "", "comma-separated track ids to stack, in order")
	cmd.Flags().BoolVarP(&f.opts.AllTracks, "all-tracks", "a", false, "stack every track in order of first appearance")
	cmd.Flags().StringArrayVarP(&f.opts.Where, "where", "w", nil, "row filter such as depth=0 or ts>100 (repeatable)")
	cmd.Flags().StringArrayVar(&f.opts.Order, "order", nil, "sort column, prefix with - for descending (repeatable)")
	cmd.Flags().StringVar(&f.opts.Source, "source", "", "input kind: json, chrome or mongo (default: detected)")
	cmd.Flags().StringVar(&f.opts.Table, "table", pipeline.DefaultTable, "computed table to query")
	cmd.Flags().BoolVar(&f.opts.CheckOrder, "check-order", false, "verify that each track is sorted by ts and depth")
	cmd.Flags().BoolVar(&f.opts.Refresh, "refresh", false, "recompute even when cached")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
}

// options returns the pipeline options for input, with configured defaults.
func (f *layoutFlags) options(c *CLI, input string) (pipeline.Options, error) {
	opts := f.opts
	opts.Input = input
	opts.Formats = parseFormats(f.formats)
	c.setCLIDefaults(&opts)
	if opts.Tracks != "" && opts.AllTracks {
		return opts, fmt.Errorf("--tracks and --all-tracks are mutually exclusive")
	}
	if input == "" {
		opts.Input = c.Config.Source.MongoURI
	}
	return opts, nil
}

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags  layoutFlags
		output string
		quiet  bool
	)

	cmd := &cobra.Command{
		Use:   "layout [input]",
		Short: "Compute the slice layout for a list of tracks",
		Long: `Compute the slice layout for a list of tracks.

The input is a slices JSON file, a Chrome trace, or a mongodb:// URI. When it
is omitted, source.mongo_uri from the config file is used. The tracks given
with --tracks are stacked in the given order: each track's slices keep their
depth, shifted below every earlier track.

With a single format and no --output, the result is written to stdout.
Otherwise each format is written to <output>.<format>, where output defaults
to the input name.`,
		Example: `  tracelayout layout trace.json -t 3,1 -f ascii
  tracelayout layout slices.json -a -f json,svg -o out/layout
  tracelayout layout mongodb://localhost/traces -t 7 -w depth=0`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			opts, err := flags.options(c, input)
			if err != nil {
				return err
			}
			return c.runLayout(cmd, opts, flags.noCache, output, quiet)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output formats: ascii, json, svg (comma-separated)")
	cmd.Flags().IntVar(&flags.opts.Width, "width", 0, "output width in columns (ascii) or pixels (svg)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path without extension")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress the summary")

	return cmd
}

// runLayout loads the input, computes the table and writes every artifact.
func (c *CLI) runLayout(cmd *cobra.Command, opts pipeline.Options, noCache bool, output string, quiet bool) error {
	ctx := cmd.Context()
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	if !quiet {
		spinner.Start()
	}
	stop := func(err error, failure string) {
		if quiet {
			return
		}
		if err != nil {
			spinner.StopWithError(failure)
			return
		}
		spinner.Stop()
	}

	result, err := runner.Execute(ctx, opts)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		stop(err, "Layout failed")
		return err
	}

	if output == "" && len(opts.Formats) == 1 {
		stop(nil, "")
		_, err := cmd.OutOrStdout().Write(result.Artifacts[opts.Formats[0]])
		return err
	}

	if !quiet {
		spinner.Update("Writing artifacts...")
	}
	paths, err := writeArtifacts(ctx, result.Artifacts, opts.Formats, outputBase(opts.Input, output))
	if err != nil {
		stop(err, "Writing artifacts failed")
		return err
	}
	if quiet {
		return nil
	}

	spinner.StopWithSuccess("Layout complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.Slices, result.Stats.Rows, result.CacheInfo.ComputeHit)
	printNewline()
	printNextStep("Browse", fmt.Sprintf("%s view %s -t %s", appName, opts.Input, opts.Argument(result.Dataset)))
	return nil
}

// outputBase derives the artifact path prefix.
func outputBase(input, output string) string {
	if output != "" {
		return output
	}
	if strings.Contains(input, "://") {
		return "layout"
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".layout"
}

// writeArtifacts writes one file per format and returns their paths.
func writeArtifacts(ctx context.Context, artifacts map[string][]byte, formats []string, base string) ([]string, error) {
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}

	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		ext := format
		if format == "ascii" {
			ext = "txt"
		}
		path := base + "." + ext
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
