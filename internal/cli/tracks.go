package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tracelayout/pkg/pipeline"
)

// tracksCommand creates the tracks command.
func (c *CLI) tracksCommand() *cobra.Command {
	var (
		source  string
		idsOnly bool
	)

	cmd := &cobra.Command{
		Use:   "tracks [input]",
		Short: "List the tracks of a slice store",
		Long: `List the tracks of a slice store with their slice count, number of
depths and time range, in order of first appearance.

With --ids, print only the comma-separated track ids, ready for --tracks.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := c.Config.Source.MongoURI
			if len(args) == 1 {
				input = args[0]
			}

			runner, err := c.newRunner(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer runner.Close()

			ds, err := runner.Load(cmd.Context(), pipeline.Options{Input: input, Source: source, Logger: c.Logger})
			if err != nil {
				return err
			}
			summaries := ds.Slices.Summaries()

			out := cmd.OutOrStdout()
			if idsOnly {
				fmt.Fprintln(out, joinTrackIDs(summaries))
				return nil
			}
			fmt.Fprintln(out, StyleTitle.Render(ds.Source))
			fmt.Fprintln(out, trackTable(summaries))
			fmt.Fprintln(out, StyleDim.Render(fmt.Sprintf("%d tracks · %d slices", len(summaries), ds.Slices.RowCount())))
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "input kind: json, chrome or mongo (default: detected)")
	cmd.Flags().BoolVar(&idsOnly, "ids", false, "print only the track ids")

	return cmd
}
