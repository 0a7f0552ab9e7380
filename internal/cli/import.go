package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	tlio "github.com/matzehuels/tracelayout/pkg/io"
	"github.com/matzehuels/tracelayout/pkg/slice"
)

// importCommand creates the import command.
func (c *CLI) importCommand() *cobra.Command {
	var (
		output     string
		checkOrder bool
	)

	cmd := &cobra.Command{
		Use:   "import [trace.json]",
		Short: "Convert a Chrome trace to slices JSON",
		Long: `Convert a Chrome trace-event file to slices JSON.

Each (pid, tid) pair becomes a track numbered from 1 in order of first
appearance. Depths follow event nesting and timestamps are converted from
microseconds to nanoseconds.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			if output == "" {
				output = strings.TrimSuffix(input, filepath.Ext(input)) + ".slices.json"
			}

			prog := newProgress(c.Logger)
			f, err := os.Open(input)
			if err != nil {
				return fmt.Errorf("open %s: %w", input, err)
			}
			defer f.Close()

			st, err := tlio.ReadChromeTrace(f, nil)
			if err != nil {
				return err
			}
			if checkOrder {
				if err := slice.CheckOrder(st, st.Tracks()); err != nil {
					return err
				}
			}
			if err := tlio.ExportJSON(st, output); err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Imported %d slices on %d tracks", st.RowCount(), len(st.Tracks())))

			printSuccess("Import complete")
			printFile(output)
			printNextStep("List tracks", appName+" tracks "+output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.slices.json)")
	cmd.Flags().BoolVar(&checkOrder, "check-order", false, "verify the imported tracks are sorted")

	return cmd
}
