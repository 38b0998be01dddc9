package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/paperview/internal/aggregate"
	"github.com/matsen/paperview/internal/viz"
)

func init() {
	rootCmd.AddCommand(boundsCmd)
}

var boundsCmd = &cobra.Command{
	Use:   "bounds",
	Short: "Show the year bounds and row count of the data file",
	Long: `Show the smallest and largest publication year in the cleaned table and
the number of papers it holds. These are the limits of the year range
accepted by summary, report and the dashboard.`,
	Args: cobra.NoArgs,
	RunE: runBounds,
}

// BoundsResponse is the response for the bounds command.
type BoundsResponse struct {
	Path string `json:"path"`
	viz.Bounds
}

func runBounds(cmd *cobra.Command, args []string) error {
	table := mustLoadTable()
	b := viz.BoundsOf(table)

	if humanOutput {
		fmt.Printf("File:   %s\n", table.Path)
		fmt.Printf("Papers: %d\n", b.Papers)
		if b.HasData {
			fmt.Printf("Years:  %d-%d\n", b.MinYear, b.MaxYear)
		} else {
			fmt.Println("Years:  (no papers)")
		}
		return nil
	}
	return outputJSON(BoundsResponse{Path: table.Path, Bounds: b})
}

// rangeFlags holds the --from/--to flags shared by several commands.
type rangeFlags struct {
	from int
	to   int
}

func (f *rangeFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.from, "from", 0, "First year of the range (default: earliest year)")
	cmd.Flags().IntVar(&f.to, "to", 0, "Last year of the range (default: latest year)")
}

// resolve fills unset endpoints from the table bounds.
func (f rangeFlags) resolve(b viz.Bounds) aggregate.Range {
	return b.Clamp(aggregate.Range{From: f.from, To: f.to})
}
