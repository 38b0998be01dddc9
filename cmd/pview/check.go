package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/paperview/internal/loader"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report how the data file was cleaned",
	Long: `Load the data file and report how many rows were read, how many were
dropped for a missing title, a missing publish_time or an unparseable date,
and how many were kept.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

// CheckResponse is the response for the check command.
type CheckResponse struct {
	Path    string       `json:"path"`
	Stats   loader.Stats `json:"stats"`
	Dropped int          `json:"dropped"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := mustResolveDataPath()

	_, stats, err := loader.LoadWithStats(path)
	if err != nil {
		exitWithError(ExitDataError, "loading %s: %v", path, err)
	}

	if humanOutput {
		fmt.Printf("File:           %s\n", path)
		fmt.Printf("Rows read:      %d\n", stats.RowsRead)
		fmt.Printf("Missing title:  %d\n", stats.MissingTitle)
		fmt.Printf("Missing date:   %d\n", stats.MissingDate)
		fmt.Printf("Bad date:       %d\n", stats.BadDate)
		fmt.Printf("Kept:           %d\n", stats.Kept)
		return nil
	}
	return outputJSON(CheckResponse{Path: path, Stats: stats, Dropped: stats.Dropped()})
}
