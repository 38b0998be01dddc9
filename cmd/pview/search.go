package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/paperview/internal/paper"
	"github.com/matsen/paperview/internal/storage"
)

// DefaultSearchLimit is the default limit for the search command.
const DefaultSearchLimit = 50

var (
	searchRange   rangeFlags
	searchLimit   int
	searchTitle   string
	searchJournal string
)

func init() {
	searchRange.register(searchCmd)
	searchCmd.Flags().IntVar(&searchLimit, "limit", DefaultSearchLimit, "Maximum results to return, 0 for all")
	searchCmd.Flags().StringVarP(&searchTitle, "title", "t", "", "Search in title only (phrase match)")
	searchCmd.Flags().StringVar(&searchJournal, "journal", "", "Filter by journal (partial match)")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Full-text search over titles and abstracts",
	Long: `Search the cleaned papers by keyword, with optional year and journal filters.

The query is matched against titles and abstracts with SQLite FTS5. The
index is built in memory for each invocation and never written to disk.

Examples:
  pview search "spike protein"
  pview search transmission --from 2020 --to 2020
  pview search --title "viral load" --journal lancet
  pview search --journal "Nature" --limit 10`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	filters := storage.SearchFilters{
		Title:    strings.TrimSpace(searchTitle),
		Journal:  strings.TrimSpace(searchJournal),
		YearFrom: searchRange.from,
		YearTo:   searchRange.to,
	}
	if len(args) > 0 {
		filters.Keyword = strings.TrimSpace(args[0])
	}
	if filters.Keyword == "" && filters.Title == "" && filters.Journal == "" && filters.YearFrom == 0 && filters.YearTo == 0 {
		exitWithError(ExitError, "must specify a query or at least one filter (--title, --journal, --from, --to)")
	}
	if searchLimit < 0 {
		exitWithError(ExitError, "invalid --limit %d: must be >= 0", searchLimit)
	}

	table := mustLoadTable()

	db, err := storage.OpenMemory()
	if err != nil {
		exitWithError(ExitError, "opening search index: %v", err)
	}
	defer db.Close()

	if _, err := db.LoadTable(table); err != nil {
		exitWithError(ExitError, "indexing papers: %v", err)
	}

	papers, err := db.Search(filters, searchLimit)
	if err != nil {
		exitWithError(ExitError, "searching: %v", err)
	}

	// Empty result is not an error
	if papers == nil {
		papers = []paper.Paper{}
	}

	if humanOutput {
		if len(papers) == 0 {
			fmt.Println("No papers found")
		} else {
			fmt.Printf("Found %d papers:\n\n", len(papers))
			for i, p := range papers {
				printPaperSummary(i+1, p)
			}
		}
		return nil
	}
	return outputJSON(papers)
}
