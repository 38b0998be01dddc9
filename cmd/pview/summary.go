package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matsen/paperview/internal/aggregate"
	"github.com/matsen/paperview/internal/viz"
	"github.com/matsen/paperview/internal/wordfreq"
)

// DefaultSummaryWords is the number of title words listed by summary.
const DefaultSummaryWords = 20

var (
	summaryRange  rangeFlags
	summaryTop    int
	summarySample int
	summarySeed   uint64
	summaryWords  int
)

func init() {
	summaryRange.register(summaryCmd)
	summaryCmd.Flags().IntVar(&summaryTop, "top", 0, "Number of journals to rank (default: top_journals from config)")
	summaryCmd.Flags().IntVar(&summarySample, "sample", 0, "Number of papers to sample, -1 for none (default: sample_size from config)")
	summaryCmd.Flags().Uint64Var(&summarySeed, "seed", 0, "Seed for the sample (default: random)")
	summaryCmd.Flags().IntVar(&summaryWords, "words", DefaultSummaryWords, "Number of title words to list, 0 for all")
	rootCmd.AddCommand(summaryCmd)
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize the papers published in a year range",
	Long: `Summarize the papers published in a year range: counts per year, the
journals with the most papers, the most common title words and a random
sample of papers.

An empty range is not an error: it reports zero papers.

Examples:
  pview summary
  pview summary --from 2020 --to 2021 --human
  pview summary --top 5 --sample 10 --seed 42`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	if summaryWords < 0 {
		exitWithError(ExitError, "invalid --words %d: must be >= 0", summaryWords)
	}
	if summaryTop < 0 {
		exitWithError(ExitError, "invalid --top %d: must be >= 0", summaryTop)
	}

	settings := mustLoadSettings()
	table := mustLoadTable()
	bounds := viz.BoundsOf(table)
	r := summaryRange.resolve(bounds)

	opts := aggregate.Options{TopJournals: settings.TopJournals, SampleSize: settings.SampleSize}
	if summaryTop > 0 {
		opts.TopJournals = summaryTop
	}
	if summarySample != 0 {
		opts.SampleSize = summarySample
	}

	v := aggregate.Aggregate(table, r, opts, aggregate.NewRand(summarySeed))
	d := viz.NewDashboard(v, bounds, summaryWords)
	logger.Debug("summarized range",
		zap.Int("from", r.From),
		zap.Int("to", r.To),
		zap.Int("papers", v.Total()),
		zap.Int("journals", len(v.TopJournals)))

	if humanOutput {
		printDashboardHuman(d)
		return nil
	}
	return outputJSON(d)
}

func printDashboardHuman(d *viz.Dashboard) {
	fmt.Println(d.Status)
	if d.IsEmpty() {
		fmt.Println("\nNo papers in this range")
		return
	}

	fmt.Println("\nPublications by year")
	max := 0
	for _, c := range d.CountsByYear {
		if c.Count > max {
			max = c.Count
		}
	}
	rows := make([][]string, 0, len(d.CountsByYear))
	for _, c := range d.CountsByYear {
		rows = append(rows, []string{strconv.Itoa(c.Year), strconv.Itoa(c.Count), bar(c.Count, max)})
	}
	fmt.Print(formatTable([]string{"Year", "Papers", ""}, rows))

	fmt.Println("\nTop journals")
	if len(d.TopJournals) == 0 {
		fmt.Println("  (no journal information)")
	} else {
		rows = rows[:0]
		for i, j := range d.TopJournals {
			rows = append(rows, []string{strconv.Itoa(i + 1), truncateString(j.Journal, JournalMaxLen), strconv.Itoa(j.Count)})
		}
		fmt.Print(formatTable([]string{"#", "Journal", "Papers"}, rows))
	}

	if len(d.Words) > 0 {
		fmt.Println("\nTop title words")
		fmt.Printf("  %s\n", formatWords(d.Words))
	}

	if len(d.Sample) > 0 {
		fmt.Println("\nSample")
		for i, p := range d.Sample {
			printPaperSummary(i+1, p)
		}
	}
}

// formatWords formats word counts as "word (n), word (n), ...".
func formatWords(words []wordfreq.WordCount) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = fmt.Sprintf("%s (%d)", w.Word, w.Count)
	}
	return strings.Join(parts, ", ")
}
