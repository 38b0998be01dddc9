package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/matsen/paperview/internal/paper"
)

// Constants for output formatting.
const (
	TitleMaxLen   = 70 // Titles in sample and search listings
	JournalMaxLen = 40 // Journal column of the top journals table
	BarMaxWidth   = 40 // Longest bar in the per-year histogram
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// UpdateResponse is the response for config set commands.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

// truncateString truncates s to maxLen display columns, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	return runewidth.Truncate(s, maxLen, "...")
}

// formatTable lays out rows under headers with columns padded to their
// widest cell, measured in display columns.
func formatTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if w := runewidth.StringWidth(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var sb strings.Builder
	writeRow := func(cells []string) {
		sb.WriteString(" ")
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			sb.WriteString(" ")
			if i == len(widths)-1 {
				sb.WriteString(cell)
			} else {
				sb.WriteString(runewidth.FillRight(cell, widths[i]))
				sb.WriteString(" ")
			}
		}
		sb.WriteString("\n")
	}

	writeRow(headers)
	for _, row := range rows {
		writeRow(row)
	}
	return sb.String()
}

// bar renders count as a run of '#' scaled so max fills BarMaxWidth.
func bar(count, max int) string {
	if count <= 0 || max <= 0 {
		return ""
	}
	n := count * BarMaxWidth / max
	if n == 0 {
		n = 1
	}
	return strings.Repeat("#", n)
}

// formatPaperDate returns the publish date as YYYY-MM-DD.
func formatPaperDate(p paper.Paper) string {
	return p.PublishTime.Format("2006-01-02")
}

// printPaperSummary prints one paper for sample and search listings.
func printPaperSummary(num int, p paper.Paper) {
	fmt.Printf("[%d] %s\n", num, truncateString(p.Title, TitleMaxLen))
	journal := p.Journal
	if journal == "" {
		journal = "(no journal)"
	}
	fmt.Printf("    %s, %s", journal, formatPaperDate(p))
	if p.Source != "" {
		fmt.Printf(" [%s]", p.Source)
	}
	fmt.Println()
}
