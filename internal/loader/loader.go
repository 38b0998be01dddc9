// Package loader reads a delimited metadata file and produces the cleaned paper table.
package loader

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matsen/paperview/internal/paper"
)

// Source column names. source_x is the CORD-19 name for the record source.
const (
	ColTitle       = "title"
	ColAbstract    = "abstract"
	ColPublishTime = "publish_time"
	ColJournal     = "journal"
	ColSource      = "source_x"
)

// RequiredColumns lists the header columns the input file must carry.
var RequiredColumns = []string{ColTitle, ColAbstract, ColPublishTime, ColJournal, ColSource}

// ErrMissingColumn is returned when the header lacks one of RequiredColumns.
var ErrMissingColumn = errors.New("missing required column")

// sniffBytes is how much of the file is inspected to guess the delimiter.
const sniffBytes = 64 * 1024

// nullTokens are cell values read as missing, matching the usual CSV
// conventions for NA values.
var nullTokens = map[string]bool{
	"":         true,
	"#N/A":     true,
	"#N/A N/A": true,
	"#NA":      true,
	"-1.#IND":  true,
	"-1.#QNAN": true,
	"-NaN":     true,
	"-nan":     true,
	"1.#IND":   true,
	"1.#QNAN":  true,
	"<NA>":     true,
	"N/A":      true,
	"NA":       true,
	"NULL":     true,
	"NaN":      true,
	"None":     true,
	"n/a":      true,
	"nan":      true,
	"null":     true,
}

// Stats counts what happened to each row during cleaning.
type Stats struct {
	RowsRead     int `json:"rows_read"`
	MissingTitle int `json:"missing_title"`
	MissingDate  int `json:"missing_date"`
	BadDate      int `json:"bad_date"`
	Kept         int `json:"kept"`
}

// Dropped returns the number of rows removed by cleaning.
func (s Stats) Dropped() int {
	return s.MissingTitle + s.MissingDate + s.BadDate
}

// Load reads and cleans the file at path.
func Load(path string) (*paper.Table, error) {
	t, _, err := LoadWithStats(path)
	return t, err
}

// LoadWithStats reads and cleans the file at path and reports per-rule drop counts.
// A missing or unreadable file is an error; a file whose rows are all dropped
// yields an empty table.
func LoadWithStats(path string) (*paper.Table, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("opening data file: %w", err)
	}
	defer f.Close()

	br := bufio.NewReaderSize(f, sniffBytes)
	delim := delimiterFor(path, br)

	rows, stats, err := parse(br, delim)
	if err != nil {
		return nil, stats, fmt.Errorf("reading %s: %w", path, err)
	}
	return paper.NewTable(path, rows), stats, nil
}

// Parse cleans delimited data from r. It is the reader-level counterpart of
// LoadWithStats and is mostly useful for tests and piped input.
func Parse(r io.Reader, delim rune) ([]paper.Paper, Stats, error) {
	return parse(r, delim)
}

func parse(r io.Reader, delim rune) ([]paper.Paper, Stats, error) {
	var stats Stats

	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, stats, fmt.Errorf("%w: empty file has no header", ErrMissingColumn)
		}
		return nil, stats, fmt.Errorf("reading header: %w", err)
	}
	cols, err := columnIndex(header)
	if err != nil {
		return nil, stats, err
	}

	var papers []paper.Paper
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("parsing record %d: %w", stats.RowsRead+1, err)
		}
		stats.RowsRead++

		title := cell(record, cols[ColTitle])
		published := cell(record, cols[ColPublishTime])
		if title == "" {
			stats.MissingTitle++
			continue
		}
		if published == "" {
			stats.MissingDate++
			continue
		}

		when, err := ParseDate(published)
		if err != nil {
			stats.BadDate++
			continue
		}

		papers = append(papers, paper.New(
			title,
			cell(record, cols[ColAbstract]),
			when,
			cell(record, cols[ColJournal]),
			cell(record, cols[ColSource]),
		))
	}

	stats.Kept = len(papers)
	return papers, stats, nil
}

// columnIndex maps each required column to its position in the header.
func columnIndex(header []string) (map[string]int, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		name = strings.TrimSpace(name)
		if _, seen := positions[name]; !seen {
			positions[name] = i
		}
	}

	cols := make(map[string]int, len(RequiredColumns))
	var missing []string
	for _, name := range RequiredColumns {
		idx, ok := positions[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		cols[name] = idx
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return cols, nil
}

// cell returns the trimmed value at idx, or "" when the row is short or the
// value is a null token.
func cell(record []string, idx int) string {
	if idx >= len(record) {
		return ""
	}
	v := strings.TrimSpace(record[idx])
	if nullTokens[v] {
		return ""
	}
	return v
}

// delimiterFor picks the field separator from the extension, falling back to
// sniffing the header line.
func delimiterFor(path string, br *bufio.Reader) rune {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv", ".tab":
		return '\t'
	}
	head, _ := br.Peek(sniffBytes)
	return SniffDelimiter(head)
}

// SniffDelimiter guesses the delimiter of the first line among ',', ';' and
// tab, counting only characters outside double quotes. Defaults to ','.
func SniffDelimiter(head []byte) rune {
	if i := bytes.IndexByte(head, '\n'); i >= 0 {
		head = head[:i]
	}

	counts := map[rune]int{}
	inQuotes := false
	for _, b := range head {
		switch b {
		case '"':
			inQuotes = !inQuotes
		case ',', ';', '\t':
			if !inQuotes {
				counts[rune(b)]++
			}
		}
	}

	best := ','
	for _, d := range []rune{',', ';', '\t'} {
		if counts[d] > counts[best] {
			best = d
		}
	}
	return best
}
