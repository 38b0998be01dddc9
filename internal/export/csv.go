package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/matsen/paperview/internal/paper"
)

// CSVHeader is the header row written by WriteCSV. The column names match
// the loader's input columns, so an export can be loaded again.
var CSVHeader = []string{"title", "abstract", "publish_time", "journal", "source_x", "year"}

// WriteCSV writes papers as CSV with dates in YYYY-MM-DD form.
func WriteCSV(w io.Writer, papers []paper.Paper) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, p := range papers {
		record := []string{
			p.Title,
			p.Abstract,
			p.PublishTime.Format("2006-01-02"),
			p.Journal,
			p.Source,
			strconv.Itoa(p.Year),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
