// Package viz renders the dashboard for a year-range view.
package viz

import (
	"github.com/matsen/paperview/internal/aggregate"
	"github.com/matsen/paperview/internal/paper"
	"github.com/matsen/paperview/internal/wordfreq"
)

// NoDataStatus is the status line when the loaded table has no papers.
const NoDataStatus = "No papers loaded"

// Bounds describes the full table, independent of the selected range.
type Bounds struct {
	MinYear int  `json:"min_year"`
	MaxYear int  `json:"max_year"`
	Papers  int  `json:"papers"`
	HasData bool `json:"has_data"`
}

// BoundsOf returns the year bounds and row count of t.
func BoundsOf(t *paper.Table) Bounds {
	min, max, ok := t.YearBounds()
	return Bounds{MinYear: min, MaxYear: max, Papers: t.Len(), HasData: ok}
}

// Clamp returns r if it is set, or the full bounds for zero endpoints.
func (b Bounds) Clamp(r aggregate.Range) aggregate.Range {
	if r.From == 0 {
		r.From = b.MinYear
	}
	if r.To == 0 {
		r.To = b.MaxYear
	}
	return r
}

// Dashboard contains all data needed to render one view.
type Dashboard struct {
	Status       string                   `json:"status"`
	Range        aggregate.Range          `json:"range"`
	Bounds       Bounds                   `json:"bounds"`
	Total        int                      `json:"total"`
	CountsByYear []aggregate.YearCount    `json:"counts_by_year"`
	TopJournals  []aggregate.JournalCount `json:"top_journals"`
	Words        []wordfreq.WordCount     `json:"words"`
	Sample       []paper.Paper            `json:"sample"`
}

// IsEmpty returns true if no papers fall in the selected range.
func (d *Dashboard) IsEmpty() bool {
	return d.Total == 0
}

// NewDashboard assembles a Dashboard from a view. maxWords limits the word
// cloud; 0 keeps every word.
func NewDashboard(v aggregate.View, b Bounds, maxWords int) *Dashboard {
	words := wordfreq.TopWords(v.TitleText, maxWords)
	status := v.Status()
	if !b.HasData {
		status = NoDataStatus
	}
	return &Dashboard{
		Status:       status,
		Range:        v.Range,
		Bounds:       b,
		Total:        v.Total(),
		CountsByYear: v.CountsByYear,
		TopJournals:  v.TopJournals,
		Words:        words,
		Sample:       v.Sample,
	}
}
