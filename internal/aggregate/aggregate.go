// Package aggregate derives the per-range view of the paper table: the
// filtered rows, counts per year, top journals, joined title text and a
// random sample.
package aggregate

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"github.com/matsen/paperview/internal/paper"
)

const (
	DefaultTopJournals = 10
	DefaultSampleSize  = 5
)

// Range is an inclusive [From, To] year selection.
type Range struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Contains reports whether year falls inside the range.
func (r Range) Contains(year int) bool {
	return r.From <= year && year <= r.To
}

// Valid reports whether the range is non-empty.
func (r Range) Valid() bool {
	return r.From <= r.To
}

// Options controls the size of the ranked and sampled outputs.
type Options struct {
	TopJournals int // 0 means DefaultTopJournals
	SampleSize  int // 0 means DefaultSampleSize, negative disables sampling
}

// DefaultOptions returns the standard dashboard sizes.
func DefaultOptions() Options {
	return Options{
		TopJournals: DefaultTopJournals,
		SampleSize:  DefaultSampleSize,
	}
}

// YearCount is the number of papers published in one year.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// JournalCount is the number of papers published in one journal.
type JournalCount struct {
	Journal string `json:"journal"`
	Count   int    `json:"count"`
}

// View bundles every aggregate for one year range.
type View struct {
	Range        Range          `json:"range"`
	Rows         []paper.Paper  `json:"-"`
	CountsByYear []YearCount    `json:"counts_by_year"`
	TopJournals  []JournalCount `json:"top_journals"`
	TitleText    string         `json:"-"`
	Sample       []paper.Paper  `json:"sample"`
}

// Total returns the number of papers in the view.
func (v View) Total() int {
	return len(v.Rows)
}

// Empty reports whether no papers fall inside the range.
func (v View) Empty() bool {
	return len(v.Rows) == 0
}

// Status returns the one-line summary shown above the charts.
func (v View) Status() string {
	return fmt.Sprintf("Showing %d papers from %d–%d", v.Total(), v.Range.From, v.Range.To)
}

// FilterByYearRange computes the view for [minYear, maxYear] with the
// default sizes. rng drives the sample; nil uses a time-seeded source.
func FilterByYearRange(t *paper.Table, minYear, maxYear int, rng *rand.Rand) View {
	return Aggregate(t, Range{From: minYear, To: maxYear}, DefaultOptions(), rng)
}

// Aggregate computes the view for r. An inverted or out-of-bounds range is
// not an error: it yields an empty or partial view.
func Aggregate(t *paper.Table, r Range, opts Options, rng *rand.Rand) View {
	if opts.TopJournals == 0 {
		opts.TopJournals = DefaultTopJournals
	}
	if opts.SampleSize == 0 {
		opts.SampleSize = DefaultSampleSize
	}

	rows := Filter(t, r)
	v := View{
		Range:        r,
		Rows:         rows,
		CountsByYear: CountsByYear(rows),
		TopJournals:  TopJournals(rows, opts.TopJournals),
		TitleText:    TitleText(rows),
		Sample:       []paper.Paper{},
	}
	if opts.SampleSize > 0 {
		v.Sample = Sample(rows, opts.SampleSize, rng)
	}
	return v
}

// Filter returns the rows whose year lies in r, in table order.
func Filter(t *paper.Table, r Range) []paper.Paper {
	rows := []paper.Paper{}
	if !r.Valid() {
		return rows
	}
	t.Each(func(p paper.Paper) {
		if r.Contains(p.Year) {
			rows = append(rows, p)
		}
	})
	return rows
}

// CountsByYear counts rows per distinct year, ascending by year.
func CountsByYear(rows []paper.Paper) []YearCount {
	byYear := make(map[int]int)
	for _, p := range rows {
		byYear[p.Year]++
	}

	counts := make([]YearCount, 0, len(byYear))
	for year, n := range byYear {
		counts = append(counts, YearCount{Year: year, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		return counts[i].Year < counts[j].Year
	})
	return counts
}

// TopJournals returns up to n journals ranked by paper count, descending.
// Equal counts keep the order in which the journals were first seen.
// Rows without a journal are not ranked.
func TopJournals(rows []paper.Paper, n int) []JournalCount {
	idx := make(map[string]int)
	var ranked []JournalCount
	for _, p := range rows {
		if !p.HasJournal() {
			continue
		}
		i, ok := idx[p.Journal]
		if !ok {
			i = len(ranked)
			idx[p.Journal] = i
			ranked = append(ranked, JournalCount{Journal: p.Journal})
		}
		ranked[i].Count++
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if n < 0 {
		n = 0
	}
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	if ranked == nil {
		ranked = []JournalCount{}
	}
	return ranked
}

// TitleText joins every title with a single space.
func TitleText(rows []paper.Paper) string {
	titles := make([]string, len(rows))
	for i, p := range rows {
		titles[i] = p.Title
	}
	return strings.Join(titles, " ")
}

// Sample draws min(n, len(rows)) rows uniformly without replacement.
func Sample(rows []paper.Paper, n int, rng *rand.Rand) []paper.Paper {
	if n > len(rows) {
		n = len(rows)
	}
	if n <= 0 {
		return []paper.Paper{}
	}
	if rng == nil {
		rng = NewRand(0)
	}

	// Partial Fisher-Yates over an index slice; rows itself is left untouched.
	perm := make([]int, len(rows))
	for i := range perm {
		perm[i] = i
	}
	out := make([]paper.Paper, n)
	for i := 0; i < n; i++ {
		j := i + rng.IntN(len(perm)-i)
		perm[i], perm[j] = perm[j], perm[i]
		out[i] = rows[perm[i]]
	}
	return out
}

// NewRand returns a PCG source seeded with seed, or with the clock when seed is 0.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
