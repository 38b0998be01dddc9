package paper

import "time"

// Table is the cleaned, read-only collection of papers in source-file order.
// A Table is never mutated after construction; filters produce new slices.
type Table struct {
	Path     string    `json:"path"`
	LoadedAt time.Time `json:"loaded_at"`

	rows    []Paper
	minYear int
	maxYear int
}

// NewTable builds a Table from already-cleaned rows. The slice is copied.
func NewTable(path string, rows []Paper) *Table {
	t := &Table{
		Path:     path,
		LoadedAt: time.Now(),
		rows:     make([]Paper, len(rows)),
	}
	copy(t.rows, rows)

	for i, p := range t.rows {
		if i == 0 || p.Year < t.minYear {
			t.minYear = p.Year
		}
		if i == 0 || p.Year > t.maxYear {
			t.maxYear = p.Year
		}
	}
	return t
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Rows returns a copy of the rows.
func (t *Table) Rows() []Paper {
	if t == nil {
		return nil
	}
	out := make([]Paper, len(t.rows))
	copy(out, t.rows)
	return out
}

// Each calls fn for every row in order without copying the slice.
func (t *Table) Each(fn func(Paper)) {
	if t == nil {
		return
	}
	for _, p := range t.rows {
		fn(p)
	}
}

// YearBounds returns the smallest and largest year in the table.
// ok is false for an empty table, which has no meaningful bounds.
func (t *Table) YearBounds() (min, max int, ok bool) {
	if t.Len() == 0 {
		return 0, 0, false
	}
	return t.minYear, t.maxYear, true
}
