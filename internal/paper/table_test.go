package paper

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNew_DerivesYear(t *testing.T) {
	p := New("A", "", date(2019, time.December, 31), "X", "PMC")
	if p.Year != 2019 {
		t.Errorf("Year = %d, want 2019", p.Year)
	}
	if !p.HasJournal() {
		t.Error("HasJournal() = false, want true")
	}
	if New("B", "", date(2020, 1, 1), "", "").HasJournal() {
		t.Error("HasJournal() = true for empty journal")
	}
}

func TestTable_YearBounds(t *testing.T) {
	tests := []struct {
		name    string
		rows    []Paper
		wantMin int
		wantMax int
		wantOK  bool
	}{
		{"empty", nil, 0, 0, false},
		{"single", []Paper{New("A", "", date(2020, 1, 1), "", "")}, 2020, 2020, true},
		{
			name: "unordered",
			rows: []Paper{
				New("A", "", date(2021, 1, 1), "", ""),
				New("B", "", date(1998, 5, 1), "", ""),
				New("C", "", date(2022, 3, 1), "", ""),
			},
			wantMin: 1998,
			wantMax: 2022,
			wantOK:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := NewTable("test.csv", tt.rows)
			min, max, ok := tbl.YearBounds()
			if min != tt.wantMin || max != tt.wantMax || ok != tt.wantOK {
				t.Errorf("YearBounds() = (%d, %d, %v), want (%d, %d, %v)",
					min, max, ok, tt.wantMin, tt.wantMax, tt.wantOK)
			}
			if tbl.Len() != len(tt.rows) {
				t.Errorf("Len() = %d, want %d", tbl.Len(), len(tt.rows))
			}
		})
	}
}

func TestTable_RowsIsACopy(t *testing.T) {
	src := []Paper{New("A", "", date(2020, 1, 1), "X", "")}
	tbl := NewTable("test.csv", src)

	src[0].Title = "changed"
	rows := tbl.Rows()
	if rows[0].Title != "A" {
		t.Errorf("table shares the input slice: Title = %q", rows[0].Title)
	}

	rows[0].Title = "changed again"
	if tbl.Rows()[0].Title != "A" {
		t.Error("Rows() exposes internal storage")
	}
}

func TestTable_NilSafe(t *testing.T) {
	var tbl *Table
	if tbl.Len() != 0 {
		t.Error("nil table Len() != 0")
	}
	if _, _, ok := tbl.YearBounds(); ok {
		t.Error("nil table has bounds")
	}
	tbl.Each(func(Paper) { t.Error("Each called on nil table") })
}
