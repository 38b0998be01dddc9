package main

import (
	"strings"
	"testing"

	"github.com/matsen/paperview/internal/aggregate"
	"github.com/matsen/paperview/internal/viz"
	"github.com/matsen/paperview/internal/wordfreq"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name   string
		s      string
		maxLen int
		want   string
	}{
		{"short", "Short title", 20, "Short title"},
		{"exact", "0123456789", 10, "0123456789"},
		{"truncated", "A very long paper title about coronaviruses", 20, "A very long paper..."},
		{"wide runes", "新型冠状病毒肺炎研究", 10, "新型冠..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncateString(tt.s, tt.maxLen); got != tt.want {
				t.Errorf("truncateString(%q, %d) = %q, want %q", tt.s, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestFormatTable(t *testing.T) {
	got := formatTable(
		[]string{"#", "Journal", "Papers"},
		[][]string{
			{"1", "Nature", "12"},
			{"2", "病毒学", "3"},
		},
	)
	want := "  #  Journal  Papers\n" +
		"  1  Nature   12\n" +
		"  2  病毒学   3\n"
	if got != want {
		t.Errorf("formatTable() =\n%s\nwant\n%s", got, want)
	}
}

func TestBar(t *testing.T) {
	tests := []struct {
		count, max int
		want       int
	}{
		{10, 10, BarMaxWidth},
		{5, 10, BarMaxWidth / 2},
		{1, 1000, 1},
		{0, 10, 0},
		{3, 0, 0},
	}
	for _, tt := range tests {
		if got := len(bar(tt.count, tt.max)); got != tt.want {
			t.Errorf("bar(%d, %d) width = %d, want %d", tt.count, tt.max, got, tt.want)
		}
	}
}

func TestFormatWords(t *testing.T) {
	got := formatWords([]wordfreq.WordCount{{Word: "covid", Count: 3}, {Word: "spike", Count: 1}})
	if want := "covid (3), spike (1)"; got != want {
		t.Errorf("formatWords() = %q, want %q", got, want)
	}
	if got := formatWords(nil); got != "" {
		t.Errorf("formatWords(nil) = %q, want empty", got)
	}
}

func TestRangeFlagsResolve(t *testing.T) {
	b := viz.Bounds{MinYear: 2015, MaxYear: 2022, HasData: true}

	tests := []struct {
		flags rangeFlags
		want  aggregate.Range
	}{
		{rangeFlags{}, aggregate.Range{From: 2015, To: 2022}},
		{rangeFlags{from: 2020}, aggregate.Range{From: 2020, To: 2022}},
		{rangeFlags{to: 2019}, aggregate.Range{From: 2015, To: 2019}},
		{rangeFlags{from: 2021, to: 2019}, aggregate.Range{From: 2021, To: 2019}},
	}
	for _, tt := range tests {
		if got := tt.flags.resolve(b); got != tt.want {
			t.Errorf("%+v.resolve() = %+v, want %+v", tt.flags, got, tt.want)
		}
	}
}

func TestNormalizeKey(t *testing.T) {
	for _, in := range []string{"data-path", "data_path", "Data-Path", "DATA_PATH"} {
		if got := normalizeKey(in); got != "data-path" {
			t.Errorf("normalizeKey(%q) = %q", in, got)
		}
	}
	if !strings.Contains(normalizeKey("top_journals"), "-") {
		t.Error("underscores should become dashes")
	}
}
