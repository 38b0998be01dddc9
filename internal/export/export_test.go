package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matsen/paperview/internal/loader"
	"github.com/matsen/paperview/internal/paper"
)

func TestToBibTeX_BasicArticle(t *testing.T) {
	p := paper.New("Test Paper Title", "This is the abstract",
		time.Date(2020, 3, 15, 0, 0, 0, 0, time.UTC), "Nature", "PMC")

	got := ToBibTeX(p, "Test2020")

	if !strings.HasPrefix(got, "@article{Test2020,") {
		t.Errorf("ToBibTeX() should start with @article{Test2020, got:\n%s", got)
	}
	for _, want := range []string{
		`title = {Test Paper Title}`,
		`journal = {Nature}`,
		`year = {2020}`,
		`month = {3}`,
		`abstract = {This is the abstract}`,
		`note = {Source: PMC}`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("ToBibTeX() should contain %q, got:\n%s", want, got)
		}
	}
	if !strings.HasSuffix(strings.TrimSpace(got), "}") {
		t.Errorf("ToBibTeX() should end with }, got:\n%s", got)
	}
}

func TestToBibTeX_OptionalFields(t *testing.T) {
	p := paper.New("Untitled work", "", time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), "", "")

	got := ToBibTeX(p, "Untitled2021")
	for _, absent := range []string{"journal =", "abstract =", "note ="} {
		if strings.Contains(got, absent) {
			t.Errorf("ToBibTeX() should omit %q, got:\n%s", absent, got)
		}
	}
}

func TestToBibTeX_Inproceedings(t *testing.T) {
	p := paper.New("A Conference Paper", "", time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC),
		"Proceedings of the Symposium on Epidemics", "")

	got := ToBibTeX(p, "Conference2020")
	if !strings.HasPrefix(got, "@inproceedings{") {
		t.Errorf("expected inproceedings entry, got:\n%s", got)
	}
	if !strings.Contains(got, "booktitle = {Proceedings of the Symposium on Epidemics}") {
		t.Errorf("expected booktitle field, got:\n%s", got)
	}
}

func TestEscapeLatex(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Simple text", "Simple text"},
		{"R&D", `R\&D`},
		{"50% of cases", `50\% of cases`},
		{"IL_6", `IL\_6`},
		{"{braces}", `\{braces\}`},
		{"~approx", `\textasciitilde{}approx`},
		{`a\b`, `a\textbackslash{}b`},
		{`\alpha_{1}`, `\textbackslash{}alpha\_\{1\}`},
	}
	for _, tt := range tests {
		if got := escapeLatex(tt.input); got != tt.want {
			t.Errorf("escapeLatex(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestToBibTeXList_UniqueKeys(t *testing.T) {
	day := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	papers := []paper.Paper{
		paper.New("Coronavirus transmission", "", day, "", ""),
		paper.New("Coronavirus structure", "", day, "", ""),
		paper.New("On a new virus", "", day, "", ""),
		paper.New("A b c", "", day, "", ""),
	}

	got := ToBibTeXList(papers)
	for _, key := range []string{"{Coronavirus2020,", "{Coronavirus2020-2,", "{Virus2020,", "{Paper2020,"} {
		if !strings.Contains(got, key) {
			t.Errorf("ToBibTeXList() missing key %q, got:\n%s", key, got)
		}
	}
	if n := strings.Count(got, "@article{"); n != 4 {
		t.Errorf("entry count = %d, want 4", n)
	}
	if ToBibTeXList(nil) != "" {
		t.Error("empty list should produce empty output")
	}
}

func TestWriteCSV_Reloadable(t *testing.T) {
	papers := []paper.Paper{
		paper.New("Spike, protein \"structure\"", "Multi\nline abstract.",
			time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC), "Nature", "PMC"),
		paper.New("Masks", "", time.Date(2020, 2, 2, 0, 0, 0, 0, time.UTC), "", "WHO"),
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, papers); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	if !strings.HasPrefix(buf.String(), "title,abstract,publish_time,journal,source_x,year\n") {
		t.Errorf("unexpected header: %q", strings.SplitN(buf.String(), "\n", 2)[0])
	}

	reloaded, stats, err := loader.Parse(&buf, ',')
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if stats.Kept != len(papers) {
		t.Fatalf("reloaded %d papers, want %d", stats.Kept, len(papers))
	}
	if diff := cmp.Diff(papers, reloaded); diff != "" {
		t.Errorf("reloaded papers mismatch (-want +got):\n%s", diff)
	}
}
