// Package export writes filtered papers to citation and tabular formats.
package export

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/matsen/paperview/internal/paper"
)

// ToBibTeX converts a paper to a BibTeX entry under key.
func ToBibTeX(p paper.Paper, key string) string {
	entryType := determineEntryType(p)
	var b strings.Builder

	b.WriteString(fmt.Sprintf("@%s{%s,\n", entryType, key))
	b.WriteString(fmt.Sprintf("  title = {%s},\n", escapeLatex(p.Title)))

	if p.HasJournal() {
		fieldName := "journal"
		if entryType == "inproceedings" {
			fieldName = "booktitle"
		}
		b.WriteString(fmt.Sprintf("  %s = {%s},\n", fieldName, escapeLatex(p.Journal)))
	}

	b.WriteString(fmt.Sprintf("  year = {%d},\n", p.Year))
	b.WriteString(fmt.Sprintf("  month = {%d},\n", int(p.PublishTime.Month())))

	if p.Abstract != "" {
		b.WriteString(fmt.Sprintf("  abstract = {%s},\n", escapeLatex(p.Abstract)))
	}
	if p.Source != "" {
		b.WriteString(fmt.Sprintf("  note = {Source: %s},\n", escapeLatex(p.Source)))
	}

	b.WriteString("}\n")
	return b.String()
}

// ToBibTeXList converts papers to BibTeX with unique keys.
func ToBibTeXList(papers []paper.Paper) string {
	seen := make(map[string]int)
	entries := make([]string, 0, len(papers))
	for _, p := range papers {
		key := citeKey(p)
		seen[key]++
		if n := seen[key]; n > 1 {
			key = fmt.Sprintf("%s-%d", key, n)
		}
		entries = append(entries, ToBibTeX(p, key))
	}
	return strings.Join(entries, "\n")
}

// citeKey builds a key from the first significant title word and the year,
// e.g. "Coronavirus2020".
func citeKey(p paper.Paper) string {
	word := "paper"
	for _, w := range strings.FieldsFunc(p.Title, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if len([]rune(w)) > 3 {
			word = w
			break
		}
	}
	r := []rune(strings.ToLower(word))
	r[0] = unicode.ToUpper(r[0])
	return fmt.Sprintf("%s%d", string(r), p.Year)
}

// determineEntryType returns the BibTeX entry type for a paper.
func determineEntryType(p paper.Paper) string {
	journal := strings.ToLower(p.Journal)

	// Conference proceedings
	if strings.Contains(journal, "proceedings") ||
		strings.Contains(journal, "conference") ||
		strings.Contains(journal, "workshop") ||
		strings.Contains(journal, "symposium") {
		return "inproceedings"
	}

	// Preprints and journals alike
	return "article"
}

// escapeLatex escapes special LaTeX characters.
func escapeLatex(s string) string {
	replacer := strings.NewReplacer(
		"\\", `\textbackslash{}`,
		"&", `\&`,
		"%", `\%`,
		"$", `\$`,
		"#", `\#`,
		"_", `\_`,
		"{", `\{`,
		"}", `\}`,
		"~", `\textasciitilde{}`,
		"^", `\textasciicircum{}`,
	)
	return replacer.Replace(s)
}
