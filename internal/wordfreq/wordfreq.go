// Package wordfreq turns the joined title text into word frequencies for the
// word cloud.
package wordfreq

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinWordLength is the shortest token (in runes) that is counted.
const MinWordLength = 2

// WordCount pairs a word with its number of occurrences.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Stopwords is the default set of English words left out of the cloud.
var Stopwords = toSet(`a about above after again against all am an and any are as at be because been
before being below between both but by can could did do does doing down during each few for from
further had has have having he her here hers herself him himself his how i if in into is it its
itself just me more most my myself no nor not of off on once only or other our ours ourselves out
over own same she should so some such than that the their theirs them themselves then there these
they this those through to too under until up very was we were what when where which while who
whom why will with would you your yours yourself yourselves via using use based among within
without towards toward vs versus new study`)

func toSet(words string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(words) {
		set[w] = true
	}
	return set
}

// Count tokenizes text and counts words, skipping stopwords and short tokens.
// A nil stopwords map uses Stopwords.
func Count(text string, stopwords map[string]bool) map[string]int {
	if stopwords == nil {
		stopwords = Stopwords
	}

	counts := make(map[string]int)
	for _, tok := range Tokenize(text) {
		if utf8.RuneCountInString(tok) < MinWordLength || stopwords[tok] {
			continue
		}
		counts[tok]++
	}
	return counts
}

// Tokenize lowercases text and splits it on anything that is not a letter,
// digit, hyphen or apostrophe. Leading and trailing hyphens and apostrophes
// are trimmed; tokens made only of digits are dropped.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '\''
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, "-'")
		f = strings.TrimSuffix(f, "'s")
		if f == "" || isNumber(f) {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

func isNumber(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Top returns the n most frequent words, by count descending then word
// ascending. n <= 0 returns every word.
func Top(counts map[string]int, n int) []WordCount {
	words := make([]WordCount, 0, len(counts))
	for w, c := range counts {
		words = append(words, WordCount{Word: w, Count: c})
	}

	sort.Slice(words, func(i, j int) bool {
		if words[i].Count != words[j].Count {
			return words[i].Count > words[j].Count
		}
		return words[i].Word < words[j].Word
	})

	if n > 0 && len(words) > n {
		words = words[:n]
	}
	return words
}

// TopWords is Count followed by Top with the default stopwords.
func TopWords(text string, n int) []WordCount {
	return Top(Count(text, nil), n)
}
