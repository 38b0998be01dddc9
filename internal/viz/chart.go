package viz

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ChartSeries is the label/value shape Chart.js bar charts consume.
type ChartSeries struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

// YearSeries converts counts by year into a chart series.
func (d *Dashboard) YearSeries() ChartSeries {
	s := ChartSeries{
		Labels: make([]string, 0, len(d.CountsByYear)),
		Values: make([]int, 0, len(d.CountsByYear)),
	}
	for _, c := range d.CountsByYear {
		s.Labels = append(s.Labels, strconv.Itoa(c.Year))
		s.Values = append(s.Values, c.Count)
	}
	return s
}

// JournalSeries converts the top journals into a chart series.
func (d *Dashboard) JournalSeries() ChartSeries {
	s := ChartSeries{
		Labels: make([]string, 0, len(d.TopJournals)),
		Values: make([]int, 0, len(d.TopJournals)),
	}
	for _, j := range d.TopJournals {
		s.Labels = append(s.Labels, j.Journal)
		s.Values = append(s.Values, j.Count)
	}
	return s
}

// WordList converts word frequencies to the [[word, weight], ...] list
// wordcloud2.js consumes.
func (d *Dashboard) WordList() [][2]interface{} {
	list := make([][2]interface{}, 0, len(d.Words))
	for _, w := range d.Words {
		list = append(list, [2]interface{}{w.Word, w.Count})
	}
	return list
}

// ToJSON serializes the dashboard as the payload the page script renders.
func (d *Dashboard) ToJSON() (string, error) {
	payload := struct {
		*Dashboard
		Years    ChartSeries      `json:"years"`
		Journals ChartSeries      `json:"journals"`
		WordList [][2]interface{} `json:"word_list"`
	}{
		Dashboard: d,
		Years:     d.YearSeries(),
		Journals:  d.JournalSeries(),
		WordList:  d.WordList(),
	}

	jsonBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshaling dashboard to JSON: %w", err)
	}
	return string(jsonBytes), nil
}
