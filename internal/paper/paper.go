// Package paper defines the core domain types for the paper metadata corpus.
package paper

import "time"

// Paper represents one cleaned row of the metadata table.
type Paper struct {
	Title       string    `json:"title"`
	Abstract    string    `json:"abstract,omitempty"` // Empty if missing in the source
	PublishTime time.Time `json:"publish_time"`
	Journal     string    `json:"journal,omitempty"` // Empty if missing in the source
	Source      string    `json:"source,omitempty"`  // source_x column

	// Derived
	Year int `json:"year"`
}

// HasJournal reports whether the journal field was present in the source.
func (p Paper) HasJournal() bool {
	return p.Journal != ""
}

// New builds a Paper and derives its year from the publish time.
func New(title, abstract string, published time.Time, journal, source string) Paper {
	return Paper{
		Title:       title,
		Abstract:    abstract,
		PublishTime: published,
		Journal:     journal,
		Source:      source,
		Year:        published.Year(),
	}
}
