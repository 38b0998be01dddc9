// Package storage provides an in-memory SQLite query index over the cleaned
// paper table. Nothing is written to disk; the index lives as long as the DB.
package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/matsen/paperview/internal/paper"
	_ "modernc.org/sqlite"
)

// DB wraps an in-memory SQLite database connection.
type DB struct {
	db *sql.DB
}

// selectPaperFields contains the standard field list for SELECT queries.
const selectPaperFields = `title, abstract, publish_time, journal, source, pub_year`

// OpenMemory opens a fresh in-memory database with the paper schema.
func OpenMemory() (*DB, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Every connection to :memory: is a separate database, so pin to one.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS papers (
			row_id INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			abstract TEXT,
			publish_time TEXT NOT NULL,
			journal TEXT,
			source TEXT,
			pub_year INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_papers_year ON papers(pub_year);
		CREATE INDEX IF NOT EXISTS idx_papers_journal ON papers(journal) WHERE journal IS NOT NULL;

		-- Full-text search over title and abstract, keyed by papers.row_id
		CREATE VIRTUAL TABLE IF NOT EXISTS papers_fts USING fts5(
			title,
			abstract
		);
	`

	_, err := db.Exec(schema)
	return err
}

// LoadTable clears the index and fills it from t, preserving table order.
func (d *DB) LoadTable(t *paper.Table) (int, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM papers"); err != nil {
		return 0, fmt.Errorf("clearing papers table: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM papers_fts"); err != nil {
		return 0, fmt.Errorf("clearing papers_fts table: %w", err)
	}

	papersStmt, err := tx.Prepare(`
		INSERT INTO papers (row_id, title, abstract, publish_time, journal, source, pub_year)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing papers insert: %w", err)
	}
	defer papersStmt.Close()

	ftsStmt, err := tx.Prepare(`INSERT INTO papers_fts (rowid, title, abstract) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing fts insert: %w", err)
	}
	defer ftsStmt.Close()

	var insertErr error
	n := 0
	t.Each(func(p paper.Paper) {
		if insertErr != nil {
			return
		}
		n++
		_, insertErr = papersStmt.Exec(
			n, p.Title, nullableStringValue(p.Abstract),
			p.PublishTime.UTC().Format(time.RFC3339),
			nullableStringValue(p.Journal), nullableStringValue(p.Source),
			p.Year,
		)
		if insertErr != nil {
			insertErr = fmt.Errorf("inserting row %d: %w", n, insertErr)
			return
		}
		if _, err := ftsStmt.Exec(n, p.Title, p.Abstract); err != nil {
			insertErr = fmt.Errorf("inserting fts for row %d: %w", n, err)
		}
	})
	if insertErr != nil {
		return 0, insertErr
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing: %w", err)
	}
	return n, nil
}

// Count returns the total number of indexed papers.
func (d *DB) Count() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM papers").Scan(&count)
	return count, err
}

// SearchFilters contains optional filters for Search. Zero values are ignored.
type SearchFilters struct {
	Keyword  string // Full-text search across title and abstract
	Title    string // Full-text search in title only
	Journal  string // Substring match on journal (case-insensitive)
	YearFrom int    // Minimum publication year (0 = no minimum)
	YearTo   int    // Maximum publication year (0 = no maximum)
}

// Search returns papers matching ALL specified criteria in table order.
func (d *DB) Search(filters SearchFilters, limit int) ([]paper.Paper, error) {
	var ftsTerms []string
	var args []interface{}

	if strings.TrimSpace(filters.Keyword) != "" {
		ftsTerms = append(ftsTerms, prepareFTSQuery(filters.Keyword))
	}
	if strings.TrimSpace(filters.Title) != "" {
		ftsTerms = append(ftsTerms, "title:"+preparePhrase(filters.Title))
	}

	var query string
	if len(ftsTerms) > 0 {
		query = `SELECT ` + selectPaperFields + `
			FROM papers
			WHERE row_id IN (SELECT rowid FROM papers_fts WHERE papers_fts MATCH ?)`
		args = append(args, strings.Join(ftsTerms, " AND "))
	} else {
		query = `SELECT ` + selectPaperFields + ` FROM papers WHERE 1=1`
	}

	if filters.YearFrom > 0 {
		query += " AND pub_year >= ?"
		args = append(args, filters.YearFrom)
	}
	if filters.YearTo > 0 {
		query += " AND pub_year <= ?"
		args = append(args, filters.YearTo)
	}
	if filters.Journal != "" {
		query += " AND journal LIKE ?"
		args = append(args, "%"+filters.Journal+"%")
	}

	query += " ORDER BY row_id"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching with filters: %w", err)
	}
	defer rows.Close()

	return scanPapers(rows)
}

// YearCount is a row of YearCounts.
type YearCount struct {
	Year  int
	Count int
}

// YearCounts groups papers in [from, to] by year, ascending.
func (d *DB) YearCounts(from, to int) ([]YearCount, error) {
	rows, err := d.db.Query(`
		SELECT pub_year, COUNT(*) FROM papers
		WHERE pub_year BETWEEN ? AND ?
		GROUP BY pub_year
		ORDER BY pub_year`, from, to)
	if err != nil {
		return nil, fmt.Errorf("counting by year: %w", err)
	}
	defer rows.Close()

	var counts []YearCount
	for rows.Next() {
		var c YearCount
		if err := rows.Scan(&c.Year, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanPaper(s scanner) (paper.Paper, error) {
	var p paper.Paper
	var abstract, journal, source sql.NullString
	var published string

	if err := s.Scan(&p.Title, &abstract, &published, &journal, &source, &p.Year); err != nil {
		return paper.Paper{}, err
	}

	when, err := time.Parse(time.RFC3339, published)
	if err != nil {
		return paper.Paper{}, fmt.Errorf("parsing stored publish_time %q: %w", published, err)
	}

	p.PublishTime = when
	p.Abstract = abstract.String
	p.Journal = journal.String
	p.Source = source.String
	return p, nil
}

func scanPapers(rows *sql.Rows) ([]paper.Paper, error) {
	papers := []paper.Paper{}
	for rows.Next() {
		p, err := scanPaper(rows)
		if err != nil {
			return nil, err
		}
		papers = append(papers, p)
	}
	return papers, rows.Err()
}

// nullableStringValue converts a string to sql.NullString, treating empty as NULL.
func nullableStringValue(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// prepareFTSQuery quotes every whitespace-separated term of query as an
// FTS5 string, so punctuation and operator words match literally. The terms
// stay an implicit AND.
func prepareFTSQuery(query string) string {
	fields := strings.Fields(query)
	for i, f := range fields {
		fields[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(fields, " ")
}

// preparePhrase quotes s as a single FTS5 phrase.
func preparePhrase(s string) string {
	s = strings.TrimSpace(s)
	return "\"" + strings.ReplaceAll(s, "\"", "\"\"") + "\""
}
