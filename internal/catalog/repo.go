package catalog

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/kennithz884/snapmind/internal/models"
)

// Doc is the per-record projection handed to the semantic match oracle.
type Doc struct {
	ID      string `json:"id"`
	Summary string `json:"summary"`
	OCRText string `json:"text"`
}

// Store defines catalog operations. Consumers should depend on this
// interface rather than the concrete *DB type to facilitate testing.
type Store interface {
	InsertMany(records []models.Screenshot) error
	All() ([]models.Screenshot, error)
	ByID(id string) (*models.Screenshot, error)
	Corpus() ([]Doc, error)
	IncrementViews(id string) error
	Count() (int, error)
	Close() error
}

// Verify *DB satisfies Store at compile time.
var _ Store = (*DB)(nil)

// InsertMany inserts a batch of records in one transaction. Duplicate ids
// are not checked; callers must guarantee uniqueness.
func (db *DB) InsertMany(records []models.Screenshot) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("catalog: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	stmt, err := tx.Prepare(`
		INSERT INTO screenshots (id, image_ref, captured_at, category, summary, ocr_text, view_count, insights, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("catalog: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		insightsJSON, _ := json.Marshal(r.Insights)
		var embedding any
		if r.Embedding != nil {
			b, _ := json.Marshal(r.Embedding)
			embedding = string(b)
		}
		if _, err := stmt.Exec(r.ID, r.ImageRef, r.CapturedAt, string(r.Category),
			r.Summary, r.OCRText, r.ViewCount, string(insightsJSON), embedding); err != nil {
			return fmt.Errorf("catalog: insert %s: %w", r.ID, err)
		}
	}

	return tx.Commit()
}

// All returns a snapshot of every record, newest first.
func (db *DB) All() ([]models.Screenshot, error) {
	rows, err := db.conn.Query(`
		SELECT id, image_ref, captured_at, category, summary, ocr_text, view_count, insights, embedding
		FROM screenshots
		ORDER BY captured_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("catalog: all: %w", err)
	}
	defer rows.Close()

	var out []models.Screenshot
	for rows.Next() {
		s, err := scanScreenshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// ByID returns the record with the given id, or nil when absent.
// A miss is a normal outcome, not an error.
func (db *DB) ByID(id string) (*models.Screenshot, error) {
	row := db.conn.QueryRow(`
		SELECT id, image_ref, captured_at, category, summary, ocr_text, view_count, insights, embedding
		FROM screenshots
		WHERE id = ?
	`, id)
	s, err := scanScreenshot(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Corpus returns the {id, summary, ocrText} projection of every record,
// newest first, for the semantic match oracle.
func (db *DB) Corpus() ([]Doc, error) {
	rows, err := db.conn.Query(`
		SELECT id, summary, ocr_text FROM screenshots ORDER BY captured_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("catalog: corpus: %w", err)
	}
	defer rows.Close()

	var out []Doc
	for rows.Next() {
		var d Doc
		if err := rows.Scan(&d.ID, &d.Summary, &d.OCRText); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// IncrementViews bumps the view counter for a record. Missing ids are a
// silent no-op.
func (db *DB) IncrementViews(id string) error {
	_, err := db.conn.Exec(`UPDATE screenshots SET view_count = view_count + 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("catalog: increment views: %w", err)
	}
	return nil
}

// Count returns the number of records in the catalog.
func (db *DB) Count() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT count(*) FROM screenshots`).Scan(&n); err != nil {
		return 0, fmt.Errorf("catalog: count: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanScreenshot(row scanner) (*models.Screenshot, error) {
	var (
		s            models.Screenshot
		category     string
		insightsJSON string
		embedding    sql.NullString
	)
	if err := row.Scan(&s.ID, &s.ImageRef, &s.CapturedAt, &category,
		&s.Summary, &s.OCRText, &s.ViewCount, &insightsJSON, &embedding); err != nil {
		return nil, err
	}
	s.Category = models.ParseCategory(category)
	if err := json.Unmarshal([]byte(insightsJSON), &s.Insights); err != nil {
		s.Insights = models.Insights{}
	}
	ensureInsightSlices(&s.Insights)
	if embedding.Valid {
		_ = json.Unmarshal([]byte(embedding.String), &s.Embedding)
	}
	return &s, nil
}

func ensureInsightSlices(in *models.Insights) {
	if in.Links == nil {
		in.Links = []string{}
	}
	if in.Phones == nil {
		in.Phones = []string{}
	}
	if in.Addresses == nil {
		in.Addresses = []string{}
	}
}
