// Package reading keeps the local reading list: text entries a learner pastes
// in, stored with their sentences for sentence-by-sentence practice.
package reading

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/anatolykoptev/go_listen/internal/engine"
)

// ErrNotFound is returned for an unknown entry id.
var ErrNotFound = errors.New("reading entry not found")

const (
	defaultListLimit = 20
	maxListLimit     = 200
)

// Entry is one saved text.
type Entry struct {
	ID                int64    `json:"id"`
	Title             string   `json:"title"`
	Content           string   `json:"content,omitempty"`
	WordCount         int      `json:"word_count"`
	EstimatedDuration string   `json:"estimated_duration"`
	CreatedAt         string   `json:"created_at"`
	Sentences         []string `json:"sentences,omitempty"`
}

// Store is a SQLite-backed reading list.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("reading: mkdir %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("reading: open db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("reading: init schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

var schema = []string{
	`CREATE TABLE IF NOT EXISTS entries (
		id                 INTEGER PRIMARY KEY AUTOINCREMENT,
		title              TEXT NOT NULL,
		content            TEXT NOT NULL,
		word_count         INTEGER NOT NULL,
		estimated_duration TEXT NOT NULL,
		created_at         TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sentences (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		entry_id    INTEGER NOT NULL REFERENCES entries(id) ON DELETE CASCADE,
		content     TEXT NOT NULL,
		order_index INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sentences_entry ON sentences(entry_id, order_index)`,
}

func initSchema(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

var (
	defaultStore *Store
	defaultOnce  sync.Once
	defaultErr   error
)

// DefaultPath is ~/.go_listen/reading.db.
func DefaultPath() string {
	return filepath.Join(os.Getenv("HOME"), ".go_listen", "reading.db")
}

// Default opens the process-wide store at engine.Cfg.ReadingDBPath
// (DefaultPath when unset) on first use.
func Default() (*Store, error) {
	defaultOnce.Do(func() {
		path := engine.Cfg.ReadingDBPath
		if path == "" {
			path = DefaultPath()
		}
		defaultStore, defaultErr = Open(path)
	})
	return defaultStore, defaultErr
}

// Add saves a text and its sentences. A blank title falls back to the
// first sentence, truncated.
func (s *Store) Add(ctx context.Context, title, content string) (*Entry, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.New("reading_add: content is required")
	}
	sentences := SplitSentences(content)
	title = strings.TrimSpace(title)
	if title == "" {
		title = engine.TruncateRunes(sentences[0], 60, "...")
	}

	words := CountWords(content)
	e := &Entry{
		Title:             title,
		Content:           content,
		WordCount:         words,
		EstimatedDuration: EstimateDuration(words),
		CreatedAt:         time.Now().UTC().Format(time.RFC3339),
		Sentences:         sentences,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("reading_add: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx,
		`INSERT INTO entries (title, content, word_count, estimated_duration, created_at) VALUES (?, ?, ?, ?, ?)`,
		e.Title, e.Content, e.WordCount, e.EstimatedDuration, e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("reading_add: insert entry: %w", err)
	}
	if e.ID, err = res.LastInsertId(); err != nil {
		return nil, fmt.Errorf("reading_add: entry id: %w", err)
	}
	for i, sentence := range sentences {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sentences (entry_id, content, order_index) VALUES (?, ?, ?)`,
			e.ID, sentence, i); err != nil {
			return nil, fmt.Errorf("reading_add: insert sentence: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("reading_add: commit: %w", err)
	}
	return e, nil
}

// List returns entries newest first, without content or sentences.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	return s.query(ctx, "reading_list",
		`SELECT id, title, word_count, estimated_duration, created_at FROM entries ORDER BY id DESC LIMIT ?`,
		clampLimit(limit))
}

// Search is List restricted to entries whose title or content contains q.
func (s *Store) Search(ctx context.Context, q string, limit int) ([]Entry, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return s.List(ctx, limit)
	}
	return s.query(ctx, "reading_search",
		`SELECT id, title, word_count, estimated_duration, created_at FROM entries
		 WHERE title LIKE '%' || ? || '%' OR content LIKE '%' || ? || '%'
		 ORDER BY id DESC LIMIT ?`,
		q, q, clampLimit(limit))
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

func (s *Store) query(ctx context.Context, op, stmt string, args ...any) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Title, &e.WordCount, &e.EstimatedDuration, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get returns one entry with its content and ordered sentences.
func (s *Store) Get(ctx context.Context, id int64) (*Entry, error) {
	var e Entry
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, content, word_count, estimated_duration, created_at FROM entries WHERE id = ?`, id).
		Scan(&e.ID, &e.Title, &e.Content, &e.WordCount, &e.EstimatedDuration, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("reading_get: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT content FROM sentences WHERE entry_id = ? ORDER BY order_index`, id)
	if err != nil {
		return nil, fmt.Errorf("reading_get: sentences: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var sentence string
		if err := rows.Scan(&sentence); err != nil {
			return nil, fmt.Errorf("reading_get: scan: %w", err)
		}
		e.Sentences = append(e.Sentences, sentence)
	}
	return &e, rows.Err()
}

// Delete removes an entry and its sentences.
func (s *Store) Delete(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("reading_delete: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM sentences WHERE entry_id = ?`, id); err != nil {
		return fmt.Errorf("reading_delete: sentences: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("reading_delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return tx.Commit()
}
