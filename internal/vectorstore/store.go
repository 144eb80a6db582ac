// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package vectorstore persists paper passages with their embeddings and
// serves filtered similarity search over them. All operations are
// partitioned by user identity in the SQL predicate; results are never
// filtered post-hoc across tenants.
package vectorstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/arxivhub/pkg/types"
)

const dbFile = "arxivhub.db"

// Store manages the passage and inventory SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at dataDir/arxivhub.db and ensures
// the schema exists.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS papers (
			user_id TEXT NOT NULL,
			id TEXT NOT NULL,
			title TEXT,
			authors TEXT,
			published INTEGER,
			summary TEXT,
			pdf_url TEXT,
			notes TEXT,
			total_chunks INTEGER,
			ingested_at TEXT,
			PRIMARY KEY (user_id, id)
		)`,
		`CREATE TABLE IF NOT EXISTS chunks (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			paper_id TEXT NOT NULL,
			title TEXT,
			content TEXT NOT NULL,
			embedding TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chunks_user ON chunks(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_chunks_user_paper ON chunks(user_id, paper_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Chunk is one passage to be stored with its embedding.
type Chunk struct {
	Content   string
	Embedding []float32
}

// AddPaper stores a paper's inventory record and its embedded passages in
// one transaction. An existing paper for the same user is replaced.
func (s *Store) AddPaper(ctx context.Context, userID string, rec types.PaperRecord, chunks []Chunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM chunks WHERE user_id = ? AND paper_id = ?`, userID, rec.ID); err != nil {
		return fmt.Errorf("deleting old chunks: %w", err)
	}

	authorsJSON, _ := json.Marshal(rec.Authors)
	ingestedAt := rec.IngestedAt
	if ingestedAt.IsZero() {
		ingestedAt = time.Now().UTC()
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO papers (user_id, id, title, authors, published, summary, pdf_url, notes, total_chunks, ingested_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id, id) DO UPDATE SET
			title=excluded.title, authors=excluded.authors, published=excluded.published,
			summary=excluded.summary, pdf_url=excluded.pdf_url,
			total_chunks=excluded.total_chunks, ingested_at=excluded.ingested_at`,
		userID, rec.ID, rec.Title, string(authorsJSON), rec.Published,
		rec.Summary, rec.PDFURL, rec.Notes, len(chunks), ingestedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting paper: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO chunks (user_id, paper_id, title, content, embedding) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range chunks {
		embJSON, err := json.Marshal(c.Embedding)
		if err != nil {
			return fmt.Errorf("serializing embedding %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, userID, rec.ID, rec.Title, c.Content, string(embJSON)); err != nil {
			return fmt.Errorf("inserting chunk %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// DeletePaper removes a paper and its passages for one user.
func (s *Store) DeletePaper(ctx context.Context, userID, paperID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM chunks WHERE user_id = ? AND paper_id = ?`, userID, paperID); err != nil {
		return fmt.Errorf("deleting chunks: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM papers WHERE user_id = ? AND id = ?`, userID, paperID)
	if err != nil {
		return fmt.Errorf("deleting paper: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("paper %s not found", paperID)
	}

	return tx.Commit()
}

// SaveNotes attaches free-text notes to a paper.
func (s *Store) SaveNotes(ctx context.Context, userID, paperID, notes string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE papers SET notes = ? WHERE user_id = ? AND id = ?`, notes, userID, paperID)
	if err != nil {
		return fmt.Errorf("saving notes: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("paper %s not found", paperID)
	}
	return nil
}

// Inventory returns the user's full paper inventory keyed by arXiv ID.
func (s *Store) Inventory(ctx context.Context, userID string) (map[string]types.PaperRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, authors, published, summary, pdf_url, notes, total_chunks, ingested_at
		 FROM papers WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying inventory: %w", err)
	}
	defer rows.Close()

	inventory := make(map[string]types.PaperRecord)
	for rows.Next() {
		var (
			rec         types.PaperRecord
			authorsJSON sql.NullString
			notes       sql.NullString
			ingestedAt  sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.Title, &authorsJSON, &rec.Published,
			&rec.Summary, &rec.PDFURL, &notes, &rec.TotalChunks, &ingestedAt); err != nil {
			return nil, fmt.Errorf("scanning paper row: %w", err)
		}
		if authorsJSON.Valid {
			json.Unmarshal([]byte(authorsJSON.String), &rec.Authors)
		}
		if notes.Valid {
			rec.Notes = notes.String
		}
		if ingestedAt.Valid {
			if t, parseErr := time.Parse(time.RFC3339, ingestedAt.String); parseErr == nil {
				rec.IngestedAt = t
			}
		}
		inventory[rec.ID] = rec
	}

	return inventory, rows.Err()
}

// HasPaper reports whether the user already ingested the paper.
func (s *Store) HasPaper(ctx context.Context, userID, paperID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM papers WHERE user_id = ? AND id = ?`, userID, paperID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking paper: %w", err)
	}
	return n > 0, nil
}

// CountChunks returns the number of stored passages for one user.
func (s *Store) CountChunks(ctx context.Context, userID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM chunks WHERE user_id = ?`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return n, nil
}
