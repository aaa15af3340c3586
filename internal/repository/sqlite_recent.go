package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/atest/internal/db"
)

// SQLiteRecentDocumentRepo implements RecentDocumentRepo using a SQLite database.
type SQLiteRecentDocumentRepo struct {
	db db.DBTX
}

func NewSQLiteRecentDocumentRepo(conn db.DBTX) *SQLiteRecentDocumentRepo {
	return &SQLiteRecentDocumentRepo{db: conn}
}

const recentColumns = `path, format, opened_at, open_count`

func (r *SQLiteRecentDocumentRepo) Touch(ctx context.Context, path, format string, at time.Time) error {
	query := `INSERT INTO recent_documents (path, format, opened_at, open_count)
		VALUES (?, ?, ?, 1)
		ON CONFLICT(path) DO UPDATE SET
			format = excluded.format,
			opened_at = excluded.opened_at,
			open_count = recent_documents.open_count + 1`
	if _, err := r.db.ExecContext(ctx, query, path, format, formatTimestamp(at)); err != nil {
		return fmt.Errorf("touching recent document %s: %w", path, err)
	}
	return nil
}

func (r *SQLiteRecentDocumentRepo) Latest(ctx context.Context) (*RecentDocument, error) {
	query := `SELECT ` + recentColumns + ` FROM recent_documents
		ORDER BY opened_at DESC, path LIMIT 1`
	doc, err := scanRecent(r.db.QueryRowContext(ctx, query))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("recent document: %w", ErrNotFound)
		}
		return nil, err
	}
	return doc, nil
}

// List returns entries newest first. A non-positive limit returns all of them.
func (r *SQLiteRecentDocumentRepo) List(ctx context.Context, limit int) ([]*RecentDocument, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `SELECT ` + recentColumns + ` FROM recent_documents
		ORDER BY opened_at DESC, path LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent documents: %w", err)
	}
	defer rows.Close()

	var out []*RecentDocument
	for rows.Next() {
		doc, err := scanRecent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

func (r *SQLiteRecentDocumentRepo) Forget(ctx context.Context, path string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM recent_documents WHERE path = ?`, path)
	if err != nil {
		return fmt.Errorf("forgetting recent document %s: %w", path, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("forgetting recent document %s: %w", path, err)
	}
	if n == 0 {
		return fmt.Errorf("recent document %s: %w", path, ErrNotFound)
	}
	return nil
}

func (r *SQLiteRecentDocumentRepo) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	query := `DELETE FROM recent_documents WHERE path NOT IN (
		SELECT path FROM recent_documents ORDER BY opened_at DESC, path LIMIT ?)`
	res, err := r.db.ExecContext(ctx, query, keep)
	if err != nil {
		return 0, fmt.Errorf("pruning recent documents: %w", err)
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecent(s scanner) (*RecentDocument, error) {
	var doc RecentDocument
	var openedAt string
	if err := s.Scan(&doc.Path, &doc.Format, &openedAt, &doc.OpenCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning recent document: %w", err)
	}
	t, err := parseTimestamp(openedAt)
	if err != nil {
		return nil, err
	}
	doc.OpenedAt = t
	return &doc, nil
}
