package repository

import (
	"context"
	"time"
)

// RecentDocument is one entry of the editor's recently opened list.
type RecentDocument struct {
	Path      string
	Format    string
	OpenedAt  time.Time
	OpenCount int
}

type RecentDocumentRepo interface {
	// Touch records that path was opened or saved at the given time.
	Touch(ctx context.Context, path, format string, at time.Time) error
	Latest(ctx context.Context) (*RecentDocument, error)
	List(ctx context.Context, limit int) ([]*RecentDocument, error)
	Forget(ctx context.Context, path string) error
	// Prune keeps the newest keep entries and returns how many were removed.
	Prune(ctx context.Context, keep int) (int64, error)
}
