package service

import (
	"context"
	"errors"

	"github.com/alexanderramin/atest/internal/repository"
)

var (
	// ErrNoPath is returned by Save for a document that was never saved.
	ErrNoPath = errors.New("document has no file name; use save-as")
	// ErrNoRecent is returned by OpenLast when nothing was opened before.
	ErrNoRecent = errors.New("no recently opened document")
)

type DocumentService interface {
	New(ctx context.Context, rootName string) (*Session, error)
	Open(ctx context.Context, path string) (*Session, error)
	OpenLast(ctx context.Context) (*Session, error)
	Save(ctx context.Context, s *Session) error
	// SaveAs writes to path, appending ".xml" when missing, and rebinds the session.
	SaveAs(ctx context.Context, s *Session, path string) error
	// Export writes a copy in the format implied by path without touching the session.
	Export(ctx context.Context, s *Session, path string) error
	Recent(ctx context.Context) ([]*repository.RecentDocument, error)
	Forget(ctx context.Context, path string) error
}
