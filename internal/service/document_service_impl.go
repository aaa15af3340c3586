package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/alexanderramin/atest/internal/db"
	"github.com/alexanderramin/atest/internal/domain"
	"github.com/alexanderramin/atest/internal/logging"
	"github.com/alexanderramin/atest/internal/repository"
	"github.com/alexanderramin/atest/internal/serializer"
)

type documentService struct {
	registry    *domain.Registry
	recent      repository.RecentDocumentRepo
	uow         db.UnitOfWork
	recentLimit int
	observer    UseCaseObserver
	logger      *slog.Logger
	now         func() time.Time
}

// NewDocumentService wires document load/save to the recent-documents store.
// recentLimit bounds how many entries are kept; zero or less keeps all.
func NewDocumentService(
	registry *domain.Registry,
	recent repository.RecentDocumentRepo,
	uow db.UnitOfWork,
	recentLimit int,
	observers ...UseCaseObserver,
) DocumentService {
	return &documentService{
		registry:    registry,
		recent:      recent,
		uow:         uow,
		recentLimit: recentLimit,
		observer:    useCaseObserverOrNoop(observers),
		logger:      logging.New("service"),
		now:         time.Now,
	}
}

func (s *documentService) New(ctx context.Context, rootName string) (sess *Session, err error) {
	done := observe(ctx, s.observer, "new-document", map[string]any{"root": rootName})
	defer func() { done(err) }()

	doc, err := domain.NewDocument(s.registry, domain.VariantCategory, rootName)
	if err != nil {
		return nil, fmt.Errorf("creating document: %w", err)
	}
	return &Session{Doc: doc}, nil
}

func (s *documentService) Open(ctx context.Context, path string) (sess *Session, err error) {
	fields := map[string]any{"path": path}
	done := observe(ctx, s.observer, "open-document", fields)
	defer func() { done(err) }()

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	format := serializer.FormatFor(abs)
	doc, err := serializer.Unmarshal(format, s.registry, data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", abs, err)
	}
	fields["nodes"] = doc.Len()
	fields["format"] = string(format)

	s.remember(ctx, abs, format)
	return &Session{Path: abs, Doc: doc}, nil
}

func (s *documentService) OpenLast(ctx context.Context) (sess *Session, err error) {
	done := observe(ctx, s.observer, "open-last", nil)
	defer func() { done(err) }()

	latest, err := s.recent.Latest(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoRecent
		}
		return nil, err
	}
	return s.Open(ctx, latest.Path)
}

func (s *documentService) Save(ctx context.Context, sess *Session) (err error) {
	done := observe(ctx, s.observer, "save-document", map[string]any{"path": sess.Path})
	defer func() { done(err) }()

	if sess.Path == "" {
		return ErrNoPath
	}
	if err := s.write(sess.Doc, sess.Path); err != nil {
		return err
	}
	sess.Dirty = false
	s.remember(ctx, sess.Path, sess.Format())
	return nil
}

func (s *documentService) SaveAs(ctx context.Context, sess *Session, path string) (err error) {
	fields := map[string]any{"path": path}
	done := observe(ctx, s.observer, "save-as", fields)
	defer func() { done(err) }()

	abs, err := filepath.Abs(withDocumentExt(path))
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}
	fields["path"] = abs
	if err := s.write(sess.Doc, abs); err != nil {
		return err
	}
	sess.Path = abs
	sess.Dirty = false
	s.remember(ctx, abs, serializer.FormatXML)
	return nil
}

func (s *documentService) Export(ctx context.Context, sess *Session, path string) (err error) {
	fields := map[string]any{"path": path, "format": string(serializer.FormatFor(path))}
	done := observe(ctx, s.observer, "export-document", fields)
	defer func() { done(err) }()

	return s.write(sess.Doc, path)
}

func (s *documentService) Recent(ctx context.Context) ([]*repository.RecentDocument, error) {
	return s.recent.List(ctx, s.recentLimit)
}

func (s *documentService) Forget(ctx context.Context, path string) (err error) {
	done := observe(ctx, s.observer, "forget-recent", map[string]any{"path": path})
	defer func() { done(err) }()

	if abs, absErr := filepath.Abs(path); absErr == nil {
		path = abs
	}
	return s.recent.Forget(ctx, path)
}

func (s *documentService) write(doc *domain.Document, path string) error {
	data, err := serializer.Marshal(serializer.FormatFor(path), doc)
	if err != nil {
		return fmt.Errorf("serializing document: %w", err)
	}
	if err := writeFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// remember records path in the recent list and trims it to the limit in one
// transaction. Failures are logged, never returned.
func (s *documentService) remember(ctx context.Context, path string, format serializer.Format) {
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteRecentDocumentRepo(tx)
		if err := repo.Touch(ctx, path, string(format), s.now()); err != nil {
			return err
		}
		if s.recentLimit > 0 {
			if _, err := repo.Prune(ctx, s.recentLimit); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.WarnContext(ctx, "recording recent document failed", "path", path, "error", err)
	}
}
