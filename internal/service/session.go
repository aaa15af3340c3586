package service

import (
	"path/filepath"

	"github.com/alexanderramin/atest/internal/domain"
	"github.com/alexanderramin/atest/internal/serializer"
)

// Session is one open document in the editor. Whether it has unsaved
// changes is tracked here rather than in the tree.
type Session struct {
	// Path is empty until the document is first saved.
	Path  string
	Doc   *domain.Document
	Dirty bool
}

// Apply runs a mutation against the document and marks the session dirty
// when it succeeds. A failed mutation leaves the tree and the flag untouched.
func (s *Session) Apply(fn func(doc *domain.Document) error) error {
	if err := fn(s.Doc); err != nil {
		return err
	}
	s.Dirty = true
	return nil
}

// Title is the file name, or "untitled", with a trailing "*" when dirty.
func (s *Session) Title() string {
	title := "untitled"
	if s.Path != "" {
		title = filepath.Base(s.Path)
	}
	if s.Dirty {
		title += "*"
	}
	return title
}

// Format is the encoding used when saving to Path.
func (s *Session) Format() serializer.Format {
	return serializer.FormatFor(s.Path)
}
