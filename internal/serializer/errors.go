package serializer

import (
	"errors"
	"fmt"
)

// Kind classifies why a document could not be reconstructed.
type Kind int

const (
	KindUnknownType Kind = iota + 1
	KindMalformedField
	KindTruncated
	KindInvalidNesting
)

var (
	ErrUnknownType    = errors.New("unknown type")
	ErrMalformedField = errors.New("malformed field")
	ErrTruncated      = errors.New("truncated document")
	ErrInvalidNesting = errors.New("invalid nesting")

	// ErrUnencodable is returned by MarshalXML for a field value holding
	// invalid UTF-8 or a character XML cannot represent.
	ErrUnencodable = errors.New("value cannot be written as XML")
)

func (k Kind) sentinel() error {
	switch k {
	case KindUnknownType:
		return ErrUnknownType
	case KindMalformedField:
		return ErrMalformedField
	case KindTruncated:
		return ErrTruncated
	case KindInvalidNesting:
		return ErrInvalidNesting
	}
	return nil
}

func (k Kind) String() string {
	if s := k.sentinel(); s != nil {
		return s.Error()
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// FormatError reports a document that cannot be turned back into a tree.
// Path is the dotted child-index path of the offending element ("/" for
// the root) and is empty when the input could not be read as a tree at all.
type FormatError struct {
	Kind   Kind
	Path   string
	Marker string
	Field  string
	Err    error
}

func (e *FormatError) Error() string {
	msg := e.Kind.String()
	if e.Path != "" {
		msg += " at " + e.Path
	}
	switch {
	case e.Field != "":
		msg += fmt.Sprintf(" (field %s)", e.Field)
	case e.Marker != "":
		msg += fmt.Sprintf(" (type %q)", e.Marker)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error { return e.Err }

// Is lets errors.Is match a FormatError against its kind sentinel.
func (e *FormatError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

func truncated(err error) *FormatError {
	return &FormatError{Kind: KindTruncated, Err: err}
}
