package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrRootImmutable indicates a structural mutation targeted the document root.
	ErrRootImmutable = errors.New("root node cannot be moved or removed")

	// ErrInvalidTarget indicates the destination of a mutation cannot hold
	// the node: a leaf variant, a node outside the document, or a node that
	// is already attached elsewhere.
	ErrInvalidTarget = errors.New("invalid target node")

	// ErrCycleDetected indicates a reparent would make a node its own descendant.
	ErrCycleDetected = errors.New("node cannot become its own descendant")

	// ErrUnknownField indicates a field name that the node's variant does not declare.
	ErrUnknownField = errors.New("unknown field")

	// ErrUnknownVariant indicates a variant tag that is not in the registry.
	ErrUnknownVariant = errors.New("unknown variant")
)

// ParseError reports a raw value that does not match a field's declared type.
type ParseError struct {
	Field string
	Type  ValueType
	Raw   string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid %s value %q: %v", e.Type, e.Raw, e.Err)
	}
	return fmt.Sprintf("field %s: invalid %s value %q: %v", e.Field, e.Type, e.Raw, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
