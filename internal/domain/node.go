package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Node is one element of a test-plan tree. Field values are stored by schema
// name and typed per the variant's FieldDescriptor. The parent pointer is a
// navigation back-reference; ownership flows only through children, and only
// the Document mutator rewrites either of them.
type Node struct {
	id       string
	info     *variantInfo
	values   map[string]any
	expanded bool
	rooted   bool // root of some Document
	parent   *Node
	children []*Node
}

func newNode(info *variantInfo) *Node {
	n := &Node{
		id:     uuid.New().String(),
		info:   info,
		values: make(map[string]any, len(info.sorted)),
	}
	for _, fd := range info.sorted {
		n.values[fd.Name] = zeroValue(fd.Type)
	}
	n.values[FieldName] = info.spec.DefaultName
	return n
}

// ID is an in-memory handle for the node. It is not persisted and changes
// every time a document is loaded.
func (n *Node) ID() string { return n.id }

func (n *Node) Variant() Variant { return n.info.spec.Tag }

// Marker is the fully-qualified type identifier written to documents.
func (n *Node) Marker() string { return n.info.spec.Marker }

// IsContainer reports whether the node's variant may hold children.
func (n *Node) IsContainer() bool { return n.info.spec.Container }

func (n *Node) Name() string {
	s, _ := n.values[FieldName].(string)
	return s
}

// Performed returns the node's stored performed flag. Variants without a
// performed field always report false; use IsPerformed for display status.
func (n *Node) Performed() bool {
	b, _ := n.values[FieldPerformed].(bool)
	return b
}

func (n *Node) Expanded() bool { return n.expanded }

// SetExpanded records the UI expansion hint. It does not alter tree shape.
func (n *Node) SetExpanded(expanded bool) { n.expanded = expanded }

// Parent returns the node's parent, or nil for a root or detached node.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the node's children in order. The slice is a copy.
func (n *Node) Children() []*Node {
	return append([]*Node(nil), n.children...)
}

func (n *Node) ChildCount() int { return len(n.children) }

// IndexOf returns the position of child among n's children, or -1.
func (n *Node) IndexOf(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

// Fields returns the variant's schema in display order.
func (n *Node) Fields() []FieldDescriptor {
	return append([]FieldDescriptor(nil), n.info.sorted...)
}

// Field returns the descriptor for name.
func (n *Node) Field(name string) (FieldDescriptor, error) {
	fd, ok := n.info.field(name)
	if !ok {
		return FieldDescriptor{}, fmt.Errorf("%w: %s has no field %q", ErrUnknownField, n.Variant(), name)
	}
	return fd, nil
}

// Get returns the typed value of a field.
func (n *Node) Get(name string) (any, error) {
	if _, err := n.Field(name); err != nil {
		return nil, err
	}
	return n.values[name], nil
}

// GetString returns a field value in its textual form.
func (n *Node) GetString(name string) (string, error) {
	fd, err := n.Field(name)
	if err != nil {
		return "", err
	}
	return FormatValue(fd.Type, n.values[name]), nil
}

// Set parses raw according to the field's type and stores it. On a parse
// failure the field keeps its previous value and a *ParseError is returned.
func (n *Node) Set(name, raw string) error {
	fd, err := n.Field(name)
	if err != nil {
		return err
	}
	v, err := ParseValue(fd.Type, raw)
	if err != nil {
		if pe, ok := err.(*ParseError); ok {
			pe.Field = name
		}
		return err
	}
	n.values[name] = v
	return nil
}

// SetValue stores an already typed value. v must be the Go type ParseValue
// produces for the field.
func (n *Node) SetValue(name string, v any) error {
	fd, err := n.Field(name)
	if err != nil {
		return err
	}
	if !checkValue(fd.Type, v) {
		return &ParseError{Field: name, Type: fd.Type, Raw: fmt.Sprint(v), Err: fmt.Errorf("unexpected %T", v)}
	}
	n.values[name] = normalizeValue(fd.Type, v)
	return nil
}

func (n *Node) SetName(name string) {
	n.values[FieldName] = name
}

// Find searches n's subtree depth-first, pre-order, and returns the first
// node for which pred is true.
func Find(n *Node, pred func(*Node) bool) *Node {
	if n == nil {
		return nil
	}
	if pred(n) {
		return n
	}
	for _, c := range n.children {
		if found := Find(c, pred); found != nil {
			return found
		}
	}
	return nil
}

// Walk visits n's subtree in pre-order with each node's depth below n.
// Returning false from fn skips that node's children.
func Walk(n *Node, fn func(node *Node, depth int) bool) {
	walk(n, 0, fn)
}

func walk(n *Node, depth int, fn func(*Node, int) bool) {
	if n == nil || !fn(n, depth) {
		return
	}
	for _, c := range n.children {
		walk(c, depth+1, fn)
	}
}

// IsDescendantOf reports whether candidate sits strictly below ancestor,
// following parent back-references.
func IsDescendantOf(candidate, ancestor *Node) bool {
	if candidate == nil || ancestor == nil {
		return false
	}
	for p := candidate.parent; p != nil; p = p.parent {
		if p == ancestor {
			return true
		}
	}
	return false
}

// topmost returns the root of the tree n is attached to.
func topmost(n *Node) *Node {
	for n.parent != nil {
		n = n.parent
	}
	return n
}

// Equal reports whether two subtrees match in variant, field values, expanded
// flags and child order. Node identity is not compared.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Variant() != b.Variant() || a.expanded != b.expanded || len(a.children) != len(b.children) {
		return false
	}
	for _, fd := range a.info.sorted {
		if FormatValue(fd.Type, a.values[fd.Name]) != FormatValue(fd.Type, b.values[fd.Name]) {
			return false
		}
	}
	for i := range a.children {
		if !Equal(a.children[i], b.children[i]) {
			return false
		}
	}
	return true
}
