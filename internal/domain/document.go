package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultRootName is the name given to the root of a new document.
const DefaultRootName = "Root"

// Document owns a test-plan tree. The root is fixed for the document's
// lifetime; all shape changes go through the mutator methods.
type Document struct {
	registry *Registry
	root     *Node
}

// NewDocument creates a document whose root is a fresh node of rootTag.
// An empty name falls back to DefaultRootName.
func NewDocument(reg *Registry, rootTag Variant, name string) (*Document, error) {
	root, err := reg.New(rootTag)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = DefaultRootName
	}
	root.SetName(name)
	return NewDocumentFromRoot(reg, root)
}

// NewDocumentFromRoot adopts a detached node, with whatever subtree it
// already has, as the root of a new document.
func NewDocumentFromRoot(reg *Registry, root *Node) (*Document, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: nil root", ErrInvalidTarget)
	}
	if root.parent != nil {
		return nil, fmt.Errorf("%w: root %q is attached to another node", ErrInvalidTarget, root.Name())
	}
	if root.rooted {
		return nil, fmt.Errorf("%w: %q is already a document root", ErrInvalidTarget, root.Name())
	}
	d := &Document{registry: reg, root: root}
	var foreign *Node
	Walk(root, func(n *Node, _ int) bool {
		if !d.owns(n) {
			foreign = n
		}
		return foreign == nil
	})
	if foreign != nil {
		return nil, fmt.Errorf("%w: %s is not registered", ErrUnknownVariant, foreign.Variant())
	}
	root.rooted = true
	return d, nil
}

func (d *Document) Root() *Node { return d.root }

func (d *Document) Registry() *Registry { return d.registry }

// IsRoot reports whether n is this document's root.
func (d *Document) IsRoot(n *Node) bool { return n != nil && n == d.root }

// Contains reports whether n is attached to this document's tree.
func (d *Document) Contains(n *Node) bool {
	return n != nil && topmost(n) == d.root
}

// owns reports whether n was built from this document's registry.
func (d *Document) owns(n *Node) bool {
	info, ok := d.registry.byTag[n.Variant()]
	return ok && info == n.info
}

// FindByID returns the attached node with the given in-memory ID.
func (d *Document) FindByID(id string) *Node {
	return Find(d.root, func(n *Node) bool { return n.id == id })
}

// NodeAt follows child indices from the root. An empty path is the root.
func (d *Document) NodeAt(path []int) (*Node, error) {
	n := d.root
	for depth, idx := range path {
		if idx < 0 || idx >= len(n.children) {
			return nil, fmt.Errorf("%w: no child %d at depth %d under %q", ErrInvalidTarget, idx, depth, n.Name())
		}
		n = n.children[idx]
	}
	return n, nil
}

// PathOf returns the child indices leading from the root to n.
func (d *Document) PathOf(n *Node) ([]int, error) {
	if !d.Contains(n) {
		return nil, fmt.Errorf("%w: %q is not in this document", ErrInvalidTarget, n.Name())
	}
	var path []int
	for cur := n; cur.parent != nil; cur = cur.parent {
		path = append(path, cur.parent.IndexOf(cur))
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}

// Len counts the nodes in the document, root included.
func (d *Document) Len() int {
	count := 0
	Walk(d.root, func(*Node, int) bool {
		count++
		return true
	})
	return count
}

// FormatPath renders child indices as a dotted address. The root is "/".
func FormatPath(path []int) string {
	if len(path) == 0 {
		return "/"
	}
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ".")
}

// ParsePath is the inverse of FormatPath. "/" and "" are the root.
func ParsePath(s string) ([]int, error) {
	if s == "" || s == "/" {
		return nil, nil
	}
	parts := strings.Split(s, ".")
	path := make([]int, len(parts))
	for i, p := range parts {
		idx, err := strconv.Atoi(p)
		if err != nil || idx < 0 {
			return nil, fmt.Errorf("%w: bad path segment %q in %q", ErrInvalidTarget, p, s)
		}
		path[i] = idx
	}
	return path, nil
}
