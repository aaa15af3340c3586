package serializer

import (
	"errors"
	"strconv"

	"github.com/alexanderramin/atest/internal/domain"
)

// attr is one stringified field value, kept in schema order.
type attr struct {
	name  string
	value string
}

// element is the format-neutral shape of one serialized node. Both the XML
// and the YAML codecs decode into elements first; nodes are only built once
// the whole element tree has been read.
type element struct {
	tag      string
	marker   string
	expanded *string
	attrs    []attr
	children []*element
}

func (e *element) lookup(name string) (string, bool) {
	for _, a := range e.attrs {
		if a.name == name {
			return a.value, true
		}
	}
	return "", false
}

// toElement flattens n and its subtree.
func toElement(n *domain.Node) *element {
	expanded := strconv.FormatBool(n.Expanded())
	el := &element{
		tag:      string(n.Variant()),
		marker:   n.Marker(),
		expanded: &expanded,
	}
	for _, fd := range n.Fields() {
		raw, _ := n.GetString(fd.Name)
		el.attrs = append(el.attrs, attr{name: fd.Name, value: raw})
	}
	for _, c := range n.Children() {
		el.children = append(el.children, toElement(c))
	}
	return el
}

// build reconstructs a document from a decoded element tree. The document
// is returned only if every element resolves.
func build(reg *domain.Registry, root *element) (*domain.Document, error) {
	if root == nil {
		return nil, truncated(errors.New("no root element"))
	}
	rootNode, err := buildNode(reg, root, nil)
	if err != nil {
		return nil, err
	}
	doc, err := domain.NewDocumentFromRoot(reg, rootNode)
	if err != nil {
		return nil, &FormatError{Kind: KindUnknownType, Path: "/", Marker: root.marker, Err: err}
	}
	if err := buildChildren(doc, rootNode, root, nil); err != nil {
		return nil, err
	}
	return doc, nil
}

func buildChildren(doc *domain.Document, parent *domain.Node, el *element, path []int) error {
	for i, ce := range el.children {
		childPath := append(path[:len(path):len(path)], i)
		child, err := buildNode(doc.Registry(), ce, childPath)
		if err != nil {
			return err
		}
		if err := doc.AddChild(parent, child); err != nil {
			return &FormatError{Kind: KindInvalidNesting, Path: domain.FormatPath(childPath), Marker: ce.marker, Err: err}
		}
		if err := buildChildren(doc, child, ce, childPath); err != nil {
			return err
		}
	}
	return nil
}

// buildNode creates a detached node for el with its fields and expanded flag.
func buildNode(reg *domain.Registry, el *element, path []int) (*domain.Node, error) {
	where := domain.FormatPath(path)
	if el.marker == "" {
		return nil, &FormatError{Kind: KindUnknownType, Path: where, Err: errors.New("missing type marker")}
	}
	tag, ok := reg.ByMarker(el.marker)
	if !ok {
		return nil, &FormatError{Kind: KindUnknownType, Path: where, Marker: el.marker, Err: domain.ErrUnknownVariant}
	}
	n, err := reg.New(tag)
	if err != nil {
		return nil, &FormatError{Kind: KindUnknownType, Path: where, Marker: el.marker, Err: err}
	}
	if len(el.children) > 0 && !n.IsContainer() {
		return nil, &FormatError{
			Kind:   KindInvalidNesting,
			Path:   where,
			Marker: el.marker,
			Err:    errors.New(string(tag) + " cannot contain children"),
		}
	}

	if el.expanded != nil {
		v, err := domain.ParseValue(domain.TypeBool, *el.expanded)
		if err != nil {
			var pe *domain.ParseError
			if errors.As(err, &pe) {
				pe.Field = domain.AttrExpanded
			}
			return nil, &FormatError{Kind: KindMalformedField, Path: where, Field: domain.AttrExpanded, Err: err}
		}
		n.SetExpanded(v.(bool))
	}
	for _, fd := range n.Fields() {
		raw, ok := el.lookup(fd.Name)
		if !ok {
			continue
		}
		if err := n.Set(fd.Name, raw); err != nil {
			return nil, &FormatError{Kind: KindMalformedField, Path: where, Field: fd.Name, Err: err}
		}
	}
	return n, nil
}
