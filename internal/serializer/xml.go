package serializer

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/alexanderramin/atest/internal/domain"
)

// MarshalXML writes doc as an indented XML document. Each node is one
// element named after its variant, with the type marker, the expanded flag
// and every schema field as attributes.
func MarshalXML(doc *domain.Document) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := encodeXML(enc, toElement(doc.Root()), nil); err != nil {
		return nil, fmt.Errorf("encode xml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode xml: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func encodeXML(enc *xml.Encoder, el *element, path []int) error {
	start := xml.StartElement{Name: xml.Name{Local: el.tag}}
	start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: domain.AttrType}, Value: el.marker})
	if el.expanded != nil {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: domain.AttrExpanded}, Value: *el.expanded})
	}
	for _, a := range el.attrs {
		if !xmlSafe(a.value) {
			return fmt.Errorf("%w at %s (field %s)", ErrUnencodable, domain.FormatPath(path), a.name)
		}
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: a.name}, Value: a.value})
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	for i, c := range el.children {
		if err := encodeXML(enc, c, append(path[:len(path):len(path)], i)); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

// xmlSafe reports whether s is valid UTF-8 made only of XML 1.0 characters.
// encoding/xml would otherwise write U+FFFD in place of anything else.
func xmlSafe(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		switch {
		case r == 0x09 || r == 0x0A || r == 0x0D:
		case r >= 0x20 && r <= 0xD7FF:
		case r >= 0xE000 && r <= 0xFFFD:
		case r >= 0x10000 && r <= 0x10FFFF:
		default:
			return false
		}
	}
	return true
}

// UnmarshalXML rebuilds a document from data, resolving variants through
// reg. Nothing is returned unless the whole document is valid.
func UnmarshalXML(reg *domain.Registry, data []byte) (*domain.Document, error) {
	root, err := decodeXML(data)
	if err != nil {
		return nil, err
	}
	return build(reg, root)
}

func decodeXML(data []byte) (*element, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, truncated(errors.New("empty document"))
	}
	dec := xml.NewDecoder(bytes.NewReader(data))

	var root *element
	var stack []*element
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			line, col := dec.InputPos()
			return nil, truncated(fmt.Errorf("line %d col %d: %w", line, col, err))
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if root != nil && len(stack) == 0 {
				line, _ := dec.InputPos()
				return nil, truncated(fmt.Errorf("line %d: unexpected element <%s> after the root", line, t.Name.Local))
			}
			el := elementFromXML(t)
			if len(stack) == 0 {
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		}
	}
	if root == nil {
		return nil, truncated(errors.New("no root element"))
	}
	if len(stack) > 0 {
		return nil, truncated(fmt.Errorf("element <%s> is not closed", stack[len(stack)-1].tag))
	}
	return root, nil
}

func elementFromXML(start xml.StartElement) *element {
	el := &element{tag: start.Name.Local}
	for _, a := range start.Attr {
		if a.Name.Space != "" {
			continue
		}
		switch a.Name.Local {
		case domain.AttrType:
			el.marker = a.Value
		case domain.AttrExpanded:
			v := a.Value
			el.expanded = &v
		default:
			el.attrs = append(el.attrs, attr{name: a.Name.Local, value: a.Value})
		}
	}
	return el
}
