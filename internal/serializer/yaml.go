package serializer

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/alexanderramin/atest/internal/domain"
)

const (
	yamlKeyType     = "type"
	yamlKeyVariant  = "variant"
	yamlKeyExpanded = "expanded"
	yamlKeyFields   = "fields"
	yamlKeyChildren = "children"
)

// MarshalYAML writes doc as a YAML mapping tree. Fields keep schema order.
func MarshalYAML(doc *domain.Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(yamlNode(toElement(doc.Root()))); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

func yamlNode(el *element) *yaml.Node {
	m := &yaml.Node{Kind: yaml.MappingNode}
	m.Content = append(m.Content,
		strScalar(yamlKeyType), strScalar(el.marker),
		strScalar(yamlKeyVariant), strScalar(el.tag),
	)
	if el.expanded != nil {
		m.Content = append(m.Content, strScalar(yamlKeyExpanded), &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: *el.expanded})
	}

	fields := &yaml.Node{Kind: yaml.MappingNode}
	for _, a := range el.attrs {
		fields.Content = append(fields.Content, strScalar(a.name), strScalar(a.value))
	}
	m.Content = append(m.Content, strScalar(yamlKeyFields), fields)

	if len(el.children) > 0 {
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, c := range el.children {
			seq.Content = append(seq.Content, yamlNode(c))
		}
		m.Content = append(m.Content, strScalar(yamlKeyChildren), seq)
	}
	return m
}

// strScalar writes multiline values as "|-" blocks when the block reads back
// byte for byte, and double-quoted otherwise.
func strScalar(s string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
	if strings.Contains(s, "\n") {
		if literalSafe(s) {
			n.Style = yaml.LiteralStyle
		} else {
			n.Style = yaml.DoubleQuotedStyle
		}
	}
	return n
}

// literalSafe reports whether s survives a stripped literal block. A block
// cannot start with a line break or indentation, and tabs are not allowed
// where the parser expects indentation.
func literalSafe(s string) bool {
	if strings.ContainsRune(s, '\r') || strings.HasSuffix(s, "\n") {
		return false
	}
	if strings.TrimRight(s, " \t") != s {
		return false
	}
	for i, line := range strings.Split(s, "\n") {
		if i == 0 && line == "" {
			return false
		}
		if line != "" && (line[0] == '\t' || (i == 0 && line[0] == ' ')) {
			return false
		}
	}
	return true
}

// UnmarshalYAML rebuilds a document written by MarshalYAML. Only the first
// YAML document in data is read.
func UnmarshalYAML(reg *domain.Registry, data []byte) (*domain.Document, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, truncated(err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, truncated(errors.New("empty document"))
	}
	root, err := elementFromYAML(doc.Content[0], nil)
	if err != nil {
		return nil, err
	}
	return build(reg, root)
}

func elementFromYAML(n *yaml.Node, path []int) (*element, error) {
	if n.Kind != yaml.MappingNode {
		return nil, yamlShapeError(n, path, "expected a mapping")
	}
	el := &element{}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		switch key.Value {
		case yamlKeyType:
			if val.Kind != yaml.ScalarNode {
				return nil, yamlShapeError(val, path, "type must be a scalar")
			}
			el.marker = scalarValue(val)
		case yamlKeyVariant:
			el.tag = scalarValue(val)
		case yamlKeyExpanded:
			if val.Kind != yaml.ScalarNode {
				return nil, yamlShapeError(val, path, "expanded must be a scalar")
			}
			v := scalarValue(val)
			el.expanded = &v
		case yamlKeyFields:
			if val.Kind != yaml.MappingNode {
				return nil, yamlShapeError(val, path, "fields must be a mapping")
			}
			for j := 0; j+1 < len(val.Content); j += 2 {
				fk, fv := val.Content[j], val.Content[j+1]
				if fv.Kind != yaml.ScalarNode {
					return nil, yamlShapeError(fv, path, "field "+fk.Value+" must be a scalar")
				}
				el.attrs = append(el.attrs, attr{name: fk.Value, value: scalarValue(fv)})
			}
		case yamlKeyChildren:
			if val.Kind != yaml.SequenceNode {
				return nil, yamlShapeError(val, path, "children must be a sequence")
			}
			for j, c := range val.Content {
				child, err := elementFromYAML(c, append(path[:len(path):len(path)], j))
				if err != nil {
					return nil, err
				}
				el.children = append(el.children, child)
			}
		}
	}
	return el, nil
}

// scalarValue maps an explicit null to the empty string.
func scalarValue(n *yaml.Node) string {
	if n.ShortTag() == "!!null" {
		return ""
	}
	return n.Value
}

func yamlShapeError(n *yaml.Node, path []int, msg string) *FormatError {
	return &FormatError{
		Kind: KindTruncated,
		Path: domain.FormatPath(path),
		Err:  fmt.Errorf("line %d: %s", n.Line, msg),
	}
}
