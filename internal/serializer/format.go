package serializer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/atest/internal/domain"
)

// Format names an on-disk document encoding.
type Format string

const (
	FormatXML  Format = "xml"
	FormatYAML Format = "yaml"
)

// FormatFor picks the encoding from a file name: .yaml and .yml select YAML,
// anything else XML.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatXML
	}
}

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatXML:
		return FormatXML, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported format %q (use xml or yaml)", s)
}

// Marshal encodes doc in format f.
func Marshal(f Format, doc *domain.Document) ([]byte, error) {
	if f == FormatYAML {
		return MarshalYAML(doc)
	}
	return MarshalXML(doc)
}

// Unmarshal decodes data in format f.
func Unmarshal(f Format, reg *domain.Registry, data []byte) (*domain.Document, error) {
	if f == FormatYAML {
		return UnmarshalYAML(reg, data)
	}
	return UnmarshalXML(reg, data)
}
