package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/atest/internal/domain"
)

// resolveNode finds the node addressed by input, which can be:
//   - "/" or "root" for the document root
//   - a dotted child-index path such as "0.2.1"
//   - a node name, matched exactly and then case-insensitively, first hit
//     in depth-first pre-order
func resolveNode(doc *domain.Document, input string) (*domain.Node, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("empty node address")
	}
	if input == "/" || strings.EqualFold(input, "root") {
		return doc.Root(), nil
	}
	if looksLikePath(input) {
		path, err := domain.ParsePath(input)
		if err != nil {
			return nil, err
		}
		return doc.NodeAt(path)
	}

	if n := domain.Find(doc.Root(), func(n *domain.Node) bool { return n.Name() == input }); n != nil {
		return n, nil
	}
	if n := domain.Find(doc.Root(), func(n *domain.Node) bool { return strings.EqualFold(n.Name(), input) }); n != nil {
		return n, nil
	}
	return nil, fmt.Errorf("%w: no node named %q", domain.ErrInvalidTarget, input)
}

func looksLikePath(s string) bool {
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			return false
		}
	}
	return true
}

// nodeAddress returns the dotted path of n for display.
func nodeAddress(doc *domain.Document, n *domain.Node) string {
	path, err := doc.PathOf(n)
	if err != nil {
		return "?"
	}
	return domain.FormatPath(path)
}
