package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/atest/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// TreeItem is one visible row of a document tree.
type TreeItem struct {
	Node  *domain.Node
	Title string
	Path  string
	Level int
	// Rails holds, for each ancestor level below the root, whether that
	// ancestor has later siblings and so needs a vertical connector.
	Rails     []bool
	IsLast    bool
	Status    string
	Container bool
	Collapsed bool
	Detail    string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
	treeBlank  = "   "

	foldOpen   = "▾ "
	foldClosed = "▸ "
)

// TreeItemsFor flattens doc into display rows in pre-order. With
// respectCollapse set, children of collapsed containers are omitted, the
// way an interactive tree shows them. The root is always open.
func TreeItemsFor(doc *domain.Document, respectCollapse bool) []TreeItem {
	var items []TreeItem
	var visit func(n *domain.Node, path []int, rails []bool, isLast bool)
	visit = func(n *domain.Node, path []int, rails []bool, isLast bool) {
		item := TreeItem{
			Node:      n,
			Title:     n.Name(),
			Path:      domain.FormatPath(path),
			Level:     len(path),
			Rails:     rails,
			IsLast:    isLast,
			Status:    domain.StatusLabel(doc, n),
			Container: n.IsContainer(),
		}
		if n.IsContainer() {
			p := domain.Summarize(n)
			if p.Total > 0 {
				item.Detail = fmt.Sprintf("%d/%d", p.Performed, p.Total)
			}
			item.Collapsed = len(path) > 0 && n.ChildCount() > 0 && !n.Expanded()
		}
		items = append(items, item)

		if respectCollapse && item.Collapsed {
			return
		}
		children := n.Children()
		var childRails []bool
		if len(path) > 0 {
			childRails = append(append([]bool(nil), rails...), !isLast)
		}
		for i, c := range children {
			childPath := append(append([]int(nil), path...), i)
			visit(c, childPath, childRails, i == len(children)-1)
		}
	}
	visit(doc.Root(), nil, nil, true)
	return items
}

// TreePrefix returns the connector drawing for item.
func TreePrefix(item TreeItem) string {
	if item.Level == 0 {
		return ""
	}
	var b strings.Builder
	for _, rail := range item.Rails {
		if rail {
			b.WriteString(treePipe)
		} else {
			b.WriteString(treeBlank)
		}
	}
	if item.IsLast {
		b.WriteString(treeCorner)
	} else {
		b.WriteString(treeBranch)
	}
	return b.String()
}

// RenderTreeLine renders item without its badge.
func RenderTreeLine(item TreeItem) string {
	title := item.Title
	if title == "" {
		title = Dim("(unnamed)")
	}
	if item.Container {
		fold := foldOpen
		if item.Collapsed {
			fold = foldClosed
		}
		title = StyleDim.Render(fold) + title
	}

	statusPrefix := ""
	switch item.Status {
	case domain.StatusPerformed:
		statusPrefix = StyleGreen.Render("✔ ")
		title = Dim(title)
	case domain.StatusNotPerformed:
		statusPrefix = StyleYellow.Render("○ ")
	default:
		title = Bold(title)
	}
	return TreePrefix(item) + statusPrefix + title
}

// RenderTree renders items as an indented tree using box-drawing
// connectors. Progress badges are right-aligned.
func RenderTree(items []TreeItem) string {
	lines := RenderTreeLines(items)
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// RenderTreeLines is RenderTree split into one string per item.
func RenderTreeLines(items []TreeItem) []string {
	if len(items) == 0 {
		return nil
	}

	contents := make([]string, len(items))
	maxContentWidth := 0
	for i, item := range items {
		contents[i] = RenderTreeLine(item)
		if w := lipgloss.Width(contents[i]); w > maxContentWidth {
			maxContentWidth = w
		}
	}

	lines := make([]string, len(items))
	for i, item := range items {
		if item.Detail == "" {
			lines[i] = contents[i]
			continue
		}
		pad := maxContentWidth - lipgloss.Width(contents[i])
		if pad < 0 {
			pad = 0
		}
		badge := StyleBlue.Render(fmt.Sprintf("[ %s ]", item.Detail))
		lines[i] = contents[i] + strings.Repeat(" ", pad) + "  " + badge
	}
	return lines
}
