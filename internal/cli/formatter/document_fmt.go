package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/atest/internal/domain"
	"github.com/alexanderramin/atest/internal/repository"
)

const progressWidth = 20

// FormatDocument renders a document header, overall progress and the full
// tree. title is usually the session title.
func FormatDocument(title string, doc *domain.Document) string {
	var b strings.Builder
	b.WriteString(Header(doc.Root().Name()))
	b.WriteString("\n")
	if title != "" {
		b.WriteString(Dim(title) + "\n")
	}
	b.WriteString(RenderProgress(domain.Summarize(doc.Root()), progressWidth))
	b.WriteString("\n\n")
	b.WriteString(RenderTree(TreeItemsFor(doc, false)))
	return b.String()
}

// FormatNodeInspect renders a node's identity, status and every field
// value in schema order.
func FormatNodeInspect(doc *domain.Document, n *domain.Node) string {
	path, _ := doc.PathOf(n)

	meta := [][2]string{
		{"Variant", VariantBadge(n.Variant())},
		{"Path", domain.FormatPath(path)},
		{"ID", TruncID(n.ID())},
	}
	if status := domain.StatusLabel(doc, n); status != "" {
		meta = append(meta, [2]string{"Status", StatusPill(status)})
	}
	if n.IsContainer() {
		meta = append(meta,
			[2]string{"Children", strconv.Itoa(n.ChildCount())},
			[2]string{"Expanded", strconv.FormatBool(n.Expanded())},
			[2]string{"Progress", RenderProgress(domain.Summarize(n), progressWidth)},
		)
	}

	var fields [][2]string
	for _, fd := range n.Fields() {
		v, _ := n.GetString(fd.Name)
		if v == "" {
			v = Dim("-")
		}
		fields = append(fields, [2]string{FieldLabel(fd.Name), v})
	}

	return RenderBox(n.Name(), RenderKeyValues(meta)+"\n"+RenderKeyValues(fields))
}

// FormatSchema renders the field table of one variant.
func FormatSchema(reg *domain.Registry, tag domain.Variant) (string, error) {
	spec, ok := reg.Lookup(tag)
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownVariant, tag)
	}
	rows := make([][]string, 0, len(spec.Fields))
	for _, fd := range spec.Fields {
		rows = append(rows, []string{
			fd.Name,
			FieldLabel(fd.Name),
			string(fd.Type),
			string(fd.Hint),
			strconv.Itoa(fd.Priority),
		})
	}
	kind := "leaf"
	if spec.Container {
		kind = "container"
	}
	var b strings.Builder
	b.WriteString(Bold(string(spec.Tag)) + "  " + Dim(spec.Marker+" · "+kind) + "\n\n")
	b.WriteString(RenderTable([]string{"FIELD", "LABEL", "TYPE", "EDITOR", "PRIORITY"}, rows))
	return b.String(), nil
}

// FormatRecent renders the recent-documents list, newest first.
func FormatRecent(docs []*repository.RecentDocument, now time.Time) string {
	if len(docs) == 0 {
		return Dim("No recent documents.") + "\n"
	}
	rows := make([][]string, 0, len(docs))
	for i, d := range docs {
		rows = append(rows, []string{
			Dim(strconv.Itoa(i + 1)),
			d.Path,
			d.Format,
			HumanTimestampFrom(d.OpenedAt, now),
			strconv.Itoa(d.OpenCount),
		})
	}
	return RenderTable([]string{"#", "PATH", "FORMAT", "OPENED", "COUNT"}, rows)
}

// FormatMatches lists nodes with their address, variant and status.
func FormatMatches(doc *domain.Document, nodes []*domain.Node) string {
	if len(nodes) == 0 {
		return Dim("No matching nodes.") + "\n"
	}
	rows := make([][]string, 0, len(nodes))
	for _, n := range nodes {
		path, _ := doc.PathOf(n)
		status := "-"
		if label := domain.StatusLabel(doc, n); label != "" {
			status = StatusPill(label)
		}
		name := n.Name()
		if name == "" {
			name = Dim("(unnamed)")
		}
		rows = append(rows, []string{domain.FormatPath(path), name, VariantBadge(n.Variant()), status})
	}
	return RenderTable([]string{"PATH", "NAME", "VARIANT", "STATUS"}, rows) +
		Dim(fmt.Sprintf("%d of %d nodes", len(nodes), doc.Len())) + "\n"
}
