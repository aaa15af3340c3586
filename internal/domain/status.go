package domain

// Status labels shown next to non-root nodes.
const (
	StatusPerformed    = "Performed"
	StatusNotPerformed = "Not Performed"
)

// IsPerformed computes completion bottom-up: a leaf reports its own flag and
// a container is performed when every child is. An empty container is
// performed. Stored flags on containers are never consulted.
func IsPerformed(n *Node) bool {
	if n == nil {
		return false
	}
	if !n.IsContainer() {
		return n.Performed()
	}
	for _, c := range n.children {
		if !IsPerformed(c) {
			return false
		}
	}
	return true
}

// StatusLabel returns the display status of n. The root carries no status.
func StatusLabel(d *Document, n *Node) string {
	if d.IsRoot(n) {
		return ""
	}
	if IsPerformed(n) {
		return StatusPerformed
	}
	return StatusNotPerformed
}

// Progress counts leaf nodes in a subtree.
type Progress struct {
	Performed int
	Total     int
}

// Pct returns the performed share as a percentage, or 0 for an empty subtree.
func (p Progress) Pct() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Performed) / float64(p.Total) * 100
}

// Summarize tallies the leaves under n, n included when it is a leaf.
func Summarize(n *Node) Progress {
	var p Progress
	Walk(n, func(node *Node, _ int) bool {
		if !node.IsContainer() {
			p.Total++
			if node.Performed() {
				p.Performed++
			}
		}
		return true
	})
	return p
}
