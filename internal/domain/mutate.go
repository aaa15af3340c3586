package domain

import "fmt"

// AddChild appends n to parent's children. parent must be an attached
// container; n must be a detached node built from this document's registry.
func (d *Document) AddChild(parent, n *Node) error {
	if parent == nil || n == nil {
		return fmt.Errorf("%w: nil node", ErrInvalidTarget)
	}
	if d.IsRoot(n) {
		return ErrRootImmutable
	}
	if err := d.checkContainer(parent); err != nil {
		return err
	}
	if n.parent != nil || d.Contains(n) {
		return fmt.Errorf("%w: %q already has a parent; remove it first", ErrInvalidTarget, n.Name())
	}
	if n.rooted {
		return fmt.Errorf("%w: %q is the root of another document", ErrInvalidTarget, n.Name())
	}
	if !d.owns(n) {
		return fmt.Errorf("%w: %s is not registered", ErrInvalidTarget, n.Variant())
	}
	attach(parent, n)
	return nil
}

// Remove detaches n and its whole subtree from the document.
func (d *Document) Remove(n *Node) error {
	if err := d.checkMovable(n); err != nil {
		return err
	}
	detach(n)
	return nil
}

// MoveWithinParent shifts n among its siblings by delta positions, clamped
// to the first and last slot.
func (d *Document) MoveWithinParent(n *Node, delta int) error {
	if err := d.checkMovable(n); err != nil {
		return err
	}
	siblings := n.parent.children
	from := n.parent.IndexOf(n)
	to := clamp(from+delta, 0, len(siblings)-1)
	if to == from {
		return nil
	}
	copy(siblings[from:], siblings[from+1:])
	siblings = siblings[:len(siblings)-1]
	siblings = append(siblings, nil)
	copy(siblings[to+1:], siblings[to:])
	siblings[to] = n
	n.parent.children = siblings
	return nil
}

// Reparent moves n, with its subtree, to the end of newParent's children.
func (d *Document) Reparent(n, newParent *Node) error {
	if err := d.checkMovable(n); err != nil {
		return err
	}
	if newParent == nil {
		return fmt.Errorf("%w: nil parent", ErrInvalidTarget)
	}
	if err := d.checkContainer(newParent); err != nil {
		return err
	}
	if newParent == n || IsDescendantOf(newParent, n) {
		return fmt.Errorf("%w: %q is inside %q", ErrCycleDetected, newParent.Name(), n.Name())
	}
	detach(n)
	attach(newParent, n)
	return nil
}

func (d *Document) checkMovable(n *Node) error {
	if n == nil {
		return fmt.Errorf("%w: nil node", ErrInvalidTarget)
	}
	if d.IsRoot(n) {
		return ErrRootImmutable
	}
	if !d.Contains(n) {
		return fmt.Errorf("%w: %q is not in this document", ErrInvalidTarget, n.Name())
	}
	return nil
}

func (d *Document) checkContainer(parent *Node) error {
	if !parent.IsContainer() {
		return fmt.Errorf("%w: %s %q cannot contain children", ErrInvalidTarget, parent.Variant(), parent.Name())
	}
	if !d.Contains(parent) {
		return fmt.Errorf("%w: %q is not in this document", ErrInvalidTarget, parent.Name())
	}
	return nil
}

func attach(parent, n *Node) {
	parent.children = append(parent.children, n)
	n.parent = parent
}

func detach(n *Node) {
	p := n.parent
	idx := p.IndexOf(n)
	p.children = append(p.children[:idx:idx], p.children[idx+1:]...)
	n.parent = nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
