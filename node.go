package stratum

import (
	"errors"
	"fmt"
)

var (
	// ErrCycle is returned when a reparent would make a transform its own ancestor.
	ErrCycle = errors.New("stratum: transform would become its own ancestor")
	// ErrRootTransform is returned when an operation tries to reparent Root.
	ErrRootTransform = errors.New("stratum: the root transform cannot be reparented")
	// ErrDestroyed is returned when a destroyed transform is attached to the graph.
	ErrDestroyed = errors.New("stratum: transform is destroyed")
)

// --- Tree manipulation ---

// Parent returns t's parent. Root is its own parent.
func (t *Transform) Parent() *Transform {
	return t.parent
}

// Children returns a copy of t's children.
func (t *Transform) Children() []*Transform {
	out := make([]*Transform, len(t.children))
	copy(out, t.children)
	return out
}

// NumChildren returns the number of children.
func (t *Transform) NumChildren() int {
	return len(t.children)
}

// HasChild reports whether c is a direct child of t.
func (t *Transform) HasChild(c *Transform) bool {
	for _, child := range t.children {
		if child == c {
			return true
		}
	}
	return false
}

// SetParent moves t under p, or under Root if p is nil. The local fields are
// kept, so the world pose follows the new parent. Observers receive a
// ChangeParent event before the move.
func (t *Transform) SetParent(p *Transform) error {
	if t.isRoot {
		return ErrRootTransform
	}
	if p == nil {
		p = rootTransform
	}
	if err := t.checkReparent(p); err != nil {
		return err
	}
	t.emit(ChangeParent, t.parent, p)
	// Observers may have rearranged the graph while the event was delivered.
	if err := t.checkReparent(p); err != nil {
		return err
	}
	t.parent.removeChildByPtr(t)
	t.parent = p
	p.children = append(p.children, t)
	markSubtreeDirty(t)
	if globalDebug {
		debugCheckTreeDepth(t)
		debugCheckChildCount(p)
	}
	return nil
}

// checkReparent reports why t cannot move under p, or nil.
func (t *Transform) checkReparent(p *Transform) error {
	if t.destroyed {
		return fmt.Errorf("set parent of transform %d: %w", t.ID, ErrDestroyed)
	}
	if p.destroyed {
		return fmt.Errorf("set parent of transform %d to %d: %w", t.ID, p.ID, ErrDestroyed)
	}
	if isAncestor(t, p) {
		return fmt.Errorf("set parent of transform %d to %d: %w", t.ID, p.ID, ErrCycle)
	}
	return nil
}

// SetParentKeepWorld reparents t like SetParent, then adjusts the local
// position, rotation, scale and height so the world values are unchanged.
func (t *Transform) SetParentKeepWorld(p *Transform) error {
	pos, rot, scale, height := t.Position(), t.Rotation(), t.Scale(), t.Height()
	if err := t.SetParent(p); err != nil {
		return err
	}
	t.SetLocalPosition(pos)
	t.SetLocalRotation(rot)
	t.SetLocalScale(scale)
	t.SetHeight(height - t.parent.Height())
	return nil
}

// AddChild makes c a child of t. Adding an existing child is a no-op.
// Panics if c is nil.
func (t *Transform) AddChild(c *Transform) error {
	if c == nil {
		panic("stratum: cannot add nil child")
	}
	if c.parent == t && t.HasChild(c) {
		return nil
	}
	return c.SetParent(t)
}

// RemoveChild detaches c from t and parents it to Root.
// No-op if c is not a child of t.
func (t *Transform) RemoveChild(c *Transform) {
	if c == nil || c.parent != t || t.isRoot {
		return
	}
	// Cannot fail: c is attached, not Root, and Root has no ancestors.
	_ = c.SetParent(nil)
}

// --- Disposal ---

// Destroy detaches t from its parent and moves its children to Root.
// Observers are dropped. Destroy is idempotent and a no-op on Root.
//
// A destroyed transform is outside the graph: Parent still reports Root so
// world accessors stay safe, but Root no longer lists it as a child and it
// can never be attached again.
func (t *Transform) Destroy() {
	if t.isRoot || t.destroyed {
		return
	}
	for len(t.children) > 0 {
		_ = t.children[0].SetParent(nil)
	}
	t.parent.removeChildByPtr(t)
	t.parent = rootTransform
	t.destroyed = true
	t.changes.Clear()
	t.dirty = true
}

// --- Helpers ---

// isAncestor reports whether candidate is node or one of node's ancestors.
func isAncestor(candidate, node *Transform) bool {
	for p := node; ; p = p.parent {
		if p == candidate {
			return true
		}
		if p.isRoot {
			return false
		}
	}
}

// removeChildByPtr removes child from t.children without clearing child.parent.
func (t *Transform) removeChildByPtr(child *Transform) {
	for i, c := range t.children {
		if c == child {
			copy(t.children[i:], t.children[i+1:])
			t.children[len(t.children)-1] = nil
			t.children = t.children[:len(t.children)-1]
			return
		}
	}
}

// markSubtreeDirty invalidates the cached matrix of node and its descendants.
func markSubtreeDirty(node *Transform) {
	node.dirty = true
	for _, child := range node.children {
		markSubtreeDirty(child)
	}
}
