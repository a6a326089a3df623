package stratum

import (
	"errors"
	"math/rand/v2"
	"testing"
)

func TestReparentMovesChild(t *testing.T) {
	a := NewTransform(nil, nil)
	defer a.Destroy()
	b := NewTransform(nil, nil)
	defer b.Destroy()
	c := NewTransform(nil, a)

	if err := c.SetParent(b); err != nil {
		t.Fatal(err)
	}
	if a.HasChild(c) {
		t.Error("old parent still lists the child")
	}
	if !b.HasChild(c) || c.Parent() != b {
		t.Error("new parent does not own the child")
	}
}

func TestSetParentKeepsLocalFields(t *testing.T) {
	a := NewTransform(nil, nil)
	defer a.Destroy()
	c := NewTransform(nil, nil)
	defer c.Destroy()
	a.SetPosition(Vec2{10, 10})
	c.SetPosition(Vec2{1, 2})

	if err := c.SetParent(a); err != nil {
		t.Fatal(err)
	}
	assertVec2(t, "LocalPosition", c.LocalPosition(), Vec2{1, 2})
	assertVec2(t, "Position", c.Position(), Vec2{11, 12})
	assertVec2(t, "combined origin", c.LocalToWorld(Vec2{}), Vec2{11, 12})
}

func TestSetParentKeepWorld(t *testing.T) {
	a := NewTransform(nil, nil)
	defer a.Destroy()
	c := NewTransform(nil, nil)
	defer c.Destroy()
	a.SetPosition(Vec2{10, 10})
	a.SetRotation(0.5)
	a.SetScale(Vec3{2, 2, 2})
	a.SetHeight(-3)
	c.SetPosition(Vec2{1, 2})
	c.SetRotation(0.1)
	c.SetHeight(4)

	if err := c.SetParentKeepWorld(a); err != nil {
		t.Fatal(err)
	}
	assertVec2(t, "Position", c.Position(), Vec2{1, 2})
	assertNear(t, "Rotation", c.Rotation(), 0.1)
	assertVec3(t, "Scale", c.Scale(), One)
	assertNear(t, "Height", c.Height(), 4)
	assertVec3(t, "LocalScale", c.LocalScale(), Vec3{0.5, 0.5, 0.5})
}

func TestSetParentNilMeansRoot(t *testing.T) {
	a := NewTransform(nil, nil)
	defer a.Destroy()
	c := NewTransform(nil, a)
	defer c.Destroy()

	if err := c.SetParent(nil); err != nil {
		t.Fatal(err)
	}
	if c.Parent() != Root() || !Root().HasChild(c) {
		t.Error("child should now be under Root")
	}
}

func TestSetParentRejectsCycles(t *testing.T) {
	a := NewTransform(nil, nil)
	defer a.Destroy()
	b := NewTransform(nil, a)
	c := NewTransform(nil, b)

	if err := a.SetParent(c); !errors.Is(err, ErrCycle) {
		t.Errorf("a.SetParent(c) err = %v, want ErrCycle", err)
	}
	if err := a.SetParent(a); !errors.Is(err, ErrCycle) {
		t.Errorf("a.SetParent(a) err = %v, want ErrCycle", err)
	}
	if a.Parent() != Root() || b.Parent() != a || c.Parent() != b {
		t.Error("a rejected reparent must leave the graph unchanged")
	}
}

func TestSetParentRejectsCycleCreatedByObserver(t *testing.T) {
	a := NewTransform(nil, nil)
	defer a.Destroy()
	b := NewTransform(nil, nil)
	defer b.Destroy()

	sub := a.OnChange(func(ev TransformChangeEvent) {
		if ev.Kind == ChangeParent {
			if err := b.SetParent(a); err != nil {
				t.Errorf("observer reparent: %v", err)
			}
		}
	})
	defer sub.Remove()

	if err := a.SetParent(b); !errors.Is(err, ErrCycle) {
		t.Fatalf("a.SetParent(b) err = %v, want ErrCycle", err)
	}
	if a.Parent() != Root() || !Root().HasChild(a) {
		t.Error("a should stay under Root")
	}
	if b.Parent() != a || !a.HasChild(b) || a.HasChild(a) {
		t.Error("the observer's reparent of b should stand")
	}
	checkGraph(t, Root(), 0)
}

func TestSetParentRejectsTargetDestroyedByObserver(t *testing.T) {
	a := NewTransform(nil, nil)
	defer a.Destroy()
	b := NewTransform(nil, nil)

	sub := a.OnChange(func(TransformChangeEvent) { b.Destroy() })
	defer sub.Remove()

	if err := a.SetParent(b); !errors.Is(err, ErrDestroyed) {
		t.Fatalf("err = %v, want ErrDestroyed", err)
	}
	if a.Parent() != Root() || b.HasChild(a) {
		t.Error("a must not be attached to a destroyed transform")
	}
}

func TestSetParentDestroyed(t *testing.T) {
	a := NewTransform(nil, nil)
	c := NewTransform(nil, nil)
	defer c.Destroy()
	a.Destroy()

	if err := c.SetParent(a); !errors.Is(err, ErrDestroyed) {
		t.Errorf("attach to destroyed err = %v, want ErrDestroyed", err)
	}
	if err := a.SetParent(c); !errors.Is(err, ErrDestroyed) {
		t.Errorf("reparent destroyed err = %v, want ErrDestroyed", err)
	}
	assertPanics(t, "NewTransform under destroyed", func() { NewTransform(nil, a) })
}

func TestSetParentEmitsParentChange(t *testing.T) {
	a := NewTransform(nil, nil)
	defer a.Destroy()
	c := NewTransform(nil, nil)
	defer c.Destroy()

	var got []TransformChangeEvent
	sub := c.OnChange(func(ev TransformChangeEvent) {
		got = append(got, ev)
		if ev.Source.Parent() != Root() {
			t.Error("observer should run before the move")
		}
	})
	defer sub.Remove()

	if err := c.SetParent(a); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Kind != ChangeParent {
		t.Fatalf("events = %+v", got)
	}
	if got[0].OldValue != Root() || got[0].NewValue != a {
		t.Errorf("old/new = %v/%v", got[0].OldValue, got[0].NewValue)
	}
}

func TestAddChildIsIdempotent(t *testing.T) {
	a := NewTransform(nil, nil)
	defer a.Destroy()
	c := NewTransform(nil, nil)
	defer c.Destroy()

	calls := 0
	sub := c.OnChange(func(TransformChangeEvent) { calls++ })
	defer sub.Remove()

	if err := a.AddChild(c); err != nil {
		t.Fatal(err)
	}
	if err := a.AddChild(c); err != nil {
		t.Fatal(err)
	}
	if a.NumChildren() != 1 {
		t.Errorf("NumChildren = %d, want 1", a.NumChildren())
	}
	if calls != 1 {
		t.Errorf("parent events = %d, want 1", calls)
	}
}

func TestAddChildNilPanics(t *testing.T) {
	a := NewTransform(nil, nil)
	defer a.Destroy()
	assertPanics(t, "AddChild(nil)", func() { _ = a.AddChild(nil) })
}

func TestAddThenRemoveChildRestoresState(t *testing.T) {
	a := NewTransform(nil, nil)
	defer a.Destroy()
	c := NewTransform(nil, nil)
	defer c.Destroy()
	rootChildren := Root().NumChildren()

	if err := a.AddChild(c); err != nil {
		t.Fatal(err)
	}
	a.RemoveChild(c)

	if a.NumChildren() != 0 {
		t.Errorf("NumChildren = %d, want 0", a.NumChildren())
	}
	if c.Parent() != Root() {
		t.Error("removed child should be under Root")
	}
	if Root().NumChildren() != rootChildren {
		t.Errorf("Root children = %d, want %d", Root().NumChildren(), rootChildren)
	}
}

func TestRemoveNonChildIsNoop(t *testing.T) {
	a := NewTransform(nil, nil)
	defer a.Destroy()
	b := NewTransform(nil, nil)
	defer b.Destroy()
	c := NewTransform(nil, b)

	a.RemoveChild(c)
	a.RemoveChild(nil)
	if c.Parent() != b || !b.HasChild(c) {
		t.Error("RemoveChild of a non-child must not change the graph")
	}
}

func TestChildrenReturnsCopy(t *testing.T) {
	a := NewTransform(nil, nil)
	defer a.Destroy()
	NewTransform(nil, a)

	kids := a.Children()
	kids[0] = nil
	if a.Children()[0] == nil {
		t.Error("Children() exposed internal storage")
	}
}

func TestDestroy(t *testing.T) {
	a := NewTransform(nil, nil)
	b := NewTransform(nil, a)
	defer b.Destroy()
	c := NewTransform(nil, b)
	a.SetPosition(Vec2{10, 0})
	b.SetPosition(Vec2{1, 0})

	calls := 0
	a.OnChange(func(TransformChangeEvent) { calls++ })

	b.Destroy()
	if !b.IsDestroyed() {
		t.Fatal("IsDestroyed = false")
	}
	if a.HasChild(b) {
		t.Error("destroyed transform still attached to its parent")
	}
	if c.Parent() != Root() || !Root().HasChild(c) {
		t.Error("children of a destroyed transform should move to Root")
	}
	assertVec2(t, "orphan Position", c.Position(), Vec2{})
	if b.Parent() != Root() || Root().HasChild(b) {
		t.Error("a destroyed transform reports Root as parent but is not listed under it")
	}

	a.Destroy()
	a.Destroy()
	a.SetPosition(Vec2{5, 5})
	if calls != 0 {
		t.Errorf("destroyed transform notified %d times", calls)
	}
	c.Destroy()
}

// checkGraph verifies parent and child links agree below node.
func checkGraph(t *testing.T, node *Transform, depth int) {
	t.Helper()
	if depth > 64 {
		t.Fatal("graph too deep; probable cycle")
	}
	seen := map[*Transform]bool{}
	for _, c := range node.children {
		if seen[c] {
			t.Fatalf("transform %d listed twice under %d", c.ID, node.ID)
		}
		seen[c] = true
		if c.parent != node {
			t.Fatalf("transform %d lists %d but its parent is %d", node.ID, c.ID, c.parent.ID)
		}
		if c.CombinedMatrix() != c.parent.CombinedMatrix().Apply(localMatrix(c.position, c.scale)) {
			t.Fatalf("stale combined matrix on %d", c.ID)
		}
		checkGraph(t, c, depth+1)
	}
}

func TestRandomOperationsKeepGraphConsistent(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	holder := NewTransform(nil, nil)
	defer holder.Destroy()

	nodes := make([]*Transform, 12)
	for i := range nodes {
		nodes[i] = NewTransform(nil, holder)
	}
	defer func() {
		for _, n := range nodes {
			n.Destroy()
		}
	}()

	for range 500 {
		a := nodes[rng.IntN(len(nodes))]
		b := nodes[rng.IntN(len(nodes))]
		switch rng.IntN(5) {
		case 0:
			err := a.SetParent(b)
			if err != nil && !errors.Is(err, ErrCycle) {
				t.Fatalf("SetParent: %v", err)
			}
		case 1:
			_ = b.AddChild(a)
		case 2:
			b.RemoveChild(a)
			_ = a.SetParent(holder)
		case 3:
			a.SetPosition(Vec2{rng.Float64() * 10, rng.Float64() * 10})
		case 4:
			a.SetScale(Vec3{rng.Float64() + 0.5, 1, rng.Float64() + 0.5})
		}
		checkGraph(t, holder, 0)
	}
}
