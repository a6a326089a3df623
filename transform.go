package stratum

import "math"

// transformIDCounter is a plain counter (no atomic; stratum is single-threaded).
var transformIDCounter uint32

func nextTransformID() uint32 {
	transformIDCounter++
	return transformIDCounter
}

// Transform is a node in the scene hierarchy. It holds a local position,
// rotation, scale and height relative to its parent, and caches the combined
// local-to-world matrix. Every transform has exactly one parent; top-level
// transforms are children of Root.
type Transform struct {
	ID   uint32
	Name string

	owner    any
	parent   *Transform
	children []*Transform

	// Local state
	position Vec2
	rotation float64
	scale    Vec3
	height   float64

	// Derived
	combined Affine
	dirty    bool

	isRoot    bool
	destroyed bool

	changes *EventBus[TransformChangeEvent]
}

var rootTransform = newRootTransform()

func newRootTransform() *Transform {
	t := &Transform{
		Name:     "root",
		scale:    One,
		combined: IdentityAffine,
		isRoot:   true,
	}
	t.parent = t
	return t
}

// Root returns the root transform that terminates every parent chain.
// Its accessors always return identity values and it never changes.
func Root() *Transform {
	return rootTransform
}

// NewTransform creates a transform owned by owner (typically the game object
// it positions) and attaches it to parent. A nil parent means Root.
// Panics if parent has been destroyed.
//
// The parent keeps a reference to the new transform, and Root lives for the
// whole process, so a transform that is dropped without calling Destroy
// stays reachable and is never collected.
func NewTransform(owner any, parent *Transform) *Transform {
	if parent == nil {
		parent = rootTransform
	}
	if parent.destroyed {
		panic("stratum: cannot attach a transform to a destroyed parent")
	}
	t := &Transform{
		ID:       nextTransformID(),
		owner:    owner,
		parent:   parent,
		scale:    One,
		combined: IdentityAffine,
		dirty:    true,
		changes:  NewEventBus[TransformChangeEvent]("transform"),
	}
	parent.children = append(parent.children, t)
	if globalDebug {
		debugCheckTreeDepth(t)
		debugCheckChildCount(parent)
	}
	return t
}

// GameObject returns the owner passed to NewTransform.
func (t *Transform) GameObject() any {
	return t.owner
}

// IsRoot reports whether t is the root transform.
func (t *Transform) IsRoot() bool {
	return t.isRoot
}

// IsDestroyed reports whether Destroy has been called on t.
func (t *Transform) IsDestroyed() bool {
	return t.destroyed
}

// --- Setters ---
//
// Each setter notifies observers with the old and new value before the
// change is committed, then invalidates the cached matrices of t and its
// descendants. Setters on Root are ignored.

// SetPosition sets the local position relative to the parent.
func (t *Transform) SetPosition(p Vec2) {
	if t.isRoot {
		return
	}
	t.emit(ChangePosition, t.position, p)
	t.position = p
	markSubtreeDirty(t)
}

// SetRotation sets the local rotation.
func (t *Transform) SetRotation(r float64) {
	if t.isRoot {
		return
	}
	t.emit(ChangeRotation, t.rotation, r)
	t.rotation = r
	markSubtreeDirty(t)
}

// SetScale sets the local scale. A zero component is allowed and makes the
// combined matrix singular.
func (t *Transform) SetScale(s Vec3) {
	if t.isRoot {
		return
	}
	t.emit(ChangeScale, t.scale, s)
	t.scale = s
	markSubtreeDirty(t)
}

// SetHeight sets the local height, the stacking offset orthogonal to the floor.
func (t *Transform) SetHeight(h float64) {
	if t.isRoot {
		return
	}
	t.emit(ChangeHeight, t.height, h)
	t.height = h
	markSubtreeDirty(t)
}

// SetLocalPosition positions t so that its world position equals p.
func (t *Transform) SetLocalPosition(p Vec2) {
	t.SetPosition(p.Sub(t.parent.Position()))
}

// SetLocalRotation rotates t so that its world rotation equals r.
func (t *Transform) SetLocalRotation(r float64) {
	t.SetRotation(r - t.parent.Rotation())
}

// SetLocalScale scales t so that its world scale equals s. Components where
// the parent's world scale is zero become zero.
func (t *Transform) SetLocalScale(s Vec3) {
	t.SetScale(s.SafeDiv(t.parent.Scale()))
}

// --- Local accessors ---

// LocalPosition returns the position relative to the parent.
func (t *Transform) LocalPosition() Vec2 { return t.position }

// LocalRotation returns the rotation relative to the parent.
func (t *Transform) LocalRotation() float64 { return t.rotation }

// LocalScale returns the scale relative to the parent.
func (t *Transform) LocalScale() Vec3 { return t.scale }

// LocalHeight returns the height relative to the parent.
func (t *Transform) LocalHeight() float64 { return t.height }

// --- World accessors ---

// Position returns the world position: the sum of local positions up to Root.
func (t *Transform) Position() Vec2 {
	if t.isRoot {
		return Vec2{}
	}
	return t.parent.Position().Add(t.position)
}

// Rotation returns the world rotation: the sum of local rotations up to Root.
func (t *Transform) Rotation() float64 {
	if t.isRoot {
		return 0
	}
	return t.parent.Rotation() + t.rotation
}

// Scale returns the world scale: the componentwise product of local scales.
func (t *Transform) Scale() Vec3 {
	if t.isRoot {
		return One
	}
	return t.parent.Scale().Mul(t.scale)
}

// YScale returns the product of the local y scales up to Root.
func (t *Transform) YScale() float64 {
	if t.isRoot {
		return 1
	}
	return t.parent.YScale() * t.scale.Y
}

// Height returns the world height: the sum of local heights up to Root.
func (t *Transform) Height() float64 {
	if t.isRoot {
		return 0
	}
	return t.parent.Height() + t.height
}

// --- Matrices ---

// localMatrix returns Scale(scale.X, scale.Z) * Translate(position).
// The z scale drives the matrix y axis: on the floor plane z is depth.
func localMatrix(position Vec2, scale Vec3) Affine {
	return ScaleAffine(scale.X, scale.Z).Translate(position.X, position.Y)
}

// CombinedMatrix returns the local-to-world matrix:
//
//	parent.CombinedMatrix() * Scale(scale.X, scale.Z) * Translate(position)
//
// Rotation is not part of the combined matrix. The result is recomputed
// lazily after any change to t or one of its ancestors.
func (t *Transform) CombinedMatrix() Affine {
	if t.isRoot {
		return IdentityAffine
	}
	if t.dirty {
		t.combined = t.parent.CombinedMatrix().Apply(localMatrix(t.position, t.scale))
		t.dirty = false
	}
	return t.combined
}

// TransformVertex maps a local offset through the combined matrix followed
// by a second translation by the local position and a rotation by the local
// rotation, read as degrees.
func (t *Transform) TransformVertex(v Vec2) Vec2 {
	m := t.CombinedMatrix().
		Translate(t.position.X, t.position.Y).
		Rotate(t.rotation * math.Pi / 180)
	return m.TransformPoint(v)
}

// LocalToWorld converts a point in t's local space to world space.
func (t *Transform) LocalToWorld(p Vec2) Vec2 {
	return t.CombinedMatrix().TransformPoint(p)
}

// WorldToLocal converts a world-space point to t's local space. If the
// combined matrix is singular the point is returned unchanged.
func (t *Transform) WorldToLocal(p Vec2) Vec2 {
	return t.CombinedMatrix().Invert().TransformPoint(p)
}

// ScreenPosition maps the local position through the camera and then shifts
// it down the screen y axis by the world height.
func (t *Transform) ScreenPosition(cam Camera) Vec2 {
	return TranslateVector(cam, t.position).Add(Vec2{0, t.Height()})
}

// --- Observers ---

// AddChangeObserver registers o for t's change events.
func (t *Transform) AddChangeObserver(o Observer[TransformChangeEvent]) {
	if t.changes != nil {
		t.changes.Register(o)
	}
}

// RemoveChangeObserver unregisters o. No-op if o is not registered.
func (t *Transform) RemoveChangeObserver(o Observer[TransformChangeEvent]) {
	if t.changes != nil {
		t.changes.Unregister(o)
	}
}

// OnChange registers fn for t's change events and returns a handle that
// removes it. Root never emits, so OnChange on Root returns an empty handle.
func (t *Transform) OnChange(fn func(TransformChangeEvent)) Subscription {
	if t.changes == nil {
		return Subscription{}
	}
	return t.changes.Subscribe(fn)
}

func (t *Transform) emit(kind ChangeKind, oldValue, newValue any) {
	if t.changes == nil {
		return
	}
	ev := TransformChangeEvent{Source: t, Kind: kind, OldValue: oldValue, NewValue: newValue}
	t.changes.Notify(ev)
	TransformChanges.Notify(ev)
}
