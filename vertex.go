package stratum

// Vertex is a point expressed as an offset in its owner's local space.
type Vertex struct {
	offset Vec2
	owner  *Transform
}

// NewVertex creates a vertex at offset in owner's local space.
// Panics if owner is nil.
func NewVertex(offset Vec2, owner *Transform) *Vertex {
	if owner == nil {
		panic("stratum: vertex needs an owning transform")
	}
	return &Vertex{offset: offset, owner: owner}
}

// Offset returns the local offset.
func (v *Vertex) Offset() Vec2 { return v.offset }

// SetOffset moves the vertex within its owner's local space.
func (v *Vertex) SetOffset(offset Vec2) { v.offset = offset }

// Transform returns the owning transform.
func (v *Vertex) Transform() *Transform { return v.owner }

// TranslatedPosition returns the world-space position: the owner's combined
// matrix applied to the offset, shifted along y by the owner's world height.
func (v *Vertex) TranslatedPosition() Vec2 {
	p := v.owner.CombinedMatrix().TransformPoint(v.offset)
	p.Y += v.owner.Height()
	return p
}

// Height returns the owner's world height.
func (v *Vertex) Height() float64 {
	return v.owner.Height()
}

// Edge is a directed segment between two vertices.
type Edge struct {
	start, end *Vertex
}

// NewEdge creates the edge start -> end. Panics if either vertex is nil.
func NewEdge(start, end *Vertex) *Edge {
	if start == nil || end == nil {
		panic("stratum: edge needs two vertices")
	}
	return &Edge{start: start, end: end}
}

// Start returns the first vertex.
func (e *Edge) Start() *Vertex { return e.start }

// End returns the second vertex.
func (e *Edge) End() *Vertex { return e.end }

// Normal returns the world-space unit normal to the left of travel,
// (-dy, dx) of end - start. A zero-length edge has a zero normal.
func (e *Edge) Normal() Vec3 {
	d := e.end.TranslatedPosition().Sub(e.start.TranslatedPosition())
	return Vec2{-d.Y, d.X}.Normalize().Vec3(0)
}

// Midpoint returns the world-space midpoint of the edge.
func (e *Edge) Midpoint() Vec2 {
	return e.start.TranslatedPosition().Add(e.end.TranslatedPosition()).Scale(0.5)
}
