package stratum

import "go.uber.org/zap"

// CameraForward is the direction the camera looks along on the floor plane.
var CameraForward = Vec3{0, -1, 0}

// defaultUVScale maps the unit UV square onto one 16x16 pixel tile.
var defaultUVScale = Vec2{16, 16}

// quadUVs are the unit texture coordinates of the four corners, in vertex order.
var quadUVs = [4]Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

// Quad is a textured four-sided primitive made of four edges forming a
// closed loop. A floor quad lies on the ground plane; a vertical quad (a
// wall) has a leading edge that decides its facing and sort depth.
type Quad struct {
	edges     [4]*Edge
	min, max  *Vertex
	vertical  bool
	leading   *Edge
	normal    Vec3
	texture   Texture
	uvOffset  Vec2
	uvScale   Vec2
	vertexUVs [4]Vec2
	color     Color
}

// NewQuad creates a quad from four vertices in loop order. The edges are
// v1->v2, v2->v3, v3->v4, v4->v1.
func NewQuad(v1, v2, v3, v4 *Vertex) *Quad {
	return NewQuadFromEdges([4]*Edge{
		NewEdge(v1, v2),
		NewEdge(v2, v3),
		NewEdge(v3, v4),
		NewEdge(v4, v1),
	})
}

// NewQuadFromEdges creates a quad from four edges that already form a closed
// loop in order. Panics if any edge is nil.
func NewQuadFromEdges(edges [4]*Edge) *Quad {
	for _, e := range edges {
		if e == nil {
			panic("stratum: quad needs four edges")
		}
	}
	return &Quad{
		edges:     edges,
		min:       edges[0].end,
		max:       edges[2].end,
		normal:    Vec3{0, -1, 0},
		uvScale:   defaultUVScale,
		vertexUVs: quadUVs,
		color:     ColorWhite,
	}
}

// Edges returns the four edges in loop order.
func (q *Quad) Edges() [4]*Edge { return q.edges }

// Vertices returns the start vertex of each edge, in loop order.
func (q *Quad) Vertices() [4]*Vertex {
	return [4]*Vertex{q.edges[0].start, q.edges[1].start, q.edges[2].start, q.edges[3].start}
}

// Min returns the second vertex of the loop.
func (q *Quad) Min() *Vertex { return q.min }

// Max returns the fourth vertex of the loop.
func (q *Quad) Max() *Vertex { return q.max }

// Normal returns the surface normal. Quads face up the screen by default.
func (q *Quad) Normal() Vec3 { return q.normal }

// IsVertical reports whether the quad is a wall.
func (q *Quad) IsVertical() bool { return q.vertical }

// SetIsVertical marks the quad as a wall whose facing is given by leading.
// Panics if leading is nil.
func (q *Quad) SetIsVertical(leading *Edge) *Quad {
	if leading == nil {
		panic("stratum: vertical quad needs a leading edge")
	}
	q.vertical = true
	q.leading = leading
	return q
}

// LeadingEdge returns the wall's leading edge.
// Panics if the quad is not vertical.
func (q *Quad) LeadingEdge() *Edge {
	if !q.vertical {
		panic("stratum: LeadingEdge called on a quad that is not vertical")
	}
	return q.leading
}

// Texture returns the bound texture, or nil.
func (q *Quad) Texture() Texture { return q.texture }

// SetTexture sets the texture drawn on the quad. Nil draws a flat color.
func (q *Quad) SetTexture(tex Texture) *Quad {
	if tex != nil {
		logger.Debug("quad texture set",
			zap.Int("width", tex.Width()),
			zap.Int("height", tex.Height()),
		)
	}
	q.texture = tex
	return q
}

// UVOffset returns the texture-space offset added to every UV.
func (q *Quad) UVOffset() Vec2 { return q.uvOffset }

// SetUVOffset sets the texture-space offset added to every UV.
func (q *Quad) SetUVOffset(offset Vec2) *Quad {
	q.uvOffset = offset
	return q
}

// UVScale returns the factor applied to the unit corner UVs.
func (q *Quad) UVScale() Vec2 { return q.uvScale }

// SetUVScale sets the factor applied to the unit corner UVs.
func (q *Quad) SetUVScale(scale Vec2) *Quad {
	q.uvScale = scale
	return q
}

// Color returns the tint.
func (q *Quad) Color() Color { return q.color }

// SetColor sets the tint, used as the fill when no texture is set.
func (q *Quad) SetColor(c Color) *Quad {
	q.color = c
	return q
}

// uv returns the texture coordinate of corner i.
func (q *Quad) uv(i int) Vec2 {
	return q.vertexUVs[i].Mul(q.uvScale).Add(q.uvOffset)
}

// Render draws the quad as one closed shape. Walls facing away from the
// camera are skipped.
func (q *Quad) Render(b DrawingBackend) {
	if !q.CameraCanSee() {
		return
	}
	if cb, ok := b.(ColorBackend); ok {
		cb.SetFillColor(q.color)
	}
	b.BeginShape()
	if q.texture != nil {
		b.BindTexture(q.texture)
	}
	for i, v := range q.Vertices() {
		pos := v.TranslatedPosition()
		if q.texture != nil {
			uv := q.uv(i)
			b.EmitTexturedVertex(pos.X, pos.Y, uv.X, uv.Y)
		} else {
			b.EmitVertex(pos.X, pos.Y)
		}
	}
	b.EndShapeClosed()
}

// Depth returns the painter's sort key; smaller values are drawn first.
// A wall sorts by the y of its leading edge midpoint. A floor sorts by its
// lowest vertex y plus the mean height of its vertices.
func (q *Quad) Depth(Camera) float64 {
	if q.vertical {
		return q.leading.Midpoint().Y
	}
	var heightSum float64
	lowest := 0.0
	for i, v := range q.Vertices() {
		y := v.TranslatedPosition().Y
		heightSum += v.Height()
		if i == 0 || y < lowest {
			lowest = y
		}
	}
	return lowest + heightSum/4
}

// CameraCanSee reports whether the quad faces the camera. Floors are always
// visible; a wall is visible when its leading edge normal points against
// CameraForward.
func (q *Quad) CameraCanSee() bool {
	if !q.vertical {
		return true
	}
	return CameraForward.Dot(q.leading.Normal()) < 0
}

// Bounds returns the world-space axis-aligned bounds of the four vertices.
func (q *Quad) Bounds() Rect {
	vs := q.Vertices()
	pts := make([]Vec2, len(vs))
	for i, v := range vs {
		pts[i] = v.TranslatedPosition()
	}
	return boundsOf(pts)
}
