package stratum

import "sort"

// Texture is an image handle bound by a DrawingBackend. stratum only reads
// its size.
type Texture interface {
	Width() int
	Height() int
}

// DrawingBackend receives shapes one at a time. A shape is opened with
// BeginShape, optionally bound to a texture, fed vertices and closed with
// EndShapeClosed.
type DrawingBackend interface {
	BeginShape()
	BindTexture(tex Texture)
	EmitVertex(x, y float64)
	EmitTexturedVertex(x, y, u, v float64)
	EndShapeClosed()
}

// ColorBackend is implemented by backends that can tint shapes. Quad.Render
// sets the fill color before opening the shape when the backend supports it.
type ColorBackend interface {
	SetFillColor(c Color)
}

// Renderable is anything the host sorts by Depth and draws back to front.
type Renderable interface {
	Render(b DrawingBackend)
	Depth(cam Camera) float64
}

// depthEntry pairs a renderable with its depth for one sort.
type depthEntry struct {
	r     Renderable
	depth float64
}

// SortByDepth sorts rs by ascending depth, keeping insertion order for ties.
// Depth is evaluated once per renderable.
func SortByDepth(rs []Renderable, cam Camera) {
	if len(rs) < 2 {
		return
	}
	entries := make([]depthEntry, len(rs))
	for i, r := range rs {
		entries[i] = depthEntry{r: r, depth: r.Depth(cam)}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].depth < entries[j].depth
	})
	for i := range entries {
		rs[i] = entries[i].r
	}
}

// RenderAll sorts rs by depth and renders them in that order.
func RenderAll(rs []Renderable, cam Camera, b DrawingBackend) {
	SortByDepth(rs, cam)
	for _, r := range rs {
		r.Render(b)
	}
}
