package stratum

import "image/color"

// Color is a straight-alpha RGBA tint with components in [0, 1].
type Color struct {
	R, G, B, A float64
}

// ColorWhite leaves textures unchanged.
var ColorWhite = Color{1, 1, 1, 1}

// toRGBA returns c premultiplied and clamped, as ebiten expects.
func (c Color) toRGBA() color.RGBA {
	a := clamp01(c.A)
	return color.RGBA{
		R: to8(c.R * a),
		G: to8(c.G * a),
		B: to8(c.B * a),
		A: to8(a),
	}
}

func to8(v float64) uint8 {
	return uint8(clamp01(v) * 255)
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}

// Rect is an axis-aligned rectangle in y-down coordinates; (X, Y) is its
// top-left corner.
type Rect struct {
	X, Y, Width, Height float64
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Contains reports whether (x, y) lies inside r, edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.Right() && y >= r.Y && y <= r.Bottom()
}

// Intersects reports whether r and other overlap. Touching edges count.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.Right() && other.X <= r.Right() &&
		r.Y <= other.Bottom() && other.Y <= r.Bottom()
}

// boundsOf returns the smallest Rect containing pts.
func boundsOf(pts []Vec2) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	lo, hi := pts[0], pts[0]
	for _, p := range pts[1:] {
		lo = Vec2{min(lo.X, p.X), min(lo.Y, p.Y)}
		hi = Vec2{max(hi.X, p.X), max(hi.Y, p.Y)}
	}
	return Rect{X: lo.X, Y: lo.Y, Width: hi.X - lo.X, Height: hi.Y - lo.Y}
}
