package stratum

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Camera maps world space to screen space. The matrix must stay constant
// during one render pass.
type Camera interface {
	Matrix() Affine
}

// TranslateVector maps a world-space point to screen space.
func TranslateVector(cam Camera, v Vec2) Vec2 {
	return cam.Matrix().TransformPoint(v)
}

// InverseTranslateVector maps a screen-space point back to world space.
func InverseTranslateVector(cam Camera, v Vec2) Vec2 {
	return cam.Matrix().Invert().TransformPoint(v)
}

// FixedCamera is a Camera with a constant matrix.
type FixedCamera Affine

// Matrix returns the fixed matrix.
func (c FixedCamera) Matrix() Affine { return Affine(c) }

// cameraFollow tracks a transform's world position.
type cameraFollow struct {
	target *Transform
	offset Vec2
	lerp   float64
}

// cameraPan is an animated move to a fixed world position.
type cameraPan struct {
	x, y         *gween.Tween
	xDone, yDone bool
}

// step advances both axes and reports whether the pan has finished.
func (p *cameraPan) step(dt float32, x, y *float64) bool {
	if !p.xDone {
		v, done := p.x.Update(dt)
		*x, p.xDone = float64(v), done
	}
	if !p.yDone {
		v, done := p.y.Update(dt)
		*y, p.yDone = float64(v), done
	}
	return p.xDone && p.yDone
}

// ViewCamera is the Camera used by Scene. It centers the viewport on (X, Y)
// and supports zoom, rotation, following a transform, animated pans and
// clamping to world bounds.
type ViewCamera struct {
	// X and Y are the world point shown at the viewport center.
	X, Y float64
	// Zoom is the number of screen pixels per world unit.
	Zoom float64
	// Rotation turns the view clockwise, in radians.
	Rotation float64
	// Viewport is the screen rectangle the camera draws into.
	Viewport Rect

	// BoundsEnabled keeps the visible area inside Bounds after each Update.
	BoundsEnabled bool
	Bounds        Rect

	follow *cameraFollow
	pan    *cameraPan

	// view is cached until one of the fields in viewKey changes.
	view    Affine
	viewKey [6]float64
	valid   bool
}

// NewViewCamera returns a camera at the world origin with zoom 1.
func NewViewCamera(viewport Rect) *ViewCamera {
	return &ViewCamera{Zoom: 1, Viewport: viewport}
}

// Follow keeps the camera on t's world position plus (offsetX, offsetY).
// Each Update moves lerp of the remaining distance; 1 snaps.
func (c *ViewCamera) Follow(t *Transform, offsetX, offsetY, lerp float64) {
	c.follow = &cameraFollow{target: t, offset: Vec2{offsetX, offsetY}, lerp: lerp}
}

// Unfollow stops following.
func (c *ViewCamera) Unfollow() {
	c.follow = nil
}

// ScrollTo pans to (x, y) over duration seconds using easeFn.
func (c *ViewCamera) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	c.pan = &cameraPan{
		x: gween.New(float32(c.X), float32(x), duration, easeFn),
		y: gween.New(float32(c.Y), float32(y), duration, easeFn),
	}
}

// Scrolling reports whether a pan started by ScrollTo is still running.
func (c *ViewCamera) Scrolling() bool {
	return c.pan != nil
}

// SetBounds clamps the camera to bounds from the next Update on.
func (c *ViewCamera) SetBounds(bounds Rect) {
	c.Bounds = bounds
	c.BoundsEnabled = true
}

// ClearBounds turns clamping off.
func (c *ViewCamera) ClearBounds() {
	c.BoundsEnabled = false
}

// Update applies follow, then the running pan, then bounds clamping.
// dt is in seconds.
func (c *ViewCamera) Update(dt float32) {
	if f := c.follow; f != nil {
		if f.target.IsDestroyed() {
			c.follow = nil
		} else {
			goal := f.target.Position().Add(f.offset)
			c.X += (goal.X - c.X) * f.lerp
			c.Y += (goal.Y - c.Y) * f.lerp
		}
	}
	if c.pan != nil && c.pan.step(dt, &c.X, &c.Y) {
		c.pan = nil
	}
	if c.BoundsEnabled {
		zoom := c.Zoom
		c.X = clampAxis(c.X, c.Bounds.X, c.Bounds.Width, c.Viewport.Width/(2*zoom))
		c.Y = clampAxis(c.Y, c.Bounds.Y, c.Bounds.Height, c.Viewport.Height/(2*zoom))
	}
}

// clampAxis keeps a view of half-extent half centered on v inside
// [lo, lo+span]. A span narrower than the view centers it.
func clampAxis(v, lo, span, half float64) float64 {
	if span < 2*half {
		return lo + span/2
	}
	return math.Min(math.Max(v, lo+half), lo+span-half)
}

// Matrix returns the world-to-screen matrix
//
//	Translate(viewport center) * Scale(Zoom) * Rotate(-Rotation) * Translate(-X, -Y)
func (c *ViewCamera) Matrix() Affine {
	cx := c.Viewport.X + c.Viewport.Width/2
	cy := c.Viewport.Y + c.Viewport.Height/2
	key := [6]float64{c.X, c.Y, c.Zoom, c.Rotation, cx, cy}
	if c.valid && key == c.viewKey {
		return c.view
	}
	sin, cos := math.Sincos(-c.Rotation)
	z := c.Zoom
	c.view = Affine{
		z * cos, z * sin,
		-z * sin, z * cos,
		cx - z*(cos*c.X-sin*c.Y),
		cy - z*(sin*c.X+cos*c.Y),
	}
	c.viewKey = key
	c.valid = true
	return c.view
}

// WorldToScreen maps a world point to the screen.
func (c *ViewCamera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	return transformPoint(c.Matrix(), wx, wy)
}

// ScreenToWorld maps a screen point back into the world.
func (c *ViewCamera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	return transformPoint(c.Matrix().Invert(), sx, sy)
}

// VisibleBounds returns the world-space bounds of the viewport corners.
func (c *ViewCamera) VisibleBounds() Rect {
	inv := c.Matrix().Invert()
	l, t := c.Viewport.X, c.Viewport.Y
	r, b := l+c.Viewport.Width, t+c.Viewport.Height
	return boundsOf([]Vec2{
		inv.TransformPoint(Vec2{l, t}),
		inv.TransformPoint(Vec2{r, t}),
		inv.TransformPoint(Vec2{r, b}),
		inv.TransformPoint(Vec2{l, b}),
	})
}
