package stratum

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// ImageTexture adapts an *ebiten.Image to the Texture interface.
type ImageTexture struct {
	Image *ebiten.Image
}

// NewImageTexture wraps img.
func NewImageTexture(img *ebiten.Image) *ImageTexture {
	return &ImageTexture{Image: img}
}

// Width returns the image width in pixels.
func (t *ImageTexture) Width() int { return t.Image.Bounds().Dx() }

// Height returns the image height in pixels.
func (t *ImageTexture) Height() int { return t.Image.Bounds().Dy() }

// EbitenBackend is a DrawingBackend that draws each shape as a triangle fan
// with DrawTriangles. Emitted positions are mapped through the view matrix;
// UVs are source pixel coordinates.
type EbitenBackend struct {
	target *ebiten.Image
	view   Affine
	fill   Color

	open     bool
	image    *ebiten.Image
	textured bool
	verts    []ebiten.Vertex
	indices  []uint16
	opts     ebiten.DrawTrianglesOptions

	shapes int
}

// NewEbitenBackend creates a backend drawing onto target through view.
func NewEbitenBackend(target *ebiten.Image, view Affine) *EbitenBackend {
	return &EbitenBackend{
		target: target,
		view:   view,
		fill:   ColorWhite,
		verts:  make([]ebiten.Vertex, 0, 8),
	}
}

// SetTarget changes the destination image.
func (b *EbitenBackend) SetTarget(target *ebiten.Image) { b.target = target }

// SetView changes the matrix applied to emitted positions.
func (b *EbitenBackend) SetView(view Affine) { b.view = view }

// SetFillColor sets the tint of subsequent shapes.
func (b *EbitenBackend) SetFillColor(c Color) { b.fill = c }

// Shapes returns the number of shapes drawn since the last Reset.
func (b *EbitenBackend) Shapes() int { return b.shapes }

// Reset clears the shape counter.
func (b *EbitenBackend) Reset() { b.shapes = 0 }

// BeginShape opens a shape. Panics if a shape is already open.
func (b *EbitenBackend) BeginShape() {
	if b.open {
		panic("stratum: BeginShape called while a shape is open")
	}
	b.open = true
	b.image = nil
	b.textured = false
	b.verts = b.verts[:0]
}

// BindTexture sets the source image of the open shape. Textures that are not
// an *ImageTexture draw as a flat fill.
func (b *EbitenBackend) BindTexture(tex Texture) {
	b.mustBeOpen("BindTexture")
	if it, ok := tex.(*ImageTexture); ok && it != nil {
		b.image = it.Image
	}
}

// EmitVertex adds an untextured vertex.
func (b *EbitenBackend) EmitVertex(x, y float64) {
	b.mustBeOpen("EmitVertex")
	b.appendVertex(x, y, 0.5, 0.5)
}

// EmitTexturedVertex adds a vertex sampling the bound texture at (u, v).
func (b *EbitenBackend) EmitTexturedVertex(x, y, u, v float64) {
	b.mustBeOpen("EmitTexturedVertex")
	b.textured = true
	b.appendVertex(x, y, u, v)
}

// EndShapeClosed draws the open shape. Shapes with fewer than three vertices
// are dropped.
func (b *EbitenBackend) EndShapeClosed() {
	b.mustBeOpen("EndShapeClosed")
	b.open = false
	n := len(b.verts)
	if n < 3 || b.target == nil {
		return
	}

	src := b.image
	if src == nil || !b.textured {
		src = ensureWhitePixel()
		for i := range b.verts {
			b.verts[i].SrcX, b.verts[i].SrcY = 0.5, 0.5
		}
	}

	b.indices = b.indices[:0]
	for i := 1; i < n-1; i++ {
		b.indices = append(b.indices, 0, uint16(i), uint16(i+1))
	}
	b.target.DrawTriangles(b.verts, b.indices, src, &b.opts)
	b.shapes++
}

func (b *EbitenBackend) mustBeOpen(op string) {
	if !b.open {
		panic("stratum: " + op + " called outside BeginShape/EndShapeClosed")
	}
}

func (b *EbitenBackend) appendVertex(x, y, u, v float64) {
	sx, sy := transformPoint(b.view, x, y)
	a := float32(b.fill.A)
	b.verts = append(b.verts, ebiten.Vertex{
		DstX:   float32(sx),
		DstY:   float32(sy),
		SrcX:   float32(u),
		SrcY:   float32(v),
		ColorR: float32(b.fill.R) * a,
		ColorG: float32(b.fill.G) * a,
		ColorB: float32(b.fill.B) * a,
		ColorA: a,
	})
}

// --- White pixel singleton (no sync.Once; stratum is single-threaded) ---

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized 1x1 white pixel image.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}
