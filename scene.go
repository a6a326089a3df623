package stratum

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// bounded is implemented by renderables that know their world-space bounds.
// Renderables without bounds are never culled.
type bounded interface {
	Bounds() Rect
}

// FrameStats describes the most recent Draw call.
type FrameStats struct {
	Drawn    int // shapes submitted to the backend
	Culled   int // skipped because they were outside the camera view
	Hidden   int // walls facing away from the camera
	SortTime time.Duration
	DrawTime time.Duration
}

// Scene collects renderables, sorts them back to front each frame and draws
// them through an EbitenBackend using its camera.
type Scene struct {
	// ClearColor fills the screen before drawing when its alpha is non-zero.
	ClearColor Color
	// CullEnabled skips renderables whose bounds miss the camera's view.
	CullEnabled bool

	camera      *ViewCamera
	renderables []Renderable
	sortBuf     []Renderable
	backend     *EbitenBackend
	tweens      []*HeightTween
	updateFunc  func() error
	debug       bool
	stats       FrameStats
}

// NewScene creates an empty scene whose camera covers viewport.
func NewScene(viewport Rect) *Scene {
	return &Scene{
		CullEnabled: true,
		camera:      NewViewCamera(viewport),
		backend:     NewEbitenBackend(nil, IdentityAffine),
	}
}

// Camera returns the scene camera.
func (s *Scene) Camera() *ViewCamera {
	return s.camera
}

// Add appends r to the scene. Nil is ignored.
func (s *Scene) Add(r Renderable) {
	if r == nil {
		return
	}
	s.renderables = append(s.renderables, r)
}

// Remove removes the first occurrence of r. No-op if r is absent.
func (s *Scene) Remove(r Renderable) {
	for i, have := range s.renderables {
		if have == r {
			copy(s.renderables[i:], s.renderables[i+1:])
			s.renderables[len(s.renderables)-1] = nil
			s.renderables = s.renderables[:len(s.renderables)-1]
			return
		}
	}
}

// Renderables returns a copy of the scene's renderables in insertion order.
func (s *Scene) Renderables() []Renderable {
	out := make([]Renderable, len(s.renderables))
	copy(out, s.renderables)
	return out
}

// AddTween registers a height tween advanced by Update until it finishes.
func (s *Scene) AddTween(t *HeightTween) {
	if t != nil {
		s.tweens = append(s.tweens, t)
	}
}

// SetUpdateFunc sets a callback run at the end of every Update.
func (s *Scene) SetUpdateFunc(fn func() error) {
	s.updateFunc = fn
}

// SetDebugMode enables per-frame stats logging and the transform tree checks.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// Stats returns the stats of the last Draw.
func (s *Scene) Stats() FrameStats {
	return s.stats
}

// Update advances the camera and tweens by one tick and runs the update callback.
func (s *Scene) Update() error {
	s.step(float32(1.0 / float64(ebiten.TPS())))
	if s.updateFunc != nil {
		return s.updateFunc()
	}
	return nil
}

func (s *Scene) step(dt float32) {
	s.camera.Update(dt)
	// Observers run inside Update and may call AddTween.
	pending := s.tweens
	s.tweens = nil
	var live []*HeightTween
	for _, t := range pending {
		if !t.Update(dt) {
			live = append(live, t)
		}
	}
	s.tweens = append(live, s.tweens...)
}

// Draw sorts the renderables by depth and draws them onto screen.
func (s *Scene) Draw(screen *ebiten.Image) {
	if s.ClearColor.A > 0 {
		screen.Fill(s.ClearColor.toRGBA())
	}

	var stats FrameStats
	start := time.Now()
	s.sortBuf = append(s.sortBuf[:0], s.renderables...)
	SortByDepth(s.sortBuf, s.camera)
	stats.SortTime = time.Since(start)

	start = time.Now()
	b := s.backend
	b.SetTarget(screen)
	b.SetView(s.camera.Matrix())
	b.Reset()
	visible := s.camera.VisibleBounds()
	attempted := 0
	for _, r := range s.sortBuf {
		if s.CullEnabled {
			if bb, ok := r.(bounded); ok && !bb.Bounds().Intersects(visible) {
				stats.Culled++
				continue
			}
		}
		attempted++
		r.Render(b)
	}
	stats.Drawn = b.Shapes()
	stats.Hidden = attempted - stats.Drawn
	stats.DrawTime = time.Since(start)
	s.stats = stats

	// Drop references so removed renderables can be collected.
	clear(s.sortBuf)

	if s.debug {
		logger.Debug("frame",
			zap.Duration("sort", stats.SortTime),
			zap.Duration("draw", stats.DrawTime),
			zap.Int("drawn", stats.Drawn),
			zap.Int("culled", stats.Culled),
			zap.Int("hidden", stats.Hidden),
		)
	}
}
