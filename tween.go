package stratum

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// HeightTween animates a transform's local height. Each step goes through
// SetHeight, so change observers see every intermediate value.
type HeightTween struct {
	target *Transform
	tween  *gween.Tween
	done   bool
}

// NewHeightTween animates t from its current local height to `to` over
// duration seconds.
func NewHeightTween(t *Transform, to float64, duration float32, easeFn ease.TweenFunc) *HeightTween {
	return &HeightTween{
		target: t,
		tween:  gween.New(float32(t.LocalHeight()), float32(to), duration, easeFn),
	}
}

// Update advances the tween by dt seconds and reports whether it finished.
func (h *HeightTween) Update(dt float32) bool {
	if h.done {
		return true
	}
	if h.target.IsDestroyed() {
		h.done = true
		return true
	}
	val, done := h.tween.Update(dt)
	h.target.SetHeight(float64(val))
	h.done = done
	return done
}

// Done reports whether the tween has finished.
func (h *HeightTween) Done() bool {
	return h.done
}
