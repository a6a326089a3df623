package stratum

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func TestViewCameraDefaults(t *testing.T) {
	cam := NewViewCamera(Rect{Width: 640, Height: 480})
	if cam.Zoom != 1 {
		t.Errorf("Zoom = %v, want 1", cam.Zoom)
	}
	// The camera position maps to the viewport center.
	x, y := cam.WorldToScreen(0, 0)
	assertNear(t, "screen x", x, 320)
	assertNear(t, "screen y", y, 240)
}

func TestViewCameraZoom(t *testing.T) {
	cam := NewViewCamera(Rect{Width: 100, Height: 100})
	cam.X, cam.Y = 10, 20
	cam.Zoom = 2

	x, y := cam.WorldToScreen(15, 20)
	assertNear(t, "screen x", x, 60)
	assertNear(t, "screen y", y, 50)
	assertMatrix(t, "Matrix", cam.Matrix(), Affine{2, 0, 0, 2, 30, 10})
}

func TestViewCameraMatrixCacheInvalidates(t *testing.T) {
	cam := NewViewCamera(Rect{Width: 100, Height: 100})
	first := cam.Matrix()
	cam.X = 10
	if cam.Matrix() == first {
		t.Error("Matrix did not change after moving the camera")
	}
}

func TestViewCameraRoundTrip(t *testing.T) {
	cam := NewViewCamera(Rect{X: 10, Y: 10, Width: 320, Height: 240})
	cam.X, cam.Y = -40, 75
	cam.Zoom = 1.5
	cam.Rotation = math.Pi / 5

	sx, sy := cam.WorldToScreen(12, -3)
	wx, wy := cam.ScreenToWorld(sx, sy)
	assertNear(t, "world x", wx, 12)
	assertNear(t, "world y", wy, -3)

	p := InverseTranslateVector(cam, TranslateVector(cam, Vec2{7, 8}))
	assertVec2(t, "vector round trip", p, Vec2{7, 8})
}

func TestViewCameraVisibleBounds(t *testing.T) {
	cam := NewViewCamera(Rect{Width: 200, Height: 100})
	cam.X, cam.Y = 50, 50
	cam.Zoom = 2

	got := cam.VisibleBounds()
	want := Rect{X: 0, Y: 25, Width: 100, Height: 50}
	assertNear(t, "X", got.X, want.X)
	assertNear(t, "Y", got.Y, want.Y)
	assertNear(t, "Width", got.Width, want.Width)
	assertNear(t, "Height", got.Height, want.Height)
}

func TestViewCameraScrollTo(t *testing.T) {
	cam := NewViewCamera(Rect{Width: 100, Height: 100})
	cam.ScrollTo(100, -50, 1, ease.Linear)
	if !cam.Scrolling() {
		t.Fatal("Scrolling = false after ScrollTo")
	}

	cam.Update(0.5)
	if math.Abs(cam.X-50) > 1e-3 || math.Abs(cam.Y+25) > 1e-3 {
		t.Errorf("halfway = (%v,%v), want (50,-25)", cam.X, cam.Y)
	}
	cam.Update(0.6)
	if cam.Scrolling() {
		t.Error("Scrolling = true after the duration elapsed")
	}
	if math.Abs(cam.X-100) > 1e-3 || math.Abs(cam.Y+50) > 1e-3 {
		t.Errorf("end = (%v,%v), want (100,-50)", cam.X, cam.Y)
	}
}

func TestViewCameraFollow(t *testing.T) {
	target := NewTransform(nil, nil)
	defer target.Destroy()
	parent := NewTransform(nil, nil)
	defer parent.Destroy()
	if err := target.SetParent(parent); err != nil {
		t.Fatal(err)
	}
	parent.SetPosition(Vec2{100, 0})
	target.SetPosition(Vec2{0, 40})

	cam := NewViewCamera(Rect{Width: 100, Height: 100})
	cam.Follow(target, 5, 0, 1)
	cam.Update(1.0 / 60)
	assertNear(t, "X", cam.X, 105)
	assertNear(t, "Y", cam.Y, 40)

	cam.Follow(target, 0, 0, 0.5)
	target.SetPosition(Vec2{0, 0})
	cam.Update(1.0 / 60)
	assertNear(t, "lerped X", cam.X, 102.5)
	assertNear(t, "lerped Y", cam.Y, 20)

	target.Destroy()
	cam.Update(1.0 / 60)
	assertNear(t, "X after target destroyed", cam.X, 102.5)

	cam.Follow(parent, 0, 0, 1)
	cam.Unfollow()
	cam.Update(1.0 / 60)
	assertNear(t, "X after Unfollow", cam.X, 102.5)
}

func TestViewCameraBounds(t *testing.T) {
	cam := NewViewCamera(Rect{Width: 100, Height: 100})
	cam.SetBounds(Rect{X: 0, Y: 0, Width: 300, Height: 80})
	cam.X, cam.Y = -500, 10
	cam.Update(0)

	// Half the viewport is 50 world units.
	assertNear(t, "X", cam.X, 50)
	// Bounds shorter than the view center the camera.
	assertNear(t, "Y", cam.Y, 40)

	cam.ClearBounds()
	cam.X = -500
	cam.Update(0)
	assertNear(t, "X unclamped", cam.X, -500)
}

func TestFixedCamera(t *testing.T) {
	cam := FixedCamera(ScaleAffine(2, 3))
	assertVec2(t, "TranslateVector", TranslateVector(cam, Vec2{1, 1}), Vec2{2, 3})
	assertVec2(t, "InverseTranslateVector", InverseTranslateVector(cam, Vec2{2, 3}), Vec2{1, 1})
}
