package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestFrustumContainsAABB(t *testing.T) {
	// camera at origin looking down -Z, 90 deg fov, near 1, far 100
	proj := mgl32.Perspective(mgl32.DegToRad(90), 1.0, 1.0, 100.0)
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0})
	f := ExtractFrustum(proj.Mul4(view))

	tests := []struct {
		name     string
		min, max mgl32.Vec3
		expected bool
	}{
		{"inside", mgl32.Vec3{-1, -1, -10}, mgl32.Vec3{1, 1, -5}, true},
		{"left of view", mgl32.Vec3{-20, -1, -10}, mgl32.Vec3{-15, 1, -5}, false},
		{"below view", mgl32.Vec3{-1, -20, -10}, mgl32.Vec3{1, -15, -5}, false},
		{"behind camera", mgl32.Vec3{-1, -1, 2}, mgl32.Vec3{1, 1, 5}, false},
		{"beyond far plane", mgl32.Vec3{-1, -1, -200}, mgl32.Vec3{1, 1, -150}, false},
		{"crossing left plane", mgl32.Vec3{-15, -1, -10}, mgl32.Vec3{-5, 1, -5}, true},
		{"around the camera", mgl32.Vec3{-8, -8, -8}, mgl32.Vec3{8, 8, 8}, true},
	}

	for _, tc := range tests {
		if got := f.ContainsAABB(tc.min, tc.max); got != tc.expected {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.expected, got)
			center := tc.min.Add(tc.max).Mul(0.5)
			for i, p := range f {
				t.Logf("  P%d: %v, Dist(Center)=%f", i, p, p.Dot(center.Vec4(1.0)))
			}
		}
	}
}

func TestCameraForwardMatchesView(t *testing.T) {
	cam := NewCameraState()
	cam.Position = mgl32.Vec3{0, 0, 0}
	f := ExtractFrustum(cam.ViewProjection(1))

	ahead := cam.GetForward().Mul(10)
	if !f.ContainsAABB(ahead.Sub(mgl32.Vec3{1, 1, 1}), ahead.Add(mgl32.Vec3{1, 1, 1})) {
		t.Error("box ahead of the camera should be inside")
	}
	behind := ahead.Mul(-1)
	if f.ContainsAABB(behind.Sub(mgl32.Vec3{1, 1, 1}), behind.Add(mgl32.Vec3{1, 1, 1})) {
		t.Error("box behind the camera should be outside")
	}
}
