package core

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Frustum holds normalized planes in order Left, Right, Bottom, Top, Near, Far.
// Plane normals point inside: Ax + By + Cz + D >= 0 is inside.
type Frustum [6]mgl32.Vec4

// ExtractFrustum derives the frustum planes from a view-projection matrix.
func ExtractFrustum(vp mgl32.Mat4) Frustum {
	var f Frustum
	row := func(r int) mgl32.Vec4 {
		return mgl32.Vec4{vp.At(r, 0), vp.At(r, 1), vp.At(r, 2), vp.At(r, 3)}
	}
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)

	f[0] = r3.Add(r0)
	f[1] = r3.Sub(r0)
	f[2] = r3.Add(r1)
	f[3] = r3.Sub(r1)
	f[4] = r3.Add(r2)
	f[5] = r3.Sub(r2)

	for i := range f {
		length := math32.Sqrt(f[i][0]*f[i][0] + f[i][1]*f[i][1] + f[i][2]*f[i][2])
		if length > 0 {
			f[i] = f[i].Mul(1.0 / length)
		}
	}
	return f
}

// ContainsAABB reports whether the box is at least partially inside.
func (f *Frustum) ContainsAABB(min, max mgl32.Vec3) bool {
	for _, plane := range f {
		// vertex furthest along the normal
		p := min
		if plane[0] > 0 {
			p[0] = max[0]
		}
		if plane[1] > 0 {
			p[1] = max[1]
		}
		if plane[2] > 0 {
			p[2] = max[2]
		}
		if plane[0]*p[0]+plane[1]*p[1]+plane[2]*p[2]+plane[3] < 0 {
			return false
		}
	}
	return true
}
