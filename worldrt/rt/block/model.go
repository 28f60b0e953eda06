package block

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/worldmesh/worldrt/rt/coords"
)

// FaceProperties is the rectangle a face occupies on the block boundary, in the 2-D
// coordinates of that side.
type FaceProperties struct {
	Start        mgl32.Vec2
	End          mgl32.Vec2
	Transparency Transparency
}

func (p FaceProperties) Area() float32 {
	return (p.End.X() - p.Start.X()) * (p.End.Y() - p.Start.Y())
}

// SideProperties collects every face rectangle a model exposes on one side.
type SideProperties struct {
	Faces        []FaceProperties
	Transparency Transparency
}

type BakedFace struct {
	Positions [4]mgl32.Vec3
	UVs       [4]mgl32.Vec2
	Shade     float32
	TintIndex int
	Layer     Transparency
	// Properties is nil when the face does not touch the block boundary.
	Properties *FaceProperties
}

type BakedModel struct {
	Faces [6][]BakedFace
	Sides [6]*SideProperties
}

// sidePlane projects block local positions onto the 2-D plane of a side.
func sidePlane(dir coords.Direction, p mgl32.Vec3) mgl32.Vec2 {
	switch dir {
	case coords.Down, coords.Up:
		return mgl32.Vec2{p.X(), p.Z()}
	case coords.North, coords.South:
		return mgl32.Vec2{p.X(), p.Y()}
	default:
		return mgl32.Vec2{p.Z(), p.Y()}
	}
}

// touchesBoundary reports whether every vertex lies on the block boundary for dir.
func touchesBoundary(dir coords.Direction, positions [4]mgl32.Vec3) bool {
	var axis int
	var want float32
	switch dir {
	case coords.Down:
		axis, want = 1, 0
	case coords.Up:
		axis, want = 1, 1
	case coords.North:
		axis, want = 2, 0
	case coords.South:
		axis, want = 2, 1
	case coords.West:
		axis, want = 0, 0
	case coords.East:
		axis, want = 0, 1
	}
	for _, p := range positions {
		if p[axis] != want {
			return false
		}
	}
	return true
}

// Bake fills in face properties and side properties from the raw face geometry.
func (m *BakedModel) Bake() {
	for _, dir := range coords.Directions {
		var props []FaceProperties
		for i := range m.Faces[dir] {
			face := &m.Faces[dir][i]
			if !touchesBoundary(dir, face.Positions) {
				face.Properties = nil
				continue
			}
			lo := sidePlane(dir, face.Positions[0])
			hi := lo
			for _, p := range face.Positions[1:] {
				v := sidePlane(dir, p)
				lo = mgl32.Vec2{min(lo.X(), v.X()), min(lo.Y(), v.Y())}
				hi = mgl32.Vec2{max(hi.X(), v.X()), max(hi.Y(), v.Y())}
			}
			face.Properties = &FaceProperties{Start: lo, End: hi, Transparency: face.Layer}
			props = append(props, *face.Properties)
		}
		if len(props) == 0 {
			m.Sides[dir] = nil
			continue
		}
		m.Sides[dir] = &SideProperties{Faces: props, Transparency: props[0].Transparency}
	}
}
