package block

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/worldmesh/worldrt/rt/coords"
)

var faceShade = [6]float32{0.5, 1.0, 0.8, 0.8, 0.6, 0.6}

var quadUVs = [4]mgl32.Vec2{{0, 1}, {1, 1}, {1, 0}, {0, 0}}

// Cuboid builds and bakes a single box model spanning from..to in block units.
func Cuboid(from, to mgl32.Vec3, layer Transparency) *BakedModel {
	f, t := from, to
	quads := [6][4]mgl32.Vec3{
		coords.Down:  {{f[0], f[1], f[2]}, {t[0], f[1], f[2]}, {t[0], f[1], t[2]}, {f[0], f[1], t[2]}},
		coords.Up:    {{f[0], t[1], t[2]}, {t[0], t[1], t[2]}, {t[0], t[1], f[2]}, {f[0], t[1], f[2]}},
		coords.North: {{t[0], f[1], f[2]}, {f[0], f[1], f[2]}, {f[0], t[1], f[2]}, {t[0], t[1], f[2]}},
		coords.South: {{f[0], f[1], t[2]}, {t[0], f[1], t[2]}, {t[0], t[1], t[2]}, {f[0], t[1], t[2]}},
		coords.West:  {{f[0], f[1], f[2]}, {f[0], f[1], t[2]}, {f[0], t[1], t[2]}, {f[0], t[1], f[2]}},
		coords.East:  {{t[0], f[1], t[2]}, {t[0], f[1], f[2]}, {t[0], t[1], f[2]}, {t[0], t[1], t[2]}},
	}
	m := &BakedModel{}
	for _, dir := range coords.Directions {
		m.Faces[dir] = []BakedFace{{
			Positions: quads[dir],
			UVs:       quadUVs,
			Shade:     faceShade[dir],
			TintIndex: -1,
			Layer:     layer,
		}}
	}
	m.Bake()
	return m
}

// FullCube is a 1x1x1 cuboid.
func FullCube(layer Transparency) *BakedModel {
	return Cuboid(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 1, 1}, layer)
}
