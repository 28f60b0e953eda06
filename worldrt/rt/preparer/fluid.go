package preparer

import (
	"context"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/worldmesh/worldrt/rt/block"
	"github.com/gekko3d/worldmesh/worldrt/rt/coords"
	"github.com/gekko3d/worldmesh/worldrt/rt/cull"
	"github.com/gekko3d/worldmesh/worldrt/rt/mesh"
	"github.com/gekko3d/worldmesh/worldrt/rt/world"
)

const minFluidHeight = 1.0 / 16.0

var fluidShade = [6]float32{0.5, 1.0, 0.8, 0.8, 0.6, 0.6}

var fullSide = block.FaceProperties{End: mgl32.Vec2{1, 1}}

// FluidSectionPreparer emits fluid surfaces into the translucent layer.
type FluidSectionPreparer struct{}

func NewFluidSectionPreparer() *FluidSectionPreparer {
	return &FluidSectionPreparer{}
}

func (p *FluidSectionPreparer) PrepareFluid(ctx context.Context, pos coords.ChunkPosition, height int, section *world.ChunkSection, neighbours [6]*world.ChunkSection, m *mesh.WorldMesh) error {
	view := newSectionView(section, neighbours)
	origin := sectionOrigin(pos, height)
	out := m.Layer(mesh.Translucent)

	for y := 0; y < coords.SectionHeight; y++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		for z := 0; z < coords.SectionWidth; z++ {
			for x := 0; x < coords.SectionWidth; x++ {
				st := view.at(x, y, z)
				if !st.IsFluid() {
					continue
				}
				top := math32.Min(math32.Max(st.FluidLevel, minFluidHeight), 1)
				above := view.neighbour(x, y, z, coords.Up)
				if sameFluid(st, above) {
					top = 1
				}
				offset := origin.Add(mgl32.Vec3{float32(x), float32(y), float32(z)})
				for _, dir := range coords.Directions {
					n := view.neighbour(x, y, z, dir)
					if sameFluid(st, n) || hidesFluid(n, dir) {
						continue
					}
					color := mgl32.Vec4{st.FluidTint[0], st.FluidTint[1], st.FluidTint[2], 1}
					if st.Block != nil {
						color[3] = st.Block.Color[3]
					}
					shade := fluidShade[dir]
					color = mgl32.Vec4{color[0] * shade, color[1] * shade, color[2] * shade, color[3]}
					out.AddQuad(offset, fluidQuad(dir, top), fluidUVs(dir, top), color)
				}
			}
		}
	}
	return nil
}

func sameFluid(st, other *block.State) bool {
	return other.IsFluid() && other.Fluid == st.Fluid
}

// hidesFluid reports whether n fully covers its side facing back at the fluid.
func hidesFluid(n *block.State, dir coords.Direction) bool {
	side := n.Side(dir.Inverted())
	return side != nil && side.Transparency == block.Opaque && cull.IsCovered(fullSide, side)
}

func fluidQuad(dir coords.Direction, top float32) [4]mgl32.Vec3 {
	switch dir {
	case coords.Down:
		return [4]mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}}
	case coords.Up:
		return [4]mgl32.Vec3{{0, top, 1}, {1, top, 1}, {1, top, 0}, {0, top, 0}}
	case coords.North:
		return [4]mgl32.Vec3{{1, 0, 0}, {0, 0, 0}, {0, top, 0}, {1, top, 0}}
	case coords.South:
		return [4]mgl32.Vec3{{0, 0, 1}, {1, 0, 1}, {1, top, 1}, {0, top, 1}}
	case coords.West:
		return [4]mgl32.Vec3{{0, 0, 0}, {0, 0, 1}, {0, top, 1}, {0, top, 0}}
	default:
		return [4]mgl32.Vec3{{1, 0, 1}, {1, 0, 0}, {1, top, 0}, {1, top, 1}}
	}
}

func fluidUVs(dir coords.Direction, top float32) [4]mgl32.Vec2 {
	if !dir.Horizontal() {
		return [4]mgl32.Vec2{{0, 1}, {1, 1}, {1, 0}, {0, 0}}
	}
	v := 1 - top
	return [4]mgl32.Vec2{{0, 1}, {1, 1}, {1, v}, {0, v}}
}
