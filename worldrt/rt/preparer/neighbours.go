package preparer

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/worldmesh/worldrt/rt/block"
	"github.com/gekko3d/worldmesh/worldrt/rt/coords"
	"github.com/gekko3d/worldmesh/worldrt/rt/mesh"
	"github.com/gekko3d/worldmesh/worldrt/rt/world"
)

// sectionView is a consistent snapshot of a section and its six neighbours.
type sectionView struct {
	blocks     world.SectionBlocks
	neighbours [6]*world.SectionBlocks
}

func newSectionView(section *world.ChunkSection, neighbours [6]*world.ChunkSection) *sectionView {
	v := &sectionView{blocks: section.Blocks()}
	for i, n := range neighbours {
		if n == nil {
			continue
		}
		b := n.Blocks()
		v.neighbours[i] = &b
	}
	return v
}

func (v *sectionView) at(x, y, z int) *block.State {
	return v.blocks[coords.SectionIndex(x, y, z)]
}

// neighbour returns the state next to (x, y, z) in dir, crossing into the adjacent
// section when needed. Missing sections yield nil.
func (v *sectionView) neighbour(x, y, z int, dir coords.Direction) *block.State {
	d := dir.Vector()
	nx, ny, nz := x+d.X, y+d.Y, z+d.Z
	if nx >= 0 && nx < coords.SectionWidth && ny >= 0 && ny < coords.SectionHeight && nz >= 0 && nz < coords.SectionWidth {
		return v.blocks[coords.SectionIndex(nx, ny, nz)]
	}
	other := v.neighbours[dir]
	if other == nil {
		return nil
	}
	return other[coords.SectionIndex(nx&coords.SectionMax, ny&coords.SectionMax, nz&coords.SectionMax)]
}

func sectionOrigin(pos coords.ChunkPosition, height int) mgl32.Vec3 {
	return mgl32.Vec3{
		float32(int(pos.X) * coords.SectionWidth),
		float32(height * coords.SectionHeight),
		float32(int(pos.Z) * coords.SectionWidth),
	}
}

func meshLayer(t block.Transparency) mesh.Layer {
	switch t {
	case block.Transparent:
		return mesh.Transparent
	case block.Translucent:
		return mesh.Translucent
	}
	return mesh.Opaque
}

func shaded(c [4]float32, shade float32) mgl32.Vec4 {
	return mgl32.Vec4{c[0] * shade, c[1] * shade, c[2] * shade, c[3]}
}
