package preparer

import (
	"context"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/worldmesh/worldrt/rt/coords"
	"github.com/gekko3d/worldmesh/worldrt/rt/cull"
	"github.com/gekko3d/worldmesh/worldrt/rt/mesh"
	"github.com/gekko3d/worldmesh/worldrt/rt/world"
)

// SolidSectionPreparer emits the block model faces of a section that are not culled.
type SolidSectionPreparer struct{}

func NewSolidSectionPreparer() *SolidSectionPreparer {
	return &SolidSectionPreparer{}
}

// PrepareSolid writes into m and returns ctx.Err() as soon as ctx is cancelled.
func (p *SolidSectionPreparer) PrepareSolid(ctx context.Context, pos coords.ChunkPosition, height int, section *world.ChunkSection, neighbours [6]*world.ChunkSection, m *mesh.WorldMesh) error {
	view := newSectionView(section, neighbours)
	origin := sectionOrigin(pos, height)

	for y := 0; y < coords.SectionHeight; y++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		for z := 0; z < coords.SectionWidth; z++ {
			for x := 0; x < coords.SectionWidth; x++ {
				st := view.at(x, y, z)
				if st == nil || st.Model == nil {
					continue
				}
				offset := origin.Add(mgl32.Vec3{float32(x), float32(y), float32(z)})
				for _, dir := range coords.Directions {
					faces := st.Model.Faces[dir]
					if len(faces) == 0 {
						continue
					}
					neighbour := view.neighbour(x, y, z, dir)
					for i := range faces {
						face := &faces[i]
						if cull.CanCull(st, face, dir, neighbour) {
							continue
						}
						m.Layer(meshLayer(face.Layer)).AddQuad(offset, face.Positions, face.UVs, shaded(st.Block.Color, face.Shade))
					}
				}
			}
		}
	}
	return nil
}
