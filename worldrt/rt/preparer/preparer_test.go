package preparer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/worldmesh/worldrt/rt/block"
	"github.com/gekko3d/worldmesh/worldrt/rt/coords"
	"github.com/gekko3d/worldmesh/worldrt/rt/mesh"
	"github.com/gekko3d/worldmesh/worldrt/rt/world"
)

const quadVertices = 6

func newMesh() *mesh.WorldMesh {
	return mesh.NewWorldMesh(coords.ChunkPosition{}, 0, coords.Vec3i{}, coords.Vec3i{X: 15, Y: 15, Z: 15})
}

func prepare(t *testing.T, section *world.ChunkSection, neighbours [6]*world.ChunkSection) *mesh.WorldMesh {
	t.Helper()
	m := newMesh()
	require.NoError(t, NewSolidSectionPreparer().PrepareSolid(context.Background(), coords.ChunkPosition{}, 0, section, neighbours, m))
	if section.FluidCount() > 0 {
		require.NoError(t, NewFluidSectionPreparer().PrepareFluid(context.Background(), coords.ChunkPosition{}, 0, section, neighbours, m))
	}
	return m
}

func TestPrepareSolidCullsSharedFaces(t *testing.T) {
	reg := block.DefaultRegistry()
	tests := []struct {
		name   string
		blocks map[coords.Vec3i]string
		layer  mesh.Layer
		quads  int
	}{
		{"single stone", map[coords.Vec3i]string{{X: 4, Y: 4, Z: 4}: block.Stone}, mesh.Opaque, 6},
		{"two stones", map[coords.Vec3i]string{{X: 4, Y: 4, Z: 4}: block.Stone, {X: 5, Y: 4, Z: 4}: block.Dirt}, mesh.Opaque, 10},
		{"glass pair", map[coords.Vec3i]string{{X: 4, Y: 4, Z: 4}: block.Glass, {X: 4, Y: 5, Z: 4}: block.Glass}, mesh.Transparent, 10},
		{"glass and leaves", map[coords.Vec3i]string{{X: 4, Y: 4, Z: 4}: block.Glass, {X: 4, Y: 5, Z: 4}: block.Leaves}, mesh.Transparent, 12},
		{"iron bars never cull", map[coords.Vec3i]string{{X: 4, Y: 4, Z: 4}: block.IronBars, {X: 4, Y: 5, Z: 4}: block.IronBars}, mesh.Transparent, 12},
		{"stone on slab keeps both faces", map[coords.Vec3i]string{{X: 4, Y: 4, Z: 4}: block.StoneSlab, {X: 4, Y: 5, Z: 4}: block.Stone}, mesh.Opaque, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := world.NewChunkSection()
			for p, id := range tt.blocks {
				s.Set(p.X, p.Y, p.Z, reg.Get(id))
			}
			m := prepare(t, s, [6]*world.ChunkSection{})
			assert.Equal(t, tt.quads*quadVertices, m.Layer(tt.layer).VertexCount())
		})
	}
}

func TestPrepareSolidUsesNeighbourSections(t *testing.T) {
	reg := block.DefaultRegistry()
	s := world.NewChunkSection()
	s.Set(15, 0, 0, reg.Get(block.Stone))

	east := world.NewChunkSection()
	east.Set(0, 0, 0, reg.Get(block.Stone))
	below := world.NewChunkSection()
	below.Set(15, 15, 0, reg.Get(block.Stone))

	var neighbours [6]*world.ChunkSection
	neighbours[coords.East] = east
	neighbours[coords.Down] = below

	m := prepare(t, s, neighbours)
	assert.Equal(t, 4*quadVertices, m.Layer(mesh.Opaque).VertexCount())
}

func TestPrepareSolidCancelled(t *testing.T) {
	reg := block.DefaultRegistry()
	s := world.NewChunkSection()
	s.Set(0, 0, 0, reg.Get(block.Stone))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewSolidSectionPreparer().PrepareSolid(ctx, coords.ChunkPosition{}, 0, s, [6]*world.ChunkSection{}, newMesh())
	assert.ErrorIs(t, err, context.Canceled)

	err = NewFluidSectionPreparer().PrepareFluid(ctx, coords.ChunkPosition{}, 0, s, [6]*world.ChunkSection{}, newMesh())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPrepareFluid(t *testing.T) {
	reg := block.DefaultRegistry()
	water := reg.Get(block.Water)

	s := world.NewChunkSection()
	s.Set(2, 2, 2, water)
	m := prepare(t, s, [6]*world.ChunkSection{})
	assert.Equal(t, 6*quadVertices, m.Layer(mesh.Translucent).VertexCount())
	assert.Equal(t, 0, m.Layer(mesh.Opaque).VertexCount())

	// surface sits at the fluid level
	data := m.Layer(mesh.Translucent).Data()
	maxY := float32(0)
	for i := 1; i < len(data); i += mesh.FloatsPerVertex {
		maxY = max(maxY, data[i])
	}
	assert.InDelta(t, 2+water.FluidLevel, maxY, 1e-6)

	// a column of water only shows one top, and stone below hides the bottom
	s.Set(2, 3, 2, water)
	s.Set(2, 1, 2, reg.Get(block.Stone))
	m = prepare(t, s, [6]*world.ChunkSection{})
	fluidQuads := 4 + 4 + 1
	assert.Equal(t, fluidQuads*quadVertices, m.Layer(mesh.Translucent).VertexCount())
}
