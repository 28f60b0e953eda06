package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"github.com/gekko3d/worldmesh/worldrt/rt/coords"
)

var fullSection = coords.Vec3i{X: 15, Y: 15, Z: 15}

func TestVisibilityGraphViewDistance(t *testing.T) {
	g := NewVisibilityGraph(2)
	assert.True(t, g.IsChunkVisible(coords.ChunkPosition{X: 2, Z: -2}))
	assert.False(t, g.IsChunkVisible(coords.ChunkPosition{X: 3, Z: 0}))

	// no frustum yet: everything in range is visible
	assert.True(t, g.IsSectionVisible(coords.ChunkPosition{X: 1}, 0, coords.Vec3i{}, fullSection, true))

	g.SetViewDistance(3)
	assert.True(t, g.IsChunkVisible(coords.ChunkPosition{X: 3, Z: 0}))
	assert.Equal(t, 3, g.ViewDistance())
}

func TestVisibilityGraphFrustum(t *testing.T) {
	cam := NewCameraState()
	cam.Position = mgl32.Vec3{8, 8, 8}
	g := NewVisibilityGraph(8)
	g.Update(cam, 1)

	assert.Equal(t, coords.ChunkPosition{}, g.CameraChunk())
	// camera looks towards -Z
	assert.True(t, g.IsSectionVisible(coords.ChunkPosition{Z: -2}, 0, coords.Vec3i{}, fullSection, false))
	assert.False(t, g.IsSectionVisible(coords.ChunkPosition{Z: 3}, 0, coords.Vec3i{}, fullSection, false))
	// own section always contains the eye
	assert.True(t, g.IsSectionVisible(coords.ChunkPosition{}, 0, coords.Vec3i{}, fullSection, true))
}

func TestVisibilityGraphStrictBounds(t *testing.T) {
	cam := NewCameraState()
	cam.Position = mgl32.Vec3{8, 8, -8}
	cam.Pitch = mgl32.DegToRad(89)
	g := NewVisibilityGraph(8)
	g.Update(cam, 1)

	// looking straight up: the section below is only visible as a whole cube
	below := coords.ChunkPosition{Z: -1}
	assert.True(t, g.IsSectionVisible(below, 0, coords.Vec3i{}, fullSection, false))
	assert.False(t, g.IsSectionVisible(below, 0, coords.Vec3i{}, coords.Vec3i{X: 15, Y: 2, Z: 15}, true))
}
