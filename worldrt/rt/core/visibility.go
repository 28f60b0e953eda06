package core

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sasha-s/go-deadlock"

	"github.com/gekko3d/worldmesh/worldrt/rt/coords"
)

// VisibilityGraph answers chunk and section visibility against the view distance
// and the last camera frustum.
type VisibilityGraph struct {
	mu           deadlock.RWMutex
	frustum      Frustum
	hasFrustum   bool
	cameraChunk  coords.ChunkPosition
	viewDistance int
}

func NewVisibilityGraph(viewDistance int) *VisibilityGraph {
	return &VisibilityGraph{viewDistance: viewDistance}
}

// Update recomputes the frustum and camera chunk from the camera.
func (g *VisibilityGraph) Update(cam *CameraState, aspect float32) {
	f := ExtractFrustum(cam.ViewProjection(aspect))
	g.mu.Lock()
	g.frustum = f
	g.hasFrustum = true
	g.cameraChunk = cam.ChunkPosition()
	g.mu.Unlock()
}

func (g *VisibilityGraph) SetViewDistance(d int) {
	g.mu.Lock()
	g.viewDistance = d
	g.mu.Unlock()
}

func (g *VisibilityGraph) ViewDistance() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.viewDistance
}

func (g *VisibilityGraph) CameraChunk() coords.ChunkPosition {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.cameraChunk
}

func (g *VisibilityGraph) IsChunkVisible(pos coords.ChunkPosition) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return pos.InViewDistance(g.cameraChunk, g.viewDistance)
}

// IsSectionVisible tests a section against the frustum. Strict checks use the
// given block bounds, otherwise the whole section cube is tested.
func (g *VisibilityGraph) IsSectionVisible(pos coords.ChunkPosition, height int, min, max coords.Vec3i, strict bool) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if !pos.InViewDistance(g.cameraChunk, g.viewDistance) {
		return false
	}
	if !g.hasFrustum {
		return true
	}
	base := mgl32.Vec3{
		float32(int(pos.X) * coords.SectionWidth),
		float32(height * coords.SectionHeight),
		float32(int(pos.Z) * coords.SectionWidth),
	}
	lo, hi := base, base.Add(mgl32.Vec3{coords.SectionWidth, coords.SectionHeight, coords.SectionWidth})
	if strict {
		lo = base.Add(mgl32.Vec3{float32(min.X), float32(min.Y), float32(min.Z)})
		hi = base.Add(mgl32.Vec3{float32(max.X + 1), float32(max.Y + 1), float32(max.Z + 1)})
	}
	return g.frustum.ContainsAABB(lo, hi)
}
