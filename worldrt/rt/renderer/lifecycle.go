package renderer

import (
	"github.com/elliotchance/orderedmap/v2"

	"github.com/gekko3d/worldmesh/worldrt/rt/coords"
)

// UnloadChunk forgets all sections of a chunk and schedules its meshes for unload.
func (r *WorldRenderer) UnloadChunk(pos coords.ChunkPosition) {
	release := r.locks.acquire(allLocks...)
	defer release()
	r.evictLocked(func(p coords.ChunkPosition) bool { return p == pos })
}

// UnloadWorld drops all queued work and schedules every loaded mesh for unload.
func (r *WorldRenderer) UnloadWorld() {
	release := r.locks.acquire(allLocks...)
	for _, meshes := range r.loadedMeshes {
		for _, m := range meshes {
			r.meshesToUnload = append(r.meshesToUnload, m)
		}
	}
	clear(r.loadedMeshes)
	r.culledQueue = orderedmap.NewOrderedMap[coords.ChunkPosition, map[int]struct{}]()
	r.queue = nil
	r.meshesToLoad = nil
	r.interruptLocked(func(*SectionPrepareTask) bool { return true })
	release()

	r.clearVisibleNextFrame.Store(true)
}

// PrepareWorld queues every loaded chunk of the world.
func (r *WorldRenderer) PrepareWorld() {
	for _, chunk := range r.world.Chunks() {
		r.QueueChunk(chunk.Position, chunk)
	}
}

// ClearChunkCache tears down and rebuilds all meshes.
func (r *WorldRenderer) ClearChunkCache() {
	r.UnloadWorld()
	r.PrepareWorld()
	r.logger.Infof("Chunk cache cleared")
}

// SetViewDistance evicts everything outside a smaller radius, or rescans the world for
// a larger one.
func (r *WorldRenderer) SetViewDistance(viewDistance int) {
	previous := int(r.viewDistance.Swap(int64(viewDistance)))
	switch {
	case viewDistance < previous:
		center := r.cameraChunkPosition()
		release := r.locks.acquire(allLocks...)
		r.evictLocked(func(p coords.ChunkPosition) bool { return !p.InViewDistance(center, viewDistance) })
		release()
		r.logger.Debugf("View distance shrunk %d -> %d", previous, viewDistance)
	case viewDistance > previous:
		r.PrepareWorld()
	}
}

func (r *WorldRenderer) ViewDistance() int {
	return int(r.viewDistance.Load())
}

// SetRenderingState unloads the world when pausing and rebuilds it when resuming.
func (r *WorldRenderer) SetRenderingState(state RenderingState) {
	previous := RenderingState(r.renderingState.Swap(uint32(state)))
	if previous == state {
		return
	}
	if state == Paused {
		r.UnloadWorld()
	} else if previous == Paused {
		r.PrepareWorld()
	}
}

func (r *WorldRenderer) RenderingState() RenderingState {
	return RenderingState(r.renderingState.Load())
}
