package renderer

import (
	"cmp"
	"slices"

	"github.com/gekko3d/worldmesh/worldrt/rt/coords"
)

// sortQueue puts the camera chunk first, then orders by distance to the camera.
func (r *WorldRenderer) sortQueue() {
	r.cameraMu.RLock()
	camera, cameraChunk := r.cameraPosition, r.cameraChunk
	r.cameraMu.RUnlock()

	release := r.locks.acquire(lockQueue)
	defer release()
	slices.SortStableFunc(r.queue, func(a, b *QueueItem) int {
		ac, bc := a.ChunkPosition == cameraChunk, b.ChunkPosition == cameraChunk
		if ac != bc {
			if ac {
				return -1
			}
			return 1
		}
		da, db := a.Center.Sub(camera), b.Center.Sub(camera)
		return cmp.Compare(da.Dot(da), db.Dot(db))
	})
}

// Callers of the *Locked helpers hold the lock of the collection they touch.

func (r *WorldRenderer) removeQueuedLocked(key coords.SectionKey) {
	r.queue = slices.DeleteFunc(r.queue, func(i *QueueItem) bool { return i.Key() == key })
}

func (r *WorldRenderer) removeMeshToLoadLocked(key coords.SectionKey) {
	r.meshesToLoad = slices.DeleteFunc(r.meshesToLoad, func(i *QueueItem) bool { return i.Key() == key })
}

func (r *WorldRenderer) removeCulledLocked(key coords.SectionKey) {
	heights, ok := r.culledQueue.Get(key.Chunk)
	if !ok {
		return
	}
	delete(heights, key.Height)
	if len(heights) == 0 {
		r.culledQueue.Delete(key.Chunk)
	}
}

func (r *WorldRenderer) interruptLocked(match func(*SectionPrepareTask) bool) int {
	n := 0
	for task := range r.preparingTasks {
		if match(task) {
			task.Interrupt()
			n++
		}
	}
	return n
}

// evictLocked removes every chunk matching evict from all collections. All locks are held.
func (r *WorldRenderer) evictLocked(evict func(coords.ChunkPosition) bool) {
	for pos, meshes := range r.loadedMeshes {
		if !evict(pos) {
			continue
		}
		for _, m := range meshes {
			r.meshesToUnload = append(r.meshesToUnload, m)
		}
		delete(r.loadedMeshes, pos)
	}
	for _, pos := range r.culledQueue.Keys() {
		if evict(pos) {
			r.culledQueue.Delete(pos)
		}
	}
	r.queue = slices.DeleteFunc(r.queue, func(i *QueueItem) bool { return evict(i.ChunkPosition) })
	r.meshesToLoad = slices.DeleteFunc(r.meshesToLoad, func(i *QueueItem) bool { return evict(i.ChunkPosition) })
	r.interruptLocked(func(t *SectionPrepareTask) bool { return evict(t.ChunkPosition) })
}
