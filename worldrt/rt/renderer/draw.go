package renderer

import (
	"time"

	"github.com/gekko3d/worldmesh/worldrt/rt/coords"
	"github.com/gekko3d/worldmesh/worldrt/rt/mesh"
)

var fullSectionMax = coords.Vec3i{X: coords.SectionMax, Y: coords.SectionMax, Z: coords.SectionMax}

// PrepareDraw runs the per-frame unload and load steps. Render thread only.
func (r *WorldRenderer) PrepareDraw() {
	if r.clearVisibleNextFrame.Swap(false) {
		r.visibleMu.Lock()
		r.visible.Clear()
		r.visibleMu.Unlock()
	}
	r.unloadMeshes()
	// loading frees room in a full load queue
	if r.loadMeshes() > 0 {
		r.workQueue()
	}
}

func (r *WorldRenderer) frameBudget() time.Duration {
	if r.camera.Moving() {
		return r.opts.MovingBudget
	}
	return r.opts.IdleBudget
}

// loadMeshes uploads queued meshes in FIFO order until the frame budget is spent.
// At least one mesh is loaded per call if any is queued.
func (r *WorldRenderer) loadMeshes() int {
	budget := r.frameBudget()
	start := r.clock.Now()
	loaded := 0
	changed := false

	for {
		release := r.locks.acquire(lockLoadedMeshes, lockMeshesToLoad, lockMeshesToUnload)
		if len(r.meshesToLoad) == 0 {
			release()
			break
		}
		item := r.meshesToLoad[0]
		r.meshesToLoad[0] = nil
		r.meshesToLoad = r.meshesToLoad[1:]

		m := item.Mesh
		if err := m.Load(r.uploader); err != nil {
			release()
			r.counters.failed.Add(1)
			r.logger.Warnf("Dropping mesh for section %v: %v", item.Key(), err)
		} else {
			meshes := r.loadedMeshes[item.ChunkPosition]
			if meshes == nil {
				meshes = make(map[int]*mesh.WorldMesh)
				r.loadedMeshes[item.ChunkPosition] = meshes
			}
			old := meshes[item.SectionHeight]
			if old != nil {
				r.meshesToUnload = append(r.meshesToUnload, old)
			}
			meshes[item.SectionHeight] = m
			release()

			r.visibleMu.Lock()
			if old != nil {
				r.visible.RemoveMesh(old)
			}
			if r.graph.IsSectionVisible(item.ChunkPosition, item.SectionHeight, m.MinPosition, m.MaxPosition, true) {
				r.visible.AddMesh(m)
				changed = true
			}
			r.visibleMu.Unlock()
		}
		loaded++
		if r.clock.Now().Sub(start) >= budget {
			break
		}
	}
	if changed {
		r.visibleMu.Lock()
		r.visible.Sort()
		r.visibleMu.Unlock()
	}
	return loaded
}

// unloadMeshes releases queued meshes until the frame budget is spent, at least one per call.
func (r *WorldRenderer) unloadMeshes() int {
	budget := r.frameBudget()
	start := r.clock.Now()
	unloaded := 0

	for {
		release := r.locks.acquire(lockMeshesToUnload)
		if len(r.meshesToUnload) == 0 {
			release()
			break
		}
		m := r.meshesToUnload[0]
		r.meshesToUnload[0] = nil
		r.meshesToUnload = r.meshesToUnload[1:]
		release()

		r.visibleMu.Lock()
		r.visible.RemoveMesh(m)
		r.visibleMu.Unlock()
		if m.Unload() {
			r.counters.released.Add(1)
		}
		unloaded++
		if r.clock.Now().Sub(start) >= budget {
			break
		}
	}
	return unloaded
}

func (r *WorldRenderer) DrawOpaque(target mesh.DrawTarget) {
	r.visibleMu.Lock()
	defer r.visibleMu.Unlock()
	r.visible.Draw(target, mesh.Opaque)
}

func (r *WorldRenderer) DrawTranslucent(target mesh.DrawTarget) {
	r.visibleMu.Lock()
	defer r.visibleMu.Unlock()
	r.visible.Draw(target, mesh.Translucent)
}

// DrawTransparent also draws text layers.
func (r *WorldRenderer) DrawTransparent(target mesh.DrawTarget) {
	r.visibleMu.Lock()
	defer r.visibleMu.Unlock()
	r.visible.Draw(target, mesh.Transparent)
	r.visible.Draw(target, mesh.Text)
}

func (r *WorldRenderer) setVisible(v *mesh.VisibleMeshes) {
	r.visibleMu.Lock()
	r.visible = v
	r.visibleMu.Unlock()
}

// OnFrustumChange rebuilds the visible set from the loaded meshes and promotes culled
// sections that came into view.
func (r *WorldRenderer) OnFrustumChange() {
	r.updateCamera()
	visible := mesh.NewVisibleMeshes(r.cameraSnapshot())

	release := r.locks.acquire(lockLoadedMeshes)
	for pos, meshes := range r.loadedMeshes {
		if !r.graph.IsChunkVisible(pos) {
			continue
		}
		for height, m := range meshes {
			if r.graph.IsSectionVisible(pos, height, m.MinPosition, m.MaxPosition, false) {
				visible.AddMesh(m)
			}
		}
	}
	release()
	visible.Sort()
	r.setVisible(visible)

	var promote []coords.SectionKey
	release = r.locks.acquire(lockCulledQueue)
	for el := r.culledQueue.Front(); el != nil; el = el.Next() {
		if !r.graph.IsChunkVisible(el.Key) {
			continue
		}
		for height := range el.Value {
			if r.graph.IsSectionVisible(el.Key, height, coords.Vec3i{}, fullSectionMax, false) {
				promote = append(promote, coords.SectionKey{Chunk: el.Key, Height: height})
			}
		}
	}
	release()

	queued := 0
	for _, key := range promote {
		if r.promote(key) {
			queued++
		}
	}
	r.sortQueue()
	if queued > 0 {
		r.workQueue()
	}
}

// promote moves a culled section to the work queue, dropping it if it cannot be queued.
func (r *WorldRenderer) promote(key coords.SectionKey) bool {
	if chunk := r.world.Chunk(key.Chunk); chunk != nil {
		if section := chunk.Section(key.Height); section != nil {
			if r.internalQueueSection(key.Chunk, key.Height, chunk, section, true) {
				return true
			}
		}
	}
	release := r.locks.acquire(lockCulledQueue)
	r.removeCulledLocked(key)
	release()
	return false
}
