package renderer

import (
	"fmt"
)

func (r *WorldRenderer) VisibleSize() string {
	r.visibleMu.Lock()
	defer r.visibleMu.Unlock()
	return r.visible.SizeString()
}

// LoadedMeshesSize counts meshes, not chunks.
func (r *WorldRenderer) LoadedMeshesSize() int {
	release := r.locks.acquire(lockLoadedMeshes)
	defer release()
	n := 0
	for _, meshes := range r.loadedMeshes {
		n += len(meshes)
	}
	return n
}

func (r *WorldRenderer) CulledQueuedSize() int {
	release := r.locks.acquire(lockCulledQueue)
	defer release()
	n := 0
	for el := r.culledQueue.Front(); el != nil; el = el.Next() {
		n += len(el.Value)
	}
	return n
}

func (r *WorldRenderer) QueueSize() int {
	release := r.locks.acquire(lockQueue)
	defer release()
	return len(r.queue)
}

func (r *WorldRenderer) PreparingTasksSize() int {
	release := r.locks.acquire(lockPreparingTasks)
	defer release()
	return len(r.preparingTasks)
}

func (r *WorldRenderer) MaxPreparingTasks() int {
	return r.maxPreparingTasks
}

// RunningWorkers is the number of busy pool workers, always 0 with a custom executor.
func (r *WorldRenderer) RunningWorkers() int64 {
	if r.pool == nil {
		return 0
	}
	return r.pool.RunningWorkers()
}

func (r *WorldRenderer) MeshesToLoadSize() int {
	release := r.locks.acquire(lockMeshesToLoad)
	defer release()
	return len(r.meshesToLoad)
}

func (r *WorldRenderer) MeshesToUnloadSize() int {
	release := r.locks.acquire(lockMeshesToUnload)
	defer release()
	return len(r.meshesToUnload)
}

// Stats is a point-in-time snapshot of the scheduler. The sizes are read one at a time
// and may not be mutually consistent.
type Stats struct {
	Visible         string
	LoadedMeshes    int
	CulledQueued    int
	Queued          int
	PreparingTasks  int
	MaxPreparing    int
	MeshesToLoad    int
	MaxMeshesToLoad int
	MeshesToUnload  int
	WorldChunks     int

	Prepared    uint64
	Interrupted uint64
	Failed      uint64
	Released    uint64
}

func (r *WorldRenderer) Stats() Stats {
	return Stats{
		Visible:         r.VisibleSize(),
		LoadedMeshes:    r.LoadedMeshesSize(),
		CulledQueued:    r.CulledQueuedSize(),
		Queued:          r.QueueSize(),
		PreparingTasks:  r.PreparingTasksSize(),
		MaxPreparing:    r.MaxPreparingTasks(),
		MeshesToLoad:    r.MeshesToLoadSize(),
		MaxMeshesToLoad: r.maxMeshesToLoad,
		MeshesToUnload:  r.MeshesToUnloadSize(),
		WorldChunks:     r.world.ChunkCount(),
		Prepared:        r.counters.prepared.Load(),
		Interrupted:     r.counters.interrupted.Load(),
		Failed:          r.counters.failed.Load(),
		Released:        r.counters.released.Load(),
	}
}

// DebugLine formats the stats for the debug overlay.
func (s Stats) DebugLine() string {
	return fmt.Sprintf("C v=%s, m=%d, cQ=%d, q=%d, pT=%d/%d, l=%d/%d, w=%d",
		s.Visible, s.LoadedMeshes, s.CulledQueued, s.Queued,
		s.PreparingTasks, s.MaxPreparing, s.MeshesToLoad, s.MaxMeshesToLoad, s.WorldChunks)
}

func (r *WorldRenderer) DebugLine() string {
	return r.Stats().DebugLine()
}
