package renderer

import (
	"context"
	"sync/atomic"

	"github.com/chewxy/math32"
	"github.com/elliotchance/orderedmap/v2"
	"github.com/getsentry/sentry-go"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/sasha-s/go-deadlock"

	"github.com/gekko3d/worldmesh/worldrt/rt/coords"
	"github.com/gekko3d/worldmesh/worldrt/rt/mesh"
	"github.com/gekko3d/worldmesh/worldrt/rt/preparer"
	"github.com/gekko3d/worldmesh/worldrt/rt/world"
)

type RenderingState uint32

const (
	Running RenderingState = iota
	Slow
	Paused
)

// WorldRenderer schedules section meshing on background workers and keeps the set of
// loaded meshes in line with the world, the view distance and the camera frustum.
//
// Queue state is kept in six collections, each behind its own lock. Locks are always
// taken in the order of lockLevel.
type WorldRenderer struct {
	world    *world.World
	graph    VisibilityGraph
	camera   Camera
	uploader mesh.Uploader
	solid    *preparer.SolidSectionPreparer
	fluid    *preparer.FluidSectionPreparer
	executor Executor
	pool     *PoolExecutor
	logger   Logger
	clock    Clock
	opts     Options

	maxPreparingTasks int
	maxMeshesToLoad   int

	locks          orderedLocks
	loadedMeshes   map[coords.ChunkPosition]map[int]*mesh.WorldMesh
	queue          []*QueueItem
	culledQueue    *orderedmap.OrderedMap[coords.ChunkPosition, map[int]struct{}]
	meshesToLoad   []*QueueItem
	meshesToUnload []*mesh.WorldMesh
	preparingTasks map[*SectionPrepareTask]struct{}

	visibleMu             deadlock.Mutex
	visible               *mesh.VisibleMeshes
	clearVisibleNextFrame atomic.Bool

	cameraMu       deadlock.RWMutex
	cameraPosition mgl32.Vec3
	cameraChunk    coords.ChunkPosition

	viewDistance   atomic.Int64
	renderingState atomic.Uint32
	loadQueueFull  atomic.Bool
	counters       counters
}

type counters struct {
	prepared    atomic.Uint64
	interrupted atomic.Uint64
	failed      atomic.Uint64
	released    atomic.Uint64
}

func New(w *world.World, graph VisibilityGraph, camera Camera, uploader mesh.Uploader, opts Options) *WorldRenderer {
	opts = opts.withDefaults()
	r := &WorldRenderer{
		world:             w,
		graph:             graph,
		camera:            camera,
		uploader:          uploader,
		solid:             preparer.NewSolidSectionPreparer(),
		fluid:             preparer.NewFluidSectionPreparer(),
		executor:          opts.Executor,
		logger:            opts.Logger,
		clock:             opts.Clock,
		opts:              opts,
		maxPreparingTasks: maxPreparingTasks(opts.Workers),
		maxMeshesToLoad:   opts.MaxMeshesToLoad,
		loadedMeshes:      make(map[coords.ChunkPosition]map[int]*mesh.WorldMesh),
		culledQueue:       orderedmap.NewOrderedMap[coords.ChunkPosition, map[int]struct{}](),
		preparingTasks:    make(map[*SectionPrepareTask]struct{}),
	}
	r.locks.checks = opts.LockChecks
	if r.executor == nil {
		r.pool = NewPoolExecutor(opts.Workers, opts.Logger)
		r.executor = r.pool
	}
	r.viewDistance.Store(int64(opts.ViewDistance))
	r.updateCamera()
	r.visible = mesh.NewVisibleMeshes(r.cameraPosition)
	return r
}

// Close stops scheduling, interrupts all tasks and releases every mesh.
// Must be called from the render thread.
func (r *WorldRenderer) Close() {
	r.UnloadWorld()
	if r.pool != nil {
		r.pool.StopAndWait()
	}
	release := r.locks.acquire(lockMeshesToLoad, lockMeshesToUnload)
	pending := r.meshesToUnload
	r.meshesToUnload = nil
	r.meshesToLoad = nil
	release()
	for _, m := range pending {
		if m.Unload() {
			r.counters.released.Add(1)
		}
	}
	r.setVisible(mesh.NewVisibleMeshes(r.cameraSnapshot()))
}

func (r *WorldRenderer) updateCamera() {
	p := r.camera.CameraPosition()
	chunk := coords.ChunkOf(coords.BlockPosition{
		X: int(math32.Floor(p.X())),
		Y: int(math32.Floor(p.Y())),
		Z: int(math32.Floor(p.Z())),
	})
	r.cameraMu.Lock()
	r.cameraPosition = p
	r.cameraChunk = chunk
	r.cameraMu.Unlock()
}

func (r *WorldRenderer) cameraSnapshot() mgl32.Vec3 {
	r.cameraMu.RLock()
	defer r.cameraMu.RUnlock()
	return r.cameraPosition
}

func (r *WorldRenderer) cameraChunkPosition() coords.ChunkPosition {
	r.cameraMu.RLock()
	defer r.cameraMu.RUnlock()
	return r.cameraChunk
}

func (r *WorldRenderer) isCameraChunk(pos coords.ChunkPosition) bool {
	return r.cameraChunkPosition() == pos
}

func (r *WorldRenderer) paused() bool {
	return RenderingState(r.renderingState.Load()) == Paused
}

// QueueSection (re)builds one section of a loaded chunk.
func (r *WorldRenderer) QueueSection(pos coords.ChunkPosition, height int) {
	r.queueSection(pos, height, nil, nil, false)
}

func (r *WorldRenderer) queueSection(pos coords.ChunkPosition, height int, chunk *world.Chunk, section *world.ChunkSection, ignoreFrustum bool) {
	if chunk == nil {
		chunk = r.world.Chunk(pos)
	}
	if chunk == nil {
		return
	}
	if section == nil {
		section = chunk.Section(height)
	}
	if section == nil || r.paused() {
		return
	}
	if r.internalQueueSection(pos, height, chunk, section, ignoreFrustum) {
		r.sortQueue()
		r.workQueue()
	}
}

// QueueChunk queues every section of a fully loaded chunk that has no meshes yet.
// Chunks already in the mesh table are skipped, which also ignores light-only updates.
func (r *WorldRenderer) QueueChunk(pos coords.ChunkPosition, chunk *world.Chunk) {
	if chunk == nil {
		chunk = r.world.Chunk(pos)
	}
	if chunk == nil || !chunk.IsFullyLoaded() || r.paused() {
		return
	}
	release := r.locks.acquire(lockLoadedMeshes)
	_, loaded := r.loadedMeshes[pos]
	release()
	if loaded {
		return
	}

	queued := 0
	for height := chunk.LowestSection(); height <= chunk.HighestSection(); height++ {
		section := chunk.Section(height)
		if section == nil {
			continue
		}
		if r.internalQueueSection(pos, height, chunk, section, false) {
			queued++
		}
	}
	if queued > 0 {
		r.sortQueue()
		r.workQueue()
	}
}

// queueSections queues a batch of sections with a single sort and dispatch.
func (r *WorldRenderer) queueSections(keys []coords.SectionKey) {
	if r.paused() {
		return
	}
	queued := 0
	for _, key := range keys {
		chunk := r.world.Chunk(key.Chunk)
		if chunk == nil {
			continue
		}
		section := chunk.Section(key.Height)
		if section == nil {
			continue
		}
		if r.internalQueueSection(key.Chunk, key.Height, chunk, section, false) {
			queued++
		}
	}
	if queued > 0 {
		r.sortQueue()
		r.workQueue()
	}
}

// internalQueueSection places the section in the work queue or the culled queue and
// reports whether it went to the work queue. Any older entry for the key is dropped and
// a running task for it is interrupted.
func (r *WorldRenderer) internalQueueSection(pos coords.ChunkPosition, height int, chunk *world.Chunk, section *world.ChunkSection, ignoreFrustum bool) bool {
	if !chunk.IsFullyLoaded() {
		return false
	}
	item := newQueueItem(pos, height, chunk, section)
	if section.IsEmpty() {
		r.queueItemUnload(item)
		return false
	}
	if !r.world.Neighbours(pos).Loaded() {
		return false
	}
	lo, hi := section.Bounds()
	visible := ignoreFrustum || r.graph.IsSectionVisible(pos, height, lo, hi, true)
	key := item.Key()
	cameraChunk := r.isCameraChunk(pos)

	release := r.locks.acquire(lockQueue, lockCulledQueue, lockMeshesToLoad, lockPreparingTasks)
	defer release()
	r.removeQueuedLocked(key)
	r.removeCulledLocked(key)
	r.removeMeshToLoadLocked(key)
	r.interruptLocked(func(t *SectionPrepareTask) bool { return t.Key() == key })

	if !visible {
		heights, ok := r.culledQueue.Get(pos)
		if !ok {
			heights = make(map[int]struct{})
			r.culledQueue.Set(pos, heights)
		}
		heights[height] = struct{}{}
		return false
	}
	if cameraChunk {
		r.queue = append([]*QueueItem{item}, r.queue...)
	} else {
		r.queue = append(r.queue, item)
	}
	return true
}

// queueItemUnload drops every trace of the item's section and schedules its mesh for unload.
func (r *WorldRenderer) queueItemUnload(item *QueueItem) {
	key := item.Key()
	release := r.locks.acquire(allLocks...)
	defer release()
	if meshes := r.loadedMeshes[key.Chunk]; meshes != nil {
		if m, ok := meshes[key.Height]; ok {
			delete(meshes, key.Height)
			if len(meshes) == 0 {
				delete(r.loadedMeshes, key.Chunk)
			}
			r.meshesToUnload = append(r.meshesToUnload, m)
		}
	}
	r.removeCulledLocked(key)
	r.removeQueuedLocked(key)
	r.removeMeshToLoadLocked(key)
	r.interruptLocked(func(t *SectionPrepareTask) bool { return t.Key() == key })
}

// workQueue dispatches queued items until the worker limit is reached. It does nothing
// while the load queue is full.
func (r *WorldRenderer) workQueue() {
	release := r.locks.acquire(lockQueue, lockMeshesToLoad, lockPreparingTasks)
	if len(r.meshesToLoad) >= r.maxMeshesToLoad {
		queued := len(r.queue)
		release()
		// warn once per stall, not on every retry
		if !r.loadQueueFull.Swap(true) {
			r.logger.Warnf("Load queue full (%d), holding %d queued sections", r.maxMeshesToLoad, queued)
		}
		return
	}
	r.loadQueueFull.Store(false)
	free := r.maxPreparingTasks - len(r.preparingTasks)
	if free <= 0 || len(r.queue) == 0 {
		release()
		return
	}
	n := min(free, len(r.queue))
	items := make([]*QueueItem, n)
	copy(items, r.queue)
	r.queue = append(r.queue[:0], r.queue[n:]...)

	tasks := make([]*SectionPrepareTask, n)
	for i, item := range items {
		priority := PriorityLow
		if r.isCameraChunk(item.ChunkPosition) {
			priority = PriorityHigh
		}
		tasks[i] = newSectionPrepareTask(item, priority)
		r.preparingTasks[tasks[i]] = struct{}{}
	}
	release()

	for i, task := range tasks {
		item := items[i]
		r.executor.Submit(task.Priority, func() {
			r.runTask(task, item)
		})
	}
}

func (r *WorldRenderer) runTask(task *SectionPrepareTask, item *QueueItem) {
	defer func() {
		release := r.locks.acquire(lockPreparingTasks)
		delete(r.preparingTasks, task)
		release()
		task.cancel()
		r.workQueue()
	}()

	err := r.prepareItem(task, item)
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		r.counters.interrupted.Add(1)
	default:
		r.counters.failed.Add(1)
		r.logger.Errorf("Failed to prepare section %v: %v", item.Key(), err)
		sentry.CaptureException(err)
	}
}

func (r *WorldRenderer) prepareItem(task *SectionPrepareTask, item *QueueItem) error {
	ctx := task.ctx
	pos, height := item.ChunkPosition, item.SectionHeight

	chunk := item.Chunk
	if chunk == nil {
		chunk = r.world.Chunk(pos)
	}
	if chunk == nil {
		return nil
	}
	section := item.Section
	if section == nil {
		section = chunk.Section(height)
	}
	if section == nil {
		return nil
	}
	if section.IsEmpty() {
		r.queueItemUnload(item)
		return nil
	}
	neighbours := r.world.Neighbours(pos)
	if !neighbours.Loaded() {
		r.queueSection(pos, height, chunk, section, false)
		return nil
	}
	if item.Neighbours == nil {
		n := world.SectionNeighbours(chunk, neighbours, height)
		item.Neighbours = &n
	}

	lo, hi := section.Bounds()
	m := mesh.NewWorldMesh(pos, height, lo, hi)
	if err := r.solid.PrepareSolid(ctx, pos, height, section, *item.Neighbours, m); err != nil {
		return errors.Wrapf(err, "solid %v", item.Key())
	}
	if section.FluidCount() > 0 {
		if err := r.fluid.PrepareFluid(ctx, pos, height, section, *item.Neighbours, m); err != nil {
			return errors.Wrapf(err, "fluid %v", item.Key())
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.ClearEmpty() == 0 {
		r.queueItemUnload(item)
		return nil
	}
	item.Mesh = m
	return r.publish(task, item)
}

// publish moves a finished item into the load queue unless its task was interrupted.
func (r *WorldRenderer) publish(task *SectionPrepareTask, item *QueueItem) error {
	cameraChunk := r.isCameraChunk(item.ChunkPosition)
	release := r.locks.acquire(lockMeshesToLoad)
	defer release()
	if err := task.ctx.Err(); err != nil {
		return err
	}
	r.removeMeshToLoadLocked(item.Key())
	if cameraChunk {
		r.meshesToLoad = append([]*QueueItem{item}, r.meshesToLoad...)
	} else {
		r.meshesToLoad = append(r.meshesToLoad, item)
	}
	r.counters.prepared.Add(1)
	return nil
}
