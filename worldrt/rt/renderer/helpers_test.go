package renderer

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/worldmesh/worldrt/rt/block"
	"github.com/gekko3d/worldmesh/worldrt/rt/coords"
	"github.com/gekko3d/worldmesh/worldrt/rt/mesh"
	"github.com/gekko3d/worldmesh/worldrt/rt/world"
)

type submitted struct {
	priority Priority
	task     func()
}

// manualExecutor runs tasks only when the test asks.
type manualExecutor struct {
	tasks []submitted
}

func (e *manualExecutor) Submit(priority Priority, task func()) {
	e.tasks = append(e.tasks, submitted{priority, task})
}

func (e *manualExecutor) runOne() bool {
	if len(e.tasks) == 0 {
		return false
	}
	next := e.tasks[0]
	e.tasks = e.tasks[1:]
	next.task()
	return true
}

func (e *manualExecutor) runAll() int {
	n := 0
	for e.runOne() {
		n++
	}
	return n
}

// fakeClock advances by step on every read.
type fakeClock struct {
	now  time.Time
	step time.Duration
}

func (c *fakeClock) Now() time.Time {
	c.now = c.now.Add(c.step)
	return c.now
}

type fakeGraph struct {
	hidden map[coords.ChunkPosition]bool
}

func (g *fakeGraph) IsChunkVisible(pos coords.ChunkPosition) bool {
	return !g.hidden[pos]
}

func (g *fakeGraph) IsSectionVisible(pos coords.ChunkPosition, _ int, _, _ coords.Vec3i, _ bool) bool {
	return !g.hidden[pos]
}

type fakeCamera struct {
	pos    mgl32.Vec3
	moving bool
}

func (c *fakeCamera) CameraPosition() mgl32.Vec3 { return c.pos }
func (c *fakeCamera) Moving() bool               { return c.moving }

type fakeBuffer struct {
	released int
}

func (b *fakeBuffer) Release() { b.released++ }

type fakeUploader struct {
	buffers []*fakeBuffer
	fail    bool
}

func (u *fakeUploader) Upload(string, []float32) (mesh.Buffer, error) {
	if u.fail {
		return nil, errors.New("out of memory")
	}
	b := &fakeBuffer{}
	u.buffers = append(u.buffers, b)
	return b, nil
}

type harness struct {
	r        *WorldRenderer
	world    *world.World
	reg      *block.Registry
	exec     *manualExecutor
	clock    *fakeClock
	graph    *fakeGraph
	camera   *fakeCamera
	uploader *fakeUploader
}

// newHarness builds a (2*radius+1)^2 world with one stone per chunk. Only chunks
// with all four neighbours present can be meshed.
func newHarness(t *testing.T, radius int, opts Options) *harness {
	t.Helper()
	h := &harness{
		world:    world.New(0, 1),
		reg:      block.DefaultRegistry(),
		exec:     &manualExecutor{},
		clock:    &fakeClock{now: time.Unix(0, 0)},
		graph:    &fakeGraph{hidden: make(map[coords.ChunkPosition]bool)},
		camera:   &fakeCamera{pos: mgl32.Vec3{8, 4, 8}},
		uploader: &fakeUploader{},
	}
	for x := -radius; x <= radius; x++ {
		for z := -radius; z <= radius; z++ {
			c := h.world.GetOrCreateChunk(coords.ChunkPosition{X: int32(x), Z: int32(z)})
			c.Set(coords.Vec3i{X: 8, Y: 4, Z: 8}, h.reg.Get(block.Stone))
			c.SetFullyLoaded(true)
		}
	}
	if opts.Workers == 0 {
		opts.Workers = 5
	}
	if opts.IdleBudget == 0 {
		opts.IdleBudget = time.Hour
	}
	if opts.MovingBudget == 0 {
		opts.MovingBudget = time.Hour
	}
	if opts.ViewDistance == 0 {
		opts.ViewDistance = radius
	}
	opts.LockChecks = true
	opts.Executor = h.exec
	opts.Clock = h.clock
	h.r = New(h.world, h.graph, h.camera, h.uploader, opts)
	return h
}

func chunk(x, z int32) coords.ChunkPosition {
	return coords.ChunkPosition{X: x, Z: z}
}

// inner returns the meshable chunks of a radius 2 world.
func inner() []coords.ChunkPosition {
	var out []coords.ChunkPosition
	for x := int32(-1); x <= 1; x++ {
		for z := int32(-1); z <= 1; z++ {
			out = append(out, chunk(x, z))
		}
	}
	return out
}

// buildAll queues every inner chunk and loads the results.
func (h *harness) buildAll() {
	for _, p := range inner() {
		h.r.QueueChunk(p, nil)
	}
	h.exec.runAll()
	h.r.PrepareDraw()
}

func (h *harness) pending() int {
	return h.r.QueueSize() + h.r.PreparingTasksSize() + h.r.CulledQueuedSize()
}

// checkDisjoint fails when a section key appears twice across the queue, the culled
// queue, the load queue and the live tasks.
func (h *harness) checkDisjoint(t *testing.T) {
	t.Helper()
	release := h.r.locks.acquire(allLocks...)
	defer release()
	seen := make(map[coords.SectionKey]string)
	mark := func(key coords.SectionKey, where string) {
		if prev, ok := seen[key]; ok {
			t.Fatalf("section %v in %s and %s", key, prev, where)
		}
		seen[key] = where
	}
	for _, item := range h.r.queue {
		mark(item.Key(), "queue")
	}
	for el := h.r.culledQueue.Front(); el != nil; el = el.Next() {
		for height := range el.Value {
			mark(coords.SectionKey{Chunk: el.Key, Height: height}, "culled")
		}
	}
	for _, item := range h.r.meshesToLoad {
		mark(item.Key(), "meshesToLoad")
	}
	for task := range h.r.preparingTasks {
		if !task.Interrupted() {
			mark(task.Key(), "preparing")
		}
	}
}

// outOfRange lists every chunk outside radius of center still present in the queue,
// the culled queue, the load queue, the loaded meshes or a live task.
func (h *harness) outOfRange(center coords.ChunkPosition, radius int) []string {
	release := h.r.locks.acquire(allLocks...)
	defer release()
	var out []string
	check := func(pos coords.ChunkPosition, where string) {
		if !pos.InViewDistance(center, radius) {
			out = append(out, fmt.Sprintf("%s %v", where, pos))
		}
	}
	for pos := range h.r.loadedMeshes {
		check(pos, "loaded")
	}
	for _, item := range h.r.queue {
		check(item.ChunkPosition, "queue")
	}
	for _, pos := range h.r.culledQueue.Keys() {
		check(pos, "culled")
	}
	for _, item := range h.r.meshesToLoad {
		check(item.ChunkPosition, "meshesToLoad")
	}
	for task := range h.r.preparingTasks {
		if !task.Interrupted() {
			check(task.ChunkPosition, "preparing")
		}
	}
	return out
}

type recordingLogger struct {
	mu       sync.Mutex
	warnings []string
}

func (l *recordingLogger) Debugf(string, ...any) {}
func (l *recordingLogger) Infof(string, ...any)  {}
func (l *recordingLogger) Errorf(string, ...any) {}

func (l *recordingLogger) Warnf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warnings = append(l.warnings, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) warningCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.warnings)
}
