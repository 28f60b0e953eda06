package renderer

import (
	"context"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/worldmesh/worldrt/rt/coords"
	"github.com/gekko3d/worldmesh/worldrt/rt/mesh"
	"github.com/gekko3d/worldmesh/worldrt/rt/world"
)

// QueueItem carries one section through the queues. Ownership moves with the item.
type QueueItem struct {
	ChunkPosition coords.ChunkPosition
	SectionHeight int
	Chunk         *world.Chunk
	Section       *world.ChunkSection
	Center        mgl32.Vec3
	Neighbours    *[6]*world.ChunkSection
	Mesh          *mesh.WorldMesh
}

func newQueueItem(pos coords.ChunkPosition, height int, chunk *world.Chunk, section *world.ChunkSection) *QueueItem {
	return &QueueItem{
		ChunkPosition: pos,
		SectionHeight: height,
		Chunk:         chunk,
		Section:       section,
		Center:        mesh.SectionCenter(pos, height),
	}
}

func (i *QueueItem) Key() coords.SectionKey {
	return coords.SectionKey{Chunk: i.ChunkPosition, Height: i.SectionHeight}
}

// SectionPrepareTask is an in-flight build of one section mesh.
type SectionPrepareTask struct {
	ChunkPosition coords.ChunkPosition
	SectionHeight int
	Priority      Priority

	ctx    context.Context
	cancel context.CancelFunc
}

func newSectionPrepareTask(item *QueueItem, priority Priority) *SectionPrepareTask {
	ctx, cancel := context.WithCancel(context.Background())
	return &SectionPrepareTask{
		ChunkPosition: item.ChunkPosition,
		SectionHeight: item.SectionHeight,
		Priority:      priority,
		ctx:           ctx,
		cancel:        cancel,
	}
}

func (t *SectionPrepareTask) Key() coords.SectionKey {
	return coords.SectionKey{Chunk: t.ChunkPosition, Height: t.SectionHeight}
}

// Interrupt cancels the task. The worker notices at its next cancellation check.
func (t *SectionPrepareTask) Interrupt() {
	t.cancel()
}

func (t *SectionPrepareTask) Interrupted() bool {
	return t.ctx.Err() != nil
}
