package renderer

import (
	"context"

	"github.com/gekko3d/worldmesh/worldrt/rt/coords"
	"github.com/gekko3d/worldmesh/worldrt/rt/world"
)

// HandleEvent applies one world change.
func (r *WorldRenderer) HandleEvent(ev world.Event) {
	switch e := ev.(type) {
	case world.ChunkDataChangeEvent:
		r.QueueChunk(e.Position, e.Chunk)
		// neighbours waiting on this chunk can mesh now
		for _, p := range e.Position.Lateral() {
			r.QueueChunk(p, nil)
		}
	case world.BlockSetEvent:
		r.queueSections(affectedSections(e.Position, nil))
	case world.BlocksSetEvent:
		seen := make(map[coords.SectionKey]struct{})
		var keys []coords.SectionKey
		for _, p := range e.Positions {
			pos := coords.BlockPosition{
				X: int(e.Chunk.X)*coords.SectionWidth + p.X,
				Y: p.Y,
				Z: int(e.Chunk.Z)*coords.SectionWidth + p.Z,
			}
			keys = affectedSections(pos, keys)
		}
		unique := keys[:0]
		for _, k := range keys {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			unique = append(unique, k)
		}
		r.queueSections(unique)
	case world.BlockDataChangeEvent:
		r.QueueSection(coords.ChunkOf(e.Position), coords.SectionOf(e.Position.Y))
	case world.ChunkUnloadEvent:
		r.UnloadChunk(e.Position)
	case world.ViewDistanceChangeEvent:
		r.SetViewDistance(e.ViewDistance)
	case world.ConnectionStateChangeEvent:
		if e.State == world.Disconnected {
			r.UnloadWorld()
		}
	case world.RespawnEvent:
		r.UnloadWorld()
	default:
		r.logger.Warnf("Unhandled world event %T", ev)
	}
}

// Run applies events from the channel until it is closed or ctx is done.
func (r *WorldRenderer) Run(ctx context.Context, events <-chan world.Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			r.HandleEvent(ev)
		}
	}
}

// affectedSections appends the section of pos plus every section it touches on a boundary.
func affectedSections(pos coords.BlockPosition, keys []coords.SectionKey) []coords.SectionKey {
	chunk := coords.ChunkOf(pos)
	height := coords.SectionOf(pos.Y)
	in := coords.InSection(pos)
	keys = append(keys, coords.SectionKey{Chunk: chunk, Height: height})

	switch in.X {
	case 0:
		keys = append(keys, coords.SectionKey{Chunk: chunk.Add(-1, 0), Height: height})
	case coords.SectionMax:
		keys = append(keys, coords.SectionKey{Chunk: chunk.Add(1, 0), Height: height})
	}
	switch in.Y {
	case 0:
		keys = append(keys, coords.SectionKey{Chunk: chunk, Height: height - 1})
	case coords.SectionMax:
		keys = append(keys, coords.SectionKey{Chunk: chunk, Height: height + 1})
	}
	switch in.Z {
	case 0:
		keys = append(keys, coords.SectionKey{Chunk: chunk.Add(0, -1), Height: height})
	case coords.SectionMax:
		keys = append(keys, coords.SectionKey{Chunk: chunk.Add(0, 1), Height: height})
	}
	return keys
}
