package world

import (
	"github.com/sasha-s/go-deadlock"

	"github.com/gekko3d/worldmesh/worldrt/rt/block"
	"github.com/gekko3d/worldmesh/worldrt/rt/coords"
)

// World owns the loaded chunk columns.
type World struct {
	mu     deadlock.RWMutex
	chunks map[coords.ChunkPosition]*Chunk

	MinSection int
	MaxSection int
}

func New(minSection, maxSection int) *World {
	return &World{
		chunks:     make(map[coords.ChunkPosition]*Chunk),
		MinSection: minSection,
		MaxSection: maxSection,
	}
}

func (w *World) Chunk(pos coords.ChunkPosition) *Chunk {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.chunks[pos]
}

// GetOrCreateChunk returns the chunk at pos, creating an empty one if needed.
func (w *World) GetOrCreateChunk(pos coords.ChunkPosition) *Chunk {
	w.mu.Lock()
	defer w.mu.Unlock()
	c, ok := w.chunks[pos]
	if !ok {
		c = NewChunk(pos, w.MinSection, w.MaxSection)
		w.chunks[pos] = c
	}
	return c
}

func (w *World) RemoveChunk(pos coords.ChunkPosition) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.chunks[pos]; !ok {
		return false
	}
	delete(w.chunks, pos)
	return true
}

func (w *World) Chunks() []*Chunk {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*Chunk, 0, len(w.chunks))
	for _, c := range w.chunks {
		out = append(out, c)
	}
	return out
}

func (w *World) ChunkCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.chunks)
}

func (w *World) Neighbours(pos coords.ChunkPosition) ChunkNeighbours {
	var n ChunkNeighbours
	w.mu.RLock()
	defer w.mu.RUnlock()
	for i, p := range pos.Lateral() {
		n.Chunks[i] = w.chunks[p]
	}
	return n
}

func (w *World) GetBlock(pos coords.BlockPosition) *block.State {
	c := w.Chunk(coords.ChunkOf(pos))
	if c == nil {
		return nil
	}
	return c.Get(coords.InChunk(pos))
}

// SetBlock stores st and returns the owning chunk, or nil if it is not loaded.
func (w *World) SetBlock(pos coords.BlockPosition, st *block.State) *Chunk {
	c := w.Chunk(coords.ChunkOf(pos))
	if c == nil || !c.Set(coords.InChunk(pos), st) {
		return nil
	}
	return c
}
