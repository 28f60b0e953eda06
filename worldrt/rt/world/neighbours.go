package world

import (
	"github.com/gekko3d/worldmesh/worldrt/rt/coords"
)

// ChunkNeighbours holds the lateral neighbours in NORTH, SOUTH, WEST, EAST order.
type ChunkNeighbours struct {
	Chunks [4]*Chunk
}

// Received reports whether all four neighbours exist.
func (n ChunkNeighbours) Received() bool {
	for _, c := range n.Chunks {
		if c == nil {
			return false
		}
	}
	return true
}

// Loaded reports whether all four neighbours exist and are fully loaded.
func (n ChunkNeighbours) Loaded() bool {
	for _, c := range n.Chunks {
		if c == nil || !c.IsFullyLoaded() {
			return false
		}
	}
	return true
}

// Lateral returns the neighbour chunk in a horizontal direction.
func (n ChunkNeighbours) Lateral(dir coords.Direction) *Chunk {
	if !dir.Horizontal() {
		return nil
	}
	return n.Chunks[dir-coords.North]
}

// SectionNeighbours returns the six sections touching chunk[height], indexed by direction.
// Entries are nil at world edges or where no section exists.
func SectionNeighbours(chunk *Chunk, neighbours ChunkNeighbours, height int) [6]*ChunkSection {
	var out [6]*ChunkSection
	out[coords.Down] = chunk.Section(height - 1)
	out[coords.Up] = chunk.Section(height + 1)
	for _, dir := range []coords.Direction{coords.North, coords.South, coords.West, coords.East} {
		if c := neighbours.Lateral(dir); c != nil {
			out[dir] = c.Section(height)
		}
	}
	return out
}
