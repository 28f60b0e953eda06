package world

import (
	"sync/atomic"

	"github.com/sasha-s/go-deadlock"

	"github.com/gekko3d/worldmesh/worldrt/rt/block"
	"github.com/gekko3d/worldmesh/worldrt/rt/coords"
)

// Chunk is a vertical stack of sections between lowest and highest section height.
type Chunk struct {
	Position coords.ChunkPosition

	mu          deadlock.RWMutex
	lowest      int
	sections    []*ChunkSection
	fullyLoaded atomic.Bool
}

func NewChunk(pos coords.ChunkPosition, lowest, highest int) *Chunk {
	return &Chunk{
		Position: pos,
		lowest:   lowest,
		sections: make([]*ChunkSection, highest-lowest+1),
	}
}

func (c *Chunk) LowestSection() int {
	return c.lowest
}

func (c *Chunk) HighestSection() int {
	return c.lowest + len(c.sections) - 1
}

// Section returns the section at height, or nil when absent or out of range.
func (c *Chunk) Section(height int) *ChunkSection {
	idx := height - c.lowest
	if idx < 0 || idx >= len(c.sections) {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sections[idx]
}

func (c *Chunk) getOrCreateSection(height int) *ChunkSection {
	idx := height - c.lowest
	if idx < 0 || idx >= len(c.sections) {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sections[idx] == nil {
		c.sections[idx] = NewChunkSection()
	}
	return c.sections[idx]
}

// Get takes chunk local x/z and world y.
func (c *Chunk) Get(pos coords.Vec3i) *block.State {
	section := c.Section(coords.SectionOf(pos.Y))
	if section == nil {
		return nil
	}
	return section.Get(pos.X, pos.Y&coords.SectionMax, pos.Z)
}

// Set takes chunk local x/z and world y. It reports false when y is out of range.
func (c *Chunk) Set(pos coords.Vec3i, st *block.State) bool {
	height := coords.SectionOf(pos.Y)
	section := c.Section(height)
	if section == nil {
		if st == nil {
			return height >= c.lowest && height <= c.HighestSection()
		}
		section = c.getOrCreateSection(height)
		if section == nil {
			return false
		}
	}
	section.Set(pos.X, pos.Y&coords.SectionMax, pos.Z, st)
	return true
}

func (c *Chunk) IsFullyLoaded() bool {
	return c.fullyLoaded.Load()
}

func (c *Chunk) SetFullyLoaded(loaded bool) {
	c.fullyLoaded.Store(loaded)
}
