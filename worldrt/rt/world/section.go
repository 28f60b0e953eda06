package world

import (
	"github.com/sasha-s/go-deadlock"

	"github.com/gekko3d/worldmesh/worldrt/rt/block"
	"github.com/gekko3d/worldmesh/worldrt/rt/coords"
)

type SectionBlocks = [coords.SectionBlocks]*block.State

// ChunkSection is a 16x16x16 cube of block states. A nil state is air.
type ChunkSection struct {
	mu         deadlock.RWMutex
	blocks     SectionBlocks
	blockCount int
	fluidCount int

	boundsDirty bool
	min, max    coords.Vec3i
}

func NewChunkSection() *ChunkSection {
	return &ChunkSection{}
}

func (s *ChunkSection) Get(x, y, z int) *block.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.blocks[coords.SectionIndex(x, y, z)]
}

// Set stores st and returns the previous state.
func (s *ChunkSection) Set(x, y, z int, st *block.State) *block.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := coords.SectionIndex(x, y, z)
	prev := s.blocks[idx]
	if prev == st {
		return prev
	}
	if prev != nil {
		s.blockCount--
		if prev.IsFluid() {
			s.fluidCount--
		}
	}
	if st != nil {
		s.blockCount++
		if st.IsFluid() {
			s.fluidCount++
		}
	}
	s.blocks[idx] = st
	s.boundsDirty = true
	return prev
}

// Blocks returns a copy of the block array, consistent at the time of the call.
func (s *ChunkSection) Blocks() SectionBlocks {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.blocks
}

func (s *ChunkSection) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.blockCount == 0
}

func (s *ChunkSection) BlockCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.blockCount
}

func (s *ChunkSection) FluidCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fluidCount
}

// Bounds returns the inclusive section local corners of all non-air blocks.
// An empty section reports the full section.
func (s *ChunkSection) Bounds() (coords.Vec3i, coords.Vec3i) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.boundsDirty {
		s.recalculateBounds()
	}
	return s.min, s.max
}

func (s *ChunkSection) recalculateBounds() {
	s.boundsDirty = false
	if s.blockCount == 0 {
		s.min = coords.Vec3i{}
		s.max = coords.Vec3i{X: coords.SectionMax, Y: coords.SectionMax, Z: coords.SectionMax}
		return
	}
	lo := coords.Vec3i{X: coords.SectionMax, Y: coords.SectionMax, Z: coords.SectionMax}
	hi := coords.Vec3i{}
	for i, st := range s.blocks {
		if st == nil {
			continue
		}
		x, z, y := i&0xF, (i>>4)&0xF, i>>8
		lo = coords.Vec3i{X: min(lo.X, x), Y: min(lo.Y, y), Z: min(lo.Z, z)}
		hi = coords.Vec3i{X: max(hi.X, x), Y: max(hi.Y, y), Z: max(hi.Z, z)}
	}
	s.min, s.max = lo, hi
}
