package block

import (
	"github.com/gekko3d/worldmesh/worldrt/rt/coords"
)

type Transparency uint8

const (
	Opaque Transparency = iota
	Transparent
	Translucent
)

func (t Transparency) String() string {
	switch t {
	case Opaque:
		return "opaque"
	case Transparent:
		return "transparent"
	case Translucent:
		return "translucent"
	}
	return "unknown"
}

// CustomCullFunc may veto culling of a face that the default rules would hide.
type CustomCullFunc func(state *State, face *BakedFace, dir coords.Direction, neighbour *State) bool

// Block is a block type. Two blocks are the same type when their identifiers match.
type Block struct {
	Identifier string
	// Color stands in for the block texture; alpha is honoured by blended layers.
	Color      [4]float32
	CustomCull CustomCullFunc
}

func (b *Block) SameType(o *Block) bool {
	if b == nil || o == nil {
		return b == o
	}
	return b.Identifier == o.Identifier
}

// State is one concrete variant of a block as stored in a section.
type State struct {
	ID    uint32
	Block *Block
	Model *BakedModel

	// Fluid identifies the fluid held by this state, empty when dry.
	Fluid string
	// FluidLevel is the surface height in [0, 1].
	FluidLevel float32
	FluidTint  [3]float32
}

func (s *State) IsFluid() bool {
	return s != nil && s.Fluid != ""
}

// Side returns the neighbour-facing side properties for dir, or nil.
func (s *State) Side(dir coords.Direction) *SideProperties {
	if s == nil || s.Model == nil {
		return nil
	}
	return s.Model.Sides[dir]
}
