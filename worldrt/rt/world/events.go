package world

import (
	"github.com/gekko3d/worldmesh/worldrt/rt/coords"
)

// Event is the closed set of world changes the renderer reacts to.
type Event interface {
	worldEvent()
}

type ConnectionState uint8

const (
	Connecting ConnectionState = iota
	Playing
	Disconnected
)

type ChunkDataChangeEvent struct {
	Position coords.ChunkPosition
	Chunk    *Chunk
}

type BlockSetEvent struct {
	Position coords.BlockPosition
}

// BlocksSetEvent carries chunk local positions (world y) changed in one chunk.
type BlocksSetEvent struct {
	Chunk     coords.ChunkPosition
	Positions []coords.Vec3i
}

type BlockDataChangeEvent struct {
	Position coords.BlockPosition
}

type ChunkUnloadEvent struct {
	Position coords.ChunkPosition
}

type ViewDistanceChangeEvent struct {
	ViewDistance int
}

type ConnectionStateChangeEvent struct {
	State ConnectionState
}

type RespawnEvent struct{}

func (ChunkDataChangeEvent) worldEvent()       {}
func (BlockSetEvent) worldEvent()              {}
func (BlocksSetEvent) worldEvent()             {}
func (BlockDataChangeEvent) worldEvent()       {}
func (ChunkUnloadEvent) worldEvent()           {}
func (ViewDistanceChangeEvent) worldEvent()    {}
func (ConnectionStateChangeEvent) worldEvent() {}
func (RespawnEvent) worldEvent()               {}
