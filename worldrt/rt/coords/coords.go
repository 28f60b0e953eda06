package coords

import "fmt"

const (
	SectionWidth  = 16
	SectionHeight = 16
	SectionMax    = SectionWidth - 1
	SectionBlocks = SectionWidth * SectionWidth * SectionHeight
)

// ChunkPosition addresses a chunk column on the horizontal plane.
type ChunkPosition struct {
	X, Z int32
}

func (p ChunkPosition) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Z)
}

func (p ChunkPosition) Add(dx, dz int32) ChunkPosition {
	return ChunkPosition{X: p.X + dx, Z: p.Z + dz}
}

// InViewDistance reports whether p lies within the square of the given radius around center.
func (p ChunkPosition) InViewDistance(center ChunkPosition, radius int) bool {
	dx := abs32(p.X - center.X)
	dz := abs32(p.Z - center.Z)
	return int(dx) <= radius && int(dz) <= radius
}

// Lateral returns the four horizontal neighbours in NORTH, SOUTH, WEST, EAST order.
func (p ChunkPosition) Lateral() [4]ChunkPosition {
	return [4]ChunkPosition{
		p.Add(0, -1),
		p.Add(0, 1),
		p.Add(-1, 0),
		p.Add(1, 0),
	}
}

// Vec3i is an integer block coordinate, either world space or section local.
type Vec3i struct {
	X, Y, Z int
}

func (v Vec3i) Add(o Vec3i) Vec3i {
	return Vec3i{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3i) String() string {
	return fmt.Sprintf("(%d, %d, %d)", v.X, v.Y, v.Z)
}

// BlockPosition is a world space block coordinate.
type BlockPosition = Vec3i

// ChunkOf returns the chunk column containing the block.
func ChunkOf(p BlockPosition) ChunkPosition {
	return ChunkPosition{X: int32(floorDiv(p.X, SectionWidth)), Z: int32(floorDiv(p.Z, SectionWidth))}
}

// SectionOf returns the section height containing world y.
func SectionOf(y int) int {
	return floorDiv(y, SectionHeight)
}

// InSection converts a world block position to section local coordinates.
func InSection(p BlockPosition) Vec3i {
	return Vec3i{floorMod(p.X, SectionWidth), floorMod(p.Y, SectionHeight), floorMod(p.Z, SectionWidth)}
}

// InChunk converts a world block position to chunk local coordinates, keeping world y.
func InChunk(p BlockPosition) Vec3i {
	return Vec3i{floorMod(p.X, SectionWidth), p.Y, floorMod(p.Z, SectionWidth)}
}

// SectionIndex packs section local coordinates as y<<8 | z<<4 | x.
func SectionIndex(x, y, z int) int {
	return y<<8 | z<<4 | x
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// SectionKey addresses one section of one chunk column.
type SectionKey struct {
	Chunk  ChunkPosition
	Height int
}

func (k SectionKey) String() string {
	return fmt.Sprintf("%v@%d", k.Chunk, k.Height)
}
