package mesh

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/gekko3d/worldmesh/worldrt/rt/coords"
)

type Layer uint8

const (
	Opaque Layer = iota
	Translucent
	Transparent
	// Text is reserved for sign and other block text geometry. No preparer fills it
	// yet, ClearEmpty drops it and DrawTransparent draws it after the transparent layer.
	Text
	layerCount
)

var layerNames = [layerCount]string{"opaque", "translucent", "transparent", "text"}

func (l Layer) String() string {
	if l < layerCount {
		return layerNames[l]
	}
	return "invalid"
}

// WorldMesh is the built geometry of one section. Built by a worker, then loaded and
// unloaded on the render thread only.
type WorldMesh struct {
	ID            uuid.UUID
	ChunkPosition coords.ChunkPosition
	SectionHeight int
	Center        mgl32.Vec3
	// MinPosition and MaxPosition are inclusive section local block bounds.
	MinPosition coords.Vec3i
	MaxPosition coords.Vec3i

	layers   [layerCount]*SectionMesh
	loaded   bool
	released bool
}

func NewWorldMesh(pos coords.ChunkPosition, height int, min, max coords.Vec3i) *WorldMesh {
	m := &WorldMesh{
		ID:            uuid.New(),
		ChunkPosition: pos,
		SectionHeight: height,
		Center:        SectionCenter(pos, height),
		MinPosition:   min,
		MaxPosition:   max,
	}
	m.layers[Opaque] = newSectionMesh(4096)
	m.layers[Translucent] = newSectionMesh(256)
	m.layers[Transparent] = newSectionMesh(512)
	m.layers[Text] = newSectionMesh(0)
	return m
}

// SectionCenter is the world space center of a section.
func SectionCenter(pos coords.ChunkPosition, height int) mgl32.Vec3 {
	return mgl32.Vec3{
		float32(int(pos.X)*coords.SectionWidth + coords.SectionWidth/2),
		float32(height*coords.SectionHeight + coords.SectionHeight/2),
		float32(int(pos.Z)*coords.SectionWidth + coords.SectionWidth/2),
	}
}

func (m *WorldMesh) Key() coords.SectionKey {
	return coords.SectionKey{Chunk: m.ChunkPosition, Height: m.SectionHeight}
}

// Layer returns the layer mesh, or nil if it was dropped as empty.
func (m *WorldMesh) Layer(l Layer) *SectionMesh {
	return m.layers[l]
}

// ClearEmpty drops empty layers and returns how many remain.
func (m *WorldMesh) ClearEmpty() int {
	n := 0
	for i, l := range m.layers {
		if l.IsEmpty() {
			m.layers[i] = nil
			continue
		}
		n++
	}
	return n
}

func (m *WorldMesh) VertexCount() int {
	n := 0
	for _, l := range m.layers {
		n += l.VertexCount()
	}
	return n
}

// Load uploads every layer. On failure nothing stays uploaded.
func (m *WorldMesh) Load(up Uploader) error {
	if m.loaded {
		return nil
	}
	for i, l := range m.layers {
		if l.IsEmpty() {
			continue
		}
		label := fmt.Sprintf("section %v %s %s", m.Key(), Layer(i), m.ID)
		if err := l.load(up, label); err != nil {
			m.unloadLayers()
			return err
		}
	}
	m.loaded = true
	return nil
}

// Unload releases GPU buffers. Only the first call releases; it reports whether it did.
func (m *WorldMesh) Unload() bool {
	if m.released {
		return false
	}
	m.released = true
	m.unloadLayers()
	m.loaded = false
	return true
}

func (m *WorldMesh) unloadLayers() {
	for _, l := range m.layers {
		if l != nil {
			l.unload()
		}
	}
}

func (m *WorldMesh) IsLoaded() bool {
	return m.loaded
}

func (m *WorldMesh) Released() bool {
	return m.released
}

func (m *WorldMesh) Draw(target DrawTarget, l Layer) {
	if !m.loaded {
		return
	}
	m.layers[l].draw(target)
}

func (m *WorldMesh) DistanceSquared(p mgl32.Vec3) float32 {
	d := m.Center.Sub(p)
	return d.Dot(d)
}
