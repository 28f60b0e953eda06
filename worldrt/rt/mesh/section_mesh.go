package mesh

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// FloatsPerVertex is position (3), uv (2) and rgba color (4).
const FloatsPerVertex = 9

// quad corner order for the two triangles
var quadIndices = [6]int{0, 1, 2, 0, 2, 3}

// SectionMesh is the vertex data of one render layer.
type SectionMesh struct {
	data   []float32
	buffer Buffer
	count  uint32
}

func newSectionMesh(capacity int) *SectionMesh {
	return &SectionMesh{data: make([]float32, 0, capacity)}
}

// AddQuad appends a quad as two triangles, offsetting block local positions by offset.
func (m *SectionMesh) AddQuad(offset mgl32.Vec3, positions [4]mgl32.Vec3, uvs [4]mgl32.Vec2, color mgl32.Vec4) {
	for _, i := range quadIndices {
		p := positions[i].Add(offset)
		m.data = append(m.data,
			p[0], p[1], p[2],
			uvs[i][0], uvs[i][1],
			color[0], color[1], color[2], color[3],
		)
	}
}

func (m *SectionMesh) IsEmpty() bool {
	return m == nil || (len(m.data) == 0 && m.buffer == nil)
}

func (m *SectionMesh) VertexCount() int {
	if m == nil {
		return 0
	}
	if m.buffer != nil {
		return int(m.count)
	}
	return len(m.data) / FloatsPerVertex
}

// Data returns the pending vertex data; nil once uploaded.
func (m *SectionMesh) Data() []float32 {
	return m.data
}

func (m *SectionMesh) load(up Uploader, label string) error {
	buf, err := up.Upload(label, m.data)
	if err != nil {
		return errors.Wrapf(err, "upload %s", label)
	}
	m.buffer = buf
	m.count = uint32(len(m.data) / FloatsPerVertex)
	m.data = nil
	return nil
}

func (m *SectionMesh) unload() {
	if m.buffer != nil {
		m.buffer.Release()
		m.buffer = nil
	}
}

func (m *SectionMesh) draw(target DrawTarget) {
	if m == nil || m.buffer == nil {
		return
	}
	target.DrawBuffer(m.buffer, m.count)
}
