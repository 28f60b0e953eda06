package gpu

import (
	"encoding/binary"
	"math"
	"sync/atomic"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/pkg/errors"

	"github.com/gekko3d/worldmesh/worldrt/rt/mesh"
)

// MeshBuffers uploads section vertex data into device buffers.
type MeshBuffers struct {
	Device *wgpu.Device

	live  atomic.Int64
	bytes atomic.Int64
}

func NewMeshBuffers(device *wgpu.Device) *MeshBuffers {
	return &MeshBuffers{Device: device}
}

// VertexBuffer is one uploaded layer of a section mesh.
type VertexBuffer struct {
	Buffer *wgpu.Buffer
	size   uint64
	owner  *MeshBuffers
}

func (b *VertexBuffer) Release() {
	if b.Buffer == nil {
		return
	}
	b.Buffer.Release()
	b.Buffer = nil
	b.owner.live.Add(-1)
	b.owner.bytes.Add(-int64(b.size))
}

func (m *MeshBuffers) Upload(label string, vertices []float32) (mesh.Buffer, error) {
	data := encodeVertices(vertices)
	buf, err := m.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "create buffer %q", label)
	}
	m.Device.GetQueue().WriteBuffer(buf, 0, data)
	m.live.Add(1)
	m.bytes.Add(int64(len(data)))
	return &VertexBuffer{Buffer: buf, size: uint64(len(data)), owner: m}, nil
}

// Live reports the number of buffers and bytes currently held on the device.
func (m *MeshBuffers) Live() (int64, int64) {
	return m.live.Load(), m.bytes.Load()
}

// encodeVertices packs little endian floats, padded to at least 4 bytes.
func encodeVertices(vertices []float32) []byte {
	data := make([]byte, max(len(vertices)*4, 4))
	for i, v := range vertices {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(v))
	}
	return data
}

// putMat4 writes m column major at off.
func putMat4(dst []byte, off int, m [16]float32) {
	for i, v := range m {
		binary.LittleEndian.PutUint32(dst[off+i*4:], math.Float32bits(v))
	}
}
