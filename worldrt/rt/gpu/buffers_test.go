package gpu

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeVertices(t *testing.T) {
	data := encodeVertices([]float32{1, -2.5})
	assert.Len(t, data, 8)
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(data[0:])))
	assert.Equal(t, float32(-2.5), math.Float32frombits(binary.LittleEndian.Uint32(data[4:])))

	assert.Len(t, encodeVertices(nil), 4)
}

func TestPutMat4ColumnMajor(t *testing.T) {
	var m [16]float32
	for i := range m {
		m[i] = float32(i)
	}
	dst := make([]byte, 64)
	putMat4(dst, 0, m)
	assert.Equal(t, float32(13), math.Float32frombits(binary.LittleEndian.Uint32(dst[13*4:])))
}
