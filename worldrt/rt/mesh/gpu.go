package mesh

// Buffer is a GPU resource that must be released exactly once.
type Buffer interface {
	Release()
}

// Uploader creates vertex buffers. Upload is only called from the render thread.
type Uploader interface {
	Upload(label string, vertices []float32) (Buffer, error)
}

// DrawTarget records draw calls for uploaded buffers.
type DrawTarget interface {
	DrawBuffer(buf Buffer, vertexCount uint32)
}
