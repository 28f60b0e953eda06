package worldmesh

import (
	"context"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/worldmesh/worldrt/rt/block"
	"github.com/gekko3d/worldmesh/worldrt/rt/coords"
	"github.com/gekko3d/worldmesh/worldrt/rt/core"
	"github.com/gekko3d/worldmesh/worldrt/rt/mesh"
)

type testBuffer struct{}

func (testBuffer) Release() {}

type testUploader struct{}

func (testUploader) Upload(string, []float32) (mesh.Buffer, error) { return testBuffer{}, nil }

type testCamera struct{ cam *core.CameraState }

func (c testCamera) CameraPosition() mgl32.Vec3 { return c.cam.Position }
func (c testCamera) Moving() bool               { return false }

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Renderer.Workers = 2
	cfg.Renderer.LockChecks = true
	cfg.World.ViewDistance = 1
	cfg.World.ChunksPerSecond = 0
	cfg.World.MaxSection = 3
	return cfg
}

func TestClientStreamsAndMeshesWorld(t *testing.T) {
	cam := core.NewCameraState()
	cam.Position = mgl32.Vec3{8, 40, 8}
	c, err := NewClient(testConfig(), testUploader{}, testCamera{cam}, nil)
	require.NoError(t, err)
	c.Start(context.Background())
	defer c.Close()

	c.UpdateCamera(cam, 16.0/9.0)
	assert.Eventually(t, func() bool {
		c.Renderer.PrepareDraw()
		return c.World.ChunkCount() == 25 && c.Renderer.LoadedMeshesSize() > 0
	}, 10*time.Second, 10*time.Millisecond)
}

func TestClientSetBlockRebuildsSection(t *testing.T) {
	cam := core.NewCameraState()
	c, err := NewClient(testConfig(), testUploader{}, testCamera{cam}, nil)
	require.NoError(t, err)
	c.Start(context.Background())
	defer c.Close()

	require.Eventually(t, func() bool {
		c.Renderer.PrepareDraw()
		return c.World.ChunkCount() == 25 && c.Renderer.PreparingTasksSize() == 0 &&
			c.Renderer.QueueSize() == 0 && c.Renderer.LoadedMeshesSize() > 0
	}, 10*time.Second, 10*time.Millisecond)
	before := c.Renderer.Stats().Prepared

	pos := coords.BlockPosition{X: 4, Y: 60, Z: 4}
	require.NoError(t, c.SetBlock(context.Background(), pos, c.Blocks.Get(block.Glass)))
	assert.Eventually(t, func() bool {
		return c.Renderer.Stats().Prepared > before
	}, 10*time.Second, 10*time.Millisecond)
	assert.Equal(t, block.Glass, c.World.GetBlock(pos).Block.Identifier)
}

func TestClientRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Renderer.Workers = 0
	_, err := NewClient(cfg, testUploader{}, nil, nil)
	assert.Error(t, err)

	c, err := NewClient(testConfig(), testUploader{}, testCamera{core.NewCameraState()}, nil)
	require.NoError(t, err)
	assert.Error(t, c.SetViewDistance(context.Background(), -1))
	c.Close()
}
