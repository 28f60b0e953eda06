package worldgen

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/worldmesh/worldrt/rt/block"
	"github.com/gekko3d/worldmesh/worldrt/rt/coords"
	"github.com/gekko3d/worldmesh/worldrt/rt/world"
)

func TestGeneratorIsDeterministic(t *testing.T) {
	reg := block.DefaultRegistry()
	a, b := NewGenerator(7, reg), NewGenerator(7, reg)
	for x := -40; x < 40; x += 7 {
		assert.Equal(t, a.Height(x, -x), b.Height(x, -x))
	}
}

func TestGeneratorFillColumn(t *testing.T) {
	reg := block.DefaultRegistry()
	gen := NewGenerator(3, reg)
	c := world.NewChunk(coords.ChunkPosition{X: 2, Z: -1}, 0, 4)
	gen.Fill(c)

	for x := 0; x < coords.SectionWidth; x += 5 {
		for z := 0; z < coords.SectionWidth; z += 5 {
			h := gen.Height(2*coords.SectionWidth+x, -coords.SectionWidth+z)
			top := c.Get(coords.Vec3i{X: x, Y: h, Z: z})
			require.NotNil(t, top)
			assert.Contains(t, []string{block.Grass, block.Sand}, top.Block.Identifier)
			assert.Equal(t, block.Stone, c.Get(coords.Vec3i{X: x, Y: 0, Z: z}).Block.Identifier)
			if h < SeaLevel-1 {
				assert.True(t, c.Get(coords.Vec3i{X: x, Y: SeaLevel - 1, Z: z}).IsFluid())
			}
		}
	}
}

func drain(events chan world.Event) []world.Event {
	var out []world.Event
	for {
		select {
		case ev := <-events:
			out = append(out, ev)
		default:
			return out
		}
	}
}

func TestStreamerGeneratesNearestFirst(t *testing.T) {
	reg := block.DefaultRegistry()
	w := world.New(0, 4)
	events := make(chan world.Event, 64)
	s := NewStreamer(w, NewGenerator(1, reg), 0, 0, events, nil)
	ctx := context.Background()

	progressed, err := s.Step(ctx)
	require.NoError(t, err)
	require.True(t, progressed)
	got := drain(events)
	require.Len(t, got, 1)
	ev := got[0].(world.ChunkDataChangeEvent)
	assert.Equal(t, coords.ChunkPosition{}, ev.Position)
	assert.True(t, ev.Chunk.IsFullyLoaded())

	// view distance 0 keeps a ring of one
	for i := 0; i < 8; i++ {
		_, err := s.Step(ctx)
		require.NoError(t, err)
	}
	assert.Equal(t, 9, w.ChunkCount())
	progressed, err = s.Step(ctx)
	require.NoError(t, err)
	assert.False(t, progressed)
}

func TestStreamerUnloadsFarChunks(t *testing.T) {
	reg := block.DefaultRegistry()
	w := world.New(0, 4)
	events := make(chan world.Event, 256)
	s := NewStreamer(w, NewGenerator(1, reg), 0, 0, events, nil)
	ctx := context.Background()
	for i := 0; i < 9; i++ {
		_, err := s.Step(ctx)
		require.NoError(t, err)
	}
	drain(events)

	s.SetCenter(coords.ChunkPosition{X: 10})
	_, err := s.Step(ctx)
	require.NoError(t, err)

	unloads := 0
	for _, ev := range drain(events) {
		if _, ok := ev.(world.ChunkUnloadEvent); ok {
			unloads++
		}
	}
	assert.Equal(t, 9, unloads)
	assert.Equal(t, 1, w.ChunkCount())
}

func TestStreamerSetViewDistance(t *testing.T) {
	events := make(chan world.Event, 1)
	s := NewStreamer(world.New(0, 1), NewGenerator(1, block.DefaultRegistry()), 0, 2, events, nil)
	require.NoError(t, s.SetViewDistance(context.Background(), 5))
	assert.Equal(t, 5, s.ViewDistance())
	assert.Equal(t, world.ViewDistanceChangeEvent{ViewDistance: 5}, <-events)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	events <- world.RespawnEvent{}
	assert.ErrorIs(t, s.SetViewDistance(ctx, 3), context.Canceled)
}

func TestStreamerSetBlock(t *testing.T) {
	reg := block.DefaultRegistry()
	w := world.New(0, 1)
	w.GetOrCreateChunk(coords.ChunkPosition{})
	events := make(chan world.Event, 2)
	s := NewStreamer(w, NewGenerator(1, reg), 0, 0, events, nil)

	pos := coords.BlockPosition{X: 1, Y: 2, Z: 3}
	require.NoError(t, s.SetBlock(context.Background(), pos, reg.Get(block.Glass)))
	assert.Equal(t, world.BlockSetEvent{Position: pos}, <-events)

	require.NoError(t, s.SetBlock(context.Background(), coords.BlockPosition{X: 99}, reg.Get(block.Glass)))
	assert.Empty(t, drain(events))
}
