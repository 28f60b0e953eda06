package worldmesh

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/gekko3d/worldmesh/worldrt/rt/block"
	"github.com/gekko3d/worldmesh/worldrt/rt/coords"
	"github.com/gekko3d/worldmesh/worldrt/rt/core"
	"github.com/gekko3d/worldmesh/worldrt/rt/mesh"
	"github.com/gekko3d/worldmesh/worldrt/rt/renderer"
	"github.com/gekko3d/worldmesh/worldrt/rt/world"
	"github.com/gekko3d/worldmesh/worldrt/rt/worldgen"
)

// Client wires a streamed world to the section scheduler. Events from the streamer
// reach the renderer through a single channel consumed by Start.
type Client struct {
	Config   Config
	Logger   Logger
	Blocks   *block.Registry
	World    *world.World
	Graph    *core.VisibilityGraph
	Renderer *renderer.WorldRenderer
	Streamer *worldgen.Streamer

	events chan world.Event
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewClient(cfg Config, uploader mesh.Uploader, camera renderer.Camera, logger Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = NewNopLogger()
	}
	c := &Client{
		Config: cfg,
		Logger: logger,
		Blocks: block.DefaultRegistry(),
		World:  world.New(cfg.World.MinSection, cfg.World.MaxSection),
		Graph:  core.NewVisibilityGraph(cfg.World.ViewDistance),
		events: make(chan world.Event, 256),
	}
	opts := cfg.RendererOptions()
	opts.Logger = logger
	c.Renderer = renderer.New(c.World, c.Graph, camera, uploader, opts)
	c.Streamer = worldgen.NewStreamer(c.World, worldgen.NewGenerator(cfg.World.Seed, c.Blocks),
		cfg.World.ChunksPerSecond, cfg.World.ViewDistance, c.events, logger)
	return c, nil
}

// Start runs the event loop and the streamer until Close.
func (c *Client) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)
	run := func(name string, f func(context.Context) error) {
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			if err := f(ctx); err != nil && !errors.Is(err, context.Canceled) {
				c.Logger.Errorf("%s stopped: %v", name, err)
			}
		}()
	}
	run("event loop", func(ctx context.Context) error { return c.Renderer.Run(ctx, c.events) })
	run("streamer", c.Streamer.Run)
}

// UpdateCamera refreshes visibility after the camera moved or turned.
func (c *Client) UpdateCamera(cam *core.CameraState, aspect float32) {
	c.Graph.Update(cam, aspect)
	c.Streamer.SetCenter(cam.ChunkPosition())
	c.Renderer.OnFrustumChange()
}

func (c *Client) SetViewDistance(ctx context.Context, d int) error {
	if d < 0 {
		return errors.Errorf("negative view distance %d", d)
	}
	c.Graph.SetViewDistance(d)
	return c.Streamer.SetViewDistance(ctx, d)
}

func (c *Client) SetBlock(ctx context.Context, pos coords.BlockPosition, st *block.State) error {
	return c.Streamer.SetBlock(ctx, pos, st)
}

// Close stops the background loops and releases every mesh. Render thread only.
func (c *Client) Close() {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	c.Renderer.Close()
}
