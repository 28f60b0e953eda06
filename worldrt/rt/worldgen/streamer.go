package worldgen

import (
	"context"
	"slices"
	"time"

	"github.com/sasha-s/go-deadlock"
	"golang.org/x/time/rate"

	"github.com/gekko3d/worldmesh/worldrt/rt/block"
	"github.com/gekko3d/worldmesh/worldrt/rt/coords"
	"github.com/gekko3d/worldmesh/worldrt/rt/world"
)

type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}

// Streamer keeps the chunks around a center generated, rate limited, and reports every
// change as a world event.
type Streamer struct {
	world   *world.World
	gen     *Generator
	limiter *rate.Limiter
	events  chan<- world.Event
	logger  Logger
	wake    chan struct{}

	mu           deadlock.Mutex
	center       coords.ChunkPosition
	viewDistance int
}

func NewStreamer(w *world.World, gen *Generator, chunksPerSecond float64, viewDistance int, events chan<- world.Event, logger Logger) *Streamer {
	if logger == nil {
		logger = nopLogger{}
	}
	limit := rate.Limit(chunksPerSecond)
	if chunksPerSecond <= 0 {
		limit = rate.Inf
	}
	return &Streamer{
		world:        w,
		gen:          gen,
		limiter:      rate.NewLimiter(limit, 4),
		events:       events,
		logger:       logger,
		wake:         make(chan struct{}, 1),
		viewDistance: viewDistance,
	}
}

func (s *Streamer) SetCenter(pos coords.ChunkPosition) {
	s.mu.Lock()
	changed := s.center != pos
	s.center = pos
	s.mu.Unlock()
	if changed {
		s.poke()
	}
}

// SetViewDistance changes the streamed radius and reports it downstream.
func (s *Streamer) SetViewDistance(ctx context.Context, d int) error {
	s.mu.Lock()
	s.viewDistance = d
	s.mu.Unlock()
	s.poke()
	return s.emit(ctx, world.ViewDistanceChangeEvent{ViewDistance: d})
}

func (s *Streamer) ViewDistance() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewDistance
}

func (s *Streamer) poke() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Streamer) snapshot() (coords.ChunkPosition, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.center, s.viewDistance
}

// Run streams until ctx is done.
func (s *Streamer) Run(ctx context.Context) error {
	idle := time.NewTicker(250 * time.Millisecond)
	defer idle.Stop()
	for {
		progressed, err := s.Step(ctx)
		if err != nil {
			return err
		}
		if progressed {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.wake:
		case <-idle.C:
		}
	}
}

// Step unloads far chunks and generates the nearest missing one. It reports whether it
// changed the world.
func (s *Streamer) Step(ctx context.Context) (bool, error) {
	center, viewDistance := s.snapshot()
	// one extra ring so border chunks have neighbours
	keep := viewDistance + 1

	unloaded := false
	for _, c := range s.world.Chunks() {
		if c.Position.InViewDistance(center, keep+1) {
			continue
		}
		if s.world.RemoveChunk(c.Position) {
			unloaded = true
			if err := s.emit(ctx, world.ChunkUnloadEvent{Position: c.Position}); err != nil {
				return unloaded, err
			}
		}
	}

	missing := s.missing(center, keep)
	if len(missing) == 0 {
		return unloaded, nil
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return unloaded, err
	}
	pos := missing[0]
	c := s.world.GetOrCreateChunk(pos)
	s.gen.Fill(c)
	c.SetFullyLoaded(true)
	s.logger.Debugf("Generated chunk %v (%d left)", pos, len(missing)-1)
	return true, s.emit(ctx, world.ChunkDataChangeEvent{Position: pos, Chunk: c})
}

// missing lists absent chunks within radius, nearest first.
func (s *Streamer) missing(center coords.ChunkPosition, radius int) []coords.ChunkPosition {
	var out []coords.ChunkPosition
	for dx := -radius; dx <= radius; dx++ {
		for dz := -radius; dz <= radius; dz++ {
			pos := center.Add(int32(dx), int32(dz))
			if s.world.Chunk(pos) == nil {
				out = append(out, pos)
			}
		}
	}
	slices.SortStableFunc(out, func(a, b coords.ChunkPosition) int {
		return distance2(a, center) - distance2(b, center)
	})
	return out
}

func distance2(a, b coords.ChunkPosition) int {
	dx, dz := int(a.X-b.X), int(a.Z-b.Z)
	return dx*dx + dz*dz
}

// SetBlock edits the world and reports the change.
func (s *Streamer) SetBlock(ctx context.Context, pos coords.BlockPosition, st *block.State) error {
	if s.world.SetBlock(pos, st) == nil {
		return nil
	}
	return s.emit(ctx, world.BlockSetEvent{Position: pos})
}

func (s *Streamer) emit(ctx context.Context, ev world.Event) error {
	select {
	case s.events <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
