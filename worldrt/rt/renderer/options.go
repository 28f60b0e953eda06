package renderer

import (
	"runtime"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/worldmesh/worldrt/rt/coords"
)

const (
	DefaultMaxMeshesToLoad = 100
	DefaultIdleBudget      = 50 * time.Millisecond
	DefaultMovingBudget    = 20 * time.Millisecond
)

type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

// VisibilityGraph answers visibility queries for the current camera.
type VisibilityGraph interface {
	IsChunkVisible(pos coords.ChunkPosition) bool
	IsSectionVisible(pos coords.ChunkPosition, height int, min, max coords.Vec3i, strict bool) bool
}

// Camera is the viewer the world is rendered for.
type Camera interface {
	CameraPosition() mgl32.Vec3
	// Moving reports whether the player moved since the last frame.
	Moving() bool
}

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

type Options struct {
	// Workers is the background pool size. maxPreparingTasks is Workers-1, at least 1.
	Workers         int
	MaxMeshesToLoad int
	IdleBudget      time.Duration
	MovingBudget    time.Duration
	// ViewDistance is the radius in chunks the world is currently loaded with.
	ViewDistance int
	// LockChecks panics when locks are requested out of order.
	LockChecks bool

	Logger   Logger
	Clock    Clock
	Executor Executor
}

func DefaultOptions() Options {
	return Options{
		Workers:         runtime.NumCPU(),
		MaxMeshesToLoad: DefaultMaxMeshesToLoad,
		IdleBudget:      DefaultIdleBudget,
		MovingBudget:    DefaultMovingBudget,
	}
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.MaxMeshesToLoad <= 0 {
		o.MaxMeshesToLoad = DefaultMaxMeshesToLoad
	}
	if o.IdleBudget < 0 {
		o.IdleBudget = 0
	}
	if o.MovingBudget < 0 {
		o.MovingBudget = 0
	}
	if o.Logger == nil {
		o.Logger = nopLogger{}
	}
	if o.Clock == nil {
		o.Clock = systemClock{}
	}
	return o
}

func maxPreparingTasks(workers int) int {
	return max(workers-1, 1)
}
