package app

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sasha-s/go-deadlock"

	"github.com/gekko3d/worldmesh/worldrt/rt/core"
)

// Input is the movement state sampled once per frame.
type Input struct {
	Forward, Back, Left, Right, Up, Down bool
	// LookX and LookY are cursor deltas in pixels.
	LookX, LookY float32
}

// Player owns the camera and reports it to the section scheduler, which reads it from
// other goroutines.
type Player struct {
	mu     deadlock.RWMutex
	camera core.CameraState
	moving bool
}

const maxPitch = math32.Pi/2 - 0.01

func NewPlayer() *Player {
	return &Player{camera: *core.NewCameraState()}
}

// Update applies one frame of input and returns whether the view changed.
func (p *Player) Update(in Input, dt float32) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	cam := &p.camera

	turned := in.LookX != 0 || in.LookY != 0
	cam.Yaw += in.LookX * cam.Sensitivity
	cam.Pitch = mgl32.Clamp(cam.Pitch-in.LookY*cam.Sensitivity, -maxPitch, maxPitch)

	forward := cam.GetForward()
	forward = mgl32.Vec3{forward.X(), 0, forward.Z()}
	if forward.Len() > 0 {
		forward = forward.Normalize()
	}
	right := cam.GetRight()
	var dir mgl32.Vec3
	if in.Forward {
		dir = dir.Add(forward)
	}
	if in.Back {
		dir = dir.Sub(forward)
	}
	if in.Right {
		dir = dir.Add(right)
	}
	if in.Left {
		dir = dir.Sub(right)
	}
	if in.Up {
		dir[1]++
	}
	if in.Down {
		dir[1]--
	}
	p.moving = dir.Len() > 0
	if p.moving {
		cam.Position = cam.Position.Add(dir.Normalize().Mul(cam.Speed * dt))
	}
	return p.moving || turned
}

// Camera returns a copy of the current camera.
func (p *Player) Camera() *core.CameraState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	cam := p.camera
	return &cam
}

func (p *Player) CameraPosition() mgl32.Vec3 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.camera.Position
}

func (p *Player) Moving() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.moving
}

func (p *Player) Teleport(pos mgl32.Vec3) {
	p.mu.Lock()
	p.camera.Position = pos
	p.mu.Unlock()
}
