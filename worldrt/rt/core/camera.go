package core

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/worldmesh/worldrt/rt/coords"
)

type CameraState struct {
	Position    mgl32.Vec3
	Yaw         float32
	Pitch       float32
	Fov         float32
	Near        float32
	Far         float32
	Speed       float32
	Sensitivity float32
}

func NewCameraState() *CameraState {
	return &CameraState{
		Position:    mgl32.Vec3{8, 80, 8},
		Fov:         mgl32.DegToRad(70),
		Near:        0.1,
		Far:         1024,
		Speed:       20.0,
		Sensitivity: 0.003,
	}
}

func (c *CameraState) GetForward() mgl32.Vec3 {
	// Y-up, yaw 0 looks towards -Z
	return mgl32.Vec3{
		math32.Cos(c.Pitch) * math32.Sin(c.Yaw),
		math32.Sin(c.Pitch),
		-math32.Cos(c.Pitch) * math32.Cos(c.Yaw),
	}
}

func (c *CameraState) GetRight() mgl32.Vec3 {
	return mgl32.Vec3{
		math32.Cos(c.Yaw),
		0,
		math32.Sin(c.Yaw),
	}
}

func (c *CameraState) GetViewMatrix() mgl32.Mat4 {
	eye := c.Position
	return mgl32.LookAtV(eye, eye.Add(c.GetForward()), mgl32.Vec3{0, 1, 0})
}

func (c *CameraState) GetProjectionMatrix(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(c.Fov, aspect, c.Near, c.Far)
}

func (c *CameraState) ViewProjection(aspect float32) mgl32.Mat4 {
	return c.GetProjectionMatrix(aspect).Mul4(c.GetViewMatrix())
}

// BlockPosition is the block containing the eye.
func (c *CameraState) BlockPosition() coords.BlockPosition {
	return coords.BlockPosition{
		X: int(math32.Floor(c.Position.X())),
		Y: int(math32.Floor(c.Position.Y())),
		Z: int(math32.Floor(c.Position.Z())),
	}
}

func (c *CameraState) ChunkPosition() coords.ChunkPosition {
	return coords.ChunkOf(c.BlockPosition())
}
