package world

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/worldmesh/worldrt/rt/block"
	"github.com/gekko3d/worldmesh/worldrt/rt/coords"
)

type RaycastHit struct {
	Position coords.BlockPosition
	// Face is the side of the hit block the ray entered through.
	Face     coords.Direction
	State    *block.State
	Distance float32
}

// Raycast walks the block grid from origin along dir and returns the first non fluid
// block within maxDistance.
func (w *World) Raycast(origin, dir mgl32.Vec3, maxDistance float32) (RaycastHit, bool) {
	if dir.Len() == 0 {
		return RaycastHit{}, false
	}
	dir = dir.Normalize()

	var cell, step [3]int
	var tMax, tDelta [3]float32
	for i := 0; i < 3; i++ {
		cell[i] = int(math32.Floor(origin[i]))
		d := dir[i]
		if math32.Abs(d) < 1e-7 {
			tMax[i] = math32.Inf(1)
			tDelta[i] = math32.Inf(1)
			continue
		}
		tDelta[i] = math32.Abs(1 / d)
		if d > 0 {
			step[i] = 1
			tMax[i] = (float32(cell[i]) + 1 - origin[i]) / d
		} else {
			step[i] = -1
			tMax[i] = (float32(cell[i]) - origin[i]) / d
		}
	}

	// axis entered through, per sign of the step
	faces := [3][2]coords.Direction{
		{coords.East, coords.West},
		{coords.Up, coords.Down},
		{coords.South, coords.North},
	}
	face := coords.Up
	t := float32(0)
	for t <= maxDistance {
		pos := coords.BlockPosition{X: cell[0], Y: cell[1], Z: cell[2]}
		if st := w.GetBlock(pos); st != nil && !st.IsFluid() {
			return RaycastHit{Position: pos, Face: face, State: st, Distance: t}, true
		}
		axis := 0
		if tMax[1] < tMax[axis] {
			axis = 1
		}
		if tMax[2] < tMax[axis] {
			axis = 2
		}
		t = tMax[axis]
		cell[axis] += step[axis]
		tMax[axis] += tDelta[axis]
		if step[axis] > 0 {
			face = faces[axis][1]
		} else {
			face = faces[axis][0]
		}
	}
	return RaycastHit{}, false
}
