// Package cull decides whether a block face is hidden by its neighbour.
package cull

import (
	"github.com/gekko3d/worldmesh/worldrt/rt/block"
	"github.com/gekko3d/worldmesh/worldrt/rt/coords"
)

const coverEpsilon = 1e-5

// CanCull reports whether face of owner, pointing towards dir, is hidden by neighbour.
// Safe for concurrent use on baked data.
func CanCull(owner *block.State, face *block.BakedFace, dir coords.Direction, neighbour *block.State) bool {
	if face == nil || face.Properties == nil || neighbour == nil {
		return false
	}
	side := neighbour.Side(dir.Inverted())
	if side == nil {
		return false
	}
	if !IsCovered(*face.Properties, side) {
		return false
	}
	if side.Transparency == block.Opaque {
		return true
	}
	own := face.Properties.Transparency
	if own == block.Opaque || own != side.Transparency {
		return false
	}
	if owner == nil || !owner.Block.SameType(neighbour.Block) {
		return false
	}
	if owner.Block.CustomCull != nil {
		return owner.Block.CustomCull(owner, face, dir, neighbour)
	}
	return true
}

// IsCovered reports whether the union of the side's rectangles covers face.
// Side rectangles are assumed not to overlap each other.
func IsCovered(face block.FaceProperties, side *block.SideProperties) bool {
	if side == nil || len(side.Faces) == 0 {
		return false
	}
	area := face.Area()
	if area <= 0 {
		// degenerate faces only need a touching rectangle
		for _, n := range side.Faces {
			if w, h := overlap(face, n); w >= 0 && h >= 0 {
				return true
			}
		}
		return false
	}
	for _, n := range side.Faces {
		w, h := overlap(face, n)
		if w <= 0 || h <= 0 {
			continue
		}
		area -= w * h
	}
	return area <= coverEpsilon
}

func overlap(a, b block.FaceProperties) (float32, float32) {
	w := min(a.End.X(), b.End.X()) - max(a.Start.X(), b.Start.X())
	h := min(a.End.Y(), b.End.Y()) - max(a.Start.Y(), b.Start.Y())
	return w, h
}
