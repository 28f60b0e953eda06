package cull

import (
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"github.com/gekko3d/worldmesh/worldrt/rt/block"
	"github.com/gekko3d/worldmesh/worldrt/rt/coords"
)

func props(sx, sy, ex, ey float32, tr block.Transparency) block.FaceProperties {
	return block.FaceProperties{Start: mgl32.Vec2{sx, sy}, End: mgl32.Vec2{ex, ey}, Transparency: tr}
}

func full(tr block.Transparency) block.FaceProperties {
	return props(0, 0, 1, 1, tr)
}

func face(p *block.FaceProperties) *block.BakedFace {
	return &block.BakedFace{Shade: 1, TintIndex: -1, Properties: p}
}

func side(faces ...block.FaceProperties) *block.SideProperties {
	return &block.SideProperties{Faces: faces, Transparency: faces[0].Transparency}
}

func stateOf(b *block.Block, s *block.SideProperties) *block.State {
	m := &block.BakedModel{}
	for _, dir := range coords.Directions {
		m.Sides[dir] = s
	}
	return &block.State{Block: b, Model: m}
}

func dummy(typ int) *block.Block {
	return &block.Block{Identifier: fmt.Sprintf("test:dummy%d", typ)}
}

func neighbour(tr block.Transparency) *block.State {
	return stateOf(dummy(0), side(full(tr)))
}

func TestCanCullNoSurface(t *testing.T) {
	owner := neighbour(block.Opaque)
	opaque := full(block.Opaque)

	assert.False(t, CanCull(owner, face(&opaque), coords.Down, nil), "unknown neighbour")
	assert.False(t, CanCull(owner, face(nil), coords.Down, neighbour(block.Opaque)), "face not touching")
	assert.False(t, CanCull(owner, face(&opaque), coords.Down, stateOf(dummy(0), nil)), "neighbour not touching")
	assert.True(t, CanCull(owner, face(&opaque), coords.Down, neighbour(block.Opaque)))
}

func TestCanCullCoverage(t *testing.T) {
	tests := []struct {
		name string
		face block.FaceProperties
		side []block.FaceProperties
		want bool
	}{
		{"size match", props(0, 0.5, 1, 0.5, block.Opaque), []block.FaceProperties{props(0, 0.5, 1, 0.5, block.Opaque)}, true},
		{"greater neighbour", props(0, 0.5, 1, 0.5, block.Opaque), []block.FaceProperties{props(0, 0.5, 1, 0.6, block.Opaque)}, true},
		{"smaller neighbour", props(0, 0.5, 1, 0.5, block.Opaque), []block.FaceProperties{props(0, 0.5, 1, 0.4, block.Opaque)}, false},
		{"no size", props(0, 0.5, 1, 0.5, block.Opaque), []block.FaceProperties{props(0.1, 0.5, 1, 0.5, block.Opaque)}, true},
		{"shifted 1", props(0, 0.4, 1, 0.5, block.Opaque), []block.FaceProperties{props(0.1, 0.4, 1, 0.5, block.Opaque)}, false},
		{"shifted 2", props(0, 0.4, 1, 0.5, block.Opaque), []block.FaceProperties{props(0.1, 0.4, 1, 0.6, block.Opaque)}, false},
		{"shifted 3", props(0.1, 0.8, 0.9, 0.9, block.Opaque), []block.FaceProperties{props(0.1, 0.5, 0.95, 0.95, block.Opaque)}, true},
		{"multiple neighbour faces", props(0.1, 0.3, 0.9, 0.9, block.Opaque), []block.FaceProperties{
			props(0.1, 0.2, 0.95, 0.4, block.Opaque),
			props(0.1, 0.4, 0.95, 0.6, block.Opaque),
			props(0.1, 0.6, 0.95, 0.95, block.Opaque),
		}, true},
		{"multiple neighbour faces with gap", props(0.1, 0.3, 0.9, 0.9, block.Opaque), []block.FaceProperties{
			props(0.1, 0.2, 0.95, 0.4, block.Opaque),
			props(0.1, 0.6, 0.95, 0.95, block.Opaque),
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.face
			n := stateOf(dummy(0), side(tt.side...))
			assert.Equal(t, tt.want, CanCull(neighbour(block.Opaque), face(&f), coords.East, n))
		})
	}
}

func TestCoverageOrderIndependent(t *testing.T) {
	f := props(0.1, 0.3, 0.9, 0.9, block.Opaque)
	parts := []block.FaceProperties{
		props(0.1, 0.6, 0.95, 0.95, block.Opaque),
		props(0.1, 0.2, 0.95, 0.4, block.Opaque),
		props(0.1, 0.4, 0.95, 0.6, block.Opaque),
	}
	assert.True(t, IsCovered(f, side(parts...)))
	assert.True(t, IsCovered(f, side(parts[2], parts[0], parts[1])))
	assert.False(t, IsCovered(f, nil))
}

func TestCanCullTransparency(t *testing.T) {
	tests := []struct {
		name      string
		owner     int
		face      block.Transparency
		neighbour block.Transparency
		want      bool
	}{
		{"transparent side on opaque neighbour", 0, block.Transparent, block.Opaque, true},
		{"translucent side on opaque neighbour", 0, block.Translucent, block.Opaque, true},
		{"opaque side on transparent neighbour", 0, block.Opaque, block.Transparent, false},
		{"opaque side on translucent neighbour", 0, block.Opaque, block.Translucent, false},
		{"same block both transparent", 0, block.Transparent, block.Transparent, true},
		{"same block both translucent", 0, block.Translucent, block.Translucent, true},
		{"different block both transparent", 1, block.Transparent, block.Transparent, false},
		{"different block both translucent", 1, block.Translucent, block.Translucent, false},
		{"transparent on translucent", 0, block.Transparent, block.Translucent, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := full(tt.face)
			owner := stateOf(dummy(tt.owner), side(full(tt.face)))
			assert.Equal(t, tt.want, CanCull(owner, face(&f), coords.East, neighbour(tt.neighbour)))
		})
	}
}

func TestCustomCullVeto(t *testing.T) {
	for _, tr := range []block.Transparency{block.Transparent, block.Translucent} {
		b := dummy(0)
		b.CustomCull = func(*block.State, *block.BakedFace, coords.Direction, *block.State) bool { return false }
		f := full(tr)
		assert.False(t, CanCull(stateOf(b, side(f)), face(&f), coords.East, neighbour(tr)), tr.String())
	}
}

func TestCustomCullNotInvokedWhenDefaultDecides(t *testing.T) {
	b := dummy(0)
	b.CustomCull = func(*block.State, *block.BakedFace, coords.Direction, *block.State) bool {
		panic("custom cull invoked")
	}
	owner := stateOf(b, side(full(block.Opaque)))
	opaque := full(block.Opaque)
	assert.NotPanics(t, func() {
		assert.True(t, CanCull(owner, face(&opaque), coords.East, neighbour(block.Opaque)))
	})

	// geometry already forbids culling
	small := props(0, 0, 1, 0.5, block.Transparent)
	tall := props(0, 0, 1, 1, block.Transparent)
	n := stateOf(dummy(0), side(small))
	assert.NotPanics(t, func() {
		assert.False(t, CanCull(owner, face(&tall), coords.East, n))
	})
	// transparency already forbids culling
	assert.NotPanics(t, func() {
		assert.False(t, CanCull(owner, face(&opaque), coords.East, neighbour(block.Transparent)))
	})
}

func TestCanCullSymmetricForSameBlock(t *testing.T) {
	for _, tr := range []block.Transparency{block.Opaque, block.Transparent, block.Translucent} {
		a := stateOf(dummy(3), side(full(tr)))
		b := stateOf(dummy(3), side(full(tr)))
		fa, fb := full(tr), full(tr)
		assert.Equal(t,
			CanCull(a, face(&fa), coords.North, b),
			CanCull(b, face(&fb), coords.South, a),
			tr.String())
	}
}
