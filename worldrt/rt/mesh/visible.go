package mesh

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

// VisibleMeshes is the per-layer draw list for the current frustum.
type VisibleMeshes struct {
	CameraPosition mgl32.Vec3
	layers         [layerCount][]*WorldMesh
}

func NewVisibleMeshes(camera mgl32.Vec3) *VisibleMeshes {
	return &VisibleMeshes{CameraPosition: camera}
}

func (v *VisibleMeshes) AddMesh(m *WorldMesh) {
	for l := range layerCount {
		if !m.layers[l].IsEmpty() {
			v.layers[l] = append(v.layers[l], m)
		}
	}
}

func (v *VisibleMeshes) RemoveMesh(m *WorldMesh) {
	for l := range v.layers {
		v.layers[l] = slices.DeleteFunc(v.layers[l], func(o *WorldMesh) bool { return o == m })
	}
}

func (v *VisibleMeshes) Contains(m *WorldMesh) bool {
	for _, list := range v.layers {
		if slices.Contains(list, m) {
			return true
		}
	}
	return false
}

func (v *VisibleMeshes) Meshes(l Layer) []*WorldMesh {
	return v.layers[l]
}

// Sort orders opaque meshes front to back and blended layers back to front.
func (v *VisibleMeshes) Sort() {
	cam := v.CameraPosition
	near := func(a, b *WorldMesh) int {
		return cmp.Compare(a.DistanceSquared(cam), b.DistanceSquared(cam))
	}
	far := func(a, b *WorldMesh) int { return near(b, a) }
	slices.SortFunc(v.layers[Opaque], near)
	slices.SortFunc(v.layers[Translucent], far)
	slices.SortFunc(v.layers[Transparent], far)
	slices.SortFunc(v.layers[Text], far)
}

func (v *VisibleMeshes) Clear() {
	for l := range v.layers {
		v.layers[l] = nil
	}
}

func (v *VisibleMeshes) IsEmpty() bool {
	for _, list := range v.layers {
		if len(list) > 0 {
			return false
		}
	}
	return true
}

// SizeString reports the per-layer sizes as opaque/translucent/transparent/text.
func (v *VisibleMeshes) SizeString() string {
	return fmt.Sprintf("%d/%d/%d/%d", len(v.layers[Opaque]), len(v.layers[Translucent]), len(v.layers[Transparent]), len(v.layers[Text]))
}

// Draw issues draw calls for one layer in sorted order.
func (v *VisibleMeshes) Draw(target DrawTarget, l Layer) {
	for _, m := range v.layers[l] {
		m.Draw(target, l)
	}
}
