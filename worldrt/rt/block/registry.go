package block

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/sasha-s/go-deadlock"

	"github.com/gekko3d/worldmesh/worldrt/rt/coords"
)

const (
	Stone     = "worldmesh:stone"
	Dirt      = "worldmesh:dirt"
	Grass     = "worldmesh:grass"
	Sand      = "worldmesh:sand"
	Glass     = "worldmesh:glass"
	Leaves    = "worldmesh:leaves"
	Ice       = "worldmesh:ice"
	Water     = "worldmesh:water"
	StoneSlab = "worldmesh:stone_slab"
	IronBars  = "worldmesh:iron_bars"

	FluidWater = "worldmesh:fluid/water"
)

// Registry maps identifiers to their default state. Air is a nil state.
type Registry struct {
	mu     deadlock.RWMutex
	states map[string]*State
	nextID uint32
}

func NewRegistry() *Registry {
	return &Registry{states: make(map[string]*State), nextID: 1}
}

func (r *Registry) Register(b *Block, model *BakedModel) *State {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := &State{ID: r.nextID, Block: b, Model: model}
	r.nextID++
	r.states[b.Identifier] = st
	return st
}

func (r *Registry) RegisterFluid(b *Block, fluid string, level float32) *State {
	st := r.Register(b, nil)
	st.Fluid = fluid
	st.FluidLevel = level
	st.FluidTint = [3]float32{b.Color[0], b.Color[1], b.Color[2]}
	return st
}

func (r *Registry) Get(identifier string) *State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.states[identifier]
}

func (r *Registry) Identifiers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.states))
	for id := range r.states {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DefaultRegistry registers the block set used by the terrain generator and tests.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&Block{Identifier: Stone, Color: [4]float32{0.5, 0.5, 0.52, 1}}, FullCube(Opaque))
	r.Register(&Block{Identifier: Dirt, Color: [4]float32{0.45, 0.32, 0.2, 1}}, FullCube(Opaque))
	r.Register(&Block{Identifier: Grass, Color: [4]float32{0.3, 0.62, 0.25, 1}}, FullCube(Opaque))
	r.Register(&Block{Identifier: Sand, Color: [4]float32{0.86, 0.8, 0.55, 1}}, FullCube(Opaque))
	r.Register(&Block{Identifier: Glass, Color: [4]float32{0.85, 0.95, 1, 0.3}}, FullCube(Transparent))
	r.Register(&Block{Identifier: Leaves, Color: [4]float32{0.2, 0.5, 0.15, 0.8}}, FullCube(Transparent))
	r.Register(&Block{Identifier: Ice, Color: [4]float32{0.6, 0.75, 1, 0.6}}, FullCube(Translucent))
	r.Register(&Block{Identifier: StoneSlab, Color: [4]float32{0.55, 0.55, 0.57, 1}},
		Cuboid(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0.5, 1}, Opaque))
	// Bars never hide each other, so adjacent panes keep both faces.
	r.Register(&Block{
		Identifier: IronBars,
		Color:      [4]float32{0.4, 0.4, 0.42, 0.9},
		CustomCull: func(*State, *BakedFace, coords.Direction, *State) bool { return false },
	}, FullCube(Transparent))
	r.RegisterFluid(&Block{Identifier: Water, Color: [4]float32{0.2, 0.35, 0.9, 0.65}}, FluidWater, 14.0/16.0)
	return r
}
