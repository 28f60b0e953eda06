package worldgen

import (
	"github.com/ojrac/opensimplex-go"

	"github.com/gekko3d/worldmesh/worldrt/rt/block"
	"github.com/gekko3d/worldmesh/worldrt/rt/coords"
	"github.com/gekko3d/worldmesh/worldrt/rt/world"
)

const (
	SeaLevel   = 30
	baseHeight = 34
	amplitude  = 22
)

// Generator fills chunks with noise terrain. It is safe for concurrent use.
type Generator struct {
	terrain opensimplex.Noise
	detail  opensimplex.Noise
	reg     *block.Registry

	stone, dirt, grass, sand, water, leaves, glass, ice *block.State
}

func NewGenerator(seed int64, reg *block.Registry) *Generator {
	return &Generator{
		terrain: opensimplex.NewNormalized(seed),
		detail:  opensimplex.NewNormalized(seed + 1),
		reg:     reg,
		stone:   reg.Get(block.Stone),
		dirt:    reg.Get(block.Dirt),
		grass:   reg.Get(block.Grass),
		sand:    reg.Get(block.Sand),
		water:   reg.Get(block.Water),
		leaves:  reg.Get(block.Leaves),
		glass:   reg.Get(block.Glass),
		ice:     reg.Get(block.Ice),
	}
}

// Height is the surface y at world column x, z.
func (g *Generator) Height(x, z int) int {
	fx, fz := float64(x), float64(z)
	n := 0.6*g.terrain.Eval2(fx/96, fz/96) +
		0.3*g.terrain.Eval2(fx/32, fz/32) +
		0.1*g.terrain.Eval2(fx/12, fz/12)
	return baseHeight + int((n-0.5)*2*amplitude)
}

// Fill writes terrain into c, clipped to the chunk's section range.
func (g *Generator) Fill(c *world.Chunk) {
	minY := c.LowestSection() * coords.SectionHeight
	maxY := (c.HighestSection()+1)*coords.SectionHeight - 1
	ox := int(c.Position.X) * coords.SectionWidth
	oz := int(c.Position.Z) * coords.SectionWidth

	for x := 0; x < coords.SectionWidth; x++ {
		for z := 0; z < coords.SectionWidth; z++ {
			wx, wz := ox+x, oz+z
			height := min(g.Height(wx, wz), maxY)
			for y := minY; y <= height; y++ {
				c.Set(coords.Vec3i{X: x, Y: y, Z: z}, g.column(y, height))
			}
			for y := height + 1; y <= min(SeaLevel, maxY); y++ {
				st := g.water
				if y == SeaLevel && g.detail.Eval2(float64(wx)/6, float64(wz)/6) > 0.8 {
					st = g.ice
				}
				c.Set(coords.Vec3i{X: x, Y: y, Z: z}, st)
			}
			if height > SeaLevel+1 && height+1 <= maxY {
				switch d := g.detail.Eval2(float64(wx)/3, float64(wz)/3); {
				case d > 0.86:
					c.Set(coords.Vec3i{X: x, Y: height + 1, Z: z}, g.leaves)
				case d < 0.08:
					c.Set(coords.Vec3i{X: x, Y: height + 1, Z: z}, g.glass)
				}
			}
		}
	}
}

func (g *Generator) column(y, height int) *block.State {
	switch {
	case y == height && height <= SeaLevel+1:
		return g.sand
	case y == height:
		return g.grass
	case y >= height-3:
		return g.dirt
	default:
		return g.stone
	}
}
