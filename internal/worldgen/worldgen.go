// Package worldgen turns chunk coordinates into column scripts. It owns
// the deterministic terrain shape (run-length layering, decoration
// placement) but delegates the actual noise evaluation to a NoiseSource
// collaborator, so swapping noise implementations never touches this
// package — matching the original's separation between worldgen.h's
// ChunkData builder and the renderer/noise code it never touches.
package worldgen

import (
	"github.com/rmmh/voxelcore/internal/columnscript"
	"github.com/rmmh/voxelcore/internal/voxel"
)

// NoiseSource is the external collaborator supplying deterministic terrain
// shape: a height field and a 3D density field for caves/overhangs. Its
// implementation (simplex/perlin/whatever) is outside this module's scope.
type NoiseSource interface {
	// Height returns the terrain surface height at world column (x, z).
	Height(x, z int) int
	// Density returns a cave/overhang occupancy sample at world (x, y, z);
	// values <= 0 carve out the solid column generated from Height.
	Density(x, y, z int) float64
	// Decoration returns the decoration block to place atop the surface
	// at world column (x, z), or voxel.Air for none.
	Decoration(x, z int) voxel.Block
}

// Generator implements world.Worldgen: it samples a NoiseSource once per
// column and writes the result through columnscript.Builder, mirroring the
// original's loadChunkData(cx, cz) entry point.
type Generator struct {
	noise NoiseSource
}

// New builds a Generator over the given noise collaborator.
func New(noise NoiseSource) *Generator {
	return &Generator{noise: noise}
}

// Generate produces the column script for chunk p, covering its 16x16
// columns in world space.
func (g *Generator) Generate(p voxel.Point) *columnscript.ColumnScript {
	cs := &columnscript.ColumnScript{}
	var b columnscript.Builder
	baseX, baseZ := p.X<<voxel.ChunkBits, p.Z<<voxel.ChunkBits

	for z := 0; z < voxel.ChunkWidth; z++ {
		for x := 0; x < voxel.ChunkWidth; x++ {
			wx, wz := baseX+x, baseZ+z
			g.generateColumn(&b, wx, wz)
			cs.Columns[columnscript.ColumnIndex(x, z)] = b.Commit()
		}
	}
	return cs
}

// generateColumn fills one column: bedrock floor, a solid body up to the
// noise-sampled height (carved by the density field), surface dressing
// (sand near sea level, snow at altitude, grass/dirt otherwise), air above,
// and an optional decoration sitting on top.
func (g *Generator) generateColumn(b *columnscript.Builder, wx, wz int) {
	height := g.noise.Height(wx, wz)
	if height < 1 {
		height = 1
	}
	// height+1 must still leave room for the sea-level/Air fill below
	// voxel.BuildHeight: the surface can never reach the implicitly-Air
	// plane at y=BuildHeight itself.
	if height > voxel.BuildHeight-1 {
		height = voxel.BuildHeight - 1
	}

	b.Push(voxel.Bedrock, 1)

	y := 1
	for y < height {
		solid := g.noise.Density(wx, y, wz) > 0
		if !solid {
			b.Push(voxel.Air, 1)
			y++
			continue
		}
		block := interiorBlock(y, height)
		b.Push(block, 1)
		y++
	}

	surface := surfaceBlock(height)
	b.Push(surface, 1)

	top := height + 1
	if top < seaLevel {
		b.Push(voxel.Water, seaLevel-top)
		top = seaLevel
	}
	b.Push(voxel.Air, voxel.BuildHeight-top)

	if top == height+1 {
		if deco := g.noise.Decoration(wx, wz); deco != voxel.Air {
			b.Decorate(deco, uint8(height+1))
		}
	}
}

const seaLevel = 62

func surfaceBlock(height int) voxel.Block {
	switch {
	case height <= seaLevel+1:
		return voxel.Sand
	case height >= 140:
		return voxel.Snow
	default:
		return voxel.Grass
	}
}

func interiorBlock(y, height int) voxel.Block {
	if y > height-4 {
		return voxel.Dirt
	}
	return voxel.Stone
}
