package world

import (
	"github.com/rmmh/voxelcore/internal/columnscript"
	"github.com/rmmh/voxelcore/internal/voxel"
)

// load asks the world's Worldgen collaborator for this chunk's column
// script and unpacks it into voxels, heightmap, equilevels, and decoration
// instances. A nil Worldgen leaves the chunk as all-Air, which is useful
// for headless tests that populate voxels directly via SetBlock.
func (c *Chunk) load() {
	if c.world.worldgen == nil {
		return
	}
	cs := c.world.worldgen.Generate(c.point)
	for z := 0; z < voxel.ChunkWidth; z++ {
		for x := 0; x < voxel.ChunkWidth; x++ {
			col := cs.Columns[columnscript.ColumnIndex(x, z)]
			c.loadColumn(x, z, col)
		}
	}
	c.recomputeEquilevels()
}

func (c *Chunk) loadColumn(x, z int, col columnscript.Column) {
	startY := uint8(0)
	height := uint8(0)
	for _, run := range col.Runs {
		for y := int(startY); y < int(run.EndY); y++ {
			c.voxels[voxel.VoxelIndex(x, y, z)] = run.Block
		}
		if run.Block != voxel.Air {
			height = run.EndY
		}
		startY = run.EndY
	}
	c.heightmap[voxel.HeightIndex(x, z)] = height

	for _, d := range col.Decorations {
		index := voxel.VoxelIndex(x, int(d.Y), z)
		c.voxels[index] = d.Block
		data := c.world.registry.GetBlock(int(d.Block))
		if data.Mesh {
			c.instances[index] = &Instance{Block: d.Block, lastLight: -1}
		}
	}
}

// recomputeEquilevels marks each y-level uniform if every column in the
// chunk holds the same block at that height, matching the mesher's
// equilevel optimization input (Chunk.copyIntoMesher further ANDs this
// against all 8 neighbors before trusting it across a chunk boundary).
func (c *Chunk) recomputeEquilevels() {
	for y := 0; y < voxel.WorldHeight; y++ {
		repr := c.voxels[voxel.VoxelIndex(0, y, 0)]
		uniform := true
		for z := 0; z < voxel.ChunkWidth && uniform; z++ {
			for x := 0; x < voxel.ChunkWidth; x++ {
				if c.voxels[voxel.VoxelIndex(x, y, z)] != repr {
					uniform = false
					break
				}
			}
		}
		if uniform {
			c.equilevels[y] = 1
		} else {
			c.equilevels[y] = 0
		}
	}
}
