package world

import (
	"github.com/rmmh/voxelcore/internal/mesher"
	"github.com/rmmh/voxelcore/internal/voxel"
)

// offsetEntry describes how to copy one of the 9 (self + 8 neighbors)
// chunks' border strips into the mesher's padded grid: Delta is the
// neighbor's chunk-coordinate offset, SrcPos/Size locate the strip within
// the source chunk's own 16x16 extent, and DstPos locates it within the
// mesher's 18x18 padded extent.
type offsetEntry struct {
	Delta, DstPos, SrcPos, Size voxel.Point
}

const (
	meshW = voxel.ChunkWidth     // 16
	meshL = voxel.ChunkWidth - 1 // 15
	meshN = voxel.ChunkWidth + 1 // 17
)

var kMesherOffsets = [9]offsetEntry{
	{Delta: voxel.Point{X: 0, Z: 0}, DstPos: voxel.Point{X: 1, Z: 1}, SrcPos: voxel.Point{X: 0, Z: 0}, Size: voxel.Point{X: meshW, Z: meshW}},
	{Delta: voxel.Point{X: -1, Z: 0}, DstPos: voxel.Point{X: 0, Z: 1}, SrcPos: voxel.Point{X: meshL, Z: 0}, Size: voxel.Point{X: 1, Z: meshW}},
	{Delta: voxel.Point{X: 1, Z: 0}, DstPos: voxel.Point{X: meshN, Z: 1}, SrcPos: voxel.Point{X: 0, Z: 0}, Size: voxel.Point{X: 1, Z: meshW}},
	{Delta: voxel.Point{X: 0, Z: -1}, DstPos: voxel.Point{X: 1, Z: 0}, SrcPos: voxel.Point{X: 0, Z: meshL}, Size: voxel.Point{X: meshW, Z: 1}},
	{Delta: voxel.Point{X: 0, Z: 1}, DstPos: voxel.Point{X: 1, Z: meshN}, SrcPos: voxel.Point{X: 0, Z: 0}, Size: voxel.Point{X: meshW, Z: 1}},
	{Delta: voxel.Point{X: -1, Z: -1}, DstPos: voxel.Point{X: 0, Z: 0}, SrcPos: voxel.Point{X: meshL, Z: meshL}, Size: voxel.Point{X: 1, Z: 1}},
	{Delta: voxel.Point{X: -1, Z: 1}, DstPos: voxel.Point{X: 0, Z: meshN}, SrcPos: voxel.Point{X: meshL, Z: 0}, Size: voxel.Point{X: 1, Z: 1}},
	{Delta: voxel.Point{X: 1, Z: -1}, DstPos: voxel.Point{X: meshN, Z: 0}, SrcPos: voxel.Point{X: 0, Z: meshL}, Size: voxel.Point{X: 1, Z: 1}},
	{Delta: voxel.Point{X: 1, Z: 1}, DstPos: voxel.Point{X: meshN, Z: meshN}, SrcPos: voxel.Point{X: 0, Z: 0}, Size: voxel.Point{X: 1, Z: 1}},
}

// copyIntoMesher fills m's padded grid (voxels, heightmap, equilevels) from
// the chunk's own data and its 8 neighbors, using kMesherOffsets. It
// requires every neighbor to be present, which needsRemesh's ready check
// guarantees.
func (c *Chunk) copyIntoMesher(m *mesher.Mesher) {
	m.Reset()
	for _, off := range kMesherOffsets {
		src := c
		if off.Delta != (voxel.Point{}) {
			nb, ok := c.world.chunks.Get(c.point.Add(off.Delta))
			if !ok {
				continue
			}
			src = nb
		}
		for i := 0; i < off.Size.X; i++ {
			for j := 0; j < off.Size.Z; j++ {
				sx, sz := off.SrcPos.X+i, off.SrcPos.Z+j
				dx, dz := off.DstPos.X+i, off.DstPos.Z+j
				m.SetHeight(dx, dz, src.heightmap[voxel.HeightIndex(sx, sz)])
				for y := 0; y < voxel.WorldHeight; y++ {
					m.SetVoxel(dx, y+1, dz, src.voxels[voxel.VoxelIndex(sx, y, sz)])
				}
			}
		}
	}

	for y := 0; y < voxel.WorldHeight; y++ {
		uniform := c.equilevels[y] != 0
		if uniform {
			repr := c.voxels[voxel.VoxelIndex(0, y, 0)]
			for _, d := range kNeighbors {
				nb, ok := c.world.chunks.Get(c.point.Add(d))
				if !ok || nb.equilevels[y] == 0 {
					uniform = false
					break
				}
				bx, bz := clampCoord(d.X), clampCoord(d.Z)
				sample := nb.voxels[voxel.VoxelIndex(bx, y, bz)]
				if sample != repr && !(c.world.registry.GetBlock(int(sample)).Opaque && c.world.registry.GetBlock(int(repr)).Opaque) {
					uniform = false
					break
				}
			}
		}
		m.SetEquilevel(y+1, uniform)
	}
}

// clampCoord maps a neighbor delta component (-1, 0, 1) to the border
// coordinate of the representative (0, y, 0) column's sample on that
// neighbor, used by the equilevel-conservative check.
func clampCoord(d int) int {
	switch {
	case d < 0:
		return voxel.ChunkMask
	case d > 0:
		return 0
	default:
		return 0
	}
}

// remeshTerrain rebuilds the chunk's solid/water geometry and hands it to
// the renderer bridge.
func (c *Chunk) remeshTerrain() {
	c.copyIntoMesher(c.world.mesh)
	c.world.mesh.MeshChunk()
	if c.world.FrontierEnabled {
		c.frontier = c.world.mesh.SampleFrontier()
	}

	bx, bz := c.point.X<<voxel.ChunkBits, c.point.Z<<voxel.ChunkBits
	if len(c.world.mesh.SolidGeo) > 0 {
		if c.solidMesh == nil {
			c.solidMesh = c.world.bridge().NewMesh()
		}
		c.solidMesh.SetGeometry(c.world.mesh.SolidGeo)
		c.solidMesh.SetPosition(bx, 0, bz)
	} else {
		c.solidMesh = nil
	}
	if len(c.world.mesh.WaterGeo) > 0 {
		if c.waterMesh == nil {
			c.waterMesh = c.world.bridge().NewMesh()
		}
		c.waterMesh.SetGeometry(c.world.mesh.WaterGeo)
		c.waterMesh.SetPosition(bx, 0, bz)
	} else {
		c.waterMesh = nil
	}
}

// refreshInstances lazily creates renderer handles for decoration instances
// that don't have one yet, matching remeshSprites's on-demand mesh
// creation.
func (c *Chunk) refreshInstances() {
	bx, bz := c.point.X<<voxel.ChunkBits, c.point.Z<<voxel.ChunkBits
	for index, inst := range c.instances {
		if inst.hasMesh {
			continue
		}
		y := index & 0xff
		x := (index >> 8) & voxel.ChunkMask
		z := (index >> 12) & voxel.ChunkMask
		inst.Mesh = c.world.bridge().NewInstancedMesh()
		inst.Mesh.SetPosition(bx+x, y, bz+z)
		inst.hasMesh = true
		inst.lastLight = -1
	}
}

// setLightTexture pushes the chunk's merged (stage1+stage2) light buffer to
// the renderer, and refreshes any decoration instance whose effective light
// level has changed since the last push — the throttling the original
// applies so the bridge isn't called every frame for unchanged instances.
func (c *Chunk) setLightTexture() {
	if !c.hasMesh() {
		return
	}
	levels := make([]uint8, chunkVoxels)
	for i := range levels {
		v := c.stage1Lights[i]
		if ov, ok := c.stage2Lights[i]; ok {
			v = ov
		}
		levels[i] = v
	}
	if c.light == nil {
		c.light = c.world.bridge().NewLightTexture()
	}
	c.light.Update(levels)
	if c.solidMesh != nil {
		c.solidMesh.SetLight(c.light)
	}
	if c.waterMesh != nil {
		c.waterMesh.SetLight(c.light)
	}
	for index, inst := range c.instances {
		if !inst.hasMesh {
			continue
		}
		x := (index >> 8) & voxel.ChunkMask
		y := index & 0xff
		z := (index >> 12) & voxel.ChunkMask
		level := c.GetLightLevel(x, y, z)
		if level != inst.lastLight {
			inst.Mesh.SetLight(level)
			inst.lastLight = level
		}
	}
}

// relightChunk relights every neighbor then itself (stage 1 is purely
// local, so neighbors must be settled before this chunk's stage 2 merge
// reads their borders), merges stage 2, and pushes the result to the
// renderer.
func (c *Chunk) relightChunk() {
	for _, d := range kNeighbors {
		if nb, ok := c.world.chunks.Get(c.point.Add(d)); ok {
			nb.lightingStage1()
		}
	}
	c.lightingStage1()
	c.lightingStage2()
	c.setLightTexture()
}

// remeshChunk rebuilds this chunk's geometry and lighting. It requires
// needsRemesh(); callers (the scheduler) check that first.
func (c *Chunk) remeshChunk() {
	c.refreshInstances()
	c.remeshTerrain()
	c.relightChunk()
	c.dirty = false
}
