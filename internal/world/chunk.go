// Package world ties the registry, the worldgen collaborator, the chunk
// cache, and the mesher together into the running engine: Chunk owns one
// column's voxel storage and lighting state, and World owns the Circle
// cache and the per-frame scheduler that decides which chunks get relit or
// remeshed.
package world

import (
	"log"

	"github.com/gammazero/deque"

	"github.com/rmmh/voxelcore/internal/assert"
	"github.com/rmmh/voxelcore/internal/mesher"
	"github.com/rmmh/voxelcore/internal/renderer"
	"github.com/rmmh/voxelcore/internal/voxel"
)

const (
	chunkVoxels = voxel.ChunkWidth * voxel.ChunkWidth * voxel.WorldHeight
	chunkCols   = voxel.ChunkWidth * voxel.ChunkWidth
)

// kNeighbors is the 8 Moore-neighborhood deltas around a chunk, used to
// track neighbor presence and to seed stage-2 lighting's 3x3 zone.
var kNeighbors = [8]voxel.Point{
	{X: -1, Z: -1}, {X: 0, Z: -1}, {X: 1, Z: -1},
	{X: -1, Z: 0}, {X: 1, Z: 0},
	{X: -1, Z: 1}, {X: 0, Z: 1}, {X: 1, Z: 1},
}

// Instance is a decoration block (a non-terrain block with its own
// instanced mesh, e.g. a bush) living at one voxel index within a chunk.
type Instance struct {
	Block     voxel.Block
	Mesh      renderer.InstancedMeshHandle
	lastLight int
	hasMesh   bool
}

// Chunk owns one 16x256x16 column's voxel storage, heightmap, equilevel
// table, and both lighting stages. It implements chunkcache.Slot so it can
// live inside a Circle[*Chunk].
type Chunk struct {
	world *World
	point voxel.Point

	voxels     []voxel.Block
	heightmap  []uint8
	equilevels []uint8

	instances   map[int]*Instance
	pointLights map[int]uint8

	stage1Lights []uint8
	stage1Dirty  deque.Deque[int]
	stage1Edges  map[int]struct{}
	stage2Lights map[int]uint8

	dirty       bool
	stage2Dirty bool
	neighbors   int
	ready       bool

	solidMesh renderer.MeshHandle
	waterMesh renderer.MeshHandle
	light     renderer.LightTextureHandle

	// frontier holds the chunk's last coarse-LOD sample pass, populated
	// only when World.FrontierEnabled is set. Left nil otherwise.
	frontier []mesher.FrontierSample
}

// Point implements chunkcache.Slot.
func (c *Chunk) Point() voxel.Point { return c.point }

// Create implements chunkcache.Slot: it initializes the chunk's storage,
// loads its voxel content from worldgen, runs the in-chunk lighting
// bootstrap, and notifies already-present neighbors that it has arrived.
func (c *Chunk) Create(p voxel.Point, ctx any) {
	w := ctx.(*World)
	c.world = w
	c.point = p
	c.voxels = make([]voxel.Block, chunkVoxels)
	c.heightmap = make([]uint8, chunkCols)
	c.equilevels = make([]uint8, voxel.WorldHeight)
	for i := range c.equilevels {
		c.equilevels[i] = 1
	}
	c.instances = map[int]*Instance{}
	c.pointLights = map[int]uint8{}
	c.stage1Lights = make([]uint8, chunkVoxels)
	c.stage1Edges = map[int]struct{}{}
	c.stage2Lights = map[int]uint8{}
	c.neighbors = 0
	c.ready = false
	c.dirty = true
	c.stage2Dirty = true

	c.load()
	c.lightingInit()

	for _, d := range kNeighbors {
		if nb, ok := w.chunks.Get(p.Add(d)); ok {
			nb.notifyNeighborLoaded()
			c.neighbors++
		}
	}
	c.ready = c.checkReady()
	if w.Verbose {
		log.Printf("world: chunk %v created, %d/8 neighbors present", p, c.neighbors)
	}
}

// Destroy implements chunkcache.Slot: it releases meshes and notifies
// neighbors that this chunk is gone.
func (c *Chunk) Destroy() {
	c.dropMeshes()
	for _, d := range kNeighbors {
		if nb, ok := c.world.chunks.Get(c.point.Add(d)); ok {
			nb.notifyNeighborDisposed()
		}
	}
	if c.world.Verbose {
		log.Printf("world: chunk %v destroyed", c.point)
	}
}

func (c *Chunk) checkReady() bool { return c.neighbors == 8 }

func (c *Chunk) notifyNeighborLoaded() {
	c.neighbors++
	c.ready = c.checkReady()
}

func (c *Chunk) notifyNeighborDisposed() {
	wasReady := c.ready
	c.neighbors--
	c.ready = c.checkReady()
	if wasReady && !c.ready {
		c.dropMeshes()
	}
}

func (c *Chunk) dropMeshes() {
	c.solidMesh = nil
	c.waterMesh = nil
	c.light = nil
	for _, inst := range c.instances {
		inst.Mesh = nil
		inst.hasMesh = false
	}
	c.dirty = true
}

func (c *Chunk) hasMesh() bool {
	return c.solidMesh != nil || c.waterMesh != nil
}

func (c *Chunk) needsRelight() bool { return c.stage2Dirty && c.ready }
func (c *Chunk) needsRemesh() bool  { return c.dirty && c.ready }

// GetBlock returns the block at an in-bounds local (x, y, z). Callers
// (World.GetBlock) are responsible for world-level bounds checks; an
// out-of-range coordinate here is a programming error.
func (c *Chunk) GetBlock(x, y, z int) voxel.Block {
	return c.voxels[voxel.VoxelIndex(x, y, z)]
}

// GetLightLevel returns the merged light level at local (x, y, z): the
// stage-2 override if present, else the stage-1 value, plus the +1 "inside
// a mesh" bonus the original applies so decorations read slightly brighter
// than the terrain light they sit in.
func (c *Chunk) GetLightLevel(x, y, z int) int {
	index := voxel.VoxelIndex(x, y, z)
	base := c.stage1Lights[index]
	if v, ok := c.stage2Lights[index]; ok {
		base = v
	}
	block := c.voxels[index]
	level := int(base)
	if c.world.registry.GetBlock(int(block)).Mesh {
		level++
	}
	if level > voxel.SunlightLevel {
		level = voxel.SunlightLevel
	}
	return level
}

// SetBlock overwrites one voxel, updates the heightmap and instance table,
// and marks the minimal set of neighbors dirty: the ones whose padded mesh
// input border includes this voxel.
func (c *Chunk) SetBlock(x, y, z int, block voxel.Block) {
	index := voxel.VoxelIndex(x, y, z)
	old := c.voxels[index]
	if old == block {
		return
	}
	c.voxels[index] = block
	c.stage1Dirty.PushBack(index)
	c.dirty = true
	c.stage2Dirty = true

	c.updateHeightmap(x, z, y, y+1, block)
	c.updateInstance(index, old, block)
	c.equilevels[y] = 0

	var dirs []voxel.Point
	if x == 0 {
		dirs = append(dirs, voxel.Point{X: -1})
	} else if x == voxel.ChunkMask {
		dirs = append(dirs, voxel.Point{X: 1})
	}
	if z == 0 {
		dirs = append(dirs, voxel.Point{Z: -1})
	} else if z == voxel.ChunkMask {
		dirs = append(dirs, voxel.Point{Z: 1})
	}
	if len(dirs) == 2 {
		dirs = append(dirs, voxel.Point{X: dirs[0].X, Z: dirs[1].Z})
	}
	for _, d := range dirs {
		if nb, ok := c.world.chunks.Get(c.point.Add(d)); ok {
			nb.dirty = true
			nb.stage2Dirty = true
		}
	}
}

// SetPointLight sets or clears a sparse light source at local (x, y, z).
// level must already be clamped by the caller (World clamps to
// SunlightLevel-1 before delegating, matching the original's placement of
// that clamp at the world level rather than inside Chunk).
func (c *Chunk) SetPointLight(x, y, z int, level int) {
	index := voxel.VoxelIndex(x, y, z)
	if level > 0 {
		c.pointLights[index] = uint8(level)
	} else {
		delete(c.pointLights, index)
	}
	c.stage1Dirty.PushBack(index)
	c.stage2Dirty = true
}

func (c *Chunk) updateHeightmap(x, z, start, end int, block voxel.Block) {
	offset := voxel.HeightIndex(x, z)
	height := int(c.heightmap[offset])
	if block == voxel.Air && start < height && height <= end {
		h := start
		for h > 0 && c.voxels[voxel.VoxelIndex(x, h-1, z)] == voxel.Air {
			h--
		}
		c.heightmap[offset] = uint8(h)
	} else if block != voxel.Air && height <= end {
		c.heightmap[offset] = uint8(end)
	}
}

func (c *Chunk) updateInstance(index int, oldBlock, newBlock voxel.Block) {
	newData := c.world.registry.GetBlock(int(newBlock))
	if newData.Mesh {
		c.instances[index] = &Instance{Block: newBlock, lastLight: -1}
		return
	}
	oldData := c.world.registry.GetBlock(int(oldBlock))
	if oldData.Mesh {
		delete(c.instances, index)
	}
}

func (c *Chunk) lightValue(index int) uint8 {
	block := c.voxels[index]
	base := int(c.world.registry.GetBlock(int(block)).Light)
	if pl, ok := c.pointLights[index]; ok && int(pl) > base {
		base = int(pl)
	}
	assert.True(base >= 0 && base <= voxel.SunlightLevel, "lightValue: base %d out of range", base)
	return uint8(base)
}
