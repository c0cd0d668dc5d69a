package world

import (
	"github.com/rmmh/voxelcore/internal/chunkcache"
	"github.com/rmmh/voxelcore/internal/columnscript"
	"github.com/rmmh/voxelcore/internal/mesher"
	"github.com/rmmh/voxelcore/internal/registry"
	"github.com/rmmh/voxelcore/internal/renderer"
	"github.com/rmmh/voxelcore/internal/voxel"
)

// kNumChunksToLoadPerFrame bounds how many new chunks World.Recenter admits
// into the cache per call, so a large radius change doesn't stall a frame
// generating dozens of columns at once.
const kNumChunksToLoadPerFrame = 1

// kNumRemeshesPerFrame and kNumRelightsPerFrame bound Step's per-frame
// work the same way, after the initial always-on batch of the 9 chunks
// nearest the center (which must finish before anything is visible at all).
const (
	kNumRemeshesPerFrame = 1
	kNumRelightsPerFrame = 4
	kInitialBatch         = 9
)

// Worldgen is the external collaborator that turns a chunk coordinate into
// terrain: a run-length column script per (x, z) column within the chunk,
// per SPEC_FULL.md's worldgen module.
type Worldgen interface {
	Generate(p voxel.Point) *columnscript.ColumnScript
}

// World owns the chunk window, the shared registry, the worldgen
// collaborator, and the single reusable Mesher scratch buffer, and runs the
// per-frame scheduler that decides which chunks get loaded, relit, or
// remeshed.
type World struct {
	Verbose bool

	// FrontierEnabled turns on the coarse-LOD frontier sample pass during
	// remesh. It defaults to false: no frontier driver exists yet to
	// consume mesher.FrontierSample, so the hook stays real but dormant,
	// matching the original's frontier path being scheduled "only when a
	// frontier driver exists."
	FrontierEnabled bool

	chunks   *chunkcache.Circle[*Chunk]
	registry *registry.Registry
	worldgen Worldgen
	mesh     *mesher.Mesher
	render   renderer.Bridge
}

// New builds a World with the given chunk-window radius. bridge may be nil
// to run headless.
func New(radius float64, reg *registry.Registry, gen Worldgen, bridge renderer.Bridge) *World {
	w := &World{
		registry: reg,
		worldgen: gen,
		mesh:     mesher.New(reg),
		render:   bridge,
	}
	w.chunks = chunkcache.NewCircle[*Chunk](radius, func() *Chunk { return &Chunk{} })
	return w
}

// Center returns the chunk window's current center, for introspection
// tooling (the debug server's status endpoint).
func (w *World) Center() voxel.Point { return w.chunks.Center() }

// Capacity returns the chunk window's total slot count.
func (w *World) Capacity() int { return w.chunks.Capacity() }

// Registry returns the world's registry, for introspection tooling.
func (w *World) Registry() *registry.Registry { return w.registry }

// Frontier returns the last coarse-LOD sample pass recorded for the chunk at
// p, or nil if the chunk isn't loaded or FrontierEnabled is off.
func (w *World) Frontier(p voxel.Point) []mesher.FrontierSample {
	c, ok := w.chunks.Get(p)
	if !ok {
		return nil
	}
	return c.frontier
}

func (w *World) bridge() renderer.Bridge {
	if w.render == nil {
		return noopBridge{}
	}
	return w.render
}

// Recenter moves the chunk window, evicting chunks that fall outside the
// new radius, then admits up to kNumChunksToLoadPerFrame new chunks in
// ascending-distance order.
func (w *World) Recenter(p voxel.Point) {
	w.chunks.Recenter(p)
	loaded := 0
	w.chunks.Each(func(pt voxel.Point, c *Chunk, present bool) bool {
		if present {
			return false
		}
		w.chunks.Set(pt, w)
		loaded++
		return loaded >= kNumChunksToLoadPerFrame
	})
}

// Step runs one scheduler tick: it always processes the kInitialBatch
// chunks nearest the center first (so the chunks around the player finish
// before anything further out gets a turn), then caps remesh/relight work
// per frame like the original's per-frame budgets.
func (w *World) Step() {
	remeshed, relit, rank := 0, 0, 0
	w.chunks.Each(func(pt voxel.Point, c *Chunk, present bool) bool {
		if !present {
			rank++
			return false
		}
		initial := rank < kInitialBatch
		switch {
		case c.needsRemesh() && (initial || remeshed < kNumRemeshesPerFrame):
			c.remeshChunk() // also relights, via relightChunk
			remeshed++
		case c.needsRelight() && (initial || relit < kNumRelightsPerFrame):
			c.relightChunk()
			relit++
		}
		rank++
		return false
	})
}

// GetBlock returns the block at world coordinates (x, y, z), or voxel.Air
// if the chunk containing it isn't currently loaded.
func (w *World) GetBlock(x, y, z int) voxel.Block {
	if y < 0 || y >= voxel.WorldHeight {
		return voxel.Air
	}
	cx, cz := x>>voxel.ChunkBits, z>>voxel.ChunkBits
	c, ok := w.chunks.Get(voxel.Point{X: cx, Z: cz})
	if !ok {
		return voxel.Air
	}
	return c.GetBlock(x&voxel.ChunkMask, y, z&voxel.ChunkMask)
}

// GetLightLevel returns the merged light level at world coordinates, or 0
// if the chunk isn't loaded.
func (w *World) GetLightLevel(x, y, z int) int {
	if y < 0 || y >= voxel.WorldHeight {
		return 0
	}
	cx, cz := x>>voxel.ChunkBits, z>>voxel.ChunkBits
	c, ok := w.chunks.Get(voxel.Point{X: cx, Z: cz})
	if !ok {
		return 0
	}
	return c.GetLightLevel(x&voxel.ChunkMask, y, z&voxel.ChunkMask)
}

// SetBlock writes a block at world coordinates. Writes to an unloaded
// chunk or an out-of-range y are silently dropped: edits only ever
// originate from inside the loaded window or from editlog replay seeded
// against a loaded window.
func (w *World) SetBlock(x, y, z int, block voxel.Block) {
	if y < 0 || y >= voxel.WorldHeight {
		return
	}
	cx, cz := x>>voxel.ChunkBits, z>>voxel.ChunkBits
	c, ok := w.chunks.Get(voxel.Point{X: cx, Z: cz})
	if !ok {
		return
	}
	c.SetBlock(x&voxel.ChunkMask, y, z&voxel.ChunkMask, block)
}

// SetPointLight sets or clears a sparse light source at world coordinates.
// level is clamped to SunlightLevel-1 here, at the world layer, matching
// the original's placement of that clamp above the per-chunk lighting
// code rather than inside it.
func (w *World) SetPointLight(x, y, z, level int) {
	if y < 0 || y >= voxel.WorldHeight {
		return
	}
	if level >= voxel.SunlightLevel {
		level = voxel.SunlightLevel - 1
	}
	cx, cz := x>>voxel.ChunkBits, z>>voxel.ChunkBits
	c, ok := w.chunks.Get(voxel.Point{X: cx, Z: cz})
	if !ok {
		return
	}
	c.SetPointLight(x&voxel.ChunkMask, y, z&voxel.ChunkMask, level)
}

// noopBridge implements renderer.Bridge with handles that discard
// everything, so World can run without ever nil-checking its render field
// at every call site.
type noopBridge struct{}

func (noopBridge) NewMesh() renderer.MeshHandle                     { return noopMesh{} }
func (noopBridge) NewInstancedMesh() renderer.InstancedMeshHandle   { return noopInstancedMesh{} }
func (noopBridge) NewLightTexture() renderer.LightTextureHandle     { return noopLightTexture{} }

type noopMesh struct{}

func (noopMesh) SetGeometry(quads []mesher.Quad)          {}
func (noopMesh) SetPosition(x, y, z int)                  {}
func (noopMesh) SetLight(light renderer.LightTextureHandle) {}

type noopInstancedMesh struct{}

func (noopInstancedMesh) SetPosition(x, y, z int) {}
func (noopInstancedMesh) SetLight(level int)      {}

type noopLightTexture struct{}

func (noopLightTexture) Update(levels []uint8) {}
