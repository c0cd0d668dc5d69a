package world

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rmmh/voxelcore/internal/registry"
	"github.com/rmmh/voxelcore/internal/renderer"
	"github.com/rmmh/voxelcore/internal/voxel"
)

// newTestWorld builds a headless World (no worldgen, a renderer.Fake bridge) with a
// window wide enough that the center chunk always has all 8 neighbors.
func newTestWorld(t *testing.T) (*World, *renderer.Fake) {
	t.Helper()
	fake := &renderer.Fake{}
	w := New(4, registry.NewDefault(), nil, fake)
	w.Recenter(voxel.Point{})
	for i := 0; i < 50; i++ {
		w.Recenter(voxel.Point{})
		w.Step()
	}
	return w, fake
}

func TestEmptyWorldChunksBecomeReady(t *testing.T) {
	w, _ := newTestWorld(t)
	c, ok := w.chunks.Get(voxel.Point{})
	require.True(t, ok)
	require.True(t, c.ready)
}

func TestSetBlockAndGetBlockRoundTrip(t *testing.T) {
	w, _ := newTestWorld(t)
	w.SetBlock(3, 10, 5, voxel.Stone)
	require.Equal(t, voxel.Stone, w.GetBlock(3, 10, 5))
}

func TestGetBlockOutsideLoadedWindowIsAir(t *testing.T) {
	w, _ := newTestWorld(t)
	require.Equal(t, voxel.Air, w.GetBlock(100000, 10, 100000))
}

func TestSetBlockOutOfRangeYIsNoop(t *testing.T) {
	w, _ := newTestWorld(t)
	require.NotPanics(t, func() {
		w.SetBlock(0, -1, 0, voxel.Stone)
		w.SetBlock(0, voxel.WorldHeight, 0, voxel.Stone)
	})
}

// TestRemeshProducesGeometry builds a single solid stone layer across the
// center chunk, runs the scheduler until it settles, and checks the
// renderer bridge received non-empty geometry for that chunk.
func TestRemeshProducesGeometry(t *testing.T) {
	w, fake := newTestWorld(t)
	for x := 0; x < voxel.ChunkWidth; x++ {
		for z := 0; z < voxel.ChunkWidth; z++ {
			w.SetBlock(x, 10, z, voxel.Stone)
		}
	}
	for i := 0; i < 10; i++ {
		w.Step()
	}
	require.NotEmpty(t, fake.Meshes)
	found := false
	for _, m := range fake.Meshes {
		if len(m.Quads) > 0 {
			found = true
		}
	}
	require.True(t, found, "expected at least one mesh with geometry")
}

// TestSunlightReachesGroundInOpenColumn checks that an open-air column
// (no blocks placed) ends up near full sunlight at the ground (y=0) once
// stage 2 settles.
func TestSunlightReachesGroundInOpenColumn(t *testing.T) {
	w, _ := newTestWorld(t)
	for i := 0; i < 10; i++ {
		w.Step()
	}
	level := w.GetLightLevel(5, 0, 5)
	require.GreaterOrEqual(t, level, voxel.SunlightLevel-1)
}

// TestSetPointLightClampsBelowSunlightLevel checks the world-level clamp to
// SunlightLevel-1 applied by World.SetPointLight.
func TestSetPointLightClampsBelowSunlightLevel(t *testing.T) {
	w, _ := newTestWorld(t)
	w.SetPointLight(2, 5, 2, voxel.SunlightLevel+5)
	c, ok := w.chunks.Get(voxel.Point{})
	require.True(t, ok)
	pl, ok := c.pointLights[voxel.VoxelIndex(2, 5, 2)]
	require.True(t, ok)
	require.Equal(t, uint8(voxel.SunlightLevel-1), pl)
}

func TestFrontierDisabledByDefault(t *testing.T) {
	w, _ := newTestWorld(t)
	for i := 0; i < 5; i++ {
		w.Step()
	}
	require.Nil(t, w.Frontier(voxel.Point{}))
}

func TestFrontierEnabledRecordsOneSamplePerColumn(t *testing.T) {
	w, _ := newTestWorld(t)
	w.FrontierEnabled = true
	w.SetBlock(0, 10, 0, voxel.Stone) // force a remesh so frontier gets sampled
	for i := 0; i < 5; i++ {
		w.Step()
	}
	samples := w.Frontier(voxel.Point{})
	require.Len(t, samples, voxel.ChunkWidth*voxel.ChunkWidth)
}

// TestStage1EdgesOnlyHoldBoundaryIndices pins §3.3/§3.4's definition of
// stage1_edges: only indices on the chunk's x- or z-boundary, never interior
// cave/shadow cells that happen to land in the mid lighting range.
func TestStage1EdgesOnlyHoldBoundaryIndices(t *testing.T) {
	w, _ := newTestWorld(t)
	// Stack an interior stone pillar so some purely-interior voxels, below
	// the raised column height, settle into the (1, SunlightLevel) range
	// stage1Edges watches for.
	for y := 5; y < 15; y++ {
		w.SetBlock(8, y, 8, voxel.Stone)
	}
	w.SetBlock(8, 20, 8, voxel.Air)
	for i := 0; i < 10; i++ {
		w.Step()
	}
	c, ok := w.chunks.Get(voxel.Point{})
	require.True(t, ok)
	for idx := range c.stage1Edges {
		x := (idx >> 8) & voxel.ChunkMask
		z := (idx >> 12) & voxel.ChunkMask
		require.True(t, x == 0 || x == voxel.ChunkMask || z == 0 || z == voxel.ChunkMask,
			"stage1Edges contains interior index (x=%d, z=%d)", x, z)
	}
}

func TestRecenterEvictsFarChunks(t *testing.T) {
	w, _ := newTestWorld(t)
	_, ok := w.chunks.Get(voxel.Point{})
	require.True(t, ok)
	w.Recenter(voxel.Point{X: 1000, Z: 1000})
	_, ok = w.chunks.Get(voxel.Point{})
	require.False(t, ok)
}
