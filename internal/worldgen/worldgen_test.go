package worldgen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rmmh/voxelcore/internal/voxel"
)

// TestGenerateProducesFullColumnSet checks every column has at least one
// run and ends in an Air run (the convention loadColumn's heightmap
// computation relies on: trailing Air doesn't count toward terrain height).
// A column's runs sum to exactly voxel.BuildHeight (255), never
// voxel.WorldHeight (256): the plane at y=BuildHeight is never part of any
// run and stays implicitly Air, which keeps every EndY representable in a
// uint8 with no wraparound.
func TestGenerateProducesFullColumnSet(t *testing.T) {
	g := New(HashNoise{Seed: 1})
	cs := g.Generate(voxel.Point{X: 2, Z: -3})
	for i, col := range cs.Columns {
		require.NotEmpty(t, col.Runs, "column %d has no runs", i)
		require.Equal(t, voxel.Air, col.Runs[len(col.Runs)-1].Block, "column %d must end in Air", i)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	g := New(HashNoise{Seed: 42})
	a := g.Generate(voxel.Point{X: 5, Z: 5})
	b := g.Generate(voxel.Point{X: 5, Z: 5})
	require.Equal(t, a, b)
}

func TestGenerateBottomRunIsBedrock(t *testing.T) {
	g := New(HashNoise{Seed: 7})
	cs := g.Generate(voxel.Point{})
	for _, col := range cs.Columns {
		require.Equal(t, voxel.Bedrock, col.Runs[0].Block)
		require.Equal(t, uint8(1), col.Runs[0].EndY)
	}
}

// TestGenerateColumnRunsSumToBuildHeight pins the wire-format invariant
// Decode relies on: every column's runs advance the running end_y to
// exactly voxel.BuildHeight, never past it.
func TestGenerateColumnRunsSumToBuildHeight(t *testing.T) {
	g := New(HashNoise{Seed: 4})
	cs := g.Generate(voxel.Point{X: 1, Z: 1})
	for i, col := range cs.Columns {
		require.Equal(t, uint8(voxel.BuildHeight), col.Runs[len(col.Runs)-1].EndY, "column %d", i)
	}
}

// TestExtremeHeightNeverReachesBuildHeight checks that a NoiseSource
// reporting a height at or above voxel.BuildHeight still leaves y=BuildHeight
// itself unwritten (implicitly Air), instead of wrapping the column's total
// run length past what a uint8 EndY can represent.
func TestExtremeHeightNeverReachesBuildHeight(t *testing.T) {
	g := New(constantHeightNoise{height: voxel.BuildHeight + 50})
	cs := g.Generate(voxel.Point{})
	col := cs.Columns[0]
	last := col.Runs[len(col.Runs)-1]
	require.Equal(t, uint8(voxel.BuildHeight), last.EndY)
	require.NotEqual(t, voxel.Water, last.Block, "extreme terrain shouldn't be underwater")
}

func TestLowTerrainGetsWaterFill(t *testing.T) {
	g := New(constantHeightNoise{height: 10})
	cs := g.Generate(voxel.Point{})
	col := cs.Columns[0]
	var sawWater bool
	for _, r := range col.Runs {
		if r.Block == voxel.Water {
			sawWater = true
		}
	}
	require.True(t, sawWater, "terrain below sea level should get a water run")
}

func TestLowTerrainGetsNoDecorationBelowWater(t *testing.T) {
	g := New(constantHeightNoise{height: 10, deco: voxel.Bush})
	cs := g.Generate(voxel.Point{})
	require.Empty(t, cs.Columns[0].Decorations, "underwater columns must not decorate")
}

func TestSurfaceBlockChoice(t *testing.T) {
	require.Equal(t, voxel.Sand, surfaceBlock(seaLevel))
	require.Equal(t, voxel.Snow, surfaceBlock(140))
	require.Equal(t, voxel.Grass, surfaceBlock(80))
}

func TestHashNoiseHeightDeterministic(t *testing.T) {
	n := HashNoise{Seed: 3}
	h1 := n.Height(100, -50)
	h2 := n.Height(100, -50)
	require.Equal(t, h1, h2)
}

func TestHashNoiseDensityDeterministic(t *testing.T) {
	n := HashNoise{Seed: 9}
	require.Equal(t, n.Density(1, 2, 3), n.Density(1, 2, 3))
}

func TestHashNoiseDecorationDeterministic(t *testing.T) {
	n := HashNoise{Seed: 11}
	require.Equal(t, n.Decoration(4, 5), n.Decoration(4, 5))
}

// constantHeightNoise is a test-only NoiseSource stub with a fixed height,
// no caves, and an optional fixed decoration.
type constantHeightNoise struct {
	height int
	deco   voxel.Block
}

func (c constantHeightNoise) Height(x, z int) int          { return c.height }
func (c constantHeightNoise) Density(x, y, z int) float64  { return 1 }
func (c constantHeightNoise) Decoration(x, z int) voxel.Block {
	return c.deco
}
