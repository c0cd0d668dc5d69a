package voxel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVoxelIndexRoundTrips(t *testing.T) {
	for y := 0; y < WorldHeight; y += 17 {
		for x := 0; x < ChunkWidth; x++ {
			for z := 0; z < ChunkWidth; z++ {
				idx := VoxelIndex(x, y, z)
				require.Equal(t, y, idx&0xff, "y component")
				require.Equal(t, x, (idx>>8)&ChunkMask, "x component")
				require.Equal(t, z, (idx>>12)&ChunkMask, "z component")
			}
		}
	}
}

func TestVoxelIndexDistinct(t *testing.T) {
	seen := map[int]bool{}
	for y := 0; y < WorldHeight; y++ {
		for x := 0; x < ChunkWidth; x++ {
			for z := 0; z < ChunkWidth; z++ {
				idx := VoxelIndex(x, y, z)
				require.False(t, seen[idx], "collision at (%d,%d,%d)", x, y, z)
				seen[idx] = true
			}
		}
	}
}

func TestHeightIndexDistinct(t *testing.T) {
	seen := map[int]bool{}
	for x := 0; x < ChunkWidth; x++ {
		for z := 0; z < ChunkWidth; z++ {
			idx := HeightIndex(x, z)
			require.False(t, seen[idx])
			seen[idx] = true
		}
	}
}

func TestPointArithmetic(t *testing.T) {
	a := Point{X: 3, Z: -2}
	b := Point{X: 1, Z: 5}
	require.Equal(t, Point{X: 4, Z: 3}, a.Add(b))
	require.Equal(t, Point{X: 2, Z: -7}, a.Sub(b))
	require.Equal(t, 13, a.NormSquared())
}
