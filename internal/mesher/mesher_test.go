package mesher

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rmmh/voxelcore/internal/registry"
	"github.com/rmmh/voxelcore/internal/voxel"
)

func testRegistry() *registry.Registry {
	return registry.NewDefault()
}

// TestMeshEmptyChunkProducesOnlyFloorQuad meshes a freshly constructed
// Mesher: all air above the padded bedrock floor, so the only visible face
// is the floor's top, merged into a single quad.
func TestMeshEmptyChunkProducesOnlyFloorQuad(t *testing.T) {
	m := New(testRegistry())
	m.MeshChunk()
	require.Len(t, m.SolidGeo, 1)
	require.Empty(t, m.WaterGeo)
}

// TestMeshSingleSlabProducesTopAndBottomFaces fills a full 16x16 stone
// layer at y=5 with air above and below, and checks the greedy mesher
// collapses it to exactly one top quad and one bottom quad (16x16 each),
// since every voxel on the slab shares the same exposed faces. The air gap
// below the slab also exposes the padded bedrock floor's top face, a
// second 16x16 upward quad.
func TestMeshSingleSlabProducesTopAndBottomFaces(t *testing.T) {
	m := New(testRegistry())
	for x := 1; x <= voxel.ChunkWidth; x++ {
		for z := 1; z <= voxel.ChunkWidth; z++ {
			m.SetVoxel(x, 6, z, voxel.Stone)
			m.SetHeight(x, z, 6)
		}
	}
	for y := 0; y < voxel.WorldHeight; y++ {
		uniform := y != 5
		m.SetEquilevel(y+1, uniform)
	}

	m.MeshChunk()
	require.NotEmpty(t, m.SolidGeo)

	var top, bottom int
	for _, q := range m.SolidGeo {
		w := q[2] & 0xffff
		h := (q[2] >> 16) & 0xffff
		d := (q[3] >> 28) & 0x3
		dirBit := (q[3] >> 30) & 0x1
		if d != 1 { // only y-axis faces expected for a flat slab
			continue
		}
		require.Equal(t, uint32(voxel.ChunkWidth), w)
		require.Equal(t, uint32(voxel.ChunkWidth), h)
		if dirBit == 1 {
			top++
		} else {
			bottom++
		}
	}
	require.Equal(t, 2, top)
	require.Equal(t, 1, bottom)
}

func TestGetTriangleHintSymmetric(t *testing.T) {
	require.False(t, getTriangleHint(0))
}

func TestPackIndicesRejectsOutOfRange(t *testing.T) {
	require.Panics(t, func() { packIndices([6]int{0, 1, 2, 3, 4, 5}) })
}
