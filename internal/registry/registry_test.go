package registry

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddBlockAssignsSequentialIDs(t *testing.T) {
	r := &Registry{}
	for i := 0; i < 5; i++ {
		id := r.AddBlock(BlockData{Light: int8(i)})
		require.Equal(t, i, id)
	}
	require.Equal(t, 5, r.NumBlocks())
}

func TestMaybeMaterialRawRoundTrip(t *testing.T) {
	r := &Registry{}
	m := r.AddMaterial(MaterialData{Texture: 7})
	require.False(t, m.IsNone())
	raw := m.RawID()
	require.Equal(t, m, FromRawID(raw))
	require.True(t, NoMaterial.IsNone())
	require.Equal(t, NoMaterial, FromRawID(0))
}

func TestGetBlockPanicsOutOfRange(t *testing.T) {
	r := &Registry{}
	r.AddBlock(BlockData{})
	require.Panics(t, func() { r.GetBlock(1) })
	require.Panics(t, func() { r.GetBlock(-1) })
}

func TestGetMaterialPanicsOnNoMaterial(t *testing.T) {
	r := &Registry{}
	require.Panics(t, func() { r.GetMaterial(NoMaterial) })
}

func TestRegistryFullPanics(t *testing.T) {
	r := &Registry{}
	for i := 0; i < MaxEntries; i++ {
		r.AddBlock(BlockData{})
	}
	require.Panics(t, func() { r.AddBlock(BlockData{}) })
}

func TestSnapshotCompareSnapshotsDetectsDrift(t *testing.T) {
	a := NewDefault()
	snapA, err := a.Snapshot()
	require.NoError(t, err)

	_, equal := CompareSnapshots(snapA, snapA)
	require.True(t, equal)

	b := NewDefault()
	b.AddBlock(BlockData{Light: 9})
	snapB, err := b.Snapshot()
	require.NoError(t, err)

	diff, equal := CompareSnapshots(snapA, snapB)
	require.False(t, equal)
	require.NotEmpty(t, diff)
}

func TestFaceMaterialsExcludesNoMaterial(t *testing.T) {
	r := NewDefault()
	for _, m := range r.FaceMaterials() {
		require.False(t, m.IsNone())
	}
}

func TestNewDefaultMatchesVoxelBlockOrder(t *testing.T) {
	r := NewDefault()
	require.Equal(t, 13, r.NumBlocks())
	air := r.GetBlock(0)
	require.False(t, air.Opaque)
	require.False(t, air.Solid)
	grass := r.GetBlock(6)
	require.True(t, grass.Opaque)
	require.NotEqual(t, grass.Faces[2], grass.Faces[3], "grass top should differ from bottom")
}
