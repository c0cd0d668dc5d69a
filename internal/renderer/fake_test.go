package renderer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rmmh/voxelcore/internal/mesher"
)

func TestFakeNewMeshRecordsHandle(t *testing.T) {
	f := &Fake{}
	h := f.NewMesh()
	require.Len(t, f.Meshes, 1)
	require.Same(t, f.Meshes[0], h)
}

func TestFakeMeshSetGeometryCopiesSlice(t *testing.T) {
	m := &FakeMesh{}
	quads := []mesher.Quad{{1, 2, 3, 4}}
	m.SetGeometry(quads)
	require.Equal(t, quads, m.Quads)
	require.Equal(t, 1, m.SetCount)

	quads[0][0] = 99
	require.NotEqual(t, quads[0][0], m.Quads[0][0], "SetGeometry must copy, not alias")
}

func TestFakeMeshSetPositionAndLight(t *testing.T) {
	m := &FakeMesh{}
	m.SetPosition(1, 2, 3)
	require.Equal(t, 1, m.X)
	require.Equal(t, 2, m.Y)
	require.Equal(t, 3, m.Z)

	lt := &FakeLightTexture{}
	m.SetLight(lt)
	require.Same(t, lt, m.Light)
}

func TestFakeInstancedMeshRecordsPositionAndLight(t *testing.T) {
	f := &Fake{}
	m := f.NewInstancedMesh().(*FakeInstancedMesh)
	m.SetPosition(4, 5, 6)
	m.SetLight(12)
	require.Equal(t, 4, m.X)
	require.Equal(t, 5, m.Y)
	require.Equal(t, 6, m.Z)
	require.Equal(t, 12, m.Light)
	require.Len(t, f.InstancedMeshes, 1)
}

func TestFakeLightTextureUpdateCopiesSlice(t *testing.T) {
	f := &Fake{}
	lt := f.NewLightTexture().(*FakeLightTexture)
	levels := []uint8{1, 2, 3}
	lt.Update(levels)
	require.Equal(t, levels, lt.Levels)

	levels[0] = 99
	require.NotEqual(t, levels[0], lt.Levels[0], "Update must copy, not alias")
	require.Len(t, f.LightTextures, 1)
}
