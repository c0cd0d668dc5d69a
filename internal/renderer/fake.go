package renderer

import "github.com/rmmh/voxelcore/internal/mesher"

// Fake is an in-memory Bridge implementation: it records what the engine
// sends it without doing any GPU work. Used by package tests that inspect
// the engine's renderer side effects; a World built with a nil bridge uses
// its own no-op handles instead.
type Fake struct {
	Meshes          []*FakeMesh
	InstancedMeshes []*FakeInstancedMesh
	LightTextures   []*FakeLightTexture
}

func (f *Fake) NewMesh() MeshHandle {
	m := &FakeMesh{}
	f.Meshes = append(f.Meshes, m)
	return m
}

func (f *Fake) NewInstancedMesh() InstancedMeshHandle {
	m := &FakeInstancedMesh{}
	f.InstancedMeshes = append(f.InstancedMeshes, m)
	return m
}

func (f *Fake) NewLightTexture() LightTextureHandle {
	t := &FakeLightTexture{}
	f.LightTextures = append(f.LightTextures, t)
	return t
}

// FakeMesh records the last geometry, position, and light texture handed
// to a terrain mesh.
type FakeMesh struct {
	Quads    []mesher.Quad
	X, Y, Z  int
	Light    LightTextureHandle
	SetCount int
}

func (m *FakeMesh) SetGeometry(quads []mesher.Quad) {
	m.Quads = append([]mesher.Quad(nil), quads...)
	m.SetCount++
}

func (m *FakeMesh) SetPosition(x, y, z int) { m.X, m.Y, m.Z = x, y, z }

func (m *FakeMesh) SetLight(light LightTextureHandle) { m.Light = light }

// FakeInstancedMesh records the last position and light level sent for one
// decoration instance.
type FakeInstancedMesh struct {
	X, Y, Z int
	Light   int
}

func (m *FakeInstancedMesh) SetPosition(x, y, z int) { m.X, m.Y, m.Z = x, y, z }
func (m *FakeInstancedMesh) SetLight(level int)      { m.Light = level }

// FakeLightTexture records the last light buffer it was given.
type FakeLightTexture struct {
	Levels []uint8
}

func (t *FakeLightTexture) Update(levels []uint8) {
	t.Levels = append([]uint8(nil), levels...)
}
