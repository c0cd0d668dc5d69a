// Package renderer defines the narrow interface the engine uses to hand
// finished geometry and lighting data to a GPU renderer, plus an in-memory
// fake implementation used by tests. No actual rendering happens here;
// that is explicitly an external collaborator's job.
package renderer

import "github.com/rmmh/voxelcore/internal/mesher"

// MeshHandle is an opaque reference to one chunk's solid or liquid mesh on
// the renderer side, created once and updated in place as the chunk
// remeshes.
type MeshHandle interface {
	// SetGeometry replaces the mesh's quad stream.
	SetGeometry(quads []mesher.Quad)
	// SetPosition places the mesh's origin in world space.
	SetPosition(x, y, z int)
	// SetLight attaches the chunk's light texture to this mesh.
	SetLight(light LightTextureHandle)
}

// InstancedMeshHandle is an opaque reference to one decoration's (a single
// block occupying an instance slot rather than terrain) mesh.
type InstancedMeshHandle interface {
	SetPosition(x, y, z int)
	SetLight(level int)
}

// LightTextureHandle is an opaque reference to one chunk's light data on
// the renderer side.
type LightTextureHandle interface {
	// Update replaces the light texture's contents, given the chunk's flat
	// merged light buffer, stage-2 values over stage 1 (length
	// voxel.ChunkWidth^2 * voxel.WorldHeight).
	Update(levels []uint8)
}

// Bridge is the renderer-facing API the engine calls into. A nil Bridge is
// valid and turns every call into a no-op, letting the engine run
// headless (tests, worldgen tooling, the debug server) without a real
// renderer attached.
type Bridge interface {
	NewMesh() MeshHandle
	NewInstancedMesh() InstancedMeshHandle
	NewLightTexture() LightTextureHandle
}
