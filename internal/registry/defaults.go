package registry

import "github.com/rmmh/voxelcore/internal/voxel"

// NewDefault builds the engine's fixed 13-block, hand-authored material
// set, in the exact order voxel.Block's constants are declared —
// registration order is id assignment, so this function and the voxel
// package's enum must never drift apart. A live deployment would drive
// registration from the app shell's registerBlock/registerMaterial calls
// instead; this exists so the standalone binaries (cmd/engine,
// cmd/editimport) and tests have a ready-made registry without duplicating
// this table.
func NewDefault() *Registry {
	r := &Registry{}

	matDirt := r.AddMaterial(MaterialData{Texture: 1, Color: [4]float64{0.4, 0.3, 0.2, 1}})
	matStone := r.AddMaterial(MaterialData{Texture: 2, Color: [4]float64{0.5, 0.5, 0.5, 1}})
	matSand := r.AddMaterial(MaterialData{Texture: 3, Color: [4]float64{0.8, 0.75, 0.55, 1}})
	matSnow := r.AddMaterial(MaterialData{Texture: 4, Color: [4]float64{0.95, 0.95, 0.95, 1}})
	matGrassTop := r.AddMaterial(MaterialData{Texture: 5, Color: [4]float64{0.3, 0.6, 0.2, 1}})
	matGrassSide := r.AddMaterial(MaterialData{Texture: 6, Color: [4]float64{0.4, 0.3, 0.2, 1}})
	matRock := r.AddMaterial(MaterialData{Texture: 7, Color: [4]float64{0.35, 0.35, 0.37, 1}})
	matTrunkSide := r.AddMaterial(MaterialData{Texture: 8, Color: [4]float64{0.35, 0.22, 0.1, 1}})
	matTrunkTop := r.AddMaterial(MaterialData{Texture: 9, Color: [4]float64{0.45, 0.3, 0.15, 1}})
	matBedrock := r.AddMaterial(MaterialData{Texture: 10, Color: [4]float64{0.1, 0.1, 0.1, 1}})
	matWater := r.AddMaterial(MaterialData{Liquid: true, Texture: 11, Color: [4]float64{0.2, 0.4, 0.8, 0.6}})
	matUnknown := r.AddMaterial(MaterialData{Texture: 0, Color: [4]float64{1, 0, 1, 1}})

	solidCube := func(side MaybeMaterial) [6]MaybeMaterial {
		return [6]MaybeMaterial{side, side, side, side, side, side}
	}

	r.AddBlock(BlockData{}) // Air (id 0): no faces, not solid, not opaque.

	// Unknown (id 1): a visible placeholder for unrecognized host block ids.
	r.AddBlock(BlockData{Opaque: true, Solid: true, Faces: solidCube(matUnknown)})

	r.AddBlock(BlockData{Opaque: true, Solid: true, Faces: solidCube(matBedrock)}) // Bedrock (id 2)
	r.AddBlock(BlockData{Mesh: true})                                             // Bush (id 3): decoration, no terrain faces
	r.AddBlock(BlockData{Opaque: true, Solid: true, Faces: solidCube(matDirt)})   // Dirt (id 4)
	r.AddBlock(BlockData{Mesh: true, Light: 2})                                   // Fungi (id 5): decoration, emits a little light

	// Grass (id 6): top/bottom differ from the sides.
	r.AddBlock(BlockData{Opaque: true, Solid: true, Faces: [6]MaybeMaterial{
		matGrassSide, matGrassSide, matGrassTop, matDirt, matGrassSide, matGrassSide,
	}})

	r.AddBlock(BlockData{Opaque: true, Solid: true, Faces: solidCube(matRock)})  // Rock (id 7)
	r.AddBlock(BlockData{Opaque: true, Solid: true, Faces: solidCube(matSand)}) // Sand (id 8)
	r.AddBlock(BlockData{Opaque: true, Solid: true, Faces: solidCube(matSnow)}) // Snow (id 9)
	r.AddBlock(BlockData{Opaque: true, Solid: true, Faces: solidCube(matStone)}) // Stone (id 10)

	// Trunk (id 11): top/bottom differ from the bark sides.
	r.AddBlock(BlockData{Opaque: true, Solid: true, Faces: [6]MaybeMaterial{
		matTrunkSide, matTrunkSide, matTrunkTop, matTrunkTop, matTrunkSide, matTrunkSide,
	}})

	r.AddBlock(BlockData{Faces: solidCube(matWater)}) // Water (id 12): liquid, non-solid, non-opaque

	assertBlockOrder(r)
	return r
}

// assertBlockOrder is a cheap sanity check against drift from voxel.Block's
// declared enum, since nothing in the type system enforces it — a silent
// drift here would corrupt every column script byte value. It compares only
// the number of registered blocks with the enum's length; the order itself
// is not checked.
func assertBlockOrder(r *Registry) {
	want := []voxel.Block{
		voxel.Air, voxel.Unknown, voxel.Bedrock, voxel.Bush, voxel.Dirt, voxel.Fungi,
		voxel.Grass, voxel.Rock, voxel.Sand, voxel.Snow, voxel.Stone, voxel.Trunk, voxel.Water,
	}
	if r.NumBlocks() != len(want) {
		panic("registry.NewDefault: block count mismatch with voxel.Block enum")
	}
}
