// Package registry holds the append-only block and material tables that
// every other subsystem looks up by id: the mesher reads face materials and
// opacity, the chunk reads block light levels, the worldgen decoder resolves
// block bytes. Registration is sequential and capped at 256 entries per
// table, mirroring the host API's single-byte ids.
package registry

import (
	"encoding/json"

	"github.com/nsf/jsondiff"
	"github.com/samber/lo"

	"github.com/rmmh/voxelcore/internal/assert"
)

// MaxEntries is the id ceiling for both tables: ids are transmitted as a
// single byte over the host API and in column scripts.
const MaxEntries = 256

// MaybeMaterial is either "no material" (the zero value) or a 1-based
// material id. Using a 1-based id keeps the zero value meaningfully empty
// without a separate boolean.
type MaybeMaterial struct {
	id uint8
}

// NoMaterial is the empty MaybeMaterial, used for faces that render nothing
// (e.g. the underside of the world, or a block with no opposing face).
var NoMaterial = MaybeMaterial{}

func materialRef(id int) MaybeMaterial {
	assert.True(id >= 0 && id < MaxEntries, "material id %d out of range", id)
	return MaybeMaterial{id: uint8(id + 1)}
}

// IsNone reports whether m refers to no material.
func (m MaybeMaterial) IsNone() bool { return m.id == 0 }

// RawID returns the material's internal 1-based id (0 for NoMaterial), the
// form packed into the mesher's per-face mask bits. Most callers want
// Unwrap; this exists for the mesher's mask packing/unpacking, which needs
// to round-trip the zero-means-none encoding directly.
func (m MaybeMaterial) RawID() uint8 { return m.id }

// FromRawID reconstructs a MaybeMaterial from the raw encoding produced by
// RawID, as read back out of a mesher mask.
func FromRawID(raw uint8) MaybeMaterial { return MaybeMaterial{id: raw} }

// Unwrap returns the underlying material id. The caller must have checked
// IsNone; this mirrors the teacher's assertMaterialUnsafe.
func (m MaybeMaterial) Unwrap() int {
	assert.True(m.id != 0, "Unwrap called on NoMaterial")
	return int(m.id) - 1
}

// BlockData describes one registered block type.
type BlockData struct {
	Mesh   bool // has a standalone instanced mesh (decoration), not terrain
	Opaque bool // fully blocks light and view
	Solid  bool // occupies space for collision purposes
	Light  int8 // light emitted by this block, 0 if none
	Faces  [6]MaybeMaterial
}

// MaterialData describes one registered surface material.
type MaterialData struct {
	Liquid    bool
	AlphaTest bool // double-sided; mesher emits both face windings
	Texture   uint8
	Color     [4]float64
}

// Registry is the append-only block/material table pair. Zero value is
// usable; id 0 is always present implicitly as "no block"/"no material" by
// registering an Air-like sentinel first, matching the host API's
// registerBlock/registerMaterial sequence starting at id 0 for blocks (Air)
// and id 1 for materials (1-based, see MaybeMaterial).
type Registry struct {
	blocks    []BlockData
	materials []MaterialData
}

// AddBlock appends a new block and returns its id. Registration order is
// the id; callers must register in the exact order ids are meant to have,
// since there is no other way to address existing entries.
func (r *Registry) AddBlock(b BlockData) int {
	assert.True(len(r.blocks) < MaxEntries, "block registry full")
	id := len(r.blocks)
	r.blocks = append(r.blocks, b)
	return id
}

// AddMaterial appends a new material and returns a MaybeMaterial referring
// to it.
func (r *Registry) AddMaterial(m MaterialData) MaybeMaterial {
	assert.True(len(r.materials) < MaxEntries, "material registry full")
	id := len(r.materials)
	r.materials = append(r.materials, m)
	return materialRef(id)
}

// GetBlock returns the data for a registered block id, panicking if id is
// out of range. Column-script decoding does not check block bytes against
// the registry.
func (r *Registry) GetBlock(id int) BlockData {
	assert.True(id >= 0 && id < len(r.blocks), "block id %d not registered", id)
	return r.blocks[id]
}

// GetMaterial returns the data for a material reference, panicking if it is
// NoMaterial or out of range.
func (r *Registry) GetMaterial(m MaybeMaterial) MaterialData {
	id := m.Unwrap()
	assert.True(id < len(r.materials), "material id %d not registered", id)
	return r.materials[id]
}

// GetMaterialRaw resolves a material by its RawID encoding, panicking if
// raw is the NoMaterial sentinel (0) or out of range. The mesher calls this
// when unpacking a face mask it built with RawID during the greedy sweep.
func (r *Registry) GetMaterialRaw(raw uint8) MaterialData {
	return r.GetMaterial(FromRawID(raw))
}

// NumBlocks and NumMaterials report how many entries have been registered,
// used by tests and the debug server's introspection endpoints.
func (r *Registry) NumBlocks() int    { return len(r.blocks) }
func (r *Registry) NumMaterials() int { return len(r.materials) }

// snapshot is the JSON shape used by CompareSnapshots and the debug server.
type snapshot struct {
	Blocks    []BlockData    `json:"blocks"`
	Materials []MaterialData `json:"materials"`
}

// Snapshot serializes the registry to JSON for diagnostics and diffing.
func (r *Registry) Snapshot() ([]byte, error) {
	return json.Marshal(snapshot{Blocks: r.blocks, Materials: r.materials})
}

// CompareSnapshots diffs two registry JSON snapshots (as produced by
// Snapshot) and returns a human-readable delta plus whether they are equal.
// Used by cmd/regdiff to catch unintended registration-order changes
// between a saved baseline and a live registry.
func CompareSnapshots(a, b []byte) (diff string, equal bool) {
	opts := jsondiff.DefaultConsoleOptions()
	result, text := jsondiff.Compare(a, b, &opts)
	return text, result == jsondiff.FullMatch
}

// FaceMaterials returns the non-empty face materials of every registered
// block, enumerating every texture a world could reference (e.g. for atlas
// validation tooling).
func (r *Registry) FaceMaterials() []MaybeMaterial {
	var out []MaybeMaterial
	for _, b := range r.blocks {
		out = append(out, lo.Filter(b.Faces[:], func(m MaybeMaterial, _ int) bool {
			return !m.IsNone()
		})...)
	}
	return out
}
