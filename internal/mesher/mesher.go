// Package mesher turns a padded voxel grid into packed greedy-meshed quads.
// It never touches chunk lifecycle or lighting — it is handed a voxel grid,
// a heightmap, and an equilevel table by internal/world and returns quad
// streams for the solid and (semi-transparent) liquid geometry, ready for
// the renderer bridge.
package mesher

import (
	"github.com/rmmh/voxelcore/internal/assert"
	"github.com/rmmh/voxelcore/internal/registry"
	"github.com/rmmh/voxelcore/internal/voxel"
)

// Padded dimensions of the mesher's working grid: a 1-voxel border on every
// side, borrowed from the 8 neighboring chunks (x, z) or synthesized
// (bedrock floor, air ceiling, in y).
const (
	PadWidth  = voxel.ChunkWidth + 2
	PadHeight = voxel.WorldHeight + 2
)

// Pos is a quad's origin, in the mesher's padded coordinate space.
type Pos [3]int

// Quad is one packed face, matching the renderer bridge's expected layout:
//
//	word0 = x | y<<16
//	word1 = z | indices<<16
//	word2 = w | h<<16
//	word3 = texture<<8 | ao<<16 | wave<<24 | d<<28 | dirBit<<30
type Quad [4]uint32

var kWaveValues = [3]int{0b0110, 0b1111, 0b1100}

func packIndices(idx [6]int) int {
	result := 0
	for i, x := range idx {
		assert.True(x >= 0 && x < 4, "packIndices: index %d out of range", x)
		result |= x << (i * 2)
	}
	return result
}

var kIndexOffsets = [4]int{
	packIndices([6]int{0, 1, 2, 0, 2, 3}),
	packIndices([6]int{1, 2, 3, 0, 1, 3}),
	packIndices([6]int{0, 2, 1, 0, 3, 2}),
	packIndices([6]int{3, 1, 0, 3, 2, 1}),
}

// Mesher holds the padded per-chunk working grid (voxels, heightmap,
// equilevels) plus reusable scratch buffers, and produces quad streams from
// it. One Mesher is reused across many chunks; Reset clears it back to its
// post-construction state between uses.
type Mesher struct {
	registry *registry.Registry

	voxels     []voxel.Block
	heightmap  []uint8
	equilevels []uint8

	maskData  []int
	maskUnion []int

	SolidGeo []Quad
	WaterGeo []Quad
}

// strides into the flat voxels array: y varies fastest, then x, then z,
// matching the original's Tensor3 layout (index = y + x*Y + z*X*Y).
const (
	strideY = 1
	strideX = PadHeight
	strideZ = PadWidth * PadHeight
)

// New constructs a Mesher bound to reg, with its padded grid initialized to
// the same boundary convention as the original: a bedrock floor at y=0, air
// at the topmost padded row, air everywhere else, and every equilevel flag
// set (an empty chunk is trivially uniform).
func New(reg *registry.Registry) *Mesher {
	m := &Mesher{
		registry:   reg,
		voxels:     make([]voxel.Block, PadWidth*PadHeight*PadWidth),
		heightmap:  make([]uint8, PadWidth*PadWidth),
		equilevels: make([]uint8, PadHeight),
	}
	m.Reset()
	return m
}

// Reset clears the working grid back to its initial state: useful when a
// Mesher is pooled and handed a fresh chunk's data to copy in.
func (m *Mesher) Reset() {
	for i := range m.equilevels {
		m.equilevels[i] = 1
	}
	for i := range m.heightmap {
		m.heightmap[i] = 0
	}
	for i := range m.voxels {
		m.voxels[i] = voxel.Air
	}
	top := PadHeight - 1
	for x := 0; x < PadWidth; x++ {
		for z := 0; z < PadWidth; z++ {
			m.voxels[m.vindex(x, 0, z)] = voxel.Bedrock
			m.voxels[m.vindex(x, top, z)] = voxel.Air
		}
	}
}

func (m *Mesher) vindex(x, y, z int) int { return y*strideY + x*strideX + z*strideZ }

// SetVoxel writes one voxel into the padded grid. x, y, z are in padded
// coordinates (1-based relative to a chunk's own [0,16) extent; the border
// rows at 0 and 17 belong to neighbors).
func (m *Mesher) SetVoxel(x, y, z int, b voxel.Block) {
	m.voxels[m.vindex(x, y, z)] = b
}

// SetHeight writes one column's padded heightmap entry.
func (m *Mesher) SetHeight(x, z int, h uint8) {
	m.heightmap[x+z*PadWidth] = h
}

// SetEquilevel writes one y-level's uniformity flag (1 if every voxel in
// the padded grid at that height is part of one visually-uniform plane).
func (m *Mesher) SetEquilevel(y int, uniform bool) {
	if uniform {
		m.equilevels[y] = 1
	} else {
		m.equilevels[y] = 0
	}
}

func (m *Mesher) ensureLen(s []int, n int) []int {
	if len(s) < n {
		grown := make([]int, n)
		copy(grown, s)
		return grown
	}
	return s
}

func (m *Mesher) blockAt(x, y, z int) voxel.Block { return m.voxels[m.vindex(x, y, z)] }

func (m *Mesher) opaque(b voxel.Block) bool { return m.registry.GetBlock(int(b)).Opaque }

// FrontierSample is one coarse-LOD height sample, quantized to the heightmap
// this Mesher already holds. It is the data shape a frontier (distant,
// low-detail terrain) renderer would consume instead of full quad geometry;
// this module never generates frontier geometry itself, only the sample
// stream, matching the original's separation between meshChunk and its
// frontier path.
type FrontierSample struct {
	X, Z   int
	Height uint8
	Block  voxel.Block
}

// SampleFrontier reads one height/surface-block sample per chunk column from
// the current padded grid, at the chunk's own (unpadded) extent. It is a
// pure read of already-copied-in state, so it is cheap enough to call
// opportunistically, but nothing in this package schedules it: the decision
// to run it belongs to a frontier driver, which does not exist yet.
func (m *Mesher) SampleFrontier() []FrontierSample {
	samples := make([]FrontierSample, 0, voxel.ChunkWidth*voxel.ChunkWidth)
	for z := 0; z < voxel.ChunkWidth; z++ {
		for x := 0; x < voxel.ChunkWidth; x++ {
			h := m.heightmap[(x+1)+(z+1)*PadWidth]
			y := int(h)
			if y > 0 {
				y--
			}
			samples = append(samples, FrontierSample{
				X:      x,
				Z:      z,
				Height: h,
				Block:  m.blockAt(x+1, y+1, z+1),
			})
		}
	}
	return samples
}

// MeshChunk rebuilds SolidGeo and WaterGeo from the current grid contents.
// It batches contiguous y-ranges that aren't flagged uniform-and-skippable
// by the equilevel table, and runs the greedy face sweep once per batch.
func (m *Mesher) MeshChunk() {
	m.SolidGeo = m.SolidGeo[:0]
	m.WaterGeo = m.WaterGeo[:0]

	maxHeight := 0
	for _, h := range m.heightmap {
		if int(h)+1 > maxHeight {
			maxHeight = int(h) + 1
		}
	}

	skipLevel := func(i int) bool {
		el0, el1 := m.equilevels[i], m.equilevels[i+1]
		if int(el0)+int(el1) != 2 {
			return false
		}
		block0 := m.blockAt(0, i, 0)
		block1 := m.blockAt(0, i+1, 0)
		if block0 == block1 {
			return true
		}
		return m.opaque(block0) && m.opaque(block1)
	}

	limit := len(m.equilevels) - 1
	for i := 0; i < limit; i++ {
		if skipLevel(i) {
			continue
		}
		j := i + 1
		for ; j < limit; j++ {
			if skipLevel(j) {
				break
			}
		}
		yMin := i
		yMax := j
		if maxHeight < yMax {
			yMax = maxHeight
		}
		yMax++
		if yMin >= yMax {
			break
		}
		m.computeChunkGeometry(yMin, yMax)
		i = j
	}
}

// computeChunkGeometry runs the greedy face sweep over one y-band
// [yMin, yMax), once per face axis (y, x, z, in that literal order — the
// three passes are independent; see DESIGN.md for why this order is kept
// rather than reordered to match spec prose).
func (m *Mesher) computeChunkGeometry(yMin, yMax int) {
	stride := [3]int{strideX, strideY, strideZ}
	shape := [3]int{PadWidth, yMax - yMin, PadWidth}

	for dx := 0; dx < 3; dx++ {
		d := dx
		if dx != 2 {
			d = 1 - dx
		}
		face := 2 * d
		v := 1
		if d == 1 {
			v = 0
		}
		u := 3 - d - v
		ld, lu, lv := shape[d]-1, shape[u]-2, shape[v]-2
		sd, su, sv := stride[d], stride[u], stride[v]
		base := su + sv + yMin*stride[1]

		suFixed, svFixed := su, sv
		if d == 0 {
			suFixed, svFixed = sv, su
		}

		area := lu * lv
		m.maskData = m.ensureLen(m.maskData, area)
		m.maskUnion = m.ensureLen(m.maskUnion, lu)

		for id := 0; id < ld; id++ {
			n := 0
			completeUnion := 0
			for iu := 0; iu < lu; iu++ {
				m.maskUnion[iu] = 0
				index := base + id*sd + iu*su
				for iv := 0; iv < lv; iv++ {
					block0 := m.voxels[index]
					block1 := m.voxels[index+sd]
					mask := 0
					if block0 != block1 {
						dir := m.getFaceDir(block0, block1, face)
						if dir != 0 {
							var material registry.MaybeMaterial
							var ao int
							if dir > 0 {
								material = m.registry.GetBlock(int(block0)).Faces[face+0]
								ao = m.packAOMask(index+sd, suFixed, svFixed)
							} else {
								material = m.registry.GetBlock(int(block1)).Faces[face+1]
								ao = m.packAOMask(index, suFixed, svFixed)
							}
							dirBit := 0
							if dir > 0 {
								dirBit = 1
							}
							mask = (int(material.RawID()) << 9) | (dirBit << 8) | ao
						}
					}
					m.maskData[n] = mask
					m.maskUnion[iu] |= mask
					completeUnion |= mask
					n++
					index += sv
				}
			}
			if completeUnion == 0 {
				continue
			}

			if d != 1 {
				if id == 0 {
					for i := 0; i < area; i++ {
						if m.maskData[i]&0x100 == 0 {
							m.maskData[i] = 0
						}
					}
				} else if id == ld-1 {
					for i := 0; i < area; i++ {
						if m.maskData[i]&0x100 != 0 {
							m.maskData[i] = 0
						}
					}
				}
			}

			m.sweepMasks(d, u, v, id, lu, lv, yMin)
		}
	}
}

// sweepMasks performs the 2D greedy merge over m.maskData (laid out [lu][lv]
// in row-major iu-major order) and emits one quad per merged rectangle.
func (m *Mesher) sweepMasks(d, u, v, id, lu, lv, yMin int) {
	n := 0
	for iu := 0; iu < lu; iu++ {
		if m.maskUnion[iu] == 0 {
			n += lv
			continue
		}
		iv := 0
		for iv < lv {
			mask := m.maskData[n]
			if mask == 0 {
				iv++
				n++
				continue
			}

			h := 1
			for h < lv-iv && mask == m.maskData[n+h] {
				h++
			}

			w := 1
			nw := n + lv
			for w < lu-iu && m.rowMatches(mask, nw, h) {
				w++
				nw += lv
			}

			var pos Pos
			pos[d] = id
			pos[u] = iu
			pos[v] = iv
			pos[1] += yMin

			ao := mask & 0xff
			dir := -1
			if mask&0x100 != 0 {
				dir = 1
			}
			material := m.registry.GetMaterialRaw(uint8(mask >> 9))

			wFixed, hFixed := w, h
			if d == 0 {
				wFixed, hFixed = h, w
			}

			geo := &m.SolidGeo
			if material.Color[3] < 1 {
				geo = &m.WaterGeo
			}

			switch {
			case material.Liquid && d == 1 && dir > 0:
				wave := kWaveValues[1]
				m.addQuad(geo, material, dir, ao, wave, d, w, h, pos)
				m.patchLiquidSurfaceQuads(geo, ao, w, h, pos)
			case material.Liquid && d == 1:
				m.addQuad(geo, material, dir, ao, 0, d, w, h, pos)
			case material.Liquid:
				wave := kWaveValues[d]
				if h == lv-iv {
					m.addQuad(geo, material, dir, ao, wave, d, wFixed, hFixed, pos)
				} else {
					m.splitLiquidSideQuads(geo, material, dir, ao, wave, d, w, h, pos)
				}
			default:
				m.addQuad(geo, material, dir, ao, 0, d, wFixed, hFixed, pos)
				if material.AlphaTest {
					m.addQuad(geo, material, -dir, ao, 0, d, wFixed, hFixed, pos)
				}
			}

			nw = n
			for wx := 0; wx < w; wx++ {
				for hx := 0; hx < h; hx++ {
					m.maskData[nw+hx] = 0
				}
				nw += lv
			}

			iv += h
			n += h
		}
	}
}

func (m *Mesher) rowMatches(mask, nw, h int) bool {
	for x := 0; x < h; x++ {
		if mask != m.maskData[nw+x] {
			return false
		}
	}
	return true
}

func (m *Mesher) addQuad(quads *[]Quad, material registry.MaterialData, dir, ao, wave, d, w, h int, pos Pos) {
	hint := getTriangleHint(ao)
	var indices int
	switch {
	case dir > 0 && hint:
		indices = kIndexOffsets[2]
	case dir > 0:
		indices = kIndexOffsets[3]
	case hint:
		indices = kIndexOffsets[0]
	default:
		indices = kIndexOffsets[1]
	}

	dirBit := 0
	if dir > 0 {
		dirBit = 1
	}
	pack := func(a, b int) uint32 {
		return uint32(a&0xffff) | uint32(b&0xffff)<<16
	}

	var q Quad
	q[0] = pack(pos[0], pos[1])
	q[1] = pack(pos[2], indices)
	q[2] = pack(w, h)
	q[3] = uint32(material.Texture)<<8 | uint32(ao)<<16 | uint32(wave)<<24 | uint32(d)<<28 | uint32(dirBit)<<30
	*quads = append(*quads, q)
}

// getTriangleHint picks which diagonal to split a quad's two triangles
// along, based on the four packed 2-bit AO corner values, favoring the
// split that doesn't cut across the more-occluded corner.
func getTriangleHint(ao int) bool {
	a00 := (ao >> 0) & 3
	a10 := (ao >> 2) & 3
	a11 := (ao >> 4) & 3
	a01 := (ao >> 6) & 3
	if a00 == a11 {
		if a10 == a01 {
			return a10 == 3
		}
		return true
	}
	if a10 == a01 {
		return false
	}
	return a00+a11 > a10+a01
}

// getFaceDir decides whether a face should be emitted between two adjacent
// voxels, and which one it belongs to: 0 means no face, 1 means block0's
// face (pointing from block0 into block1), -1 means block1's face.
func (m *Mesher) getFaceDir(block0, block1 voxel.Block, face int) int {
	data0 := m.registry.GetBlock(int(block0))
	data1 := m.registry.GetBlock(int(block1))
	if data0.Opaque && data1.Opaque {
		return 0
	}
	if data0.Opaque {
		return 1
	}
	if data1.Opaque {
		return -1
	}
	material0 := data0.Faces[face]
	material1 := data1.Faces[face]
	if material0 == material1 {
		return 0
	}
	if material0.IsNone() {
		return -1
	}
	if material1.IsNone() {
		return 1
	}
	return 0
}

// packAOMask computes the 4-corner, 2-bit-each ambient occlusion value for
// the face at the flat array index ipos, given the face's in-plane strides
// dj, dk. It takes the fast path (checking only diagonals) when none of the
// four direct neighbors are opaque.
func (m *Mesher) packAOMask(ipos, dj, dk int) int {
	b0 := m.voxels[ipos+dj]
	b1 := m.voxels[ipos-dj]
	b2 := m.voxels[ipos+dk]
	b3 := m.voxels[ipos-dk]

	bsum := int(b0) + int(b1) + int(b2) + int(b3)
	if bsum == 0 {
		d0 := m.voxels[ipos-dj-dk]
		d1 := m.voxels[ipos-dj+dk]
		d2 := m.voxels[ipos+dj-dk]
		d3 := m.voxels[ipos+dj+dk]
		dsum := int(d0) + int(d1) + int(d2) + int(d3)
		if dsum == 0 {
			return 0
		}
		a00, a01, a10, a11 := 0, 0, 0, 0
		if m.opaque(d0) {
			a00++
		}
		if m.opaque(d1) {
			a01++
		}
		if m.opaque(d2) {
			a10++
		}
		if m.opaque(d3) {
			a11++
		}
		return (a01 << 6) | (a11 << 4) | (a10 << 2) | a00
	}

	a00, a01, a10, a11 := 0, 0, 0, 0
	if m.opaque(b0) {
		a10++
		a11++
	}
	if m.opaque(b1) {
		a00++
		a01++
	}
	if m.opaque(b2) {
		a01++
		a11++
	}
	if m.opaque(b3) {
		a00++
		a10++
	}

	if a00 == 0 && m.opaque(m.voxels[ipos-dj-dk]) {
		a00++
	}
	if a01 == 0 && m.opaque(m.voxels[ipos-dj+dk]) {
		a01++
	}
	if a10 == 0 && m.opaque(m.voxels[ipos+dj-dk]) {
		a10++
	}
	if a11 == 0 && m.opaque(m.voxels[ipos+dj+dk]) {
		a11++
	}

	return (a01 << 6) | (a11 << 4) | (a10 << 2) | a00
}
