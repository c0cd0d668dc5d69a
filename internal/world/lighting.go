package world

import (
	"github.com/gammazero/deque"

	"github.com/rmmh/voxelcore/internal/voxel"
)

// stage1Neighbor is one of the 6 axis-aligned directions the in-chunk
// lighting automaton spreads across.
type stage1Neighbor struct{ dx, dy, dz int }

var stage1Neighbors = [6]stage1Neighbor{
	{dx: 1}, {dx: -1},
	{dy: 1}, {dy: -1},
	{dz: 1}, {dz: -1},
}

func maxUpdatedNeighborLight(next, prev int) int {
	m := next
	if prev > m {
		m = prev
	}
	if m < voxel.SunlightLevel {
		m--
	}
	if next > prev {
		m--
	}
	return m
}

func minUpdatedNeighborLight(next, prev int) int {
	m := next
	if prev < m {
		m = prev
	}
	if next > prev {
		m--
	}
	return m
}

// queryLight computes what a voxel's stage-1 light value should be, given
// the chunk's own light buffer (read in place; stage 1 is a relaxation
// that converges regardless of whether neighbors have already settled this
// round). It returns SunlightLevel unconditionally above the column's
// heightmap (open sky), else the larger of its own emission and one less
// than its brightest in-chunk neighbor.
func (c *Chunk) queryLight(index int) uint8 {
	y := index & 0xff
	x := (index >> 8) & voxel.ChunkMask
	z := (index >> 12) & voxel.ChunkMask
	if y >= int(c.heightmap[voxel.HeightIndex(x, z)]) {
		return voxel.SunlightLevel
	}
	maxNeighbor := int(c.lightValue(index)) + 1
	for _, n := range stage1Neighbors {
		nx, ny, nz := x+n.dx, y+n.dy, z+n.dz
		if nx < 0 || nx >= voxel.ChunkWidth || nz < 0 || nz >= voxel.ChunkWidth || ny < 0 || ny >= voxel.WorldHeight {
			continue
		}
		v := int(c.stage1Lights[voxel.VoxelIndex(nx, ny, nz)])
		if v > maxNeighbor {
			maxNeighbor = v
		}
	}
	return uint8(maxNeighbor - 1)
}

// lightingInit seeds stage1Dirty for a freshly loaded chunk: every column's
// exposed voxel below its own height, plus the voxels across an internal
// height discontinuity between adjacent columns, and zeroes the light
// buffer below each column's height (an un-lit interior starts dark; stage1
// will light it from exposed neighbors).
func (c *Chunk) lightingInit() {
	for i := range c.stage1Lights {
		c.stage1Lights[i] = voxel.SunlightLevel
	}
	type delta struct{ dx, dz int }
	dirs := [4]delta{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	for x := 0; x < voxel.ChunkWidth; x++ {
		for z := 0; z < voxel.ChunkWidth; z++ {
			height := int(c.heightmap[voxel.HeightIndex(x, z)])
			for _, d := range dirs {
				nx, nz := x+d.dx, z+d.dz
				if nx < 0 || nx >= voxel.ChunkWidth || nz < 0 || nz >= voxel.ChunkWidth {
					continue
				}
				nh := int(c.heightmap[voxel.HeightIndex(nx, nz)])
				if nh > height {
					for y := height; y < nh; y++ {
						c.stage1Dirty.PushBack(voxel.VoxelIndex(x, y, z))
					}
				}
			}
			if height > 0 {
				below := voxel.VoxelIndex(x, height-1, z)
				if !c.world.registry.GetBlock(int(c.voxels[below])).Opaque {
					c.stage1Dirty.PushBack(below)
				}
			}
			base := voxel.VoxelIndex(x, 0, z)
			for y := 0; y < height; y++ {
				c.stage1Lights[base+y] = 0
			}
		}
	}
}

// lightingStage1 relaxes the in-chunk lighting automaton to a fixed point,
// then marks every present neighbor's stage-2 pass dirty (a change in this
// chunk's border light can change what stage 2 propagates into them).
func (c *Chunk) lightingStage1() {
	if c.stage1Dirty.Len() == 0 {
		return
	}
	var next deque.Deque[int]
	for c.stage1Dirty.Len() > 0 || next.Len() > 0 {
		if c.stage1Dirty.Len() == 0 {
			c.stage1Dirty, next = next, deque.Deque[int]{}
		}
		index := c.stage1Dirty.PopFront()
		nextLevel := c.queryLight(index)
		prevLevel := c.stage1Lights[index]
		if nextLevel == prevLevel {
			continue
		}
		c.stage1Lights[index] = nextLevel
		inMapNow := nextLevel > 1 && nextLevel < voxel.SunlightLevel
		inMapBefore := prevLevel > 1 && prevLevel < voxel.SunlightLevel
		if inMapNow != inMapBefore && isBoundaryIndex(index) {
			if inMapNow {
				c.stage1Edges[index] = struct{}{}
			} else {
				delete(c.stage1Edges, index)
			}
		}
		hi := maxUpdatedNeighborLight(int(nextLevel), int(prevLevel))
		lo := minUpdatedNeighborLight(int(nextLevel), int(prevLevel))
		c.enqueueStage1Neighbors(index, lo, hi, &next)
	}
	for _, d := range kNeighbors {
		if nb, ok := c.world.chunks.Get(c.point.Add(d)); ok {
			nb.stage2Dirty = true
		}
	}
}

// isBoundaryIndex reports whether index sits on the chunk's x- or
// z-boundary — the only indices stage1Edges tracks, since those are the
// only ones stage 2's cross-chunk BFS can ever seed from.
func isBoundaryIndex(index int) bool {
	x := (index >> 8) & voxel.ChunkMask
	z := (index >> 12) & voxel.ChunkMask
	return x == 0 || x == voxel.ChunkMask || z == 0 || z == voxel.ChunkMask
}

func (c *Chunk) enqueueStage1Neighbors(index, lo, hi int, q *deque.Deque[int]) {
	y := index & 0xff
	x := (index >> 8) & voxel.ChunkMask
	z := (index >> 12) & voxel.ChunkMask
	for _, n := range stage1Neighbors {
		nx, ny, nz := x+n.dx, y+n.dy, z+n.dz
		if nx < 0 || nx >= voxel.ChunkWidth || nz < 0 || nz >= voxel.ChunkWidth || ny < 0 || ny >= voxel.WorldHeight {
			continue
		}
		nIndex := voxel.VoxelIndex(nx, ny, nz)
		v := int(c.stage1Lights[nIndex])
		if v >= lo && v <= hi {
			q.PushBack(nIndex)
		}
	}
}

// zoneLoc is a voxel location expressed relative to the center chunk of a
// stage-2 lighting pass: (dcx, dcz) in {-1, 0, 1} identify which of the 9
// chunks in the pass's zone it belongs to.
type zoneLoc struct {
	dcx, dcz int
	x, y, z  int
}

type stage2Delta struct {
	chunk *Chunk
	index int
	old   uint8
}

// stepZone moves a zone-relative location by a delta, crossing into a
// neighboring chunk when a coordinate runs off [0, ChunkWidth). It reports
// ok=false if the result would leave the 3x3 zone or the world's y range —
// the original's "shift" function behaves the same way, silently dropping
// propagation past the zone's edge rather than loading a 10th chunk.
func stepZone(dcx, dcz, x, y, z, ddx, ddy, ddz int) (ndcx, ndcz, nx, ny, nz int, ok bool) {
	nx, ny, nz = x+ddx, y+ddy, z+ddz
	ndcx, ndcz = dcx, dcz
	if nx < 0 {
		nx += voxel.ChunkWidth
		ndcx--
	} else if nx >= voxel.ChunkWidth {
		nx -= voxel.ChunkWidth
		ndcx++
	}
	if nz < 0 {
		nz += voxel.ChunkWidth
		ndcz--
	} else if nz >= voxel.ChunkWidth {
		nz -= voxel.ChunkWidth
		ndcz++
	}
	if ny < 0 || ny >= voxel.WorldHeight {
		return 0, 0, 0, 0, 0, false
	}
	if ndcx < -1 || ndcx > 1 || ndcz < -1 || ndcz > 1 {
		return 0, 0, 0, 0, 0, false
	}
	return ndcx, ndcz, nx, ny, nz, true
}

var horizontalSpreads = [4]stage1Neighbor{{dx: 1}, {dx: -1}, {dz: 1}, {dz: -1}}
var allSpreads = [6]stage1Neighbor{{dx: 1}, {dx: -1}, {dy: 1}, {dy: -1}, {dz: 1}, {dz: -1}}

// lightingStage2 merges light across the chunk's 3x3 neighborhood: it
// temporarily mutates every zone chunk's stage1 buffer in place while
// running a bucketed BFS seeded from height-gaps and stage1's border
// "edges", records the center chunk's resulting values into stage2Lights,
// then undoes every mutation made to any chunk (including the center) so
// that stage1's own state is untouched — stage2Lights is a pure overlay.
func (c *Chunk) lightingStage2() {
	if !(c.ready && c.stage2Dirty) {
		return
	}

	var zone [3][3]*Chunk
	for dcx := -1; dcx <= 1; dcx++ {
		for dcz := -1; dcz <= 1; dcz++ {
			nb, ok := c.world.chunks.Get(c.point.Add(voxel.Point{X: dcx, Z: dcz}))
			if !ok {
				// Shouldn't happen: ready requires all 8 present. Defensive no-op.
				return
			}
			zone[dcx+1][dcz+1] = nb
		}
	}

	const numBuckets = voxel.SunlightLevel - 2
	var buckets [numBuckets][]zoneLoc
	var deltas []stage2Delta

	propagate := func(dcx, dcz, x, y, z int, level uint8) {
		ch := zone[dcx+1][dcz+1]
		index := voxel.VoxelIndex(x, y, z)
		cur := ch.stage1Lights[index]
		if level <= cur {
			return
		}
		if cur == 0 && c.world.registry.GetBlock(int(ch.voxels[index])).Opaque {
			return
		}
		deltas = append(deltas, stage2Delta{ch, index, cur})
		ch.stage1Lights[index] = level
		if level > 1 {
			bucketIdx := (voxel.SunlightLevel - 1) - int(level)
			buckets[bucketIdx] = append(buckets[bucketIdx], zoneLoc{dcx, dcz, x, y, z})
		}
	}

	for dcx := -1; dcx <= 1; dcx++ {
		for dcz := -1; dcz <= 1; dcz++ {
			src := zone[dcx+1][dcz+1]
			for _, d := range horizontalSpreads {
				for idx := range src.stage1Edges {
					y := idx & 0xff
					x := (idx >> 8) & voxel.ChunkMask
					z := (idx >> 12) & voxel.ChunkMask
					ndcx, ndcz, nx, ny, nz, ok := stepZone(dcx, dcz, x, y, z, d.dx, 0, d.dz)
					if !ok || (ndcx == dcx && ndcz == dcz) {
						continue
					}
					lvl := src.stage1Lights[idx]
					if lvl > 0 {
						propagate(ndcx, ndcz, nx, ny, nz, lvl-1)
					}
				}

				for along := 0; along < voxel.ChunkWidth; along++ {
					sx, sz := along, along
					if d.dx != 0 {
						sz = along
						if d.dx > 0 {
							sx = voxel.ChunkWidth - 1
						} else {
							sx = 0
						}
					} else {
						sx = along
						if d.dz > 0 {
							sz = voxel.ChunkWidth - 1
						} else {
							sz = 0
						}
					}
					ndcx, ndcz, dx2, _, dz2, ok := stepZone(dcx, dcz, sx, 0, sz, d.dx, 0, d.dz)
					if !ok {
						continue
					}
					dst := zone[ndcx+1][ndcz+1]
					sh := int(src.heightmap[voxel.HeightIndex(sx, sz)])
					dh := int(dst.heightmap[voxel.HeightIndex(dx2, dz2)])
					for y := sh; y < dh; y++ {
						propagate(ndcx, ndcz, dx2, y, dz2, voxel.SunlightLevel-1)
					}
				}
			}
		}
	}

	for level := numBuckets; level >= 1; level-- {
		bucketIdx := numBuckets - level
		for _, loc := range buckets[bucketIdx] {
			ch := zone[loc.dcx+1][loc.dcz+1]
			index := voxel.VoxelIndex(loc.x, loc.y, loc.z)
			if int(ch.stage1Lights[index]) != level+1 {
				continue
			}
			for _, d := range allSpreads {
				ndcx, ndcz, nx, ny, nz, ok := stepZone(loc.dcx, loc.dcz, loc.x, loc.y, loc.z, d.dx, d.dy, d.dz)
				if !ok {
					continue
				}
				propagate(ndcx, ndcz, nx, ny, nz, uint8(level))
			}
		}
	}

	c.stage2Lights = map[int]uint8{}
	for _, d := range deltas {
		if d.chunk == c {
			c.stage2Lights[d.index] = d.chunk.stage1Lights[d.index]
		}
	}
	for i := len(deltas) - 1; i >= 0; i-- {
		d := deltas[i]
		d.chunk.stage1Lights[d.index] = d.old
	}
	c.stage2Dirty = false
}
