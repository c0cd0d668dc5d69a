package mesher

import (
	"github.com/rmmh/voxelcore/internal/registry"
	"github.com/rmmh/voxelcore/internal/voxel"
)

// patchLiquidSurfaceQuads fills the small vertical gaps left where a
// liquid's top surface meets a downward step in solid terrain — without
// these, the liquid surface would show a hole at the step instead of a
// thin vertical skirt.
func (m *Mesher) patchLiquidSurfaceQuads(quads *[]Quad, ao, w, h int, pos Pos) {
	baseX, baseY, baseZ := pos[0], pos[1], pos[2]
	water := m.blockAt(baseX+1, baseY, baseZ+1)
	id := m.registry.GetBlock(int(water)).Faces[0]
	if id.IsNone() {
		return
	}
	material := m.registry.GetMaterial(id)

	patch := func(x, z, face int) bool {
		ax, az := baseX+x+1, baseZ+z+1
		below := m.registry.GetBlock(int(m.blockAt(ax, baseY, az)))
		if below.Opaque || below.Faces[face].IsNone() {
			return false
		}
		above := m.registry.GetBlock(int(m.blockAt(ax, baseY+1, az)))
		return above.Opaque || !above.Faces[3].IsNone()
	}

	tmp := pos
	for face := 4; face < 6; face++ {
		dz := -1
		if face != 4 {
			dz = w
		}
		wave := kWaveValues[1] - kWaveValues[2]
		for x := 0; x < h; {
			if !patch(x, dz, face) {
				x++
				continue
			}
			start := x
			x++
			for x < h && patch(x, dz, face) {
				x++
			}
			tmp[0] = baseX + start
			tmp[2] = baseZ + max(dz, 0)
			m.addQuad(quads, material, 1, ao, wave, 2, x-start, 0, tmp)
		}
	}

	for face := 0; face < 2; face++ {
		dx := -1
		if face != 0 {
			dx = h
		}
		wave := kWaveValues[1] - kWaveValues[0]
		for z := 0; z < w; {
			if !patch(dx, z, face) {
				z++
				continue
			}
			start := z
			z++
			for z < w && patch(dx, z, face) {
				z++
			}
			tmp[0] = baseX + max(dx, 0)
			tmp[2] = baseZ + start
			m.addQuad(quads, material, 1, ao, wave, 0, 0, z-start, tmp)
		}
	}
}

// splitLiquidSideQuads breaks a liquid side face into runs wherever the
// voxel directly above the quad's top edge flips between blocking the wave
// ripple effect and not, so the wave attribute is only set on the part of
// the face that's actually at the liquid's surface.
func (m *Mesher) splitLiquidSideQuads(quads *[]Quad, material registry.MaterialData, dir, ao, wave, d, w, h int, pos Pos) {
	baseX, baseY, baseZ := pos[0], pos[1], pos[2]

	ax := baseX + 1
	if d == 0 && dir > 0 {
		ax = baseX
	}
	az := baseZ + 1
	if d == 2 && dir > 0 {
		az = baseZ
	}
	ay := baseY + h + 1

	tmp := pos

	test := func(i int) bool {
		var above voxel.Block
		if d == 0 {
			above = m.blockAt(ax, ay, az+i)
		} else {
			above = m.blockAt(ax+i, ay, az)
		}
		data := m.registry.GetBlock(int(above))
		return data.Opaque || data.Faces[3].IsNone()
	}

	last := test(0)
	for i := 0; i < w; {
		j := i + 1
		for j < w && test(j) == last {
			j++
		}
		wFixed, hFixed := j-i, h
		if d == 0 {
			hFixed, wFixed = h, j-i
		}
		quadWave := 0
		if last {
			quadWave = wave
		}
		m.addQuad(quads, material, dir, ao, quadWave, d, wFixed, hFixed, tmp)
		tmp[2-d] += j - i
		last = !last
		i = j
	}
}

