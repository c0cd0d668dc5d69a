package worldgen

import "github.com/rmmh/voxelcore/internal/voxel"

// HashNoise is a minimal deterministic NoiseSource: a seeded avalanching
// integer hash turned into value noise via bilinear interpolation between
// lattice points. It exists so the standalone binaries and tests have a
// ready NoiseSource without a real terrain generator attached — ground
// truth for a production deployment plugs into the NoiseSource seam
// instead of this implementation.
type HashNoise struct {
	Seed uint32
}

func hash32(x uint32) uint32 {
	x ^= x >> 16
	x *= 0x7feb352d
	x ^= x >> 15
	x *= 0x846ca68b
	x ^= x >> 16
	return x
}

func (n HashNoise) hash2(x, z int32) uint32 {
	h := n.Seed
	h ^= uint32(x) * 0x9e3779b1
	h ^= uint32(z) * 0x85ebca6b
	return hash32(h)
}

func (n HashNoise) hash3(x, y, z int32) uint32 {
	h := n.Seed
	h ^= uint32(x) * 0x9e3779b1
	h ^= uint32(y) * 0x85ebca6b
	h ^= uint32(z) * 0xc2b2ae35
	return hash32(h)
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

func smooth(t float64) float64 { return t * t * (3 - 2*t) }

// value2D samples bilinearly-interpolated value noise at (x, z) / period.
func (n HashNoise) value2D(x, z float64, period float64) float64 {
	fx, fz := x/period, z/period
	x0, z0 := int32(fx), int32(fz)
	if fx < 0 {
		x0--
	}
	if fz < 0 {
		z0--
	}
	tx, tz := smooth(fx-float64(x0)), smooth(fz-float64(z0))

	sample := func(ix, iz int32) float64 {
		return float64(n.hash2(ix, iz)) / float64(^uint32(0))
	}
	v00, v10 := sample(x0, z0), sample(x0+1, z0)
	v01, v11 := sample(x0, z0+1), sample(x0+1, z0+1)
	return lerp(lerp(v00, v10, tx), lerp(v01, v11, tx), tz)
}

// Height implements NoiseSource.
func (n HashNoise) Height(x, z int) int {
	base := n.value2D(float64(x), float64(z), 64)
	detail := n.value2D(float64(x), float64(z), 16)
	h := 48 + base*48 + detail*12
	return int(h)
}

// Density implements NoiseSource.
func (n HashNoise) Density(x, y, z int) float64 {
	v := float64(n.hash3(int32(x), int32(y), int32(z))) / float64(^uint32(0))
	return v - 0.12 // mostly solid, sparse small voids
}

// Decoration implements NoiseSource.
func (n HashNoise) Decoration(x, z int) voxel.Block {
	v := n.hash2(int32(x)^0x5bd1e995, int32(z)^0x27d4eb2f)
	switch {
	case v%37 == 0:
		return voxel.Bush
	case v%101 == 0:
		return voxel.Fungi
	default:
		return voxel.Air
	}
}
