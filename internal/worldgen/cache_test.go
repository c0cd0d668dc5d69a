package worldgen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rmmh/voxelcore/internal/columnscript"
	"github.com/rmmh/voxelcore/internal/voxel"
)

type countingGen struct {
	calls int
}

func (g *countingGen) Generate(p voxel.Point) *columnscript.ColumnScript {
	g.calls++
	cs := &columnscript.ColumnScript{}
	var b columnscript.Builder
	b.Push(voxel.Stone, voxel.BuildHeight)
	col := b.Commit()
	for i := range cs.Columns {
		cs.Columns[i] = col
	}
	return cs
}

func TestCacheHitAvoidsRegeneration(t *testing.T) {
	gen := &countingGen{}
	c := NewCache(gen)
	p := voxel.Point{X: 1, Z: 2}

	first := c.Generate(p)
	require.Equal(t, 1, gen.calls)

	second := c.Generate(p)
	require.Equal(t, 1, gen.calls, "second Generate for the same point must hit the cache")
	require.Equal(t, first, second)
}

func TestCacheEvictForcesRegeneration(t *testing.T) {
	gen := &countingGen{}
	c := NewCache(gen)
	p := voxel.Point{X: 3, Z: 4}

	c.Generate(p)
	c.Evict(p)
	c.Generate(p)
	require.Equal(t, 2, gen.calls)
}

func TestCacheDistinctPointsDontShareEntries(t *testing.T) {
	gen := &countingGen{}
	c := NewCache(gen)
	c.Generate(voxel.Point{X: 0, Z: 0})
	c.Generate(voxel.Point{X: 1, Z: 0})
	require.Equal(t, 2, gen.calls)
}

func TestEncodeDecodeCompressedRoundTrip(t *testing.T) {
	cs := &columnscript.ColumnScript{}
	var b columnscript.Builder
	b.Push(voxel.Dirt, 5)
	b.Push(voxel.Air, voxel.BuildHeight-5)
	col := b.Commit()
	for i := range cs.Columns {
		cs.Columns[i] = col
	}

	comp, err := encodeCompressed(cs)
	require.NoError(t, err)
	decoded, err := decodeCompressed(comp)
	require.NoError(t, err)
	require.Equal(t, cs, decoded)
}

func TestDecodeCompressedRejectsGarbage(t *testing.T) {
	_, err := decodeCompressed([]byte{1, 2, 3, 4, 5})
	require.Error(t, err)
}
