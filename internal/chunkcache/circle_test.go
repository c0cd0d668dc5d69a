package chunkcache

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rmmh/voxelcore/internal/voxel"
)

type testSlot struct {
	p       voxel.Point
	created bool
	destroyed bool
}

func (s *testSlot) Create(p voxel.Point, ctx any) {
	s.p = p
	s.created = true
	s.destroyed = false
}

func (s *testSlot) Destroy() { s.destroyed = true }

func (s *testSlot) Point() voxel.Point { return s.p }

func newTestCircle(radius float64) *Circle[*testSlot] {
	return NewCircle[*testSlot](radius, func() *testSlot { return &testSlot{} })
}

func TestNewCirclePrepopulatesPool(t *testing.T) {
	c := newTestCircle(2)
	require.Greater(t, c.Capacity(), 0)
	for _, slot := range c.storage {
		require.NotNil(t, slot)
		require.False(t, slot.created)
	}
}

func TestSetAndGet(t *testing.T) {
	c := newTestCircle(2)
	p := voxel.Point{X: 1, Z: 0}
	slot := c.Set(p, "ctx")
	require.True(t, slot.created)
	require.Equal(t, p, slot.Point())

	got, ok := c.Get(p)
	require.True(t, ok)
	require.Same(t, slot, got)

	_, ok = c.Get(voxel.Point{X: 99, Z: 99})
	require.False(t, ok)
}

func TestSetPanicsOnDuplicate(t *testing.T) {
	c := newTestCircle(2)
	p := voxel.Point{X: 0, Z: 0}
	c.Set(p, nil)
	require.Panics(t, func() { c.Set(p, nil) })
}

func TestFillingCapacityExhaustsFreeList(t *testing.T) {
	c := newTestCircle(1)
	capacity := c.Capacity()
	filled := 0
	c.Each(func(p voxel.Point, slot *testSlot, present bool) bool {
		if filled >= capacity {
			return true
		}
		c.Set(p, nil)
		filled++
		return false
	})
	require.Equal(t, capacity, filled)
	require.Empty(t, c.unused)
}

func TestRecenterEvictsOutOfRange(t *testing.T) {
	c := newTestCircle(1)
	origin := voxel.Point{X: 0, Z: 0}
	far := voxel.Point{X: 1, Z: 0}
	c.Set(origin, nil)
	c.Set(far, nil)

	c.Recenter(voxel.Point{X: 10, Z: 10})

	_, ok := c.Get(origin)
	require.False(t, ok)
	_, ok = c.Get(far)
	require.False(t, ok)
}

func TestEachVisitsAscendingDistance(t *testing.T) {
	c := newTestCircle(3)
	var lastDist int = -1
	c.Each(func(p voxel.Point, slot *testSlot, present bool) bool {
		d := p.Sub(c.Center()).NormSquared()
		require.GreaterOrEqual(t, d, lastDist)
		lastDist = d
		return false
	})
}

func TestCenterDefaultsToZero(t *testing.T) {
	c := newTestCircle(2)
	require.Equal(t, voxel.Point{}, c.Center())
}
