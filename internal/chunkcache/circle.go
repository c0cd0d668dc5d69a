// Package chunkcache implements Circle, a fixed-capacity cache of slots
// keyed by a 2D point, admitted in ascending distance from a movable
// center. It is the window-management primitive the world scheduler uses to
// decide which chunks exist at all; the scheduler itself (admission rate,
// remesh/relight budgets) lives in internal/world.
package chunkcache

import (
	"sort"

	"github.com/rmmh/voxelcore/internal/assert"
	"github.com/rmmh/voxelcore/internal/voxel"
)

// Slot is the lifecycle contract a cached value must satisfy. Exported
// method names are required here: Go only allows a type parameter's method
// set to be checked through exported methods when the constraint crosses
// package boundaries, which Circle always does (callers live in
// internal/world).
type Slot interface {
	Create(p voxel.Point, ctx any)
	Destroy()
	Point() voxel.Point
}

// Circle is a fixed-capacity ring of slots around a movable center point,
// admitting candidates in ascending squared-distance order and evicting
// whatever falls outside the configured radius when the center moves. The
// storage pool is preallocated to the circle's exact capacity; Set panics
// if called on a point already present or when the pool is exhausted,
// matching the original's assert-based preconditions (callers are expected
// to check Get/space before calling Set).
type Circle[T Slot] struct {
	center voxel.Point

	offsets []voxel.Point // sorted ascending by NormSquared, relative to center
	deltas  []int         // deltas[|dx|] = max admissible |dz| for that |dx|

	storage []T
	unused  []int // free list of indices into storage
	lookup  []int // hash table of storage indices, -1 for empty
	shift   uint
	mask    int
}

// NewCircle builds a Circle admitting every point within radius of the
// center (radius in the original's squared-bound sense: a point qualifies
// if its NormSquared is <= radius*radius). capacity slack mirrors the
// original's "radius+0.5" convention used when sizing Circle from a chunk
// draw distance — callers pass the already-adjusted radius.
//
// newSlot constructs one pooled, not-yet-created slot; it is called exactly
// Capacity() times, up front, so the pool never allocates again after
// NewCircle returns. T is expected to be a pointer type (e.g. *Chunk) so
// that Create/Destroy can mutate shared state.
func NewCircle[T Slot](radius float64, newSlot func() T) *Circle[T] {
	bound := int(radius * radius)
	floor := int(radius)

	var offsets []voxel.Point
	for i := -floor; i <= floor; i++ {
		for j := -floor; j <= floor; j++ {
			p := voxel.Point{X: i, Z: j}
			if p.NormSquared() <= bound {
				offsets = append(offsets, p)
			}
		}
	}
	sort.SliceStable(offsets, func(a, b int) bool {
		return offsets[a].NormSquared() < offsets[b].NormSquared()
	})

	deltas := make([]int, floor+1)
	for ax := 0; ax <= floor; ax++ {
		maxAz := -1
		for _, p := range offsets {
			if abs(p.X) == ax && abs(p.Z) > maxAz {
				maxAz = abs(p.Z)
			}
		}
		deltas[ax] = maxAz
	}

	total := len(offsets)
	shift := uint(1)
	for (1 << shift) < (2*floor + 1) {
		shift++
	}
	lookupSize := 1 << (2 * shift)

	c := &Circle[T]{
		offsets: offsets,
		deltas:  deltas,
		storage: make([]T, total),
		unused:  make([]int, total),
		lookup:  make([]int, lookupSize),
		shift:   shift,
		mask:    (1 << shift) - 1,
	}
	for i := range c.lookup {
		c.lookup[i] = -1
	}
	for i := 0; i < total; i++ {
		c.unused[i] = i
		c.storage[i] = newSlot()
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func (c *Circle[T]) index(p voxel.Point) int {
	return ((p.Z & c.mask) << c.shift) | (p.X & c.mask)
}

// numDeltas is the x-range covered by c.deltas (floor+1 entries).
func (c *Circle[T]) numDeltas() int { return len(c.deltas) }

// inRange reports whether a point offset from the center still qualifies
// under the circle's radius, using the precomputed per-column delta table
// instead of recomputing NormSquared.
func (c *Circle[T]) inRange(diff voxel.Point) bool {
	ax := abs(diff.X)
	if ax >= c.numDeltas() {
		return false
	}
	return abs(diff.Z) <= c.deltas[ax]
}

// Get returns the slot at p and true, or the zero value and false if p is
// not currently cached. The stored point is re-checked against p to guard
// against the fixed-size lookup table aliasing two different points to the
// same bucket.
func (c *Circle[T]) Get(p voxel.Point) (T, bool) {
	idx := c.index(p)
	si := c.lookup[idx]
	if si < 0 {
		var zero T
		return zero, false
	}
	slot := c.storage[si]
	if slot.Point() != p {
		var zero T
		return zero, false
	}
	return slot, true
}

// Set creates a new slot at p. It panics if p is already cached (check Get
// first) or if the pool is exhausted (the radius's admission logic should
// prevent this; a caller calling Set outside that logic is a programming
// error).
func (c *Circle[T]) Set(p voxel.Point, ctx any) T {
	idx := c.index(p)
	assert.True(c.lookup[idx] < 0 || c.storage[c.lookup[idx]].Point() != p, "Set: point %v already cached", p)
	assert.True(len(c.unused) > 0, "Set: pool exhausted")

	si := c.unused[len(c.unused)-1]
	c.unused = c.unused[:len(c.unused)-1]
	c.storage[si].Create(p, ctx)
	c.lookup[idx] = si
	return c.storage[si]
}

// Each visits every cached slot in ascending distance-from-center order,
// stopping early if fn returns true. Slots are visited through the
// precomputed offsets list, so distance order is stable across calls even
// as slots are created/destroyed.
func (c *Circle[T]) Each(fn func(p voxel.Point, slot T, present bool) bool) {
	for _, off := range c.offsets {
		p := c.center.Add(off)
		slot, ok := c.Get(p)
		if fn(p, slot, ok) {
			return
		}
	}
}

// Recenter moves the circle's center, evicting (via Destroy) every cached
// slot that falls outside the new radius. It does not admit new slots —
// that is the scheduler's job, done by calling Set on points reported
// absent by Each after Recenter.
func (c *Circle[T]) Recenter(p voxel.Point) {
	if c.center == p {
		return
	}
	for idx, si := range c.lookup {
		if si < 0 {
			continue
		}
		slot := c.storage[si]
		diff := slot.Point().Sub(p)
		if !c.inRange(diff) {
			c.storage[si].Destroy()
			c.lookup[idx] = -1
			c.unused = append(c.unused, si)
		}
	}
	c.center = p
}

// Center returns the circle's current center point.
func (c *Circle[T]) Center() voxel.Point { return c.center }

// Capacity returns the total number of slots the circle can hold.
func (c *Circle[T]) Capacity() int { return len(c.storage) }
