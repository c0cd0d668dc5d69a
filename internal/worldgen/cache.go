package worldgen

import (
	"sync"

	lz4 "github.com/DataDog/golz4-2"
	"github.com/pkg/errors"

	"github.com/rmmh/voxelcore/internal/columnscript"
	"github.com/rmmh/voxelcore/internal/voxel"
	"github.com/rmmh/voxelcore/internal/world"
)

// Cache wraps a world.Worldgen with an lz4-compressed in-memory store keyed
// by chunk point, so re-entering a chunk the player already visited this
// session skips regeneration. Column scripts compress well (long runs of
// stone/air), the same property the original's edit-log importer exploits
// for its block-history encoding.
type Cache struct {
	gen world.Worldgen

	mu    sync.Mutex
	store map[voxel.Point][]byte
}

// NewCache wraps gen with a fresh, empty cache.
func NewCache(gen world.Worldgen) *Cache {
	return &Cache{gen: gen, store: map[voxel.Point][]byte{}}
}

// Generate implements world.Worldgen: on a cache hit it decompresses and
// decodes the stored bytes; on a miss it generates, encodes, compresses,
// and stores before returning.
func (c *Cache) Generate(p voxel.Point) *columnscript.ColumnScript {
	c.mu.Lock()
	comp, hit := c.store[p]
	c.mu.Unlock()

	if hit {
		cs, err := decodeCompressed(comp)
		if err == nil {
			return cs
		}
		// A corrupt cache entry falls through to regeneration rather than
		// propagating: the cache is a pure accelerator, never a source of
		// truth, so losing an entry is equivalent to a miss.
	}

	cs := c.gen.Generate(p)
	comp, err := encodeCompressed(cs)
	if err == nil {
		c.mu.Lock()
		c.store[p] = comp
		c.mu.Unlock()
	}
	return cs
}

// Evict drops a cached entry, so the next Generate for p regenerates it.
// World does not call it when a chunk leaves the window; entries stay
// cached until evicted explicitly.
func (c *Cache) Evict(p voxel.Point) {
	c.mu.Lock()
	delete(c.store, p)
	c.mu.Unlock()
}

func encodeCompressed(cs *columnscript.ColumnScript) ([]byte, error) {
	buf := columnscript.Encode(cs)
	comp := make([]byte, lz4.CompressBoundHdr(buf))
	n, err := lz4.CompressHCHdr(comp, buf)
	if err != nil {
		return nil, errors.Wrap(err, "compressing column script")
	}
	return comp[:n], nil
}

func decodeCompressed(comp []byte) (*columnscript.ColumnScript, error) {
	buf, err := lz4.UncompressAllocHdr(nil, comp)
	if err != nil {
		return nil, errors.Wrap(err, "decompressing column script")
	}
	cs, err := columnscript.Decode(buf)
	if err != nil {
		return nil, errors.Wrap(err, "decoding cached column script")
	}
	return cs, nil
}
