// Package columnscript encodes and decodes the wire format worldgen uses to
// hand a chunk's voxel content to the engine: one run-length block stream
// per column plus a short decoration list. It exists so worldgen can stay
// on the other side of a narrow interface from the chunk storage it feeds —
// a worldgen rewrite only needs to keep producing the same bytes.
//
// Format, per chunk, columns ordered z-major then x-minor (z outer loop, x
// inner, matching the original engine's load loop):
//
//	for each of the 256 columns:
//	  repeat until the running end_y reaches 255 (voxel.BuildHeight):
//	    block   byte
//	    end_y   byte  (exclusive upper bound of this run; runs are contiguous
//	                   and the last one always ends exactly at 255 — the
//	                   plane at y=255 is never written, and stays Air)
//	  decoration_count byte
//	  decoration_count times:
//	    block byte
//	    y     byte
package columnscript

import (
	"bytes"
	"io"

	"github.com/pkg/errors"

	"github.com/rmmh/voxelcore/internal/voxel"
)

// Run is one contiguous vertical span of a single block type within a
// column, [StartY, EndY).
type Run struct {
	Block voxel.Block
	EndY  uint8 // exclusive
}

// Decoration is a single non-run-length voxel override within a column,
// layered on top of the run-length base (matches the original's
// "decorations" list: sparse blocks like bushes that don't participate in
// the height-run compression because they don't affect the heightmap).
type Decoration struct {
	Block voxel.Block
	Y     uint8
}

// Column is the decoded content of one (x, z) voxel column.
type Column struct {
	Runs        []Run
	Decorations []Decoration
}

// ColumnScript is a fully decoded chunk: 256 columns, z-major then x-minor.
type ColumnScript struct {
	Columns [voxel.ChunkWidth * voxel.ChunkWidth]Column
}

// ColumnIndex returns the z-major-then-x index used by ColumnScript.Columns,
// matching the iteration order columns are encoded in.
func ColumnIndex(x, z int) int { return z*voxel.ChunkWidth + x }

// Encode serializes a ColumnScript to its wire form. It writes no explicit
// run count or end-of-column marker: a column's runs are expected to sum to
// exactly voxel.BuildHeight (255), the same termination condition Decode
// relies on to know when to stop.
func Encode(cs *ColumnScript) []byte {
	var buf bytes.Buffer
	for _, col := range cs.Columns {
		for _, r := range col.Runs {
			buf.WriteByte(byte(r.Block))
			buf.WriteByte(r.EndY)
		}
		buf.WriteByte(byte(len(col.Decorations)))
		for _, d := range col.Decorations {
			buf.WriteByte(byte(d.Block))
			buf.WriteByte(d.Y)
		}
	}
	return buf.Bytes()
}

// Decode parses the wire format produced by Encode. It returns a wrapped
// error on truncated or otherwise malformed input; a malformed column
// script is an I/O-boundary condition (corrupt cache entry, bad fixture),
// not a programmer error, so it is reported rather than asserted.
func Decode(data []byte) (*ColumnScript, error) {
	r := bytes.NewReader(data)
	cs := &ColumnScript{}
	for i := range cs.Columns {
		col := &cs.Columns[i]
		start := uint8(0)
		for start < voxel.BuildHeight {
			block, err := r.ReadByte()
			if err != nil {
				return nil, errors.Wrapf(err, "column %d run %d: reading block", i, len(col.Runs))
			}
			end, err := r.ReadByte()
			if err != nil {
				return nil, errors.Wrapf(err, "column %d run %d: reading end_y", i, len(col.Runs))
			}
			if end <= start {
				return nil, errors.Errorf("column %d run %d: end_y %d does not advance past %d", i, len(col.Runs), end, start)
			}
			col.Runs = append(col.Runs, Run{Block: voxel.Block(block), EndY: end})
			start = end
		}
		decoCount, err := r.ReadByte()
		if err != nil {
			return nil, errors.Wrapf(err, "column %d: reading decoration count", i)
		}
		if decoCount > 0 {
			col.Decorations = make([]Decoration, decoCount)
		}
		for j := range col.Decorations {
			block, err := r.ReadByte()
			if err != nil {
				return nil, errors.Wrapf(err, "column %d decoration %d: reading block", i, j)
			}
			y, err := r.ReadByte()
			if err != nil {
				return nil, errors.Wrapf(err, "column %d decoration %d: reading y", i, j)
			}
			col.Decorations[j] = Decoration{Block: voxel.Block(block), Y: y}
		}
	}
	if r.Len() != 0 {
		return nil, errors.Errorf("%d trailing bytes after decoding all columns", r.Len())
	}
	return cs, nil
}

// DecodeFrom is a streaming convenience wrapper around Decode for callers
// holding an io.Reader (the editlog importer and the lz4-backed cache both
// do).
func DecodeFrom(r io.Reader) (*ColumnScript, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading column script")
	}
	return Decode(data)
}

// Builder incrementally constructs one column's run-length stream, mirroring
// the original's ChunkData::push/decorate/commit API: push extends the
// current run or starts a new one, decorate appends a sparse override, and
// the caller collects the finished Column once done with a column.
type Builder struct {
	col Column
	cur Run
	cnt uint8 // start-y of cur, tracked implicitly via previous EndY
}

// Push extends the column with count voxels of block, starting at the
// builder's current height. A zero count is a no-op.
func (b *Builder) Push(block voxel.Block, count int) {
	if count <= 0 {
		return
	}
	startY := uint8(0)
	if len(b.col.Runs) > 0 {
		startY = b.col.Runs[len(b.col.Runs)-1].EndY
	}
	endY := startY + uint8(count)
	if len(b.col.Runs) > 0 && b.col.Runs[len(b.col.Runs)-1].Block == block {
		b.col.Runs[len(b.col.Runs)-1].EndY = endY
		return
	}
	b.col.Runs = append(b.col.Runs, Run{Block: block, EndY: endY})
}

// Decorate appends a sparse decoration at height y, on top of the base run
// at that height.
func (b *Builder) Decorate(block voxel.Block, y uint8) {
	b.col.Decorations = append(b.col.Decorations, Decoration{Block: block, Y: y})
}

// Commit returns the finished column and resets the builder for reuse on
// the next column.
func (b *Builder) Commit() Column {
	col := b.col
	b.col = Column{}
	return col
}
