package columnscript

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rmmh/voxelcore/internal/voxel"
)

func TestBuilderPushMergesAdjacentRuns(t *testing.T) {
	var b Builder
	b.Push(voxel.Stone, 10)
	b.Push(voxel.Stone, 5)
	b.Push(voxel.Air, 3)
	col := b.Commit()

	require.Len(t, col.Runs, 2)
	require.Equal(t, Run{Block: voxel.Stone, EndY: 15}, col.Runs[0])
	require.Equal(t, Run{Block: voxel.Air, EndY: 18}, col.Runs[1])
}

func TestBuilderPushZeroCountNoop(t *testing.T) {
	var b Builder
	b.Push(voxel.Stone, 5)
	b.Push(voxel.Dirt, 0)
	col := b.Commit()
	require.Len(t, col.Runs, 1)
}

func TestBuilderResetsAfterCommit(t *testing.T) {
	var b Builder
	b.Push(voxel.Stone, 5)
	b.Commit()
	b.Push(voxel.Dirt, 2)
	col := b.Commit()
	require.Len(t, col.Runs, 1)
	require.Equal(t, voxel.Dirt, col.Runs[0].Block)
	require.Equal(t, uint8(2), col.Runs[0].EndY)
}

// fullColumnScript builds a ColumnScript where every column's runs sum to
// exactly voxel.BuildHeight, the shape Decode requires of valid input.
func fullColumnScript(decorate func(i int) bool) *ColumnScript {
	cs := &ColumnScript{}
	var b Builder
	for i := range cs.Columns {
		b.Push(voxel.Bedrock, 1)
		b.Push(voxel.Stone, 60)
		b.Push(voxel.Dirt, 3)
		b.Push(voxel.Grass, 1)
		b.Push(voxel.Air, voxel.BuildHeight-65)
		if decorate != nil && decorate(i) {
			b.Decorate(voxel.Bush, 65)
		}
		cs.Columns[i] = b.Commit()
	}
	return cs
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cs := fullColumnScript(func(i int) bool { return i%7 == 0 })

	encoded := Encode(cs)
	decoded, err := Decode(encoded)
	require.NoError(t, err)
	require.Equal(t, cs, decoded)
}

func TestDecodeTruncatedReturnsError(t *testing.T) {
	cs := fullColumnScript(nil)
	encoded := Encode(cs)
	_, err := Decode(encoded[:len(encoded)-1])
	require.Error(t, err)
}

func TestDecodeTrailingBytesReturnsError(t *testing.T) {
	cs := fullColumnScript(nil)
	encoded := append(Encode(cs), 0xff)
	_, err := Decode(encoded)
	require.Error(t, err)
}

func TestDecodeRunNotAdvancingReturnsError(t *testing.T) {
	// One column with a run whose end_y doesn't advance past 0, followed by
	// a decoration count byte; Decode must reject this rather than loop.
	encoded := []byte{byte(voxel.Stone), 0, 0}
	_, err := Decode(encoded)
	require.Error(t, err)
}

func TestColumnIndexIsZMajor(t *testing.T) {
	require.Equal(t, 0, ColumnIndex(0, 0))
	require.Equal(t, 1, ColumnIndex(1, 0))
	require.Equal(t, voxel.ChunkWidth, ColumnIndex(0, 1))
}
