package stream

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gnsskit/sbfkit/block"
)

// baseTime anchors test timestamps inside a real GNSS week.
const baseTime float64 = 2310 * 604800

// mkBlock builds a valid block of the given number at baseTime+sec.
func mkBlock(t *testing.T, num uint16, sec float64) block.Block {
	t.Helper()

	tow, wnc := block.SplitGnssTime(baseTime + sec)
	b, err := block.New(block.ID(num), tow, wnc, []byte{1, 2, 3, 4})
	require.NoError(t, err)

	return b
}

// mkUntimed builds a valid block without a usable timestamp.
func mkUntimed(t *testing.T, num uint16) block.Block {
	t.Helper()

	b, err := block.New(block.ID(num), block.TOWNotValid, block.WNcNotValid, []byte{9, 9})
	require.NoError(t, err)

	return b
}

// fill appends blocks to a stream, failing the test on error.
func fill(t *testing.T, s *Stream, blocks ...block.Block) {
	t.Helper()

	for _, b := range blocks {
		require.NoError(t, s.AppendBlock(b.Bytes()))
	}
}

// times lists the offsets from baseTime of every timed block.
func times(s *Stream) []float64 {
	out := make([]float64, 0, len(s.blocks))
	for _, b := range s.blocks {
		if t := b.GnssTime(); block.IsTimeValid(t) {
			out = append(out, t-baseTime)
		}
	}

	return out
}
