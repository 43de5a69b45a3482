package stream

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gnsskit/sbfkit/block"
	"github.com/gnsskit/sbfkit/errs"
)

func TestOpenEmpty(t *testing.T) {
	s := Open()

	require.True(t, s.IsEmpty())
	require.Equal(t, 0, s.Size())
	require.Equal(t, 0, s.Position())

	_, err := s.NextBlock()
	require.ErrorIs(t, err, errs.ErrEndOfStream)
}

func TestRemoveBlockByTime(t *testing.T) {
	s := Open()
	for _, sec := range []float64{1, 2, 3, 4, 5} {
		fill(t, s, mkBlock(t, block.NumMeasEpoch, sec))
	}

	require.NoError(t, s.RemoveBlockByTime(block.IDAll, baseTime+3))
	require.Equal(t, 4, s.BlockCount())
	require.Equal(t, []float64{1, 2, 4, 5}, times(s))

	err := s.RemoveBlockByTime(block.IDAll, baseTime+3)
	require.ErrorIs(t, err, errs.ErrBlockNotFound)

	t.Run("matches within epoch tolerance", func(t *testing.T) {
		s := Open()
		fill(t, s, mkBlock(t, block.NumMeasEpoch, 1), mkBlock(t, block.NumMeasEpoch, 2))

		// A recomputed time a fraction of a millisecond off the stored
		// epoch still selects it.
		require.NoError(t, s.RemoveBlockByTime(block.IDAll, baseTime+2+0.0004))
		require.Equal(t, []float64{1}, times(s))
	})
}

func TestPositionSaveRestore(t *testing.T) {
	s := Open()
	fill(t, s,
		mkBlock(t, block.NumMeasEpoch, 1),
		mkBlock(t, block.NumMeasEpoch, 2),
		mkBlock(t, block.NumMeasEpoch, 3),
	)

	_, err := s.NextBlock()
	require.NoError(t, err)
	s.PositionSave()

	_, err = s.NextBlock()
	require.NoError(t, err)
	require.NoError(t, s.PositionRestore())

	b, err := s.NextBlock()
	require.NoError(t, err)
	require.InDelta(t, baseTime+2, b.GnssTime(), 1e-3)

	t.Run("stale after mutation", func(t *testing.T) {
		s.PositionSave()
		require.NoError(t, s.RemoveBlockByTime(block.IDAll, baseTime+1))
		require.ErrorIs(t, s.PositionRestore(), errs.ErrWrongState)
	})

	t.Run("no bookmark", func(t *testing.T) {
		require.ErrorIs(t, Open().PositionRestore(), errs.ErrWrongState)
	})
}

func TestByteAddressedCursor(t *testing.T) {
	s := Open()
	b1 := mkBlock(t, block.NumMeasEpoch, 1)
	b2 := mkBlock(t, block.NumMeasEpoch, 2)
	fill(t, s, b1, b2)

	require.Equal(t, b1.Size()+b2.Size(), s.Size())

	_, err := s.NextBlock()
	require.NoError(t, err)
	require.Equal(t, b1.Size(), s.Position())

	s.Forward()
	require.Equal(t, s.Size(), s.Position())
	s.Rewind()
	require.Equal(t, 0, s.Position())

	t.Run("snaps forward inside a block", func(t *testing.T) {
		require.NoError(t, s.SetPosition(1))
		require.Equal(t, b1.Size(), s.Position())
	})

	t.Run("out of range", func(t *testing.T) {
		require.ErrorIs(t, s.SetPosition(-1), errs.ErrOutOfRange)
		require.ErrorIs(t, s.SetPosition(s.Size()+1), errs.ErrOutOfRange)
	})
}

func TestCopy(t *testing.T) {
	src := Open()
	fill(t, src, mkBlock(t, block.NumMeasEpoch, 1), mkBlock(t, block.NumGPSNav, 2))
	src.SetReferenceAntenna("TRM59800.00")
	src.SetLeapSecond(18, false)

	dst := Open()
	require.NoError(t, dst.Copy(src))
	require.Equal(t, src.BlockCount(), dst.BlockCount())
	require.Equal(t, "TRM59800.00", dst.ReferenceAntenna())

	leap, ok := dst.LeapSecond()
	require.True(t, ok)
	require.Equal(t, int8(18), leap)

	t.Run("destination must be empty", func(t *testing.T) {
		require.ErrorIs(t, dst.Copy(src), errs.ErrStreamNotEmpty)
	})

	t.Run("nil source", func(t *testing.T) {
		require.ErrorIs(t, Open().Copy(nil), errs.ErrNilReference)
	})
}

func TestCleanKeepsHandleUsable(t *testing.T) {
	s := Open()
	fill(t, s, mkBlock(t, block.NumMeasEpoch, 1))

	require.NoError(t, s.Clean())
	require.True(t, s.IsEmpty())

	fill(t, s, mkBlock(t, block.NumMeasEpoch, 2))
	require.Equal(t, 1, s.BlockCount())
}

func TestReadOnlyRejectsMutation(t *testing.T) {
	s := Open()
	s.mode = ReadOnly

	b := mkBlock(t, block.NumMeasEpoch, 1)
	require.ErrorIs(t, s.AppendBlock(b.Bytes()), errs.ErrReadOnly)
	require.ErrorIs(t, s.Clean(), errs.ErrReadOnly)
	require.ErrorIs(t, s.RemoveBlocks(block.IDAll), errs.ErrReadOnly)
	require.ErrorIs(t, s.FilterID(block.IDAll), errs.ErrReadOnly)
}

func TestReferenceMetadata(t *testing.T) {
	s := Open()

	_, ok := s.ReferencePosition()
	require.False(t, ok)

	s.SetReferencePosition(4027894.1, 307045.6, 4919474.9)
	pos, ok := s.ReferencePosition()
	require.True(t, ok)
	require.Equal(t, [3]float64{4027894.1, 307045.6, 4919474.9}, pos)

	s.SetReferenceOffset(0, 0, 1.2)
	off, ok := s.ReferenceOffset()
	require.True(t, ok)
	require.Equal(t, 1.2, off[2])

	_, ok = s.LeapSecond()
	require.False(t, ok)
}
