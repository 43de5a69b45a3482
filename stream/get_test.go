package stream

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gnsskit/sbfkit/block"
	"github.com/gnsskit/sbfkit/errs"
)

// corrupt returns b's encoding with a flipped payload byte, so the
// framing stays plausible but the CRC no longer matches.
func corrupt(b block.Block) []byte {
	raw := make([]byte, b.Size())
	copy(raw, b.Bytes())
	raw[len(raw)-1] ^= 0xFF

	return raw
}

func TestNextBlockSkipsInvalid(t *testing.T) {
	s := Open()
	good := mkBlock(t, block.NumMeasEpoch, 1)
	bad := mkBlock(t, block.NumMeasEpoch, 2)
	after := mkBlock(t, block.NumMeasEpoch, 3)

	fill(t, s, good)
	s.blocks = append(s.blocks, block.FromRaw(corrupt(bad)))
	fill(t, s, after)

	b, err := s.NextBlock()
	require.NoError(t, err)
	require.InDelta(t, baseTime+1, b.GnssTime(), 1e-3)

	// The corrupt block is skipped without notice.
	b, err = s.NextBlock()
	require.NoError(t, err)
	require.InDelta(t, baseTime+3, b.GnssTime(), 1e-3)

	_, err = s.NextBlock()
	require.ErrorIs(t, err, errs.ErrEndOfStream)
}

func TestNextBlockCRCCheckReportsSkips(t *testing.T) {
	s := Open()
	bad := mkBlock(t, block.NumMeasEpoch, 1)
	good := mkBlock(t, block.NumMeasEpoch, 2)

	s.blocks = append(s.blocks, block.FromRaw(corrupt(bad)))
	fill(t, s, good)

	b, err := s.NextBlockCRCCheck()
	require.ErrorIs(t, err, errs.ErrInvalidBlockSkipped)
	require.True(t, errs.IsWarning(err))
	require.InDelta(t, baseTime+2, b.GnssTime(), 1e-3)
}

func TestPrevBlock(t *testing.T) {
	s := Open()
	fill(t, s, mkBlock(t, block.NumMeasEpoch, 1), mkBlock(t, block.NumMeasEpoch, 2))

	s.Forward()
	b, err := s.PrevBlock()
	require.NoError(t, err)
	require.InDelta(t, baseTime+2, b.GnssTime(), 1e-3)

	b, err = s.PrevBlock()
	require.NoError(t, err)
	require.InDelta(t, baseTime+1, b.GnssTime(), 1e-3)

	_, err = s.PrevBlock()
	require.ErrorIs(t, err, errs.ErrEndOfStream)
}

func TestNextPrevBlockByID(t *testing.T) {
	s := Open()
	fill(t, s,
		mkBlock(t, block.NumMeasEpoch, 1),
		mkBlock(t, block.NumGPSNav, 2),
		mkBlock(t, block.NumMeasEpoch, 3),
	)

	b, err := s.NextBlockByID(block.ID(block.NumGPSNav))
	require.NoError(t, err)
	require.Equal(t, block.NumGPSNav, b.Number())

	_, err = s.NextBlockByID(block.ID(block.NumGPSNav))
	require.ErrorIs(t, err, errs.ErrEndOfStream)

	s.Forward()
	b, err = s.PrevBlockByID(block.ID(block.NumMeasEpoch))
	require.NoError(t, err)
	require.InDelta(t, baseTime+3, b.GnssTime(), 1e-3)
}

func TestNextBlockByGnssTime(t *testing.T) {
	s := Open()
	fill(t, s,
		mkBlock(t, block.NumMeasEpoch, 1),
		mkBlock(t, block.NumMeasEpoch, 2),
		mkBlock(t, block.NumMeasEpoch, 3),
	)

	b, err := s.NextBlockByGnssTime(baseTime + 1.5)
	require.NoError(t, err)
	require.InDelta(t, baseTime+2, b.GnssTime(), 1e-3)

	_, err = s.NextBlockByGnssTime(baseTime + 10)
	require.ErrorIs(t, err, errs.ErrEndOfStream)
}

func TestSetNextBlockOffset(t *testing.T) {
	s := Open()
	for _, sec := range []float64{1, 2, 3, 4, 5} {
		fill(t, s, mkBlock(t, block.NumMeasEpoch, sec))
	}

	require.ErrorIs(t, s.SetNextBlockOffset(-1), errs.ErrInvalidArgument)
	require.NoError(t, s.SetNextBlockOffset(1))

	b, err := s.NextBlock()
	require.NoError(t, err)
	require.InDelta(t, baseTime+1, b.GnssTime(), 1e-3)

	// One block is skipped between reads.
	b, err = s.NextBlock()
	require.NoError(t, err)
	require.InDelta(t, baseTime+3, b.GnssTime(), 1e-3)

	require.NoError(t, s.SetNextBlockOffset(0))
	b, err = s.NextBlock()
	require.NoError(t, err)
	require.InDelta(t, baseTime+4, b.GnssTime(), 1e-3)
}

func TestWaitOnNextBlock(t *testing.T) {
	s := Open()
	// Two blocks 0.5s apart played back 10x faster: ~50ms delay.
	fill(t, s, mkBlock(t, block.NumMeasEpoch, 1), mkBlock(t, block.NumMeasEpoch, 1.5))

	require.ErrorIs(t, s.WaitOnNextBlock(true, 0.01), errs.ErrOutOfRange)
	require.ErrorIs(t, s.WaitOnNextBlock(true, 101), errs.ErrOutOfRange)
	require.NoError(t, s.WaitOnNextBlock(true, 10))

	start := time.Now()
	_, err := s.NextBlock()
	require.NoError(t, err)
	// The first read does not wait.
	require.Less(t, time.Since(start), 40*time.Millisecond)

	start = time.Now()
	_, err = s.NextBlock()
	require.NoError(t, err)
	elapsed := time.Since(start)
	require.GreaterOrEqual(t, elapsed, 40*time.Millisecond)
	require.Less(t, elapsed, 500*time.Millisecond)

	t.Run("disabled again", func(t *testing.T) {
		s.Rewind()
		require.NoError(t, s.WaitOnNextBlock(false, 0))

		start := time.Now()
		_, err := s.NextBlock()
		require.NoError(t, err)
		_, err = s.NextBlock()
		require.NoError(t, err)
		require.Less(t, time.Since(start), 40*time.Millisecond)
	})
}
