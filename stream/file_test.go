package stream

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gnsskit/sbfkit/block"
	"github.com/gnsskit/sbfkit/errs"
)

func TestWriteLoadRoundTrip(t *testing.T) {
	s := Open()
	fill(t, s,
		mkBlock(t, block.NumMeasEpoch, 1),
		mkBlock(t, block.NumGPSNav, 2),
		mkBlock(t, block.NumMeasEpoch, 3),
	)

	for _, name := range []string{"log.sbf", "log.sbf.gz", "log.sbf.zst", "log.sbf.lz4"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, s.WriteFile(path))

			loaded, err := Load(path, ReadWrite)
			require.NoError(t, err)
			require.Equal(t, s.BlockCount(), loaded.BlockCount())
			require.Equal(t, times(s), times(loaded))
		})
	}
}

func TestLoadResyncsOnGarbage(t *testing.T) {
	b1 := mkBlock(t, block.NumMeasEpoch, 1)
	b2 := mkBlock(t, block.NumMeasEpoch, 2)

	raw := []byte("garbage prefix")
	raw = append(raw, b1.Bytes()...)
	raw = append(raw, 0xFF, 0x00, '$')
	raw = append(raw, b2.Bytes()...)

	path := filepath.Join(t.TempDir(), "noisy.sbf")
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	s, err := Load(path, ReadWrite)
	require.NoError(t, err)
	require.Equal(t, 2, s.BlockCount())
	require.Equal(t, []float64{1, 2}, times(s))
}

func TestLoadKeepsCorruptBlocks(t *testing.T) {
	good := mkBlock(t, block.NumMeasEpoch, 1)
	bad := mkBlock(t, block.NumMeasEpoch, 2)

	raw := append([]byte{}, good.Bytes()...)
	raw = append(raw, corrupt(bad)...)

	path := filepath.Join(t.TempDir(), "corrupt.sbf")
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	s, err := Load(path, ReadWrite)
	require.NoError(t, err)
	require.Equal(t, 2, s.BlockCount())

	// Plain reads see only the valid block.
	_, err = s.NextBlock()
	require.NoError(t, err)
	_, err = s.NextBlock()
	require.ErrorIs(t, err, errs.ErrEndOfStream)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.sbf"), ReadWrite)
		require.ErrorIs(t, err, errs.ErrFileOpen)
	})

	t.Run("no blocks at all", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "noise.sbf")
		require.NoError(t, os.WriteFile(path, []byte("no sync pattern here"), 0o644))

		_, err := Load(path, ReadWrite)
		require.ErrorIs(t, err, errs.ErrInvalidFile)
	})

	t.Run("truncated gzip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.sbf.gz")
		require.NoError(t, os.WriteFile(path, []byte{0x1F, 0x8B, 0x01}, 0o644))

		_, err := Load(path, ReadWrite)
		require.ErrorIs(t, err, errs.ErrDecompress)
	})
}

func TestLoadReadOnly(t *testing.T) {
	s := Open()
	fill(t, s, mkBlock(t, block.NumMeasEpoch, 1))

	path := filepath.Join(t.TempDir(), "ro.sbf")
	require.NoError(t, s.WriteFile(path))

	loaded, err := Load(path, ReadOnly)
	require.NoError(t, err)
	require.ErrorIs(t, loaded.Clean(), errs.ErrReadOnly)
	require.ErrorIs(t, loaded.Sample(1, false), errs.ErrReadOnly)
}
