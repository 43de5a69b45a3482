package stream

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gnsskit/sbfkit/block"
	"github.com/gnsskit/sbfkit/errs"
)

// fakePVT derives one DiffCorrIn block per requested epoch.
type fakePVT struct {
	epochs []float64
	fail   bool
}

func (p *fakePVT) ComputeDiffCorr(ref *Stream, t float64, version RTCMVersion, mask uint32) ([]block.Block, error) {
	if p.fail {
		return nil, errs.ErrUnexpected
	}
	p.epochs = append(p.epochs, t)

	tow, wnc := block.SplitGnssTime(t)
	b, err := block.New(block.ID(block.NumDiffCorrIn), tow, wnc, []byte{byte(version), 0, 0, 0})
	if err != nil {
		return nil, err
	}

	return []block.Block{b}, nil
}

type fakeLicense struct{ err error }

func (l fakeLicense) Validate() error { return l.err }

func refStreams(t *testing.T) (*Stream, *Stream) {
	t.Helper()

	dst := Open()
	fill(t, dst,
		mkBlock(t, block.NumMeasEpoch, 1000),
		mkBlock(t, block.NumMeasEpoch, 1010),
	)

	ref := Open()
	fill(t, ref,
		mkBlock(t, block.NumMeasEpoch, 1005),
		// Far outside the five minute window of any dst epoch.
		mkBlock(t, block.NumMeasEpoch, 2000),
	)

	return dst, ref
}

func TestInsertReferenceStream(t *testing.T) {
	dst, ref := refStreams(t)
	pvt := &fakePVT{}

	err := dst.InsertReferenceStream(ref, RefConfig{
		ReferenceID: 42,
		Version:     RTCMv3,
		MessageMask: RTCMv3Mask,
		PVT:         pvt,
	})
	require.NoError(t, err)

	// Only the in-window reference epoch produced corrections.
	require.Len(t, pvt.epochs, 1)
	require.InDelta(t, baseTime+1005, pvt.epochs[0], 1e-3)
	require.Equal(t, []float64{1000, 1005, 1010}, times(dst))
	require.Equal(t, block.NumDiffCorrIn, dst.blockAt(1).Number())
}

func TestInsertReferenceStreamLicenseGate(t *testing.T) {
	dst, ref := refStreams(t)

	err := dst.InsertReferenceStream(ref, RefConfig{
		Version:     RTCMv3,
		MessageMask: RTCMv3Mask,
		PVT:         &fakePVT{},
		License:     fakeLicense{err: errs.ErrInvalidLicense},
	})
	require.ErrorIs(t, err, errs.ErrInvalidLicense)
	require.Equal(t, 2, dst.BlockCount())
}

func TestInsertReferenceStreamMaskExclusivity(t *testing.T) {
	dst, ref := refStreams(t)

	tests := []struct {
		name    string
		version RTCMVersion
		mask    uint32
	}{
		{"v2 mask with v3 bits", RTCMv2, 0x00010001},
		{"v3 mask with v2 bits", RTCMv3, 0x00010001},
		{"unknown version", RTCMVersion(4), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := dst.InsertReferenceStream(ref, RefConfig{
				Version:     tt.version,
				MessageMask: tt.mask,
				PVT:         &fakePVT{},
			})
			require.ErrorIs(t, err, errs.ErrInvalidArgument)
		})
	}
}

func TestInsertReferenceStreamRemoveDiffCorr(t *testing.T) {
	dst, ref := refStreams(t)
	stale, err := block.New(block.ID(block.NumDiffCorrIn), block.TOWNotValid, block.WNcNotValid, []byte{1, 2})
	require.NoError(t, err)
	require.NoError(t, dst.AppendBlock(stale.Bytes()))

	require.NoError(t, dst.InsertReferenceStream(ref, RefConfig{
		Version:     RTCMv2,
		MessageMask: RTCMv2Mask,
		Options:     RefRemoveDiffCorr,
		PVT:         &fakePVT{},
	}))

	// The stale correction is gone, the fresh one inserted.
	var count int
	for i := 0; i < dst.BlockCount(); i++ {
		if dst.blockAt(i).Number() == block.NumDiffCorrIn {
			count++
		}
	}
	require.Equal(t, 1, count)
}

func TestInsertReferenceStreamNoCorrections(t *testing.T) {
	dst := Open()
	fill(t, dst, mkBlock(t, block.NumMeasEpoch, 0))
	ref := Open()
	fill(t, ref, mkBlock(t, block.NumMeasEpoch, 100000))

	err := dst.InsertReferenceStream(ref, RefConfig{
		Version:     RTCMv3,
		MessageMask: RTCMv3Mask,
		PVT:         &fakePVT{},
	})
	require.ErrorIs(t, err, errs.ErrNoDiffCorr)
	require.True(t, errs.IsWarning(err))
}

func TestInsertReferenceStreamPVTFailure(t *testing.T) {
	dst, ref := refStreams(t)

	err := dst.InsertReferenceStream(ref, RefConfig{
		Version:     RTCMv3,
		MessageMask: RTCMv3Mask,
		PVT:         &fakePVT{fail: true},
	})
	require.ErrorIs(t, err, errs.ErrPVTFailed)
}

func TestInsertReferenceStreamNilArguments(t *testing.T) {
	dst, ref := refStreams(t)

	require.ErrorIs(t, dst.InsertReferenceStream(nil, RefConfig{PVT: &fakePVT{}}), errs.ErrNilReference)
	require.ErrorIs(t, dst.InsertReferenceStream(ref, RefConfig{}), errs.ErrNilReference)
}
