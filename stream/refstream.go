package stream

import (
	"math"

	"go.uber.org/zap"

	"github.com/gnsskit/sbfkit/block"
	"github.com/gnsskit/sbfkit/errs"
)

// refEpochWindow bounds, in seconds, how far a reference epoch may lie
// from the nearest epoch of the destination stream and still produce
// corrections.
const refEpochWindow = 300

// RTCMVersion selects the differential-correction encoding. Exactly
// one version drives an insertion; the v2 and v3 message masks are
// mutually exclusive.
type RTCMVersion uint8

const (
	RTCMv2 RTCMVersion = 2
	RTCMv3 RTCMVersion = 3
)

// RTCM message mask halves. v2 message types occupy the low half, v3
// types the high half, so a mask can be checked against the stated
// version.
const (
	RTCMv2Mask uint32 = 0x0000FFFF
	RTCMv3Mask uint32 = 0xFFFF0000
)

// RefOption tunes InsertReferenceStream.
type RefOption uint32

const (
	// RefRemoveDiffCorr drops the differential corrections already
	// present in the destination before inserting the new ones.
	RefRemoveDiffCorr RefOption = 1 << iota
)

// PVTExecutor recomputes position solutions over a reference stream
// and derives the differential-correction blocks for one epoch. The
// solver is external; implementations carry their own state.
type PVTExecutor interface {
	// ComputeDiffCorr returns the correction blocks for the reference
	// epoch at t, encoded for the given RTCM version and message mask.
	// An empty result means the epoch produced no corrections.
	ComputeDiffCorr(ref *Stream, t float64, version RTCMVersion, mask uint32) ([]block.Block, error)
}

// LicenseChecker gates licensed operations. The stream observes only
// pass or fail.
type LicenseChecker interface {
	// Validate returns nil when the operation is licensed.
	Validate() error
}

// RefConfig parameterizes InsertReferenceStream.
type RefConfig struct {
	// ReferenceID tags the corrections with the reference station id.
	ReferenceID uint16

	Version RTCMVersion

	// MessageMask selects the RTCM message types to generate. Its
	// bits must belong to the half matching Version.
	MessageMask uint32

	Options RefOption

	PVT     PVTExecutor
	License LicenseChecker
}

// InsertReferenceStream derives differential corrections from a
// reference stream and inserts them into s at matching times.
// Corrections are computed for every reference measurement epoch lying
// within five minutes of any measurement epoch of s. The reference
// stream is not modified.
//
// Returns:
//   - error: errs.ErrNilReference when ref or cfg.PVT is nil,
//     errs.ErrInvalidLicense when the license check fails,
//     errs.ErrInvalidArgument on an unknown version or a message mask
//     crossing into the other version's half,
//     errs.ErrNoDiffCorr (a warning) when no epoch yielded
//     corrections, errs.ErrPVTFailed, errs.ErrReadOnly,
//     errs.ErrCancelled
func (s *Stream) InsertReferenceStream(ref *Stream, cfg RefConfig) error {
	if ref == nil || cfg.PVT == nil {
		return errs.ErrNilReference
	}
	if err := s.writable(); err != nil {
		return err
	}
	if cfg.License != nil {
		if err := cfg.License.Validate(); err != nil {
			return errs.ErrInvalidLicense
		}
	}
	switch cfg.Version {
	case RTCMv2:
		if cfg.MessageMask&RTCMv3Mask != 0 {
			return errs.ErrInvalidArgument
		}
	case RTCMv3:
		if cfg.MessageMask&RTCMv2Mask != 0 {
			return errs.ErrInvalidArgument
		}
	default:
		return errs.ErrInvalidArgument
	}

	if cfg.Options&RefRemoveDiffCorr != 0 {
		if err := s.RemoveBlocks(block.ID(block.NumDiffCorrIn)); err != nil {
			return err
		}
	}

	ownEpochs := s.measEpochTimes()
	if len(ownEpochs) == 0 {
		return errs.ErrNoDiffCorr
	}

	inserted := 0
	refEpochs := ref.measEpochTimes()
	for i, t := range refEpochs {
		if err := s.checkCancel(); err != nil {
			s.mutated()
			return err
		}
		s.report(OpReference, i+1, len(refEpochs))

		if !nearAnyEpoch(ownEpochs, t, refEpochWindow) {
			continue
		}
		corr, err := cfg.PVT.ComputeDiffCorr(ref, t, cfg.Version, cfg.MessageMask)
		if err != nil {
			s.mutated()
			return errs.ErrPVTFailed
		}
		for _, b := range corr {
			s.insert(b)
			inserted++
		}
	}
	s.mutated()
	s.logger.Debug("reference stream inserted",
		zap.Uint16("reference_id", cfg.ReferenceID),
		zap.Int("corrections", inserted),
	)

	if inserted == 0 {
		return errs.ErrNoDiffCorr
	}

	return nil
}

// measEpochTimes lists the distinct timed measurement epochs, in
// stream order. The cursor is not moved.
func (s *Stream) measEpochTimes() []float64 {
	var epochs []float64
	for _, b := range s.blocks {
		if b.Number() != block.NumMeasEpoch {
			continue
		}
		t := b.GnssTime()
		if !block.IsTimeValid(t) {
			continue
		}
		if n := len(epochs); n > 0 && math.Abs(epochs[n-1]-t) <= epochTolerance {
			continue
		}
		epochs = append(epochs, t)
	}

	return epochs
}

// nearAnyEpoch reports whether t lies within window seconds of any
// epoch. Epochs are in ascending order.
func nearAnyEpoch(epochs []float64, t, window float64) bool {
	lo, hi := 0, len(epochs)
	for lo < hi {
		mid := (lo + hi) / 2
		if epochs[mid] < t {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(epochs) && epochs[lo]-t <= window {
		return true
	}
	if lo > 0 && t-epochs[lo-1] <= window {
		return true
	}

	return false
}
