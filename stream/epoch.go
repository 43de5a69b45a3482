package stream

import (
	"math"

	"github.com/gnsskit/sbfkit/block"
	"github.com/gnsskit/sbfkit/endian"
	"github.com/gnsskit/sbfkit/errs"
)

// InsertEndOfBlocks inserts the synthetic end-of-epoch markers: after
// the last measurement, PVT and attitude block of each epoch group the
// matching EndOfMeas, EndOfPVT or EndOfAtt block is added, unless the
// epoch already carries it.
//
// Returns:
//   - error: errs.ErrStreamEmpty (a warning) on an empty stream,
//     errs.ErrReadOnly, errs.ErrCancelled
func (s *Stream) InsertEndOfBlocks() error {
	if err := s.writable(); err != nil {
		return err
	}
	if s.IsEmpty() {
		return errs.ErrStreamEmpty
	}

	markers := []struct {
		category block.Category
		num      uint16
	}{
		{block.CategoryMeasurement, block.NumEndOfMeas},
		{block.CategoryPVT, block.NumEndOfPVT},
		{block.CategoryAttitude, block.NumEndOfAtt},
	}

	out := make([]block.Block, 0, len(s.blocks))
	total := len(s.blocks)
	for start := 0; start < len(s.blocks); {
		if err := s.checkCancel(); err != nil {
			s.blocks = append(out, s.blocks[start:]...)
			s.cursor = 0
			s.mutated()

			return err
		}

		// One epoch group: consecutive blocks sharing a timestamp,
		// untimed blocks riding along.
		t := s.blocks[start].GnssTime()
		end := start + 1
		for end < len(s.blocks) {
			et := s.blocks[end].GnssTime()
			if block.IsTimeValid(et) && (!block.IsTimeValid(t) || math.Abs(et-t) > epochTolerance) {
				break
			}
			if !block.IsTimeValid(t) {
				t = et
			}
			end++
		}

		group := s.blocks[start:end]
		out = append(out, group...)
		if block.IsTimeValid(t) {
			for _, m := range markers {
				if !groupNeedsMarker(group, m.category, m.num) {
					continue
				}
				tow, wnc := block.SplitGnssTime(t)
				marker, err := block.New(block.ID(m.num), tow, wnc, nil)
				if err != nil {
					return err
				}
				out = append(out, marker)
			}
		}
		s.report(OpEndOfBlocks, end, total)
		start = end
	}

	s.blocks = out
	s.cursor = 0
	s.mutated()

	return nil
}

// groupNeedsMarker reports whether the epoch group holds blocks of the
// category but not yet its end marker.
func groupNeedsMarker(group []block.Block, cat block.Category, marker uint16) bool {
	found := false
	for _, b := range group {
		if b.Number() == marker {
			return false
		}
		if b.Category()&cat != 0 {
			found = true
		}
	}

	return found
}

// Layout of the GPSUtc body after the time fields: A1 f32, A0 f64,
// t_ot u32, WN_t u16, DEL_t_LS i8, pad.
const (
	gpsUtcPayloadSize = 20
	gpsUtcLeapOffset  = 18 // within the payload
)

// SetGpsUtcBlock sets the GPS-UTC leap second carried by the stream.
// Without a valid timestamp the first existing GPSUtc block is
// rewritten in place; with one, a new block is inserted at t, after
// removing every existing GPSUtc block when removeExisting is set.
//
// Parameters:
//   - leapSecond: GPS-UTC offset in seconds
//   - t: Insertion time, or block.TimeNotValid to rewrite in place
//   - removeExisting: Drop existing GPSUtc blocks before inserting
//
// Returns:
//   - error: errs.ErrBlockNotFound when rewriting in place and no
//     GPSUtc block exists, errs.ErrInvalidBlock when the existing
//     block's body is too short to carry the offset, errs.ErrReadOnly
func (s *Stream) SetGpsUtcBlock(leapSecond int8, t float64, removeExisting bool) error {
	if err := s.writable(); err != nil {
		return err
	}

	if !block.IsTimeValid(t) {
		for i, b := range s.blocks {
			if b.Number() != block.NumGPSUtc {
				continue
			}
			if len(b.Body()) < 6+gpsUtcPayloadSize {
				return errs.ErrInvalidBlock
			}

			payload := make([]byte, len(b.Body())-6)
			copy(payload, b.Body()[6:])
			payload[gpsUtcLeapOffset] = byte(leapSecond)
			tow, _ := b.TOW()
			wnc, _ := b.WNc()
			nb, err := block.New(b.ID(), tow, wnc, payload)
			if err != nil {
				return err
			}
			s.blocks[i] = nb
			s.mutated()

			return nil
		}

		return errs.ErrBlockNotFound
	}

	if removeExisting {
		if err := s.RemoveBlocks(block.ID(block.NumGPSUtc)); err != nil {
			return err
		}
	}

	payload := make([]byte, gpsUtcPayloadSize)
	tow, wnc := block.SplitGnssTime(t)
	endian.Receiver().PutUint32(payload[12:16], tow/1000)
	endian.Receiver().PutUint16(payload[16:18], wnc)
	payload[gpsUtcLeapOffset] = byte(leapSecond)
	nb, err := block.New(block.ID(block.NumGPSUtc), tow, wnc, payload)
	if err != nil {
		return err
	}
	s.insert(nb)
	s.mutated()

	return nil
}
