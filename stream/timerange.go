package stream

import (
	"math"

	"github.com/gnsskit/sbfkit/block"
	"github.com/gnsskit/sbfkit/errs"
)

// RangeOption tunes the crop and filter operations.
type RangeOption uint32

const (
	// RangeDiscardApplicability drops navigation blocks whose nominal
	// timestamp is outside the kept range even when their
	// applicability window overlaps it.
	RangeDiscardApplicability RangeOption = 1 << iota

	// RangeDiscardInvalidTime drops blocks without a valid timestamp
	// instead of letting them follow their neighbourhood.
	RangeDiscardInvalidTime
)

// epochTolerance absorbs millisecond rounding when comparing epoch
// timestamps.
const epochTolerance = 0.0005

// timeOfFunc extracts the comparable timestamp of a block: full GNSS
// time, or raw time-of-week for week-ambiguous operations.
type timeOfFunc func(block.Block) (float64, bool)

func gnssTimeOf(b block.Block) (float64, bool) {
	t := b.GnssTime()

	return t, block.IsTimeValid(t)
}

func towTimeOf(b block.Block) (float64, bool) {
	return b.TowSeconds()
}

// CropGnss keeps only the first interval matching [start, end]: from
// the first block with time at or after start through the first later
// epoch with time at or after end, that end epoch included. A
// repeating time pattern past the kept interval is dropped; use
// FilterGnss to keep every match. Navigation blocks whose
// applicability window overlaps the kept range survive regardless of
// nominal timestamp and blocks without a valid timestamp follow their
// neighbourhood, each unless the matching RangeOption discards them.
// The stream is rewound afterwards.
//
// Returns:
//   - error: errs.ErrStreamEmpty (a warning) on an empty stream,
//     errs.ErrTimeOutOfRange (a warning) when nothing matches,
//     errs.ErrReadOnly, errs.ErrCancelled
func (s *Stream) CropGnss(start, end float64, opts RangeOption) error {
	return s.crop(gnssTimeOf, start, end, opts)
}

// CropTow is the week-ambiguous form of CropGnss. When both week
// numbers are valid the bounds are converted to GNSS time and CropGnss
// applies; otherwise blocks are compared on raw time-of-week only,
// which wraps at week boundaries.
func (s *Stream) CropTow(startTow uint32, startWnc uint16, endTow uint32, endWnc uint16, opts RangeOption) error {
	if startWnc != block.WNcNotValid && endWnc != block.WNcNotValid {
		return s.crop(gnssTimeOf, block.GnssTimeOf(startTow, startWnc), block.GnssTimeOf(endTow, endWnc), opts)
	}

	return s.crop(towTimeOf, float64(startTow)/1000, float64(endTow)/1000, opts)
}

func (s *Stream) crop(timeOf timeOfFunc, start, end float64, opts RangeOption) error {
	if err := s.writable(); err != nil {
		return err
	}
	if s.IsEmpty() {
		return errs.ErrStreamEmpty
	}

	// Pass 1: locate the kept region.
	first, last := -1, -1
	keptLo, keptHi := 0.0, 0.0
	for i, b := range s.blocks {
		t, ok := timeOf(b)
		if !ok {
			continue
		}
		if first < 0 {
			if t >= start {
				first = i
				keptLo = t
				last = i
				keptHi = t
			}

			continue
		}
		if keptHi >= end && t > keptHi+epochTolerance {
			break
		}
		last = i
		keptHi = t
	}
	if first < 0 {
		s.blocks = s.blocks[:0]
		s.cursor = 0
		s.mutated()

		return errs.ErrTimeOutOfRange
	}

	// Pass 2: rebuild, retaining overlapping navigation blocks from
	// outside the region.
	kept := s.blocks[:0]
	for i, b := range s.blocks {
		if err := s.checkCancel(); err != nil {
			s.blocks = kept
			s.cursor = 0
			s.mutated()

			return err
		}
		s.report(OpCrop, i+1, len(s.blocks))

		if i >= first && i <= last {
			if _, ok := timeOf(b); !ok && opts&RangeDiscardInvalidTime != 0 {
				continue
			}
			kept = append(kept, b)

			continue
		}
		if b.IsNavigation() && opts&RangeDiscardApplicability == 0 {
			if a0, a1 := b.Applicability(); block.IsTimeValid(a0) && a0 <= keptHi && a1 >= keptLo {
				kept = append(kept, b)
			}
		}
	}

	s.blocks = kept
	s.cursor = 0
	s.mutated()

	return nil
}

// FilterGnss keeps every block whose timestamp falls inside
// [start, end], however often the range recurs in the stream. This is
// the multi-interval counterpart of CropGnss. Navigation applicability
// and invalid timestamps are treated as in CropGnss. The stream is
// rewound afterwards.
//
// Returns:
//   - error: errs.ErrStreamEmpty (a warning) on an empty stream,
//     errs.ErrReadOnly, errs.ErrCancelled
func (s *Stream) FilterGnss(start, end float64, opts RangeOption) error {
	return s.filter(gnssTimeOf, start, end, opts)
}

// FilterTow is the week-ambiguous form of FilterGnss, converting to
// GNSS time when the week numbers are valid and comparing raw
// time-of-week otherwise.
func (s *Stream) FilterTow(startTow uint32, startWnc uint16, endTow uint32, endWnc uint16, opts RangeOption) error {
	if startWnc != block.WNcNotValid && endWnc != block.WNcNotValid {
		return s.filter(gnssTimeOf, block.GnssTimeOf(startTow, startWnc), block.GnssTimeOf(endTow, endWnc), opts)
	}

	return s.filter(towTimeOf, float64(startTow)/1000, float64(endTow)/1000, opts)
}

func (s *Stream) filter(timeOf timeOfFunc, start, end float64, opts RangeOption) error {
	if err := s.writable(); err != nil {
		return err
	}
	if s.IsEmpty() {
		return errs.ErrStreamEmpty
	}

	kept := s.blocks[:0]
	lastKept := false
	for i, b := range s.blocks {
		if err := s.checkCancel(); err != nil {
			s.blocks = kept
			s.cursor = 0
			s.mutated()

			return err
		}
		s.report(OpFilter, i+1, len(s.blocks))

		t, ok := timeOf(b)
		keep := false
		switch {
		case !ok:
			keep = lastKept && opts&RangeDiscardInvalidTime == 0
		case t >= start && t <= end:
			keep = true
		case b.IsNavigation() && opts&RangeDiscardApplicability == 0:
			a0, a1 := b.Applicability()
			keep = block.IsTimeValid(a0) && a0 <= end && a1 >= start
		}
		if keep {
			kept = append(kept, b)
		}
		if ok {
			lastKept = keep
		}
	}

	s.blocks = kept
	s.cursor = 0
	s.mutated()

	return nil
}

// FilterID keeps only blocks selected by id, unconditionally.
// block.IDAll keeps everything. The stream is rewound afterwards.
func (s *Stream) FilterID(id block.ID) error {
	if err := s.writable(); err != nil {
		return err
	}

	kept := s.blocks[:0]
	for _, b := range s.blocks {
		if id.Matches(b.ID()) {
			kept = append(kept, b)
		}
	}

	s.blocks = kept
	s.cursor = 0
	s.mutated()

	return nil
}

// Interval scans the whole stream and returns the earliest and latest
// valid timestamps. The cursor is not moved.
//
// Returns:
//   - float64: Earliest timestamp, block.TimeNotValid when none
//   - float64: Latest timestamp, block.TimeNotValid when none
//   - error: errs.ErrStreamEmpty (a warning) when no block carries a
//     valid timestamp
func (s *Stream) Interval() (float64, float64, error) {
	first, last := block.TimeNotValid, block.TimeNotValid
	for _, b := range s.blocks {
		t := b.GnssTime()
		if !block.IsTimeValid(t) {
			continue
		}
		if !block.IsTimeValid(first) || t < first {
			first = t
		}
		if !block.IsTimeValid(last) || t > last {
			last = t
		}
	}
	if !block.IsTimeValid(first) {
		return first, last, errs.ErrStreamEmpty
	}

	return first, last, nil
}

// MeasurementsInterval returns the timestamps of the first and last
// measurement epochs, assuming measurement time increases
// monotonically through the stream.
//
// Returns:
//   - float64: First measurement epoch, block.TimeNotValid when none
//   - float64: Last measurement epoch, block.TimeNotValid when none
//   - error: errs.ErrStreamEmpty (a warning) when the stream has no
//     timed measurement epoch
func (s *Stream) MeasurementsInterval() (float64, float64, error) {
	first, last := block.TimeNotValid, block.TimeNotValid
	for _, b := range s.blocks {
		if b.Number() == block.NumMeasEpoch && block.IsTimeValid(b.GnssTime()) {
			first = b.GnssTime()
			break
		}
	}
	for i := len(s.blocks) - 1; i >= 0; i-- {
		b := s.blocks[i]
		if b.Number() == block.NumMeasEpoch && block.IsTimeValid(b.GnssTime()) {
			last = b.GnssTime()
			break
		}
	}
	if !block.IsTimeValid(first) {
		return first, last, errs.ErrStreamEmpty
	}

	return first, last, nil
}

// CountBlocks counts the valid blocks selected by id, from the start
// of the stream when rewindFirst is set and from the cursor otherwise.
// The cursor is not moved.
func (s *Stream) CountBlocks(id block.ID, rewindFirst bool) int {
	from := s.cursor
	if rewindFirst {
		from = 0
	}

	var n int
	for _, b := range s.blocks[from:] {
		if b.CheckValidity() && id.Matches(b.ID()) {
			n++
		}
	}

	return n
}

// FirstOccurrence returns the byte offset of the first block selected
// by id.
//
// Returns:
//   - int: Byte offset of the block
//   - error: errs.ErrBlockNotFound when no block matches
func (s *Stream) FirstOccurrence(id block.ID) (int, error) {
	var at int
	for _, b := range s.blocks {
		if id.Matches(b.ID()) {
			return at, nil
		}
		at += b.Size()
	}

	return 0, errs.ErrBlockNotFound
}

// CommonEpochInterval estimates the nominal epoch interval of the
// blocks selected by id: the statistical mode of the deltas between
// successive distinct timestamps, computed over at most the first 100
// distinct delta values observed. The cursor is not moved.
//
// Returns:
//   - float64: The interval in seconds
//   - error: errs.ErrBlockNotFound when fewer than two distinct
//     epochs exist
func (s *Stream) CommonEpochInterval(id block.ID) (float64, error) {
	counts := make(map[int64]int)
	prev := block.TimeNotValid
	for _, b := range s.blocks {
		if !id.Matches(b.ID()) {
			continue
		}
		t := b.GnssTime()
		if !block.IsTimeValid(t) || (block.IsTimeValid(prev) && math.Abs(t-prev) <= epochTolerance) {
			continue
		}
		if block.IsTimeValid(prev) && t > prev {
			delta := int64(math.Round((t - prev) * 1000))
			if _, seen := counts[delta]; !seen && len(counts) >= 100 {
				break
			}
			counts[delta]++
		}
		prev = t
	}
	if len(counts) == 0 {
		return 0, errs.ErrBlockNotFound
	}

	var best int64
	bestN := -1
	for delta, n := range counts {
		if n > bestN || (n == bestN && delta < best) {
			best = delta
			bestN = n
		}
	}

	return float64(best) / 1000, nil
}

// NextMissingEpoch scans forward from the cursor through the epochs of
// the blocks selected by id and returns the first expected but absent
// epoch time, given the nominal interval. The cursor stops on the
// block after the gap, so repeated calls walk successive gaps.
//
// Returns:
//   - float64: Timestamp of the first missing epoch,
//     block.TimeNotValid when none
//   - error: errs.ErrInvalidRate when interval is not positive,
//     errs.ErrEndOfStream (a warning) when no gap remains
func (s *Stream) NextMissingEpoch(id block.ID, interval float64) (float64, error) {
	if interval <= 0 {
		return block.TimeNotValid, errs.ErrInvalidRate
	}

	prev := block.TimeNotValid
	for i := s.cursor; i < len(s.blocks); i++ {
		b := s.blocks[i]
		if !id.Matches(b.ID()) {
			continue
		}
		t := b.GnssTime()
		if !block.IsTimeValid(t) {
			continue
		}
		if block.IsTimeValid(prev) && t-prev > interval+epochTolerance {
			s.cursor = i

			return prev + interval, nil
		}
		prev = t
	}
	s.cursor = len(s.blocks)

	return block.TimeNotValid, errs.ErrEndOfStream
}

// NextCommonEpochSection advances both streams from their cursors to
// the next maximal run of measurement epochs present in both, and
// reports it. When a run closes on diverging epochs both cursors are
// left on the diverging blocks, so repeated calls walk successive
// shared sections without skipping epochs. The scan can hit
// end-of-stream while a shared run is still open, so callers must
// check the returned count rather than the error alone.
//
// Returns:
//   - float64: First shared epoch of the section
//   - float64: Last shared epoch of the section
//   - int: Number of shared epochs in the section
//   - error: errs.ErrNilReference when other is nil,
//     errs.ErrEndOfStream (a warning) when either stream ran out,
//     possibly with a nonzero count
func (s *Stream) NextCommonEpochSection(other *Stream) (float64, float64, int, error) {
	if other == nil {
		return block.TimeNotValid, block.TimeNotValid, 0, errs.ErrNilReference
	}

	start, end := block.TimeNotValid, block.TimeNotValid
	count := 0
	ta, ia, oka := s.nextMeasEpoch()
	tb, ib, okb := other.nextMeasEpoch()
	for oka && okb {
		switch {
		case math.Abs(ta-tb) <= epochTolerance:
			if count == 0 {
				start = ta
			}
			end = ta
			count++
			ta, ia, oka = s.nextMeasEpoch()
			tb, ib, okb = other.nextMeasEpoch()
		case ta < tb:
			if count > 0 {
				s.cursor = ia
				other.cursor = ib

				return start, end, count, nil
			}
			ta, ia, oka = s.nextMeasEpoch()
		default:
			if count > 0 {
				s.cursor = ia
				other.cursor = ib

				return start, end, count, nil
			}
			tb, ib, okb = other.nextMeasEpoch()
		}
	}

	return start, end, count, errs.ErrEndOfStream
}

// nextMeasEpoch advances the cursor to the next timed measurement
// epoch and returns its timestamp with the block index it came from,
// so callers can put an unconsumed epoch back.
func (s *Stream) nextMeasEpoch() (float64, int, bool) {
	for s.cursor < len(s.blocks) {
		i := s.cursor
		s.cursor++
		if b := s.blocks[i]; b.Number() == block.NumMeasEpoch {
			if t := b.GnssTime(); block.IsTimeValid(t) {
				return t, i, true
			}
		}
	}

	return block.TimeNotValid, len(s.blocks), false
}

// Sample decimates the stream, keeping only blocks whose timestamp is
// a whole multiple of interval. With relative set, the origin of the
// multiples is the delta between the first two valid measurement
// epochs instead of zero. Blocks without a valid timestamp are kept.
// The stream is rewound afterwards.
//
// Returns:
//   - error: errs.ErrInvalidRate when interval is not positive or
//     rounds to zero milliseconds,
//     errs.ErrStreamEmpty (a warning) on an empty stream,
//     errs.ErrReadOnly, errs.ErrCancelled
func (s *Stream) Sample(interval float64, relative bool) error {
	intervalMs := int64(math.Round(interval * 1000))
	if interval <= 0 || intervalMs == 0 {
		return errs.ErrInvalidRate
	}
	if err := s.writable(); err != nil {
		return err
	}
	if s.IsEmpty() {
		return errs.ErrStreamEmpty
	}
	var originMs int64
	if relative {
		first, second := block.TimeNotValid, block.TimeNotValid
		for _, b := range s.blocks {
			if b.Number() != block.NumMeasEpoch || !block.IsTimeValid(b.GnssTime()) {
				continue
			}
			t := b.GnssTime()
			if !block.IsTimeValid(first) {
				first = t
			} else if t > first+epochTolerance {
				second = t
				break
			}
		}
		if block.IsTimeValid(second) {
			originMs = int64(math.Round((second - first) * 1000))
		}
	}

	kept := s.blocks[:0]
	for i, b := range s.blocks {
		if err := s.checkCancel(); err != nil {
			s.blocks = kept
			s.cursor = 0
			s.mutated()

			return err
		}
		s.report(OpSample, i+1, len(s.blocks))

		t := b.GnssTime()
		if !block.IsTimeValid(t) {
			kept = append(kept, b)
			continue
		}
		if (int64(math.Round(t*1000))-originMs)%intervalMs == 0 {
			kept = append(kept, b)
		}
	}

	s.blocks = kept
	s.cursor = 0
	s.mutated()

	return nil
}
