package stream

import (
	"math"

	"github.com/gnsskit/sbfkit/block"
	"github.com/gnsskit/sbfkit/errs"
)

// AppendBlock validates one encoded block and appends it at the end of
// the stream.
//
// Returns:
//   - error: errs.ErrInvalidBlock on bad framing or CRC,
//     errs.ErrReadOnly
func (s *Stream) AppendBlock(data []byte) error {
	if err := s.writable(); err != nil {
		return err
	}

	b, err := block.Decode(data)
	if err != nil {
		return err
	}

	s.blocks = append(s.blocks, b)
	s.mutated()

	return nil
}

// AppendManyBlocks appends a buffer of pre-validated consecutive
// blocks without checking their CRCs. This is the one unchecked
// mutation, for producers that already guarantee validity; anything
// that does not even frame as a block stops the append.
//
// Returns:
//   - error: errs.ErrInvalidBlock when data does not frame cleanly,
//     errs.ErrReadOnly
func (s *Stream) AppendManyBlocks(data []byte) error {
	if err := s.writable(); err != nil {
		return err
	}

	for at := 0; at < len(data); {
		length, ok := block.FrameInfo(data[at:])
		if !ok {
			return errs.ErrInvalidBlock
		}
		s.blocks = append(s.blocks, block.FromRaw(data[at:at+length]))
		at += length
	}
	s.mutated()

	return nil
}

// InsertBlock places an encoded block immediately before the first
// block with a timestamp strictly larger than t, so equal-time blocks
// keep their insertion order. The block's own timestamp is not
// consulted; with t invalid the block sorts to the front.
//
// Parameters:
//   - t: Insertion time in GNSS seconds
//   - data: One encoded block
//
// Returns:
//   - error: errs.ErrInvalidBlock on bad framing or CRC,
//     errs.ErrReadOnly
func (s *Stream) InsertBlock(t float64, data []byte) error {
	if err := s.writable(); err != nil {
		return err
	}

	b, err := block.Decode(data)
	if err != nil {
		return err
	}
	s.insertAt(t, b)
	s.mutated()

	return nil
}

// insert places b before the first block with a timestamp strictly
// larger than b's own.
func (s *Stream) insert(b block.Block) {
	s.insertAt(b.GnssTime(), b)
}

// insertAt places b before the first block with a timestamp strictly
// larger than t.
func (s *Stream) insertAt(t float64, b block.Block) {
	at := len(s.blocks)
	for i, cur := range s.blocks {
		ct := cur.GnssTime()
		if block.IsTimeValid(ct) && (!block.IsTimeValid(t) || ct > t) {
			at = i
			break
		}
	}

	s.blocks = append(s.blocks, block.Block{})
	copy(s.blocks[at+1:], s.blocks[at:])
	s.blocks[at] = b
}

// RemoveBlocks removes every block selected by id. block.IDAll empties
// the stream. The stream is rewound afterwards.
func (s *Stream) RemoveBlocks(id block.ID) error {
	if err := s.writable(); err != nil {
		return err
	}

	kept := s.blocks[:0]
	for _, b := range s.blocks {
		if !id.Matches(b.ID()) {
			kept = append(kept, b)
		}
	}

	s.blocks = kept
	s.cursor = 0
	s.mutated()

	return nil
}

// RemoveBlockByTime removes the blocks selected by id whose timestamp
// matches t within the epoch tolerance. The stream is rewound
// afterwards.
//
// Returns:
//   - error: errs.ErrBlockNotFound when nothing matched,
//     errs.ErrReadOnly
func (s *Stream) RemoveBlockByTime(id block.ID, t float64) error {
	if err := s.writable(); err != nil {
		return err
	}

	removed := false
	kept := s.blocks[:0]
	for _, b := range s.blocks {
		bt := b.GnssTime()
		if id.Matches(b.ID()) && block.IsTimeValid(bt) && math.Abs(bt-t) <= epochTolerance {
			removed = true
			continue
		}
		kept = append(kept, b)
	}

	s.blocks = kept
	s.cursor = 0
	s.mutated()
	if !removed {
		return errs.ErrBlockNotFound
	}

	return nil
}

// AppendStreamBlocks appends the blocks of src selected by id onto s,
// order preserved. src is not modified.
//
// Returns:
//   - error: errs.ErrNilReference when src is nil, errs.ErrReadOnly,
//     errs.ErrCancelled
func (s *Stream) AppendStreamBlocks(src *Stream, id block.ID) error {
	if src == nil {
		return errs.ErrNilReference
	}
	if err := s.writable(); err != nil {
		return err
	}

	for _, b := range src.blocks {
		if err := s.checkCancel(); err != nil {
			s.mutated()
			return err
		}
		if id.Matches(b.ID()) {
			s.blocks = append(s.blocks, block.FromRaw(b.Bytes()))
		}
	}
	s.mutated()

	return nil
}

// Merge interleaves two input streams into s by ascending timestamp.
// Each category mask independently selects which block families of its
// input take part; blocks without a valid timestamp follow the last
// timed block of their own input. Both inputs are rewound before the
// merge and s is rewound after it. Cancellation leaves s holding a
// time-ordered prefix of the full result.
//
// Returns:
//   - error: errs.ErrNilReference when an input is nil,
//     errs.ErrStreamNotEmpty when s already holds blocks,
//     errs.ErrReadOnly, errs.ErrCancelled
func (s *Stream) Merge(a, b *Stream, maskA, maskB block.Category) error {
	if a == nil || b == nil {
		return errs.ErrNilReference
	}
	if err := s.writable(); err != nil {
		return err
	}
	if !s.IsEmpty() {
		return errs.ErrStreamNotEmpty
	}

	a.Rewind()
	b.Rewind()

	ia, ib := 0, 0
	ta, tb := block.TimeNotValid, block.TimeNotValid
	total := len(a.blocks) + len(b.blocks)
	for ia < len(a.blocks) || ib < len(b.blocks) {
		if err := s.checkCancel(); err != nil {
			s.cursor = 0
			s.mutated()

			return err
		}
		s.report(OpMerge, ia+ib, total)

		// Track each input's running timestamp so untimed blocks sort
		// with their neighbourhood.
		if ia < len(a.blocks) {
			if t := a.blocks[ia].GnssTime(); block.IsTimeValid(t) {
				ta = t
			}
		}
		if ib < len(b.blocks) {
			if t := b.blocks[ib].GnssTime(); block.IsTimeValid(t) {
				tb = t
			}
		}

		var src *Stream
		var idx *int
		var mask block.Category
		switch {
		case ib >= len(b.blocks):
			src, idx, mask = a, &ia, maskA
		case ia >= len(a.blocks):
			src, idx, mask = b, &ib, maskB
		case !block.IsTimeValid(tb) || (block.IsTimeValid(ta) && ta <= tb):
			src, idx, mask = a, &ia, maskA
		default:
			src, idx, mask = b, &ib, maskB
		}

		blk := src.blocks[*idx]
		*idx++
		if blk.Category()&mask != 0 {
			s.blocks = append(s.blocks, block.FromRaw(blk.Bytes()))
		}
	}

	s.cursor = 0
	s.mutated()

	return nil
}
