package stream

import (
	"time"

	"go.uber.org/zap"

	"github.com/gnsskit/sbfkit/block"
	"github.com/gnsskit/sbfkit/errs"
)

// Mode controls whether a loaded stream accepts mutation.
type Mode uint8

const (
	ReadWrite Mode = iota
	ReadOnly
)

// LeapSecondNotSet is the sentinel for an absent leap-second override.
const LeapSecondNotSet int8 = -128

// Stream is an ordered block sequence with a cursor and a single-slot
// bookmark. The zero value is not usable; create streams with Open or
// Load.
type Stream struct {
	blocks []block.Block
	cursor int // block index of the next block to return
	mode   Mode

	// generation counts structural mutations. A bookmark taken before
	// a mutation is stale and cannot be restored.
	generation uint64
	bookmark   int
	bookmarkAt uint64
	bookmarked bool

	// Real-time playback state, see WaitOnNextBlock.
	wait       bool
	waitFactor float64
	lastTime   float64
	lastReturn time.Time

	// stride is the extra block count skipped by each "get next" call,
	// see SetNextBlockOffset.
	stride int

	refAntenna   string
	refPosition  [3]float64
	refPosSet    bool
	refOffset    [3]float64
	refOffsetSet bool

	leapSecond int8
	leapOnce   bool

	cancel       *Token
	progressMask Operation
	progressFn   ProgressFunc

	logger *zap.Logger
}

// Open creates an empty read-write stream.
func Open() *Stream {
	return &Stream{
		waitFactor: 1,
		leapSecond: LeapSecondNotSet,
		logger:     zap.NewNop(),
	}
}

// Clean truncates the stream to empty. The stream stays usable and
// keeps its metadata; the cursor and bookmark are reset.
func (s *Stream) Clean() error {
	if err := s.writable(); err != nil {
		return err
	}

	s.blocks = s.blocks[:0]
	s.cursor = 0
	s.bookmarked = false
	s.mutated()

	return nil
}

// Copy deep-duplicates src into s, blocks and metadata both.
//
// Returns:
//   - error: errs.ErrStreamNotEmpty when s already holds blocks,
//     errs.ErrNilReference when src is nil
func (s *Stream) Copy(src *Stream) error {
	if src == nil {
		return errs.ErrNilReference
	}
	if err := s.writable(); err != nil {
		return err
	}
	if len(s.blocks) != 0 {
		return errs.ErrStreamNotEmpty
	}

	s.blocks = make([]block.Block, len(src.blocks))
	for i, b := range src.blocks {
		s.blocks[i] = block.FromRaw(b.Bytes())
	}

	s.refAntenna = src.refAntenna
	s.refPosition = src.refPosition
	s.refPosSet = src.refPosSet
	s.refOffset = src.refOffset
	s.refOffsetSet = src.refOffsetSet
	s.leapSecond = src.leapSecond
	s.leapOnce = src.leapOnce
	s.cursor = 0
	s.mutated()

	return nil
}

// Rewind moves the cursor to the start of the stream.
func (s *Stream) Rewind() { s.cursor = 0 }

// Forward moves the cursor past the last block.
func (s *Stream) Forward() { s.cursor = len(s.blocks) }

// PositionSave stores the current cursor in the single-slot bookmark.
func (s *Stream) PositionSave() {
	s.bookmark = s.cursor
	s.bookmarkAt = s.generation
	s.bookmarked = true
}

// PositionRestore moves the cursor back to the bookmark.
//
// Returns:
//   - error: errs.ErrWrongState when no bookmark is set or the stream
//     was structurally mutated after PositionSave
func (s *Stream) PositionRestore() error {
	if !s.bookmarked || s.bookmarkAt != s.generation {
		return errs.ErrWrongState
	}

	s.cursor = s.bookmark

	return nil
}

// Size returns the total encoded size of the stream in bytes.
func (s *Stream) Size() int {
	var n int
	for _, b := range s.blocks {
		n += b.Size()
	}

	return n
}

// Position returns the byte offset of the cursor.
func (s *Stream) Position() int {
	var n int
	for _, b := range s.blocks[:s.cursor] {
		n += b.Size()
	}

	return n
}

// SetPosition moves the cursor to the given byte offset. An offset
// inside a block snaps forward to the next block boundary.
//
// Returns:
//   - error: errs.ErrOutOfRange when offset is negative or past the
//     end of the stream
func (s *Stream) SetPosition(offset int) error {
	if offset < 0 || offset > s.Size() {
		return errs.ErrOutOfRange
	}

	var at int
	for i, b := range s.blocks {
		if at >= offset {
			s.cursor = i
			return nil
		}
		at += b.Size()
	}
	s.cursor = len(s.blocks)

	return nil
}

// BlockCount returns the number of blocks held, valid or not.
func (s *Stream) BlockCount() int { return len(s.blocks) }

// IsEmpty reports whether the stream holds no blocks.
func (s *Stream) IsEmpty() bool { return len(s.blocks) == 0 }

// SetReferenceAntenna records the reference antenna name.
func (s *Stream) SetReferenceAntenna(name string) { s.refAntenna = name }

// ReferenceAntenna returns the reference antenna name, empty when
// unset.
func (s *Stream) ReferenceAntenna() string { return s.refAntenna }

// SetReferencePosition records the reference ECEF position in meters.
func (s *Stream) SetReferencePosition(x, y, z float64) {
	s.refPosition = [3]float64{x, y, z}
	s.refPosSet = true
}

// ReferencePosition returns the reference ECEF position and whether
// one was set.
func (s *Stream) ReferencePosition() ([3]float64, bool) {
	return s.refPosition, s.refPosSet
}

// SetReferenceOffset records the reference antenna offset in meters.
func (s *Stream) SetReferenceOffset(dx, dy, dz float64) {
	s.refOffset = [3]float64{dx, dy, dz}
	s.refOffsetSet = true
}

// ReferenceOffset returns the reference antenna offset and whether one
// was set.
func (s *Stream) ReferenceOffset() ([3]float64, bool) {
	return s.refOffset, s.refOffsetSet
}

// SetLeapSecond overrides the GPS-UTC leap second used when writing
// derived blocks. once limits the override to the next use.
func (s *Stream) SetLeapSecond(leap int8, once bool) {
	s.leapSecond = leap
	s.leapOnce = once
}

// LeapSecond returns the override and whether one is set.
func (s *Stream) LeapSecond() (int8, bool) {
	return s.leapSecond, s.leapSecond != LeapSecondNotSet
}

// SetLogger attaches a logger for operation logging. A nil logger
// silences the stream.
func (s *Stream) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s.logger = logger
}

// writable rejects mutation of read-only streams.
func (s *Stream) writable() error {
	if s.mode == ReadOnly {
		return errs.ErrReadOnly
	}

	return nil
}

// mutated invalidates bookmarks after a structural change.
func (s *Stream) mutated() { s.generation++ }

// blockAt returns the block at index i.
func (s *Stream) blockAt(i int) block.Block { return s.blocks[i] }
