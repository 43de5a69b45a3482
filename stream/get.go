package stream

import (
	"time"

	"github.com/gnsskit/sbfkit/block"
	"github.com/gnsskit/sbfkit/errs"
)

// NextBlock returns the block at the cursor and advances past it.
// CRC-invalid blocks are skipped silently; use NextBlockCRCCheck to be
// told about them. When real-time playback is enabled the call first
// sleeps to reproduce the recorded inter-block timing.
//
// Returns:
//   - block.Block: The next valid block
//   - error: errs.ErrEndOfStream (a warning) past the last block
func (s *Stream) NextBlock() (block.Block, error) {
	b, err := s.nextValid()
	if err != nil {
		return block.Block{}, err
	}

	s.throttle(b)
	s.skipStride()

	return b, nil
}

// NextBlockCRCCheck behaves like NextBlock but reports skipped
// CRC-invalid blocks: the returned block is still the next valid one,
// with errs.ErrInvalidBlockSkipped (a warning) alongside it.
func (s *Stream) NextBlockCRCCheck() (block.Block, error) {
	skipped := false
	for s.cursor < len(s.blocks) {
		b := s.blocks[s.cursor]
		s.cursor++
		if !b.CheckValidity() {
			skipped = true
			continue
		}

		s.throttle(b)
		s.skipStride()
		if skipped {
			return b, errs.ErrInvalidBlockSkipped
		}

		return b, nil
	}

	return block.Block{}, errs.ErrEndOfStream
}

// PrevBlock returns the block before the cursor and moves the cursor
// back onto it. CRC-invalid blocks are skipped silently.
//
// Returns:
//   - block.Block: The previous valid block
//   - error: errs.ErrEndOfStream (a warning) before the first block
func (s *Stream) PrevBlock() (block.Block, error) {
	for s.cursor > 0 {
		s.cursor--
		b := s.blocks[s.cursor]
		if b.CheckValidity() {
			return b, nil
		}
	}

	return block.Block{}, errs.ErrEndOfStream
}

// NextBlockByID returns the next valid block selected by id, skipping
// everything else. block.IDAll matches any block.
func (s *Stream) NextBlockByID(id block.ID) (block.Block, error) {
	for s.cursor < len(s.blocks) {
		b := s.blocks[s.cursor]
		s.cursor++
		if b.CheckValidity() && id.Matches(b.ID()) {
			return b, nil
		}
	}

	return block.Block{}, errs.ErrEndOfStream
}

// PrevBlockByID returns the previous valid block selected by id.
func (s *Stream) PrevBlockByID(id block.ID) (block.Block, error) {
	for s.cursor > 0 {
		s.cursor--
		b := s.blocks[s.cursor]
		if b.CheckValidity() && id.Matches(b.ID()) {
			return b, nil
		}
	}

	return block.Block{}, errs.ErrEndOfStream
}

// NextBlockByGnssTime returns the next valid block with a timestamp at
// or after t, leaving the cursor just past it.
//
// Returns:
//   - block.Block: The first such block at or after the cursor
//   - error: errs.ErrEndOfStream (a warning) when none remains
func (s *Stream) NextBlockByGnssTime(t float64) (block.Block, error) {
	for s.cursor < len(s.blocks) {
		b := s.blocks[s.cursor]
		s.cursor++
		bt := b.GnssTime()
		if b.CheckValidity() && block.IsTimeValid(bt) && bt >= t {
			return b, nil
		}
	}

	return block.Block{}, errs.ErrEndOfStream
}

// WaitOnNextBlock switches real-time playback on or off. While
// enabled, each "get next" call sleeps for the recorded time delta to
// the previous returned block divided by factor, minus whatever time
// the caller already spent between calls. A factor above 1 plays back
// faster than recorded, below 1 slower.
//
// Returns:
//   - error: errs.ErrOutOfRange when factor is outside [0.1, 100]
func (s *Stream) WaitOnNextBlock(enable bool, factor float64) error {
	if enable && (factor < 0.1 || factor > 100) {
		return errs.ErrOutOfRange
	}

	s.wait = enable
	if enable {
		s.waitFactor = factor
	}
	s.lastTime = block.TimeNotValid
	s.lastReturn = time.Time{}

	return nil
}

// SetNextBlockOffset makes each "get next" call skip n additional
// valid blocks after the one it returns, for stride access. n of 0
// restores plain sequential reads.
//
// Returns:
//   - error: errs.ErrInvalidArgument when n is negative
func (s *Stream) SetNextBlockOffset(n int) error {
	if n < 0 {
		return errs.ErrInvalidArgument
	}

	s.stride = n

	return nil
}

// nextValid advances the cursor to just past the next valid block and
// returns it.
func (s *Stream) nextValid() (block.Block, error) {
	for s.cursor < len(s.blocks) {
		b := s.blocks[s.cursor]
		s.cursor++
		if b.CheckValidity() {
			return b, nil
		}
	}

	return block.Block{}, errs.ErrEndOfStream
}

// skipStride consumes the configured stride after a returned block.
func (s *Stream) skipStride() {
	for i := 0; i < s.stride; i++ {
		if _, err := s.nextValid(); err != nil {
			return
		}
	}
}

// throttle sleeps out the recorded delta to the previous returned
// block when real-time playback is enabled.
func (s *Stream) throttle(b block.Block) {
	if !s.wait {
		return
	}

	now := time.Now()
	t := b.GnssTime()
	if block.IsTimeValid(t) && block.IsTimeValid(s.lastTime) && t > s.lastTime {
		target := time.Duration((t - s.lastTime) / s.waitFactor * float64(time.Second))
		if elapsed := now.Sub(s.lastReturn); elapsed < target {
			time.Sleep(target - elapsed)
			now = time.Now()
		}
	}
	if block.IsTimeValid(t) {
		s.lastTime = t
		s.lastReturn = now
	}
}
