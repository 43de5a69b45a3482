package stream

import (
	"sync/atomic"

	"github.com/gnsskit/sbfkit/errs"
)

// Operation identifies one long-running entry point for progress
// subscription. The values form a bitmask so callers can silence
// progress from operations nested inside larger ones.
type Operation uint32

const (
	OpLoad Operation = 1 << iota
	OpWrite
	OpCrop
	OpFilter
	OpSample
	OpMerge
	OpReference
	OpCommands
	OpEndOfBlocks

	// OpAll subscribes to every operation.
	OpAll Operation = 0xFFFFFFFF
)

// ProgressFunc receives synchronous progress reports: the running
// operation and its completion percentage in [0, 100].
type ProgressFunc func(op Operation, percent int)

// Token is a caller-owned cooperative cancellation flag. Long stream
// operations poll it at block granularity; setting it makes them abort
// with errs.ErrCancelled. A Token may be shared between streams and
// set from another goroutine.
type Token struct {
	flag atomic.Bool
}

// Cancel raises the flag.
func (t *Token) Cancel() { t.flag.Store(true) }

// Reset lowers the flag so the token can be reused.
func (t *Token) Reset() { t.flag.Store(false) }

// Cancelled reports whether the flag is raised.
func (t *Token) Cancelled() bool { return t.flag.Load() }

// BindCancel attaches a cancellation token to the stream. A nil token
// detaches.
func (s *Stream) BindCancel(t *Token) { s.cancel = t }

// Cancelled reports whether the bound token is raised.
func (s *Stream) Cancelled() bool {
	return s.cancel != nil && s.cancel.Cancelled()
}

// SetProgressFunc registers the progress callback. A nil callback
// unregisters.
func (s *Stream) SetProgressFunc(fn ProgressFunc) { s.progressFn = fn }

// Subscribe adds ops to the progress subscription mask.
func (s *Stream) Subscribe(ops Operation) { s.progressMask |= ops }

// Unsubscribe removes ops from the progress subscription mask.
func (s *Stream) Unsubscribe(ops Operation) { s.progressMask &^= ops }

// IsSubscribed reports whether every operation in ops is subscribed.
func (s *Stream) IsSubscribed(ops Operation) bool {
	return s.progressMask&ops == ops
}

// checkCancel is the per-block poll point of long operations.
func (s *Stream) checkCancel() error {
	if s.Cancelled() {
		return errs.ErrCancelled
	}

	return nil
}

// report invokes the progress callback when op is subscribed. done and
// total are in whatever unit the operation counts; total 0 reports
// nothing.
func (s *Stream) report(op Operation, done, total int) {
	if s.progressFn == nil || !s.IsSubscribed(op) || total <= 0 {
		return
	}

	percent := done * 100 / total
	if percent > 100 {
		percent = 100
	}
	s.progressFn(op, percent)
}
