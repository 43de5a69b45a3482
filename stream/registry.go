package stream

import (
	"sync"

	"github.com/gnsskit/sbfkit/errs"
)

// Handle names one registered stream. The low half indexes a registry
// slot, the high half carries the slot's generation, so a handle kept
// across a Close can never resolve to a stream that reused the slot.
type Handle uint64

func makeHandle(index, gen uint32) Handle {
	return Handle(uint64(gen)<<32 | uint64(index))
}

func (h Handle) index() uint32 { return uint32(h) }

func (h Handle) gen() uint32 { return uint32(h >> 32) }

// Registry maps validated handles to owned streams. Lookups of stale
// or never-issued handles fail with errs.ErrInvalidHandle instead of
// reaching a reused slot. A Registry is safe for concurrent use; the
// streams it hands out are not.
type Registry struct {
	mu    sync.Mutex
	slots []registrySlot
	free  []uint32
}

type registrySlot struct {
	stream *Stream
	gen    uint32
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register stores s and issues its handle.
func (r *Registry) Register(s *Stream) (Handle, error) {
	if s == nil {
		return 0, errs.ErrNilReference
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if n := len(r.free); n > 0 {
		idx := r.free[n-1]
		r.free = r.free[:n-1]
		r.slots[idx].stream = s

		return makeHandle(idx, r.slots[idx].gen), nil
	}

	r.slots = append(r.slots, registrySlot{stream: s})

	return makeHandle(uint32(len(r.slots)-1), 0), nil
}

// Lookup resolves a handle to its stream.
//
// Returns:
//   - *Stream: The registered stream
//   - error: errs.ErrInvalidHandle for stale or unknown handles
func (r *Registry) Lookup(h Handle) (*Stream, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := h.index()
	if int(idx) >= len(r.slots) {
		return nil, errs.ErrInvalidHandle
	}
	slot := r.slots[idx]
	if slot.stream == nil || slot.gen != h.gen() {
		return nil, errs.ErrInvalidHandle
	}

	return slot.stream, nil
}

// Close releases a handle. The slot is recycled under a new
// generation, so the closed handle stays invalid forever.
//
// Returns:
//   - error: errs.ErrInvalidHandle for stale or unknown handles
func (r *Registry) Close(h Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := h.index()
	if int(idx) >= len(r.slots) {
		return errs.ErrInvalidHandle
	}
	slot := &r.slots[idx]
	if slot.stream == nil || slot.gen != h.gen() {
		return errs.ErrInvalidHandle
	}

	slot.stream = nil
	slot.gen++
	r.free = append(r.free, idx)

	return nil
}

// Len returns the number of registered streams.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.slots) - len(r.free)
}
