// Package stream implements the editable SBF block stream: an ordered,
// exclusively-owned sequence of blocks with a byte-addressed cursor,
// loaded from or written to (optionally compressed) files, and mutated
// in place by time-range and composition operations.
//
// A Stream is not safe for concurrent mutation. Callers serialize
// access to one Stream and may only parallelize across independent
// Streams. Long operations poll a caller-owned cancellation Token at
// block granularity and report progress through a subscribable
// callback; a cancelled operation aborts with errs.ErrCancelled
// leaving the stream partially modified but structurally valid.
package stream
