// Package sbfkit loads, edits, filters, merges and re-emits SBF
// streams: files of variable-length, CRC-protected, time-stamped
// binary blocks produced by GNSS receivers.
//
// # Core Features
//
//   - Block-level access with CRC validation and GNSS timestamps
//   - Transparent gzip, zstd and lz4 file compression
//   - Time-range editing: crop, filter, sample, with navigation
//     applicability windows
//   - Multi-stream merge and reference-stream insertion
//   - Embedded receiver command messages
//   - Cooperative cancellation and progress reporting
//
// # Basic Usage
//
// Cropping a log to one interval and writing it back:
//
//	import "github.com/gnsskit/sbfkit"
//
//	s, _ := sbfkit.Load("rover.sbf", sbfkit.ReadWrite)
//	first, last, _ := s.Interval()
//	_ = s.CropGnss(first+60, last-60, 0)
//	_ = s.WriteFile("cropped.sbf.gz")
//
// Merging two logs time-ordered:
//
//	a, _ := sbfkit.Load("rover.sbf", sbfkit.ReadOnly)
//	b, _ := sbfkit.Load("base.sbf", sbfkit.ReadOnly)
//	dst := sbfkit.Open()
//	_ = dst.Merge(a, b, sbfkit.CategoryAny, sbfkit.CategoryAny)
//
// # Package Structure
//
// This package re-exports the common entry points of the stream
// package. For block-level codecs use the block package, for the
// receiver command wire format the cmdmsg package, and for the packed
// status codes the errs package.
package sbfkit

import (
	"github.com/gnsskit/sbfkit/block"
	"github.com/gnsskit/sbfkit/stream"
)

// Stream re-exports the editable block stream.
type Stream = stream.Stream

// Session re-exports the per-run configuration object.
type Session = stream.Session

// Load modes.
const (
	ReadWrite = stream.ReadWrite
	ReadOnly  = stream.ReadOnly
)

// CategoryAny selects every block category in merges.
const CategoryAny = block.CategoryAny

// Open creates an empty read-write stream.
func Open() *Stream {
	return stream.Open()
}

// Load reads an SBF file, decompressing transparently.
func Load(path string, mode stream.Mode) (*Stream, error) {
	return stream.Load(path, mode)
}

// NewSession creates a session carrying logging, identity and the
// handle registry for one processing run.
func NewSession(opts ...stream.SessionOption) *Session {
	return stream.NewSession(opts...)
}
