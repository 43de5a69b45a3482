// Package errs defines the packed status codes used throughout sbfkit.
//
// Every fallible operation in this module reports its outcome as a
// 32-bit status word laid out as:
//
//	 3 3 2 2 2 2 2 2 2 2 2 2 1 1 1 1 1 1 1 1 1 1
//	 1 0 9 8 7 6 5 4 3 2 1 0 9 8 7 6 5 4 3 2 1 0 9 8 7 6 5 4 3 2 1 0
//	+-+-----------------------------+---------------+-+-------------+
//	|S|            Module           |    Submodule  |G|   Code      |
//	+-+-----------------------------+---------------+-+-------------+
//
// where S is the severity bit (0 = success/warning, 1 = failure),
// G marks codes shared across modules, and Code identifies the
// condition. A zero word means unqualified success; a word with
// severity 0 and a nonzero code is a warning the caller may treat as
// success-with-caveat (end of stream, empty stream, skipped invalid
// block, ...).
//
// Code implements the error interface, so the usual Go conventions
// hold: functions return nil on success, sentinel values such as
// ErrEndOfStream or ErrInvalidBlock otherwise, and callers match them
// with errors.Is. Use IsWarning to distinguish advisory conditions
// from hard failures, and CodeOf to recover the packed word from any
// error, including nil.
package errs
