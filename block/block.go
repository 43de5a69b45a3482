package block

import (
	"github.com/gnsskit/sbfkit/endian"
	"github.com/gnsskit/sbfkit/errs"
)

const (
	// Sync1 and Sync2 open every block on the wire.
	Sync1 byte = '$'
	Sync2 byte = '@'

	// HeaderSize is the fixed size of the block header.
	HeaderSize = 8

	// MinBlockSize is the smallest encodable block: header plus one
	// four-byte aligned body word.
	MinBlockSize = 12

	// MaxBlockSize bounds a block on the wire, header included.
	MaxBlockSize = 4096

	// timedBodyMin is the body size needed for the TOW/WNc fields.
	timedBodyMin = 6
)

// Do-not-use values for the time fields.
const (
	TOWNotValid uint32 = 0xFFFFFFFF
	WNcNotValid uint16 = 0xFFFF
)

// TimeNotValid is the do-not-use value for GNSS timestamps in
// seconds.
const TimeNotValid float64 = -2e10

// SecondsPerWeek is the length of a GNSS week.
const SecondsPerWeek float64 = 604800

// IsTimeValid reports whether t is an actual timestamp rather than
// the do-not-use value.
func IsTimeValid(t float64) bool { return t != TimeNotValid }

// GnssTimeOf combines a time-of-week in milliseconds and a week
// number into a GNSS timestamp in seconds. Either field at its
// do-not-use value yields TimeNotValid.
func GnssTimeOf(towMillis uint32, wnc uint16) float64 {
	if towMillis == TOWNotValid || wnc == WNcNotValid {
		return TimeNotValid
	}

	return float64(wnc)*SecondsPerWeek + float64(towMillis)/1000
}

// SplitGnssTime splits a GNSS timestamp in seconds into the wire time
// fields. An invalid timestamp yields both do-not-use values.
func SplitGnssTime(t float64) (towMillis uint32, wnc uint16) {
	if !IsTimeValid(t) || t < 0 {
		return TOWNotValid, WNcNotValid
	}

	week := uint16(t / SecondsPerWeek)
	tow := uint32((t-float64(week)*SecondsPerWeek)*1000 + 0.5)

	return tow, week
}

// Block is one SBF block. It wraps the raw encoded bytes; the zero
// value is not a usable block.
type Block struct {
	raw []byte
}

// FrameInfo inspects the start of data for a plausible block header.
//
// Returns:
//   - int: The total encoded length of the framed block
//   - bool: Whether data starts with a plausible header
//
// Plausible means: sync bytes present, length a multiple of four
// within [MinBlockSize, MaxBlockSize], and data long enough to hold
// the whole block. The CRC is not checked.
func FrameInfo(data []byte) (int, bool) {
	if len(data) < HeaderSize || data[0] != Sync1 || data[1] != Sync2 {
		return 0, false
	}

	length := int(endian.Receiver().Uint16(data[6:8]))
	if length < MinBlockSize || length > MaxBlockSize || length%4 != 0 || length > len(data) {
		return 0, false
	}

	return length, true
}

// Decode parses and validates one block at the start of data.
//
// Returns:
//   - Block: The decoded block (input bytes are copied)
//   - error: errs.ErrInvalidBlock on bad framing or CRC mismatch
func Decode(data []byte) (Block, error) {
	length, ok := FrameInfo(data)
	if !ok {
		return Block{}, errs.ErrInvalidBlock
	}

	b := FromRaw(data[:length])
	if !b.CheckValidity() {
		return Block{}, errs.ErrInvalidBlock
	}

	return b, nil
}

// FromRaw wraps exactly one already-framed block without validating
// its CRC. The bytes are copied. Callers are expected to have framed
// the data with FrameInfo.
func FromRaw(data []byte) Block {
	raw := make([]byte, len(data))
	copy(raw, data)

	return Block{raw: raw}
}

// New assembles a block from its parts: identifier, time fields and
// the body payload that follows them. The payload is padded to the
// four-byte alignment the wire format requires and the CRC is
// computed.
//
// Returns:
//   - Block: The assembled block
//   - error: errs.ErrOutOfRange if the result would exceed MaxBlockSize
func New(id ID, towMillis uint32, wnc uint16, payload []byte) (Block, error) {
	body := HeaderSize + timedBodyMin + len(payload)
	length := (body + 3) &^ 3
	if length > MaxBlockSize {
		return Block{}, errs.ErrOutOfRange
	}

	engine := endian.Receiver()
	raw := make([]byte, length)
	raw[0] = Sync1
	raw[1] = Sync2
	engine.PutUint16(raw[4:6], uint16(id))
	engine.PutUint16(raw[6:8], uint16(length))
	engine.PutUint32(raw[8:12], towMillis)
	engine.PutUint16(raw[12:14], wnc)
	copy(raw[14:], payload)
	engine.PutUint16(raw[2:4], crc16(raw[4:]))

	return Block{raw: raw}, nil
}

// Bytes returns the encoded block. The slice is shared with the
// block; callers must not modify it.
func (b Block) Bytes() []byte { return b.raw }

// Size returns the encoded length in bytes.
func (b Block) Size() int { return len(b.raw) }

// ID returns the full identifier field.
func (b Block) ID() ID { return ID(endian.Receiver().Uint16(b.raw[4:6])) }

// Number returns the revision-independent block number.
func (b Block) Number() uint16 { return b.ID().Number() }

// Revision returns the layout revision.
func (b Block) Revision() uint8 { return b.ID().Revision() }

// CRC returns the checksum stored in the header.
func (b Block) CRC() uint16 { return endian.Receiver().Uint16(b.raw[2:4]) }

// Body returns the bytes after the header, shared with the block.
func (b Block) Body() []byte { return b.raw[HeaderSize:] }

// CheckValidity recomputes the CRC and compares it against the header
// field. It never fails; a corrupt block simply reports false.
func (b Block) CheckValidity() bool {
	return len(b.raw) >= HeaderSize && crc16(b.raw[4:]) == b.CRC()
}

// TOW returns the time-of-week field in milliseconds and whether it
// carries an actual value.
func (b Block) TOW() (uint32, bool) {
	if len(b.raw) < HeaderSize+timedBodyMin {
		return TOWNotValid, false
	}
	tow := endian.Receiver().Uint32(b.raw[8:12])

	return tow, tow != TOWNotValid
}

// WNc returns the week number field and whether it carries an actual
// value.
func (b Block) WNc() (uint16, bool) {
	if len(b.raw) < HeaderSize+timedBodyMin {
		return WNcNotValid, false
	}
	wnc := endian.Receiver().Uint16(b.raw[12:14])

	return wnc, wnc != WNcNotValid
}

// GnssTime returns the block timestamp as GNSS seconds, or
// TimeNotValid when either time field is absent. For navigation
// blocks this is the start of the applicability window.
func (b Block) GnssTime() float64 {
	tow, ok := b.TOW()
	if !ok {
		return TimeNotValid
	}
	wnc, ok := b.WNc()
	if !ok {
		return TimeNotValid
	}

	return GnssTimeOf(tow, wnc)
}

// TowSeconds returns the raw time-of-week in seconds, ignoring the
// week number. Used for week-ambiguous comparisons.
func (b Block) TowSeconds() (float64, bool) {
	tow, ok := b.TOW()
	if !ok {
		return 0, false
	}

	return float64(tow) / 1000, true
}

// Category returns the block's functional category.
func (b Block) Category() Category { return CategoryOf(b.Number()) }

// IsNavigation reports whether the block carries navigation data with
// an applicability window.
func (b Block) IsNavigation() bool {
	_, ok := navApplicability[b.Number()]
	return ok
}

// Applicability returns the interval over which the block is usable.
// Navigation blocks are valid from their reported timestamp for a
// per-type duration; all other blocks are valid at their timestamp
// only. A block without a valid timestamp returns TimeNotValid
// bounds.
func (b Block) Applicability() (float64, float64) {
	t := b.GnssTime()
	if !IsTimeValid(t) {
		return TimeNotValid, TimeNotValid
	}
	if d, ok := navApplicability[b.Number()]; ok {
		return t, t + d
	}

	return t, t
}
