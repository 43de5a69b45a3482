// Package cmdmsg implements the compact binary command protocol that
// receivers understand and that can be embedded inside an SBF stream.
//
// A command message is laid out as:
//
//	+----------+-----------------------------------+
//	| Header   | PDU header | binding | binding |...|
//	+----------+-----------------------------------+
//
// The 8-byte header carries a two-byte preamble "$&", a protocol
// version, an XOR checksum over everything after the header, the
// message length excluding the header, and a two-byte community
// field whose first byte is the authorization level. The PDU header
// carries the action type (Set/Get/Response), a request sequence
// number and reply error status/index. Each variable binding is a
// one-byte payload size, a six-byte object identifier tuple, a pad
// byte, and the payload padded to four-byte alignment. A whole
// message never exceeds MaxMessageSize bytes.
//
// Messages are built incrementally into a caller-supplied buffer with
// InitHeader, AddPDUHeader and AddVarBinding, mirroring how they are
// read back with ParseHeader, ParsePDUHeader and ParseVarBinding.
// Walking past the last binding yields errs.ErrEndOfBindings, a
// warning distinct from any failure.
package cmdmsg

import (
	"github.com/gnsskit/sbfkit/endian"
	"github.com/gnsskit/sbfkit/errs"
)

const (
	// Version is the protocol version this codec speaks.
	Version uint8 = 1

	// HeaderSize is the size of the message header.
	HeaderSize = 8

	// PDUHeaderSize is the size of the PDU header.
	PDUHeaderSize = 4

	// oidSize covers the size byte, the six identifier bytes and the
	// trailing pad byte of a binding.
	oidSize = 8

	// MaxMessageSize is the hard cap on a whole message.
	MaxMessageSize = 2048

	// MaxPayloadSize is the largest payload one binding can carry.
	MaxPayloadSize = 255
)

// Preamble bytes.
const (
	Preamble1 byte = '$'
	Preamble2 byte = '&'
)

// PDUType tags the action a message requests or answers.
type PDUType byte

const (
	Set      PDUType = 'S'
	Get      PDUType = 'G'
	Response PDUType = 'R'
)

// AuthLevel is the authorization level carried in the community
// field.
type AuthLevel uint8

const (
	AuthUndef AuthLevel = iota
	AuthNone
	AuthViewer
	AuthUser
)

// PDU error status values reported in replies.
const (
	StatusNone      uint8 = 0
	StatusMsgType   uint8 = 1
	StatusOID       uint8 = 2
	StatusSetAction uint8 = 3
	StatusGetAction uint8 = 4
	StatusSize      uint8 = 5
	StatusValue     uint8 = 6
	StatusExe       uint8 = 7
	StatusAuth      uint8 = 8
	StatusEncrypt   uint8 = 9
	StatusNotReady  uint8 = 10
)

// OID identifies one variable: application, command group, command,
// and the argument/table coordinates.
type OID struct {
	Appl          uint8
	Group         uint8
	Command       uint8
	ArgTableEntry uint8
	IndTableArg   uint8
	TableIndex    uint8
}

// Header is the decoded message header.
type Header struct {
	Version  uint8
	Checksum uint8
	Length   uint16 // bytes after the header
	Auth     AuthLevel
}

// PDUHeader is the decoded PDU header.
type PDUHeader struct {
	Type        PDUType
	RequestID   uint8
	ErrorStatus uint8
	ErrorIndex  uint8
}

func pad4(n int) int { return (n + 3) &^ 3 }

func xorChecksum(data []byte) uint8 {
	var sum uint8
	for _, b := range data {
		sum ^= b
	}

	return sum
}

func msgLength(buf []byte) int {
	return int(endian.Receiver().Uint16(buf[4:6]))
}

func setMsgLength(buf []byte, length int) {
	endian.Receiver().PutUint16(buf[4:6], uint16(length))
}

func isInitialized(buf []byte) bool {
	return len(buf) >= HeaderSize && buf[0] == Preamble1 && buf[1] == Preamble2
}

// InitHeader writes an empty message header into buf.
//
// Returns:
//   - int: Number of bytes written (HeaderSize)
//   - error: errs.ErrBufferTooSmall when buf cannot hold the header
func InitHeader(buf []byte, auth AuthLevel) (int, error) {
	if len(buf) < HeaderSize {
		return 0, errs.ErrBufferTooSmall
	}

	buf[0] = Preamble1
	buf[1] = Preamble2
	buf[2] = Version
	buf[3] = 0 // checksum of an empty body
	setMsgLength(buf, 0)
	buf[6] = byte(auth)
	buf[7] = 0

	return HeaderSize, nil
}

// AddPDUHeader appends a PDU header to an initialized message.
//
// Returns:
//   - int: Number of bytes added (PDUHeaderSize)
//   - error: errs.ErrWrongState when the header is missing,
//     errs.ErrInvalidArgument on an unknown type,
//     errs.ErrBufferTooSmall when buf cannot hold the PDU header
func AddPDUHeader(buf []byte, typ PDUType, requestID uint8) (int, error) {
	if !isInitialized(buf) {
		return 0, errs.ErrWrongState
	}
	if typ != Set && typ != Get && typ != Response {
		return 0, errs.ErrInvalidArgument
	}

	end := HeaderSize + msgLength(buf)
	if end+PDUHeaderSize > len(buf) || end+PDUHeaderSize > MaxMessageSize {
		return 0, errs.ErrBufferTooSmall
	}

	buf[end] = byte(typ)
	buf[end+1] = requestID
	buf[end+2] = StatusNone
	buf[end+3] = 0
	setMsgLength(buf, msgLength(buf)+PDUHeaderSize)
	buf[3] = xorChecksum(buf[HeaderSize : end+PDUHeaderSize])

	return PDUHeaderSize, nil
}

// AddVarBinding appends a variable binding holding value to a message
// that already carries a PDU header. The payload is padded to the
// four-byte alignment of the wire format; the binding's size field
// keeps the true payload size.
//
// Returns:
//   - int: Number of bytes added
//   - error: errs.ErrWrongState when no PDU header is present,
//     errs.ErrOutOfRange when value exceeds MaxPayloadSize,
//     errs.ErrBufferTooSmall when buf (or the message cap) cannot
//     hold the binding
func AddVarBinding(buf []byte, oid OID, value []byte) (int, error) {
	if !isInitialized(buf) || msgLength(buf) < PDUHeaderSize {
		return 0, errs.ErrWrongState
	}
	if len(value) > MaxPayloadSize {
		return 0, errs.ErrOutOfRange
	}

	added := oidSize + pad4(len(value))
	end := HeaderSize + msgLength(buf)
	if end+added > len(buf) || end+added > MaxMessageSize {
		return 0, errs.ErrBufferTooSmall
	}

	buf[end] = uint8(len(value))
	buf[end+1] = oid.Appl
	buf[end+2] = oid.Group
	buf[end+3] = oid.Command
	buf[end+4] = oid.ArgTableEntry
	buf[end+5] = oid.IndTableArg
	buf[end+6] = oid.TableIndex
	buf[end+7] = 0
	copy(buf[end+oidSize:end+added], value)
	for i := end + oidSize + len(value); i < end+added; i++ {
		buf[i] = 0
	}
	setMsgLength(buf, msgLength(buf)+added)
	buf[3] = xorChecksum(buf[HeaderSize : end+added])

	return added, nil
}

// ParseHeader decodes and validates the message header.
//
// Returns:
//   - Header: The decoded header
//   - int: Offset of the PDU header
//   - error: errs.ErrInvalidCommand on bad preamble, version, length
//     or checksum
func ParseHeader(msg []byte) (Header, int, error) {
	if !isInitialized(msg) || msg[2] != Version {
		return Header{}, 0, errs.ErrInvalidCommand
	}

	length := msgLength(msg)
	if HeaderSize+length > len(msg) || HeaderSize+length > MaxMessageSize {
		return Header{}, 0, errs.ErrInvalidCommand
	}
	if xorChecksum(msg[HeaderSize:HeaderSize+length]) != msg[3] {
		return Header{}, 0, errs.ErrInvalidCommand
	}

	h := Header{
		Version:  msg[2],
		Checksum: msg[3],
		Length:   uint16(length),
		Auth:     AuthLevel(msg[6]),
	}

	return h, HeaderSize, nil
}

// ParsePDUHeader decodes the PDU header of a message.
//
// Returns:
//   - PDUHeader: The decoded PDU header
//   - int: Offset of the first variable binding
//   - error: errs.ErrInvalidCommand when the message carries no PDU
func ParsePDUHeader(msg []byte) (PDUHeader, int, error) {
	if _, _, err := ParseHeader(msg); err != nil {
		return PDUHeader{}, 0, err
	}
	if msgLength(msg) < PDUHeaderSize {
		return PDUHeader{}, 0, errs.ErrInvalidCommand
	}

	p := PDUHeader{
		Type:        PDUType(msg[HeaderSize]),
		RequestID:   msg[HeaderSize+1],
		ErrorStatus: msg[HeaderSize+2],
		ErrorIndex:  msg[HeaderSize+3],
	}

	return p, HeaderSize + PDUHeaderSize, nil
}

// ParseVarBinding decodes the variable binding at offset.
//
// Returns:
//   - OID: The binding's object identifier
//   - []byte: The payload (copied)
//   - int: Offset of the next binding
//   - error: errs.ErrEndOfBindings (a warning) past the last binding,
//     errs.ErrInvalidCommand on a truncated binding
func ParseVarBinding(msg []byte, offset int) (OID, []byte, int, error) {
	if offset < HeaderSize+PDUHeaderSize {
		return OID{}, nil, 0, errs.ErrInvalidCommand
	}

	end := HeaderSize + msgLength(msg)
	if offset >= end {
		return OID{}, nil, 0, errs.ErrEndOfBindings
	}
	if offset+oidSize > end {
		return OID{}, nil, 0, errs.ErrInvalidCommand
	}

	size := int(msg[offset])
	next := offset + oidSize + pad4(size)
	if next > end {
		return OID{}, nil, 0, errs.ErrInvalidCommand
	}

	oid := OID{
		Appl:          msg[offset+1],
		Group:         msg[offset+2],
		Command:       msg[offset+3],
		ArgTableEntry: msg[offset+4],
		IndTableArg:   msg[offset+5],
		TableIndex:    msg[offset+6],
	}
	value := make([]byte, size)
	copy(value, msg[offset+oidSize:offset+oidSize+size])

	return oid, value, next, nil
}

// MessageBytes returns the full encoded message contained in buf:
// header plus the length recorded in it.
func MessageBytes(buf []byte) ([]byte, error) {
	if !isInitialized(buf) {
		return nil, errs.ErrWrongState
	}
	end := HeaderSize + msgLength(buf)
	if end > len(buf) {
		return nil, errs.ErrInvalidCommand
	}

	return buf[:end], nil
}
