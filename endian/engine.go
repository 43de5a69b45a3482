// Package endian provides the byte order used by the SBF wire codecs.
//
// SBF blocks and command messages carry numeric fields in the
// receiver's native byte order, which is little endian for every
// supported receiver generation. The codecs in this module therefore
// never negotiate an order at run time; they share the single engine
// returned by Receiver().
//
// EndianEngine combines ByteOrder and AppendByteOrder from
// encoding/binary so codecs can both read in place and append without
// scratch buffers:
//
//	engine := endian.Receiver()
//	tow := engine.Uint32(body[0:4])
//	buf = engine.AppendUint16(buf, wnc)
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine combines ByteOrder and AppendByteOrder from
// encoding/binary into a single interface for convenient byte order
// operations. binary.LittleEndian and binary.BigEndian both satisfy
// it.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// Receiver returns the receiver-native byte order engine.
func Receiver() EndianEngine {
	return binary.LittleEndian
}

// CheckEndianness uses a fixed integer value to determine the host's
// byte order.
func CheckEndianness() binary.ByteOrder {
	// 0x0100 is 256. For a little-endian host the LSB (0x00) comes
	// first in memory; for a big-endian host the MSB (0x01) does.
	var i uint16 = 0x0100

	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsNativeReceiverOrder reports whether the host byte order matches
// the receiver-native order.
func IsNativeReceiverOrder() bool {
	return CheckEndianness() == binary.LittleEndian
}
