package endian

import (
	"encoding/binary"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestReceiverIsLittleEndian(t *testing.T) {
	require.Equal(t, binary.LittleEndian, Receiver())

	buf := Receiver().AppendUint16(nil, 0x2440)
	require.Equal(t, []byte{0x40, 0x24}, buf)
	require.Equal(t, uint16(0x2440), Receiver().Uint16(buf))
}

func TestCheckEndianness(t *testing.T) {
	result := CheckEndianness()

	// Verify the result matches the actual host endianness.
	var testValue uint16 = 0x0102
	testBytes := (*[2]byte)(unsafe.Pointer(&testValue))

	switch testBytes[0] {
	case 0x01:
		require.Equal(t, binary.BigEndian, result)
	case 0x02:
		require.Equal(t, binary.LittleEndian, result)
	default:
		require.Failf(t, "unexpected byte value", "got: %v", testBytes[0])
	}
}

func TestIsNativeReceiverOrder(t *testing.T) {
	require.Equal(t, CheckEndianness() == binary.LittleEndian, IsNativeReceiverOrder())
}
