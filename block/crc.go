package block

// CRC16-CCITT (XMODEM): polynomial 0x1021, initial value 0, no final
// XOR. This is the checksum the receivers compute over the block
// contents after the CRC field.

var crc16Table [256]uint16

func init() {
	for i := range crc16Table {
		crc := uint16(i) << 8
		for bit := 0; bit < 8; bit++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
		crc16Table[i] = crc
	}
}

// crc16 computes the CRC16-CCITT checksum of data.
func crc16(data []byte) uint16 {
	var crc uint16
	for _, b := range data {
		crc = crc<<8 ^ crc16Table[byte(crc>>8)^b]
	}

	return crc
}
