// Package compress provides the whole-file compression codecs used by
// the stream loader and writer.
//
// SBF logs are routinely archived compressed. The loader sniffs the
// leading magic bytes of a file and decompresses transparently; the
// writer picks a codec from the target file's extension. The raw
// codec passes data through untouched.
package compress

import (
	"path/filepath"
	"strings"
)

// Codec compresses and decompresses one whole file image.
type Codec interface {
	// Name is the codec's short name, matching the file extension it
	// serves (without the dot); the raw codec reports "sbf".
	Name() string

	// Compress compresses data into a newly allocated buffer. The
	// input is not modified.
	Compress(data []byte) ([]byte, error)

	// Decompress restores the original file image from data.
	Decompress(data []byte) ([]byte, error)
}

var magics = []struct {
	prefix []byte
	codec  Codec
}{
	{[]byte{0x1F, 0x8B}, GzipCodec{}},
	{[]byte{0x28, 0xB5, 0x2F, 0xFD}, ZstdCodec{}},
	{[]byte{0x04, 0x22, 0x4D, 0x18}, LZ4Codec{}},
}

// Sniff picks the codec matching the magic bytes at the start of
// data. Unrecognised data is treated as an uncompressed file.
func Sniff(data []byte) Codec {
	for _, m := range magics {
		if len(data) >= len(m.prefix) && string(data[:len(m.prefix)]) == string(m.prefix) {
			return m.codec
		}
	}

	return RawCodec{}
}

// ForPath picks the codec matching the file extension of path.
func ForPath(path string) Codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		return GzipCodec{}
	case ".zst":
		return ZstdCodec{}
	case ".lz4":
		return LZ4Codec{}
	default:
		return RawCodec{}
	}
}

// RawCodec passes data through unchanged.
type RawCodec struct{}

var _ Codec = RawCodec{}

func (RawCodec) Name() string { return "sbf" }

func (RawCodec) Compress(data []byte) ([]byte, error) { return data, nil }

func (RawCodec) Decompress(data []byte) ([]byte, error) { return data, nil }
