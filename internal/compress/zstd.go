package compress

import (
	"sync"

	"github.com/klauspost/compress/zstd"
)

// Shared encoder/decoder instances. Both are safe for concurrent use
// through EncodeAll/DecodeAll and expensive to create.
var (
	zstdEncoderOnce sync.Once
	zstdEncoder     *zstd.Encoder
	zstdDecoderOnce sync.Once
	zstdDecoder     *zstd.Decoder
)

func getZstdEncoder() *zstd.Encoder {
	zstdEncoderOnce.Do(func() {
		zstdEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	})

	return zstdEncoder
}

func getZstdDecoder() *zstd.Decoder {
	zstdDecoderOnce.Do(func() {
		zstdDecoder, _ = zstd.NewReader(nil)
	})

	return zstdDecoder
}

// ZstdCodec handles .zst archives.
type ZstdCodec struct{}

var _ Codec = ZstdCodec{}

func (ZstdCodec) Name() string { return "zst" }

// Compress compresses data into a zstd frame.
func (ZstdCodec) Compress(data []byte) ([]byte, error) {
	return getZstdEncoder().EncodeAll(data, make([]byte, 0, len(data)/2)), nil
}

// Decompress restores the original file image from a zstd frame.
func (ZstdCodec) Decompress(data []byte) ([]byte, error) {
	return getZstdDecoder().DecodeAll(data, nil)
}
