package compress

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"
)

// GzipCodec handles .gz archives.
type GzipCodec struct{}

var _ Codec = GzipCodec{}

func (GzipCodec) Name() string { return "gz" }

// Compress compresses data into a gzip member.
func (GzipCodec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decompress restores the original file image from a gzip member.
func (GzipCodec) Decompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return io.ReadAll(r)
}
