package stream

import (
	"os"

	"go.uber.org/zap"

	"github.com/gnsskit/sbfkit/block"
	"github.com/gnsskit/sbfkit/errs"
	"github.com/gnsskit/sbfkit/internal/compress"
)

// Load reads an SBF file into a new stream. Compressed files (gzip,
// zstd, lz4) are recognised by their magic bytes and decompressed
// transparently. Blocks with a plausible header but a bad CRC are kept
// and flagged invalid so the CRC-checking getters can report them;
// bytes that frame no block at all are skipped until the next sync
// pattern.
//
// Parameters:
//   - path: File to read
//   - mode: ReadOnly streams reject every mutating operation
//
// Returns:
//   - *Stream: The loaded stream, cursor at the start
//   - error: errs.ErrFileOpen, errs.ErrFileRead, errs.ErrDecompress,
//     or errs.ErrInvalidFile when the file contains no block at all
func Load(path string, mode Mode) (*Stream, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) || os.IsPermission(err) {
			return nil, errs.ErrFileOpen
		}

		return nil, errs.ErrFileRead
	}

	raw, err := compress.Sniff(data).Decompress(data)
	if err != nil {
		return nil, errs.ErrDecompress
	}

	s := Open()
	s.mode = mode
	if err := s.scan(raw); err != nil {
		return nil, err
	}
	s.logger.Debug("stream loaded",
		zap.String("path", path),
		zap.Int("blocks", len(s.blocks)),
	)

	return s, nil
}

// scan splits raw into blocks. The cursor ends at the start.
func (s *Stream) scan(raw []byte) error {
	total := len(raw)
	for at := 0; at < total; {
		length, ok := block.FrameInfo(raw[at:])
		if !ok {
			// Resync byte by byte on the next sync pair.
			at++
			for at < total && raw[at] != block.Sync1 {
				at++
			}

			continue
		}

		s.blocks = append(s.blocks, block.FromRaw(raw[at:at+length]))
		at += length
		s.report(OpLoad, at, total)
	}

	if len(s.blocks) == 0 && total > 0 {
		return errs.ErrInvalidFile
	}
	s.cursor = 0
	s.mutated()

	return nil
}

// WriteFile writes the stream back to disk. The codec is picked from
// the file extension: .gz, .zst and .lz4 compress, anything else is
// written raw. Invalid blocks are written as loaded.
//
// Returns:
//   - error: errs.ErrFileWrite on any I/O or compression failure
func (s *Stream) WriteFile(path string) error {
	out := make([]byte, 0, s.Size())
	for i, b := range s.blocks {
		if err := s.checkCancel(); err != nil {
			return err
		}
		out = append(out, b.Bytes()...)
		s.report(OpWrite, i+1, len(s.blocks))
	}

	encoded, err := compress.ForPath(path).Compress(out)
	if err != nil {
		return errs.ErrFileWrite
	}
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return errs.ErrFileWrite
	}
	s.logger.Debug("stream written",
		zap.String("path", path),
		zap.Int("blocks", len(s.blocks)),
	)

	return nil
}
