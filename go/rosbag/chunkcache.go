package rosbag

import (
	"bytes"
	"compress/bzip2"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// chunkCache holds at most one decompressed chunk payload: capacity 1,
// trivially-LRU — a request for any chunk other than the one currently
// cached evicts it. Its memory footprint is bounded by the largest
// uncompressed_size in the file, since only one payload is ever held at a
// time.
type chunkCache struct {
	chunkPos uint64
	valid    bool
	payload  []byte
}

// get returns the decompressed payload for chunkPos, reading and
// decompressing it from src if the cache does not already hold it.
func (c *chunkCache) get(src ByteSource, chunkPos uint64, ch ChunkHeader) ([]byte, error) {
	if c.valid && c.chunkPos == chunkPos {
		return c.payload, nil
	}
	if err := src.SeekAbs(int64(ch.DataPos)); err != nil {
		return nil, newGeneralError("seeking to chunk data", err)
	}
	compressed := make([]byte, ch.CompressedSize)
	if err := readFull(src, compressed); err != nil {
		return nil, newFormatError("reading compressed chunk payload", err)
	}
	payload, err := decompress(ch.Compression, compressed, ch.UncompressedSize)
	if err != nil {
		return nil, err
	}
	c.chunkPos = chunkPos
	c.payload = payload
	c.valid = true
	return payload, nil
}

// decompress expands compressed per the named algorithm into exactly
// uncompressedSize bytes. Unknown algorithms are a FormatError, discovered
// lazily at retrieval time rather than at Open.
func decompress(compression Compression, compressed []byte, uncompressedSize uint32) ([]byte, error) {
	switch compression {
	case CompressionNone:
		return compressed, nil
	case CompressionBZ2:
		r := bzip2.NewReader(bytes.NewReader(compressed))
		buf := make([]byte, uncompressedSize)
		if err := readFull(r, buf); err != nil {
			return nil, newFormatError("decompressing bz2 chunk", err)
		}
		return buf, nil
	case CompressionZlib:
		r, err := zlib.NewReader(bytes.NewReader(compressed))
		if err != nil {
			return nil, newFormatError("opening zlib chunk", err)
		}
		defer r.Close()
		buf := make([]byte, uncompressedSize)
		if err := readFull(r, buf); err != nil {
			return nil, newFormatError("decompressing zlib chunk", err)
		}
		return buf, nil
	default:
		return nil, newFormatError(
			fmt.Sprintf("chunk has unsupported compression %q", string(compression)),
			&ErrUnknownCompression{Compression: string(compression)})
	}
}

// chunkByteSource adapts an in-memory decompressed chunk payload to the
// ByteSource interface so the shared "skip 0x01 until 0x02" record-reading
// discipline in reader_v103.go can run against either the file itself
// (uncompressed chunks) or a decompressed in-memory buffer.
type chunkByteSource struct {
	buf []byte
	pos int
}

func (s *chunkByteSource) Read(p []byte) (int, error) {
	if s.pos >= len(s.buf) {
		return 0, io.EOF
	}
	n := copy(p, s.buf[s.pos:])
	s.pos += n
	return n, nil
}

func (s *chunkByteSource) SeekAbs(offset int64) error {
	if offset < 0 || offset > int64(len(s.buf)) {
		return fmt.Errorf("seek offset %d out of range [0,%d]", offset, len(s.buf))
	}
	s.pos = int(offset)
	return nil
}

func (s *chunkByteSource) SeekCur(delta int64) error {
	return s.SeekAbs(int64(s.pos) + delta)
}

func (s *chunkByteSource) Tell() (int64, error) {
	return int64(s.pos), nil
}

func (s *chunkByteSource) ReadLine() ([]byte, error) {
	return nil, fmt.Errorf("ReadLine is not supported on a chunk payload")
}
