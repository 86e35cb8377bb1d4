package rosbag

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/klauspost/compress/zlib"
)

func encodedUint32(x uint32) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, x)
	return buf
}

func encodedUint64(x uint64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, x)
	return buf
}

func encodedTime(t Time) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint32(buf[0:4], t.Secs)
	binary.LittleEndian.PutUint32(buf[4:8], t.Nsecs)
	return buf
}

func sized(b []byte) []byte {
	return flatten(encodedUint32(uint32(len(b))), b)
}

func flatten(slices ...[]byte) []byte {
	var flattened []byte
	for _, s := range slices {
		flattened = append(flattened, s...)
	}
	return flattened
}

// headerField packs one "name=value" header entry with its length prefix.
func headerField(name string, value []byte) []byte {
	field := append([]byte(name+"="), value...)
	return sized(field)
}

func headerFieldStr(name, value string) []byte {
	return headerField(name, []byte(value))
}

// record assembles a full record: a header blob built from fields, then a
// data blob.
func record(fields [][]byte, data []byte) []byte {
	return flatten(sized(flatten(fields...)), sized(data))
}

func opField(op OpCode) []byte {
	return headerField("op", []byte{byte(op)})
}

func versionBanner(version string) []byte {
	return []byte("#ROSBAG V" + version + "\n")
}

func msgDefRecord(topic, datatype, md5sum, msgDef string, data []byte) []byte {
	return record([][]byte{
		opField(OpMsgDef),
		headerFieldStr("topic", topic),
		headerFieldStr("type", datatype),
		headerFieldStr("md5", md5sum),
		headerFieldStr("def", msgDef),
	}, data)
}

func msgDataRecord(t Time, data []byte) []byte {
	return record([][]byte{
		opField(OpMsgData),
		headerField("time", encodedTime(t)),
	}, data)
}

func fileHeaderRecord103(indexPos uint64, chunkCount, topicCount uint32, padding int) []byte {
	data := make([]byte, padding)
	return record([][]byte{
		opField(OpFileHeader),
		headerField("index_pos", encodedUint64(indexPos)),
		headerField("chunk_count", encodedUint32(chunkCount)),
		headerField("topic_count", encodedUint32(topicCount)),
	}, data)
}

func fileHeaderRecord102Indexed(indexPos uint64, padding int) []byte {
	data := make([]byte, padding)
	return record([][]byte{
		opField(OpFileHeader),
		headerField("index_pos", encodedUint64(indexPos)),
	}, data)
}

// chunkRecord compresses payload under compression and wraps it as a chunk
// record, returning the record bytes. The compressed size is written into
// the record as the u32 that follows its header.
func chunkRecord(t *testing.T, compression Compression, payload []byte) []byte {
	var compressed []byte
	switch compression {
	case CompressionNone:
		compressed = payload
	case CompressionBZ2:
		t.Fatalf("bz2 has no compressor in the standard library; construct bz2 fixtures from pre-recorded bytes")
	case CompressionZlib:
		buf := &bytes.Buffer{}
		w := zlib.NewWriter(buf)
		if _, err := w.Write(payload); err != nil {
			t.Fatalf("zlib compress: %v", err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("zlib close: %v", err)
		}
		compressed = buf.Bytes()
	}
	header := flatten(
		sized(flatten(opField(OpChunk), headerFieldStr("compression", string(compression)), headerField("size", encodedUint32(uint32(len(payload)))))),
		encodedUint32(uint32(len(compressed))),
	)
	return flatten(header, compressed)
}

func chunkInfoRecord(chunkPos uint64, start, end Time, topicCounts map[string]uint32) []byte {
	entryCount := uint32(len(topicCounts))
	var entries []byte
	for topic, count := range topicCounts {
		entries = append(entries, flatten(sized([]byte(topic)), encodedUint32(count))...)
	}
	return record([][]byte{
		opField(OpChunkInfo),
		headerField("ver", encodedUint32(1)),
		headerField("chunk_pos", encodedUint64(chunkPos)),
		headerField("start_time", encodedTime(start)),
		headerField("end_time", encodedTime(end)),
		headerField("count", encodedUint32(entryCount)),
	}, entries)
}

func topicIndexRecord103(topic string, entries []IndexEntry103) []byte {
	var data []byte
	for _, e := range entries {
		data = append(data, flatten(encodedTime(e.Time), encodedUint32(e.Offset))...)
	}
	return record([][]byte{
		opField(OpIndexData),
		headerField("ver", encodedUint32(1)),
		headerFieldStr("topic", topic),
		headerField("count", encodedUint32(uint32(len(entries)))),
	}, data)
}

func topicIndexRecord102(topic string, entries []IndexEntry102) []byte {
	var data []byte
	for _, e := range entries {
		data = append(data, flatten(encodedTime(e.Time), encodedUint64(e.Offset))...)
	}
	return record([][]byte{
		opField(OpIndexData),
		headerFieldStr("topic", topic),
		headerField("count", encodedUint32(uint32(len(entries)))),
	}, data)
}

// file assembles a complete bag byte stream: the version banner followed by
// the given records, in order.
func file(version string, records ...[]byte) []byte {
	return flatten(append([][]byte{versionBanner(version)}, records...)...)
}

// memSource is the ByteSource used by tests: an in-memory buffer supporting
// absolute/relative seeking and a readline for the version banner.
type memSource struct {
	buf []byte
	pos int
}

func newMemSource(data []byte) *memSource {
	return &memSource{buf: data}
}

func (s *memSource) Read(p []byte) (int, error) {
	if s.pos >= len(s.buf) {
		return 0, io.EOF
	}
	n := copy(p, s.buf[s.pos:])
	s.pos += n
	return n, nil
}

func (s *memSource) SeekAbs(offset int64) error {
	if offset < 0 || offset > int64(len(s.buf)) {
		return newGeneralError("seek out of range", nil)
	}
	s.pos = int(offset)
	return nil
}

func (s *memSource) SeekCur(delta int64) error {
	return s.SeekAbs(int64(s.pos) + delta)
}

func (s *memSource) Tell() (int64, error) {
	return int64(s.pos), nil
}

func (s *memSource) ReadLine() ([]byte, error) {
	idx := bytes.IndexByte(s.buf[s.pos:], '\n')
	if idx < 0 {
		line := s.buf[s.pos:]
		s.pos = len(s.buf)
		return line, nil
	}
	line := s.buf[s.pos : s.pos+idx+1]
	s.pos += idx + 1
	return line, nil
}
