package rosbag

import "fmt"

// TopicInfo is the metadata for one publication channel. It is immutable
// once parsed.
type TopicInfo struct {
	Topic    string
	Datatype string
	MD5Sum   string
	MsgDef   string
}

func (ti TopicInfo) String() string {
	return fmt.Sprintf("%s: %s [%s]", ti.Topic, ti.Datatype, ti.MD5Sum)
}

// ChunkInfo is the metadata for one chunk, populated from the index region
// during Open and immutable thereafter.
type ChunkInfo struct {
	ChunkPos    uint64
	StartTime   Time
	EndTime     Time
	TopicCounts map[string]uint32
}

func (ci ChunkInfo) String() string {
	s := fmt.Sprintf("chunk_pos:  %d\nstart_time: %s\nend_time:   %s\ntopics:     %d",
		ci.ChunkPos, ci.StartTime, ci.EndTime, len(ci.TopicCounts))
	for topic, count := range ci.TopicCounts {
		s += fmt.Sprintf("\n  - %-32s %d", topic, count)
	}
	return s
}

// Compression identifies the algorithm a chunk's payload is stored under.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionBZ2  Compression = "bz2"
	CompressionZlib Compression = "zlib"
)

// ChunkHeader is the parsed header of a chunk record (V1.3 only).
type ChunkHeader struct {
	Compression      Compression
	CompressedSize   uint32
	UncompressedSize uint32
	// DataPos is the absolute file offset of the chunk's stored payload,
	// immediately following the chunk record's header/size fields.
	DataPos uint64
}

func (ch ChunkHeader) String() string {
	pct := 0.0
	if ch.UncompressedSize != 0 {
		pct = 100 * float64(ch.CompressedSize) / float64(ch.UncompressedSize)
	}
	return fmt.Sprintf("compression:  %s\nsize:         %d\nuncompressed: %d (%.2f%%)",
		ch.Compression, ch.CompressedSize, ch.UncompressedSize, pct)
}

// IndexEntry103 is one random-access pointer into a chunk (V1.3 format):
// the owning chunk's position, plus the byte offset within the chunk's
// *uncompressed* payload where the message's record header begins.
type IndexEntry103 struct {
	Time     Time
	ChunkPos uint64
	Offset   uint32
}

// IndexEntry102 is one random-access pointer (V1.2 format): the absolute
// file offset of the message's record.
type IndexEntry102 struct {
	Time   Time
	Offset uint64
}
