package rosbag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildV103(t *testing.T, compression Compression, messages []struct {
	Topic string
	Time  Time
	Data  []byte
}) []byte {
	t.Helper()

	msgDef := msgDefRecord("/foo", "std_msgs/String", "abc123", "string data", nil)
	var payload []byte
	payload = append(payload, msgDef...)
	offsets := make([]uint32, len(messages))
	for i, m := range messages {
		offsets[i] = uint32(len(payload))
		payload = append(payload, msgDataRecord(m.Time, m.Data)...)
	}

	// The file header's own length doesn't depend on the values placed in
	// its fixed-width fields, so its size can be fixed before indexPos is
	// known; chunkPos then follows from banner + file header length.
	fileHeaderLen := len(fileHeaderRecord103(0, 0, 0, 0))
	chunkPos := uint64(len(versionBanner("1.3")) + fileHeaderLen)
	chunk := chunkRecord(t, compression, payload)

	var entries []IndexEntry103
	for i, m := range messages {
		entries = append(entries, IndexEntry103{Time: m.Time, ChunkPos: chunkPos, Offset: offsets[i]})
	}
	topicIndex := topicIndexRecord103("/foo", entries)

	indexPos := chunkPos + uint64(len(chunk)) + uint64(len(topicIndex))
	chunkInfo := chunkInfoRecord(chunkPos, messages[0].Time, messages[len(messages)-1].Time, map[string]uint32{"/foo": uint32(len(messages))})

	fileHeader := fileHeaderRecord103(indexPos, 1, 1, 0)

	return file("1.3",
		fileHeader,
		chunk,
		topicIndex,
		msgDef,
		chunkInfo,
	)
}

func TestV103SingleUncompressedChunk(t *testing.T) {
	msgs := []struct {
		Topic string
		Time  Time
		Data  []byte
	}{
		{"/foo", Time{Secs: 1, Nsecs: 0}, []byte("hello")},
		{"/foo", Time{Secs: 2, Nsecs: 0}, []byte("world")},
	}
	data := buildV103(t, CompressionNone, msgs)

	bag, err := Open(newMemSource(data), WithSchemaCompiler(rawCompiler{}))
	require.NoError(t, err)
	defer bag.Close()

	assert.Equal(t, 103, bag.Version())

	topics := bag.TopicInfos()
	require.Len(t, topics, 1)
	assert.Equal(t, "/foo", topics[0].Topic)
	assert.Equal(t, "std_msgs/String", topics[0].Datatype)

	out, err := bag.GetMessages()
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, []byte("hello"), out[0].Value)
	assert.Equal(t, []byte("world"), out[1].Value)
}

func TestV103ZlibChunkCacheReuse(t *testing.T) {
	msgs := []struct {
		Topic string
		Time  Time
		Data  []byte
	}{
		{"/foo", Time{Secs: 1, Nsecs: 0}, []byte("aaa")},
		{"/foo", Time{Secs: 2, Nsecs: 0}, []byte("bbb")},
		{"/foo", Time{Secs: 3, Nsecs: 0}, []byte("ccc")},
	}
	data := buildV103(t, CompressionZlib, msgs)

	bag, err := Open(newMemSource(data), WithSchemaCompiler(rawCompiler{}))
	require.NoError(t, err)
	defer bag.Close()

	out, err := bag.GetMessages()
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, []byte("aaa"), out[0].Value)
	assert.Equal(t, []byte("bbb"), out[1].Value)
	assert.Equal(t, []byte("ccc"), out[2].Value)
}

func TestV103UnsupportedCompressionIsFormatError(t *testing.T) {
	msgDef := msgDefRecord("/foo", "std_msgs/String", "abc123", "string data", nil)
	payload := append([]byte{}, msgDef...)
	payload = append(payload, msgDataRecord(Time{Secs: 1}, []byte("x"))...)

	fileHeaderLen := len(fileHeaderRecord103(0, 0, 0, 0))
	chunkPos := uint64(len(versionBanner("1.3")) + fileHeaderLen)
	header := flatten(
		sized(flatten(opField(OpChunk), headerFieldStr("compression", "lz4"), headerField("size", encodedUint32(uint32(len(payload)))))),
		encodedUint32(uint32(len(payload))),
	)
	chunk := flatten(header, payload)

	entries := []IndexEntry103{{Time: Time{Secs: 1}, ChunkPos: chunkPos, Offset: uint32(len(msgDef))}}
	topicIndex := topicIndexRecord103("/foo", entries)
	indexPos := chunkPos + uint64(len(chunk)) + uint64(len(topicIndex))
	chunkInfo := chunkInfoRecord(chunkPos, Time{Secs: 1}, Time{Secs: 1}, map[string]uint32{"/foo": 1})
	fileHeader := fileHeaderRecord103(indexPos, 1, 1, 0)

	data := file("1.3", fileHeader, chunk, topicIndex, msgDef, chunkInfo)

	bag, err := Open(newMemSource(data), WithSchemaCompiler(rawCompiler{}))
	require.NoError(t, err)
	defer bag.Close()

	_, err = bag.GetMessages()
	require.Error(t, err)
	var fe *FormatError
	require.ErrorAs(t, err, &fe)
}
