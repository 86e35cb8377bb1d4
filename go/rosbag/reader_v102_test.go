package rosbag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestV102Indexed(t *testing.T) {
	msgDef := msgDefRecord("/foo", "std_msgs/String", "abc123", "string data", nil)
	msg1 := msgDataRecord(Time{Secs: 1}, []byte("hello"))
	msg2 := msgDataRecord(Time{Secs: 2}, []byte("world"))

	fileHeaderLen := len(fileHeaderRecord102Indexed(0, 0))
	bannerLen := len(versionBanner("1.2"))

	offset1 := uint64(bannerLen + fileHeaderLen)
	offset2 := offset1 + uint64(len(msgDef)) + uint64(len(msg1))

	indexPos := offset2 + uint64(len(msg2))
	topicIndex := topicIndexRecord102("/foo", []IndexEntry102{
		{Time: Time{Secs: 1}, Offset: offset1},
		{Time: Time{Secs: 2}, Offset: offset2},
	})

	fileHeader := fileHeaderRecord102Indexed(indexPos, 0)

	data := file("1.2", fileHeader, msgDef, msg1, msg2, topicIndex)

	bag, err := Open(newMemSource(data), WithSchemaCompiler(rawCompiler{}))
	require.NoError(t, err)
	defer bag.Close()

	assert.Equal(t, 102, bag.Version())

	topics := bag.TopicInfos()
	require.Len(t, topics, 1)
	assert.Equal(t, "/foo", topics[0].Topic)

	out, err := bag.GetMessages()
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, []byte("hello"), out[0].Value)
	assert.Equal(t, []byte("world"), out[1].Value)
}

func TestV102UnindexedThreeMessages(t *testing.T) {
	msgDef := msgDefRecord("/foo", "std_msgs/String", "abc123", "string data", nil)
	msg1 := msgDataRecord(Time{Secs: 1}, []byte("a"))
	msg2 := msgDataRecord(Time{Secs: 2}, []byte("b"))
	msg3 := msgDataRecord(Time{Secs: 3}, []byte("c"))

	data := file("1.2", msgDef, msg1, msg2, msg3)

	bag, err := Open(newMemSource(data), WithSchemaCompiler(rawCompiler{}))
	require.NoError(t, err)
	defer bag.Close()

	assert.Equal(t, 102, bag.Version())

	out, err := bag.GetMessages()
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, []byte("a"), out[0].Value)
	assert.Equal(t, []byte("b"), out[1].Value)
	assert.Equal(t, []byte("c"), out[2].Value)
}

func TestBadVersionBannerIsFormatError(t *testing.T) {
	data := []byte("#ROSBAG V9.9\n")
	_, err := Open(newMemSource(data), WithSchemaCompiler(rawCompiler{}))
	require.Error(t, err)
	var fe *FormatError
	require.ErrorAs(t, err, &fe)
}
