package rosbag

import (
	"errors"
	"io"
)

// v102IndexedReader implements the V1.2 indexed bag layout: a file header
// pointing at an index region made up of per-topic topic-index records,
// each a flat list of (time, absolute file offset) pairs. Unlike V1.3 there
// is no chunk table and no compression; every message record lives
// directly at its own file offset.
type v102IndexedReader struct {
	src ByteSource

	indexPos uint64

	topicInfos   map[string]TopicInfo
	topicIndexes map[string][]IndexEntry102
	topicOrder   []string
}

func newV102IndexedReader(src ByteSource) *v102IndexedReader {
	return &v102IndexedReader{
		src:          src,
		topicInfos:   make(map[string]TopicInfo),
		topicIndexes: make(map[string][]IndexEntry102),
	}
}

func (r *v102IndexedReader) startReading() error {
	if err := r.readFileHeaderRecord(); err != nil {
		return err
	}
	if err := r.src.SeekAbs(int64(r.indexPos)); err != nil {
		return newGeneralError("seeking to index region", err)
	}

	// The index region is a flat run of topic-index records with no count
	// header to bound it; the reference implementation loops until the read
	// of the next record header hits end-of-file.
	for {
		topic, entries, err := r.readTopicIndexRecord()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if _, seen := r.topicIndexes[topic]; !seen {
			r.topicOrder = append(r.topicOrder, topic)
		}
		r.topicIndexes[topic] = append(r.topicIndexes[topic], entries...)
	}

	for topic, entries := range r.topicIndexes {
		if len(entries) == 0 {
			continue
		}
		info, err := r.readTopicInfoAt(entries[0].Offset)
		if err != nil {
			return err
		}
		r.topicInfos[topic] = info
	}
	return nil
}

func (r *v102IndexedReader) readFileHeaderRecord() error {
	h, err := readRecordHeader(r.src)
	if err != nil {
		return err
	}
	if err := assertOp(h, OpFileHeader); err != nil {
		return err
	}
	r.indexPos, err = fieldUint64(h, "index_pos")
	if err != nil {
		return err
	}
	return skipRecordData(r.src)
}

// readTopicIndexRecord reads one topic-index record. It returns io.EOF
// (unwrapped, so the caller can distinguish "no more records" from a
// genuine format error) when the index region has been exhausted.
func (r *v102IndexedReader) readTopicIndexRecord() (string, []IndexEntry102, error) {
	blob, err := readSized(r.src)
	if err != nil {
		if errors.Is(err, ErrShortRead) {
			return "", nil, io.EOF
		}
		return "", nil, err
	}
	h, err := readHeader(blob)
	if err != nil {
		return "", nil, err
	}
	if err := assertOp(h, OpIndexData); err != nil {
		return "", nil, err
	}
	topic, err := fieldString(h, "topic")
	if err != nil {
		return "", nil, err
	}
	count, err := fieldUint32(h, "count")
	if err != nil {
		return "", nil, err
	}
	if _, err := readUint32(r.src); err != nil {
		return "", nil, newFormatError("reading topic index data length", err)
	}
	entries := make([]IndexEntry102, 0, count)
	for i := uint32(0); i < count; i++ {
		t, err := readTime(r.src)
		if err != nil {
			return "", nil, err
		}
		offset, err := readUint64(r.src)
		if err != nil {
			return "", nil, newFormatError("reading topic index offset", err)
		}
		entries = append(entries, IndexEntry102{Time: t, Offset: offset})
	}
	return topic, entries, nil
}

// readTopicInfoAt seeks to a topic's first index entry and reads the
// message-definition record found there. V1.2 indexed bags place that
// record at exactly the first entry's offset, immediately before the
// topic's first message record.
func (r *v102IndexedReader) readTopicInfoAt(offset uint64) (TopicInfo, error) {
	if err := r.src.SeekAbs(int64(offset)); err != nil {
		return TopicInfo{}, newGeneralError("seeking to topic definition", err)
	}
	return readMsgDefRecord(r.src)
}

// readMessageAt retrieves and deserializes the message record at entry's
// absolute file offset.
func (r *v102IndexedReader) readMessageAt(topic string, entry IndexEntry102, cache *schemaCache) (Message, error) {
	if err := r.src.SeekAbs(int64(entry.Offset)); err != nil {
		return Message{}, newGeneralError("seeking to message", err)
	}
	if _, err := nextMessageDataHeader(r.src); err != nil {
		return Message{}, err
	}
	info, ok := r.topicInfos[topic]
	if !ok {
		return Message{}, newGeneralError("", &unknownTopicError{Topic: topic})
	}
	factory, err := cache.factoryFor(info)
	if err != nil {
		return Message{}, err
	}
	data, err := readRecordData(r.src)
	if err != nil {
		return Message{}, err
	}
	value, err := factory.Deserialize(data)
	if err != nil {
		return Message{}, newGeneralError("deserializing message on topic "+topic, err)
	}
	return Message{Topic: topic, Datatype: info.Datatype, Time: entry.Time, Value: value}, nil
}
