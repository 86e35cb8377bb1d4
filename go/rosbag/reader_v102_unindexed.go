package rosbag

import (
	"errors"
	"io"
)

// v102UnindexedReader implements the V1.2 unindexed bag layout: there is no
// file header and no index region at all. Messages can only be visited
// once, forward, in file order; random access and a second pass both
// require reopening the byte source from scratch.
type v102UnindexedReader struct {
	src ByteSource

	topicInfos map[string]TopicInfo
	topicOrder []string
	messages   []Message
}

func newV102UnindexedReader(src ByteSource) *v102UnindexedReader {
	return &v102UnindexedReader{
		topicInfos: make(map[string]TopicInfo),
		src:        src,
	}
}

// startReading performs the one forward pass this layout allows: every
// message-definition record updates the "current" TopicInfo for its topic,
// and every message-data record's raw payload is captured under the most
// recently defined topic. Nothing is decoded here; decodeMessages decodes
// the captured payloads afterwards through the shared schemaCache.
//
// The reference implementation prints each record's fields to stdout as a
// diagnostic while it scans; that side effect has no bearing on bag
// contents and is not reproduced here.
func (r *v102UnindexedReader) startReading() error {
	var currentTopic string
	for {
		h, err := readRecordHeader(r.src)
		if err == io.EOF {
			return nil
		}
		if errors.Is(err, ErrShortRead) {
			return nil
		}
		if err != nil {
			return err
		}
		op, err := h.op()
		if err != nil {
			return err
		}
		switch op {
		case OpMsgDef:
			info, err := parseMsgDefRecord(r.src, h)
			if err != nil {
				return err
			}
			r.topicInfos[info.Topic] = info
			if _, seen := seenTopic(r.topicOrder, info.Topic); !seen {
				r.topicOrder = append(r.topicOrder, info.Topic)
			}
			currentTopic = info.Topic
		case OpMsgData:
			if currentTopic == "" {
				return newFormatError("message data record with no preceding message definition", nil)
			}
			t, err := fieldTime(h, "time")
			if err != nil {
				return err
			}
			data, err := readRecordData(r.src)
			if err != nil {
				return err
			}
			r.messages = append(r.messages, Message{
				Topic:    currentTopic,
				Datatype: r.topicInfos[currentTopic].Datatype,
				Time:     t,
				Value:    data,
			})
		default:
			return newFormatError("unexpected record in unindexed bag", &ErrUnexpectedOp{Expected: OpMsgData, Actual: op})
		}
	}
}

func seenTopic(order []string, topic string) (int, bool) {
	for i, t := range order {
		if t == topic {
			return i, true
		}
	}
	return -1, false
}

// decodeMessages deserializes the raw payloads collected during
// startReading through cache, now that every topic's definition is known.
// Decoding is deferred to this second step — rather than performed inline
// during the scan — so a single schemaCache.factoryFor lookup per datatype
// is reused across all of that datatype's messages.
func (r *v102UnindexedReader) decodeMessages(cache *schemaCache) ([]Message, error) {
	out := make([]Message, 0, len(r.messages))
	for _, m := range r.messages {
		info, ok := r.topicInfos[m.Topic]
		if !ok {
			return nil, newGeneralError("", &unknownTopicError{Topic: m.Topic})
		}
		factory, err := cache.factoryFor(info)
		if err != nil {
			return nil, err
		}
		raw, _ := m.Value.([]byte)
		value, err := factory.Deserialize(raw)
		if err != nil {
			return nil, newGeneralError("deserializing message on topic "+m.Topic, err)
		}
		out = append(out, Message{Topic: m.Topic, Datatype: m.Datatype, Time: m.Time, Value: value})
	}
	return out, nil
}
