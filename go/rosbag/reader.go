package rosbag

// nextMessageDataHeader reads record headers from src, transparently
// skipping any message-definition records (0x01) along with their data
// blobs, until a non-0x01 record is found. That record must be a message
// data record (0x02); anything else is a FormatError. This is the "skip
// 0x01 until 0x02" discipline used by the V1.3 and V1.2-indexed readers; the
// V1.2-unindexed reader applies the same rule inside its own scan loop.
func nextMessageDataHeader(src ByteSource) (header, error) {
	for {
		h, err := readRecordHeader(src)
		if err != nil {
			return nil, err
		}
		op, err := h.op()
		if err != nil {
			return nil, err
		}
		if op == OpMsgDef {
			if err := skipRecordData(src); err != nil {
				return nil, err
			}
			continue
		}
		if op != OpMsgData {
			return nil, newFormatError("expecting message data record", &ErrUnexpectedOp{Expected: OpMsgData, Actual: op})
		}
		return h, nil
	}
}

// parseMsgDefRecord parses a message-definition record (opcode 0x01) whose
// header has already been read into h, and discards its data blob.
func parseMsgDefRecord(src ByteSource, h header) (TopicInfo, error) {
	if err := assertOp(h, OpMsgDef); err != nil {
		return TopicInfo{}, err
	}
	topic, err := fieldString(h, "topic")
	if err != nil {
		return TopicInfo{}, err
	}
	datatype, err := fieldString(h, "type")
	if err != nil {
		return TopicInfo{}, err
	}
	md5sum, err := fieldString(h, "md5")
	if err != nil {
		return TopicInfo{}, err
	}
	msgDef, err := fieldString(h, "def")
	if err != nil {
		return TopicInfo{}, err
	}
	if err := skipRecordData(src); err != nil {
		return TopicInfo{}, err
	}
	return TopicInfo{Topic: topic, Datatype: datatype, MD5Sum: md5sum, MsgDef: msgDef}, nil
}

// readMsgDefRecord reads and parses a full message-definition record
// (header and data).
func readMsgDefRecord(src ByteSource) (TopicInfo, error) {
	h, err := readRecordHeader(src)
	if err != nil {
		return TopicInfo{}, err
	}
	return parseMsgDefRecord(src, h)
}
