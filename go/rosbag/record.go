package rosbag

import (
	"bytes"
	"fmt"
	"io"
)

// OpCode classifies a record by the value of its mandatory "op" header
// field. Opcodes 0x05 and 0x06 only occur in V1.3 bags.
type OpCode uint8

const (
	OpMsgDef    OpCode = 0x01
	OpMsgData   OpCode = 0x02
	OpFileHeader OpCode = 0x03
	OpIndexData OpCode = 0x04
	OpChunk     OpCode = 0x05
	OpChunkInfo OpCode = 0x06
)

func (op OpCode) String() string {
	switch op {
	case OpMsgDef:
		return "message definition"
	case OpMsgData:
		return "message data"
	case OpFileHeader:
		return "file header"
	case OpIndexData:
		return "topic index"
	case OpChunk:
		return "chunk"
	case OpChunkInfo:
		return "chunk info"
	default:
		return fmt.Sprintf("<unrecognized opcode %#x>", byte(op))
	}
}

// header is a parsed record header: a name -> raw value mapping decoded from
// a packed sequence of length-prefixed "name=value" fields. Field order is
// not preserved; duplicate names keep the last occurrence, matching the
// reference implementation's dict-assignment behavior.
type header map[string][]byte

// readHeader parses a header blob into a name->value map. A field whose
// declared size runs off the end of the blob, or which contains no '='
// separator, is a FormatError.
func readHeader(blob []byte) (header, error) {
	h := make(header)
	for len(blob) > 0 {
		if len(blob) < 4 {
			return nil, newFormatError("truncated header field length", nil)
		}
		fieldLen, err := unpackUint32(blob[:4])
		if err != nil {
			return nil, newFormatError("reading header field length", err)
		}
		blob = blob[4:]
		if uint32(len(blob)) < fieldLen {
			return nil, newFormatError(
				fmt.Sprintf("header field declares %d bytes but only %d remain", fieldLen, len(blob)), nil)
		}
		field := blob[:fieldLen]
		sep := bytes.IndexByte(field, '=')
		if sep < 0 {
			return nil, newFormatError("header field missing '=' separator", nil)
		}
		name := string(field[:sep])
		value := make([]byte, len(field[sep+1:]))
		copy(value, field[sep+1:])
		h[name] = value
		blob = blob[fieldLen:]
	}
	return h, nil
}

// readRecordHeader reads the header blob of the next record from r and
// parses it.
func readRecordHeader(r io.Reader) (header, error) {
	blob, err := readSized(r)
	if err != nil {
		return nil, newFormatError("reading record header", err)
	}
	return readHeader(blob)
}

// readRecordData reads the data blob of the current record from r and
// returns its contents.
func readRecordData(r io.Reader) ([]byte, error) {
	blob, err := readSized(r)
	if err != nil {
		return nil, newFormatError("reading record data", err)
	}
	return blob, nil
}

// skipRecordData reads and discards the data blob of the current record.
func skipRecordData(r io.Reader) error {
	_, err := readRecordData(r)
	return err
}

// op returns the mandatory "op" field of h as an OpCode.
func (h header) op() (OpCode, error) {
	if _, ok := h["op"]; !ok {
		return 0, newFormatError("reading record op", ErrMissingOp)
	}
	v, err := fieldUint8(h, "op")
	if err != nil {
		return 0, err
	}
	return OpCode(v), nil
}

// assertOp fetches h's op field and requires it equal expected.
func assertOp(h header, expected OpCode) error {
	op, err := h.op()
	if err != nil {
		return err
	}
	if op != expected {
		return newFormatError("unexpected record op", &ErrUnexpectedOp{Expected: expected, Actual: op})
	}
	return nil
}
