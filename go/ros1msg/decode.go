package ros1msg

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Value is a decoded message, or any nested record within one: field name to
// decoded value. Array fields decode to []interface{}; nested record fields
// decode to Value; everything else decodes to the matching Go primitive.
type Value map[string]interface{}

// decoder walks a little-endian byte slice according to a Field tree,
// mirroring the cursor-style primitive readers the core rosbag package uses
// for record headers, but over an in-memory message payload rather than a
// ByteSource.
type decoder struct {
	data []byte
	pos  int
}

func (d *decoder) need(n int) error {
	if len(d.data)-d.pos < n {
		return fmt.Errorf("message data truncated: need %d bytes, have %d", n, len(d.data)-d.pos)
	}
	return nil
}

func (d *decoder) readN(n int) ([]byte, error) {
	if err := d.need(n); err != nil {
		return nil, err
	}
	b := d.data[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

func (d *decoder) uint32() (uint32, error) {
	b, err := d.readN(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// DecodeMessage decodes data against the top-level fields of a parsed
// message definition.
func DecodeMessage(fields []Field, data []byte) (Value, error) {
	d := &decoder{data: data}
	v, err := decodeFields(d, fields)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func decodeFields(d *decoder, fields []Field) (Value, error) {
	v := make(Value, len(fields))
	for _, f := range fields {
		val, err := decodeValue(d, f.Type)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		v[f.Name] = val
	}
	return v, nil
}

func decodeValue(d *decoder, t Type) (interface{}, error) {
	if t.IsArray {
		return decodeArray(d, t)
	}
	if t.IsRecord {
		return decodeFields(d, t.Fields)
	}
	return decodePrimitive(d, t.BaseType)
}

func decodeArray(d *decoder, t Type) ([]interface{}, error) {
	count := t.FixedSize
	if count == 0 {
		// A declared [0] array is indistinguishable from an unbounded one in
		// this grammar; ROS1 .msg only uses FixedSize==0 to mean "variable".
		n, err := d.uint32()
		if err != nil {
			return nil, fmt.Errorf("reading array length: %w", err)
		}
		count = int(n)
	}
	items := make([]interface{}, 0, count)
	for i := 0; i < count; i++ {
		val, err := decodeValue(d, *t.Items)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		items = append(items, val)
	}
	return items, nil
}

func decodePrimitive(d *decoder, baseType string) (interface{}, error) {
	switch baseType {
	case "bool":
		b, err := d.readN(1)
		if err != nil {
			return nil, err
		}
		return b[0] != 0, nil
	case "int8":
		b, err := d.readN(1)
		if err != nil {
			return nil, err
		}
		return int8(b[0]), nil
	case "uint8", "char", "byte":
		b, err := d.readN(1)
		if err != nil {
			return nil, err
		}
		return b[0], nil
	case "int16":
		b, err := d.readN(2)
		if err != nil {
			return nil, err
		}
		return int16(binary.LittleEndian.Uint16(b)), nil
	case "uint16":
		b, err := d.readN(2)
		if err != nil {
			return nil, err
		}
		return binary.LittleEndian.Uint16(b), nil
	case "int32":
		n, err := d.uint32()
		if err != nil {
			return nil, err
		}
		return int32(n), nil
	case "uint32":
		return d.uint32()
	case "int64":
		b, err := d.readN(8)
		if err != nil {
			return nil, err
		}
		return int64(binary.LittleEndian.Uint64(b)), nil
	case "uint64":
		b, err := d.readN(8)
		if err != nil {
			return nil, err
		}
		return binary.LittleEndian.Uint64(b), nil
	case "float32":
		n, err := d.uint32()
		if err != nil {
			return nil, err
		}
		return math.Float32frombits(n), nil
	case "float64":
		b, err := d.readN(8)
		if err != nil {
			return nil, err
		}
		return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
	case "string":
		n, err := d.uint32()
		if err != nil {
			return nil, fmt.Errorf("reading string length: %w", err)
		}
		b, err := d.readN(int(n))
		if err != nil {
			return nil, err
		}
		return string(b), nil
	case "time", "duration":
		secs, err := d.uint32()
		if err != nil {
			return nil, err
		}
		nsecs, err := d.uint32()
		if err != nil {
			return nil, err
		}
		return [2]uint32{secs, nsecs}, nil
	default:
		return nil, fmt.Errorf("unknown primitive type %q", baseType)
	}
}
