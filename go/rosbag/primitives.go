package rosbag

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Time is a ROS timestamp: seconds and nanoseconds since the epoch, encoded
// on disk as two consecutive little-endian u32 values.
type Time struct {
	Secs  uint32
	Nsecs uint32
}

func (t Time) String() string {
	return fmt.Sprintf("%d.%09d", t.Secs, t.Nsecs)
}

// Before reports whether t occurred strictly before other.
func (t Time) Before(other Time) bool {
	if t.Secs != other.Secs {
		return t.Secs < other.Secs
	}
	return t.Nsecs < other.Nsecs
}

// readFull reads exactly len(buf) bytes from r, turning a short read into a
// FormatError rather than returning io.ErrUnexpectedEOF to the caller.
func readFull(r io.Reader, buf []byte) error {
	_, err := io.ReadFull(r, buf)
	if err != nil {
		return newFormatError(fmt.Sprintf("expecting %d bytes", len(buf)), ErrShortRead)
	}
	return nil
}

func readUint8(r io.Reader) (uint8, error) {
	var buf [1]byte
	if err := readFull(r, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func readUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if err := readFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func readUint64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if err := readFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

func readTime(r io.Reader) (Time, error) {
	var buf [8]byte
	if err := readFull(r, buf[:]); err != nil {
		return Time{}, err
	}
	return Time{
		Secs:  binary.LittleEndian.Uint32(buf[0:4]),
		Nsecs: binary.LittleEndian.Uint32(buf[4:8]),
	}, nil
}

// readSized reads a u32 length prefix L followed by exactly L bytes. A short
// read on either the length or the payload is a FormatError.
func readSized(r io.Reader) ([]byte, error) {
	size, err := readUint32(r)
	if err != nil {
		return nil, newFormatError("reading sized blob length", err)
	}
	buf := make([]byte, size)
	if err := readFull(r, buf); err != nil {
		return nil, newFormatError("reading sized blob", err)
	}
	return buf, nil
}

func unpackUint8(v []byte) (uint8, error) {
	if len(v) != 1 {
		return 0, newFormatError(fmt.Sprintf("expected 1 byte for u8, got %d", len(v)), nil)
	}
	return v[0], nil
}

func unpackUint32(v []byte) (uint32, error) {
	if len(v) != 4 {
		return 0, newFormatError(fmt.Sprintf("expected 4 bytes for u32, got %d", len(v)), nil)
	}
	return binary.LittleEndian.Uint32(v), nil
}

func unpackUint64(v []byte) (uint64, error) {
	if len(v) != 8 {
		return 0, newFormatError(fmt.Sprintf("expected 8 bytes for u64, got %d", len(v)), nil)
	}
	return binary.LittleEndian.Uint64(v), nil
}

func unpackTime(v []byte) (Time, error) {
	if len(v) != 8 {
		return Time{}, newFormatError(fmt.Sprintf("expected 8 bytes for time, got %d", len(v)), nil)
	}
	return Time{
		Secs:  binary.LittleEndian.Uint32(v[0:4]),
		Nsecs: binary.LittleEndian.Uint32(v[4:8]),
	}, nil
}
