package rosbag

import "fmt"

// fieldRaw returns the raw bytes of a named header field, or a FormatError
// if absent.
func fieldRaw(h header, name string) ([]byte, error) {
	v, ok := h[name]
	if !ok {
		return nil, newFormatError(fmt.Sprintf("expected %q field in record", name), nil)
	}
	return v, nil
}

// fieldString decodes a header field as a str value: all remaining bytes of
// the field, verbatim.
func fieldString(h header, name string) (string, error) {
	v, err := fieldRaw(h, name)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

// fieldUint8 decodes a header field as a single-byte u8 value.
func fieldUint8(h header, name string) (uint8, error) {
	v, err := fieldRaw(h, name)
	if err != nil {
		return 0, err
	}
	x, err := unpackUint8(v)
	if err != nil {
		return 0, newFormatError(fmt.Sprintf("reading field %q", name), err)
	}
	return x, nil
}

// fieldUint32 decodes a header field as a little-endian u32 value.
func fieldUint32(h header, name string) (uint32, error) {
	v, err := fieldRaw(h, name)
	if err != nil {
		return 0, err
	}
	x, err := unpackUint32(v)
	if err != nil {
		return 0, newFormatError(fmt.Sprintf("reading field %q", name), err)
	}
	return x, nil
}

// fieldUint64 decodes a header field as a little-endian u64 value.
func fieldUint64(h header, name string) (uint64, error) {
	v, err := fieldRaw(h, name)
	if err != nil {
		return 0, err
	}
	x, err := unpackUint64(v)
	if err != nil {
		return 0, newFormatError(fmt.Sprintf("reading field %q", name), err)
	}
	return x, nil
}

// fieldTime decodes a header field as a (secs, nsecs) time value.
func fieldTime(h header, name string) (Time, error) {
	v, err := fieldRaw(h, name)
	if err != nil {
		return Time{}, err
	}
	t, err := unpackTime(v)
	if err != nil {
		return Time{}, newFormatError(fmt.Sprintf("reading field %q", name), err)
	}
	return t, nil
}
