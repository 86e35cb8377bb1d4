package rosbag

import (
	"bytes"
	"regexp"
	"strconv"
)

var versionLineRe = regexp.MustCompile(`^#ROS(.*) V(\d)\.(\d)$`)

// readVersion reads the first line of src (up to and including its
// trailing newline), strips trailing whitespace, and matches it against
// "#ROS<tag> V<M>.<m>". The returned version is M*100 + m. Any other
// first-line content is a FormatError.
func readVersion(src ByteSource) (int, error) {
	line, err := src.ReadLine()
	if err != nil {
		return 0, newFormatError("reading version banner", err)
	}
	line = bytes.TrimRight(line, " \t\r\n")
	matches := versionLineRe.FindSubmatch(line)
	if matches == nil {
		return 0, newFormatError("rosbag does not support "+string(line), nil)
	}
	major, err := strconv.Atoi(string(matches[2]))
	if err != nil {
		return 0, newFormatError("parsing major version", err)
	}
	minor, err := strconv.Atoi(string(matches[3]))
	if err != nil {
		return 0, newFormatError("parsing minor version", err)
	}
	return major*100 + minor, nil
}

// versionReader is the capability set a version-specific reader variant
// must implement. startReading performs the one-time parse of file header,
// index region, and chunk tables.
//
// Message retrieval is not part of this interface: Bag calls each variant's
// own method directly (readMessageAt for V1.3 and V1.2-indexed, which
// retrieve by index entry; decodeMessages for V1.2-unindexed, which only
// replays the single forward pass made by startReading).
type versionReader interface {
	startReading() error
}

// probeV102Kind peeks the first record after the version banner to decide
// whether a V1.2 bag is the indexed or unindexed layout, then restores the
// read position.
func probeV102Kind(src ByteSource) (indexed bool, err error) {
	pos, err := src.Tell()
	if err != nil {
		return false, newGeneralError("reading position", err)
	}
	h, err := readRecordHeader(src)
	if err != nil {
		return false, err
	}
	op, err := h.op()
	if err != nil {
		return false, err
	}
	if err := src.SeekAbs(pos); err != nil {
		return false, newGeneralError("restoring position", err)
	}
	return op == OpFileHeader, nil
}
