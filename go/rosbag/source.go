package rosbag

import "io"

// ByteSource is the seekable byte source the core reads from: read(n),
// seek(abs), seek_cur(delta), tell, plus a readline used only for the
// version banner.
//
// Concrete byte sources (e.g. FileSource) additionally implement io.Closer;
// Bag.Close calls it if present.
type ByteSource interface {
	io.Reader

	// SeekAbs repositions the source to an absolute byte offset from the
	// start of the stream.
	SeekAbs(offset int64) error

	// SeekCur repositions the source by delta bytes relative to the
	// current position.
	SeekCur(delta int64) error

	// Tell returns the current byte offset from the start of the stream.
	Tell() (int64, error)

	// ReadLine reads up to and including the next '\n', or to EOF. It is
	// used only to read the version banner.
	ReadLine() ([]byte, error)
}
