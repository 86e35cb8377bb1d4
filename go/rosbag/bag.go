package rosbag

// Bag is a parsed ROS bag. Open dispatches on the version banner to one of
// the three layout readers and drives that reader's one-time index parse;
// everything after Open is random-access message retrieval through the
// resulting tables.
type Bag struct {
	src     ByteSource
	version int
	cache   *schemaCache

	v103 *v103Reader
	v102i *v102IndexedReader
	v102u *v102UnindexedReader
}

// Open reads the version banner from src and parses the bag's index
// according to the layout it names. On any error src is closed (if it
// implements io.Closer) before the error is returned.
func Open(src ByteSource, opts ...Option) (*Bag, error) {
	cfg := newConfig(opts)

	version, err := readVersion(src)
	if err != nil {
		closeSource(src)
		return nil, err
	}

	b := &Bag{src: src, version: version, cache: newSchemaCache(cfg.compiler)}

	var reader versionReader
	switch version {
	case 103:
		b.v103 = newV103Reader(src)
		reader = b.v103
	case 102:
		indexed, err := probeV102Kind(src)
		if err != nil {
			closeSource(src)
			return nil, err
		}
		if indexed {
			b.v102i = newV102IndexedReader(src)
			reader = b.v102i
		} else {
			b.v102u = newV102UnindexedReader(src)
			reader = b.v102u
		}
	default:
		closeSource(src)
		return nil, newFormatError("", &ErrUnsupportedVersion{Version: version})
	}

	if err := reader.startReading(); err != nil {
		closeSource(src)
		return nil, err
	}
	return b, nil
}

func closeSource(src ByteSource) {
	if c, ok := src.(interface{ Close() error }); ok {
		_ = c.Close()
	}
}

// Close releases the underlying byte source, if it is closeable, and drops
// the bag's schema cache and decompressed-chunk cache.
func (b *Bag) Close() error {
	b.cache = nil
	if b.v103 != nil {
		b.v103.cache = chunkCache{}
	}
	if c, ok := b.src.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// Version returns the bag's format version: 102 or 103.
func (b *Bag) Version() int {
	return b.version
}

// TopicInfos returns the bag's topics in the order they were first seen
// while parsing the index.
func (b *Bag) TopicInfos() []TopicInfo {
	var order []string
	var infos map[string]TopicInfo
	switch {
	case b.v103 != nil:
		order, infos = b.v103.topicOrder, b.v103.topicInfos
	case b.v102i != nil:
		order, infos = b.v102i.topicOrder, b.v102i.topicInfos
	case b.v102u != nil:
		order, infos = b.v102u.topicOrder, b.v102u.topicInfos
	}
	out := make([]TopicInfo, 0, len(order))
	for _, topic := range order {
		out = append(out, infos[topic])
	}
	return out
}

// ChunkInfos returns the bag's chunk metadata in file order. It is only
// populated for V1.3 bags; other versions return nil.
func (b *Bag) ChunkInfos() []ChunkInfo {
	if b.v103 == nil {
		return nil
	}
	return b.v103.chunkInfos
}

// GetMessages returns every message in the bag, ordered by topic-visitation
// order and then by each topic's index order (the order entries were
// written to the topic index, not sorted by time — no global time ordering
// is synthesized). For V1.2 unindexed bags — which have no index and can
// only be scanned once — this returns the single forward pass captured
// during Open.
func (b *Bag) GetMessages() ([]Message, error) {
	switch {
	case b.v103 != nil:
		return b.messagesV103()
	case b.v102i != nil:
		return b.messagesV102Indexed()
	case b.v102u != nil:
		return b.v102u.decodeMessages(b.cache)
	default:
		return nil, newGeneralError("bag has no active reader", nil)
	}
}

func (b *Bag) messagesV103() ([]Message, error) {
	var out []Message
	for _, topic := range b.v103.topicOrder {
		for _, entry := range b.v103.topicIndexes[topic] {
			msg, err := b.v103.readMessageAt(topic, entry, b.cache)
			if err != nil {
				return nil, err
			}
			out = append(out, msg)
		}
	}
	return out, nil
}

func (b *Bag) messagesV102Indexed() ([]Message, error) {
	var out []Message
	for _, topic := range b.v102i.topicOrder {
		for _, entry := range b.v102i.topicIndexes[topic] {
			msg, err := b.v102i.readMessageAt(topic, entry, b.cache)
			if err != nil {
				return nil, err
			}
			out = append(out, msg)
		}
	}
	return out, nil
}
