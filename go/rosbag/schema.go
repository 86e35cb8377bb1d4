package rosbag

import "fmt"

// Message is a decoded, schema-free view of a single message payload: the
// topic and datatype it was read from, and the value the configured
// MessageFactory produced from its serialized bytes.
type Message struct {
	Topic    string
	Datatype string
	Time     Time
	Value    interface{}
}

// MessageFactory deserializes the raw bytes of one message's data blob into
// a decoded value, for a single datatype. SchemaCompiler.Compile returns one
// of these per datatype; the Bag caches the result for its lifetime.
type MessageFactory interface {
	Deserialize(data []byte) (interface{}, error)
}

// SchemaCompiler is the message schema compiler: given a datatype name and
// its textual message definition, it returns a factory capable of
// deserializing that type's wire bytes. Implementations may return an
// error if the definition is malformed; the Bag wraps that as a
// GeneralError.
//
// go/ros1msg provides a concrete implementation grounded in the ROS1 msg
// wire format; callers may supply any other implementation via
// WithSchemaCompiler.
type SchemaCompiler interface {
	Compile(datatype string, msgDef string) (MessageFactory, error)
}

// schemaCache caches one MessageFactory per datatype for a Bag's lifetime,
// so a datatype's deserializer is generated at most once per Bag.
type schemaCache struct {
	compiler  SchemaCompiler
	factories map[string]MessageFactory
}

func newSchemaCache(compiler SchemaCompiler) *schemaCache {
	return &schemaCache{
		compiler:  compiler,
		factories: make(map[string]MessageFactory),
	}
}

func (c *schemaCache) factoryFor(info TopicInfo) (MessageFactory, error) {
	if f, ok := c.factories[info.Datatype]; ok {
		return f, nil
	}
	if c.compiler == nil {
		return nil, newGeneralError(
			fmt.Sprintf("cannot deserialize messages of type %q: no schema compiler configured", info.Datatype), nil)
	}
	f, err := c.compiler.Compile(info.Datatype, info.MsgDef)
	if err != nil {
		return nil, newGeneralError(fmt.Sprintf("generating deserializer for datatype %q", info.Datatype), err)
	}
	c.factories[info.Datatype] = f
	return f, nil
}
