package rosbag

// rawCompiler is the schema compiler used by this package's own tests: it
// returns the message payload untouched, so tests can assert on bytes
// without depending on go/ros1msg.
type rawCompiler struct{}

func (rawCompiler) Compile(datatype, msgDef string) (MessageFactory, error) {
	return rawFactory{}, nil
}

type rawFactory struct{}

func (rawFactory) Deserialize(data []byte) (interface{}, error) {
	return data, nil
}
