package rosbag

// config collects Bag.Open's optional settings, built via the
// functional-options pattern (e.g. mcap.LexerOptions, mcap.ContentIteratorOption).
type config struct {
	compiler SchemaCompiler
}

// Option configures a Bag at Open time.
type Option func(*config)

// WithSchemaCompiler supplies the external schema compiler used to turn a
// topic's (datatype, msg_def) into a MessageFactory. Without one, message
// retrieval fails with GeneralError as soon as a message is requested.
func WithSchemaCompiler(compiler SchemaCompiler) Option {
	return func(c *config) {
		c.compiler = compiler
	}
}

func newConfig(opts []Option) *config {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
