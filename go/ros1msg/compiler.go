package ros1msg

import (
	"fmt"
	"strings"

	"github.com/machshev/ros/go/rosbag"
)

// Compiler is the default rosbag.SchemaCompiler: it parses a ROS1 .msg
// definition into a Field tree once per datatype and returns a factory that
// decodes message bytes against it.
type Compiler struct{}

// Compile parses msgDef's ROS1 .msg grammar and returns a factory that
// decodes messages of datatype against the resulting field tree. The parent
// package used to resolve unqualified nested-type references is taken from
// datatype's own package prefix.
func (Compiler) Compile(datatype, msgDef string) (rosbag.MessageFactory, error) {
	pkg := datatype
	if idx := strings.Index(datatype, "/"); idx >= 0 {
		pkg = datatype[:idx]
	}
	fields, err := ParseMessageDefinition(pkg, []byte(msgDef))
	if err != nil {
		return nil, fmt.Errorf("parsing definition for %s: %w", datatype, err)
	}
	return &factory{fields: fields}, nil
}

type factory struct {
	fields []Field
}

func (f *factory) Deserialize(data []byte) (interface{}, error) {
	return DecodeMessage(f.fields, data)
}
