package ros1msg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompilerRoundTrip(t *testing.T) {
	compiler := Compiler{}
	factory, err := compiler.Compile("std_msgs/String", "string data\n")
	require.NoError(t, err)

	payload := append(u32(uint32(len("hi"))), []byte("hi")...)
	value, err := factory.Deserialize(payload)
	require.NoError(t, err)

	v, ok := value.(Value)
	require.True(t, ok)
	assert.Equal(t, "hi", v["data"])
}

func TestCompilerSkipsLinesContainingEquals(t *testing.T) {
	compiler := Compiler{}
	_, err := compiler.Compile("bad/Type", "not a valid field line ===\n")
	assert.NoError(t, err) // a line with '=' is taken as a constant declaration and skipped, not rejected

	_, err = compiler.Compile("std_msgs/Header", "uint32 seq\ntime stamp\nstring frame_id\n")
	require.NoError(t, err)
}
