package rosbag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupSchemaCanonicalAndAlias(t *testing.T) {
	def, md5, ok := lookupSchema("std_msgs/msg/Int8")
	assert.True(t, ok)
	assert.Equal(t, "int8 data\n", def)
	assert.Equal(t, "27ffa0c9c4b8fb8492252bcad9e5c57b", md5)

	aliasDef, aliasMd5, ok := lookupSchema("std_msgs/Int8")
	assert.True(t, ok)
	assert.Equal(t, def, aliasDef)
	assert.Equal(t, md5, aliasMd5)
}

func TestLookupSchemaUnknown(t *testing.T) {
	_, _, ok := lookupSchema("nope/msg/Nothing")
	assert.False(t, ok)
}

func TestImuAndImageSchemasArePresent(t *testing.T) {
	for _, name := range []string{
		"sensor_msgs/msg/Imu", "sensor_msgs/Imu",
		"sensor_msgs/msg/Image", "sensor_msgs/Image",
		"sensor_msgs/msg/CompressedImage", "sensor_msgs/CompressedImage",
	} {
		_, _, ok := lookupSchema(name)
		assert.True(t, ok, name)
	}
}
