package rosbag

import "strings"

type schemaEntry struct {
	msgDef string
	md5Sum string
}

// predefinedSchemas maps well-known msgtype strings to their (msgdef,
// md5sum) pair. Each entry is registered under both its canonical
// "/msg/"-qualified key and a legacy alias with "/msg/" replaced by "/",
// matching the two spellings found across ROS1 tooling.
var predefinedSchemas = buildPredefinedSchemas()

func buildPredefinedSchemas() map[string]schemaEntry {
	base := map[string]schemaEntry{
		"std_msgs/msg/Int8": {
			msgDef: "int8 data\n",
			md5Sum: "27ffa0c9c4b8fb8492252bcad9e5c57b",
		},
		"sensor_msgs/msg/CompressedImage": {
			msgDef: compressedImageDefinition,
			md5Sum: "8f7a12909da2c9d3332d540a0977563f",
		},
		"sensor_msgs/msg/Image": {
			msgDef: imageDefinition,
			md5Sum: "060021388200f6f0f447d0fcd9c64743",
		},
		"sensor_msgs/msg/Imu": {
			msgDef: imuDefinition,
			md5Sum: "6a62c6daae103f4ff57a132d6f95cec2",
		},
	}
	out := make(map[string]schemaEntry, len(base)*2)
	for k, v := range base {
		out[k] = v
		out[strings.Replace(k, "/msg/", "/", 1)] = v
	}
	return out
}

// lookupSchema returns the predefined (msgdef, md5sum) for msgtype, if
// any.
func lookupSchema(msgtype string) (msgdef, md5sum string, ok bool) {
	e, ok := predefinedSchemas[msgtype]
	if !ok {
		return "", "", false
	}
	return e.msgDef, e.md5Sum, true
}

const headerDefinition = `
================================================================================
MSG: std_msgs/Header
# Standard metadata for higher-level stamped data types.
# This is generally used to communicate timestamped data
# in a particular coordinate frame.
#
# sequence ID: consecutively increasing ID
uint32 seq
#Two-integer timestamp that is expressed as:
# * stamp.sec: seconds (stamp_secs) since epoch (in Python the variable is called 'secs')
# * stamp.nsec: nanoseconds since stamp_secs (in Python the variable is called 'nsecs')
# time-handling sugar is provided by the client library
time stamp
#Frame this data is associated with
string frame_id
`

const compressedImageDefinition = `# This message contains a compressed image

Header header        # Header timestamp should be acquisition time of image
                      # Header frame_id should be optical frame of camera
                      # origin of frame should be optical center of camera
                      # +x should point to the right in the image
                      # +y should point down in the image
                      # +z should point into to plane of the image

string format         # Specifies the format of the data
                      # Acceptable values:
                      #   jpeg, png
uint8[] data          # Compressed image buffer
` + headerDefinition

const imageDefinition = `# This message contains an uncompressed image
# (0, 0) is at top-left corner of image
#

Header header        # Header timestamp should be acquisition time of image
                      # Header frame_id should be optical frame of camera
                      # origin of frame should be optical center of camera
                      # +x should point to the right in the image
                      # +y should point down in the image
                      # +z should point into to plane of the image
                      # If the frame_id here and the frame_id of the CameraInfo
                      # message associated with the image conflict
                      # the behavior is undefined

uint32 height         # image height, that is, number of rows
uint32 width          # image width, that is, number of columns

# The legal values for encoding are in file src/image_encodings.cpp
# If you want to standardize a new string format, join
# ros-users@lists.ros.org and send an email proposing a new encoding.

string encoding       # Encoding of pixels -- channel meaning, ordering, size
                      # taken from the list of strings in include/sensor_msgs/image_encodings.h

uint8 is_bigendian    # is this data bigendian?
uint32 step           # Full row length in bytes
uint8[] data          # actual matrix data, size is (step * rows)
` + headerDefinition

const imuDefinition = `# This is a message to hold data from an IMU (Inertial Measurement Unit)
#
# Accelerometer, Gyroscope, and Magnetometer data.
#
# If the covariance of the measurement is known, it should be filled in
# (if all you know is the variance of each measurement, e.g. from the
# datasheet, just put those along the diagonal)
# A covariance matrix of all zeros will be interpreted as "covariance
# unknown", and to use the data a covariance will have to be assumed or
# gotten from some other source
#
# If you have no estimate for one of the data elements (e.g. your
# IMU doesn't produce an orientation estimate), please set element 0
# of the associated covariance matrix to -1
# If you are interpreting this message, please check for a value of
# -1 in the first element of each covariance matrix, and disregard the
# associated estimate.

Header header

geometry_msgs/Quaternion orientation
float64[9] orientation_covariance # Row major about x, y, z axes

geometry_msgs/Vector3 angular_velocity
float64[9] angular_velocity_covariance # Row major about x, y, z axes

geometry_msgs/Vector3 linear_acceleration
float64[9] linear_acceleration_covariance # Row major x, y z
` + headerDefinition + `
================================================================================
MSG: geometry_msgs/Quaternion
# This represents an orientation in free space in quaternion form.

float64 x
float64 y
float64 z
float64 w

================================================================================
MSG: geometry_msgs/Vector3
# This represents a vector in free space.

# This is semantically different than a point, a point is a position, with the philosophical connotation that it is a local frame that is being
# described. A vector is more abstract, having no connotation of position.

float64 x
float64 y
float64 z
`
