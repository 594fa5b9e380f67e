package main

import "github.com/asadm/rosbags/cmd/rosbag-cli/cmd"

func main() {
	cmd.Execute()
}
