package main

import "github.com/machshev/ros/go/cli/rosbag/cmd"

func main() {
	cmd.Execute()
}
