package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rosbag",
	Short: "Inspect and read ROS bag files (V1.2 and V1.3)",
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func die(s string, args ...any) {
	fmt.Fprintln(os.Stderr, color.RedString(s, args...))
	os.Exit(1)
}
