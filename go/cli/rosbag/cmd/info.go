package cmd

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/machshev/ros/go/ros1msg"
	"github.com/machshev/ros/go/rosbag"
)

// openBag opens path as a ROS bag using the ros1msg package's ROS1 .msg
// deserializer, the CLI's only concrete SchemaCompiler.
func openBag(path string) (*rosbag.Bag, error) {
	src, err := rosbag.OpenFile(path)
	if err != nil {
		return nil, err
	}
	return rosbag.Open(src, rosbag.WithSchemaCompiler(ros1msg.Compiler{}))
}

func printSummaryRows(w io.Writer, rows [][]string) error {
	buf := &bytes.Buffer{}
	tw := tablewriter.NewWriter(buf)
	tw.SetBorder(false)
	tw.SetAutoWrapText(false)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetColumnSeparator("")
	tw.AppendBulk(rows)
	tw.Render()
	// This tablewriter puts a leading space on the lines for some reason, so
	// remove it.
	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		fmt.Fprintln(w, strings.TrimLeft(scanner.Text(), " "))
	}
	return scanner.Err()
}

func printInfo(w io.Writer, bag *rosbag.Bag) error {
	rows := [][]string{
		{"version:", fmt.Sprintf("%d.%d", bag.Version()/100, bag.Version()%100)},
	}
	if err := printSummaryRows(w, rows); err != nil {
		return err
	}

	fmt.Fprintf(w, "topics:\n")
	topicRows := [][]string{}
	for _, ti := range bag.TopicInfos() {
		topicRows = append(topicRows, []string{"\t" + ti.Topic, ti.Datatype, ti.MD5Sum})
	}
	if err := printSummaryRows(w, topicRows); err != nil {
		return err
	}

	chunks := bag.ChunkInfos()
	if len(chunks) == 0 {
		return nil
	}
	fmt.Fprintf(w, "chunks: %d\n", len(chunks))
	for i, ci := range chunks {
		fmt.Fprintf(w, "\t[%d] %s -> %s, %d topics\n", i, ci.StartTime, ci.EndTime, len(ci.TopicCounts))
	}
	return nil
}

var infoCmd = &cobra.Command{
	Use:   "info [file]",
	Short: "Report topics, chunks, and version for a ROS bag file",
	Run: func(_ *cobra.Command, args []string) {
		if len(args) != 1 {
			die("expected exactly one file argument")
		}
		bag, err := openBag(args[0])
		if err != nil {
			die("failed to open %s: %s", args[0], err)
		}
		defer bag.Close()
		if err := printInfo(os.Stdout, bag); err != nil {
			die("failed to print info: %s", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
