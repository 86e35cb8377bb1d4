package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var catTopics string

func topicFilter() map[string]bool {
	if catTopics == "" {
		return nil
	}
	filter := make(map[string]bool)
	for _, topic := range strings.FieldsFunc(catTopics, func(c rune) bool { return c == ',' }) {
		filter[topic] = true
	}
	return filter
}

var catCmd = &cobra.Command{
	Use:   "cat [file]",
	Short: "Print the decoded messages in a ROS bag file to stdout",
	Run: func(_ *cobra.Command, args []string) {
		if len(args) != 1 {
			die("expected exactly one file argument")
		}
		bag, err := openBag(args[0])
		if err != nil {
			die("failed to open %s: %s", args[0], err)
		}
		defer bag.Close()

		messages, err := bag.GetMessages()
		if err != nil {
			die("failed to read messages: %s", err)
		}

		filter := topicFilter()
		out := bufio.NewWriter(os.Stdout)
		defer out.Flush()
		for _, m := range messages {
			if filter != nil && !filter[m.Topic] {
				continue
			}
			fmt.Fprintf(out, "%s %s [%s] %v\n", m.Time, m.Topic, m.Datatype, m.Value)
		}
	},
}

func init() {
	rootCmd.AddCommand(catCmd)
	catCmd.PersistentFlags().StringVarP(&catTopics, "topics", "", "", "comma-separated list of topics")
}
