package cmd

import (
	"os"
	"strconv"

	"github.com/asadm/rosbags/rosbag"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	inspectOut      string
	inspectMessages int
	inspectTopic    string
	inspectMsgType  string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Write a bag like 'write' does, then print the Writer's own bookkeeping",
	Run: func(*cobra.Command, []string) {
		if inspectOut == "" {
			die("--out is required")
		}

		topic := inspectTopic
		if topic == "" {
			topic = viper.GetString("topic")
		}
		if topic == "" {
			topic = "/synthetic"
		}
		msgtype := inspectMsgType
		if msgtype == "" {
			msgtype = viper.GetString("msgtype")
		}
		if msgtype == "" {
			msgtype = "std_msgs/msg/Int8"
		}

		stats, chunkCount, err := inspectWrite(inspectOut, topic, msgtype, inspectMessages)
		if err != nil {
			die("inspect failed: %s", err)
		}

		tw := tablewriter.NewWriter(os.Stdout)
		tw.SetHeader([]string{"conn", "topic", "type", "messages"})
		for _, s := range stats {
			tw.Append([]string{
				strconv.FormatUint(uint64(s.ID), 10),
				s.Topic,
				s.MsgType,
				strconv.Itoa(s.MessageCount),
			})
		}
		tw.Render()

		os.Stdout.WriteString("chunks: " + strconv.Itoa(chunkCount) + "\n")
	},
}

// inspectWrite runs the same generation sequence as write, but returns the
// Writer's bookkeeping captured right before Close instead of discarding it.
// This never re-parses the bag it wrote.
func inspectWrite(out, topic, msgtype string, n int) ([]rosbag.ConnectionStats, int, error) {
	sink, err := rosbag.NewFileSink(out)
	if err != nil {
		return nil, 0, err
	}
	w, err := rosbag.NewWriter(sink, nil)
	if err != nil {
		return nil, 0, err
	}
	if err := w.Open(); err != nil {
		return nil, 0, err
	}

	handle, err := w.AddConnection(topic, msgtype, nil)
	if err != nil {
		return nil, 0, err
	}

	payload := []byte{0x00}
	for i := 0; i < n; i++ {
		if err := w.Write(handle, int64(i)*int64(1e6), payload); err != nil {
			return nil, 0, err
		}
	}

	stats := w.Stats()
	chunkCount := w.ChunkCount()

	if err := w.Close(); err != nil {
		return nil, 0, err
	}
	return stats, chunkCount, nil
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVar(&inspectOut, "out", "", "output bag path")
	inspectCmd.Flags().IntVar(&inspectMessages, "messages", 0, "number of synthetic messages to write")
	inspectCmd.Flags().StringVar(&inspectTopic, "topic", "", "connection topic (default /synthetic)")
	inspectCmd.Flags().StringVar(&inspectMsgType, "msgtype", "", "connection message type (default std_msgs/msg/Int8)")
}
