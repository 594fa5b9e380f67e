package cmd

import (
	"context"
	"fmt"

	"github.com/asadm/rosbags/rosbag"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	writeOut      string
	writeMessages int
	writeTopic    string
	writeMsgType  string
	writeS3Bucket string
)

var writeCmd = &cobra.Command{
	Use:   "write",
	Short: "Write a ROS1 bag file with synthetic messages on one connection",
	Run: func(*cobra.Command, []string) {
		if writeOut == "" {
			die("--out is required")
		}
		if writeMessages < 0 {
			die("--messages must be non-negative")
		}

		topic := writeTopic
		if topic == "" {
			topic = viper.GetString("topic")
		}
		if topic == "" {
			topic = "/synthetic"
		}
		msgtype := writeMsgType
		if msgtype == "" {
			msgtype = viper.GetString("msgtype")
		}
		if msgtype == "" {
			msgtype = "std_msgs/msg/Int8"
		}

		sink, err := resolveSink(context.Background(), writeOut, writeS3Bucket)
		if err != nil {
			die("open sink: %s", err)
		}
		if err := runWrite(sink, topic, msgtype, writeMessages); err != nil {
			die("write failed: %s", err)
		}
		if writeS3Bucket != "" {
			color.Green("wrote %d message(s) to s3://%s/%s", writeMessages, writeS3Bucket, writeOut)
		} else {
			color.Green("wrote %d message(s) to %s", writeMessages, writeOut)
		}
	},
}

// resolveSink picks the Sink implementation for --out: an S3Sink uploading
// to bucket/key when --s3-bucket is set (key is --out), a FileSink
// otherwise. The S3 client is built the same way go/cli/mcap/utils/readers
// builds one for reading: config.LoadDefaultConfig plus s3.NewFromConfig.
func resolveSink(ctx context.Context, out, bucket string) (rosbag.Sink, error) {
	if bucket == "" {
		return rosbag.NewFileSink(out)
	}
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	client := s3.NewFromConfig(cfg)
	return rosbag.NewS3Sink(ctx, client, bucket, out), nil
}

// runWrite drives one full Writer lifecycle: open, add one connection,
// write n synthetic messages, close. It is used by write only; inspect's
// inspectWrite repeats the same sequence without the progress bar.
func runWrite(sink rosbag.Sink, topic, msgtype string, n int) error {
	w, err := rosbag.NewWriter(sink, nil)
	if err != nil {
		return err
	}
	if err := w.Open(); err != nil {
		return err
	}

	handle, err := w.AddConnection(topic, msgtype, nil)
	if err != nil {
		return err
	}

	bar := progressbar.Default(int64(n), "writing messages")
	payload := []byte{0x00}
	for i := 0; i < n; i++ {
		if err := w.Write(handle, int64(i)*int64(1e6), payload); err != nil {
			return err
		}
		if err := bar.Add(1); err != nil {
			return fmt.Errorf("advance progress bar: %w", err)
		}
	}

	return w.Close()
}

func init() {
	rootCmd.AddCommand(writeCmd)
	writeCmd.Flags().StringVar(&writeOut, "out", "", "output bag path, or S3 key when --s3-bucket is set")
	writeCmd.Flags().IntVar(&writeMessages, "messages", 0, "number of synthetic messages to write")
	writeCmd.Flags().StringVar(&writeTopic, "topic", "", "connection topic (default /synthetic)")
	writeCmd.Flags().StringVar(&writeMsgType, "msgtype", "", "connection message type (default std_msgs/msg/Int8)")
	writeCmd.Flags().StringVar(&writeS3Bucket, "s3-bucket", "", "upload to this S3 bucket instead of writing a local file")
}
