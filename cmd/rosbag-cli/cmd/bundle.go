package cmd

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/klauspost/compress/gzip"
	"github.com/pierrec/lz4/v4"
	"github.com/spf13/cobra"
)

var bundleOut string

var bundleCmd = &cobra.Command{
	Use:   "bundle",
	Short: "Concatenate finished bag files and compress the result for distribution",
}

var bundleGzipCmd = &cobra.Command{
	Use:   "gzip SRC...",
	Short: "Concatenate SRC bag files and gzip the concatenation",
	Args:  cobra.MinimumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		if bundleOut == "" {
			die("--out is required")
		}
		out, err := os.Create(bundleOut)
		if err != nil {
			die("create %s: %s", bundleOut, err)
		}
		defer out.Close()

		gw := gzip.NewWriter(out)
		if err := concatInto(gw, args); err != nil {
			die("bundle failed: %s", err)
		}
		if err := gw.Close(); err != nil {
			die("close gzip stream: %s", err)
		}
		color.Green("wrote %s", bundleOut)
	},
}

var bundleLz4Cmd = &cobra.Command{
	Use:   "lz4 SRC...",
	Short: "Concatenate SRC bag files and lz4-compress the concatenation",
	Args:  cobra.MinimumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		if bundleOut == "" {
			die("--out is required")
		}
		out, err := os.Create(bundleOut)
		if err != nil {
			die("create %s: %s", bundleOut, err)
		}
		defer out.Close()

		lw := lz4.NewWriter(out)
		if err := concatInto(lw, args); err != nil {
			die("bundle failed: %s", err)
		}
		if err := lw.Close(); err != nil {
			die("close lz4 stream: %s", err)
		}
		color.Green("wrote %s", bundleOut)
	},
}

// concatInto streams each src file's contents into w, in order. Bundling is
// a post-processing convenience over already-finished bags; it never opens
// them as a Writer or interprets their records.
func concatInto(w io.Writer, srcs []string) error {
	for _, src := range srcs {
		f, err := os.Open(src)
		if err != nil {
			return err
		}
		_, copyErr := io.Copy(w, f)
		closeErr := f.Close()
		if copyErr != nil {
			return copyErr
		}
		if closeErr != nil {
			return closeErr
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(bundleCmd)
	bundleCmd.AddCommand(bundleGzipCmd)
	bundleCmd.AddCommand(bundleLz4Cmd)
	bundleCmd.PersistentFlags().StringVar(&bundleOut, "out", "", "output archive path")
}
