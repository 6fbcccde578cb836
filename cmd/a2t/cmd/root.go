package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"audio2text/cmd/a2t/cmd/export"
	"audio2text/cmd/a2t/cmd/history"
	"audio2text/cmd/a2t/cmd/transcribe"
	"audio2text/cmd/a2t/cmd/version"
)

var verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "a2t",
	Short: "Transcribe long audio recordings into text via a remote speech service",
	Long: `Transcribe long audio recordings into text.

The recording is split into bounded segments, each segment is uploaded to a
transient bucket and recognized by the configured speech service, and the
per-segment results are reassembled into one transcript file.`,
	TraverseChildren: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(transcribe.Cmd)
	rootCmd.AddCommand(history.Cmd)
	rootCmd.AddCommand(export.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "V", false, "verbose output")
}
