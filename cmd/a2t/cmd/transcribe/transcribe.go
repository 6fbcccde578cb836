package transcribe

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"audio2text/internal/app"
	"audio2text/internal/app/config"
	"audio2text/internal/app/logger"
	"audio2text/internal/app/util/files"
)

var noProgress bool

func init() {
	Cmd.Flags().BoolVar(&noProgress, "no-progress", false, "disable the terminal progress bar")
}

// Cmd represents the transcribe command
var Cmd = &cobra.Command{
	Use:   "transcribe <audio-file>",
	Short: "Transcribe one audio file into <stem>_transcript.txt",
	Long: `Transcribe one audio file into <stem>_transcript.txt in the working directory.

- Split the recording into segments of at most the configured duration
- Upload each segment to the transient bucket and run long-running recognition
- Join the per-segment texts in order; a failed segment is skipped, not fatal`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		input := args[0]
		if _, err := os.Stat(input); err != nil {
			return fmt.Errorf("input file %s does not exist", input)
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if err := cfg.RequireCredentials(); err != nil {
			fmt.Fprintf(os.Stderr, "Please create a .env file with %s=path/to/your/credentials.json\n",
				config.EnvGoogleCredentials)
			return err
		}

		verbose, _ := cmd.Flags().GetBool("verbose")
		log := logger.MustNew(verbose)
		defer log.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		p, err := app.InitializePipeline(ctx, cfg, log, app.ProgressEnabled(!noProgress && !verbose))
		if err != nil {
			return err
		}

		dest := files.TranscriptPath(input)
		if err := p.Run(ctx, input, dest); err != nil {
			return fmt.Errorf("transcription failed: %w", err)
		}

		fmt.Printf("Transcription completed successfully!\nOutput saved to: %s\n", dest)
		return nil
	},
}
