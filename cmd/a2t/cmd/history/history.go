package history

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"audio2text/internal/app"
	"audio2text/internal/app/config"
)

var limit int

func init() {
	Cmd.Flags().IntVarP(&limit, "limit", "n", 20, "how many recent runs to show")
}

// Cmd represents the history command
var Cmd = &cobra.Command{
	Use:   "history",
	Short: "List recent transcription runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		dao, err := app.NewRunDAO(cfg)
		if err != nil {
			return err
		}
		defer dao.Close()

		runs, err := dao.Recent(limit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("no runs recorded yet")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "WHEN\tSOURCE\tSEGMENTS\tTRANSCRIBED\tOUTPUT\tERROR")
		for _, run := range runs {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\n",
				run.CreatedAt.Format(time.RFC3339),
				run.SourceFile,
				run.SegmentCount,
				run.TranscribedCount,
				run.OutputFile,
				run.ErrorMessage)
		}
		return w.Flush()
	},
}
