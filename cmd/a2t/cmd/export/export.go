package export

import (
	"fmt"

	"github.com/spf13/cobra"

	"audio2text/internal/app"
	"audio2text/internal/app/config"
	appexport "audio2text/internal/app/export"
)

var outputFilePath string
var limit int

func init() {
	Cmd.Flags().StringVarP(&outputFilePath, "outputFilePath", "o", "", "set outputFilePath")
	Cmd.Flags().IntVarP(&limit, "limit", "n", 1000, "how many recent runs to export")

	Cmd.MarkFlagRequired("outputFilePath")
}

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export run history to excel",
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

		if err := appexport.ToExcel(runs, outputFilePath); err != nil {
			return err
		}
		fmt.Printf("export finished, exported file path: %v\n", outputFilePath)
		return nil
	},
}
