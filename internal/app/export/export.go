package export

import (
	"fmt"
	"time"

	"github.com/tealeg/xlsx"

	"audio2text/internal/app/model"
)

// ToExcel writes run history to an .xlsx workbook.
func ToExcel(runs []model.RunRecord, outputFilePath string) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Runs")
	if err != nil {
		return err
	}

	headerRow := sheet.AddRow()
	headerRow.AddCell().Value = "ID"
	headerRow.AddCell().Value = "Source File"
	headerRow.AddCell().Value = "Output File"
	headerRow.AddCell().Value = "Audio Seconds"
	headerRow.AddCell().Value = "Segments"
	headerRow.AddCell().Value = "Transcribed"
	headerRow.AddCell().Value = "Cleanup Warnings"
	headerRow.AddCell().Value = "Created At"
	headerRow.AddCell().Value = "Error Message"
	headerRow.AddCell().Value = "Transcript"

	for _, run := range runs {
		row := sheet.AddRow()
		row.AddCell().Value = run.ID
		row.AddCell().Value = run.SourceFile
		row.AddCell().Value = run.OutputFile
		row.AddCell().Value = fmt.Sprint(run.AudioSeconds)
		row.AddCell().Value = fmt.Sprint(run.SegmentCount)
		row.AddCell().Value = fmt.Sprint(run.TranscribedCount)
		row.AddCell().Value = fmt.Sprint(run.CleanupWarnings)
		row.AddCell().Value = run.CreatedAt.Format(time.RFC3339)
		row.AddCell().Value = run.ErrorMessage
		row.AddCell().Value = run.Transcript
	}

	return file.Save(outputFilePath)
}
