package model

import "time"

// RunRecord is the persisted outcome of one pipeline run.
type RunRecord struct {
	ID               string
	SourceFile       string
	OutputFile       string
	AudioSeconds     int
	SegmentCount     int
	TranscribedCount int
	CleanupWarnings  int
	Transcript       string
	CreatedAt        time.Time
	HasError         int
	ErrorMessage     string
}
