package model

import (
	"path/filepath"
	"time"
)

// Segment is one bounded slice of the source recording, already downsampled to
// the pipeline's canonical mono 16kHz format and written to scratch storage.
// Index is 0-based and defines assembly order.
type Segment struct {
	Index    int
	Start    time.Duration
	Duration time.Duration
	Path     string
}

// FileName returns the scratch file name, which encodes the segment index.
func (s Segment) FileName() string {
	return filepath.Base(s.Path)
}
