package files

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Stem returns the file name without directory or extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// TranscriptPath returns the destination file for a source recording:
// <stem>_transcript.txt in the working directory.
func TranscriptPath(inputFile string) string {
	return Stem(inputFile) + "_transcript.txt"
}

// ScratchDir creates the scratch directory one pipeline run owns. The run ID
// keeps concurrent invocations from colliding.
func ScratchDir(runID string) (string, error) {
	short := runID
	if len(short) > 8 {
		short = short[:8]
	}
	dir, err := os.MkdirTemp("", "a2t-segments-"+short+"-")
	if err != nil {
		return "", fmt.Errorf("create scratch directory: %w", err)
	}
	return dir, nil
}

// DataDir returns the directory holding the run database, creating it if
// needed. Overridable with A2T_DATA_DIR.
func DataDir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv("A2T_DATA_DIR")); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	dir := filepath.Join(home, ".a2t")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}
