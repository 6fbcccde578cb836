package audio

import (
	"bytes"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Canonical low-bandwidth profile used across the pipeline. Mono 16kHz both
// cuts transfer cost and matches the recognizer's recommended input.
const (
	SampleRateHertz = 16000
	Channels        = 1
	SegmentBitrate  = "64k"
)

// Codec is the audio processing service the pipeline depends on. The ffmpeg
// implementation below is the production one; tests substitute their own.
type Codec interface {
	// Duration probes the total duration of an audio file.
	Duration(path string) (time.Duration, error)
	// ExtractSegment writes the [offset, offset+length) slice of src to dst
	// as a mono 16kHz mp3.
	ExtractSegment(src, dst string, offset, length time.Duration) error
	// EncodeFLAC re-encodes src to dst as lossless mono 16kHz FLAC.
	EncodeFLAC(src, dst string) error
}

// FFmpeg shells out to ffmpeg/ffprobe on PATH.
type FFmpeg struct{}

func NewFFmpeg() *FFmpeg {
	return &FFmpeg{}
}

func (f *FFmpeg) Duration(path string) (time.Duration, error) {
	cmd := exec.Command("ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("parse ffprobe duration for %s: %w", path, err)
	}
	return time.Duration(seconds * float64(time.Second)), nil
}

func (f *FFmpeg) ExtractSegment(src, dst string, offset, length time.Duration) error {
	return runFFmpeg(
		"-ss", formatSeconds(offset),
		"-t", formatSeconds(length),
		"-i", src,
		"-vn",
		"-acodec", "libmp3lame",
		"-ar", strconv.Itoa(SampleRateHertz),
		"-ac", strconv.Itoa(Channels),
		"-b:a", SegmentBitrate,
		dst)
}

func (f *FFmpeg) EncodeFLAC(src, dst string) error {
	return runFFmpeg(
		"-i", src,
		"-vn",
		"-acodec", "flac",
		"-ar", strconv.Itoa(SampleRateHertz),
		"-ac", strconv.Itoa(Channels),
		"-compression_level", "0",
		dst)
}

func runFFmpeg(args ...string) error {
	cmd := exec.Command("ffmpeg", append([]string{"-y"}, args...)...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg error: %w, stderr: %s", err, stderr.String())
	}
	return nil
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}
