package segment

import (
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"audio2text/internal/app/audio"
	apperrors "audio2text/internal/app/errors"
	"audio2text/internal/app/model"
)

// Span is one planned slice of the source timeline.
type Span struct {
	Start  time.Duration
	Length time.Duration
}

// Spans walks the timeline in fixed steps of max. Every span except possibly
// the last has length max; the last is the remainder, never padded or dropped.
func Spans(total, max time.Duration) []Span {
	var spans []Span
	for start := time.Duration(0); start < total; start += max {
		length := max
		if remaining := total - start; remaining < max {
			length = remaining
		}
		spans = append(spans, Span{Start: start, Length: length})
	}
	return spans
}

// Segmenter partitions a source recording into ordered scratch segments.
type Segmenter struct {
	codec audio.Codec
	log   *zap.Logger
}

func NewSegmenter(codec audio.Codec, log *zap.Logger) *Segmenter {
	return &Segmenter{codec: codec, log: log}
}

// Split loads the source recording and writes one mono 16kHz mp3 per span to
// scratchDir. The file name encodes the segment index, but ordering is
// defined by the returned slice. An undecodable or empty source is fatal
// before the first segment is written.
func (s *Segmenter) Split(sourcePath string, maxSegment time.Duration, scratchDir string) ([]model.Segment, error) {
	total, err := s.codec.Duration(sourcePath)
	if err != nil {
		return nil, apperrors.WrapKind(apperrors.ErrDecode, err)
	}
	if total <= 0 {
		return nil, apperrors.WrapKind(apperrors.ErrDecode,
			fmt.Errorf("recording %s has no audio", sourcePath))
	}

	spans := Spans(total, maxSegment)
	segments := make([]model.Segment, 0, len(spans))
	for i, span := range spans {
		path := filepath.Join(scratchDir, fmt.Sprintf("segment_%03d.mp3", i))
		if err := s.codec.ExtractSegment(sourcePath, path, span.Start, span.Length); err != nil {
			return nil, apperrors.WrapKind(apperrors.ErrDecode,
				fmt.Errorf("extract segment %d: %w", i, err))
		}

		segments = append(segments, model.Segment{
			Index:    i,
			Start:    span.Start,
			Duration: span.Length,
			Path:     path,
		})
		s.log.Info("created segment",
			zap.Int("index", i),
			zap.Duration("start", span.Start),
			zap.Duration("duration", span.Length),
			zap.String("path", path))
	}

	return segments, nil
}
