package transcriber

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"audio2text/internal/app/audio"
	"audio2text/internal/app/model"
	"audio2text/internal/app/speech"
	"audio2text/internal/app/storage"
)

// Options fixes the per-segment request configuration for one run.
type Options struct {
	Language    string
	WaitTimeout time.Duration
	// KeyPrefix namespaces this run's blobs inside the shared bucket.
	KeyPrefix string
}

// SegmentTranscriber turns one scratch segment into text: FLAC re-encode,
// blob upload, long-running recognition, bounded wait, fragment join. The
// re-encoded file and the uploaded blob never outlive the attempt, whatever
// the outcome.
type SegmentTranscriber struct {
	codec audio.Codec
	store storage.BlobStore
	rec   speech.Recognizer
	opts  Options
	log   *zap.Logger

	cleanupWarnings int
}

func New(codec audio.Codec, store storage.BlobStore, rec speech.Recognizer, opts Options, log *zap.Logger) *SegmentTranscriber {
	return &SegmentTranscriber{
		codec: codec,
		store: store,
		rec:   rec,
		opts:  opts,
		log:   log,
	}
}

// CleanupWarnings reports how many cleanup actions failed so far. Cleanup
// failures are logged and counted, never escalated.
func (t *SegmentTranscriber) CleanupWarnings() int {
	return t.cleanupWarnings
}

// Transcribe processes one segment. A non-nil error means the segment
// contributes no text; the caller decides whether the run continues.
func (t *SegmentTranscriber) Transcribe(ctx context.Context, seg model.Segment) (string, error) {
	log := t.log.With(zap.Int("segment", seg.Index))

	flacPath := strings.TrimSuffix(seg.Path, filepath.Ext(seg.Path)) + ".flac"
	key := t.keyFor(seg)
	uploaded := false

	defer func() {
		if _, err := os.Stat(flacPath); err == nil {
			if err := os.Remove(flacPath); err != nil {
				t.warnCleanup(log, "remove re-encoded scratch file", err)
			}
		}
		if uploaded {
			// Cleanup must run even when the surrounding context is done.
			if err := t.store.Remove(context.WithoutCancel(ctx), key); err != nil {
				t.warnCleanup(log, "delete remote blob", err)
			}
		}
	}()

	if err := t.codec.EncodeFLAC(seg.Path, flacPath); err != nil {
		return "", fmt.Errorf("re-encode segment %d: %w", seg.Index, err)
	}

	if err := t.store.Put(ctx, key, flacPath); err != nil {
		return "", fmt.Errorf("upload segment %d: %w", seg.Index, err)
	}
	uploaded = true

	uri := t.store.URI(key)
	op, err := t.rec.Recognize(ctx, uri, speech.RecognitionConfig{
		Encoding:                   speech.EncodingFLAC,
		SampleRateHertz:            audio.SampleRateHertz,
		LanguageCode:               t.opts.Language,
		EnableAutomaticPunctuation: true,
	})
	if err != nil {
		return "", fmt.Errorf("submit recognition for segment %d: %w", seg.Index, err)
	}

	log.Info("waiting for recognition", zap.String("uri", uri), zap.Duration("timeout", t.opts.WaitTimeout))

	waitCtx, cancel := context.WithTimeout(ctx, t.opts.WaitTimeout)
	defer cancel()

	results, err := op.Wait(waitCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("recognition for segment %d timed out after %s", seg.Index, t.opts.WaitTimeout)
		}
		return "", fmt.Errorf("recognition for segment %d: %w", seg.Index, err)
	}

	return joinResults(results), nil
}

// joinResults concatenates the first alternative of every fragment, in
// service order, separated by single spaces.
func joinResults(results []speech.Result) string {
	parts := make([]string, 0, len(results))
	for _, res := range results {
		if len(res.Alternatives) == 0 {
			continue
		}
		parts = append(parts, res.Alternatives[0].Transcript)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

func (t *SegmentTranscriber) keyFor(seg model.Segment) string {
	name := strings.TrimSuffix(seg.FileName(), filepath.Ext(seg.FileName())) + ".flac"
	if t.opts.KeyPrefix == "" {
		return name
	}
	return t.opts.KeyPrefix + "/" + name
}

func (t *SegmentTranscriber) warnCleanup(log *zap.Logger, action string, err error) {
	t.cleanupWarnings++
	log.Warn("cleanup failed", zap.String("action", action), zap.Error(err))
}
