package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	apperrors "audio2text/internal/app/errors"
	"audio2text/internal/app/model"
	"audio2text/internal/app/repository"
	"audio2text/internal/app/segment"
	"audio2text/internal/app/storage"
	"audio2text/internal/app/transcriber"
	"audio2text/internal/app/util/files"
)

// Options fixes one run's identity and resource bounds.
type Options struct {
	RunID        string
	Bucket       string
	BucketRegion string
	MaxSegment   time.Duration
	Progress     bool
}

// Pipeline drives one end-to-end run: provision the bucket once, segment the
// source once, transcribe each segment strictly in index order, assemble and
// write the transcript. Segments are processed one at a time so at most one
// remote blob and one outstanding recognition exist at any instant.
type Pipeline struct {
	provisioner *storage.Provisioner
	segmenter   *segment.Segmenter
	transcriber *transcriber.SegmentTranscriber
	dao         repository.RunDAO
	opts        Options
	log         *zap.Logger

	cleanupWarnings int
}

func New(provisioner *storage.Provisioner, segmenter *segment.Segmenter, segTranscriber *transcriber.SegmentTranscriber, dao repository.RunDAO, opts Options, log *zap.Logger) *Pipeline {
	return &Pipeline{
		provisioner: provisioner,
		segmenter:   segmenter,
		transcriber: segTranscriber,
		dao:         dao,
		opts:        opts,
		log:         log,
	}
}

type segResult struct {
	text string
	err  error
}

// Run transcribes sourcePath into destPath. The destination file is written
// only when at least one segment produced text. Scratch files and the scratch
// directory are removed on every exit path; the run record is persisted
// best-effort on every exit path too.
func (p *Pipeline) Run(ctx context.Context, sourcePath, destPath string) (err error) {
	rec := model.RunRecord{
		ID:         p.opts.RunID,
		SourceFile: sourcePath,
		CreatedAt:  time.Now(),
	}
	defer func() {
		rec.CleanupWarnings = p.cleanupWarnings + p.transcriber.CleanupWarnings()
		if err != nil {
			rec.HasError = 1
			rec.ErrorMessage = err.Error()
		}
		p.recordRun(rec)
	}()

	outcome, err := p.provisioner.Ensure(ctx, p.opts.Bucket, p.opts.BucketRegion)
	if err != nil {
		return err
	}
	p.log.Info("bucket ready",
		zap.String("bucket", p.opts.Bucket),
		zap.Stringer("outcome", outcome))

	scratchDir, err := files.ScratchDir(p.opts.RunID)
	if err != nil {
		return err
	}
	defer p.removeScratchDir(scratchDir)

	segments, err := p.segmenter.Split(sourcePath, p.opts.MaxSegment, scratchDir)
	if err != nil {
		return err
	}
	rec.SegmentCount = len(segments)
	rec.AudioSeconds = totalSeconds(segments)
	p.log.Info("segmentation complete", zap.Int("segments", len(segments)))

	bar := newProgressBar(p.opts.Progress, len(segments), nil)
	results := make([]segResult, 0, len(segments))
	for _, seg := range segments {
		segStart := time.Now()

		text, segErr := p.transcriber.Transcribe(ctx, seg)
		if segErr != nil {
			// One bad segment never aborts the run.
			p.log.Error("segment transcription failed",
				zap.Int("segment", seg.Index),
				zap.Error(segErr))
		}
		results = append(results, segResult{text: text, err: segErr})

		p.removeScratchFile(seg.Path)
		bar.increment(time.Since(segStart))

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	bar.wait()

	texts := lo.FilterMap(results, func(r segResult, _ int) (string, bool) {
		return r.text, r.err == nil && r.text != ""
	})
	rec.TranscribedCount = len(texts)

	if len(texts) == 0 {
		return apperrors.WrapKind(apperrors.ErrAssembly,
			fmt.Errorf("none of the %d segments produced text", len(segments)))
	}

	transcript := strings.Join(texts, " ")
	if err := os.WriteFile(destPath, []byte(transcript), 0o644); err != nil {
		return apperrors.WrapKind(apperrors.ErrAssembly, err)
	}
	rec.Transcript = transcript
	rec.OutputFile = destPath

	p.log.Info("transcription complete",
		zap.String("output", destPath),
		zap.Int("segments", len(segments)),
		zap.Int("transcribed", len(texts)))
	return nil
}

func totalSeconds(segments []model.Segment) int {
	var total time.Duration
	for _, seg := range segments {
		total += seg.Duration
	}
	return int(total.Round(time.Second).Seconds())
}

func (p *Pipeline) removeScratchFile(path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := os.Remove(path); err != nil {
		p.warnCleanup("remove scratch segment", err)
	}
}

func (p *Pipeline) removeScratchDir(dir string) {
	if err := os.RemoveAll(dir); err != nil {
		p.warnCleanup("remove scratch directory", err)
		return
	}
	p.log.Info("cleaned up scratch directory", zap.String("dir", dir))
}

func (p *Pipeline) warnCleanup(action string, err error) {
	p.cleanupWarnings++
	p.log.Warn("cleanup failed", zap.String("action", action), zap.Error(err))
}

// recordRun persists the run outcome. History is best-effort and never
// changes the run's result.
func (p *Pipeline) recordRun(rec model.RunRecord) {
	if p.dao == nil {
		return
	}
	if err := p.dao.Record(rec); err != nil {
		p.log.Warn("failed to record run", zap.Error(err))
	}
}
