package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"audio2text/internal/app/audio"
	"audio2text/internal/app/config"
	"audio2text/internal/app/pipeline"
	"audio2text/internal/app/repository"
	"audio2text/internal/app/repository/pg"
	"audio2text/internal/app/repository/sqlite"
	"audio2text/internal/app/speech"
	"audio2text/internal/app/speech/asrserver"
	"audio2text/internal/app/speech/google"
	"audio2text/internal/app/storage"
	"audio2text/internal/app/storage/gcs"
	"audio2text/internal/app/storage/minio"
	"audio2text/internal/app/transcriber"
	"audio2text/internal/app/util/files"
)

// RunID identifies one pipeline run.
type RunID string

// ProgressEnabled toggles the terminal progress bar.
type ProgressEnabled bool

func ProvideRunID() RunID {
	return RunID(uuid.New().String())
}

func ProvideCodec() audio.Codec {
	return audio.NewFFmpeg()
}

// ProvideBlobStore builds the configured blob store, bound to the run bucket.
func ProvideBlobStore(ctx context.Context, cfg *config.Config) (storage.BlobStore, error) {
	switch cfg.StorageProvider {
	case config.StorageMinio:
		return minio.NewStore(cfg.Bucket)
	case config.StorageGCS:
		return gcs.NewStore(ctx, cfg.GoogleProject, cfg.Bucket)
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.StorageProvider)
	}
}

// ProvideRecognizer builds the configured speech recognizer.
func ProvideRecognizer(ctx context.Context, cfg *config.Config) (speech.Recognizer, error) {
	switch cfg.SpeechProvider {
	case config.SpeechASRServer:
		if cfg.ASRServerURL == "" {
			return nil, fmt.Errorf("A2T_ASR_SERVER_URL must be set for the asr-server provider")
		}
		return asrserver.NewRecognizer(asrserver.Config{BaseURL: cfg.ASRServerURL}), nil
	case config.SpeechGoogle:
		return google.NewRecognizer(ctx)
	default:
		return nil, fmt.Errorf("unknown speech provider %q", cfg.SpeechProvider)
	}
}

// ProvideRunDAO opens the run history store: postgres when a DSN is
// configured, the local sqlite database otherwise.
func ProvideRunDAO(cfg *config.Config) (repository.RunDAO, error) {
	if cfg.PostgresDSN != "" {
		return pg.NewRunDB(cfg.PostgresDSN)
	}

	dataDir, err := files.DataDir()
	if err != nil {
		return nil, err
	}
	return sqlite.NewRunDB(filepath.Join(dataDir, "runs.db"))
}

func ProvideProvisioner(store storage.BlobStore, log *zap.Logger) *storage.Provisioner {
	return storage.NewProvisioner(store, log)
}

func ProvideTranscriberOptions(cfg *config.Config, runID RunID) transcriber.Options {
	return transcriber.Options{
		Language:    cfg.Language,
		WaitTimeout: cfg.OperationTimeout,
		KeyPrefix:   "segments/" + shortID(string(runID)),
	}
}

func ProvidePipelineOptions(cfg *config.Config, runID RunID, progress ProgressEnabled) pipeline.Options {
	return pipeline.Options{
		RunID:        string(runID),
		Bucket:       cfg.Bucket,
		BucketRegion: cfg.BucketRegion,
		MaxSegment:   cfg.MaxSegmentDuration(),
		Progress:     bool(progress),
	}
}

// NewRunDAO is the entry point for commands that only need history access.
func NewRunDAO(cfg *config.Config) (repository.RunDAO, error) {
	return ProvideRunDAO(cfg)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
