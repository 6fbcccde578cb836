//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	"audio2text/internal/app/config"
	"audio2text/internal/app/pipeline"
	"audio2text/internal/app/segment"
	"audio2text/internal/app/transcriber"
)

// InitializePipeline assembles one pipeline run. Every client is created once
// here and passed by reference; nothing is re-created mid-run.
func InitializePipeline(ctx context.Context, cfg *config.Config, log *zap.Logger, progress ProgressEnabled) (*pipeline.Pipeline, error) {
	panic(wire.Build(
		ProvideRunID,
		ProvideCodec,
		ProvideBlobStore,
		ProvideRecognizer,
		ProvideRunDAO,
		ProvideProvisioner,
		ProvideTranscriberOptions,
		ProvidePipelineOptions,
		segment.NewSegmenter,
		transcriber.New,
		pipeline.New,
	))
}
