package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a zap logger. Verbose runs use the development config so every
// per-segment step shows up on the terminal.
func New(verbose bool) (*zap.Logger, error) {
	var config zap.Config

	if verbose {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
		config.OutputPaths = []string{"stderr"}
	}

	return config.Build()
}

// MustNew creates a logger and panics if it fails.
func MustNew(verbose bool) *zap.Logger {
	log, err := New(verbose)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	return log
}
