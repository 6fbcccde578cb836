package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "audio2text/internal/app/errors"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"A2T_SPEECH_PROVIDER", "A2T_STORAGE_PROVIDER", "A2T_BUCKET",
		"A2T_BUCKET_REGION", "A2T_LANGUAGE", "A2T_SEGMENT_MINUTES",
		"A2T_OPERATION_TIMEOUT", "A2T_ASR_SERVER_URL", "A2T_POSTGRES_DSN",
		"GOOGLE_CLOUD_PROJECT", EnvGoogleCredentials,
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, SpeechGoogle, cfg.SpeechProvider)
	assert.Equal(t, StorageGCS, cfg.StorageProvider)
	assert.Equal(t, "transcription-segments", cfg.Bucket)
	assert.Equal(t, "us-central1", cfg.BucketRegion)
	assert.Equal(t, "en-US", cfg.Language)
	assert.Equal(t, 5, cfg.SegmentMinutes)
	assert.Equal(t, 90*time.Second, cfg.OperationTimeout)
	assert.Equal(t, 5*time.Minute, cfg.MaxSegmentDuration())
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("A2T_SPEECH_PROVIDER", "asr-server")
	t.Setenv("A2T_STORAGE_PROVIDER", "minio")
	t.Setenv("A2T_BUCKET", "my-segments")
	t.Setenv("A2T_LANGUAGE", "de-DE")
	t.Setenv("A2T_SEGMENT_MINUTES", "10")
	t.Setenv("A2T_OPERATION_TIMEOUT", "45s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, SpeechASRServer, cfg.SpeechProvider)
	assert.Equal(t, StorageMinio, cfg.StorageProvider)
	assert.Equal(t, "my-segments", cfg.Bucket)
	assert.Equal(t, "de-DE", cfg.Language)
	assert.Equal(t, 10*time.Minute, cfg.MaxSegmentDuration())
	assert.Equal(t, 45*time.Second, cfg.OperationTimeout)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown_speech_provider", "A2T_SPEECH_PROVIDER", "bogus"},
		{"unknown_storage_provider", "A2T_STORAGE_PROVIDER", "ftp"},
		{"segment_minutes_not_a_number", "A2T_SEGMENT_MINUTES", "five"},
		{"segment_minutes_out_of_range", "A2T_SEGMENT_MINUTES", "0"},
		{"bad_timeout", "A2T_OPERATION_TIMEOUT", "ninety"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestRequireCredentials_MissingIsFatal(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	err = cfg.RequireCredentials()
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrMissingCredentials)
	assert.Contains(t, err.Error(), EnvGoogleCredentials)
}

func TestRequireCredentials_NotNeededForSelfHostedStack(t *testing.T) {
	clearEnv(t)
	t.Setenv("A2T_SPEECH_PROVIDER", "asr-server")
	t.Setenv("A2T_STORAGE_PROVIDER", "minio")

	cfg, err := Load()
	require.NoError(t, err)
	assert.NoError(t, cfg.RequireCredentials())
}

func TestRequireCredentials_ResolvesRelativePath(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	credPath := filepath.Join(dir, "sa.json")
	require.NoError(t, os.WriteFile(credPath, []byte("{}"), 0o600))
	t.Setenv(EnvGoogleCredentials, credPath)

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.RequireCredentials())

	resolved := os.Getenv(EnvGoogleCredentials)
	assert.True(t, filepath.IsAbs(resolved))
}

func TestRequireCredentials_UnreadableFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvGoogleCredentials, filepath.Join(t.TempDir(), "missing.json"))

	cfg, err := Load()
	require.NoError(t, err)

	err = cfg.RequireCredentials()
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrMissingCredentials)
}
