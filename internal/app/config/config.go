package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	apperrors "audio2text/internal/app/errors"
)

// Provider names accepted by the factories in internal/app.
const (
	SpeechGoogle    = "google"
	SpeechASRServer = "asr-server"
	StorageGCS      = "gcs"
	StorageMinio    = "minio"
)

const EnvGoogleCredentials = "GOOGLE_APPLICATION_CREDENTIALS"

// Config holds everything one pipeline run needs. Resolved once at startup
// from defaults, an optional a2t.yaml, then environment variables.
type Config struct {
	SpeechProvider  string `yaml:"speech_provider" validate:"oneof=google asr-server"`
	StorageProvider string `yaml:"storage_provider" validate:"oneof=gcs minio"`

	Bucket       string `yaml:"bucket" validate:"required"`
	BucketRegion string `yaml:"bucket_region" validate:"required"`

	Language       string `yaml:"language" validate:"required"`
	SegmentMinutes int    `yaml:"segment_minutes" validate:"gte=1,lte=60"`

	// OperationTimeout bounds the wait on one long-running recognition.
	// Exceeding it fails that segment only, never the whole run.
	OperationTimeout time.Duration `yaml:"operation_timeout"`

	GoogleProject string `yaml:"google_project"`
	ASRServerURL  string `yaml:"asr_server_url"`
	PostgresDSN   string `yaml:"postgres_dsn"`
}

func defaults() *Config {
	return &Config{
		SpeechProvider:   SpeechGoogle,
		StorageProvider:  StorageGCS,
		Bucket:           "transcription-segments",
		BucketRegion:     "us-central1",
		Language:         "en-US",
		SegmentMinutes:   5,
		OperationTimeout: 90 * time.Second,
	}
}

// LoadEnv loads environment variables from a .env file if one exists. Missing
// files are not an error, the variables may be set system-wide.
func LoadEnv() error {
	envPaths := []string{".env", ".env.local"}

	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return fmt.Errorf("error loading %s file: %w", envPath, err)
			}
			break
		}
	}

	return nil
}

// Load resolves the full configuration and validates it.
func Load() (*Config, error) {
	cfg := defaults()

	if err := cfg.applyFile("a2t.yaml"); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.OperationTimeout <= 0 {
		return nil, fmt.Errorf("invalid configuration: operation timeout must be positive")
	}

	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.SpeechProvider, "A2T_SPEECH_PROVIDER")
	setString(&c.StorageProvider, "A2T_STORAGE_PROVIDER")
	setString(&c.Bucket, "A2T_BUCKET")
	setString(&c.BucketRegion, "A2T_BUCKET_REGION")
	setString(&c.Language, "A2T_LANGUAGE")
	setString(&c.GoogleProject, "GOOGLE_CLOUD_PROJECT")
	setString(&c.ASRServerURL, "A2T_ASR_SERVER_URL")
	setString(&c.PostgresDSN, "A2T_POSTGRES_DSN")

	if v := strings.TrimSpace(os.Getenv("A2T_SEGMENT_MINUTES")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("A2T_SEGMENT_MINUTES: %w", err)
		}
		c.SegmentMinutes = n
	}
	if v := strings.TrimSpace(os.Getenv("A2T_OPERATION_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("A2T_OPERATION_TIMEOUT: %w", err)
		}
		c.OperationTimeout = d
	}

	return nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

// MaxSegmentDuration returns the configured segment bound.
func (c *Config) MaxSegmentDuration() time.Duration {
	return time.Duration(c.SegmentMinutes) * time.Minute
}

// NeedsGoogleCredentials reports whether any selected provider talks to
// Google Cloud.
func (c *Config) NeedsGoogleCredentials() bool {
	return c.SpeechProvider == SpeechGoogle || c.StorageProvider == StorageGCS
}

// RequireCredentials verifies the service account reference is resolvable
// before any client is built. A relative credentials path is rewritten to an
// absolute one so later chdirs cannot break the clients.
func (c *Config) RequireCredentials() error {
	if !c.NeedsGoogleCredentials() {
		return nil
	}

	credPath := strings.TrimSpace(os.Getenv(EnvGoogleCredentials))
	if credPath == "" {
		return apperrors.WrapKind(apperrors.ErrMissingCredentials,
			fmt.Errorf("set %s in the environment or a .env file to the path of your service account JSON key", EnvGoogleCredentials))
	}

	if !filepath.IsAbs(credPath) {
		abs, err := filepath.Abs(credPath)
		if err != nil {
			return fmt.Errorf("resolve credentials path %q: %w", credPath, err)
		}
		credPath = abs
		os.Setenv(EnvGoogleCredentials, credPath)
	}

	if _, err := os.Stat(credPath); err != nil {
		return apperrors.WrapKind(apperrors.ErrMissingCredentials,
			fmt.Errorf("credentials file %q is not readable: %w", credPath, err))
	}

	return nil
}
