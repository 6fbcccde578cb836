package storage

import (
	"context"

	"go.uber.org/zap"

	apperrors "audio2text/internal/app/errors"
)

// Outcome is the tagged result of ensuring a bucket exists, so idempotence is
// observable instead of being inferred from a swallowed error.
type Outcome int

const (
	Existing Outcome = iota
	Created
)

func (o Outcome) String() string {
	switch o {
	case Existing:
		return "existing"
	case Created:
		return "created"
	default:
		return "unknown"
	}
}

// BucketAPI is the minimal bucket surface a provider exposes to the
// provisioner.
type BucketAPI interface {
	BucketExists(ctx context.Context, name string) (bool, error)
	MakeBucket(ctx context.Context, name, region string) error
}

// BlobStore is the transient object storage holding one re-encoded segment at
// a time. Objects are addressed externally as scheme://bucket/key.
type BlobStore interface {
	BucketAPI

	Put(ctx context.Context, key, localPath string) error
	Remove(ctx context.Context, key string) error
	URI(key string) string
}

// Provisioner ensures the segment bucket exists before any upload. Repeated
// calls converge to the same bucket without error.
type Provisioner struct {
	api BucketAPI
	log *zap.Logger
}

func NewProvisioner(api BucketAPI, log *zap.Logger) *Provisioner {
	return &Provisioner{api: api, log: log}
}

// Ensure fetches the bucket by name, creating it in region when absent. Any
// failure here is fatal to the run, no segment can be processed without it.
func (p *Provisioner) Ensure(ctx context.Context, name, region string) (Outcome, error) {
	exists, err := p.api.BucketExists(ctx, name)
	if err != nil {
		return Existing, apperrors.WrapKind(apperrors.ErrProvisioning, err)
	}
	if exists {
		return Existing, nil
	}

	p.log.Info("creating bucket", zap.String("bucket", name), zap.String("region", region))
	if err := p.api.MakeBucket(ctx, name, region); err != nil {
		return Existing, apperrors.WrapKind(apperrors.ErrProvisioning, err)
	}
	return Created, nil
}
