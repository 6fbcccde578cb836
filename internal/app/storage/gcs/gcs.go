package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"cloud.google.com/go/storage"
)

// Store is a Google Cloud Storage-backed blob store for re-encoded segments.
// Objects are addressed as gs://bucket/key, the form the Speech API consumes.
type Store struct {
	client    *storage.Client
	projectID string
	bucket    string
}

// NewStore builds a store bound to bucket. Credentials are resolved from
// GOOGLE_APPLICATION_CREDENTIALS; projectID is required only when the bucket
// has to be created.
func NewStore(ctx context.Context, projectID, bucket string) (*Store, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}
	return &Store{client: client, projectID: projectID, bucket: bucket}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) BucketExists(ctx context.Context, name string) (bool, error) {
	_, err := s.client.Bucket(name).Attrs(ctx)
	if errors.Is(err, storage.ErrBucketNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	return true, nil
}

func (s *Store) MakeBucket(ctx context.Context, name, region string) error {
	attrs := &storage.BucketAttrs{Location: region}
	if err := s.client.Bucket(name).Create(ctx, s.projectID, attrs); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

func (s *Store) Put(ctx context.Context, key, localPath string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer f.Close()

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = "audio/flac"
	if _, err := io.Copy(w, f); err != nil {
		w.Close()
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.client.Bucket(s.bucket).Object(key).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *Store) URI(key string) string {
	return fmt.Sprintf("gs://%s/%s", s.bucket, key)
}
