package testutil

import (
	"context"
	"fmt"
	"sync"
)

// MockBlobStore is an in-memory blob store that tracks live objects, so tests
// can assert the at-most-one-blob invariant and cleanup totality.
type MockBlobStore struct {
	mu sync.Mutex

	bucket       string
	bucketExists bool

	ExistsErr error
	MakeErr   error
	PutErr    error
	RemoveErr error

	live    map[string]bool
	puts    []string
	removes []string
	maxLive int
	made    int
}

func NewMockBlobStore(bucket string) *MockBlobStore {
	return &MockBlobStore{
		bucket: bucket,
		live:   make(map[string]bool),
	}
}

// WithExistingBucket marks the bucket as already provisioned.
func (m *MockBlobStore) WithExistingBucket() *MockBlobStore {
	m.bucketExists = true
	return m
}

func (m *MockBlobStore) BucketExists(ctx context.Context, name string) (bool, error) {
	if m.ExistsErr != nil {
		return false, m.ExistsErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bucketExists, nil
}

func (m *MockBlobStore) MakeBucket(ctx context.Context, name, region string) error {
	if m.MakeErr != nil {
		return m.MakeErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bucketExists = true
	m.made++
	return nil
}

func (m *MockBlobStore) Put(ctx context.Context, key, localPath string) error {
	if m.PutErr != nil {
		return m.PutErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.live[key] = true
	m.puts = append(m.puts, key)
	if len(m.live) > m.maxLive {
		m.maxLive = len(m.live)
	}
	return nil
}

func (m *MockBlobStore) Remove(ctx context.Context, key string) error {
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.live, key)
	m.removes = append(m.removes, key)
	return nil
}

func (m *MockBlobStore) URI(key string) string {
	return fmt.Sprintf("mock://%s/%s", m.bucket, key)
}

// LiveCount reports how many blobs currently exist.
func (m *MockBlobStore) LiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.live)
}

// MaxLive reports the highest number of blobs that ever coexisted.
func (m *MockBlobStore) MaxLive() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxLive
}

// MadeBuckets reports how many times MakeBucket succeeded.
func (m *MockBlobStore) MadeBuckets() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.made
}

func (m *MockBlobStore) Puts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.puts...)
}

func (m *MockBlobStore) Removes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.removes...)
}
