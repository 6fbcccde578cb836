package testutil

import (
	"os"
	"sync"
	"time"
)

// MockCodec is an in-memory stand-in for the ffmpeg codec. Extracted and
// re-encoded files are written as small placeholder files so cleanup
// behavior is observable.
type MockCodec struct {
	mu sync.Mutex

	TotalDuration time.Duration
	DurationErr   error
	ExtractErr    error
	EncodeErr     error

	extracted []string
	encoded   []string
}

func NewMockCodec(total time.Duration) *MockCodec {
	return &MockCodec{TotalDuration: total}
}

func (m *MockCodec) Duration(path string) (time.Duration, error) {
	if m.DurationErr != nil {
		return 0, m.DurationErr
	}
	return m.TotalDuration, nil
}

func (m *MockCodec) ExtractSegment(src, dst string, offset, length time.Duration) error {
	if m.ExtractErr != nil {
		return m.ExtractErr
	}
	if err := os.WriteFile(dst, []byte("mp3"), 0o644); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.extracted = append(m.extracted, dst)
	return nil
}

func (m *MockCodec) EncodeFLAC(src, dst string) error {
	if m.EncodeErr != nil {
		return m.EncodeErr
	}
	if err := os.WriteFile(dst, []byte("flac"), 0o644); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.encoded = append(m.encoded, dst)
	return nil
}

func (m *MockCodec) Extracted() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.extracted...)
}

func (m *MockCodec) Encoded() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.encoded...)
}
