package testutil

import (
	"sync"

	"audio2text/internal/app/model"
)

// MockRunDAO records run history in memory.
type MockRunDAO struct {
	mu sync.Mutex

	RecordErr error
	runs      []model.RunRecord
	closed    bool
}

func NewMockRunDAO() *MockRunDAO {
	return &MockRunDAO{}
}

func (m *MockRunDAO) Record(run model.RunRecord) error {
	if m.RecordErr != nil {
		return m.RecordErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, run)
	return nil
}

func (m *MockRunDAO) Recent(limit int) ([]model.RunRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit > len(m.runs) {
		limit = len(m.runs)
	}
	out := make([]model.RunRecord, 0, limit)
	for i := len(m.runs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.runs[i])
	}
	return out, nil
}

func (m *MockRunDAO) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *MockRunDAO) Runs() []model.RunRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.RunRecord(nil), m.runs...)
}

func (m *MockRunDAO) WasClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
