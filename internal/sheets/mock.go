package sheets

import (
	"context"
	"sync"

	"github.com/ebarrena/consolida/internal/model"
	"github.com/ebarrena/consolida/internal/service"
)

// MockReader is a mock implementation of service.TabReader for testing.
type MockReader struct {
	Tabs     map[string]*service.Tab
	ListErr  error
	ReadErrs map[string]error
	Titles   []string
}

// ListYearTabs implements the service.TabReader interface.
func (m *MockReader) ListYearTabs(_ context.Context) ([]string, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Titles, nil
}

// ReadTab implements the service.TabReader interface.
func (m *MockReader) ReadTab(_ context.Context, title string) (*service.Tab, error) {
	if err, ok := m.ReadErrs[title]; ok {
		return nil, err
	}
	return m.Tabs[title], nil
}

// MockWriter is a mock implementation of service.SnapshotWriter for testing.
type MockWriter struct {
	WriteFunc      func(ctx context.Context, snapshots []model.DebtSnapshot) error
	LastSnapshots  []model.DebtSnapshot
	WriteCalls     [][]model.DebtSnapshot
	WriteCallCount int
	mu             sync.Mutex
}

// Write implements the service.SnapshotWriter interface.
func (m *MockWriter) Write(ctx context.Context, snapshots []model.DebtSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.WriteCallCount++
	m.LastSnapshots = snapshots
	m.WriteCalls = append(m.WriteCalls, snapshots)

	if m.WriteFunc != nil {
		return m.WriteFunc(ctx, snapshots)
	}
	return nil
}

// Reset clears all recorded calls.
func (m *MockWriter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.WriteCallCount = 0
	m.WriteCalls = nil
	m.LastSnapshots = nil
}
