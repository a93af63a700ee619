package stubs

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"receiptbot/internal/models"
)

// MockDB is an in-memory implementation of the Storage interface for testing
type MockDB struct {
	mu       sync.RWMutex
	groupID  int64
	receipts []models.Receipt

	// FailSaves makes SaveConnectedGroup and CreateReceipt return
	// ErrSaveFailed, for exercising failure paths in handler tests
	FailSaves bool
}

// ErrSaveFailed is returned by write operations when FailSaves is set
var ErrSaveFailed = errors.New("mock save failure")

// NewMockDB creates a new mock database
func NewMockDB() *MockDB {
	return &MockDB{}
}

// Initialize does nothing for the mock DB
func (m *MockDB) Initialize(ctx context.Context) error {
	return nil
}

// SaveConnectedGroup stores the connected group chat ID (0 clears it)
func (m *MockDB) SaveConnectedGroup(ctx context.Context, groupID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailSaves {
		return ErrSaveFailed
	}
	m.groupID = groupID
	return nil
}

// LoadConnectedGroup returns the stored group chat ID, or 0 when unset
func (m *MockDB) LoadConnectedGroup(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.groupID, nil
}

// CreateReceipt appends a receipt record
func (m *MockDB) CreateReceipt(ctx context.Context, receipt models.Receipt) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailSaves {
		return ErrSaveFailed
	}
	m.receipts = append(m.receipts, receipt)
	return nil
}

// ListReceiptTimes returns the timestamps of all stored receipts
func (m *MockDB) ListReceiptTimes(ctx context.Context) ([]time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	times := make([]time.Time, 0, len(m.receipts))
	for _, r := range m.receipts {
		times = append(times, r.ReceivedAt)
	}
	return times, nil
}

// GetReceiptsBetween returns receipts with from <= ReceivedAt < to, ascending
func (m *MockDB) GetReceiptsBetween(ctx context.Context, from, to time.Time) ([]models.Receipt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var receipts []models.Receipt
	for _, r := range m.receipts {
		if r.ReceivedAt.Before(from) || !r.ReceivedAt.Before(to) {
			continue
		}
		receipts = append(receipts, r)
	}

	// Sort by timestamp ascending
	sort.Slice(receipts, func(i, j int) bool {
		return receipts[i].ReceivedAt.Before(receipts[j].ReceivedAt)
	})

	return receipts, nil
}

// Close does nothing for mock DB
func (m *MockDB) Close() error {
	return nil
}
