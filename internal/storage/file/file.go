// Package file implements storage backed by a single local JSON file.
// It serves deployments without a database: the connected group ID and
// the receipt log live in one document rewritten atomically on every
// mutation.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"receiptbot/internal/models"
)

type document struct {
	GroupID  int64           `json:"group_id"`
	Receipts []receiptRecord `json:"receipts"`
}

type receiptRecord struct {
	UserID     int64     `json:"user_id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Username   string    `json:"username,omitempty"`
	FileID     string    `json:"file_id"`
	Caption    string    `json:"caption,omitempty"`
	ReceivedAt time.Time `json:"received_at"`
}

// FileDB is a Storage implementation over a local JSON file
type FileDB struct {
	mu   sync.Mutex
	path string
	doc  document
}

// NewFileDB creates a file-backed store at the given path. The file is
// created on first write; a missing file means an empty store.
func NewFileDB(path string) *FileDB {
	return &FileDB{path: path}
}

// Initialize loads the JSON document from disk if it exists
func (f *FileDB) Initialize(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read storage file: %w", err)
	}

	if err := json.Unmarshal(data, &f.doc); err != nil {
		return fmt.Errorf("failed to parse storage file: %w", err)
	}
	return nil
}

// flush writes the document to disk via a temp file and rename, so a
// failed write never truncates the existing file. Caller holds the lock.
func (f *FileDB) flush() error {
	data, err := json.MarshalIndent(f.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode storage file: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write storage file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("failed to replace storage file: %w", err)
	}
	return nil
}

// SaveConnectedGroup stores the connected group chat ID (0 clears it)
func (f *FileDB) SaveConnectedGroup(ctx context.Context, groupID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	previous := f.doc.GroupID
	f.doc.GroupID = groupID
	if err := f.flush(); err != nil {
		f.doc.GroupID = previous
		return err
	}
	return nil
}

// LoadConnectedGroup returns the stored group chat ID, or 0 when unset
func (f *FileDB) LoadConnectedGroup(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.doc.GroupID, nil
}

// CreateReceipt appends a receipt record
func (f *FileDB) CreateReceipt(ctx context.Context, receipt models.Receipt) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.doc.Receipts = append(f.doc.Receipts, receiptRecord(receipt))
	if err := f.flush(); err != nil {
		f.doc.Receipts = f.doc.Receipts[:len(f.doc.Receipts)-1]
		return err
	}
	return nil
}

// ListReceiptTimes returns the timestamps of all stored receipts
func (f *FileDB) ListReceiptTimes(ctx context.Context) ([]time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	times := make([]time.Time, 0, len(f.doc.Receipts))
	for _, r := range f.doc.Receipts {
		times = append(times, r.ReceivedAt)
	}
	return times, nil
}

// GetReceiptsBetween returns receipts with from <= ReceivedAt < to, ascending
func (f *FileDB) GetReceiptsBetween(ctx context.Context, from, to time.Time) ([]models.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var receipts []models.Receipt
	for _, r := range f.doc.Receipts {
		if r.ReceivedAt.Before(from) || !r.ReceivedAt.Before(to) {
			continue
		}
		receipts = append(receipts, models.Receipt(r))
	}

	sort.Slice(receipts, func(i, j int) bool {
		return receipts[i].ReceivedAt.Before(receipts[j].ReceivedAt)
	})

	return receipts, nil
}

// Close does nothing for the file store; every mutation is flushed
func (f *FileDB) Close() error {
	return nil
}
