package storage

import (
	"context"
	"time"

	"receiptbot/internal/models"
)

// Storage defines the interface for data storage operations
type Storage interface {
	// Connection operations

	// SaveConnectedGroup persists the connected group chat ID.
	// Telegram chat IDs are never zero, so groupID = 0 clears the connection.
	SaveConnectedGroup(ctx context.Context, groupID int64) error

	// LoadConnectedGroup returns the stored group chat ID, or 0 when no
	// group is connected.
	LoadConnectedGroup(ctx context.Context) (int64, error)

	// Receipt operations

	CreateReceipt(ctx context.Context, receipt models.Receipt) error

	// ListReceiptTimes returns the timestamps of all stored receipts
	ListReceiptTimes(ctx context.Context) ([]time.Time, error)

	// GetReceiptsBetween returns receipts with from <= ReceivedAt < to,
	// ordered ascending by timestamp
	GetReceiptsBetween(ctx context.Context, from, to time.Time) ([]models.Receipt, error)

	// Lifecycle
	Initialize(ctx context.Context) error
	Close() error
}
