package ch

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"receiptbot/internal/models"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// settingsID is the fixed key of the singleton connection row
const settingsID uint8 = 1

type ClickHouseDB struct {
	conn clickhouse.Conn
}

// NewClickHouseDB creates a new ClickHouse database connection
func NewClickHouseDB(host string, port int, database, user, password string, useTLS bool) (*ClickHouseDB, error) {
	addr := fmt.Sprintf("%s:%d", host, port)

	options := &clickhouse.Options{
		Addr:     []string{addr},
		Protocol: clickhouse.Native,
		Auth: clickhouse.Auth{
			Database: database,
			Username: user,
			Password: password,
		},
	}

	// Configure TLS if enabled
	if useTLS {
		options.TLS = &tls.Config{
			InsecureSkipVerify: false,
		}
	}

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	// Test the connection
	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	return &ClickHouseDB{conn: conn}, nil
}

// Initialize is a no-op - tables are managed via migrations
func (db *ClickHouseDB) Initialize(ctx context.Context) error {
	// Tables are managed via migrations (see migrations/ directory)
	// This method is kept for interface compatibility
	return nil
}

// SaveConnectedGroup stores the connected group chat ID. The settings
// table is a ReplacingMergeTree keyed by a fixed ID, so inserting a new
// row supersedes the previous one. groupID = 0 clears the connection.
func (db *ClickHouseDB) SaveConnectedGroup(ctx context.Context, groupID int64) error {
	err := db.conn.Exec(ctx, `INSERT INTO settings (id, group_id, updated_at) VALUES (?, ?, ?)`,
		settingsID, groupID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save connected group: %w", err)
	}
	return nil
}

// LoadConnectedGroup returns the stored group chat ID, or 0 when unset
func (db *ClickHouseDB) LoadConnectedGroup(ctx context.Context) (int64, error) {
	rows, err := db.conn.Query(ctx, `SELECT group_id FROM settings FINAL WHERE id = ?`, settingsID)
	if err != nil {
		return 0, fmt.Errorf("failed to load connected group: %w", err)
	}
	defer rows.Close()

	var groupID int64
	if rows.Next() {
		if err := rows.Scan(&groupID); err != nil {
			return 0, fmt.Errorf("failed to scan connected group: %w", err)
		}
	}
	return groupID, nil
}

// CreateReceipt appends a receipt record
func (db *ClickHouseDB) CreateReceipt(ctx context.Context, receipt models.Receipt) error {
	err := db.conn.Exec(ctx, `INSERT INTO receipts (user_id, first_name, last_name, username, file_id, caption, received_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		receipt.UserID, receipt.FirstName, receipt.LastName, receipt.Username,
		receipt.FileID, receipt.Caption, receipt.ReceivedAt)
	if err != nil {
		return fmt.Errorf("failed to create receipt: %w", err)
	}
	return nil
}

// ListReceiptTimes returns the timestamps of all stored receipts
func (db *ClickHouseDB) ListReceiptTimes(ctx context.Context) ([]time.Time, error) {
	rows, err := db.conn.Query(ctx, `SELECT received_at FROM receipts ORDER BY received_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list receipt times: %w", err)
	}
	defer rows.Close()

	var times []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("failed to scan receipt time: %w", err)
		}
		times = append(times, t)
	}
	return times, nil
}

// GetReceiptsBetween returns receipts with from <= received_at < to, ascending
func (db *ClickHouseDB) GetReceiptsBetween(ctx context.Context, from, to time.Time) ([]models.Receipt, error) {
	rows, err := db.conn.Query(ctx, `
		SELECT user_id, first_name, last_name, username, file_id, caption, received_at
		FROM receipts
		WHERE received_at >= ? AND received_at < ?
		ORDER BY received_at`, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get receipts: %w", err)
	}
	defer rows.Close()

	var receipts []models.Receipt
	for rows.Next() {
		var r models.Receipt
		if err := rows.Scan(&r.UserID, &r.FirstName, &r.LastName, &r.Username,
			&r.FileID, &r.Caption, &r.ReceivedAt); err != nil {
			return nil, fmt.Errorf("failed to scan receipt: %w", err)
		}
		receipts = append(receipts, r)
	}
	return receipts, nil
}

// Close closes the database connection
func (db *ClickHouseDB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}
