package bot

import (
	"context"

	"receiptbot/internal/storage"
)

// Connection tracks the single connected group chat. The stored value is
// the source of truth: Set writes through to storage first and updates
// the in-memory copy only on success. Handlers run sequentially, so no
// locking is needed.
//
// Telegram chat IDs are never zero; 0 means no group is connected.
type Connection struct {
	db      storage.Storage
	groupID int64
}

// NewConnection creates a Connection backed by the given storage
func NewConnection(db storage.Storage) *Connection {
	return &Connection{db: db}
}

// Load reads the connected group from storage into memory
func (c *Connection) Load(ctx context.Context) error {
	groupID, err := c.db.LoadConnectedGroup(ctx)
	if err != nil {
		return err
	}
	c.groupID = groupID
	return nil
}

// Set connects the given group, persisting it before updating memory
func (c *Connection) Set(ctx context.Context, groupID int64) error {
	if err := c.db.SaveConnectedGroup(ctx, groupID); err != nil {
		return err
	}
	c.groupID = groupID
	return nil
}

// Clear disconnects the current group
func (c *Connection) Clear(ctx context.Context) error {
	return c.Set(ctx, 0)
}

// Current returns the connected group chat ID and whether one is set
func (c *Connection) Current() (int64, bool) {
	return c.groupID, c.groupID != 0
}
