package models

import "time"

// Receipt represents a single receipt photo submitted by a user.
// Records are immutable once stored and are never deleted.
type Receipt struct {
	UserID     int64
	FirstName  string
	LastName   string
	Username   string
	FileID     string
	Caption    string
	ReceivedAt time.Time
}
