package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationEntryPending   = "entry_pending"
	NotificationEntryConfirmed = "entry_confirmed"
	NotificationEntryRejected  = "entry_rejected"
)

type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Type      string
	Title     string
	Message   string
	IsRead    bool
	CreatedAt time.Time
}
