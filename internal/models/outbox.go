package models

import (
	"time"

	"gorm.io/datatypes"
)

// Outbox record states. Failed records are kept for inspection, never retried.
const (
	OutboxPending = "pending"
	OutboxSent    = "sent"
	OutboxFailed  = "failed"
)

// SyncOutbox is a durable record of a committed local mutation awaiting
// best-effort replication to the remote persistence collaborator. The local
// state is authoritative; a failed dispatch never rolls anything back.
type SyncOutbox struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	Entity    string            `gorm:"size:64;index;not null" json:"entity"`
	EntityID  string            `gorm:"size:128;not null" json:"entity_id"`
	Op        string            `gorm:"size:16;not null" json:"op"`
	Payload   datatypes.JSONMap `gorm:"type:json" json:"payload"`
	Status    string            `gorm:"size:16;index;not null;default:pending" json:"status"`
	Attempts  int               `gorm:"not null;default:0" json:"attempts"`
	LastError string            `gorm:"type:text" json:"last_error,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	SentAt    *time.Time        `json:"sent_at,omitempty"`
}
