package models

import "time"

// Notification represents an in-app notification targeted at a single user.
type Notification struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	RecipientID   string    `gorm:"size:64;index;not null" json:"recipient_id"`
	RecipientRole string    `gorm:"size:32" json:"recipient_role"`
	Title         string    `gorm:"size:255;not null" json:"title"`
	Message       string    `gorm:"type:text" json:"message"`
	Type          string    `gorm:"size:64" json:"type"`
	Priority      string    `gorm:"size:16;default:normal" json:"priority"`
	Link          string    `gorm:"size:512" json:"link"`
	Read          bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
