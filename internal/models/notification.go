package models

import "time"

// NotificationLog records one outbound notification attempt. Every
// attempt is logged, delivered or not, so retries can be audited.
type NotificationLog struct {
	ID        uint   `gorm:"primaryKey"`
	RequestID string `gorm:"size:64;index;not null"`
	Kind      string `gorm:"size:32;index;not null"`
	Recipient string `gorm:"size:128;not null"`
	Delivered bool   `gorm:"index;not null"`
	Error     string `gorm:"size:512"` // empty on success
	CreatedAt time.Time
}
