package models

import "time"

// Comment is reviewer metadata attached to a request. Comments never
// change the request status and may be added after a decision.
type Comment struct {
	ID        uint   `gorm:"primaryKey"`
	RequestID string `gorm:"size:64;index;not null"`
	Author    string `gorm:"size:64"`
	Body      string `gorm:"size:1024;not null"`
	CreatedAt time.Time
}
