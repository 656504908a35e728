package models

import "time"

// ExpenseRequest is a single employee expense claim moving through the
// approval lifecycle. Amount is stored in cents, e.g. 75.50 = 7550.
type ExpenseRequest struct {
	ID            string     `gorm:"primaryKey;size:64"` // UUID, immutable
	EmployeeName  string     `gorm:"size:64;not null"`
	EmployeeID    string     `gorm:"size:32;index;not null"`
	ExpenseType   string     `gorm:"size:32;not null"`
	AmountCent    int64      `gorm:"not null"`
	BillDate      time.Time  `gorm:"index;not null"` // calendar date, no time component
	ApproverEmail string     `gorm:"size:128;not null"`
	Status        string     `gorm:"size:16;index;not null;default:Pending"`
	Attachments   string     `gorm:"type:text"` // JSON array of opaque references
	DecidedAt     *time.Time `gorm:"index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Comments []Comment `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE"`
}
