package notify

import (
	"context"
	"fmt"

	"expense-approval/internal/models"

	"gorm.io/gorm"
)

// GormAttemptLog persists notification attempts to the database.
type GormAttemptLog struct {
	DB *gorm.DB
}

func NewGormAttemptLog(db *gorm.DB) *GormAttemptLog {
	return &GormAttemptLog{DB: db}
}

func (l *GormAttemptLog) Record(ctx context.Context, attempt models.NotificationLog) error {
	if err := l.DB.WithContext(ctx).Create(&attempt).Error; err != nil {
		return fmt.Errorf("create notification log: %w", err)
	}
	return nil
}
