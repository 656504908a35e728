package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"expense-approval/internal/expense"
	"expense-approval/internal/models"

	"gorm.io/gorm"
)

// GormRepository persists requests through gorm (SQLite in production).
type GormRepository struct {
	DB *gorm.DB
}

func NewGorm(db *gorm.DB) *GormRepository {
	return &GormRepository{DB: db}
}

// Create inserts the request and maps the primary-key violation, so a
// lost race between two creates with the same id still reports
// ErrDuplicateID rather than a driver error.
func (r *GormRepository) Create(ctx context.Context, req *models.ExpenseRequest) error {
	if err := r.DB.WithContext(ctx).Create(req).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateID
		}
		return fmt.Errorf("create request: %w", err)
	}
	return nil
}

func (r *GormRepository) Get(ctx context.Context, id string) (*models.ExpenseRequest, error) {
	var req models.ExpenseRequest
	err := r.DB.WithContext(ctx).Preload("Comments").First(&req, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get request: %w", err)
	}
	return &req, nil
}

func (r *GormRepository) List(ctx context.Context, status string) ([]models.ExpenseRequest, error) {
	q := r.DB.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var reqs []models.ExpenseRequest
	if err := q.Find(&reqs).Error; err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	return reqs, nil
}

// UpdateStatus is a compare-and-swap on status: the UPDATE only matches
// while the request is still Pending, so concurrent decisions cannot
// both win.
func (r *GormRepository) UpdateStatus(ctx context.Context, id string, newStatus expense.Status) error {
	if !newStatus.Terminal() {
		return fmt.Errorf("%w: cannot move to %s", ErrInvalidTransition, newStatus)
	}

	now := time.Now()
	res := r.DB.WithContext(ctx).Model(&models.ExpenseRequest{}).
		Where("id = ? AND status = ?", id, expense.StatusPending).
		Updates(map[string]interface{}{
			"status":     string(newStatus),
			"decided_at": now,
		})
	if res.Error != nil {
		return fmt.Errorf("update status: %w", res.Error)
	}
	if res.RowsAffected == 1 {
		return nil
	}

	// nothing matched: request absent, or already terminal
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.ExpenseRequest{}).
		Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("check id: %w", err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrInvalidTransition
}

func (r *GormRepository) AddComment(ctx context.Context, comment *models.Comment) error {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.ExpenseRequest{}).
		Where("id = ?", comment.RequestID).Count(&count).Error; err != nil {
		return fmt.Errorf("check id: %w", err)
	}
	if count == 0 {
		return ErrNotFound
	}
	if err := r.DB.WithContext(ctx).Create(comment).Error; err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}
