package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"expense-approval/internal/expense"
	"expense-approval/internal/models"
)

// MemoryRepository is a map-backed Repository satisfying the same
// contract as GormRepository. Tests substitute it for the database.
type MemoryRepository struct {
	mu       sync.Mutex
	requests map[string]*models.ExpenseRequest
	comments map[string][]models.Comment
	nextID   uint
}

func NewMemory() *MemoryRepository {
	return &MemoryRepository{
		requests: make(map[string]*models.ExpenseRequest),
		comments: make(map[string][]models.Comment),
	}
}

func (r *MemoryRepository) Create(_ context.Context, req *models.ExpenseRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.requests[req.ID]; ok {
		return ErrDuplicateID
	}
	now := time.Now()
	req.CreatedAt = now
	req.UpdatedAt = now
	cp := *req
	r.requests[req.ID] = &cp
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (*models.ExpenseRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *req
	cp.Comments = append([]models.Comment(nil), r.comments[id]...)
	return &cp, nil
}

func (r *MemoryRepository) List(_ context.Context, status string) ([]models.ExpenseRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ExpenseRequest
	for _, req := range r.requests {
		if status != "" && req.Status != status {
			continue
		}
		out = append(out, *req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepository) UpdateStatus(_ context.Context, id string, newStatus expense.Status) error {
	if !newStatus.Terminal() {
		return ErrInvalidTransition
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return ErrNotFound
	}
	if expense.Status(req.Status) != expense.StatusPending {
		return ErrInvalidTransition
	}
	now := time.Now()
	req.Status = string(newStatus)
	req.DecidedAt = &now
	req.UpdatedAt = now
	return nil
}

func (r *MemoryRepository) AddComment(_ context.Context, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.requests[comment.RequestID]; !ok {
		return ErrNotFound
	}
	r.nextID++
	comment.ID = r.nextID
	comment.CreatedAt = time.Now()
	r.comments[comment.RequestID] = append(r.comments[comment.RequestID], *comment)
	return nil
}
