package repository

import (
	"context"
	"errors"

	"expense-approval/internal/expense"
	"expense-approval/internal/models"
)

var (
	// ErrDuplicateID is returned by Create when the id is already taken.
	ErrDuplicateID = errors.New("duplicate request id")
	// ErrNotFound is returned when no request matches the id.
	ErrNotFound = errors.New("request not found")
	// ErrInvalidTransition is returned by UpdateStatus when the request
	// is not Pending. Approved and Rejected are terminal.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Repository stores expense requests keyed by id. UpdateStatus is the
// single mutation point for status and refuses to move a request out of
// a terminal state regardless of what the caller checked.
type Repository interface {
	Create(ctx context.Context, req *models.ExpenseRequest) error
	Get(ctx context.Context, id string) (*models.ExpenseRequest, error)
	// List returns requests newest first, optionally filtered by status.
	List(ctx context.Context, status string) ([]models.ExpenseRequest, error)
	// UpdateStatus atomically moves a Pending request to the given
	// terminal status and stamps DecidedAt. First decision wins.
	UpdateStatus(ctx context.Context, id string, newStatus expense.Status) error
	// AddComment attaches reviewer metadata without touching status.
	AddComment(ctx context.Context, comment *models.Comment) error
}
