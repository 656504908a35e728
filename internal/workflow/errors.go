package workflow

import (
	"fmt"

	"expense-approval/internal/expense"
	"expense-approval/internal/repository"
)

// InvalidTransitionError is returned when a decision targets a request
// that is no longer Pending. It names the terminal state so the caller
// can explain why the decision was refused.
type InvalidTransitionError struct {
	ID      string
	Current expense.Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("request %s is already %s; decisions are final", e.ID, e.Current)
}

// Unwrap lets errors.Is match repository.ErrInvalidTransition.
func (e *InvalidTransitionError) Unwrap() error {
	return repository.ErrInvalidTransition
}
