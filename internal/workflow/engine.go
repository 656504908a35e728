// Package workflow owns the expense-request lifecycle: it validates
// submissions, guards the Pending -> Approved/Rejected transition, and
// sequences the ledger append and notification side effects.
package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"expense-approval/internal/expense"
	"expense-approval/internal/ledger"
	"expense-approval/internal/models"
	"expense-approval/internal/notify"
	"expense-approval/internal/repository"
	"expense-approval/internal/validate"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Engine is the workflow state machine. It holds no UI state; the
// presentation layer calls Submit/Decide/Annotate and re-renders from
// repository queries.
type Engine struct {
	repo       repository.Repository
	recorder   ledger.Recorder
	dispatcher *notify.Dispatcher
	timeout    time.Duration
	log        *zap.Logger

	now   func() time.Time
	locks sync.Map // request id -> *sync.Mutex
}

func New(repo repository.Repository, recorder ledger.Recorder, dispatcher *notify.Dispatcher, timeout time.Duration, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Engine{
		repo:       repo,
		recorder:   recorder,
		dispatcher: dispatcher,
		timeout:    timeout,
		log:        log,
		now:        time.Now,
	}
}

// Submit validates the submission and creates a Pending request. On
// validation failure no request is created and the returned
// validate.FieldErrors lists every violated field. Warnings report
// notification failures; the request itself is already persisted.
func (e *Engine) Submit(ctx context.Context, sub validate.Submission) (*models.ExpenseRequest, []string, error) {
	if fe := validate.Check(e.now(), sub); fe != nil {
		return nil, nil, fe
	}

	// all parse errors would have been caught by validate.Check
	cents, _ := expense.ParseAmount(sub.Amount)
	billDate, _ := time.Parse(validate.DateLayout, sub.BillDate)

	var attachments string
	if len(sub.Attachments) > 0 {
		b, err := json.Marshal(sub.Attachments)
		if err != nil {
			return nil, nil, fmt.Errorf("encode attachments: %w", err)
		}
		attachments = string(b)
	}

	req := &models.ExpenseRequest{
		ID:            uuid.NewString(),
		EmployeeName:  strings.TrimSpace(sub.Name),
		EmployeeID:    strings.TrimSpace(sub.EmployeeID),
		ExpenseType:   sub.ExpenseType,
		AmountCent:    cents,
		BillDate:      billDate,
		ApproverEmail: sub.ApproverEmail,
		Status:        string(expense.StatusPending),
		Attachments:   attachments,
	}
	if err := e.repo.Create(ctx, req); err != nil {
		return nil, nil, fmt.Errorf("persist request: %w", err)
	}

	e.log.Info("request submitted",
		zap.String("request_id", req.ID),
		zap.String("employee_id", req.EmployeeID),
		zap.Int64("amount_cent", req.AmountCent))

	// both notifications fire regardless of each other's outcome
	warnings := e.dispatch(ctx, req,
		target{notify.SubmissionConfirmation, req.EmployeeID},
		target{notify.ApprovalRequest, req.ApproverEmail},
	)
	return req, warnings, nil
}

// Decide applies an approver's verdict to a Pending request. Decisions
// on the same id are serialized; the first one wins. The status change
// commits before the ledger append and decision notice run, and their
// failures surface as warnings, never as a rollback.
func (e *Engine) Decide(ctx context.Context, id, decision, comment string) (*models.ExpenseRequest, []string, error) {
	if !expense.ValidDecision(decision) {
		return nil, nil, validate.FieldErrors{"decision": "decision must be Approved or Rejected"}
	}

	mu := e.lockFor(id)
	mu.Lock()
	defer mu.Unlock()

	req, err := e.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		e.locks.Delete(id)
		return nil, nil, err
	}
	if err != nil {
		return nil, nil, err
	}
	if cur := expense.Status(req.Status); cur.Terminal() {
		// terminal requests can never be decided again; drop the entry
		// so the lock map does not grow forever
		e.locks.Delete(id)
		return nil, nil, &InvalidTransitionError{ID: id, Current: cur}
	}

	newStatus := expense.Status(decision)
	if err := e.repo.UpdateStatus(ctx, id, newStatus); err != nil {
		if errors.Is(err, repository.ErrInvalidTransition) {
			// lost a race despite the lock (e.g. another process)
			e.locks.Delete(id)
			return nil, nil, &InvalidTransitionError{ID: id, Current: expense.Status(req.Status)}
		}
		return nil, nil, fmt.Errorf("commit decision: %w", err)
	}

	// the request is terminal now; the per-id lock is no longer needed.
	// A goroutine already waiting on the old mutex re-reads the status
	// and observes the terminal state.
	e.locks.Delete(id)

	decidedAt := e.now()
	req.Status = string(newStatus)
	req.DecidedAt = &decidedAt

	e.log.Info("request decided",
		zap.String("request_id", id),
		zap.String("status", req.Status))

	var warnings []string
	if comment != "" {
		c := &models.Comment{RequestID: id, Author: req.ApproverEmail, Body: comment}
		if err := e.repo.AddComment(ctx, c); err != nil {
			warnings = append(warnings, "comment not recorded: "+err.Error())
		}
	}

	// the transition is committed; ledger and notice run concurrently
	// and cannot undo it
	rec := ledger.Record{
		Name:          req.EmployeeName,
		EmployeeID:    req.EmployeeID,
		ExpenseType:   req.ExpenseType,
		BillDate:      req.BillDate,
		AmountCent:    req.AmountCent,
		ApproverEmail: req.ApproverEmail,
		Status:        newStatus,
		DecidedAt:     decidedAt,
	}

	var (
		wg                   sync.WaitGroup
		ledgerErr, noticeErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		ledgerErr = e.bounded(ctx, func(c context.Context) error {
			return e.recorder.Append(c, rec)
		})
	}()
	go func() {
		defer wg.Done()
		noticeErr = e.bounded(ctx, func(c context.Context) error {
			return e.dispatcher.Notify(c, notify.DecisionNotice, req.EmployeeID, req)
		})
	}()
	wg.Wait()

	if ledgerErr != nil {
		e.log.Error("ledger append failed", zap.String("request_id", id), zap.Error(ledgerErr))
		warnings = append(warnings, "ledger append failed: "+ledgerErr.Error())
	}
	if noticeErr != nil {
		warnings = append(warnings, "decision notice failed: "+noticeErr.Error())
	}
	return req, warnings, nil
}

// Annotate attaches a reviewer comment without touching status. Valid
// for Pending and decided requests alike.
func (e *Engine) Annotate(ctx context.Context, id, author, body string) (*models.Comment, error) {
	if strings.TrimSpace(body) == "" {
		return nil, validate.FieldErrors{"comment": "comment is required"}
	}
	c := &models.Comment{RequestID: id, Author: author, Body: body}
	if err := e.repo.AddComment(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

type target struct {
	kind      notify.Kind
	recipient string
}

// dispatch fires all notifications concurrently and collects one
// warning per failure. Failures are independent per recipient.
func (e *Engine) dispatch(ctx context.Context, req *models.ExpenseRequest, targets ...target) []string {
	errs := make([]error, len(targets))
	var wg sync.WaitGroup
	for i, t := range targets {
		wg.Add(1)
		go func(i int, t target) {
			defer wg.Done()
			errs[i] = e.bounded(ctx, func(c context.Context) error {
				return e.dispatcher.Notify(c, t.kind, t.recipient, req)
			})
		}(i, t)
	}
	wg.Wait()

	var warnings []string
	for _, err := range errs {
		if err != nil {
			warnings = append(warnings, "notification failed: "+err.Error())
		}
	}
	return warnings
}

// bounded runs fn under the external-call timeout. A timed-out call
// counts as a failure; the abandoned attempt cannot affect state.
func (e *Engine) bounded(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- fn(ctx) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Engine) lockFor(id string) *sync.Mutex {
	v, _ := e.locks.LoadOrStore(id, &sync.Mutex{})
	return v.(*sync.Mutex)
}
