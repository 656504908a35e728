package notify

import (
	"context"
	"fmt"

	"expense-approval/internal/expense"
	"expense-approval/internal/models"

	"go.uber.org/zap"
)

// Kind classifies an outbound notification.
type Kind string

const (
	// SubmissionConfirmation tells the employee their claim was received.
	SubmissionConfirmation Kind = "SubmissionConfirmation"
	// ApprovalRequest asks the approver to review a pending claim.
	ApprovalRequest Kind = "ApprovalRequest"
	// DecisionNotice tells the employee the approver's verdict.
	DecisionNotice Kind = "DecisionNotice"
)

// Message is a rendered notification ready for a transport channel.
type Message struct {
	Kind      Kind
	Recipient string
	Subject   string
	Body      string
}

// Sender delivers one message over an external channel.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// AttemptLog persists one row per delivery attempt.
type AttemptLog interface {
	Record(ctx context.Context, attempt models.NotificationLog) error
}

// Dispatcher renders and sends workflow notifications. Every attempt is
// logged whether or not delivery succeeded; a log failure never masks
// the delivery outcome.
type Dispatcher struct {
	sender Sender
	log    AttemptLog
	zlog   *zap.Logger
}

func NewDispatcher(sender Sender, log AttemptLog, zlog *zap.Logger) *Dispatcher {
	if zlog == nil {
		zlog = zap.NewNop()
	}
	return &Dispatcher{sender: sender, log: log, zlog: zlog}
}

// Notify sends one notification about req to recipient. Failures are
// returned to the caller; they are independent per recipient and never
// affect other notifications for the same event.
func (d *Dispatcher) Notify(ctx context.Context, kind Kind, recipient string, req *models.ExpenseRequest) error {
	msg := Render(kind, recipient, req)
	sendErr := d.sender.Send(ctx, msg)

	attempt := models.NotificationLog{
		RequestID: req.ID,
		Kind:      string(kind),
		Recipient: recipient,
		Delivered: sendErr == nil,
	}
	if sendErr != nil {
		attempt.Error = sendErr.Error()
	}
	if d.log != nil {
		if err := d.log.Record(ctx, attempt); err != nil {
			d.zlog.Warn("record notification attempt",
				zap.String("request_id", req.ID),
				zap.String("kind", string(kind)),
				zap.Error(err))
		}
	}

	if sendErr != nil {
		d.zlog.Warn("notification failed",
			zap.String("request_id", req.ID),
			zap.String("kind", string(kind)),
			zap.String("recipient", recipient),
			zap.Error(sendErr))
		return fmt.Errorf("notify %s (%s): %w", recipient, kind, sendErr)
	}
	return nil
}

// Render builds the human-facing message for a notification kind.
func Render(kind Kind, recipient string, req *models.ExpenseRequest) Message {
	amount := expense.FormatCents(req.AmountCent)
	billDate := req.BillDate.Format("2006-01-02")

	msg := Message{Kind: kind, Recipient: recipient}
	switch kind {
	case SubmissionConfirmation:
		msg.Subject = fmt.Sprintf("Expense claim %s received", req.ID)
		msg.Body = fmt.Sprintf(
			"Hi %s,\n\nYour %s expense claim of %s (bill dated %s) was submitted and is awaiting approval.\n\nClaim ID: %s\n",
			req.EmployeeName, req.ExpenseType, amount, billDate, req.ID)
	case ApprovalRequest:
		msg.Subject = fmt.Sprintf("Expense claim %s awaiting your approval", req.ID)
		msg.Body = fmt.Sprintf(
			"%s (%s) submitted a %s expense claim of %s, bill dated %s.\n\nPlease review claim %s.\n",
			req.EmployeeName, req.EmployeeID, req.ExpenseType, amount, billDate, req.ID)
	case DecisionNotice:
		msg.Subject = fmt.Sprintf("Expense claim %s %s", req.ID, req.Status)
		msg.Body = fmt.Sprintf(
			"Hi %s,\n\nYour %s expense claim of %s was %s.\n\nClaim ID: %s\n",
			req.EmployeeName, req.ExpenseType, amount, req.Status, req.ID)
	}
	return msg
}
