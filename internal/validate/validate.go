package validate

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"expense-approval/internal/expense"
)

// MaxBillAgeDays is the submission gate on bill recency. The boundary is
// inclusive: a bill exactly this old still passes.
const MaxBillAgeDays = 30

// DateLayout is the wire format for bill dates.
const DateLayout = "2006-01-02"

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Submission is a candidate expense submission as received from the
// intake, all fields still in wire form.
type Submission struct {
	Name          string
	EmployeeID    string
	ExpenseType   string
	BillDate      string
	Amount        string
	ApproverEmail string
	Attachments   []string
}

// FieldErrors maps a violated field name to its message. It collects all
// violations of one submission so the caller can render per-field
// feedback in a single pass.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "invalid fields: " + strings.Join(fields, ", ")
}

// Check validates a candidate submission against all rules at once.
// It is pure: now is passed in, nothing is mutated. Returns nil when the
// submission is valid.
func Check(now time.Time, s Submission) FieldErrors {
	fe := FieldErrors{}

	if len(strings.TrimSpace(s.Name)) < 2 {
		fe["name"] = "name must be at least 2 characters"
	}

	if strings.TrimSpace(s.EmployeeID) == "" {
		fe["employeeId"] = "employee id is required"
	}

	if !expense.ValidType(s.ExpenseType) {
		fe["expenseType"] = fmt.Sprintf("expense type must be one of: %s", joinTypes())
	}

	if msg := checkBillDate(now, s.BillDate); msg != "" {
		fe["billDate"] = msg
	}

	if msg := checkAmount(s.Amount); msg != "" {
		fe["amount"] = msg
	}

	if !emailRe.MatchString(s.ApproverEmail) {
		fe["approverEmail"] = "approver email is not a valid address"
	}

	if len(fe) == 0 {
		return nil
	}
	return fe
}

// checkBillDate parses the date and applies the recency gate. Age is
// computed in fractional days by calendar-time subtraction; exactly
// MaxBillAgeDays old is still acceptable.
func checkBillDate(now time.Time, dateStr string) string {
	if dateStr == "" {
		return "bill date is required"
	}
	d, err := time.Parse(DateLayout, dateStr)
	if err != nil {
		return "bill date must be a date in YYYY-MM-DD format"
	}
	ageDays := now.Sub(d).Hours() / 24
	if ageDays > MaxBillAgeDays {
		return fmt.Sprintf("bill date must be within %d days of submission", MaxBillAgeDays)
	}
	return ""
}

func checkAmount(s string) string {
	if s == "" {
		return "amount is required"
	}
	cents, err := expense.ParseAmount(s)
	if err != nil {
		return "amount must be a decimal number with at most 2 decimal places"
	}
	if cents <= 0 {
		return "amount must be positive"
	}
	return ""
}

func joinTypes() string {
	ts := expense.Types()
	ss := make([]string, len(ts))
	for i, t := range ts {
		ss[i] = string(t)
	}
	return strings.Join(ss, ", ")
}
